// Package gamificationengine contains the Tollyhub gamification engine:
// the points ledger, level resolution, streak tracking, milestone badges,
// and leaderboard ranking behind the fan-engagement surfaces.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package gamificationengine
