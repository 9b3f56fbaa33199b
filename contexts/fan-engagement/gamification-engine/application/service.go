package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"tollyhub/contexts/fan-engagement/gamification-engine/domain/entities"
	domainerrors "tollyhub/contexts/fan-engagement/gamification-engine/domain/errors"
	"tollyhub/contexts/fan-engagement/gamification-engine/domain/services"
	"tollyhub/contexts/fan-engagement/gamification-engine/ports"
)

const (
	defaultHistoryLimit     = 20
	maxHistoryLimit         = 100
	defaultLeaderboardLimit = 50
)

type Service struct {
	Ledger                 ports.LedgerRepository
	Streaks                ports.StreakRepository
	Badges                 ports.BadgeRepository
	Catalog                services.Catalog
	Levels                 services.LevelTable
	Clock                  ports.Clock
	IDGen                  ports.IDGenerator
	DisableMilestoneBadges bool
	Logger                 *slog.Logger
}

type GrantInput struct {
	UserID     string
	Action     entities.PointAction
	SubjectID  string
	OccurredAt time.Time
}

type GrantResult struct {
	Entry          entities.LedgerEntry
	TotalPoints    int
	Level          int
	ProgressToNext float64
	NewBadges      []string
	Duplicate      bool
}

type CheckInResult struct {
	Streak    entities.StreakState
	Status    entities.StreakStatus
	NewBadges []string
	Extended  bool
}

type HistoryPage struct {
	Entries    []entities.LedgerEntry
	NextCursor string
}

type UserSummary struct {
	UserID         string
	TotalPoints    int
	Level          int
	ProgressToNext float64
	Streak         entities.StreakState
	StreakStatus   entities.StreakStatus
	Badges         []entities.BadgeGrant
}

type LeaderboardEntry struct {
	Rank          int
	UserID        string
	TotalPoints   int
	Level         int
	LongestStreak int
}

// Grant converts one confirmed user action into points. Grants are
// idempotent, not additive, under idempotency-key collision: a repeat call
// for the same (user, action, subject) returns the original entry with
// Duplicate set and credits nothing.
func (s Service) Grant(ctx context.Context, input GrantInput) (GrantResult, error) {
	userID := strings.TrimSpace(input.UserID)
	subjectID := strings.TrimSpace(input.SubjectID)
	if userID == "" || subjectID == "" {
		return GrantResult{}, domainerrors.ErrInvalidInput
	}
	points, err := s.Catalog.ValueOf(input.Action)
	if err != nil {
		return GrantResult{}, err
	}

	key := entities.IdempotencyKey(userID, input.Action, subjectID)
	if existing, found, err := s.Ledger.GetEntryByIdempotencyKey(ctx, key); err != nil {
		return GrantResult{}, err
	} else if found {
		return s.duplicateResult(ctx, existing)
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.now()
	}
	entryID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return GrantResult{}, err
	}
	entry, err := entities.NewLedgerEntry(entryID, userID, input.Action, subjectID, points, occurredAt)
	if err != nil {
		return GrantResult{}, err
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return GrantResult{}, err
	}

	inserted, err := s.Ledger.CreateEntryWithOutbox(ctx, entry, ports.PointsGrantedEvent{
		EventID:    eventID,
		EntryID:    entry.EntryID,
		UserID:     entry.UserID,
		Action:     entry.Action,
		Points:     entry.Points,
		OccurredAt: entry.GrantedAt,
	})
	if err != nil {
		return GrantResult{}, err
	}
	if !inserted {
		// Lost a concurrent race for the same key; the winner's entry stands.
		existing, found, err := s.Ledger.GetEntryByIdempotencyKey(ctx, key)
		if err != nil {
			return GrantResult{}, err
		}
		if !found {
			return GrantResult{}, domainerrors.ErrInvalidInput
		}
		return s.duplicateResult(ctx, existing)
	}

	total, err := s.Ledger.TotalFor(ctx, userID)
	if err != nil {
		return GrantResult{}, err
	}
	level := s.Levels.LevelOf(total)
	previousLevel := s.Levels.LevelOf(total - entry.Points)

	newBadges, err := s.grantBadges(ctx, userID, entities.LevelMilestoneBadges(previousLevel, level), entry.GrantedAt)
	if err != nil {
		return GrantResult{}, err
	}

	ResolveLogger(s.Logger).Info("engagement points granted",
		"event", "engagement_points_granted",
		"module", "fan-engagement/gamification-engine",
		"layer", "application",
		"user_id", userID,
		"action", string(entry.Action),
		"points", entry.Points,
		"total_points", total,
		"level", level,
	)

	return GrantResult{
		Entry:          entry,
		TotalPoints:    total,
		Level:          level,
		ProgressToNext: s.Levels.ProgressToNext(total),
		NewBadges:      newBadges,
	}, nil
}

func (s Service) duplicateResult(ctx context.Context, entry entities.LedgerEntry) (GrantResult, error) {
	total, err := s.Ledger.TotalFor(ctx, entry.UserID)
	if err != nil {
		return GrantResult{}, err
	}
	return GrantResult{
		Entry:          entry,
		TotalPoints:    total,
		Level:          s.Levels.LevelOf(total),
		ProgressToNext: s.Levels.ProgressToNext(total),
		Duplicate:      true,
	}, nil
}

func (s Service) TotalFor(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, domainerrors.ErrInvalidInput
	}
	return s.Ledger.TotalFor(ctx, userID)
}

func (s Service) HistoryFor(ctx context.Context, userID string, limit int, cursor string) (HistoryPage, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return HistoryPage{}, domainerrors.ErrInvalidInput
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	entries, nextCursor, err := s.Ledger.ListEntries(ctx, userID, limit, cursor)
	if err != nil {
		return HistoryPage{}, err
	}
	return HistoryPage{Entries: entries, NextCursor: nextCursor}, nil
}

// CheckIn advances, holds, or resets the user's streak for an
// already-resolved calendar date. Same-day repeats leave state untouched.
func (s Service) CheckIn(ctx context.Context, userID string, today time.Time) (CheckInResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || today.IsZero() {
		return CheckInResult{}, domainerrors.ErrInvalidInput
	}
	today = entities.DateOf(today)

	state, found, err := s.Streaks.GetStreak(ctx, userID)
	if err != nil {
		return CheckInResult{}, err
	}
	if !found {
		state = entities.StreakState{UserID: userID}
	}

	previousStreak := state.CurrentStreak
	next, changed := state.ApplyCheckIn(today)
	if !changed {
		return CheckInResult{
			Streak: next,
			Status: next.StatusOn(today),
		}, nil
	}
	next.UpdatedAt = s.now()
	if err := s.Streaks.SaveStreak(ctx, next); err != nil {
		return CheckInResult{}, err
	}

	milestoneFloor := previousStreak
	if next.CurrentStreak <= previousStreak {
		milestoneFloor = 0
	}
	newBadges, err := s.grantBadges(ctx, userID, entities.StreakMilestoneBadges(milestoneFloor, next.CurrentStreak), next.UpdatedAt)
	if err != nil {
		return CheckInResult{}, err
	}

	ResolveLogger(s.Logger).Info("engagement streak checked in",
		"event", "engagement_streak_check_in",
		"module", "fan-engagement/gamification-engine",
		"layer", "application",
		"user_id", userID,
		"current_streak", next.CurrentStreak,
		"longest_streak", next.LongestStreak,
	)

	return CheckInResult{
		Streak:    next,
		Status:    next.StatusOn(today),
		NewBadges: newBadges,
		Extended:  next.CurrentStreak > previousStreak,
	}, nil
}

// CheckInToday resolves "today" from the service clock in the caller's
// reference timezone before running the daily transition.
func (s Service) CheckInToday(ctx context.Context, userID string, loc *time.Location) (CheckInResult, error) {
	return s.CheckIn(ctx, userID, entities.DateIn(s.now(), loc))
}

func (s Service) IsActiveToday(ctx context.Context, userID string, today time.Time) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || today.IsZero() {
		return false, domainerrors.ErrInvalidInput
	}
	state, found, err := s.Streaks.GetStreak(ctx, userID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return state.IsActiveOn(today), nil
}

// Today resolves the current calendar date in the given reference timezone.
func (s Service) Today(loc *time.Location) time.Time {
	return entities.DateIn(s.now(), loc)
}

func (s Service) GetUserSummary(ctx context.Context, userID string, today time.Time) (UserSummary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || today.IsZero() {
		return UserSummary{}, domainerrors.ErrInvalidInput
	}

	total, err := s.Ledger.TotalFor(ctx, userID)
	if err != nil {
		return UserSummary{}, err
	}
	state, found, err := s.Streaks.GetStreak(ctx, userID)
	if err != nil {
		return UserSummary{}, err
	}
	if !found {
		state = entities.StreakState{UserID: userID}
	}
	badges, err := s.Badges.ListUserBadges(ctx, userID)
	if err != nil {
		return UserSummary{}, err
	}

	status := state.StatusOn(entities.DateOf(today))
	if status == entities.StreakStatusBroken {
		// A lapsed streak reads as zero until the next check-in resets it;
		// the stored value only matters for the reset transition.
		state.CurrentStreak = 0
	}

	return UserSummary{
		UserID:         userID,
		TotalPoints:    total,
		Level:          s.Levels.LevelOf(total),
		ProgressToNext: s.Levels.ProgressToNext(total),
		Streak:         state,
		StreakStatus:   status,
		Badges:         badges,
	}, nil
}

// Leaderboard ranks users by point total for the given scope; a nil window
// means all-time. Ties break by longest streak descending, then user ID
// ascending, so the ordering is fully deterministic and ranks are dense.
// The result is recomputed from repository reads on every call.
func (s Service) Leaderboard(ctx context.Context, window *ports.Window, limit int, offset int) ([]LeaderboardEntry, error) {
	if window != nil && !window.Start.Before(window.End) {
		return nil, domainerrors.ErrInvalidWindow
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if offset < 0 {
		offset = 0
	}

	totals, err := s.Ledger.WindowTotals(ctx, window)
	if err != nil {
		return nil, err
	}
	userIDs := make([]string, 0, len(totals))
	for _, total := range totals {
		userIDs = append(userIDs, total.UserID)
	}
	streaks, err := s.Streaks.ListStreaks(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(totals))
	for _, total := range totals {
		entries = append(entries, LeaderboardEntry{
			UserID:        total.UserID,
			TotalPoints:   total.TotalPoints,
			Level:         s.Levels.LevelOf(total.TotalPoints),
			LongestStreak: streaks[total.UserID].LongestStreak,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		if entries[i].LongestStreak != entries[j].LongestStreak {
			return entries[i].LongestStreak > entries[j].LongestStreak
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if offset >= len(entries) {
		return []LeaderboardEntry{}, nil
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	return append([]LeaderboardEntry(nil), entries[offset:end]...), nil
}

func (s Service) grantBadges(ctx context.Context, userID string, keys []string, grantedAt time.Time) ([]string, error) {
	if s.DisableMilestoneBadges || len(keys) == 0 {
		return nil, nil
	}
	var granted []string
	for _, key := range keys {
		badgeID, err := s.IDGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		_, existed, err := s.Badges.UpsertBadge(ctx, entities.BadgeGrant{
			BadgeID:   badgeID,
			UserID:    userID,
			BadgeKey:  key,
			Reason:    "milestone",
			GrantedAt: grantedAt.UTC(),
		})
		if err != nil {
			return nil, err
		}
		if !existed {
			granted = append(granted, key)
		}
	}
	return granted, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
