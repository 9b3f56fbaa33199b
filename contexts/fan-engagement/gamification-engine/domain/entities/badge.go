package entities

import "time"

// BadgeGrant records one milestone badge for one user. Grants are idempotent
// per (user, badge key).
type BadgeGrant struct {
	BadgeID   string
	UserID    string
	BadgeKey  string
	Reason    string
	GrantedAt time.Time
}

var levelMilestones = map[int]string{
	5:  "level_5",
	10: "level_10",
}

var streakMilestones = map[int]string{
	7:  "streak_7",
	30: "streak_30",
}

// LevelMilestoneBadges lists badge keys earned by moving from one level to a
// higher one. Levels never decrease, so each key can only be earned once.
func LevelMilestoneBadges(previousLevel, currentLevel int) []string {
	var keys []string
	for level := previousLevel + 1; level <= currentLevel; level++ {
		if key, ok := levelMilestones[level]; ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// StreakMilestoneBadges lists badge keys earned by extending a streak.
// A broken and rebuilt streak passes the same milestones again, but the
// per-key upsert keeps the grant unique.
func StreakMilestoneBadges(previousStreak, currentStreak int) []string {
	var keys []string
	for length := previousStreak + 1; length <= currentStreak; length++ {
		if key, ok := streakMilestones[length]; ok {
			keys = append(keys, key)
		}
	}
	return keys
}
