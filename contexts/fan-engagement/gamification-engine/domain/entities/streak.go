package entities

import (
	"time"
)

type StreakStatus string

const (
	StreakStatusNoHistory   StreakStatus = "no_history"
	StreakStatusActiveToday StreakStatus = "active_today"
	StreakStatusAtRisk      StreakStatus = "at_risk"
	StreakStatusBroken      StreakStatus = "broken"
)

// StreakState tracks consecutive-day engagement for one user.
// LastCheckInDate is a calendar date normalized to UTC midnight; a zero value
// means the user has never checked in.
type StreakState struct {
	UserID          string
	CurrentStreak   int
	LongestStreak   int
	LastCheckInDate time.Time
	UpdatedAt       time.Time
}

// ApplyCheckIn runs the daily transition for an already-resolved calendar
// date and reports whether state changed. Same-day re-check-in is a no-op,
// so concurrent check-ins for one day converge regardless of arrival order.
func (s StreakState) ApplyCheckIn(today time.Time) (StreakState, bool) {
	today = DateOf(today)

	if !s.LastCheckInDate.IsZero() && s.LastCheckInDate.Equal(today) {
		return s, false
	}

	next := s
	switch {
	case !s.LastCheckInDate.IsZero() && s.LastCheckInDate.Equal(today.AddDate(0, 0, -1)):
		next.CurrentStreak = s.CurrentStreak + 1
	default:
		// Gap of two or more days, first check-in ever, or a backdated call.
		next.CurrentStreak = 1
	}
	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.LastCheckInDate = today
	return next, true
}

// StatusOn derives the display status for a given day without mutating state.
func (s StreakState) StatusOn(today time.Time) StreakStatus {
	today = DateOf(today)
	switch {
	case s.LastCheckInDate.IsZero():
		return StreakStatusNoHistory
	case s.LastCheckInDate.Equal(today):
		return StreakStatusActiveToday
	case s.LastCheckInDate.Equal(today.AddDate(0, 0, -1)):
		return StreakStatusAtRisk
	default:
		return StreakStatusBroken
	}
}

func (s StreakState) IsActiveOn(today time.Time) bool {
	return s.StatusOn(today) == StreakStatusActiveToday
}

// DateOf truncates an instant to its calendar date, kept at UTC midnight so
// date equality is a plain time comparison.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateIn resolves the calendar date of an instant in the caller's reference
// timezone. Streak math itself never sees a timezone, only resolved dates.
func DateIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
