package services

import (
	domainerrors "tollyhub/contexts/fan-engagement/gamification-engine/domain/errors"
)

// LevelTable holds the ascending cumulative point thresholds that define
// level boundaries. thresholds[0] is level 1's minimum and must be zero so
// every total maps to a level.
type LevelTable struct {
	thresholds []int
}

func NewLevelTable(thresholds []int) (LevelTable, error) {
	if len(thresholds) == 0 || thresholds[0] != 0 {
		return LevelTable{}, domainerrors.ErrInvalidLevelTable
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] <= thresholds[i-1] {
			return LevelTable{}, domainerrors.ErrInvalidLevelTable
		}
	}
	copied := append([]int(nil), thresholds...)
	return LevelTable{thresholds: copied}, nil
}

func DefaultLevelTable() LevelTable {
	table, _ := NewLevelTable([]int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500})
	return table
}

// LevelOf maps a point total to the largest level whose threshold is met.
// Totals only grow, so the resolved level never decreases.
func (t LevelTable) LevelOf(totalPoints int) int {
	level := 1
	for i := 1; i < len(t.thresholds); i++ {
		if totalPoints < t.thresholds[i] {
			break
		}
		level = i + 1
	}
	return level
}

// ProgressToNext reports the fraction of the current level band covered, as
// a percentage clamped to [0,100]. At the final defined level there is no
// next threshold and progress pins at 100.
func (t LevelTable) ProgressToNext(totalPoints int) float64 {
	level := t.LevelOf(totalPoints)
	if level >= len(t.thresholds) {
		return 100
	}
	floor := t.thresholds[level-1]
	ceil := t.thresholds[level]
	progress := float64(totalPoints-floor) / float64(ceil-floor) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

func (t LevelTable) MaxLevel() int {
	return len(t.thresholds)
}
