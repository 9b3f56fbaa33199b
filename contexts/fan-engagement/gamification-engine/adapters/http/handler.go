package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"tollyhub/contexts/fan-engagement/gamification-engine/application"
	"tollyhub/contexts/fan-engagement/gamification-engine/domain/entities"
	domainerrors "tollyhub/contexts/fan-engagement/gamification-engine/domain/errors"
	"tollyhub/contexts/fan-engagement/gamification-engine/ports"
	httptransport "tollyhub/contexts/fan-engagement/gamification-engine/transport/http"
)

const dateLayout = "2006-01-02"

// DefaultTimezone is the reference timezone for resolving "today" when the
// caller does not send one; the audience is overwhelmingly IST.
const DefaultTimezone = "Asia/Kolkata"

type Handler struct {
	Service application.Service
	// Timezone overrides DefaultTimezone for resolving "today" when the
	// request carries no timezone of its own.
	Timezone string
	Logger   *slog.Logger
}

func (h Handler) GrantPointsHandler(
	ctx context.Context,
	req httptransport.GrantPointsRequest,
) (httptransport.GrantPointsResponse, error) {
	input := application.GrantInput{
		UserID:    req.UserID,
		Action:    entities.PointAction(strings.TrimSpace(req.Action)),
		SubjectID: req.SubjectID,
	}
	if strings.TrimSpace(req.OccurredAt) != "" {
		occurredAt, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			return httptransport.GrantPointsResponse{}, domainerrors.ErrInvalidInput
		}
		input.OccurredAt = occurredAt
	}

	result, err := h.Service.Grant(ctx, input)
	if err != nil {
		return httptransport.GrantPointsResponse{}, err
	}

	resp := httptransport.GrantPointsResponse{
		Status:    "success",
		Duplicate: result.Duplicate,
	}
	resp.Data.EntryID = result.Entry.EntryID
	resp.Data.UserID = result.Entry.UserID
	resp.Data.Action = string(result.Entry.Action)
	resp.Data.SubjectID = result.Entry.SubjectID
	resp.Data.Points = result.Entry.Points
	resp.Data.TotalPoints = result.TotalPoints
	resp.Data.Level = result.Level
	resp.Data.ProgressToNext = result.ProgressToNext
	resp.Data.NewBadges = result.NewBadges
	resp.Data.GrantedAt = result.Entry.GrantedAt.UTC().Format(time.RFC3339)
	return resp, nil
}

func (h Handler) CheckInHandler(
	ctx context.Context,
	req httptransport.CheckInRequest,
) (httptransport.StreakResponse, error) {
	var result application.CheckInResult
	var err error
	if strings.TrimSpace(req.Date) != "" {
		today, parseErr := time.Parse(dateLayout, strings.TrimSpace(req.Date))
		if parseErr != nil {
			return httptransport.StreakResponse{}, domainerrors.ErrInvalidInput
		}
		result, err = h.Service.CheckIn(ctx, req.UserID, today)
	} else {
		loc, locErr := h.resolveTimezone(req.Timezone)
		if locErr != nil {
			return httptransport.StreakResponse{}, domainerrors.ErrInvalidInput
		}
		result, err = h.Service.CheckInToday(ctx, req.UserID, loc)
	}
	if err != nil {
		return httptransport.StreakResponse{}, err
	}

	resp := httptransport.StreakResponse{Status: "success"}
	resp.Data.UserID = result.Streak.UserID
	resp.Data.CurrentStreak = result.Streak.CurrentStreak
	resp.Data.LongestStreak = result.Streak.LongestStreak
	if !result.Streak.LastCheckInDate.IsZero() {
		resp.Data.LastCheckInDate = result.Streak.LastCheckInDate.Format(dateLayout)
	}
	resp.Data.StreakStatus = string(result.Status)
	resp.Data.ActiveToday = result.Status == entities.StreakStatusActiveToday
	resp.Data.NewBadges = result.NewBadges
	return resp, nil
}

func (h Handler) GetUserSummaryHandler(
	ctx context.Context,
	userID string,
	timezone string,
) (httptransport.UserSummaryResponse, error) {
	loc, err := h.resolveTimezone(timezone)
	if err != nil {
		return httptransport.UserSummaryResponse{}, domainerrors.ErrInvalidInput
	}
	summary, err := h.Service.GetUserSummary(ctx, userID, h.Service.Today(loc))
	if err != nil {
		return httptransport.UserSummaryResponse{}, err
	}

	resp := httptransport.UserSummaryResponse{Status: "success"}
	resp.Data.UserID = summary.UserID
	resp.Data.TotalPoints = summary.TotalPoints
	resp.Data.Level = summary.Level
	resp.Data.ProgressToNext = summary.ProgressToNext
	resp.Data.CurrentStreak = summary.Streak.CurrentStreak
	resp.Data.LongestStreak = summary.Streak.LongestStreak
	resp.Data.StreakStatus = string(summary.StreakStatus)
	if !summary.Streak.LastCheckInDate.IsZero() {
		resp.Data.LastCheckInDate = summary.Streak.LastCheckInDate.Format(dateLayout)
	}
	resp.Data.Badges = make([]string, 0, len(summary.Badges))
	for _, badge := range summary.Badges {
		resp.Data.Badges = append(resp.Data.Badges, badge.BadgeKey)
	}
	return resp, nil
}

// ActiveTodayHandler answers the display-layer question "did this user
// check in today" without touching streak state.
func (h Handler) ActiveTodayHandler(
	ctx context.Context,
	userID string,
	date string,
	timezone string,
) (httptransport.ActiveTodayResponse, error) {
	var today time.Time
	if strings.TrimSpace(date) != "" {
		parsed, err := time.Parse(dateLayout, strings.TrimSpace(date))
		if err != nil {
			return httptransport.ActiveTodayResponse{}, domainerrors.ErrInvalidInput
		}
		today = parsed
	} else {
		loc, err := h.resolveTimezone(timezone)
		if err != nil {
			return httptransport.ActiveTodayResponse{}, domainerrors.ErrInvalidInput
		}
		today = h.Service.Today(loc)
	}

	active, err := h.Service.IsActiveToday(ctx, userID, today)
	if err != nil {
		return httptransport.ActiveTodayResponse{}, err
	}

	resp := httptransport.ActiveTodayResponse{Status: "success"}
	resp.Data.UserID = strings.TrimSpace(userID)
	resp.Data.Date = entities.DateOf(today).Format(dateLayout)
	resp.Data.ActiveToday = active
	return resp, nil
}

func (h Handler) GetHistoryHandler(
	ctx context.Context,
	userID string,
	limit int,
	cursor string,
) (httptransport.HistoryResponse, error) {
	page, err := h.Service.HistoryFor(ctx, userID, limit, cursor)
	if err != nil {
		return httptransport.HistoryResponse{}, err
	}

	resp := httptransport.HistoryResponse{
		Status:     "success",
		Data:       make([]httptransport.LedgerEntryDTO, 0, len(page.Entries)),
		NextCursor: page.NextCursor,
	}
	for _, entry := range page.Entries {
		resp.Data = append(resp.Data, httptransport.LedgerEntryDTO{
			EntryID:   entry.EntryID,
			Action:    string(entry.Action),
			SubjectID: entry.SubjectID,
			Points:    entry.Points,
			GrantedAt: entry.GrantedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (h Handler) GetLeaderboardHandler(
	ctx context.Context,
	window *ports.Window,
	limit int,
	offset int,
) (httptransport.LeaderboardResponse, error) {
	items, err := h.Service.Leaderboard(ctx, window, limit, offset)
	if err != nil {
		return httptransport.LeaderboardResponse{}, err
	}

	scope := "all_time"
	if window != nil {
		scope = "window"
	}
	resp := httptransport.LeaderboardResponse{
		Status: "success",
		Scope:  scope,
		Data:   make([]httptransport.LeaderboardEntryDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, httptransport.LeaderboardEntryDTO{
			Rank:          item.Rank,
			UserID:        item.UserID,
			TotalPoints:   item.TotalPoints,
			Level:         item.Level,
			LongestStreak: item.LongestStreak,
		})
	}
	return resp, nil
}

func (h Handler) resolveTimezone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(h.Timezone)
	}
	if name == "" {
		name = DefaultTimezone
	}
	return time.LoadLocation(name)
}
