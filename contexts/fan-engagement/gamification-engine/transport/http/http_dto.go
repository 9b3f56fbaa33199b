package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GrantPointsRequest struct {
	UserID     string `json:"user_id"`
	Action     string `json:"action"`
	SubjectID  string `json:"subject_id"`
	OccurredAt string `json:"occurred_at,omitempty"`
}

type GrantPointsResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Data      struct {
		EntryID        string   `json:"entry_id"`
		UserID         string   `json:"user_id"`
		Action         string   `json:"action"`
		SubjectID      string   `json:"subject_id"`
		Points         int      `json:"points"`
		TotalPoints    int      `json:"total_points"`
		Level          int      `json:"level"`
		ProgressToNext float64  `json:"progress_to_next"`
		NewBadges      []string `json:"new_badges,omitempty"`
		GrantedAt      string   `json:"granted_at"`
	} `json:"data"`
}

type CheckInRequest struct {
	UserID   string `json:"user_id"`
	Date     string `json:"date,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

type StreakResponse struct {
	Status string `json:"status"`
	Data   struct {
		UserID          string   `json:"user_id"`
		CurrentStreak   int      `json:"current_streak"`
		LongestStreak   int      `json:"longest_streak"`
		LastCheckInDate string   `json:"last_check_in_date,omitempty"`
		StreakStatus    string   `json:"streak_status"`
		ActiveToday     bool     `json:"active_today"`
		NewBadges       []string `json:"new_badges,omitempty"`
	} `json:"data"`
}

type UserSummaryResponse struct {
	Status string `json:"status"`
	Data   struct {
		UserID          string   `json:"user_id"`
		TotalPoints     int      `json:"total_points"`
		Level           int      `json:"level"`
		ProgressToNext  float64  `json:"progress_to_next"`
		CurrentStreak   int      `json:"current_streak"`
		LongestStreak   int      `json:"longest_streak"`
		StreakStatus    string   `json:"streak_status"`
		LastCheckInDate string   `json:"last_check_in_date,omitempty"`
		Badges          []string `json:"badges"`
	} `json:"data"`
}

type ActiveTodayResponse struct {
	Status string `json:"status"`
	Data   struct {
		UserID      string `json:"user_id"`
		Date        string `json:"date"`
		ActiveToday bool   `json:"active_today"`
	} `json:"data"`
}

type LedgerEntryDTO struct {
	EntryID   string `json:"entry_id"`
	Action    string `json:"action"`
	SubjectID string `json:"subject_id"`
	Points    int    `json:"points"`
	GrantedAt string `json:"granted_at"`
}

type HistoryResponse struct {
	Status     string           `json:"status"`
	Data       []LedgerEntryDTO `json:"data"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

type LeaderboardEntryDTO struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"user_id"`
	TotalPoints   int    `json:"total_points"`
	Level         int    `json:"level"`
	LongestStreak int    `json:"longest_streak"`
}

type LeaderboardResponse struct {
	Status string                `json:"status"`
	Scope  string                `json:"scope"`
	Data   []LeaderboardEntryDTO `json:"data"`
}
