package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	engagementerrors "tollyhub/contexts/fan-engagement/gamification-engine/domain/errors"
	"tollyhub/contexts/fan-engagement/gamification-engine/ports"
	engagementhttp "tollyhub/contexts/fan-engagement/gamification-engine/transport/http"
	"tollyhub/internal/platform/observability"
)

func writeEngagementError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, engagementhttp.ErrorResponse{Code: code, Message: message})
}

func writeEngagementDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engagementerrors.ErrUnknownActionKind):
		writeEngagementError(w, http.StatusBadRequest, "unknown_action_kind", err.Error())
	case errors.Is(err, engagementerrors.ErrInvalidInput):
		writeEngagementError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, engagementerrors.ErrInvalidCursor):
		writeEngagementError(w, http.StatusBadRequest, "invalid_cursor", err.Error())
	case errors.Is(err, engagementerrors.ErrInvalidWindow):
		writeEngagementError(w, http.StatusBadRequest, "invalid_window", err.Error())
	default:
		writeEngagementError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireEngagementAuthorization(w http.ResponseWriter, r *http.Request) bool {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		writeEngagementError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return false
	}
	return true
}

func requireEngagementRequestID(w http.ResponseWriter, r *http.Request) bool {
	if strings.TrimSpace(r.Header.Get("X-Request-Id")) == "" {
		writeEngagementError(w, http.StatusBadRequest, "missing_request_id", "X-Request-Id header is required")
		return false
	}
	return true
}

func (s *Server) handleGrantPoints(w http.ResponseWriter, r *http.Request) {
	if !requireEngagementAuthorization(w, r) || !requireEngagementRequestID(w, r) {
		return
	}

	var req engagementhttp.GrantPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEngagementError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	resp, err := s.engagement.Handler.GrantPointsHandler(r.Context(), req)
	if err != nil {
		writeEngagementDomainError(w, err)
		return
	}

	if resp.Duplicate {
		observability.DuplicateGrants.Inc()
	} else {
		observability.PointsGranted.WithLabelValues(resp.Data.Action).Inc()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStreakCheckIn(w http.ResponseWriter, r *http.Request) {
	if !requireEngagementAuthorization(w, r) || !requireEngagementRequestID(w, r) {
		return
	}

	var req engagementhttp.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEngagementError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	resp, err := s.engagement.Handler.CheckInHandler(r.Context(), req)
	if err != nil {
		writeEngagementDomainError(w, err)
		return
	}

	observability.StreakCheckIns.Inc()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUserSummary(w http.ResponseWriter, r *http.Request) {
	if !requireEngagementAuthorization(w, r) || !requireEngagementRequestID(w, r) {
		return
	}

	userID := strings.TrimSpace(r.PathValue("user_id"))
	if userID == "" {
		writeEngagementError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	resp, err := s.engagement.Handler.GetUserSummaryHandler(r.Context(), userID, r.URL.Query().Get("timezone"))
	if err != nil {
		writeEngagementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUserHistory(w http.ResponseWriter, r *http.Request) {
	if !requireEngagementAuthorization(w, r) || !requireEngagementRequestID(w, r) {
		return
	}

	userID := strings.TrimSpace(r.PathValue("user_id"))
	if userID == "" {
		writeEngagementError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	query := r.URL.Query()
	limit := 0
	if limitRaw := query.Get("limit"); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeEngagementError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := s.engagement.Handler.GetHistoryHandler(r.Context(), userID, limit, query.Get("cursor"))
	if err != nil {
		writeEngagementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActiveToday(w http.ResponseWriter, r *http.Request) {
	if !requireEngagementAuthorization(w, r) || !requireEngagementRequestID(w, r) {
		return
	}

	userID := strings.TrimSpace(r.PathValue("user_id"))
	if userID == "" {
		writeEngagementError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	query := r.URL.Query()
	resp, err := s.engagement.Handler.ActiveTodayHandler(
		r.Context(),
		userID,
		query.Get("date"),
		query.Get("timezone"),
	)
	if err != nil {
		writeEngagementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if !requireEngagementAuthorization(w, r) || !requireEngagementRequestID(w, r) {
		return
	}

	query := r.URL.Query()
	window, ok := resolveLeaderboardWindow(w, query.Get("scope"), query.Get("start"), query.Get("end"))
	if !ok {
		return
	}

	limit := 0
	if limitRaw := query.Get("limit"); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeEngagementError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}
	offset := 0
	if offsetRaw := query.Get("offset"); offsetRaw != "" {
		parsed, err := strconv.Atoi(offsetRaw)
		if err != nil {
			writeEngagementError(w, http.StatusBadRequest, "invalid_offset", "offset must be an integer")
			return
		}
		offset = parsed
	}

	resp, err := s.engagement.Handler.GetLeaderboardHandler(r.Context(), window, limit, offset)
	if err != nil {
		writeEngagementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolveLeaderboardWindow maps a scope parameter to a ledger time range.
// weekly and monthly are rolling windows ending now; window takes explicit
// RFC3339 bounds.
func resolveLeaderboardWindow(
	w http.ResponseWriter,
	scope string,
	startRaw string,
	endRaw string,
) (*ports.Window, bool) {
	switch strings.TrimSpace(scope) {
	case "", "all_time":
		return nil, true
	case "weekly":
		now := time.Now().UTC()
		return &ports.Window{Start: now.AddDate(0, 0, -7), End: now}, true
	case "monthly":
		now := time.Now().UTC()
		return &ports.Window{Start: now.AddDate(0, -1, 0), End: now}, true
	case "window":
		start, err := time.Parse(time.RFC3339, startRaw)
		if err != nil {
			writeEngagementError(w, http.StatusBadRequest, "invalid_window", "start must be RFC3339")
			return nil, false
		}
		end, err := time.Parse(time.RFC3339, endRaw)
		if err != nil {
			writeEngagementError(w, http.StatusBadRequest, "invalid_window", "end must be RFC3339")
			return nil, false
		}
		return &ports.Window{Start: start, End: end}, true
	default:
		writeEngagementError(w, http.StatusBadRequest, "invalid_scope", "scope must be all_time, weekly, monthly or window")
		return nil, false
	}
}
