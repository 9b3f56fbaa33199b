package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	gamificationengine "tollyhub/contexts/fan-engagement/gamification-engine"
	"tollyhub/internal/platform/observability"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "tollyhub/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	engagement gamificationengine.Module
}

func New(
	engagement gamificationengine.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		engagement: engagement,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("/metrics", observability.MetricsHandler())

	s.mux.HandleFunc("POST /api/v1/engagement/points/grant", s.handleGrantPoints)
	s.mux.HandleFunc("POST /api/v1/engagement/streaks/check-in", s.handleStreakCheckIn)
	s.mux.HandleFunc("GET /api/v1/engagement/users/{user_id}/summary", s.handleUserSummary)
	s.mux.HandleFunc("GET /api/v1/engagement/users/{user_id}/history", s.handleUserHistory)
	s.mux.HandleFunc("GET /api/v1/engagement/users/{user_id}/active-today", s.handleActiveToday)
	s.mux.HandleFunc("GET /api/v1/engagement/leaderboard", s.handleLeaderboard)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
