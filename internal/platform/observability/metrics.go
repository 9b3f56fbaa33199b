package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PointsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tollyhub_engagement_points_granted_total",
		Help: "Ledger entries created, labeled by action kind.",
	}, []string{"action"})

	DuplicateGrants = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tollyhub_engagement_duplicate_grants_total",
		Help: "Grant calls that replayed an existing ledger entry.",
	})

	StreakCheckIns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tollyhub_engagement_streak_check_ins_total",
		Help: "Accepted streak check-in calls, including same-day repeats.",
	})
)

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
