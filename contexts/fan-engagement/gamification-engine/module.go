package gamificationengine

import (
	"log/slog"

	httpadapter "tollyhub/contexts/fan-engagement/gamification-engine/adapters/http"
	"tollyhub/contexts/fan-engagement/gamification-engine/adapters/memory"
	"tollyhub/contexts/fan-engagement/gamification-engine/application"
	"tollyhub/contexts/fan-engagement/gamification-engine/domain/services"
	"tollyhub/contexts/fan-engagement/gamification-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Ledger                 ports.LedgerRepository
	Streaks                ports.StreakRepository
	Badges                 ports.BadgeRepository
	Catalog                services.Catalog
	Levels                 services.LevelTable
	Clock                  ports.Clock
	IDGenerator            ports.IDGenerator
	ReferenceTimezone      string
	DisableMilestoneBadges bool
	Logger                 *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Ledger:                 deps.Ledger,
		Streaks:                deps.Streaks,
		Badges:                 deps.Badges,
		Catalog:                deps.Catalog,
		Levels:                 deps.Levels,
		Clock:                  deps.Clock,
		IDGen:                  deps.IDGenerator,
		DisableMilestoneBadges: deps.DisableMilestoneBadges,
		Logger:                 deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service:  service,
			Timezone: deps.ReferenceTimezone,
			Logger:   deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Ledger:      store,
		Streaks:     store,
		Badges:      store,
		Catalog:     services.DefaultCatalog(),
		Levels:      services.DefaultLevelTable(),
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
