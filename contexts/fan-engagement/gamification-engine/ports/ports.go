package ports

import (
	"context"
	"encoding/json"
	"time"

	"tollyhub/contexts/fan-engagement/gamification-engine/domain/entities"
)

// Window is a half-open [Start, End) time range for scoped leaderboards.
type Window struct {
	Start time.Time
	End   time.Time
}

type UserTotal struct {
	UserID      string
	TotalPoints int
}

// PointsGrantedEvent is the outbox payload written atomically with a new
// ledger entry and relayed to the bus by the worker.
type PointsGrantedEvent struct {
	EventID    string
	EntryID    string
	UserID     string
	Action     entities.PointAction
	Points     int
	OccurredAt time.Time
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	Status    string
	CreatedAt time.Time
}

type EventEnvelope struct {
	EventID        string          `json:"event_id"`
	EventType      string          `json:"event_type"`
	SourceService  string          `json:"source_service"`
	OccurredAtUTC  time.Time       `json:"occurred_at_utc"`
	EntityType     string          `json:"entity_type"`
	EntityID       string          `json:"entity_id"`
	PayloadVersion int             `json:"payload_version"`
	Data           json.RawMessage `json:"data"`
}

// LedgerRepository owns point history. Entries are append-only; the insert
// is atomic under a uniqueness constraint on the idempotency key so a losing
// concurrent writer observes inserted=false rather than an error.
type LedgerRepository interface {
	GetEntryByIdempotencyKey(ctx context.Context, key string) (entities.LedgerEntry, bool, error)
	CreateEntryWithOutbox(ctx context.Context, entry entities.LedgerEntry, event PointsGrantedEvent) (bool, error)
	TotalFor(ctx context.Context, userID string) (int, error)
	WindowTotals(ctx context.Context, window *Window) ([]UserTotal, error)
	ListEntries(ctx context.Context, userID string, limit int, cursor string) ([]entities.LedgerEntry, string, error)
}

// StreakRepository owns per-user streak state keyed by user ID.
type StreakRepository interface {
	GetStreak(ctx context.Context, userID string) (entities.StreakState, bool, error)
	SaveStreak(ctx context.Context, state entities.StreakState) error
	ListStreaks(ctx context.Context, userIDs []string) (map[string]entities.StreakState, error)
}

type BadgeRepository interface {
	UpsertBadge(ctx context.Context, grant entities.BadgeGrant) (entities.BadgeGrant, bool, error)
	ListUserBadges(ctx context.Context, userID string) ([]entities.BadgeGrant, error)
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
