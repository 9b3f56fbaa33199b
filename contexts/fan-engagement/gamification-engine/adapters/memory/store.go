package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"tollyhub/contexts/fan-engagement/gamification-engine/domain/entities"
	domainerrors "tollyhub/contexts/fan-engagement/gamification-engine/domain/errors"
	"tollyhub/contexts/fan-engagement/gamification-engine/ports"

	"github.com/google/uuid"
)

const outboxStatusPending = "pending"
const outboxStatusSent = "sent"

// Store backs the engine with in-process state for tests and local wiring.
// It honors the same atomicity contract as the postgres adapter: one writer
// wins per idempotency key, everyone else sees inserted=false.
type Store struct {
	mu sync.RWMutex

	entries []entities.LedgerEntry
	byKey   map[string]int
	streaks map[string]entities.StreakState
	badges  map[string]map[string]entities.BadgeGrant
	outbox  []ports.OutboxMessage
}

func NewStore() *Store {
	return &Store{
		byKey:   make(map[string]int),
		streaks: make(map[string]entities.StreakState),
		badges:  make(map[string]map[string]entities.BadgeGrant),
	}
}

func (s *Store) GetEntryByIdempotencyKey(_ context.Context, key string) (entities.LedgerEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index, ok := s.byKey[strings.TrimSpace(key)]
	if !ok {
		return entities.LedgerEntry{}, false, nil
	}
	return s.entries[index], true, nil
}

func (s *Store) CreateEntryWithOutbox(
	_ context.Context,
	entry entities.LedgerEntry,
	event ports.PointsGrantedEvent,
) (bool, error) {
	envelope, err := ports.NewPointsGrantedEnvelope(event)
	if err != nil {
		return false, err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[entry.IdempotencyKey]; ok {
		return false, nil
	}
	s.entries = append(s.entries, entry)
	s.byKey[entry.IdempotencyKey] = len(s.entries) - 1
	s.outbox = append(s.outbox, ports.OutboxMessage{
		OutboxID:  event.EventID,
		EventType: envelope.EventType,
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: event.OccurredAt.UTC(),
	})
	return true, nil
}

func (s *Store) TotalFor(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID = strings.TrimSpace(userID)
	total := 0
	for _, entry := range s.entries {
		if entry.UserID == userID {
			total += entry.Points
		}
	}
	return total, nil
}

func (s *Store) WindowTotals(_ context.Context, window *ports.Window) ([]ports.UserTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[string]int)
	for _, entry := range s.entries {
		if window != nil {
			if entry.GrantedAt.Before(window.Start) || !entry.GrantedAt.Before(window.End) {
				continue
			}
		}
		totals[entry.UserID] += entry.Points
	}

	items := make([]ports.UserTotal, 0, len(totals))
	for userID, total := range totals {
		items = append(items, ports.UserTotal{UserID: userID, TotalPoints: total})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].UserID < items[j].UserID
	})
	return items, nil
}

func (s *Store) ListEntries(
	_ context.Context,
	userID string,
	limit int,
	cursor string,
) ([]entities.LedgerEntry, string, error) {
	position, hasCursor, err := ports.DecodeHistoryCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	if limit <= 0 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	userID = strings.TrimSpace(userID)
	matched := make([]entities.LedgerEntry, 0)
	for _, entry := range s.entries {
		if entry.UserID != userID {
			continue
		}
		if hasCursor && !beforeCursor(entry, position) {
			continue
		}
		matched = append(matched, entry)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].GrantedAt.Equal(matched[j].GrantedAt) {
			return matched[i].GrantedAt.After(matched[j].GrantedAt)
		}
		return matched[i].EntryID > matched[j].EntryID
	})

	nextCursor := ""
	if len(matched) > limit {
		matched = matched[:limit]
		last := matched[len(matched)-1]
		nextCursor = ports.EncodeHistoryCursor(ports.HistoryCursor{
			GrantedAtUnixNano: last.GrantedAt.UnixNano(),
			EntryID:           last.EntryID,
		})
	}
	return append([]entities.LedgerEntry(nil), matched...), nextCursor, nil
}

func beforeCursor(entry entities.LedgerEntry, cursor ports.HistoryCursor) bool {
	at := entry.GrantedAt.UnixNano()
	if at != cursor.GrantedAtUnixNano {
		return at < cursor.GrantedAtUnixNano
	}
	return entry.EntryID < cursor.EntryID
}

func (s *Store) GetStreak(_ context.Context, userID string) (entities.StreakState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.streaks[strings.TrimSpace(userID)]
	return state, ok, nil
}

func (s *Store) SaveStreak(_ context.Context, state entities.StreakState) error {
	if strings.TrimSpace(state.UserID) == "" {
		return domainerrors.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.streaks[state.UserID] = state
	return nil
}

func (s *Store) ListStreaks(_ context.Context, userIDs []string) (map[string]entities.StreakState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[string]entities.StreakState, len(userIDs))
	for _, userID := range userIDs {
		if state, ok := s.streaks[strings.TrimSpace(userID)]; ok {
			found[state.UserID] = state
		}
	}
	return found, nil
}

func (s *Store) UpsertBadge(_ context.Context, grant entities.BadgeGrant) (entities.BadgeGrant, bool, error) {
	userID := strings.TrimSpace(grant.UserID)
	badgeKey := strings.TrimSpace(grant.BadgeKey)
	if userID == "" || badgeKey == "" {
		return entities.BadgeGrant{}, false, domainerrors.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.badges[userID]; !ok {
		s.badges[userID] = make(map[string]entities.BadgeGrant)
	}
	if existing, ok := s.badges[userID][badgeKey]; ok {
		return existing, true, nil
	}
	s.badges[userID][badgeKey] = grant
	return grant, false, nil
}

func (s *Store) ListUserBadges(_ context.Context, userID string) ([]entities.BadgeGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	badges := s.badges[strings.TrimSpace(userID)]
	items := make([]entities.BadgeGrant, 0, len(badges))
	for _, item := range badges {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].GrantedAt.After(items[j].GrantedAt)
	})
	return items, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.OutboxMessage, 0)
	for _, message := range s.outbox {
		if message.Status != outboxStatusPending {
			continue
		}
		items = append(items, message)
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].OutboxID == outboxID {
			s.outbox[i].Status = outboxStatusSent
			return nil
		}
	}
	return domainerrors.ErrInvalidInput
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
