package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"tollyhub/contexts/fan-engagement/gamification-engine/domain/entities"
	"tollyhub/contexts/fan-engagement/gamification-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetEntryByIdempotencyKey(ctx context.Context, key string) (entities.LedgerEntry, bool, error) {
	var row ledgerModel
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.LedgerEntry{}, false, nil
		}
		return entities.LedgerEntry{}, false, err
	}
	return row.toEntity(), true, nil
}

// CreateEntryWithOutbox appends one ledger entry and its outbox row in a
// single transaction. The unique index on idempotency_key arbitrates
// concurrent grants: the loser sees inserted=false and no outbox row.
func (r *Repository) CreateEntryWithOutbox(
	ctx context.Context,
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

	inserted := false
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := ledgerModelFromEntity(entry)
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idempotency_key"}},
			DoNothing: true,
		}).Create(&row)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		inserted = true

		outboxRow := outboxModel{
			OutboxID:  event.EventID,
			EventType: envelope.EventType,
			Payload:   payload,
			Status:    outboxStatusPending,
			CreatedAt: event.OccurredAt.UTC(),
		}
		return tx.Create(&outboxRow).Error
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (r *Repository) TotalFor(ctx context.Context, userID string) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&ledgerModel{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).
		Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *Repository) WindowTotals(ctx context.Context, window *ports.Window) ([]ports.UserTotal, error) {
	tx := r.db.WithContext(ctx).Model(&ledgerModel{})
	if window != nil {
		tx = tx.Where("granted_at >= ? AND granted_at < ?", window.Start.UTC(), window.End.UTC())
	}

	var rows []userTotalRow
	err := tx.
		Select("user_id, COALESCE(SUM(points), 0) AS total_points").
		Group("user_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]ports.UserTotal, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.UserTotal{UserID: row.UserID, TotalPoints: row.TotalPoints})
	}
	return items, nil
}

func (r *Repository) ListEntries(
	ctx context.Context,
	userID string,
	limit int,
	cursor string,
) ([]entities.LedgerEntry, string, error) {
	if limit <= 0 {
		limit = 20
	}
	position, hasCursor, err := ports.DecodeHistoryCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	tx := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if hasCursor {
		tx = tx.Where(
			"(granted_at, entry_id) < (?, ?)",
			time.Unix(0, position.GrantedAtUnixNano).UTC(),
			position.EntryID,
		)
	}

	var rows []ledgerModel
	if err := tx.
		Order("granted_at DESC, entry_id DESC").
		Limit(limit + 1).
		Find(&rows).
		Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = ports.EncodeHistoryCursor(ports.HistoryCursor{
			GrantedAtUnixNano: last.GrantedAt.UTC().UnixNano(),
			EntryID:           last.EntryID,
		})
	}

	items := make([]entities.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nextCursor, nil
}

func (r *Repository) GetStreak(ctx context.Context, userID string) (entities.StreakState, bool, error) {
	var row streakModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.StreakState{}, false, nil
		}
		return entities.StreakState{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveStreak(ctx context.Context, state entities.StreakState) error {
	row := streakModelFromEntity(state)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(&row).
		Error
}

func (r *Repository) ListStreaks(ctx context.Context, userIDs []string) (map[string]entities.StreakState, error) {
	if len(userIDs) == 0 {
		return map[string]entities.StreakState{}, nil
	}

	var rows []streakModel
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	found := make(map[string]entities.StreakState, len(rows))
	for _, row := range rows {
		found[row.UserID] = row.toEntity()
	}
	return found, nil
}

func (r *Repository) UpsertBadge(ctx context.Context, grant entities.BadgeGrant) (entities.BadgeGrant, bool, error) {
	row := badgeModelFromEntity(grant)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_key"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			result.Error = nil
		} else {
			return entities.BadgeGrant{}, false, result.Error
		}
	}
	if result.RowsAffected > 0 {
		return grant, false, nil
	}

	var existing badgeModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND badge_key = ?", grant.UserID, grant.BadgeKey).
		First(&existing).
		Error; err != nil {
		return entities.BadgeGrant{}, false, err
	}
	return existing.toEntity(), true, nil
}

func (r *Repository) ListUserBadges(ctx context.Context, userID string) ([]entities.BadgeGrant, error) {
	var rows []badgeModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("granted_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.BadgeGrant, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type ledgerModel struct {
	EntryID        string    `gorm:"column:entry_id;primaryKey"`
	UserID         string    `gorm:"column:user_id"`
	Action         string    `gorm:"column:action"`
	SubjectID      string    `gorm:"column:subject_id"`
	Points         int       `gorm:"column:points"`
	IdempotencyKey string    `gorm:"column:idempotency_key;uniqueIndex:engagement_ledger_unique_key"`
	GrantedAt      time.Time `gorm:"column:granted_at"`
}

func (ledgerModel) TableName() string {
	return "engagement_point_ledger"
}

func ledgerModelFromEntity(entry entities.LedgerEntry) ledgerModel {
	return ledgerModel{
		EntryID:        entry.EntryID,
		UserID:         entry.UserID,
		Action:         string(entry.Action),
		SubjectID:      entry.SubjectID,
		Points:         entry.Points,
		IdempotencyKey: entry.IdempotencyKey,
		GrantedAt:      entry.GrantedAt.UTC(),
	}
}

func (m ledgerModel) toEntity() entities.LedgerEntry {
	return entities.LedgerEntry{
		EntryID:        m.EntryID,
		UserID:         m.UserID,
		Action:         entities.PointAction(m.Action),
		SubjectID:      m.SubjectID,
		Points:         m.Points,
		IdempotencyKey: m.IdempotencyKey,
		GrantedAt:      m.GrantedAt.UTC(),
	}
}

type userTotalRow struct {
	UserID      string `gorm:"column:user_id"`
	TotalPoints int    `gorm:"column:total_points"`
}

type streakModel struct {
	UserID          string    `gorm:"column:user_id;primaryKey"`
	CurrentStreak   int       `gorm:"column:current_streak"`
	LongestStreak   int       `gorm:"column:longest_streak"`
	LastCheckInDate time.Time `gorm:"column:last_check_in_date"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (streakModel) TableName() string {
	return "engagement_streaks"
}

func streakModelFromEntity(state entities.StreakState) streakModel {
	return streakModel{
		UserID:          state.UserID,
		CurrentStreak:   state.CurrentStreak,
		LongestStreak:   state.LongestStreak,
		LastCheckInDate: state.LastCheckInDate.UTC(),
		UpdatedAt:       state.UpdatedAt.UTC(),
	}
}

func (m streakModel) toEntity() entities.StreakState {
	return entities.StreakState{
		UserID:          m.UserID,
		CurrentStreak:   m.CurrentStreak,
		LongestStreak:   m.LongestStreak,
		LastCheckInDate: m.LastCheckInDate.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type badgeModel struct {
	BadgeID   string    `gorm:"column:badge_id;primaryKey"`
	UserID    string    `gorm:"column:user_id;uniqueIndex:engagement_badges_unique_user_key"`
	BadgeKey  string    `gorm:"column:badge_key;uniqueIndex:engagement_badges_unique_user_key"`
	Reason    string    `gorm:"column:reason"`
	GrantedAt time.Time `gorm:"column:granted_at"`
}

func (badgeModel) TableName() string {
	return "engagement_badges"
}

func badgeModelFromEntity(grant entities.BadgeGrant) badgeModel {
	return badgeModel{
		BadgeID:   grant.BadgeID,
		UserID:    grant.UserID,
		BadgeKey:  grant.BadgeKey,
		Reason:    grant.Reason,
		GrantedAt: grant.GrantedAt.UTC(),
	}
}

func (m badgeModel) toEntity() entities.BadgeGrant {
	return entities.BadgeGrant{
		BadgeID:   m.BadgeID,
		UserID:    m.UserID,
		BadgeKey:  m.BadgeKey,
		Reason:    m.Reason,
		GrantedAt: m.GrantedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID  string     `gorm:"column:outbox_id;primaryKey"`
	EventType string     `gorm:"column:event_type"`
	Payload   []byte     `gorm:"column:payload"`
	Status    string     `gorm:"column:status"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	SentAt    *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "engagement_outbox"
}

func (m outboxModel) toPort() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:  m.OutboxID,
		EventType: m.EventType,
		Payload:   m.Payload,
		Status:    m.Status,
		CreatedAt: m.CreatedAt.UTC(),
	}
}
