package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	domainerrors "tollyhub/contexts/fan-engagement/gamification-engine/domain/errors"
)

type PointAction string

const (
	ActionLike           PointAction = "like"
	ActionComment        PointAction = "comment"
	ActionShare          PointAction = "share"
	ActionCreateEvent    PointAction = "create_event"
	ActionDailyLogin     PointAction = "daily_login"
	ActionReferral       PointAction = "referral"
	ActionReportAccepted PointAction = "report_accepted"
)

// LedgerEntry is one immutable record of points granted for one action
// occurrence. Entries are append-only; totals are always derived by summing.
type LedgerEntry struct {
	EntryID        string
	UserID         string
	Action         PointAction
	SubjectID      string
	Points         int
	IdempotencyKey string
	GrantedAt      time.Time
}

func NewLedgerEntry(
	entryID string,
	userID string,
	action PointAction,
	subjectID string,
	points int,
	grantedAt time.Time,
) (LedgerEntry, error) {
	if strings.TrimSpace(entryID) == "" ||
		strings.TrimSpace(userID) == "" ||
		strings.TrimSpace(subjectID) == "" {
		return LedgerEntry{}, domainerrors.ErrInvalidInput
	}
	if points < 0 {
		return LedgerEntry{}, domainerrors.ErrInvalidInput
	}
	if grantedAt.IsZero() {
		return LedgerEntry{}, domainerrors.ErrInvalidInput
	}

	return LedgerEntry{
		EntryID:        strings.TrimSpace(entryID),
		UserID:         strings.TrimSpace(userID),
		Action:         action,
		SubjectID:      strings.TrimSpace(subjectID),
		Points:         points,
		IdempotencyKey: IdempotencyKey(userID, action, subjectID),
		GrantedAt:      grantedAt.UTC(),
	}, nil
}

// IdempotencyKey derives the duplicate-crediting guard for one logical action
// occurrence. Retrying the same (user, action, subject) always lands on the
// same key, so retries are safe and double grants collapse to one entry.
func IdempotencyKey(userID string, action PointAction, subjectID string) string {
	raw := strings.Join([]string{
		strings.TrimSpace(userID),
		string(action),
		strings.TrimSpace(subjectID),
	}, "\x1f")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
