package ports

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	domainerrors "tollyhub/contexts/fan-engagement/gamification-engine/domain/errors"
)

// HistoryCursor is a keyset position in a user's newest-first ledger page.
// Keyset pagination keeps page boundaries stable while concurrent grants
// land, which offset pagination cannot guarantee.
type HistoryCursor struct {
	GrantedAtUnixNano int64  `json:"g"`
	EntryID           string `json:"e"`
}

func EncodeHistoryCursor(cursor HistoryCursor) string {
	raw, _ := json.Marshal(cursor)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func DecodeHistoryCursor(raw string) (HistoryCursor, bool, error) {
	if strings.TrimSpace(raw) == "" {
		return HistoryCursor{}, false, nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return HistoryCursor{}, false, domainerrors.ErrInvalidCursor
	}
	var cursor HistoryCursor
	if err := json.Unmarshal(decoded, &cursor); err != nil {
		return HistoryCursor{}, false, domainerrors.ErrInvalidCursor
	}
	if cursor.GrantedAtUnixNano <= 0 || strings.TrimSpace(cursor.EntryID) == "" {
		return HistoryCursor{}, false, domainerrors.ErrInvalidCursor
	}
	return cursor, true, nil
}
