package errors

import "errors"

var (
	ErrUnknownActionKind = errors.New("point action kind is not in the catalog")
	ErrInvalidInput      = errors.New("engagement input is invalid")
	ErrInvalidCursor     = errors.New("history cursor is malformed")
	ErrInvalidWindow     = errors.New("leaderboard window is invalid")
	ErrInvalidCatalog    = errors.New("point catalog is invalid")
	ErrInvalidLevelTable = errors.New("level threshold table is invalid")
)
