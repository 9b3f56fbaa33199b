package services

import (
	"tollyhub/contexts/fan-engagement/gamification-engine/domain/entities"
	domainerrors "tollyhub/contexts/fan-engagement/gamification-engine/domain/errors"
)

// Catalog maps an action kind to its fixed point value. It is immutable
// configuration built once at startup; tests substitute alternate tables
// through NewCatalog instead of mutating process state.
type Catalog struct {
	values map[entities.PointAction]int
}

func NewCatalog(values map[entities.PointAction]int) (Catalog, error) {
	if len(values) == 0 {
		return Catalog{}, domainerrors.ErrInvalidCatalog
	}
	copied := make(map[entities.PointAction]int, len(values))
	for action, points := range values {
		if points < 0 {
			return Catalog{}, domainerrors.ErrInvalidCatalog
		}
		copied[action] = points
	}
	return Catalog{values: copied}, nil
}

func DefaultCatalog() Catalog {
	catalog, _ := NewCatalog(map[entities.PointAction]int{
		entities.ActionLike:           1,
		entities.ActionComment:        5,
		entities.ActionShare:          10,
		entities.ActionCreateEvent:    50,
		entities.ActionDailyLogin:     20,
		entities.ActionReferral:       100,
		entities.ActionReportAccepted: 15,
	})
	return catalog
}

func (c Catalog) ValueOf(action entities.PointAction) (int, error) {
	points, ok := c.values[action]
	if !ok {
		return 0, domainerrors.ErrUnknownActionKind
	}
	return points, nil
}
