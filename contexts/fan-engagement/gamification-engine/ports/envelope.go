package ports

import "encoding/json"

const (
	TopicPointsGranted         = "engagement.points_granted"
	EventTypePointsGranted     = "engagement.points_granted"
	sourceService              = "tollyhub"
	pointsGrantedEntityType    = "point_ledger_entry"
	pointsGrantedVersionNumber = 1
)

// NewPointsGrantedEnvelope shapes a grant event into the canonical envelope
// persisted to the outbox and relayed to the bus.
func NewPointsGrantedEnvelope(event PointsGrantedEvent) (EventEnvelope, error) {
	payload, err := json.Marshal(map[string]any{
		"entry_id":    event.EntryID,
		"user_id":     event.UserID,
		"action":      string(event.Action),
		"points":      event.Points,
		"occurred_at": event.OccurredAt.UTC(),
	})
	if err != nil {
		return EventEnvelope{}, err
	}
	return EventEnvelope{
		EventID:        event.EventID,
		EventType:      EventTypePointsGranted,
		SourceService:  sourceService,
		OccurredAtUTC:  event.OccurredAt.UTC(),
		EntityType:     pointsGrantedEntityType,
		EntityID:       event.EntryID,
		PayloadVersion: pointsGrantedVersionNumber,
		Data:           payload,
	}, nil
}
