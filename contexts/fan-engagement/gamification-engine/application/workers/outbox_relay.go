package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"tollyhub/contexts/fan-engagement/gamification-engine/application"
	"tollyhub/contexts/fan-engagement/gamification-engine/ports"
)

// OutboxRelay drains pending engagement outbox rows and publishes them to
// the event bus. Rows are only marked sent after a successful publish, so a
// crash between the two replays the event (consumers dedup on event_id).
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	topic := r.Topic
	if topic == "" {
		topic = "engagement.points_granted"
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("engagement outbox list pending failed",
			"event", "engagement_outbox_list_failed",
			"module", "fan-engagement/gamification-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, message := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("engagement outbox payload decode failed",
				"event", "engagement_outbox_decode_failed",
				"module", "fan-engagement/gamification-engine",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}

		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("engagement outbox publish failed",
				"event", "engagement_outbox_publish_failed",
				"module", "fan-engagement/gamification-engine",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_id", envelope.EventID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxSent(ctx, message.OutboxID, now); err != nil {
			logger.Error("engagement outbox mark sent failed",
				"event", "engagement_outbox_mark_sent_failed",
				"module", "fan-engagement/gamification-engine",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	if len(pending) > 0 {
		logger.Info("engagement outbox relay cycle completed",
			"event", "engagement_outbox_relay_completed",
			"module", "fan-engagement/gamification-engine",
			"layer", "worker",
			"sent_count", len(pending),
		)
	}
	return nil
}
