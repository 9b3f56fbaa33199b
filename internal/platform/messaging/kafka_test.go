package messaging

import (
	"context"
	"testing"
	"time"

	"tollyhub/contexts/fan-engagement/gamification-engine/ports"
)

func TestKafkaPublishReachesSubscriber(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	if err := bus.Subscribe(ctx, ports.TopicPointsGranted, "engagement-test-cg", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	envelope := ports.EventEnvelope{
		EventID:   "event-bus-1",
		EventType: ports.EventTypePointsGranted,
	}
	if err := bus.Publish(ctx, ports.TopicPointsGranted, envelope); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		if got.EventID != "event-bus-1" {
			t.Fatalf("unexpected event id %s", got.EventID)
		}
		if got.EventType != ports.EventTypePointsGranted {
			t.Fatalf("unexpected event type %s", got.EventType)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never received the published event")
	}
}

func TestKafkaPublishWithoutSubscribersSucceeds(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}

	if err := bus.Publish(context.Background(), "engagement.unused_topic", ports.EventEnvelope{
		EventID: "event-bus-2",
	}); err != nil {
		t.Fatalf("publish to an empty topic must not error: %v", err)
	}
}

func TestKafkaTopicsAreIsolated(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	if err := bus.Subscribe(ctx, "engagement.topic_a", "engagement-test-cg", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "engagement.topic_b", ports.EventEnvelope{EventID: "event-bus-3"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		t.Fatalf("subscriber on another topic received event %s", got.EventID)
	case <-time.After(100 * time.Millisecond):
	}
}
