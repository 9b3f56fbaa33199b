package unit

import (
	"context"
	"testing"
	"time"

	"tollyhub/contexts/fan-engagement/gamification-engine/adapters/memory"
	"tollyhub/contexts/fan-engagement/gamification-engine/application"
	"tollyhub/contexts/fan-engagement/gamification-engine/domain/entities"
	"tollyhub/contexts/fan-engagement/gamification-engine/domain/services"
	"tollyhub/contexts/fan-engagement/gamification-engine/ports"
)

// lostRaceLedger simulates a concurrent writer landing between the grant
// pre-check and the insert: the first key lookup misses, the insert reports
// no row written, and the re-read surfaces the winner's entry.
type lostRaceLedger struct {
	winner  entities.LedgerEntry
	lookups int
	inserts int
}

func (l *lostRaceLedger) GetEntryByIdempotencyKey(_ context.Context, _ string) (entities.LedgerEntry, bool, error) {
	l.lookups++
	if l.lookups == 1 {
		return entities.LedgerEntry{}, false, nil
	}
	return l.winner, true, nil
}

func (l *lostRaceLedger) CreateEntryWithOutbox(_ context.Context, _ entities.LedgerEntry, _ ports.PointsGrantedEvent) (bool, error) {
	l.inserts++
	return false, nil
}

func (l *lostRaceLedger) TotalFor(_ context.Context, _ string) (int, error) {
	return l.winner.Points, nil
}

func (l *lostRaceLedger) WindowTotals(_ context.Context, _ *ports.Window) ([]ports.UserTotal, error) {
	return nil, nil
}

func (l *lostRaceLedger) ListEntries(_ context.Context, _ string, _ int, _ string) ([]entities.LedgerEntry, string, error) {
	return nil, "", nil
}

func TestEngagementGrantLostInsertRaceConvergesOnWinner(t *testing.T) {
	store := memory.NewStore()
	winner, err := entities.NewLedgerEntry(
		"entry-winner", "user-race-1", entities.ActionShare, "post-1", 10,
		time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("build winner entry failed: %v", err)
	}

	ledger := &lostRaceLedger{winner: winner}
	svc := application.Service{
		Ledger:  ledger,
		Streaks: store,
		Badges:  store,
		Catalog: services.DefaultCatalog(),
		Levels:  services.DefaultLevelTable(),
		Clock:   store,
		IDGen:   store,
	}

	result, err := svc.Grant(context.Background(), application.GrantInput{
		UserID:    "user-race-1",
		Action:    entities.ActionShare,
		SubjectID: "post-1",
	})
	if err != nil {
		t.Fatalf("grant after lost race must not error: %v", err)
	}
	if !result.Duplicate {
		t.Fatalf("expected duplicate result when the insert lost the race")
	}
	if result.Entry.EntryID != "entry-winner" {
		t.Fatalf("expected the winner's entry, got %s", result.Entry.EntryID)
	}
	if result.TotalPoints != 10 {
		t.Fatalf("expected the winner's single credit, got %d", result.TotalPoints)
	}
	if ledger.inserts != 1 {
		t.Fatalf("expected exactly one insert attempt, got %d", ledger.inserts)
	}
}
