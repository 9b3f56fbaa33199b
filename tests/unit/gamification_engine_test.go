package unit

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gamificationengine "tollyhub/contexts/fan-engagement/gamification-engine"
	domainerrors "tollyhub/contexts/fan-engagement/gamification-engine/domain/errors"
	"tollyhub/contexts/fan-engagement/gamification-engine/domain/services"
	httptransport "tollyhub/contexts/fan-engagement/gamification-engine/transport/http"
)

func TestEngagementGrantPointsIdempotentReplay(t *testing.T) {
	module := gamificationengine.NewInMemoryModule(nil)
	ctx := context.Background()

	first, err := module.Handler.GrantPointsHandler(ctx, httptransport.GrantPointsRequest{
		UserID:    "user-eng-1",
		Action:    "share",
		SubjectID: "post-77",
	})
	if err != nil {
		t.Fatalf("first grant failed: %v", err)
	}
	if first.Duplicate {
		t.Fatalf("first grant must not be a duplicate")
	}
	if first.Data.Points != 10 {
		t.Fatalf("expected 10 points for share, got %d", first.Data.Points)
	}

	second, err := module.Handler.GrantPointsHandler(ctx, httptransport.GrantPointsRequest{
		UserID:    "user-eng-1",
		Action:    "share",
		SubjectID: "post-77",
	})
	if err != nil {
		t.Fatalf("replayed grant failed: %v", err)
	}
	if !second.Duplicate {
		t.Fatalf("expected duplicate response on replay")
	}
	if second.Data.EntryID != first.Data.EntryID {
		t.Fatalf("replay must return the original entry, got %s and %s", first.Data.EntryID, second.Data.EntryID)
	}
	if second.Data.TotalPoints != 10 {
		t.Fatalf("replay must not credit points again, total is %d", second.Data.TotalPoints)
	}
}

func TestEngagementGrantUnknownActionRejected(t *testing.T) {
	module := gamificationengine.NewInMemoryModule(nil)

	_, err := module.Handler.GrantPointsHandler(context.Background(), httptransport.GrantPointsRequest{
		UserID:    "user-eng-2",
		Action:    "superlike",
		SubjectID: "post-1",
	})
	if !errors.Is(err, domainerrors.ErrUnknownActionKind) {
		t.Fatalf("expected unknown action error, got %v", err)
	}
}

func TestEngagementGrantMissingFieldsRejected(t *testing.T) {
	module := gamificationengine.NewInMemoryModule(nil)

	_, err := module.Handler.GrantPointsHandler(context.Background(), httptransport.GrantPointsRequest{
		UserID: "user-eng-3",
		Action: "like",
	})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input error without subject, got %v", err)
	}
}

func TestEngagementLevelAndProgressResolution(t *testing.T) {
	module := gamificationengine.NewInMemoryModule(nil)
	ctx := context.Background()

	// referral(100) + referral(100) + create_event(50) = 250 points.
	for i := 0; i < 2; i++ {
		if _, err := module.Handler.GrantPointsHandler(ctx, httptransport.GrantPointsRequest{
			UserID:    "user-eng-4",
			Action:    "referral",
			SubjectID: fmt.Sprintf("friend-%d", i),
		}); err != nil {
			t.Fatalf("referral grant %d failed: %v", i, err)
		}
	}
	last, err := module.Handler.GrantPointsHandler(ctx, httptransport.GrantPointsRequest{
		UserID:    "user-eng-4",
		Action:    "create_event",
		SubjectID: "watch-party-1",
	})
	if err != nil {
		t.Fatalf("create_event grant failed: %v", err)
	}

	if last.Data.TotalPoints != 250 {
		t.Fatalf("expected total 250, got %d", last.Data.TotalPoints)
	}
	if last.Data.Level != 2 {
		t.Fatalf("expected level 2 at 250 points, got %d", last.Data.Level)
	}
	if last.Data.ProgressToNext != 75 {
		t.Fatalf("expected 75%% progress inside the 100..300 band, got %v", last.Data.ProgressToNext)
	}
}

func TestEngagementLevelMilestoneBadgeGrantedOnce(t *testing.T) {
	module := gamificationengine.NewInMemoryModule(nil)
	ctx := context.Background()

	// Ten referrals cross the 1000-point boundary into level 5.
	var last httptransport.GrantPointsResponse
	for i := 0; i < 10; i++ {
		resp, err := module.Handler.GrantPointsHandler(ctx, httptransport.GrantPointsRequest{
			UserID:    "user-eng-5",
			Action:    "referral",
			SubjectID: fmt.Sprintf("friend-%d", i),
		})
		if err != nil {
			t.Fatalf("referral grant %d failed: %v", i, err)
		}
		last = resp
	}

	if last.Data.Level != 5 {
		t.Fatalf("expected level 5 at 1000 points, got %d", last.Data.Level)
	}
	found := false
	for _, badge := range last.Data.NewBadges {
		if badge == "level_5" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected level_5 badge on crossing grant, got %#v", last.Data.NewBadges)
	}

	summary, err := module.Handler.GetUserSummaryHandler(ctx, "user-eng-5", "")
	if err != nil {
		t.Fatalf("get summary failed: %v", err)
	}
	count := 0
	for _, badge := range summary.Data.Badges {
		if badge == "level_5" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one level_5 badge, got %d", count)
	}
}

func TestLevelTablePinsProgressAtMaxLevel(t *testing.T) {
	table := services.DefaultLevelTable()

	if table.MaxLevel() != 10 {
		t.Fatalf("expected 10 defined levels, got %d", table.MaxLevel())
	}
	if level := table.LevelOf(4500); level != 10 {
		t.Fatalf("expected level 10 at the final threshold, got %d", level)
	}
	if progress := table.ProgressToNext(4500); progress != 100 {
		t.Fatalf("expected progress pinned at 100 at max level, got %v", progress)
	}
	// Overshooting the last threshold must not invent an eleventh level.
	if level := table.LevelOf(99999); level != 10 {
		t.Fatalf("expected level 10 past the final threshold, got %d", level)
	}
	if progress := table.ProgressToNext(99999); progress != 100 {
		t.Fatalf("expected progress 100 on overshoot, got %v", progress)
	}
}

func TestLevelTableRejectsMalformedThresholds(t *testing.T) {
	cases := [][]int{
		{},
		{100, 300},    // first threshold must be zero
		{0, 100, 100}, // not strictly ascending
		{0, 300, 100}, // descending
	}
	for _, thresholds := range cases {
		if _, err := services.NewLevelTable(thresholds); !errors.Is(err, domainerrors.ErrInvalidLevelTable) {
			t.Fatalf("expected invalid level table error for %v, got %v", thresholds, err)
		}
	}
}

func TestEngagementHistoryCursorPagination(t *testing.T) {
	module := gamificationengine.NewInMemoryModule(nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := module.Handler.GrantPointsHandler(ctx, httptransport.GrantPointsRequest{
			UserID:     "user-eng-6",
			Action:     "comment",
			SubjectID:  fmt.Sprintf("post-%d", i),
			OccurredAt: fmt.Sprintf("2026-08-1%dT10:00:00Z", i),
		}); err != nil {
			t.Fatalf("grant %d failed: %v", i, err)
		}
	}

	seen := map[string]bool{}
	cursor := ""
	pages := 0
	var previousGrantedAt string
	for {
		page, err := module.Handler.GetHistoryHandler(ctx, "user-eng-6", 2, cursor)
		if err != nil {
			t.Fatalf("history page %d failed: %v", pages, err)
		}
		for _, entry := range page.Data {
			if seen[entry.EntryID] {
				t.Fatalf("entry %s returned twice across pages", entry.EntryID)
			}
			seen[entry.EntryID] = true
			if previousGrantedAt != "" && entry.GrantedAt > previousGrantedAt {
				t.Fatalf("history not newest-first: %s after %s", entry.GrantedAt, previousGrantedAt)
			}
			previousGrantedAt = entry.GrantedAt
		}
		pages++
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
		if pages > 5 {
			t.Fatalf("pagination did not terminate")
		}
	}

	if len(seen) != 5 {
		t.Fatalf("expected 5 entries across pages, got %d", len(seen))
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages of size 2, got %d", pages)
	}
}

func TestEngagementHistoryRejectsGarbageCursor(t *testing.T) {
	module := gamificationengine.NewInMemoryModule(nil)

	_, err := module.Handler.GetHistoryHandler(context.Background(), "user-eng-7", 10, "not-a-cursor")
	if !errors.Is(err, domainerrors.ErrInvalidCursor) {
		t.Fatalf("expected invalid cursor error, got %v", err)
	}
}

func TestEngagementSummaryForNewUserIsEmpty(t *testing.T) {
	module := gamificationengine.NewInMemoryModule(nil)

	summary, err := module.Handler.GetUserSummaryHandler(context.Background(), "user-eng-8", "")
	if err != nil {
		t.Fatalf("get summary failed: %v", err)
	}
	if summary.Data.TotalPoints != 0 || summary.Data.Level != 1 {
		t.Fatalf("expected zero points at level 1, got %d points level %d", summary.Data.TotalPoints, summary.Data.Level)
	}
	if summary.Data.StreakStatus != "no_history" {
		t.Fatalf("expected no_history streak status, got %s", summary.Data.StreakStatus)
	}
	if len(summary.Data.Badges) != 0 {
		t.Fatalf("expected no badges, got %#v", summary.Data.Badges)
	}
}
