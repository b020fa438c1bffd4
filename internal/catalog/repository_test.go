package catalog

import (
	"context"
	"testing"
	"time"
)

// TestUpsertGeneratesID verifies an ID is assigned when absent.
func TestUpsertGeneratesID(t *testing.T) {
	repo := NewInMemoryRepository()
	item := &Item{Kind: KindPost, OwnerID: "acct1", Post: &PostStats{}}

	if err := repo.Upsert(context.Background(), item); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if item.ID == "" {
		t.Error("expected generated ID")
	}

	got, err := repo.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.OwnerID != "acct1" {
		t.Errorf("expected owner acct1, got %s", got.OwnerID)
	}
}

// TestGetByIDNotFound verifies the sentinel error for unknown IDs.
func TestGetByIDNotFound(t *testing.T) {
	repo := NewInMemoryRepository()
	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

// TestListRecentOrderingAndLimit verifies newest-first ordering with limit.
func TestListRecentOrderingAndLimit(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		item := newTestItem("", "acct1", time.Duration(i)*time.Hour)
		if err := repo.Upsert(ctx, item); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}
	// A product should not appear in a post listing.
	product := &Item{Kind: KindProduct, OwnerID: "shop1", Product: &ProductStats{Price: 10}}
	if err := repo.Upsert(ctx, product); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	items, err := repo.ListRecent(ctx, KindPost, 3)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].CreatedAt.Before(items[i].CreatedAt) {
			t.Errorf("items not ordered newest first at index %d", i)
		}
	}
}

// TestListRecentNonPositiveLimit verifies empty results for limit <= 0.
func TestListRecentNonPositiveLimit(t *testing.T) {
	repo := NewInMemoryRepository()
	if err := repo.Upsert(context.Background(), newTestItem("", "acct1", 0)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	items, err := repo.ListRecent(context.Background(), KindPost, 0)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

// TestListByOwners verifies owner filtering.
func TestListByOwners(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	for _, owner := range []string{"acct1", "acct1", "acct2", "acct3"} {
		if err := repo.Upsert(ctx, newTestItem("", owner, 0)); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	items, err := repo.ListByOwners(ctx, []string{"acct1", "acct3"}, 10)
	if err != nil {
		t.Fatalf("ListByOwners failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for _, it := range items {
		if it.OwnerID == "acct2" {
			t.Error("acct2 items should be excluded")
		}
	}

	empty, err := repo.ListByOwners(ctx, nil, 10)
	if err != nil {
		t.Fatalf("ListByOwners failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no items for empty owner set, got %d", len(empty))
	}
}

// TestApplyEngagement verifies counter deltas including the zero floor.
func TestApplyEngagement(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	post := &Item{ID: "p1", Kind: KindPost, Post: &PostStats{LikeCount: 2}}
	if err := repo.Upsert(ctx, post); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := repo.ApplyEngagement(ctx, "p1", EngagementDelta{Likes: 3, Comments: 1}); err != nil {
		t.Fatalf("ApplyEngagement failed: %v", err)
	}
	got, err := repo.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Post.LikeCount != 5 || got.Post.CommentCount != 1 {
		t.Errorf("unexpected counters: likes=%d comments=%d", got.Post.LikeCount, got.Post.CommentCount)
	}

	// Counters clamp at zero on a large negative delta (unlike events arriving
	// before the like they undo).
	if err := repo.ApplyEngagement(ctx, "p1", EngagementDelta{Likes: -100}); err != nil {
		t.Fatalf("ApplyEngagement failed: %v", err)
	}
	got, _ = repo.GetByID(ctx, "p1")
	if got.Post.LikeCount != 0 {
		t.Errorf("expected like count clamped to 0, got %d", got.Post.LikeCount)
	}

	if err := repo.ApplyEngagement(ctx, "missing", EngagementDelta{Likes: 1}); err != ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

// TestRepositoryIsolation verifies callers cannot mutate stored items
// through returned pointers.
func TestRepositoryIsolation(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	item := &Item{ID: "p1", Kind: KindPost, Hashtags: []string{"vintage"}, Post: &PostStats{LikeCount: 1}}
	if err := repo.Upsert(ctx, item); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "p1")
	got.Post.LikeCount = 999
	got.Hashtags[0] = "mutated"

	fresh, _ := repo.GetByID(ctx, "p1")
	if fresh.Post.LikeCount != 1 {
		t.Errorf("stored like count mutated through returned pointer: %d", fresh.Post.LikeCount)
	}
	if fresh.Hashtags[0] != "vintage" {
		t.Errorf("stored hashtags mutated through returned slice: %s", fresh.Hashtags[0])
	}
}
