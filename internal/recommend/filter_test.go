package recommend

import (
	"testing"

	"github.com/louper-app/louper/internal/catalog"
)

func item(id, category string) *catalog.Item {
	return &catalog.Item{ID: id, Kind: catalog.KindPost, Category: category, Post: &catalog.PostStats{}}
}

// TestFilterByCategory tests category filtering with the no-filter case.
func TestFilterByCategory(t *testing.T) {
	items := []*catalog.Item{
		item("a", "fashion"),
		item("b", "gadgets"),
		item("c", "fashion"),
		item("d", ""),
	}

	t.Run("empty categories is no filter", func(t *testing.T) {
		got := FilterByCategory(items, nil)
		if len(got) != 4 {
			t.Errorf("expected all 4 items, got %d", len(got))
		}
	})

	t.Run("single category", func(t *testing.T) {
		got := FilterByCategory(items, []string{"fashion"})
		if len(got) != 2 {
			t.Fatalf("expected 2 items, got %d", len(got))
		}
		if got[0].ID != "a" || got[1].ID != "c" {
			t.Errorf("unexpected order: %s, %s", got[0].ID, got[1].ID)
		}
	})

	t.Run("multiple categories", func(t *testing.T) {
		got := FilterByCategory(items, []string{"fashion", "gadgets"})
		if len(got) != 3 {
			t.Errorf("expected 3 items, got %d", len(got))
		}
	})

	t.Run("no match", func(t *testing.T) {
		got := FilterByCategory(items, []string{"books"})
		if len(got) != 0 {
			t.Errorf("expected no items, got %d", len(got))
		}
	})
}

// TestDeduplicateItems tests first-seen dedup with empty-ID drops.
func TestDeduplicateItems(t *testing.T) {
	items := []*catalog.Item{
		item("a", "fashion"),
		item("b", "gadgets"),
		item("a", "fashion"),
		item("", "orphan"), // no identity: dropped
		item("c", "fashion"),
		item("b", "gadgets"),
	}

	got := DeduplicateItems(items)
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("index %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

// TestDeduplicateItemsIdempotent verifies dedup(dedup(x)) == dedup(x).
func TestDeduplicateItemsIdempotent(t *testing.T) {
	items := []*catalog.Item{
		item("a", "fashion"),
		item("a", "fashion"),
		item("b", "gadgets"),
	}

	once := DeduplicateItems(items)
	twice := DeduplicateItems(once)

	if len(once) != len(twice) {
		t.Fatalf("lengths differ: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("index %d differs after second pass", i)
		}
	}
	if len(once) > len(items) {
		t.Error("dedup output longer than input")
	}
}
