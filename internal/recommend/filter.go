package recommend

import (
	"github.com/louper-app/louper/internal/catalog"
)

// FilterByCategory returns the items whose category is in categories.
// An empty category set means "no filter" and returns the input unchanged.
func FilterByCategory(items []*catalog.Item, categories []string) []*catalog.Item {
	if len(categories) == 0 {
		return items
	}

	allowed := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		allowed[c] = struct{}{}
	}

	out := make([]*catalog.Item, 0, len(items))
	for _, it := range items {
		if _, ok := allowed[it.Category]; ok {
			out = append(out, it)
		}
	}
	return out
}

// DeduplicateItems removes items with repeated IDs, keeping the first
// occurrence and preserving order. Items with an empty ID are dropped
// entirely: an unidentifiable candidate cannot be deduplicated or keyed in
// result sets, and upstream always assigns IDs to real content.
func DeduplicateItems(items []*catalog.Item) []*catalog.Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]*catalog.Item, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}
