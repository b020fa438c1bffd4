package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Repository defines data access for rankable items.
// Implementations must be safe for concurrent use; the feed service scores
// snapshots returned here without holding any repository lock.
type Repository interface {
	// Upsert inserts or replaces an item. A missing ID is generated.
	Upsert(ctx context.Context, item *Item) error

	// GetByID retrieves an item by its ID.
	GetByID(ctx context.Context, id string) (*Item, error)

	// ListRecent returns up to limit items of the given kind ordered by
	// created_at DESC, id ASC (tie-breaker). A non-positive limit returns
	// an empty slice.
	ListRecent(ctx context.Context, kind Kind, limit int) ([]*Item, error)

	// ListByOwners returns up to limit items whose owner is in owners,
	// ordered by created_at DESC, id ASC. Used to build the following
	// timeline half of the feed.
	ListByOwners(ctx context.Context, owners []string, limit int) ([]*Item, error)

	// ApplyEngagement adjusts an item's counters by delta. Counters never
	// go below zero. Returns ErrItemNotFound for unknown IDs.
	ApplyEngagement(ctx context.Context, id string, delta EngagementDelta) error
}

// InMemoryRepository is an in-memory implementation of Repository.
// Thread-safe via RWMutex.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*Item
}

// NewInMemoryRepository creates a new in-memory item repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		items: make(map[string]*Item),
	}
}

// Upsert inserts or replaces an item, generating an ID when absent.
func (r *InMemoryRepository) Upsert(_ context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	cp := cloneItem(item)
	r.items[item.ID] = cp
	return nil
}

// GetByID retrieves an item by its ID.
func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return cloneItem(it), nil
}

// ListRecent returns up to limit items of the given kind, newest first.
func (r *InMemoryRepository) ListRecent(_ context.Context, kind Kind, limit int) ([]*Item, error) {
	if limit <= 0 {
		return []*Item{}, nil
	}

	r.mu.RLock()
	matched := make([]*Item, 0)
	for _, it := range r.items {
		if it.Kind == kind {
			matched = append(matched, cloneItem(it))
		}
	}
	r.mu.RUnlock()

	sortRecent(matched)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// ListByOwners returns up to limit items from the given owners, newest first.
func (r *InMemoryRepository) ListByOwners(_ context.Context, owners []string, limit int) ([]*Item, error) {
	if limit <= 0 || len(owners) == 0 {
		return []*Item{}, nil
	}

	ownerSet := make(map[string]struct{}, len(owners))
	for _, o := range owners {
		ownerSet[o] = struct{}{}
	}

	r.mu.RLock()
	matched := make([]*Item, 0)
	for _, it := range r.items {
		if _, ok := ownerSet[it.OwnerID]; ok {
			matched = append(matched, cloneItem(it))
		}
	}
	r.mu.RUnlock()

	sortRecent(matched)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// ApplyEngagement adjusts an item's counters by delta, clamping at zero.
func (r *InMemoryRepository) ApplyEngagement(_ context.Context, id string, delta EngagementDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[id]
	if !ok {
		return ErrItemNotFound
	}

	switch {
	case it.Post != nil:
		it.Post.LikeCount = clampCounter(it.Post.LikeCount + delta.Likes)
		it.Post.CommentCount = clampCounter(it.Post.CommentCount + delta.Comments)
		it.Post.RepostCount = clampCounter(it.Post.RepostCount + delta.Reposts)
	case it.Product != nil:
		it.Product.ClickCount = clampCounter(it.Product.ClickCount + delta.Clicks)
	case it.Room != nil:
		it.Room.MemberCount = clampCounter(it.Room.MemberCount + delta.Members)
		it.Room.PostCount = clampCounter(it.Room.PostCount + delta.Posts)
	}
	return nil
}

// sortRecent orders items by created_at DESC with id ASC as tie-breaker.
func sortRecent(items []*Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// clampCounter floors a counter at zero after applying a delta.
func clampCounter(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// cloneItem deep-copies an item so callers never share payload pointers
// with the repository's internal state.
func cloneItem(it *Item) *Item {
	cp := *it
	if it.Hashtags != nil {
		cp.Hashtags = append([]string(nil), it.Hashtags...)
	}
	if it.Post != nil {
		post := *it.Post
		cp.Post = &post
	}
	if it.Product != nil {
		product := *it.Product
		if it.Product.SalePrice != nil {
			sale := *it.Product.SalePrice
			product.SalePrice = &sale
		}
		cp.Product = &product
	}
	if it.Room != nil {
		room := *it.Room
		cp.Room = &room
	}
	return &cp
}
