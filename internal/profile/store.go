package profile

import (
	"context"
	"sync"
)

// Store defines data access for profiles and interaction history.
// Implementations must be safe for concurrent use.
type Store interface {
	// GetProfile retrieves the profile snapshot for an account.
	GetProfile(ctx context.Context, accountID string) (*Profile, error)

	// PutProfile inserts or replaces a profile.
	PutProfile(ctx context.Context, p *Profile) error

	// Follow adds target to the account's following set. Idempotent.
	Follow(ctx context.Context, accountID, target string) error

	// Unfollow removes target from the account's following set. Removing
	// an absent target is a no-op.
	Unfollow(ctx context.Context, accountID, target string) error

	// GetHistory returns up to limit of the account's most recent
	// interaction entries, newest first. An unknown account returns an
	// empty slice, not an error; history is advisory.
	GetHistory(ctx context.Context, accountID string, limit int) ([]HistoryEntry, error)

	// AppendHistory records an interaction, evicting the oldest entries
	// beyond DefaultHistoryLimit.
	AppendHistory(ctx context.Context, accountID string, entry HistoryEntry) error
}

// InMemoryStore is an in-memory implementation of Store.
// Thread-safe via RWMutex.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	history  map[string][]HistoryEntry // newest first
}

// NewInMemoryStore creates a new in-memory profile store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		profiles: make(map[string]*Profile),
		history:  make(map[string][]HistoryEntry),
	}
}

// GetProfile retrieves the profile snapshot for an account.
func (s *InMemoryStore) GetProfile(_ context.Context, accountID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[accountID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

// PutProfile inserts or replaces a profile.
func (s *InMemoryStore) PutProfile(_ context.Context, p *Profile) error {
	if p.AccountID == "" {
		return ErrEmptyAccountID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.AccountID] = cloneProfile(p)
	return nil
}

// Follow adds target to the account's following set.
func (s *InMemoryStore) Follow(_ context.Context, accountID, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[accountID]
	if !ok {
		return ErrProfileNotFound
	}
	for _, id := range p.FollowingIDs {
		if id == target {
			return nil
		}
	}
	p.FollowingIDs = append(p.FollowingIDs, target)
	return nil
}

// Unfollow removes target from the account's following set.
func (s *InMemoryStore) Unfollow(_ context.Context, accountID, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[accountID]
	if !ok {
		return ErrProfileNotFound
	}
	for i, id := range p.FollowingIDs {
		if id == target {
			p.FollowingIDs = append(p.FollowingIDs[:i], p.FollowingIDs[i+1:]...)
			return nil
		}
	}
	return nil
}

// GetHistory returns up to limit recent interaction entries, newest first.
func (s *InMemoryStore) GetHistory(_ context.Context, accountID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.history[accountID]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]HistoryEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// AppendHistory records an interaction at the head of the account's history.
func (s *InMemoryStore) AppendHistory(_ context.Context, accountID string, entry HistoryEntry) error {
	if accountID == "" {
		return ErrEmptyAccountID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append([]HistoryEntry{entry}, s.history[accountID]...)
	if len(entries) > DefaultHistoryLimit {
		entries = entries[:DefaultHistoryLimit]
	}
	s.history[accountID] = entries
	return nil
}

// cloneProfile deep-copies a profile so callers and the store never share
// slice backing arrays.
func cloneProfile(p *Profile) *Profile {
	cp := *p
	if p.InterestCategories != nil {
		cp.InterestCategories = append([]string(nil), p.InterestCategories...)
	}
	if p.FavoriteHashtags != nil {
		cp.FavoriteHashtags = append([]string(nil), p.FavoriteHashtags...)
	}
	if p.FollowingIDs != nil {
		cp.FollowingIDs = append([]string(nil), p.FollowingIDs...)
	}
	if p.PriceRange != nil {
		pr := *p.PriceRange
		cp.PriceRange = &pr
	}
	return &cp
}
