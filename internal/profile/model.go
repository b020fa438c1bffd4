// Package profile provides the per-request user snapshot consumed by the
// recommendation engine: interests, follow graph, price preferences, and a
// bounded interaction history.
package profile

import "errors"

// Common errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmptyAccountID  = errors.New("account id cannot be empty")
)

// HighAffinityWeight is the coarse threshold above which a history entry is
// treated as a high-affinity interaction by the similarity signal.
const HighAffinityWeight = 5.0

// DefaultHistoryLimit bounds how many history entries are retained and
// returned per account.
const DefaultHistoryLimit = 100

// PriceRange bounds a user's preferred spend. Min <= Max is expected from
// the writer; it is not enforced here.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price falls within the range, inclusive.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// Profile is a read-only snapshot of a user's preferences for one scoring
// pass. It is assembled per request and never mutated by the engine.
type Profile struct {
	AccountID          string      `json:"account_id"`
	InterestCategories []string    `json:"interest_categories,omitempty"`
	FavoriteHashtags   []string    `json:"favorite_hashtags,omitempty"`
	FollowingIDs       []string    `json:"following_ids,omitempty"`
	PriceRange         *PriceRange `json:"price_range,omitempty"`

	// ActivityLevel is a 0-10 engagement tier. Accepted and carried but not
	// consulted by the current signal calculators; reserved for future
	// weighting.
	ActivityLevel int `json:"activity_level"`
}

// Follows reports whether the profile follows the given account.
func (p *Profile) Follows(accountID string) bool {
	for _, id := range p.FollowingIDs {
		if id == accountID {
			return true
		}
	}
	return false
}

// HistoryEntry records one past interaction. ItemID is prefixed by or
// equal to the owning account's identifier, which is what the similarity
// signal matches against. Weight is a caller-defined positive magnitude.
type HistoryEntry struct {
	ItemID string  `json:"item_id"`
	Weight float64 `json:"weight"`
}

// HighAffinity reports whether the entry crosses the coarse affinity
// threshold used by the similarity signal.
func (e HistoryEntry) HighAffinity() bool {
	return e.Weight > HighAffinityWeight
}
