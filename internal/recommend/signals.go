package recommend

import (
	"math"
	"strings"
	"time"

	"github.com/louper-app/louper/internal/catalog"
	"github.com/louper-app/louper/internal/profile"
)

// Content signal contributions. Partial credits are additive and the total
// is capped at 1.0; an item matching everything would otherwise sum to 1.4.
const (
	contentCategoryBonus = 0.5
	contentHashtagBonus  = 0.4
	contentFollowBonus   = 0.3
	contentPriceBonus    = 0.2

	// ContentFloor is the cold-start score for items matching none of the
	// content criteria. Keeps unmatched items rankable instead of pinning
	// them to the bottom.
	ContentFloor = 0.1
)

// Similarity signal contributions.
const (
	similarityOwnerBonus    = 0.5
	similarityAffinityBonus = 0.3

	// SimilarityBaseline is returned when the history matches nothing.
	SimilarityBaseline = 0.2
)

// Freshness decay parameters.
const (
	// freshnessDecayHours is the exponential decay constant: a 24-hour-old
	// item scores exp(-1) ~= 0.368.
	freshnessDecayHours = 24.0

	// FreshnessFloor keeps very old content weakly eligible.
	FreshnessFloor = 0.05
)

// Popularity normalization divisors. Calibrated so raw engagement around
// 10^4-10^5 maps near 1.0 after log compression.
var (
	postPopularityScale    = math.Log10(100001) // ~5
	productPopularityScale = math.Log10(10001)  // ~4
	roomPopularityScale    = math.Log10(10001)  // ~4
)

// ContentScore computes how well an item matches the user's stated
// preferences, in [ContentFloor, 1.0].
//
// Partial credits:
//   - category in the profile's interest categories: +0.5
//   - hashtag overlap: up to +0.4, proportional to the matched fraction of
//     the item's hashtags
//   - item owner followed by the user: +0.3
//   - effective price inside the profile's price range: +0.2
//
// Missing optional fields skip their contribution silently; heterogeneous
// item shapes never error here. If nothing contributed, or the profile is
// nil (cold start), the floor is returned.
func ContentScore(item *catalog.Item, p *profile.Profile) float64 {
	if p == nil {
		return ContentFloor
	}

	score := 0.0

	if item.Category != "" && len(p.InterestCategories) > 0 {
		for _, c := range p.InterestCategories {
			if c == item.Category {
				score += contentCategoryBonus
				break
			}
		}
	}

	if len(item.Hashtags) > 0 && len(p.FavoriteHashtags) > 0 {
		favorites := make(map[string]struct{}, len(p.FavoriteHashtags))
		for _, h := range p.FavoriteHashtags {
			favorites[h] = struct{}{}
		}
		matched := 0
		for _, h := range item.Hashtags {
			if _, ok := favorites[h]; ok {
				matched++
			}
		}
		denom := len(item.Hashtags)
		if denom < 1 {
			denom = 1
		}
		score += contentHashtagBonus * float64(matched) / float64(denom)
	}

	if item.OwnerID != "" && p.Follows(item.OwnerID) {
		score += contentFollowBonus
	}

	if price, ok := item.EffectivePrice(); ok && p.PriceRange != nil && p.PriceRange.Contains(price) {
		score += contentPriceBonus
	}

	if score == 0 {
		return ContentFloor
	}
	return math.Min(score, 1.0)
}

// PopularityScore computes a log-compressed engagement score in [0, 1].
// Logarithmic compression keeps viral outliers from dominating the
// ranking. Items whose payload is missing for their kind score 0.
func PopularityScore(item *catalog.Item) float64 {
	var raw, scale float64

	switch item.Kind {
	case catalog.KindPost:
		if item.Post == nil {
			return 0
		}
		raw = float64(item.Post.LikeCount) + float64(item.Post.CommentCount)*2 + float64(item.Post.RepostCount)
		scale = postPopularityScale
	case catalog.KindProduct:
		if item.Product == nil {
			return 0
		}
		raw = float64(item.Product.ClickCount)
		scale = productPopularityScale
	case catalog.KindRoom:
		if item.Room == nil {
			return 0
		}
		raw = float64(item.Room.MemberCount) + float64(item.Room.PostCount)*0.5
		scale = roomPopularityScale
	default:
		return 0
	}

	score := math.Log10(raw+1) / scale
	return math.Min(score, 1.0)
}

// FreshnessScore computes an exponential recency decay relative to now,
// floored at FreshnessFloor. A 24-hour-old item scores ~0.368.
//
// Future-dated timestamps (clock skew, scheduled content) produce scores
// above 1.0; the upper bound is intentionally not clamped here. See the
// package documentation before relying on freshness alone.
func FreshnessScore(item *catalog.Item, now time.Time) float64 {
	hours := now.Sub(item.CreatedAt).Hours()
	score := math.Exp(-hours / freshnessDecayHours)
	return math.Max(score, FreshnessFloor)
}

// SimilarityScore computes a coarse history-affinity score in
// [SimilarityBaseline, 1.0]:
//   - +0.5 if any history entry's item ID starts with the item's owner ID
//   - +0.3 if the history contains any high-affinity interaction,
//     regardless of which item it was for
//
// This is a deliberate approximation, not a similarity metric: the
// affinity bonus fires on any strong interaction anywhere in the history.
func SimilarityScore(item *catalog.Item, history []profile.HistoryEntry) float64 {
	score := 0.0

	if item.OwnerID != "" {
		for _, e := range history {
			if strings.HasPrefix(e.ItemID, item.OwnerID) {
				score += similarityOwnerBonus
				break
			}
		}
	}

	for _, e := range history {
		if e.HighAffinity() {
			score += similarityAffinityBonus
			break
		}
	}

	if score == 0 {
		return SimilarityBaseline
	}
	return math.Min(score, 1.0)
}
