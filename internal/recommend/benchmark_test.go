package recommend

import (
	"math/rand"
	"testing"
	"time"

	"github.com/louper-app/louper/internal/catalog"
	"github.com/louper-app/louper/internal/profile"
)

func benchFixture(n int) ([]*catalog.Item, *profile.Profile, []profile.HistoryEntry) {
	now := time.Now()
	items := make([]*catalog.Item, n)
	for i := 0; i < n; i++ {
		items[i] = &catalog.Item{
			ID:        string(rune('a' + i%26)),
			Kind:      catalog.KindPost,
			OwnerID:   "seller9",
			Category:  "fashion",
			Hashtags:  []string{"ootd", "thrift"},
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
			Post:      &catalog.PostStats{LikeCount: int64(i * 13), CommentCount: int64(i)},
		}
	}
	p := &profile.Profile{
		InterestCategories: []string{"fashion"},
		FavoriteHashtags:   []string{"ootd"},
		FollowingIDs:       []string{"seller9"},
	}
	history := []profile.HistoryEntry{{ItemID: "seller9/x", Weight: 8}}
	return items, p, history
}

// BenchmarkContentScore benchmarks the content signal calculator.
func BenchmarkContentScore(b *testing.B) {
	items, p, _ := benchFixture(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ContentScore(items[0], p)
	}
}

// BenchmarkPopularityScore benchmarks the popularity signal calculator.
func BenchmarkPopularityScore(b *testing.B) {
	items, _, _ := benchFixture(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		PopularityScore(items[0])
	}
}

// BenchmarkFreshnessScore benchmarks the freshness signal calculator.
func BenchmarkFreshnessScore(b *testing.B) {
	items, _, _ := benchFixture(1)
	now := time.Now()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FreshnessScore(items[0], now)
	}
}

// BenchmarkSimilarityScore benchmarks the similarity signal calculator.
func BenchmarkSimilarityScore(b *testing.B) {
	items, _, history := benchFixture(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SimilarityScore(items[0], history)
	}
}

// BenchmarkCombineScores benchmarks the weighted combiner.
func BenchmarkCombineScores(b *testing.B) {
	breakdown := Breakdown{Content: 0.8, Popularity: 0.4, Freshness: 0.6, Similarity: 0.3}
	weights := DefaultWeights()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CombineScores(breakdown, weights)
	}
}

// BenchmarkTopRecommendations benchmarks a full ranking pass over 200
// candidates.
func BenchmarkTopRecommendations(b *testing.B) {
	items, p, history := benchFixture(200)
	rec := NewRecommenderWithRand(nil, rand.New(rand.NewSource(1)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec.TopRecommendations(items, p, history, 20, true)
	}
}
