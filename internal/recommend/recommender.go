package recommend

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/louper-app/louper/internal/catalog"
	"github.com/louper-app/louper/internal/profile"
)

// DefaultLimit caps ranked results when the caller passes no limit.
const DefaultLimit = 20

// shuffleThreshold is the minimum truncated-list length for the diversity
// shuffle to apply. At five or fewer results the feed is short enough that
// reshuffling adds noise without diversity benefit.
const shuffleThreshold = 5

// Result is the full scoring output for one item, including the signal
// breakdown. Ephemeral: produced per call, never persisted.
type Result struct {
	ID        string    `json:"id"`
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// Scored pairs an item with its combined score. The breakdown is discarded
// at this layer.
type Scored struct {
	Item  *catalog.Item `json:"item"`
	Score float64       `json:"score"`
}

// Recommender orchestrates the scoring pipeline: per-item signals,
// weighted combine, ranking, truncation, and diversity shuffle. Safe for
// concurrent use; every scoring call is a pure function of its inputs
// apart from the shuffle's random source.
type Recommender struct {
	weights *Weights
	metrics *Metrics
	now     func() time.Time

	mu  sync.Mutex
	rng *rand.Rand // protected by mu
}

// NewRecommender creates a Recommender with the given weights (nil for
// defaults) and a time-seeded shuffle source.
func NewRecommender(weights *Weights) *Recommender {
	return NewRecommenderWithRand(weights, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewRecommenderWithRand creates a Recommender with an explicit random
// source for the diversity shuffle, making ranked output reproducible
// under a fixed seed.
func NewRecommenderWithRand(weights *Weights, rng *rand.Rand) *Recommender {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Recommender{
		weights: weights,
		rng:     rng,
		now:     time.Now,
	}
}

// SetMetrics attaches Prometheus metrics. Must be called before the first
// scoring call if used at all.
func (r *Recommender) SetMetrics(m *Metrics) {
	r.metrics = m
}

// setClock overrides the freshness reference time. Test hook.
func (r *Recommender) setClock(now func() time.Time) {
	r.now = now
}

// Weights returns the recommender's weight configuration.
func (r *Recommender) Weights() *Weights {
	return r.weights
}

// ScoreItem computes all four signals for one item and combines them.
// The result carries the item's ID; an item with no ID propagates the
// empty string, mirroring the permissive dedup behavior.
func (r *Recommender) ScoreItem(item *catalog.Item, p *profile.Profile, history []profile.HistoryEntry) Result {
	b := Breakdown{
		Content:    ContentScore(item, p),
		Popularity: PopularityScore(item),
		Freshness:  FreshnessScore(item, r.now()),
		Similarity: SimilarityScore(item, history),
	}
	if r.metrics != nil && b.Content == ContentFloor {
		r.metrics.RecordColdStart()
	}
	return Result{
		ID:        item.ID,
		Score:     CombineScores(b, r.weights),
		Breakdown: b,
	}
}

// ScoreItems maps ScoreItem over a candidate list.
func (r *Recommender) ScoreItems(items []*catalog.Item, p *profile.Profile, history []profile.HistoryEntry) []Scored {
	out := make([]Scored, len(items))
	for i, it := range items {
		res := r.ScoreItem(it, p, history)
		out[i] = Scored{Item: it, Score: res.Score}
	}
	if r.metrics != nil {
		r.metrics.RecordItemsScored(len(items))
	}
	return out
}

// TopRecommendations scores all candidates and returns the top limit of
// them, sorted by score descending. When enableShuffle is set and more
// than five results survive truncation, the diversity shuffle randomizes
// order within fixed-size score buckets. Shuffling happens after
// truncation: it never pulls in items beyond the top-limit cut.
//
// A non-positive limit uses DefaultLimit. The sort is not stable; ties may
// order differently across calls even without the shuffle.
func (r *Recommender) TopRecommendations(items []*catalog.Item, p *profile.Profile, history []profile.HistoryEntry, limit int, enableShuffle bool) []Scored {
	start := time.Now()
	if limit <= 0 {
		limit = DefaultLimit
	}

	scored := r.ScoreItems(items, p, history)
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	if enableShuffle && len(scored) > shuffleThreshold {
		r.mu.Lock()
		scored = shuffleScored(scored, DefaultBucketSize, r.rng)
		r.mu.Unlock()
	}

	if r.metrics != nil {
		r.metrics.ObserveScoring(time.Since(start))
	}
	return scored
}
