package recommend

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/louper-app/louper/internal/catalog"
)

// ErrLengthMismatch is returned when items and scores differ in length.
// It signals a caller bug and is not recoverable.
var ErrLengthMismatch = errors.New("items and scores must have the same length")

// DefaultBucketSize is the bucket width for the diversity shuffle.
const DefaultBucketSize = 5

// ShuffleWithinBuckets reorders items for diversity: pairs are sorted by
// score descending, partitioned into consecutive buckets of bucketSize,
// and each bucket is shuffled independently. Bucket order is preserved, so
// an item never moves past the boundary of a better-scored bucket; only
// near-tied neighbors trade places.
//
// rng is the sole source of non-determinism in the scoring pipeline. Pass
// a seeded *rand.Rand for reproducible output; nil falls back to a
// time-seeded source. A non-positive bucketSize uses DefaultBucketSize.
func ShuffleWithinBuckets(items []*catalog.Item, scores []float64, bucketSize int, rng *rand.Rand) ([]*catalog.Item, error) {
	if len(items) != len(scores) {
		return nil, ErrLengthMismatch
	}

	paired := make([]Scored, len(items))
	for i, it := range items {
		paired[i] = Scored{Item: it, Score: scores[i]}
	}

	shuffled := shuffleScored(paired, bucketSize, rng)

	out := make([]*catalog.Item, len(shuffled))
	for i, s := range shuffled {
		out[i] = s.Item
	}
	return out, nil
}

// shuffleScored is the scored-pair form of ShuffleWithinBuckets used by the
// recommender, where scores already travel with their items.
func shuffleScored(paired []Scored, bucketSize int, rng *rand.Rand) []Scored {
	if bucketSize <= 0 {
		bucketSize = DefaultBucketSize
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	out := make([]Scored, len(paired))
	copy(out, paired)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	for start := 0; start < len(out); start += bucketSize {
		end := start + bucketSize
		if end > len(out) {
			end = len(out)
		}
		fisherYates(out[start:end], rng)
	}
	return out
}

// fisherYates shuffles a bucket in place.
func fisherYates(bucket []Scored, rng *rand.Rand) {
	for i := len(bucket) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		bucket[i], bucket[j] = bucket[j], bucket[i]
	}
}
