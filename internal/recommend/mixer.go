package recommend

import (
	"github.com/louper-app/louper/internal/catalog"
)

// MixRatio controls the round-robin interleave of the two feed halves:
// take Following items from the following timeline, then Recommended items
// from the recommendation list, repeating until both are exhausted.
type MixRatio struct {
	Following   int `json:"following"`
	Recommended int `json:"recommended"`
}

// DefaultMixRatio is the product default: two followed items per
// recommended item.
var DefaultMixRatio = MixRatio{Following: 2, Recommended: 1}

// MixRecommendations interleaves two ranked lists at the given ratio.
// A list that runs out early contributes nothing in its turn while the
// other continues, so the output always contains every element of both
// inputs exactly once. Non-positive ratio fields fall back to the
// corresponding default so the interleave always makes progress.
func MixRecommendations(following, recommended []*catalog.Item, ratio MixRatio) []*catalog.Item {
	if ratio.Following <= 0 {
		ratio.Following = DefaultMixRatio.Following
	}
	if ratio.Recommended <= 0 {
		ratio.Recommended = DefaultMixRatio.Recommended
	}

	out := make([]*catalog.Item, 0, len(following)+len(recommended))
	fi, ri := 0, 0
	for fi < len(following) || ri < len(recommended) {
		for n := 0; n < ratio.Following && fi < len(following); n++ {
			out = append(out, following[fi])
			fi++
		}
		for n := 0; n < ratio.Recommended && ri < len(recommended); n++ {
			out = append(out, recommended[ri])
			ri++
		}
	}
	return out
}
