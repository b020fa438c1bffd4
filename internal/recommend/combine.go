package recommend

// Breakdown holds the four per-item signal scores before weighting.
type Breakdown struct {
	Content    float64 `json:"content"`
	Popularity float64 `json:"popularity"`
	Freshness  float64 `json:"freshness"`
	Similarity float64 `json:"similarity"`
}

// CombineScores blends the four signals into one score using a weighted
// average: sum(signal*weight) / sum(weight). Dividing by the actual weight
// sum means weights that don't sum to 1 still yield output in the same
// range as the inputs. Nil weights use the defaults.
//
// All-zero weights are not guarded: the division yields NaN. That is a
// caller contract violation, kept permissive to match the rest of the
// pipeline's silent-degradation behavior.
func CombineScores(b Breakdown, w *Weights) float64 {
	if w == nil {
		w = DefaultWeights()
	}
	weighted := b.Content*w.Content +
		b.Popularity*w.Popularity +
		b.Freshness*w.Freshness +
		b.Similarity*w.Similarity
	return weighted / w.Sum()
}

// NormalizeScores min-max scales a score list into [0, 1], preserving
// length and order. When every score is equal the output is all 0.5 rather
// than zeros or NaN, so uniform input stays rankable. Empty input returns
// an empty slice.
func NormalizeScores(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	if max == min {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}

	span := max - min
	for i, s := range scores {
		out[i] = (s - min) / span
	}
	return out
}
