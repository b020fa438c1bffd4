// Package recommend implements the multi-signal scoring and ranking
// pipeline behind the personalized feed: four independent signal
// calculators, a weighted combiner, candidate-set hygiene, a
// diversity-preserving bucket shuffle, and a feed mixer.
//
// Basic Usage:
//
//	// Load calibration (typically at startup)
//	weights, err := recommend.LoadCalibration("configs/ranking.calibration.json")
//	if err != nil {
//		slog.Warn("using default weights", "error", err)
//	}
//
//	rec := recommend.NewRecommender(weights)
//	top := rec.TopRecommendations(candidates, userProfile, history, 20, true)
//
//	// Interleave with the following timeline at the default 2:1 ratio
//	feed := recommend.MixRecommendations(timeline, itemsOf(top), recommend.DefaultMixRatio)
//
// Signals:
//
// ContentScore, PopularityScore, FreshnessScore, and SimilarityScore each
// map one candidate item (plus contextual user data) to a score in [0, 1].
// All of them degrade silently on missing optional fields so that posts,
// products, and rooms can flow through one pipeline without validation.
// The documented floors (content 0.1, freshness 0.05, similarity 0.2)
// keep unmatched and stale items weakly rankable instead of zeroed out.
//
// Determinism:
//
// Everything in this package is a pure function of its inputs except the
// bucket shuffle, whose random source is injected. Scoring calls are safe
// to run concurrently; no shared state is mutated.
//
// Known permissive edges, preserved deliberately: all-zero weights produce
// NaN from the combiner, future-dated items can exceed 1.0 in freshness,
// and items without an ID are silently dropped by deduplication.
package recommend
