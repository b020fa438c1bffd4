package recommend

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Weights defines the blend of the four ranking signals.
// Weights need not sum to 1: the combiner divides by the actual sum, so any
// non-degenerate set of weights yields scores in the same range as the
// inputs. All-zero weights are a caller error and produce NaN.
type Weights struct {
	Content    float64 `json:"content"`    // Weight for interest/follow/price match (default: 0.35)
	Popularity float64 `json:"popularity"` // Weight for engagement volume (default: 0.15)
	Freshness  float64 `json:"freshness"`  // Weight for recency decay (default: 0.15)
	Similarity float64 `json:"similarity"` // Weight for history affinity (default: 0.10)
}

// Sum returns the total of all four weights.
func (w *Weights) Sum() float64 {
	return w.Content + w.Popularity + w.Freshness + w.Similarity
}

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string  `json:"version"` // Config version for future compatibility
	Weights Weights `json:"weights"` // Weight configuration
}

// DefaultWeights returns the default signal weight configuration.
//
// Formula: combined = (content*0.35 + popularity*0.15 + freshness*0.15 + similarity*0.10) / 0.75
//   - Content dominates: the feed is preference-driven first
//   - Popularity and freshness share second place
//   - Similarity is a light nudge from interaction history
//
// The defaults deliberately sum to 0.75, not 1.0. Because the combiner
// divides by the actual sum, this amounts to a fixed ~1.33x rescale that
// has been calibrated into the product; do not "fix" the sum to 1.0
// without recalibrating downstream score thresholds.
func DefaultWeights() *Weights {
	return &Weights{
		Content:    0.35,
		Popularity: 0.15,
		Freshness:  0.15,
		Similarity: 0.10,
	}
}

// LoadCalibration loads signal weights from a JSON calibration file.
// If the file doesn't exist or can't be parsed, returns default weights
// with an error so callers can degrade gracefully. Partial configurations
// are merged with defaults.
func LoadCalibration(filePath string) (*Weights, error) {
	if filePath == "" {
		return DefaultWeights(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	defaults := DefaultWeights()
	merged := MergeCalibration(defaults, &config.Weights)
	logCalibrationOverrides(defaults, merged)

	return merged, nil
}

// MergeCalibration merges override weights with base weights.
// Only non-zero values from the override are applied, which allows partial
// overrides in the calibration file. A weight cannot be calibrated to
// exactly zero through this path; zero a signal by omitting it upstream.
func MergeCalibration(base *Weights, override *Weights) *Weights {
	if base == nil {
		return DefaultWeights()
	}
	if override == nil {
		result := *base
		return &result
	}

	result := *base

	if override.Content != 0 {
		result.Content = override.Content
	}
	if override.Popularity != 0 {
		result.Popularity = override.Popularity
	}
	if override.Freshness != 0 {
		result.Freshness = override.Freshness
	}
	if override.Similarity != 0 {
		result.Similarity = override.Similarity
	}

	return &result
}

// logCalibrationOverrides logs which weights were overridden from defaults.
func logCalibrationOverrides(defaults *Weights, loaded *Weights) {
	var overrides []string

	if loaded.Content != defaults.Content {
		overrides = append(overrides, fmt.Sprintf("content: %.2f -> %.2f",
			defaults.Content, loaded.Content))
	}
	if loaded.Popularity != defaults.Popularity {
		overrides = append(overrides, fmt.Sprintf("popularity: %.2f -> %.2f",
			defaults.Popularity, loaded.Popularity))
	}
	if loaded.Freshness != defaults.Freshness {
		overrides = append(overrides, fmt.Sprintf("freshness: %.2f -> %.2f",
			defaults.Freshness, loaded.Freshness))
	}
	if loaded.Similarity != defaults.Similarity {
		overrides = append(overrides, fmt.Sprintf("similarity: %.2f -> %.2f",
			defaults.Similarity, loaded.Similarity))
	}

	if len(overrides) > 0 {
		slog.Info("loaded ranking calibration with overrides",
			"overrides", overrides)
	} else {
		slog.Info("loaded ranking calibration (using all defaults)")
	}
}
