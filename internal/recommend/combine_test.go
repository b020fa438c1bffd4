package recommend

import (
	"math"
	"testing"
)

// TestCombineScores tests the weighted-average blend.
func TestCombineScores(t *testing.T) {
	tests := []struct {
		name     string
		b        Breakdown
		w        *Weights
		expected float64
	}{
		{
			name:     "uniform signals pass through",
			b:        Breakdown{Content: 0.5, Popularity: 0.5, Freshness: 0.5, Similarity: 0.5},
			w:        nil,
			expected: 0.5,
		},
		{
			name: "default weights divide by actual sum",
			b:    Breakdown{Content: 1, Popularity: 0, Freshness: 0, Similarity: 0},
			w:    nil,
			// 0.35 / 0.75, not 0.35 / 1.0
			expected: 0.4667,
		},
		{
			name:     "custom weights",
			b:        Breakdown{Content: 0.8, Popularity: 0.4, Freshness: 0.2, Similarity: 0.6},
			w:        &Weights{Content: 1, Popularity: 1, Freshness: 1, Similarity: 1},
			expected: 0.5,
		},
		{
			name:     "single non-zero weight selects that signal",
			b:        Breakdown{Content: 0.3, Popularity: 0.9, Freshness: 0.1, Similarity: 0.7},
			w:        &Weights{Popularity: 2},
			expected: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CombineScores(tt.b, tt.w)
			if math.Abs(got-tt.expected) > tolerance {
				t.Errorf("CombineScores() = %f, want %f", got, tt.expected)
			}
		})
	}
}

// TestCombineScoresAllZeroWeights verifies the documented unguarded edge:
// all-zero weights produce NaN rather than an error.
func TestCombineScoresAllZeroWeights(t *testing.T) {
	got := CombineScores(Breakdown{Content: 0.5}, &Weights{})
	if !math.IsNaN(got) {
		t.Errorf("expected NaN for all-zero weights, got %f", got)
	}
}

// TestNormalizeScores tests min-max scaling.
func TestNormalizeScores(t *testing.T) {
	tests := []struct {
		name     string
		in       []float64
		expected []float64
	}{
		{
			name:     "empty input",
			in:       []float64{},
			expected: []float64{},
		},
		{
			name:     "spread input",
			in:       []float64{0.2, 0.6, 1.0},
			expected: []float64{0.0, 0.5, 1.0},
		},
		{
			name:     "all equal maps to 0.5",
			in:       []float64{0.7, 0.7, 0.7},
			expected: []float64{0.5, 0.5, 0.5},
		},
		{
			name:     "single element maps to 0.5",
			in:       []float64{0.42},
			expected: []float64{0.5},
		},
		{
			name:     "negative values scale",
			in:       []float64{-1, 0, 1},
			expected: []float64{0.0, 0.5, 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeScores(tt.in)
			if len(got) != len(tt.expected) {
				t.Fatalf("length = %d, want %d", len(got), len(tt.expected))
			}
			for i := range got {
				if math.Abs(got[i]-tt.expected[i]) > tolerance {
					t.Errorf("index %d: got %f, want %f", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

// TestNormalizeScoresRoundTrip verifies that any list containing its own
// min and max produces exactly one 0.0 and one 1.0.
func TestNormalizeScoresRoundTrip(t *testing.T) {
	in := []float64{0.3, 0.9, 0.1, 0.5, 0.7}
	got := NormalizeScores(in)

	zeros, ones := 0, 0
	for _, v := range got {
		if v == 0.0 {
			zeros++
		}
		if v == 1.0 {
			ones++
		}
		if v < 0.0 || v > 1.0 {
			t.Errorf("normalized score out of [0,1]: %f", v)
		}
	}
	if zeros != 1 || ones != 1 {
		t.Errorf("expected exactly one 0.0 and one 1.0, got %d and %d", zeros, ones)
	}
}
