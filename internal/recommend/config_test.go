package recommend

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// TestDefaultWeights verifies the calibrated defaults, including the
// deliberate 0.75 sum.
func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()

	if w.Content != 0.35 || w.Popularity != 0.15 || w.Freshness != 0.15 || w.Similarity != 0.10 {
		t.Errorf("unexpected defaults: %+v", w)
	}
	if math.Abs(w.Sum()-0.75) > tolerance {
		t.Errorf("default weight sum = %f, want 0.75", w.Sum())
	}

	// Each call returns a fresh value; mutating one must not leak.
	w.Content = 99
	if DefaultWeights().Content != 0.35 {
		t.Error("DefaultWeights shares state across calls")
	}
}

// TestLoadCalibrationMissingFile verifies graceful degradation to defaults.
func TestLoadCalibrationMissingFile(t *testing.T) {
	w, err := LoadCalibration("/nonexistent/calibration.json")
	if err == nil {
		t.Error("expected error for missing file")
	}
	if w == nil || w.Content != 0.35 {
		t.Errorf("expected default weights on error, got %+v", w)
	}
}

// TestLoadCalibrationEmptyPath verifies defaults without error.
func TestLoadCalibrationEmptyPath(t *testing.T) {
	w, err := LoadCalibration("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Content != 0.35 {
		t.Errorf("expected defaults, got %+v", w)
	}
}

// TestLoadCalibrationPartialOverride verifies partial files merge with
// defaults.
func TestLoadCalibrationPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calibration.json")
	content := `{"version": "1", "weights": {"content": 0.5, "similarity": 0.25}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write calibration file: %v", err)
	}

	w, err := LoadCalibration(path)
	if err != nil {
		t.Fatalf("LoadCalibration failed: %v", err)
	}
	if w.Content != 0.5 {
		t.Errorf("content = %f, want 0.5", w.Content)
	}
	if w.Similarity != 0.25 {
		t.Errorf("similarity = %f, want 0.25", w.Similarity)
	}
	// Unspecified weights keep defaults.
	if w.Popularity != 0.15 || w.Freshness != 0.15 {
		t.Errorf("unspecified weights should keep defaults: %+v", w)
	}
}

// TestLoadCalibrationInvalidJSON verifies fallback on parse failure.
func TestLoadCalibrationInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calibration.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write calibration file: %v", err)
	}

	w, err := LoadCalibration(path)
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
	if w.Content != 0.35 {
		t.Errorf("expected defaults on parse error, got %+v", w)
	}
}

// TestMergeCalibration tests the nil and partial merge paths.
func TestMergeCalibration(t *testing.T) {
	t.Run("nil base returns defaults", func(t *testing.T) {
		w := MergeCalibration(nil, &Weights{Content: 0.9})
		if w.Content != 0.35 {
			t.Errorf("expected defaults, got %+v", w)
		}
	})

	t.Run("nil override copies base", func(t *testing.T) {
		base := &Weights{Content: 0.6, Popularity: 0.2, Freshness: 0.1, Similarity: 0.1}
		w := MergeCalibration(base, nil)
		if *w != *base {
			t.Errorf("expected copy of base, got %+v", w)
		}
		w.Content = 0
		if base.Content != 0.6 {
			t.Error("merge result aliases base")
		}
	})

	t.Run("zero fields keep base", func(t *testing.T) {
		base := DefaultWeights()
		w := MergeCalibration(base, &Weights{Freshness: 0.4})
		if w.Freshness != 0.4 || w.Content != 0.35 {
			t.Errorf("unexpected merge result: %+v", w)
		}
	})
}

// TestMetricsRegister verifies all collectors register cleanly and a
// second registration fails.
func TestMetricsRegister(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()

	if err := m.Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := m.Register(reg); err == nil {
		t.Error("expected duplicate registration to fail")
	}

	// Recording must not panic on registered collectors.
	m.RecordItemsScored(5)
	m.RecordColdStart()
	m.ObserveScoring(0)
}
