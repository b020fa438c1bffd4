// Package stats provides utilities for tracking engagement-event apply
// statistics during ingestion.
package stats

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// ApplyStats tracks cumulative statistics for engagement-event application.
// All operations are thread-safe using atomic counters.
type ApplyStats struct {
	applied int64 // Events applied to an item's counters
	dropped int64 // Events dropped (unknown item, malformed payload)
}

// NewApplyStats creates a new ApplyStats instance.
func NewApplyStats() *ApplyStats {
	return &ApplyStats{}
}

// RecordApplied increments the applied counter.
func (s *ApplyStats) RecordApplied() {
	atomic.AddInt64(&s.applied, 1)
}

// RecordDropped increments the dropped counter.
func (s *ApplyStats) RecordDropped() {
	atomic.AddInt64(&s.dropped, 1)
}

// Applied returns the total number of applied events.
func (s *ApplyStats) Applied() int64 {
	return atomic.LoadInt64(&s.applied)
}

// Dropped returns the total number of dropped events.
func (s *ApplyStats) Dropped() int64 {
	return atomic.LoadInt64(&s.dropped)
}

// Total returns the total number of processed events.
func (s *ApplyStats) Total() int64 {
	return s.Applied() + s.Dropped()
}

// Reset resets all counters to zero.
func (s *ApplyStats) Reset() {
	atomic.StoreInt64(&s.applied, 0)
	atomic.StoreInt64(&s.dropped, 0)
}

// String returns a human-readable summary of the statistics.
func (s *ApplyStats) String() string {
	return fmt.Sprintf("applied=%d dropped=%d total=%d", s.Applied(), s.Dropped(), s.Total())
}

// LogSummary logs a summary of apply statistics at INFO level.
// Useful for periodic reporting during ingestion.
func (s *ApplyStats) LogSummary(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("engagement apply summary",
		"applied", s.Applied(),
		"dropped", s.Dropped(),
		"total", s.Total())
}
