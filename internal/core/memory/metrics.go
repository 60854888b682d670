package memory

import (
	"os"
	"path/filepath"
	"time"
)

// MetricEntry is one event in metrics/session-metrics.jsonl.
type MetricEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	FeatureID string    `json:"feature_id,omitempty"`
	Progress  string    `json:"progress,omitempty"`
	Next      string    `json:"next_feature,omitempty"`
	WriteMode bool      `json:"write_mode,omitempty"`
}

// AppendMetric appends an event to the session metrics log.
func (s *Store) AppendMetric(entry MetricEntry) error {
	return appendJSONL(filepath.Join(s.Dir(), "metrics", "session-metrics.jsonl"), entry)
}

// RecentTestIndicator reports whether a known test result artifact was
// touched within the freshness window. Write mode uses this as the gate for
// auto-completing a task.
func (s *Store) RecentTestIndicator(window time.Duration) bool {
	indicators := []string{
		filepath.Join(s.Dir(), "sessions", "last-test-result"),
		filepath.Join(s.root, "test-results.json"),
		filepath.Join(s.root, "coverage", "lcov.info"),
	}

	for _, path := range indicators {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) < window {
			return true
		}
	}
	return false
}
