package memory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendMetric(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AppendMetric(MetricEntry{
		Timestamp: time.Now(),
		Event:     "stop",
		Progress:  "2/5",
		Next:      "t3",
	}))

	data, err := os.ReadFile(filepath.Join(s.Dir(), "metrics", "session-metrics.jsonl"))
	require.NoError(t, err)

	var got MetricEntry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &got))
	assert.Equal(t, "stop", got.Event)
	assert.Equal(t, "2/5", got.Progress)
	assert.Equal(t, "t3", got.Next)
}

func TestRecentTestIndicator(t *testing.T) {
	s := newTestStore(t)

	assert.False(t, s.RecentTestIndicator(5*time.Minute))

	path := filepath.Join(s.root, "test-results.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	assert.True(t, s.RecentTestIndicator(5*time.Minute))

	// Stale artifacts don't count.
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
	assert.False(t, s.RecentTestIndicator(5*time.Minute))
}
