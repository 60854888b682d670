package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hay-kot/recall/internal/core/compile"
)

// snapshotPrefix names pre-compact snapshots so that lexicographic order is
// chronological: pre-compact-YYYYMMDD-HHMMSS.md.
const snapshotPrefix = "pre-compact-"

func (s *Store) snapshotDir() string {
	return filepath.Join(s.Dir(), "sessions", "snapshots")
}

func (s *Store) snapshotPaths() []string {
	matches, err := doublestar.FilepathGlob(filepath.Join(s.snapshotDir(), snapshotPrefix+"*.md"))
	if err != nil {
		return nil
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches
}

// LatestSnapshot returns the newest pre-compact snapshot truncated to limit
// chars, or false when none exists.
func (s *Store) LatestSnapshot(limit int) (string, bool) {
	paths := s.snapshotPaths()
	if len(paths) == 0 {
		return "", false
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		return "", false
	}

	return compile.Truncate(string(data), limit), true
}

// SaveSnapshot writes content as a new timestamped snapshot, truncating to
// maxChars, and prunes old snapshots beyond keep. Returns the snapshot path.
func (s *Store) SaveSnapshot(content string, maxChars, keep int) (string, error) {
	dir := s.snapshotDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	content = compile.Truncate(content, maxChars)

	name := fmt.Sprintf("%s%s.md", snapshotPrefix, time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	s.pruneSnapshots(keep)

	return path, nil
}

// pruneSnapshots deletes everything beyond the newest keep snapshots.
// Deletion failures are ignored; a stale snapshot is harmless.
func (s *Store) pruneSnapshots(keep int) {
	paths := s.snapshotPaths()
	if len(paths) <= keep {
		return
	}
	for _, old := range paths[keep:] {
		_ = os.Remove(old)
	}
}

// CompactLogEntry records one compaction event in sessions/compact-log.jsonl.
type CompactLogEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	Event         string    `json:"event"`
	Snapshot      string    `json:"snapshot,omitempty"`
	HadTranscript bool      `json:"had_transcript"`
}

// AppendCompactLog appends an entry to the compaction log.
func (s *Store) AppendCompactLog(entry CompactLogEntry) error {
	return appendJSONL(filepath.Join(s.Dir(), "sessions", "compact-log.jsonl"), entry)
}

func appendJSONL(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}
	return nil
}
