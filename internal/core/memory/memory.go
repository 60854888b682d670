// Package memory reads and writes the .agent/ directory: memory fragments,
// pre-compact snapshots, the task list, and session metrics.
package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hay-kot/recall/internal/core/compile"
)

// Memory categories, each a subdirectory of .agent/memory/.
const (
	CategoryConstraints = "constraints"
	CategoryFailures    = "failures"
	CategoryStrategies  = "strategies"
)

// Store provides access to one project's .agent/ directory. All operations
// are best-effort reads over plain files; a missing directory is just an
// empty category.
type Store struct {
	root     string // project directory
	agentDir string // usually ".agent"
	taskFile string // usually "feature_list.json"
}

// NewStore creates a store rooted at the project directory.
func NewStore(root, agentDir, taskFile string) *Store {
	return &Store{root: root, agentDir: agentDir, taskFile: taskFile}
}

// Dir returns the absolute path of the .agent/ directory.
func (s *Store) Dir() string {
	return filepath.Join(s.root, s.agentDir)
}

func (s *Store) memoryDir(category string) string {
	return filepath.Join(s.Dir(), "memory", category)
}

// Fragments returns up to max fragment bodies for a category, each truncated
// to limit chars at a clean break. Failures and strategies come newest-first
// (recent mistakes matter most); constraints keep stable name order.
// Unreadable files are skipped.
func (s *Store) Fragments(category string, max, limit int) []string {
	dir := s.memoryDir(category)

	matches, err := doublestar.FilepathGlob(filepath.Join(dir, "*.md"))
	if err != nil || len(matches) == 0 {
		return nil
	}

	if category == CategoryConstraints {
		sort.Strings(matches)
	} else {
		sortByModTimeDesc(matches)
	}

	if len(matches) > max {
		matches = matches[:max]
	}

	fragments := make([]string, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		content := strings.TrimSpace(compile.Truncate(string(data), limit))
		if content == "" {
			continue
		}
		fragments = append(fragments, content)
	}

	return fragments
}

// Record writes a new fragment into a category, named by timestamp and id so
// lexicographic order matches creation order.
func (s *Store) Record(category, id, message string) (string, error) {
	dir := s.memoryDir(category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s dir: %w", category, err)
	}

	name := fmt.Sprintf("%s-%s.md", time.Now().Format("20060102-150405"), sanitizeID(id))
	path := filepath.Join(dir, name)

	content := fmt.Sprintf("### %s\n%s\n", id, message)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write fragment: %w", err)
	}

	return path, nil
}

// WorkingContext returns .agent/working-context/current.md, the manual
// fallback when no snapshot or transcript exists.
func (s *Store) WorkingContext() (string, bool) {
	data, err := os.ReadFile(filepath.Join(s.Dir(), "working-context", "current.md"))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func sanitizeID(id string) string {
	mapper := func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}
	out := strings.Map(mapper, id)
	if out == "" {
		out = "note"
	}
	return out
}

func sortByModTimeDesc(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		fi, errI := os.Stat(paths[i])
		fj, errJ := os.Stat(paths[j])
		if errI != nil || errJ != nil {
			return paths[i] > paths[j]
		}
		return fi.ModTime().After(fj.ModTime())
	})
}
