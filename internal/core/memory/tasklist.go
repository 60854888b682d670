package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hay-kot/recall/internal/core/task"
)

// TaskList loads the project's task file. A missing or unreadable file
// yields an empty list: the compiler treats absence as a valid state.
func (s *Store) TaskList() task.List {
	data, err := os.ReadFile(filepath.Join(s.root, s.taskFile))
	if err != nil {
		return task.List{}
	}

	var list task.List
	if err := json.Unmarshal(data, &list); err != nil {
		return task.List{}
	}
	return list
}

// CompleteTask marks a feature as passed in the task file and stamps the
// completion time. This is the one write the engine ever makes to the task
// file, and only write mode reaches it.
func (s *Store) CompleteTask(id string) error {
	path := filepath.Join(s.root, s.taskFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read task file: %w", err)
	}

	// Decode generically so unknown fields written by the planning tool
	// survive the round trip.
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse task file: %w", err)
	}

	features, ok := doc["features"].([]any)
	if !ok {
		return fmt.Errorf("task file has no features list")
	}

	if !markComplete(features, id) {
		return fmt.Errorf("task %q not found", id)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}

	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	return nil
}

func markComplete(items []any, id string) bool {
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if item["id"] == id {
			item["passes"] = true
			item["completed_at"] = time.Now().Format(time.RFC3339)
			return true
		}
		if subtasks, ok := item["subtasks"].([]any); ok {
			if markComplete(subtasks, id) {
				return true
			}
		}
	}
	return false
}
