// Package task defines the work item tree and the current-task resolver.
package task

import (
	"encoding/json"
	"strings"
)

// Item is one node of the task tree. A node with subtasks is a grouping
// container; only leaves count as units of work.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	TaskFile    string `json:"task"`
	Passes      bool   `json:"passes"`
	Blocked     bool   `json:"blocked"`
	Priority    int    `json:"priority"`
	CompletedAt string `json:"completed_at"`
	Subtasks    []Item `json:"subtasks"`
}

// List is the top-level task file shape (feature_list.json).
type List struct {
	NextTask string `json:"next_task"`
	Features []Item `json:"features"`
}

// UnmarshalJSON decodes an item tolerantly: a field of the wrong type is
// treated as unset, and a malformed subtask is skipped rather than failing
// the whole tree. Planning tools of varying quality write these files.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	str := func(key string) string {
		var s string
		_ = json.Unmarshal(raw[key], &s)
		return s
	}
	boolean := func(key string) bool {
		var b bool
		_ = json.Unmarshal(raw[key], &b)
		return b
	}

	i.ID = str("id")
	i.Name = str("name")
	i.Description = str("description")
	i.Status = str("status")
	i.TaskFile = str("task")
	i.CompletedAt = str("completed_at")
	i.Passes = boolean("passes")
	i.Blocked = boolean("blocked")
	_ = json.Unmarshal(raw["priority"], &i.Priority)

	i.Subtasks = nil
	var elems []json.RawMessage
	if err := json.Unmarshal(raw["subtasks"], &elems); err == nil {
		for _, elem := range elems {
			var child Item
			if err := json.Unmarshal(elem, &child); err != nil {
				continue
			}
			i.Subtasks = append(i.Subtasks, child)
		}
	}

	return nil
}

// UnmarshalJSON decodes the task file tolerantly, skipping malformed features.
func (l *List) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	_ = json.Unmarshal(raw["next_task"], &l.NextTask)

	l.Features = nil
	var elems []json.RawMessage
	if err := json.Unmarshal(raw["features"], &elems); err == nil {
		for _, elem := range elems {
			var item Item
			if err := json.Unmarshal(elem, &item); err != nil {
				continue
			}
			l.Features = append(l.Features, item)
		}
	}

	return nil
}

// IsComplete reports whether the item is done. Both task file schemas are
// handled: an explicit passes flag or a free-text status of "complete".
func (i Item) IsComplete() bool {
	return i.Passes || strings.EqualFold(i.Status, "complete")
}

// IsBlocked reports whether the item is blocked on something external.
func (i Item) IsBlocked() bool {
	return i.Blocked || strings.EqualFold(i.Status, "blocked")
}

// IsLeaf reports whether the item is a unit of work rather than a container.
func (i Item) IsLeaf() bool {
	return len(i.Subtasks) == 0
}

// Count returns completed and total leaf counts across the tree. Containers
// contribute only their children's counts, never their own unit.
func Count(items []Item) (completed, total int) {
	for _, item := range items {
		if !item.IsLeaf() {
			subCompleted, subTotal := Count(item.Subtasks)
			completed += subCompleted
			total += subTotal
			continue
		}

		total++
		if item.IsComplete() {
			completed++
		}
	}
	return completed, total
}

// FindByID returns the first item whose id matches, searching depth-first
// pre-order, or nil when absent.
func FindByID(items []Item, id string) *Item {
	for idx := range items {
		if items[idx].ID == id {
			return &items[idx]
		}
		if found := FindByID(items[idx].Subtasks, id); found != nil {
			return found
		}
	}
	return nil
}

// NextIncomplete returns the first leaf that is neither complete nor blocked,
// recursing into subtasks before considering the item itself. Containers are
// never returned.
func NextIncomplete(items []Item) *Item {
	for idx := range items {
		if !items[idx].IsLeaf() {
			if found := NextIncomplete(items[idx].Subtasks); found != nil {
				return found
			}
			continue
		}
		if !items[idx].IsComplete() && !items[idx].IsBlocked() {
			return &items[idx]
		}
	}
	return nil
}

// Resolve picks the current work item: the pinned item when it is still
// actionable, otherwise the first incomplete leaf in depth-first order.
// Returns nil when nothing qualifies.
func Resolve(items []Item, pinnedID string) *Item {
	if pinnedID != "" {
		if pinned := FindByID(items, pinnedID); pinned != nil && !pinned.IsComplete() && !pinned.IsBlocked() {
			return pinned
		}
	}
	return NextIncomplete(items)
}
