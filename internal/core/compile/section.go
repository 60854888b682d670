// Package compile assembles memory fragments into a single bounded context
// document using priority eviction and proportional truncation.
package compile

import (
	"strings"
	"unicode/utf8"
)

// Section names. Each maps to a fixed priority weight; unknown names get 0.
const (
	SectionHeader         = "header"
	SectionCurrentTask    = "current_task"
	SectionSessionSummary = "session_summary"
	SectionConstraints    = "constraints"
	SectionFailures       = "failures"
	SectionCommands       = "commands"
	SectionStrategies     = "strategies"
)

// CriticalPriority is the eviction threshold. Sections at or above it are
// never dropped wholesale, only proportionally truncated.
const CriticalPriority = 80

// TruncationMarker is appended to any content cut short to fit a limit.
const TruncationMarker = "\n[...truncated]"

var sectionPriorities = map[string]int{
	SectionHeader:         100,
	SectionCurrentTask:    90,
	SectionSessionSummary: 85,
	SectionConstraints:    80,
	SectionFailures:       70,
	SectionCommands:       65,
	SectionStrategies:     60,
}

// Section is a named, prioritized block of text competing for budget space.
type Section struct {
	Name     string
	Priority int
	Content  string
	Size     int
}

// NewSection builds a section with its priority looked up from the fixed
// table and its size snapshotted from the content.
func NewSection(name, content string) Section {
	return Section{
		Name:     name,
		Priority: sectionPriorities[name],
		Content:  content,
		Size:     len(content),
	}
}

// Priority returns the fixed weight for a section name, 0 when unknown.
func Priority(name string) int {
	return sectionPriorities[name]
}

// Truncate cuts s to at most limit bytes, preferring a newline boundary past
// the midpoint so a line is not chopped mid-sentence, and appends the
// truncation marker. Content already within the limit is returned unchanged.
func Truncate(s string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if len(s) <= limit {
		return s
	}

	cut := cutValid(s, limit)
	if nl := strings.LastIndexByte(cut, '\n'); nl > limit/2 {
		cut = cut[:nl]
	}

	return cut + TruncationMarker
}

// cutValid slices s to at most limit bytes without splitting a UTF-8 rune.
func cutValid(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := s[:limit]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
