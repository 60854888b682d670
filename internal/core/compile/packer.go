package compile

import (
	"sort"
	"strings"
)

// truncationMargin shaves 10% off each proportional allowance to absorb the
// join separators and truncation markers added after scaling.
const truncationMargin = 0.9

// Pack fits sections into the character budget with a two phase policy.
//
// Phase 1 evicts whole sections, lowest priority first, until the total fits
// or only critical sections (priority >= CriticalPriority) remain. Phase 2,
// when still over budget, scales every survivor to its proportional share.
// Survivors are then joined in descending priority order.
//
// The budget is a soft target: when critical content alone exceeds it, the
// output exceeds it too rather than dropping critical sections.
func Pack(sections []Section, budget int) string {
	working := make([]Section, len(sections))
	copy(working, sections)

	// Ascending by priority, original order preserved within ties, so the
	// cheapest section to lose is always at the front.
	sort.SliceStable(working, func(i, j int) bool {
		return working[i].Priority < working[j].Priority
	})

	total := 0
	for _, s := range working {
		total += s.Size
	}

	for total > budget && len(working) > 0 {
		lowest := working[0]
		if lowest.Priority >= CriticalPriority {
			break
		}
		working = working[1:]
		total -= lowest.Size
	}

	if total > budget && total > 0 {
		ratio := float64(budget) / float64(total)
		for i := range working {
			allowed := int(float64(working[i].Size) * ratio * truncationMargin)
			working[i].Content = Truncate(working[i].Content, allowed)
			working[i].Size = len(working[i].Content)
		}
	}

	sort.SliceStable(working, func(i, j int) bool {
		return working[i].Priority > working[j].Priority
	})

	parts := make([]string, 0, len(working))
	for _, s := range working {
		if strings.TrimSpace(s.Content) == "" {
			continue
		}
		parts = append(parts, s.Content)
	}

	return strings.Join(parts, "\n\n")
}
