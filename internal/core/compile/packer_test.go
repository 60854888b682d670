package compile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPack_UnderBudget_Unchanged(t *testing.T) {
	sections := []Section{
		NewSection(SectionHeader, "# Project Context"),
		NewSection(SectionCurrentTask, "## Current Task\ndo the thing"),
	}

	got := Pack(sections, 6000)

	assert.Equal(t, "# Project Context\n\n## Current Task\ndo the thing", got)
}

func TestPack_EvictsLowestPriorityFirst(t *testing.T) {
	header := NewSection(SectionHeader, strings.Repeat("h", 50))
	current := NewSection(SectionCurrentTask, strings.Repeat("t", 200))
	strategies := NewSection(SectionStrategies, strings.Repeat("s", 5000))

	got := Pack([]Section{header, current, strategies}, 300)

	// Strategies go wholesale; the survivors fit and are untouched.
	assert.NotContains(t, got, "s")
	assert.Contains(t, got, header.Content)
	assert.Contains(t, got, current.Content)
	assert.Equal(t, 50+2+200, len(got))
}

func TestPack_EvictionOrder_KeepsHigherOfTheExpendable(t *testing.T) {
	sections := []Section{
		NewSection(SectionHeader, strings.Repeat("h", 100)),
		NewSection(SectionFailures, strings.Repeat("f", 100)),  // priority 70
		NewSection(SectionCommands, strings.Repeat("c", 100)),  // priority 65
		NewSection(SectionStrategies, strings.Repeat("s", 80)), // priority 60
	}

	// Budget fits header + failures + commands, not strategies.
	got := Pack(sections, 310)

	assert.NotContains(t, got, "s")
	assert.Contains(t, got, strings.Repeat("f", 100))
	assert.Contains(t, got, strings.Repeat("c", 100))
}

func TestPack_CriticalSectionsNeverEvicted(t *testing.T) {
	sections := []Section{
		NewSection(SectionHeader, strings.Repeat("h", 400)),
		NewSection(SectionCurrentTask, strings.Repeat("t", 400)),
		NewSection(SectionConstraints, strings.Repeat("c", 200)),
	}

	got := Pack(sections, 300)

	// All three are critical: every one survives in truncated form.
	assert.Contains(t, got, "h")
	assert.Contains(t, got, "t")
	assert.Contains(t, got, "c")
	assert.Contains(t, got, TruncationMarker)
}

func TestPack_ProportionalTruncation(t *testing.T) {
	// All critical, combined size 1000, budget 300. Phase 1 evicts nothing;
	// phase 2 scales each to ~27% (0.3 ratio * 0.9 margin).
	sections := []Section{
		NewSection(SectionHeader, strings.Repeat("a", 250)),
		NewSection(SectionCurrentTask, strings.Repeat("b", 250)),
		NewSection(SectionSessionSummary, strings.Repeat("c", 250)),
		NewSection(SectionConstraints, strings.Repeat("d", 250)),
	}

	got := Pack(sections, 300)

	for _, ch := range []string{"a", "b", "c", "d"} {
		assert.Contains(t, got, strings.Repeat(ch, 67)) // floor(250 * 0.3 * 0.9)
		assert.NotContains(t, got, strings.Repeat(ch, 68))
	}
	assert.Equal(t, 4, strings.Count(got, TruncationMarker))
}

func TestPack_OutputWithinBudget_WhenCriticalFits(t *testing.T) {
	sections := []Section{
		NewSection(SectionHeader, strings.Repeat("h", 40)),
		NewSection(SectionCurrentTask, strings.Repeat("t", 40)),
		NewSection(SectionFailures, strings.Repeat("f", 900)),
		NewSection(SectionStrategies, strings.Repeat("s", 900)),
	}

	got := Pack(sections, 100)

	assert.LessOrEqual(t, len(got), 100)
}

func TestPack_SoftOverrun_CriticalExceedsBudget(t *testing.T) {
	// Critical content alone can exceed the budget; output degrades but is
	// never empty. The budget is a soft target here.
	sections := []Section{
		NewSection(SectionHeader, strings.Repeat("h", 500)),
	}

	got := Pack(sections, 10)

	assert.NotEmpty(t, got)
	assert.Contains(t, got, TruncationMarker)
}

func TestPack_OrderedByDescendingPriority(t *testing.T) {
	sections := []Section{
		NewSection(SectionStrategies, "strategies body"),
		NewSection(SectionHeader, "header body"),
		NewSection(SectionFailures, "failures body"),
		NewSection(SectionCurrentTask, "task body"),
	}

	got := Pack(sections, 6000)

	parts := strings.Split(got, "\n\n")
	require.Equal(t, []string{"header body", "task body", "failures body", "strategies body"}, parts)
}

func TestPack_TieBreak_PreservesOriginalOrder(t *testing.T) {
	a := Section{Name: "a", Priority: 90, Content: "first", Size: 5}
	b := Section{Name: "b", Priority: 90, Content: "second", Size: 6}

	got := Pack([]Section{a, b}, 6000)

	assert.Equal(t, "first\n\nsecond", got)
}

func TestPack_SkipsWhitespaceOnlySections(t *testing.T) {
	sections := []Section{
		NewSection(SectionHeader, "# Project Context"),
		NewSection(SectionCurrentTask, "   \n\t"),
	}

	got := Pack(sections, 6000)

	assert.Equal(t, "# Project Context", got)
}

func TestPack_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Pack(nil, 1000))
}

func TestPack_ZeroBudget_EvictsAllExpendable(t *testing.T) {
	sections := []Section{
		NewSection(SectionStrategies, strings.Repeat("s", 100)),
		NewSection(SectionCommands, strings.Repeat("c", 100)),
	}

	got := Pack(sections, 0)

	assert.Equal(t, "", got)
}

func TestPack_Idempotent(t *testing.T) {
	sections := []Section{
		NewSection(SectionHeader, "# Project Context"),
		NewSection(SectionConstraints, "## Constraints\n- no network calls\n- keep stdout clean"),
		NewSection(SectionFailures, "## Known Failures (Don't Repeat)\n- retried auth without refresh"),
	}

	packed := Pack(sections, 120)
	repacked := Pack([]Section{NewSection(SectionHeader, packed)}, 120)

	assert.Equal(t, packed, repacked)

	// Larger budget also leaves it alone.
	repacked = Pack([]Section{NewSection(SectionHeader, packed)}, 10000)
	assert.Equal(t, packed, repacked)
}

func TestTruncate_CleanLineBreak(t *testing.T) {
	content := strings.Repeat("x", 80) + "\n" + strings.Repeat("y", 80)

	got := Truncate(content, 100)

	// The newline at byte 80 is past the midpoint of 100, so the cut backs
	// up to it instead of splitting the y-line.
	assert.Equal(t, strings.Repeat("x", 80)+TruncationMarker, got)
}

func TestTruncate_NoUsableLineBreak(t *testing.T) {
	content := "ab\n" + strings.Repeat("z", 200)

	got := Truncate(content, 100)

	// Newline sits before the midpoint; a hard cut at the limit wins.
	assert.Equal(t, content[:100]+TruncationMarker, got)
}

func TestTruncate_WithinLimit_Unchanged(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))
}

func TestTruncate_RuneSafe(t *testing.T) {
	content := strings.Repeat("é", 100) // 2 bytes each

	got := Truncate(content, 33)

	trimmed := strings.TrimSuffix(got, TruncationMarker)
	assert.True(t, strings.HasSuffix(trimmed, "é"))
	assert.LessOrEqual(t, len(trimmed), 33)
}
