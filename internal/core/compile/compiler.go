package compile

import (
	"fmt"
	"strings"

	"github.com/hay-kot/recall/internal/core/task"
)

// descriptionExcerpt bounds the current task's description inside the
// compiled context; the full text stays in the task file.
const descriptionExcerpt = 300

// headerContent anchors the document. Kept free of timestamps so repeated
// compilations are cache-stable for the host.
const headerContent = "# Project Context"

const commandsContent = `## Commands
**If something fails, record it:**
` + "`recall record failure <id> \"what went wrong\"`" + `
Example: ` + "`recall record failure feat-01 \"API returns 401 - auth token not refreshed\"`" + `

Other commands:
- ` + "`recall record success <id> <msg>`" + ` - Mark feature complete
- ` + "`recall show failures`" + ` - See what NOT to do`

// Inputs carries the fully materialized memory fragments for one
// compilation. Fragment lists arrive pre-capped and pre-truncated by the
// memory store; the compiler only arranges and packs them.
type Inputs struct {
	Tasks       []task.Item
	PinnedID    string
	Summary     string
	Constraints []string
	Failures    []string
	Strategies  []string
	Budget      int
}

// Compile renders every applicable section and packs them under the budget.
// It is a pure function of its inputs: no I/O, no retained state.
func Compile(in Inputs) string {
	sections := []Section{NewSection(SectionHeader, headerContent)}

	if current := task.Resolve(in.Tasks, in.PinnedID); current != nil {
		sections = append(sections, NewSection(SectionCurrentTask, renderCurrentTask(in.Tasks, current)))
	}

	if in.Summary != "" {
		sections = append(sections, NewSection(SectionSessionSummary, "## Recent Session Summary\n"+in.Summary))
	}

	if s, ok := fragmentSection(SectionConstraints, "## Constraints", in.Constraints); ok {
		sections = append(sections, s)
	}
	if s, ok := fragmentSection(SectionFailures, "## Known Failures (Don't Repeat)", in.Failures); ok {
		sections = append(sections, s)
	}
	if s, ok := fragmentSection(SectionStrategies, "## Working Strategies", in.Strategies); ok {
		sections = append(sections, s)
	}

	sections = append(sections, NewSection(SectionCommands, commandsContent))

	return Pack(sections, in.Budget)
}

func renderCurrentTask(tree []task.Item, current *task.Item) string {
	completed, total := task.Count(tree)

	desc := current.Description
	if len(desc) > descriptionExcerpt {
		desc = cutValid(desc, descriptionExcerpt)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Current Task\n")
	fmt.Fprintf(&b, "Progress: %d/%d features complete\n", completed, total)
	fmt.Fprintf(&b, "**%s**: %s\n", current.ID, current.Name)
	fmt.Fprintf(&b, "Description: %s", desc)
	if current.TaskFile != "" {
		fmt.Fprintf(&b, "\nTask file: %s", current.TaskFile)
	}
	return b.String()
}

// fragmentSection joins pre-truncated fragments under a heading. A list with
// no usable content yields no section at all rather than an empty one.
func fragmentSection(name, heading string, fragments []string) (Section, bool) {
	parts := []string{heading}
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		parts = append(parts, f)
	}

	if len(parts) == 1 {
		return Section{}, false
	}
	return NewSection(name, strings.Join(parts, "\n")), true
}
