package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/recall/internal/hooks"
)

var (
	noticeStyle = lipgloss.NewStyle().Faint(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// printNotices writes hook notices to stderr. Stdout is reserved for the
// host's JSON protocol.
func printNotices(notices []hooks.Notice) {
	for _, n := range notices {
		style := noticeStyle
		if n.Warning {
			style = warnStyle
		}
		fmt.Fprintln(os.Stderr, style.Render(n.Message))
	}
}
