package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/recall/internal/core/task"
	"github.com/hay-kot/recall/internal/core/tokens"
	"github.com/hay-kot/recall/pkg/iojson"
)

type StatusCmd struct {
	flags  *Flags
	format string
}

// NewStatusCmd creates the status command.
func NewStatusCmd(flags *Flags) *StatusCmd {
	return &StatusCmd{flags: flags}
}

// Register adds the status command to the application.
func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "status",
		Usage: "Show task progress and compiled context size",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

type statusJSON struct {
	Completed    int    `json:"completed"`
	Total        int    `json:"total"`
	NextID       string `json:"next_id,omitempty"`
	NextName     string `json:"next_name,omitempty"`
	ContextChars int    `json:"context_chars"`
	ContextToken int    `json:"context_tokens"`
	Budget       int    `json:"budget"`
	Precise      bool   `json:"precise_tokens"`
}

func (cmd *StatusCmd) run(ctx context.Context, c *cli.Command) error {
	list := cmd.flags.Store.TaskList()
	completed, total := task.Count(list.Features)
	next := task.Resolve(list.Features, list.NextTask)

	compiled := cmd.flags.Hooks.CompileContext()
	est := tokens.Default()

	out := statusJSON{
		Completed:    completed,
		Total:        total,
		ContextChars: len(compiled),
		ContextToken: est.Count(compiled),
		Budget:       cmd.flags.Config.Budget,
		Precise:      est.Precise(),
	}
	if next != nil {
		out.NextID = next.ID
		out.NextName = next.Name
	}

	if cmd.format == "json" {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, out)
	}

	var (
		titleStyle = lipgloss.NewStyle().Bold(true)
		dimStyle   = lipgloss.NewStyle().Faint(true)
	)

	w := c.Root().Writer
	fmt.Fprintln(w, titleStyle.Render("recall status"))
	fmt.Fprintf(w, "  progress: %d/%d features complete\n", out.Completed, out.Total)
	if next != nil {
		fmt.Fprintf(w, "  next:     %s  %s\n", next.ID, dimStyle.Render(next.Name))
	} else {
		fmt.Fprintf(w, "  next:     %s\n", dimStyle.Render("nothing actionable"))
	}

	estimate := "~"
	if out.Precise {
		estimate = ""
	}
	fmt.Fprintf(w, "  context:  %d chars of %d budget (%s%d tokens)\n", out.ContextChars, out.Budget, estimate, out.ContextToken)

	return nil
}
