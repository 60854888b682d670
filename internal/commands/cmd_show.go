package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
)

type ShowCmd struct {
	flags *Flags
	plain bool
}

// NewShowCmd creates the show command.
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application.
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show compiled context or a memory category",
		ArgsUsage: "[context|failures|constraints|strategies]",
		Description: `Renders what the next session will see, or one memory category in full.

With no argument, shows the compiled context exactly as the session-start
hook would inject it (after budget packing).`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "print raw markdown without terminal rendering",
				Destination: &cmd.plain,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	target := c.Args().First()
	if target == "" {
		target = "context"
	}

	var doc string
	switch target {
	case "context":
		doc = cmd.flags.Hooks.CompileContext()
	case "failures", "constraints", "strategies":
		fragments := cmd.flags.Store.Fragments(target, 50, cmd.flags.Config.Snapshots.MaxChars)
		if len(fragments) == 0 {
			fmt.Fprintf(c.Root().Writer, "no %s recorded\n", target)
			return nil
		}
		doc = fmt.Sprintf("# %s\n\n%s\n", strings.ToUpper(target[:1])+target[1:], strings.Join(fragments, "\n\n"))
	default:
		return fmt.Errorf("unknown category %q. Expected context, failures, constraints, or strategies", target)
	}

	if cmd.plain {
		fmt.Fprintln(c.Root().Writer, doc)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Rendering is cosmetic; fall back to raw markdown.
		fmt.Fprintln(c.Root().Writer, doc)
		return nil
	}

	out, err := renderer.Render(doc)
	if err != nil {
		fmt.Fprintln(c.Root().Writer, doc)
		return nil
	}

	fmt.Fprint(c.Root().Writer, out)
	return nil
}
