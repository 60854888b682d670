package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/recall/internal/scripts"
)

type InitCmd struct {
	flags *Flags
	yes   bool
}

// NewInitCmd creates the init command.
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application.
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "init",
		Usage: "Initialize the .agent/ memory directory",
		Description: `Creates the agent memory directory from .agent-template/ when present,
or from the built-in template otherwise.

Reinitializing an existing directory deletes recorded memory, so it asks
first unless --yes is given.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt when reinitializing",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	log := zerolog.Ctx(ctx)

	agentDir := cmd.flags.Config.AgentDir
	target := filepath.Join(cmd.flags.Dir, agentDir)

	if _, err := os.Stat(target); err == nil {
		confirmed := cmd.yes
		if !confirmed {
			err := huh.NewConfirm().
				Title(fmt.Sprintf("%s/ already exists. Reinitialize?", agentDir)).
				Description("Recorded failures, constraints, and snapshots will be deleted.").
				Value(&confirmed).
				Run()
			if err != nil {
				return fmt.Errorf("confirm: %w", err)
			}
		}

		if !confirmed {
			fmt.Fprintln(c.Root().Writer, "aborted")
			return nil
		}

		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("remove %s: %w", target, err)
		}
		log.Info().Str("dir", target).Msg("removed existing agent dir")
	}

	created, err := scripts.Bootstrap(cmd.flags.Dir, agentDir)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if !created {
		return fmt.Errorf("bootstrap did not create %s", target)
	}

	fmt.Fprintf(c.Root().Writer, "initialized %s/\n", agentDir)
	return nil
}
