package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/recall/internal/core/memory"
)

type RecordCmd struct {
	flags *Flags
}

// NewRecordCmd creates the record command group.
func NewRecordCmd(flags *Flags) *RecordCmd {
	return &RecordCmd{flags: flags}
}

// Register adds the record commands to the application.
func (cmd *RecordCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "record",
		Usage: "Record memory for future sessions",
		Description: `Record writes durable memory fragments that survive compaction.

Failures are the most valuable: the next session sees recent failures before
it sees anything else except the current task.`,
		Commands: []*cli.Command{
			cmd.fragmentCmd("failure", memory.CategoryFailures, "Record a failed approach so it is not repeated"),
			cmd.fragmentCmd("strategy", memory.CategoryStrategies, "Record an approach that worked"),
			cmd.fragmentCmd("constraint", memory.CategoryConstraints, "Record a project rule or constraint"),
			{
				Name:      "success",
				Usage:     "Mark a task complete and record what worked",
				ArgsUsage: "<task-id> <message>",
				Action:    cmd.runSuccess,
			},
		},
	})

	return app
}

func (cmd *RecordCmd) fragmentCmd(name, category, usage string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<id> <message>",
		Action: func(ctx context.Context, c *cli.Command) error {
			return cmd.runFragment(ctx, c, category)
		},
	}
}

func (cmd *RecordCmd) runFragment(ctx context.Context, c *cli.Command, category string) error {
	id, message, err := recordArgs(c)
	if err != nil {
		return err
	}

	path, err := cmd.flags.Store.Record(category, id, message)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("category", category).Str("id", id).Str("path", path).Msg("fragment recorded")
	fmt.Fprintf(c.Root().Writer, "recorded %s: %s\n", category, path)
	return nil
}

func (cmd *RecordCmd) runSuccess(ctx context.Context, c *cli.Command) error {
	log := zerolog.Ctx(ctx)

	id, message, err := recordArgs(c)
	if err != nil {
		return err
	}

	if err := cmd.flags.Store.CompleteTask(id); err != nil {
		return fmt.Errorf("complete task: %w", err)
	}

	if _, err := cmd.flags.Store.Record(memory.CategoryStrategies, id, message); err != nil {
		log.Warn().Err(err).Msg("record strategy failed")
	}

	if err := cmd.flags.Store.AppendMetric(memory.MetricEntry{
		Timestamp: time.Now(),
		Event:     "success",
		FeatureID: id,
	}); err != nil {
		log.Warn().Err(err).Msg("append metric failed")
	}

	fmt.Fprintf(c.Root().Writer, "completed: %s\n", id)
	return nil
}

func recordArgs(c *cli.Command) (id, message string, err error) {
	if c.Args().Len() < 2 {
		return "", "", fmt.Errorf("usage: recall record %s <id> <message>", c.Name)
	}
	return c.Args().Get(0), c.Args().Get(1), nil
}
