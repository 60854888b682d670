package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/recall/internal/core/tokens"
	"github.com/hay-kot/recall/internal/hooks"
	"github.com/hay-kot/recall/pkg/iojson"
)

type HookCmd struct {
	flags  *Flags
	reader iojson.FileReader[hooks.Input]
}

// NewHookCmd creates the hook command group.
func NewHookCmd(flags *Flags) *HookCmd {
	return &HookCmd{flags: flags}
}

// Register adds the hook commands to the application.
func (cmd *HookCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "hook",
		Usage: "Claude Code hook entry points (reads JSON from stdin)",
		Description: `Hook commands are invoked by Claude Code, not by hand.

Each reads the hook payload as JSON from stdin (or --file), writes the hook
response as JSON to stdout, and keeps human-readable notices on stderr.
Hooks never exit non-zero for memory problems; a broken .agent/ directory
degrades to an empty response.`,
		Commands: []*cli.Command{
			{
				Name:   "session-start",
				Usage:  "Compile and inject project context at session start",
				Flags:  []cli.Flag{cmd.reader.Flag()},
				Action: cmd.runSessionStart,
			},
			{
				Name:   "pre-compact",
				Usage:  "Snapshot state before context compaction",
				Flags:  []cli.Flag{cmd.reader.Flag()},
				Action: cmd.runPreCompact,
			},
			{
				Name:   "stop",
				Usage:  "Record progress metrics when the agent finishes a turn",
				Flags:  []cli.Flag{cmd.reader.Flag()},
				Action: cmd.runStop,
			},
		},
	})

	return app
}

// readInput decodes the hook payload. A missing or malformed payload is not
// fatal: the hook runs with zero values, matching the degrade-don't-crash
// contract with the host.
func (cmd *HookCmd) readInput(ctx context.Context) hooks.Input {
	in, err := cmd.reader.Read()
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("hook input unreadable, using empty payload")
		return hooks.Input{}
	}
	return in
}

func (cmd *HookCmd) runSessionStart(ctx context.Context, c *cli.Command) error {
	in := cmd.readInput(ctx)

	res := cmd.flags.Hooks.SessionStart(ctx, in)

	if out := res.Output.HookSpecificOutput; out != nil {
		est := tokens.Default()
		res.Notices = append(res.Notices, hooks.Notice{
			Message: fmt.Sprintf("context injected (~%d tokens, %d chars)", est.Count(out.AdditionalContext), len(out.AdditionalContext)),
		})
	}

	printNotices(res.Notices)
	return iojson.WriteLine(res.Output)
}

func (cmd *HookCmd) runPreCompact(ctx context.Context, c *cli.Command) error {
	in := cmd.readInput(ctx)

	res := cmd.flags.Hooks.PreCompact(ctx, in)

	printNotices(res.Notices)
	return iojson.WriteLine(res.Output)
}

func (cmd *HookCmd) runStop(ctx context.Context, c *cli.Command) error {
	in := cmd.readInput(ctx)

	res := cmd.flags.Hooks.Stop(ctx, in)

	printNotices(res.Notices)
	return iojson.WriteLine(res.Output)
}
