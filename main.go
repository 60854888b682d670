package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/recall/internal/commands"
	"github.com/hay-kot/recall/internal/core/config"
	"github.com/hay-kot/recall/internal/core/memory"
	"github.com/hay-kot/recall/internal/hooks"
	"github.com/hay-kot/recall/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "recall",
		Usage:     "Persistent working memory for AI coding agents",
		UsageText: "recall [global options] command [command options]",
		Description: `Recall keeps an AI coding agent's working memory (current task, past
failures, constraints, strategies) in a project-local .agent/ directory and
compiles it into a budgeted context document across session boundaries.

Wire the hook commands into Claude Code's SessionStart, PreCompact, and Stop
hooks; use record/show/status by hand or from the agent itself.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("RECALL_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to the system state dir)",
				Sources:     cli.EnvVars("RECALL_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file (defaults to <dir>/.recall.yaml)",
				Sources:     cli.EnvVars("RECALL_CONFIG"),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "project directory",
				Sources:     cli.EnvVars("RECALL_DIR"),
				Value:       ".",
				Destination: &flags.Dir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ResolveConfigPath())
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Stdout belongs to the hook protocol, so logs always go to a
			// file.
			logger, closer, err := logutils.New(flags.LogLevel, flags.ResolveLogFile())
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			flags.Store = memory.NewStore(flags.Dir, cfg.AgentDir, cfg.TaskFile)
			flags.Hooks = hooks.NewService(flags.Store, cfg, flags.Dir)

			return logger.WithContext(ctx), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewHookCmd(flags).Register(app)
	app = commands.NewRecordCmd(flags).Register(app)
	app = commands.NewShowCmd(flags).Register(app)
	app = commands.NewStatusCmd(flags).Register(app)
	app = commands.NewInitCmd(flags).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
