// Package hooks implements the Claude Code hook flows: session-start,
// pre-compact, and stop. Hooks never fail the host; every error degrades to
// an empty response plus a logged warning.
package hooks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/recall/internal/core/compile"
	"github.com/hay-kot/recall/internal/core/config"
	"github.com/hay-kot/recall/internal/core/memory"
	"github.com/hay-kot/recall/internal/core/task"
	"github.com/hay-kot/recall/internal/core/transcript"
	"github.com/hay-kot/recall/internal/scripts"
)

// testIndicatorWindow is how fresh a test artifact must be for write mode to
// treat tests as passing.
const testIndicatorWindow = 5 * time.Minute

// Input is the JSON payload Claude Code pipes into a hook on stdin. Fields
// are event-specific; unknown fields are ignored.
type Input struct {
	Source         string `json:"source"`          // session-start: startup, resume, clear
	Trigger        string `json:"trigger"`         // pre-compact: manual or auto
	TranscriptPath string `json:"transcript_path"` // pre-compact: conversation JSONL
	StopHookActive bool   `json:"stop_hook_active"`
}

// Output is the hook response written to stdout.
type Output struct {
	HookSpecificOutput *EventOutput `json:"hookSpecificOutput,omitempty"`
}

// EventOutput carries the context injected for session-start.
type EventOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// Notice is a human-facing status line for stderr; stdout belongs to the
// host protocol.
type Notice struct {
	Message string
	Warning bool
}

// Result bundles a hook's JSON response with its stderr notices.
type Result struct {
	Output  Output
	Notices []Notice
}

// Service orchestrates hook handling over one project's memory store.
type Service struct {
	store *memory.Store
	cfg   *config.Config
	root  string
}

// NewService creates a hook service for the project at root.
func NewService(store *memory.Store, cfg *config.Config, root string) *Service {
	return &Service{store: store, cfg: cfg, root: root}
}

// SessionStart compiles context from the memory layers and returns it as
// additionalContext for injection.
func (s *Service) SessionStart(ctx context.Context, in Input) Result {
	log := zerolog.Ctx(ctx)

	var res Result

	bootstrapped, err := scripts.Bootstrap(s.root, s.cfg.AgentDir)
	if err != nil {
		log.Warn().Err(err).Msg("bootstrap failed")
		res.Notices = append(res.Notices, Notice{Message: "could not bootstrap " + s.cfg.AgentDir + "/", Warning: true})
	} else if bootstrapped {
		res.Notices = append(res.Notices, Notice{Message: "initialized " + s.cfg.AgentDir + "/ from template"})
	}

	compiled := s.CompileContext()

	log.Info().
		Str("source", in.Source).
		Int("chars", len(compiled)).
		Msg("session-start context compiled")

	res.Output = Output{
		HookSpecificOutput: &EventOutput{
			HookEventName:     "SessionStart",
			AdditionalContext: compiled,
		},
	}
	return res
}

// CompileContext gathers every memory layer and runs the compiler. Shared by
// the session-start hook and the show/status commands.
func (s *Service) CompileContext() string {
	list := s.store.TaskList()

	summary, _ := s.store.LatestSnapshot(s.cfg.Memory.SummaryChars)

	mem := s.cfg.Memory
	return compile.Compile(compile.Inputs{
		Tasks:       list.Features,
		PinnedID:    list.NextTask,
		Summary:     summary,
		Constraints: s.store.Fragments(memory.CategoryConstraints, mem.MaxConstraints, mem.ConstraintChars),
		Failures:    s.store.Fragments(memory.CategoryFailures, mem.MaxFailures, mem.FailureChars),
		Strategies:  s.store.Fragments(memory.CategoryStrategies, mem.MaxStrategies, mem.StrategyChars),
		Budget:      s.cfg.Budget,
	})
}

// PreCompact snapshots project state plus a transcript summary so the next
// session-start can restore continuity. The response is always empty;
// pre-compact cannot inject context.
func (s *Service) PreCompact(ctx context.Context, in Input) Result {
	log := zerolog.Ctx(ctx)

	var res Result

	content := s.buildSnapshot(ctx, in.TranscriptPath)
	if content == "" {
		log.Info().Msg("pre-compact: nothing to snapshot")
		return res
	}

	path, err := s.store.SaveSnapshot(content, s.cfg.Snapshots.MaxChars, s.cfg.Snapshots.Keep)
	if err != nil {
		log.Warn().Err(err).Msg("save snapshot failed")
		res.Notices = append(res.Notices, Notice{Message: "could not save snapshot", Warning: true})
		return res
	}

	if err := s.store.AppendCompactLog(memory.CompactLogEntry{
		Timestamp:     time.Now(),
		Event:         "pre_compact",
		Snapshot:      path,
		HadTranscript: in.TranscriptPath != "",
	}); err != nil {
		log.Warn().Err(err).Msg("append compact log failed")
	}

	res.Notices = append(res.Notices, Notice{Message: "context snapshot saved: " + path})
	if in.Trigger == "auto" {
		res.Notices = append(res.Notices, Notice{Message: "auto-compaction triggered (context was large)", Warning: true})
	}

	return res
}

// buildSnapshot combines the current task context with a transcript summary,
// falling back to the manual working-context file when both are empty.
func (s *Service) buildSnapshot(ctx context.Context, transcriptPath string) string {
	log := zerolog.Ctx(ctx)

	var parts []string

	if taskCtx := s.taskContext(); taskCtx != "" {
		parts = append(parts, taskCtx)
	}

	if transcriptPath != "" {
		messages, err := transcript.Parse(transcriptPath)
		if err != nil {
			log.Warn().Err(err).Str("path", transcriptPath).Msg("transcript parse failed")
		} else if summary := transcript.Summarize(messages, s.cfg.Snapshots.MaxMessages, s.cfg.Snapshots.MaxChars); summary != "" {
			parts = append(parts, summary)
		}
	}

	if len(parts) == 0 {
		if wc, ok := s.store.WorkingContext(); ok {
			parts = append(parts, wc)
		}
	}

	return strings.Join(parts, "\n\n---\n\n")
}

// taskContext renders a condensed project state block for the snapshot: the
// pinned task plus the top failures and constraints.
func (s *Service) taskContext() string {
	var parts []string

	list := s.store.TaskList()
	if list.NextTask != "" {
		if item := task.FindByID(list.Features, list.NextTask); item != nil {
			desc := compile.Truncate(item.Description, 200)
			parts = append(parts, fmt.Sprintf("## Current Task\n**%s**: %s\n%s", item.ID, item.Name, desc))
		}
	}

	if failures := s.store.Fragments(memory.CategoryFailures, 2, 300); len(failures) > 0 {
		parts = append(parts, "## Recent Failures\n"+strings.Join(failures, "\n\n"))
	}

	if constraints := s.store.Fragments(memory.CategoryConstraints, 2, 200); len(constraints) > 0 {
		parts = append(parts, "## Constraints\n"+strings.Join(constraints, "\n\n"))
	}

	return strings.Join(parts, "\n\n")
}

// Stop records progress metrics and, in write mode, auto-completes the next
// task when tests recently passed.
func (s *Service) Stop(ctx context.Context, in Input) Result {
	log := zerolog.Ctx(ctx)

	var res Result

	// A stop hook firing while a stop hook is already active means the
	// host is re-invoking us from our own continuation; bail out.
	if in.StopHookActive {
		return res
	}

	list := s.store.TaskList()
	completed, total := task.Count(list.Features)
	next := task.Resolve(list.Features, list.NextTask)

	entry := memory.MetricEntry{
		Timestamp: time.Now(),
		Event:     "stop",
		Progress:  fmt.Sprintf("%d/%d", completed, total),
		WriteMode: s.cfg.WriteMode,
	}
	if next != nil {
		entry.Next = next.ID
	}
	if err := s.store.AppendMetric(entry); err != nil {
		log.Warn().Err(err).Msg("append metric failed")
	}

	if total > 0 {
		res.Notices = append(res.Notices, Notice{Message: fmt.Sprintf("progress: %d/%d features", completed, total)})
		if next != nil {
			res.Notices = append(res.Notices, Notice{Message: "next: " + next.ID})
		}
	}

	if s.cfg.WriteMode && next != nil && s.store.RecentTestIndicator(testIndicatorWindow) {
		if err := s.store.CompleteTask(next.ID); err != nil {
			log.Warn().Err(err).Str("id", next.ID).Msg("auto-complete failed")
		} else {
			res.Notices = append(res.Notices, Notice{Message: "auto-completed: " + next.ID + " (tests passed)"})
			if err := s.store.AppendMetric(memory.MetricEntry{
				Timestamp: time.Now(),
				Event:     "auto_complete",
				FeatureID: next.ID,
			}); err != nil {
				log.Warn().Err(err).Msg("append metric failed")
			}
		}
	}

	return res
}
