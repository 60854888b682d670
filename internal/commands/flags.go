package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/hay-kot/recall/internal/core/config"
	"github.com/hay-kot/recall/internal/core/memory"
	"github.com/hay-kot/recall/internal/hooks"
)

// Flags holds global flag values plus the objects wired up in the root
// command's Before hook, shared by all commands.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	Dir        string

	Config *config.Config
	Store  *memory.Store
	Hooks  *hooks.Service
}

// ConfigFileName is the project-local config file. Memory is per-project, so
// configuration lives next to it rather than under XDG paths.
const ConfigFileName = ".recall.yaml"

// ResolveConfigPath returns the explicit config path or the project default.
func (f *Flags) ResolveConfigPath() string {
	if f.ConfigPath != "" {
		return f.ConfigPath
	}
	return filepath.Join(f.Dir, ConfigFileName)
}

// ResolveLogFile returns the explicit log file or the state-dir default.
// The default lives outside the project: creating the agent directory as a
// logging side effect would defeat the session-start bootstrap check, and
// hook stdout is protocol output, so logs always go to a file.
func (f *Flags) ResolveLogFile() string {
	if f.LogFile != "" {
		return f.LogFile
	}
	return DefaultLogFile()
}

// DefaultLogFile returns the default log file path using the system's state
// directory. On macOS: ~/Library/Logs/recall/recall.log. On Linux:
// $XDG_STATE_HOME/recall/recall.log (defaults to ~/.local/state/...).
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "recall", "recall.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "recall", "recall.log")
	}

	return filepath.Join(home, ".local", "state", "recall", "recall.log")
}
