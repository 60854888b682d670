package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveConfigPath_Default(t *testing.T) {
	f := &Flags{Dir: "/proj"}
	assert.Equal(t, filepath.Join("/proj", ConfigFileName), f.ResolveConfigPath())
}

func TestResolveConfigPath_Explicit(t *testing.T) {
	f := &Flags{Dir: "/proj", ConfigPath: "/etc/recall.yaml"}
	assert.Equal(t, "/etc/recall.yaml", f.ResolveConfigPath())
}

func TestResolveLogFile_Explicit(t *testing.T) {
	f := &Flags{LogFile: "/tmp/x.log"}
	assert.Equal(t, "/tmp/x.log", f.ResolveLogFile())
}

func TestDefaultLogFile_XDGStateHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	assert.Equal(t, filepath.Join("/state", "recall", "recall.log"), DefaultLogFile())
}
