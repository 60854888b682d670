// Package scripts embeds the default .agent/ template and bootstraps new
// project memory directories from it.
package scripts

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed template
var templateFS embed.FS

// TemplateDirName is the project-local override for the embedded template.
// When it exists next to the project root, it wins.
const TemplateDirName = ".agent-template"

// Bootstrap initializes agentDir under root if it does not exist yet,
// copying from .agent-template/ when present, else extracting the embedded
// default layout. Returns true when a new directory was created.
func Bootstrap(root, agentDir string) (bool, error) {
	target := filepath.Join(root, agentDir)

	if _, err := os.Stat(target); err == nil {
		return false, nil
	}

	local := filepath.Join(root, TemplateDirName)
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		if err := copyTree(local, target); err != nil {
			return false, fmt.Errorf("copy %s: %w", TemplateDirName, err)
		}
		return true, nil
	}

	if err := extractEmbedded(target); err != nil {
		return false, fmt.Errorf("extract template: %w", err)
	}
	return true, nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}

func extractEmbedded(dst string) error {
	return fs.WalkDir(templateFS, "template", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel("template", path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		data, err := templateFS.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
