package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// File names looked up in the workspace root.
const (
	FileName    = "material.yaml"
	DotEnvFile  = ".env"
	PackagesDir = "packages"
)

// ErrNoWorkspace is returned when no workspace root can be found.
var ErrNoWorkspace = errors.New("no material workspace found")

// Paths contains the files of one workspace.
type Paths struct {
	// Root is the workspace root.
	Root string

	// ConfigFile is Root/material.yaml.
	ConfigFile string

	// DotEnv is Root/.env.
	DotEnv string
}

// WorkspacePaths returns the standard paths under root.
func WorkspacePaths(root string) Paths {
	return Paths{
		Root:       root,
		ConfigFile: filepath.Join(root, FileName),
		DotEnv:     filepath.Join(root, DotEnvFile),
	}
}

// FindRoot walks up from dir to the nearest directory holding material.yaml,
// or else a package.json next to a packages/ directory.
func FindRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	fallback := ""
	for cur := dir; ; {
		if fileExists(filepath.Join(cur, FileName)) {
			return cur, nil
		}
		if fallback == "" && fileExists(filepath.Join(cur, "package.json")) && fileExists(filepath.Join(cur, PackagesDir)) {
			fallback = cur
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}

	if fallback != "" {
		return fallback, nil
	}
	return "", ErrNoWorkspace
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return homeDir, nil
	}
	return filepath.Join(homeDir, path[2:]), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
