// Package devserver launches the per-runtime playground dev server.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/material-cli/material/internal/compiler"
	oerrors "github.com/material-cli/material/internal/errors"
	"github.com/material-cli/material/internal/output"
	"github.com/material-cli/material/internal/runtime"
)

// DefaultCommand starts vite in the playground directory.
const DefaultCommand = "npx vite"

// ComponentEnv names the component selected for the playground. The VITE_
// variant is exposed to client code by vite.
const (
	ComponentEnv     = "MATERIAL_DEV_COMPONENT"
	ViteComponentEnv = "VITE_MATERIAL_COMPONENT"
)

// Launcher runs the dev server command for one runtime version.
type Launcher struct {
	// Command is the command line, DefaultCommand when empty.
	Command string

	// Component is the component id passed to the playground, if any.
	Component string

	// Stdout and Stderr receive the server output; os.Stdout and
	// os.Stderr when nil.
	Stdout io.Writer
	Stderr io.Writer
}

// PlaygroundError is returned when the playground for a version is missing.
type PlaygroundError struct {
	Version runtime.Version
	Dir     string
}

func (e *PlaygroundError) Error() string {
	return fmt.Sprintf("playground for Vue %d not found at %s", int(e.Version), e.Dir)
}

// Is matches oerrors.ErrConfig.
func (e *PlaygroundError) Is(target error) bool {
	return target == oerrors.ErrConfig
}

// Start runs the dev server in root/vue<version>-playground and blocks until
// it exits. Cancelling ctx stops the server and is not reported as an error.
func (l *Launcher) Start(ctx context.Context, root string, version runtime.Version) error {
	dir := filepath.Join(root, version.Playground())
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return &PlaygroundError{Version: version, Dir: dir}
	}

	command := l.Command
	if command == "" {
		command = DefaultCommand
	}
	args := strings.Fields(command)
	if len(args) == 0 {
		return fmt.Errorf("%w: empty dev server command", oerrors.ErrConfig)
	}
	path, err := compiler.LookPath(args[0], root)
	if err != nil {
		return fmt.Errorf("starting dev server: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args[1:]...) //nolint:gosec // command comes from workspace configuration
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), l.env(version)...)
	cmd.Stdout = orDefault(l.Stdout, os.Stdout)
	cmd.Stderr = orDefault(l.Stderr, os.Stderr)

	output.Debug("starting dev server", "command", command, "dir", dir, "vue", version.String(), "component", l.Component)
	err = cmd.Run()
	if ctx.Err() != nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("dev server exited with code %d", exitErr.ExitCode())
	}
	return err
}

func (l *Launcher) env(version runtime.Version) []string {
	env := []string{
		"MATERIAL_VUE_VERSION=" + strconv.Itoa(int(version)),
		"MATERIAL_VUE_PACKAGE=" + version.Package(),
	}
	if l.Component != "" {
		env = append(env, ComponentEnv+"="+l.Component, ViteComponentEnv+"="+l.Component)
	}
	return env
}

func orDefault(w, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
