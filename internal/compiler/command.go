package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/material-cli/material/internal/component"
	"github.com/material-cli/material/internal/runtime"
)

// ErrCommandNotFound is returned when the bundler executable cannot be found.
var ErrCommandNotFound = errors.New("bundler command not found")

// CommandBundler runs an external bundler (for example "npx vite build")
// once per target. The target is described through MATERIAL_* environment
// variables; the command is expected to write into MATERIAL_OUT_DIR.
type CommandBundler struct {
	// Args is the command line, Args[0] being the executable.
	Args []string

	// Stdout receives the command's output when set. Output is always
	// captured for error reporting.
	Stdout io.Writer
}

// NewCommandBundler parses a command line such as "npx vite build".
func NewCommandBundler(command string) (*CommandBundler, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrCommandNotFound)
	}
	return &CommandBundler{Args: args}, nil
}

// Name implements Bundler.
func (b *CommandBundler) Name() string {
	return filepath.Base(b.Args[0])
}

// Bundle implements Bundler.
func (b *CommandBundler) Bundle(ctx context.Context, req Request) (*Report, error) {
	path, err := LookPath(b.Args[0], req.Root)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, path, b.Args[1:]...) //nolint:gosec // command comes from workspace configuration
	cmd.Dir = req.SourceDir
	cmd.Env = append(os.Environ(), Env(req)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if b.Stdout != nil {
		cmd.Stdout = io.MultiWriter(&stdout, b.Stdout)
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		return nil, &CommandError{Command: strings.Join(b.Args, " "), Cause: err, Stderr: tail(msg, 20)}
	}
	return &Report{}, nil
}

// Env returns the MATERIAL_* variables describing a request.
func Env(req Request) []string {
	v := req.Target.Version
	formats := make([]string, 0, len(req.Options.Formats))
	for _, f := range req.Options.Formats {
		formats = append(formats, string(f))
	}

	demi := filepath.Join(req.Root, "node_modules", runtime.DetectorModule, filepath.FromSlash(v.DemiLibDir()), "index.mjs")
	if _, err := os.Stat(demi); err != nil {
		demi = ""
	}

	return []string{
		"MATERIAL_COMPONENT_ID=" + req.Target.Component.ID,
		"MATERIAL_COMPONENT_NAME=" + req.Target.Component.Name,
		"MATERIAL_VUE_VERSION=" + strconv.Itoa(int(v)),
		"MATERIAL_VUE_PACKAGE=" + v.Package(),
		"MATERIAL_VUE_DEMI=" + demi,
		"MATERIAL_ROOT=" + req.Root,
		"MATERIAL_ENTRY=" + req.Entry,
		"MATERIAL_OUT_DIR=" + req.OutDir,
		"MATERIAL_FORMATS=" + strings.Join(formats, ","),
		"MATERIAL_TARGET=" + strings.Join(req.Options.Target, ","),
		"MATERIAL_CSS=" + strconv.FormatBool(req.Options.CSS),
		"MATERIAL_SOURCEMAP=" + strconv.FormatBool(req.Options.Sourcemap),
		"MATERIAL_GLOBAL_NAME=" + req.Options.GlobalName,
		"MATERIAL_EXTERNALS=" + strings.Join(req.Options.Externals, ","),
		"MATERIAL_FILE_ES=" + component.FormatES.FileName(),
		"MATERIAL_FILE_CJS=" + component.FormatCJS.FileName(),
		"MATERIAL_FILE_UMD=" + component.FormatUMD.FileName(),
	}
}

// LookPath finds name on PATH, then in the workspace's node_modules/.bin.
func LookPath(name, root string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("%w: %s", ErrCommandNotFound, name)
		}
		return name, nil
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	local := filepath.Join(root, "node_modules", ".bin", name)
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}
	return "", fmt.Errorf("%w: %s", ErrCommandNotFound, name)
}

// tail keeps the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
