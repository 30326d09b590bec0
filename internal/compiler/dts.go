package compiler

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// DeclarationGenerator writes .d.ts files for a request into OutDir/types.
type DeclarationGenerator interface {
	Generate(ctx context.Context, req Request) error
}

// TSC generates declarations with the TypeScript compiler.
type TSC struct {
	// Args overrides the executable and leading arguments. Empty means "tsc".
	Args []string
}

// NewTSC parses an optional command line; an empty string selects "tsc".
func NewTSC(command string) *TSC {
	return &TSC{Args: strings.Fields(command)}
}

// Generate runs tsc with --emitDeclarationOnly for the request's entry.
func (t *TSC) Generate(ctx context.Context, req Request) error {
	args := t.Args
	if len(args) == 0 {
		args = []string{"tsc"}
	}

	path, err := LookPath(args[0], req.Root)
	if err != nil {
		return err
	}

	cmdArgs := append(append([]string{}, args[1:]...),
		"--declaration",
		"--emitDeclarationOnly",
		"--skipLibCheck",
		"--esModuleInterop",
		"--moduleResolution", "bundler",
		"--module", "esnext",
		"--target", "esnext",
		"--jsx", "preserve",
		"--outDir", filepath.Join(req.OutDir, "types"),
		req.Entry,
	)

	cmd := exec.CommandContext(ctx, path, cmdArgs...) //nolint:gosec // command comes from workspace configuration
	cmd.Dir = req.SourceDir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", filepath.Base(path), err, tail(strings.TrimSpace(out.String()), 10))
	}
	return nil
}
