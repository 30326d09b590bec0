package output

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"golang.org/x/term"
)

// IsTTY reports whether stderr is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// RunStep runs one build step under a spinner titled title. Outside a
// terminal the step runs plainly. The spinner stops as soon as the step
// returns or ctx is cancelled; the step's own error is returned.
func RunStep(ctx context.Context, title string, step func(context.Context) error) error {
	if !IsTTY() {
		return step(ctx)
	}

	errc := make(chan error, 1)
	go func() { errc <- step(ctx) }()

	var stepErr error
	finished := false
	err := spinner.New().
		Title(title).
		Action(func() {
			select {
			case stepErr = <-errc:
				finished = true
			case <-ctx.Done():
			}
		}).
		Run()
	if err != nil {
		return fmt.Errorf("spinner: %w", err)
	}
	if !finished {
		// Cancelled; the step observes ctx and returns promptly.
		return <-errc
	}
	return stepErr
}
