package pipeline

import (
	"context"
	"sync"

	"github.com/material-cli/material/internal/compiler"
	"github.com/material-cli/material/internal/component"
	"github.com/material-cli/material/internal/output"
	"github.com/material-cli/material/internal/runtime"
)

// buildSequential builds components one after another. A component's
// shim and descriptor are written before the next component starts, and a
// failed V2 compile skips that component's V3 compile.
func (p *Pipeline) buildSequential(ctx context.Context, descs []*component.Descriptor) ([]*ComponentResult, error) {
	results := make([]*ComponentResult, 0, len(descs))

	for _, d := range descs {
		outs := make(map[runtime.Version]*compiler.Output, 2)
		for _, v := range runtime.All() {
			if err := ctx.Err(); err != nil {
				return nil, &compiler.ComponentBuildError{ComponentID: d.ID, Version: v, Cause: err}
			}
			out, err := p.compile(ctx, compiler.Target{Component: d, Version: v})
			if err != nil {
				output.Info(output.FormatComponentLine(d.ID, d.Version, output.StatusFailed))
				return nil, err
			}
			outs[v] = out
		}

		res, err := p.finish(d, outs)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// targetResult is what a worker sends back for one target.
type targetResult struct {
	target compiler.Target
	output *compiler.Output
	err    error
}

// buildParallel compiles targets on a bounded worker pool. Once both targets
// of a component are done its shim and descriptor are written; all of those
// complete before this returns. The first error cancels every queued and
// running target.
func (p *Pipeline) buildParallel(ctx context.Context, descs []*component.Descriptor) ([]*ComponentResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	versions := runtime.All()
	total := len(descs) * len(versions)

	jobs := make(chan compiler.Target, total)
	results := make(chan targetResult, total)

	workers := p.opts.Parallel
	if workers > total {
		workers = total
	}
	output.Debug("compiling in parallel", "targets", total, "workers", workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.runWorker(ctx, jobs, results)
		}()
	}

	for _, d := range descs {
		for _, v := range versions {
			jobs <- compiler.Target{Component: d, Version: v}
		}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	index := make(map[*component.Descriptor]int, len(descs))
	for i, d := range descs {
		index[d] = i
	}
	pending := make(map[*component.Descriptor]map[runtime.Version]*compiler.Output, len(descs))
	built := make([]*ComponentResult, len(descs))

	var (
		mu       sync.Mutex
		firstErr error
		phase    sync.WaitGroup
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	for r := range results {
		if r.err != nil {
			fail(r.err)
			continue
		}
		if failed() {
			continue
		}

		d := r.target.Component
		outs := pending[d]
		if outs == nil {
			outs = make(map[runtime.Version]*compiler.Output, len(versions))
			pending[d] = outs
		}
		outs[r.target.Version] = r.output
		if len(outs) < len(versions) {
			continue
		}

		delete(pending, d)
		phase.Add(1)
		go func(d *component.Descriptor, outs map[runtime.Version]*compiler.Output) {
			defer phase.Done()
			if failed() {
				return
			}
			res, err := p.finish(d, outs)
			if err != nil {
				fail(err)
				return
			}
			mu.Lock()
			built[index[d]] = res
			mu.Unlock()
		}(d, outs)
	}

	// Join barrier: every component phase completes before aggregation.
	phase.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return built, nil
}

func (p *Pipeline) runWorker(ctx context.Context, jobs <-chan compiler.Target, results chan<- targetResult) {
	for t := range jobs {
		select {
		case <-ctx.Done():
			results <- targetResult{target: t, err: &compiler.ComponentBuildError{
				ComponentID: t.Component.ID,
				Version:     t.Version,
				Cause:       ctx.Err(),
			}}
		default:
			out, err := p.compiler.Compile(ctx, t)
			results <- targetResult{target: t, output: out, err: err}
		}
	}
}
