// Package driver generates batches of programs over a bounded worker pool.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"callgen/internal/prog"
	"callgen/internal/rng"
	"callgen/internal/trace"
)

// Generator produces one program from a randomness source. parent is the
// trace span the program hangs from.
type Generator interface {
	GenerateUnder(r rng.Source, parent uint64) *prog.Prog
}

// Options configures a batch.
type Options struct {
	Count int    // number of programs, at least 1
	Jobs  int    // worker limit, GOMAXPROCS when <= 0
	Seed  uint64 // batch seed; program i uses rng.Derive(Seed, i)
	Sink  ProgressSink
	// Emit, when set, receives every program as soon as it is generated.
	// Calls are serialized but arrive in completion order.
	Emit func(index int, p *prog.Prog) error
}

// ErrNoPrograms reports a batch with a non-positive count.
var ErrNoPrograms = errors.New("driver: batch count must be at least 1")

// Batch generates opts.Count programs. The result is indexed by program and
// depends only on the seed, never on the worker count.
func Batch(ctx context.Context, g Generator, opts Options) ([]*prog.Prog, error) {
	if opts.Count < 1 {
		return nil, ErrNoPrograms
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	sink := opts.Sink
	if sink == nil {
		sink = nopSink{}
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeBatch, "batch", trace.ParentFromContext(ctx))
	defer span.WithExtra("count", strconv.Itoa(opts.Count)).
		WithExtra("jobs", strconv.Itoa(jobs)).
		End("")

	emit := newSerialEmitter(opts.Emit)

	// Each goroutine writes only its own index.
	results := make([]*prog.Prog, opts.Count)

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(min(jobs, opts.Count))
	for i := range opts.Count {
		eg.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			start := time.Now()
			sink.OnEvent(Event{Index: i, Status: StatusWorking})

			p := g.GenerateUnder(rng.Derive(opts.Seed, i), span.ID())
			results[i] = p

			if err := emit.call(i, p); err != nil {
				err = fmt.Errorf("program %d: %w", i, err)
				sink.OnEvent(Event{Index: i, Status: StatusError, Err: err, Elapsed: time.Since(start)})
				return err
			}
			sink.OnEvent(Event{Index: i, Status: StatusDone, Calls: p.Len(), Elapsed: time.Since(start)})
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
