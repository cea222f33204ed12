// Package machine runs processors attached to a shared memory controller
// and persists their state between runs.
package machine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/retroproc/internal/memory"
	"github.com/retroenv/retroproc/internal/processor"
	"github.com/retroenv/retroproc/internal/store"
)

// StopReason describes why a run ended.
type StopReason int

// Reasons for a run to end.
const (
	StopError StopReason = iota
	StopBreakpoint
	StopStepLimit
	StopCanceled
)

func (r StopReason) String() string {
	switch r {
	case StopError:
		return "error"
	case StopBreakpoint:
		return "breakpoint"
	case StopStepLimit:
		return "step limit"
	case StopCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
}

// Result is the outcome of running a single processor.
type Result struct {
	ID       store.ID
	HasID    bool // false if the processor failed before an identifier was allocated
	Steps    int
	Reason   StopReason
	Err      error
	Snapshot processor.Snapshot
}

// Runner steps processors attached to one memory.
type Runner struct {
	logger *log.Logger
	mem    memory.Memory
	store  store.Store
	alloc  store.Allocator

	breakpoints set.Set[uint16]
	maxSteps    int

	traceMu sync.Mutex
	trace   io.Writer
}

// Option configures optional runner behavior.
type Option func(*Runner)

// WithBreakpoints stops a run when the program counter reaches one of the
// addresses after a step.
func WithBreakpoints(addresses ...uint16) Option {
	return func(r *Runner) {
		for _, address := range addresses {
			r.breakpoints.Add(address)
		}
	}
}

// WithMaxSteps limits the number of instructions of a run, 0 disables the
// limit.
func WithMaxSteps(steps int) Option {
	return func(r *Runner) {
		r.maxSteps = steps
	}
}

// WithTrace writes the trace of every step to the writer.
func WithTrace(w io.Writer) Option {
	return func(r *Runner) {
		r.trace = w
	}
}

// New returns a runner for processors attached to the memory. Snapshots are
// persisted in the store, new processors get their identifier from the
// allocator.
func New(logger *log.Logger, mem memory.Memory, st store.Store, alloc store.Allocator, opts ...Option) *Runner {
	r := &Runner{
		logger:      logger,
		mem:         mem,
		store:       st,
		alloc:       alloc,
		breakpoints: set.New[uint16](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Boot returns a new processor that has been reset through the reset vector
// and gets a newly allocated identifier.
func (r *Runner) Boot() (*processor.Processor, store.ID, error) {
	id, err := r.allocate()
	if err != nil {
		return nil, 0, err
	}

	proc, err := r.reset(id)
	if err != nil {
		return nil, 0, err
	}
	return proc, id, nil
}

func (r *Runner) allocate() (store.ID, error) {
	id, err := r.alloc.Next()
	if err != nil {
		return 0, fmt.Errorf("allocating processor id: %w", err)
	}
	return id, nil
}

func (r *Runner) reset(id store.ID) (*processor.Processor, error) {
	proc := processor.New(r.mem, processor.WithLogger(r.logger))
	if err := proc.Reset(); err != nil {
		return nil, fmt.Errorf("resetting processor %d: %w", id, err)
	}

	r.logger.Debug("Processor booted",
		log.String("id", id.Key()),
		log.Hex("pc", proc.ProgramCounter))
	return proc, nil
}

// Resume returns the processor restored from the snapshot stored for the
// identifier.
func (r *Runner) Resume(ctx context.Context, id store.ID) (*processor.Processor, error) {
	snap, err := r.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	proc, err := processor.Restore(r.mem, snap, processor.WithLogger(r.logger))
	if err != nil {
		return nil, fmt.Errorf("resuming processor %d: %w", id, err)
	}

	r.logger.Debug("Processor resumed",
		log.String("id", id.Key()),
		log.Hex("pc", proc.ProgramCounter))
	return proc, nil
}

// Run steps the processor until an instruction fails, a breakpoint or the
// step limit is reached or the context is canceled. The final state is
// saved in the store in every case. The returned error is the terminal
// step error or the context error.
func (r *Runner) Run(ctx context.Context, proc *processor.Processor, id store.ID) (Result, error) {
	result := Result{ID: id, HasID: true}

	for {
		if err := ctx.Err(); err != nil {
			result.Reason = StopCanceled
			result.Err = err
			break
		}

		trace, err := proc.Step()
		r.writeTrace(trace)
		if err != nil {
			result.Reason = StopError
			result.Err = err
			break
		}
		result.Steps++

		if r.breakpoints.Contains(proc.ProgramCounter) {
			result.Reason = StopBreakpoint
			break
		}
		if r.maxSteps > 0 && result.Steps >= r.maxSteps {
			result.Reason = StopStepLimit
			break
		}
	}

	result.Snapshot = proc.Snapshot()
	if err := r.store.Save(context.WithoutCancel(ctx), id, result.Snapshot); err != nil {
		return result, errors.Join(result.Err, fmt.Errorf("saving snapshot: %w", err))
	}

	r.logger.Debug("Processor stopped",
		log.String("id", id.Key()),
		log.Stringer("reason", result.Reason),
		log.Int("steps", result.Steps),
		log.Hex("pc", proc.ProgramCounter))
	return result, result.Err
}

func (r *Runner) writeTrace(trace string) {
	if r.trace == nil || trace == "" {
		return
	}

	r.traceMu.Lock()
	defer r.traceMu.Unlock()
	_, _ = io.WriteString(r.trace, trace+"\n")
}
