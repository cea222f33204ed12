// Package pipeline orchestrates the image loading and processor run stages.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retroproc/internal/app"
	"github.com/retroenv/retroproc/internal/config"
	"github.com/retroenv/retroproc/internal/detector"
	"github.com/retroenv/retroproc/internal/loader"
	"github.com/retroenv/retroproc/internal/machine"
	"github.com/retroenv/retroproc/internal/memory"
	"github.com/retroenv/retroproc/internal/options"
	"github.com/retroenv/retroproc/internal/store"
)

// Persistence bundles the snapshot store with the identifier allocator
// that belongs to it.
type Persistence interface {
	store.Store
	store.Allocator
}

// Pipeline orchestrates the complete run workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new run pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute loads the image, builds the machine and runs the processors.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, run options.Run,
	persistence Persistence, trace io.Writer) ([]machine.Result, *memory.Controller, error) {

	var img *loader.Image
	if opts.Input != "" {
		format := p.detector.Detect(opts)

		var err error
		img, err = p.loader.Load(opts, run, format)
		if err != nil {
			return nil, nil, fmt.Errorf("loading image: %w", err)
		}
		app.PrintImageInfo(p.logger, opts, img, format)
	}

	ctrl, err := p.buildMachine(opts, img)
	if err != nil {
		return nil, nil, fmt.Errorf("building machine: %w", err)
	}
	app.PrintMemoryMap(p.logger, opts, ctrl.Mappings())

	results, err := p.ExecuteWithMemory(ctx, ctrl, run, persistence, trace)
	return results, ctrl, err
}

// ExecuteWithMemory runs the processors on an already built memory.
// This is useful for testing and programmatic usage where the memory is
// already set up.
func (p *Pipeline) ExecuteWithMemory(ctx context.Context, mem memory.Memory, run options.Run,
	persistence Persistence, trace io.Writer) ([]machine.Result, error) {

	runOpts := []machine.Option{
		machine.WithBreakpoints(run.Breakpoints...),
		machine.WithMaxSteps(run.MaxSteps),
	}
	if run.Trace && trace != nil {
		runOpts = append(runOpts, machine.WithTrace(trace))
	}
	runner := machine.New(p.logger, mem, persistence, persistence, runOpts...)

	if !run.Resume {
		results, err := runner.RunAll(ctx, run.Processors)
		if err != nil {
			return results, fmt.Errorf("running processors: %w", err)
		}
		return results, nil
	}

	id := store.ID(run.ResumeID)
	proc, err := runner.Resume(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resuming processor: %w", err)
	}
	result, err := runner.Run(ctx, proc, id)
	if err != nil {
		return []machine.Result{result}, fmt.Errorf("running processor: %w", err)
	}
	return []machine.Result{result}, nil
}

func (p *Pipeline) buildMachine(opts options.Program, img *loader.Image) (*memory.Controller, error) {
	if opts.Machine == "" {
		ctrl, err := config.DefaultMachine(img)
		if err != nil {
			return nil, fmt.Errorf("creating default machine: %w", err)
		}
		return ctrl, nil
	}

	ctrl, err := config.LoadMachine(opts.Machine, img)
	if err != nil {
		return nil, fmt.Errorf("loading machine '%s': %w", opts.Machine, err)
	}
	return ctrl, nil
}
