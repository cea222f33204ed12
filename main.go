// Package main implements the main entry point for a 6502 family processor runner
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retroproc/internal/cli"
	"github.com/retroenv/retroproc/internal/config"
	"github.com/retroenv/retroproc/internal/options"
	"github.com/retroenv/retroproc/internal/pipeline"
	"github.com/retroenv/retroproc/internal/store"

	apphelper "github.com/retroenv/retroproc/internal/app"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, run, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			apphelper.PrintBanner(logger, opts, version, commit, date)
			if usageErr.Error() != "" {
				fmt.Println(usageErr.Error())
			}
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	apphelper.PrintBanner(logger, opts, version, commit, date)

	persistence, err := openPersistence(opts)
	if err != nil {
		logger.Fatal(err.Error())
	}

	p := pipeline.New(logger)
	results, ctrl, err := p.Execute(ctx, opts, run, persistence, os.Stdout)
	apphelper.PrintResults(logger, results)
	if ctrl != nil && run.DumpEnabled {
		if err := apphelper.DumpMemory(os.Stdout, ctrl, run.Dump, 0x100); err != nil {
			logger.Error("Dumping memory failed", log.Err(err))
		}
	}

	if err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Running failed", log.Err(err))
		os.Exit(1)
	}
}

func openPersistence(opts options.Program) (pipeline.Persistence, error) {
	if opts.State == "" {
		return store.NewMemoryStore(), nil
	}
	dirStore, err := store.NewDirStore(opts.State)
	if err != nil {
		return nil, fmt.Errorf("opening state directory: %w", err)
	}
	return dirStore, nil
}
