// Package main implements a tool to print persisted processor snapshots
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retroproc/internal/processor"
	"github.com/retroenv/retroproc/internal/store"
)

type optionFlags struct {
	state string
	id    int64
	json  bool
}

func main() {
	options := readArguments()

	if err := dumpSnapshot(context.Background(), os.Stdout, options); err != nil {
		fmt.Println(fmt.Errorf("dumping snapshot failed: %w", err))
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.StringVar(&options.state, "state", "", "directory the processor snapshots are persisted in")
	flags.Int64Var(&options.id, "id", -1, "snapshot id of the processor to print")
	flags.BoolVar(&options.json, "json", false, "print the raw snapshot fields as JSON")

	err := flags.Parse(os.Args[1:])
	if err != nil || options.state == "" || options.id < 0 {
		fmt.Printf("usage: procdump -state <directory> -id <snapshot id>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}

	return options
}

func dumpSnapshot(ctx context.Context, w io.Writer, options optionFlags) error {
	dirStore, err := store.NewDirStore(options.state)
	if err != nil {
		return err
	}

	id := store.ID(options.id)
	snap, err := dirStore.Load(ctx, id)
	if err != nil {
		return err
	}

	if options.json {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snap)
	}

	if _, err := fmt.Fprintf(w, "%s\n", id.Key()); err != nil {
		return err
	}

	// out of range values can not be restored, only their violations are shown
	if proc, err := processor.Restore(nil, snap); err == nil {
		if _, err := fmt.Fprintf(w, "PC=%04X %s\n", proc.ProgramCounter, proc); err != nil {
			return err
		}
	}

	for _, violation := range snap.Validate() {
		if _, err := fmt.Fprintf(w, "%s%s\n", processor.ErrorPrefix, violation.Message); err != nil {
			return err
		}
	}
	return nil
}
