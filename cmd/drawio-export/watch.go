package main

import (
	"context"
	"errors"
	"fmt"

	drawioexport "github.com/alnah/go-drawio-export"
	"github.com/alnah/go-drawio-export/internal/watch"
)

// runWatch exports once, then again after every change to the input file,
// until ctx ends. Document errors while the file is being edited are
// reported and watching continues; a renderer that cannot start stops it.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseWatchFlags(args)
	if err != nil {
		return err
	}
	if flags.common.help {
		printWatchUsage(env.Stdout)
		return nil
	}

	job, err := prepareExport(&flags.exportFlags, positional, env)
	if err != nil {
		return err
	}

	w, err := watch.New(job.cfg.InputPath, flags.debounce)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	w.OnError = func(err error) {
		fmt.Fprintf(env.Stderr, "warning: watcher: %v\n", err)
	}

	var fatal error
	rerun, stop := context.WithCancel(ctx)
	defer stop()

	exportOnce := func(ctx context.Context) {
		if err := job.run(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, drawioexport.ErrRendererInvocation) {
				fatal = err
				stop()
				return
			}
			fmt.Fprintln(env.Stderr, err)
		}
	}

	exportOnce(rerun)
	if fatal != nil {
		return fatal
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %s (Ctrl+C to stop)\n", w.Path())
	}

	if err := w.Run(rerun, func(ctx context.Context) {
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "\n[%s] change detected\n", env.Now().Format("15:04:05"))
		}
		exportOnce(ctx)
	}); err != nil {
		return err
	}
	return fatal
}
