package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/panbanda/mood/internal/scanner"
	"github.com/panbanda/mood/internal/service/analysis"
	"github.com/panbanda/mood/pkg/watch"
	"github.com/urfave/cli/v2"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch the classpath and re-analyze when class files change",
		ArgsUsage: "[class...]",
		Flags: withFlags(classpathFlags(), outputFlags(), []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: watch.DefaultDebounce,
				Usage: "Quiet period before a batch of changes is analyzed",
			},
			&cli.BoolFlag{
				Name:  "per-class",
				Usage: "Include the per-class breakdown",
			},
			&cli.BoolFlag{
				Name:  "ir",
				Usage: "Include the IR dump on every run",
			},
		}),
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	svc := newService(c, cfg)

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	opts := analysis.RunOptions{Classes: classArgs(c)}
	run := func() {
		result, err := svc.Run(ctx, opts)
		if err != nil {
			formatter.Error("Analysis failed: %v", err)
			return
		}
		report := &moodReport{analysis: result.Analysis, perClass: c.Bool("per-class")}
		if c.Bool("ir") {
			report.ir = result.IR
		}
		if err := formatter.Output(report); err != nil {
			formatter.Error("Output failed: %v", err)
		}
	}

	watcher, err := watch.NewWatcher(cfg.Classpath, scanner.NewScanner(cfg), c.Duration("debounce"))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	watcher.SetCallback(func(changed []string) {
		run()
	})

	// Initial run so the first report does not wait for a change.
	run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Println("\nStopping watch...")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
