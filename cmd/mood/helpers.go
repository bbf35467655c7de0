package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/panbanda/mood/internal/logging"
	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/internal/service/analysis"
	"github.com/panbanda/mood/pkg/config"
	"github.com/urfave/cli/v2"
)

// classpathFlags are shared by every command that reads classes.
func classpathFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "classpath",
			Aliases: []string{"cp"},
			Usage:   "Class directory or .jar/.zip file (repeatable); overrides config classpath",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Classes read concurrently (0 = 2x CPU count, 1 = serial); overrides config",
		},
	}
}

// outputFlags are shared by every command that prints a report.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, markdown, toon (default from config)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to file",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
	}
}

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	result, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, err
	}
	cfg := result.Config

	if cp := c.StringSlice("classpath"); len(cp) > 0 {
		cfg.Classpath = cp
	}
	if c.IsSet("workers") {
		if w := c.Int("workers"); w >= 0 {
			cfg.Analysis.Workers = w
		}
	}
	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if f := c.String("format"); f != "" {
		cfg.Output.Format = f
	}
	if c.Bool("no-color") {
		cfg.Output.Color = false
	}
	return cfg, nil
}

// setupLogging builds the logger shared by every command.
func setupLogging(c *cli.Context) error {
	level := logging.Level(c.Bool("verbose"))
	if path := c.String("log-file"); path != "" {
		logger, cleanup, err := logging.Setup(path, level)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		c.App.Metadata["logger"] = logger
		c.App.Metadata["logCleanup"] = cleanup
		return nil
	}
	c.App.Metadata["logger"] = logging.New(os.Stderr, level, c.String("log-format"))
	return nil
}

func newLogger(c *cli.Context) *slog.Logger {
	if logger, ok := c.App.Metadata["logger"].(*slog.Logger); ok {
		return logger
	}
	return logging.Discard()
}

func newService(c *cli.Context, cfg *config.Config) *analysis.Service {
	return analysis.New(analysis.WithConfig(cfg), analysis.WithLogger(newLogger(c)))
}

func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	formatter, err := output.NewFormatter(output.ParseFormat(cfg.Output.Format), c.String("output"), cfg.Output.Color)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return formatter, nil
}

// classArgs returns the class names given as arguments.
func classArgs(c *cli.Context) []string {
	return c.Args().Slice()
}

// showProgress reports whether a progress bar suits the current run: stderr
// is a terminal and debug logs are not interleaved with it.
func showProgress(c *cli.Context) bool {
	if c.Bool("verbose") {
		return false
	}
	info, err := os.Stderr.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
