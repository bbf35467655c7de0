package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func newApp() *cli.App {
	return &cli.App{
		Name:     "mood",
		Usage:    "MOOD object-oriented design metrics for compiled JVM classes",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `mood reads compiled class files from directories and JAR/ZIP archives,
builds a structural model of their methods and accessor-derived attributes,
and computes the six MOOD metrics: MHF, AHF, MIF, AIF, POF and COF.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"MOOD_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable caching",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging on stderr",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "Log format: text or json",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Also write JSON logs to this file",
			},
			&cli.StringFlag{
				Name:  "pprof",
				Usage: "Enable pprof profiling and write to specified prefix (creates <prefix>.cpu.pprof and <prefix>.mem.pprof)",
			},
		},
		Before: func(c *cli.Context) error {
			if err := setupLogging(c); err != nil {
				return err
			}
			p, err := startProfiler(c.String("pprof"))
			if err != nil {
				return err
			}
			c.App.Metadata["profiler"] = p
			return nil
		},
		After: func(c *cli.Context) error {
			p, _ := c.App.Metadata["profiler"].(*profiler)
			err := p.stop()
			if cleanup, ok := c.App.Metadata["logCleanup"].(func()); ok {
				cleanup()
			}
			return err
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			irCmd(),
			classesCmd(),
			configCmd(),
			cacheCmd(),
			watchCmd(),
			mcpCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
