package main

import (
	"github.com/panbanda/mood/internal/service/analysis"
	"github.com/urfave/cli/v2"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Build the IR and compute the MOOD metrics",
		ArgsUsage: "[class...]",
		Description: `Reads the named classes (dotted or internal names) from the classpath,
prints the IR dump followed by MHF, AHF, MIF, AIF, POF and COF.

With no class arguments and no classes in the config file, every class
found on the classpath is analyzed.

Examples:
  mood analyze -cp build/classes com.example.Base com.example.Child
  mood analyze -cp app.jar --no-ir --per-class
  mood analyze -cp app.jar -f json -o mood.json`,
		Flags: withFlags(classpathFlags(), outputFlags(), []cli.Flag{
			&cli.BoolFlag{
				Name:  "per-class",
				Usage: "Include the per-class breakdown",
			},
			&cli.BoolFlag{
				Name:  "no-ir",
				Usage: "Omit the IR dump",
			},
		}),
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	result, err := newService(c, cfg).Run(c.Context, analysis.RunOptions{
		Classes:      classArgs(c),
		ShowProgress: showProgress(c),
	})
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	report := &moodReport{
		ir:       result.IR,
		analysis: result.Analysis,
		perClass: c.Bool("per-class"),
	}
	if c.Bool("no-ir") {
		report.ir = nil
	}
	return formatter.Output(report)
}

func irCmd() *cli.Command {
	return &cli.Command{
		Name:      "ir",
		Usage:     "Print the intermediate representation only",
		ArgsUsage: "[class...]",
		Flags:     withFlags(classpathFlags(), outputFlags()),
		Action:    runIRCmd,
	}
}

func runIRCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	r, err := newService(c, cfg).BuildIR(c.Context, analysis.RunOptions{
		Classes:      classArgs(c),
		ShowProgress: showProgress(c),
	})
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()
	return formatter.Output(&irReport{ir: r})
}
