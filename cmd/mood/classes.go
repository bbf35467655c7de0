package main

import (
	"fmt"
	"strings"

	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/internal/scanner"
	"github.com/panbanda/mood/pkg/classfile"
	"github.com/urfave/cli/v2"
)

func classesCmd() *cli.Command {
	return &cli.Command{
		Name:  "classes",
		Usage: "List the classes discovered on the classpath",
		Flags: withFlags(classpathFlags(), outputFlags(), []cli.Flag{
			&cli.BoolFlag{
				Name:  "dotted",
				Usage: "Print binary names (com.example.Base) instead of internal names",
			},
		}),
		Action: runClassesCmd,
	}
}

func runClassesCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	names, err := scanner.NewScanner(cfg).Scan(cfg.Classpath)
	if err != nil {
		return err
	}
	if c.Bool("dotted") {
		for i, n := range names {
			names[i] = classfile.BinaryName(n)
		}
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() == output.FormatText {
		if len(names) == 0 {
			formatter.Warning("No classes found on %s", strings.Join(cfg.Classpath, ", "))
			return nil
		}
		for _, n := range names {
			fmt.Fprintln(formatter.Writer(), n)
		}
		return nil
	}
	return formatter.Output(map[string]any{
		"classes": names,
		"count":   len(names),
	})
}
