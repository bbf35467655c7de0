package main

import (
	"fmt"

	"github.com/panbanda/mood/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the MOOD analysis
as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "mood": {
        "command": "mood",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_mood    MHF, AHF, MIF, AIF, POF and COF for a class set
  - dump_ir         Methods and accessor-derived attributes per class
  - list_classes    Classes discoverable on a classpath`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the MCP registry manifest",
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	// stdout carries the protocol, so diagnostics stay on stderr.
	server := mcpserver.NewServer(version, cfg, newLogger(c))
	return server.Run(c.Context)
}

func runMCPManifestCmd(c *cli.Context) error {
	data, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}
