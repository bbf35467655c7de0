package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/internal/service/analysis"
)

// ClasspathInput is the base input for all tools.
type ClasspathInput struct {
	Classpath []string `json:"classpath,omitempty" jsonschema:"Class directories and .jar/.zip files to read classes from. Defaults to the configured classpath."`
	Classes   []string `json:"classes,omitempty" jsonschema:"Fully-qualified class names (dotted or slash-separated). Defaults to every class on the classpath."`
}

// MoodInput adds output options for analyze_mood.
type MoodInput struct {
	ClasspathInput
	Format   string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
	PerClass bool   `json:"per_class,omitempty" jsonschema:"Include per-class inheritance counts."`
}

// moodResult is the tool payload of analyze_mood.
type moodResult struct {
	Metrics any `json:"metrics"`
	Summary any `json:"summary"`
	Classes any `json:"classes,omitempty"`
}

// Helper functions

func (in ClasspathInput) runOptions() analysis.RunOptions {
	return analysis.RunOptions{Classpath: in.Classpath, Classes: in.Classes}
}

func getFormat(format string) output.Format {
	switch format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		out, err := output.MarshalTOON(data)
		if err != nil {
			return "", err
		}
		return "```\n" + out + "\n```", nil
	default:
		return output.MarshalTOON(data)
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return textResult(text), nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) service() *analysis.Service {
	return analysis.New(analysis.WithConfig(s.config), analysis.WithLogger(s.logger))
}

// Tool handlers

func (s *Server) handleAnalyzeMood(ctx context.Context, req *mcp.CallToolRequest, input MoodInput) (*mcp.CallToolResult, any, error) {
	result, err := s.service().Run(ctx, input.runOptions())
	if err != nil {
		return toolError(err.Error())
	}

	payload := moodResult{
		Metrics: result.Analysis.Metrics,
		Summary: result.Analysis.Summary,
	}
	if input.PerClass {
		payload.Classes = result.Analysis.Classes
	}
	return toolResult(payload, getFormat(input.Format))
}

func (s *Server) handleDumpIR(ctx context.Context, req *mcp.CallToolRequest, input ClasspathInput) (*mcp.CallToolResult, any, error) {
	r, err := s.service().BuildIR(ctx, input.runOptions())
	if err != nil {
		return toolError(err.Error())
	}
	return textResult(r.String()), nil, nil
}

func (s *Server) handleListClasses(ctx context.Context, req *mcp.CallToolRequest, input ClasspathInput) (*mcp.CallToolResult, any, error) {
	names, err := s.service().Classes(analysis.RunOptions{Classpath: input.Classpath})
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(map[string]any{"classes": names, "count": len(names)}, output.FormatTOON)
}
