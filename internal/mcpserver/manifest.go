package mcpserver

import (
	"encoding/json"
)

const (
	manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"
	registryName   = "io.github.panbanda/mood"
	imageRepo      = "ghcr.io/panbanda/mood"
	sourceURL      = "https://github.com/panbanda/mood"
)

// Manifest is the MCP registry server.json document.
type Manifest struct {
	Schema      string    `json:"$schema"`
	Name        string    `json:"name"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description"`
	Version     string    `json:"version"`
	Repository  *Source   `json:"repository,omitempty"`
	Packages    []Package `json:"packages,omitempty"`
}

// Source points at the repository the server is built from.
type Source struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package is one way to launch the server.
type Package struct {
	RegistryType         string        `json:"registryType"`
	Identifier           string        `json:"identifier"`
	PackageArguments     []Argument    `json:"packageArguments,omitempty"`
	EnvironmentVariables []Environment `json:"environmentVariables,omitempty"`
	Transport            struct {
		Type string `json:"type"`
	} `json:"transport"`
}

// Argument is a command-line argument passed to the package.
type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// Environment documents an environment variable the server reads.
type Environment struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsRequired  bool   `json:"isRequired"`
}

func ociPackage(version string) Package {
	p := Package{
		RegistryType:     "oci",
		Identifier:       imageRepo + ":" + version,
		PackageArguments: []Argument{{Type: "positional", Value: "mcp"}},
		EnvironmentVariables: []Environment{{
			Name:        "MOOD_CONFIG",
			Description: "Path to a mood.toml, mood.yaml or mood.json config file",
		}},
	}
	p.Transport.Type = "stdio"
	return p
}

// GenerateManifest returns the indented server.json for version.
// An empty version is published as 0.0.0.
func GenerateManifest(version string) ([]byte, error) {
	if version == "" {
		version = "0.0.0"
	}
	return json.MarshalIndent(Manifest{
		Schema:      manifestSchema,
		Name:        registryName,
		Title:       "MOOD metrics",
		Description: "MOOD object-oriented design metrics for compiled JVM classes",
		Version:     version,
		Repository:  &Source{URL: sourceURL, Source: "github"},
		Packages:    []Package{ociPackage(version)},
	}, "", "  ")
}
