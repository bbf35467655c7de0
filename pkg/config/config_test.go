package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Classpath) != 1 || cfg.Classpath[0] != "." {
		t.Errorf("Classpath = %v, want [.]", cfg.Classpath)
	}
	if len(cfg.Classes) != 0 {
		t.Errorf("Classes = %v, want empty", cfg.Classes)
	}
	if cfg.Analysis.Workers != 0 {
		t.Errorf("Analysis.Workers = %d, want 0", cfg.Analysis.Workers)
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true by default")
	}
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want 24", cfg.Cache.TTL)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "mood.toml", `
classpath = ["build/classes", "lib/app.jar"]
classes = ["com.example.Base"]

[analysis]
workers = 4

[exclude]
patterns = ["**/generated/"]

[cache]
enabled = false

[output]
format = "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Classpath) != 2 || cfg.Classpath[1] != "lib/app.jar" {
		t.Errorf("Classpath = %v", cfg.Classpath)
	}
	if len(cfg.Classes) != 1 || cfg.Classes[0] != "com.example.Base" {
		t.Errorf("Classes = %v", cfg.Classes)
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("Analysis.Workers = %d, want 4", cfg.Analysis.Workers)
	}
	if len(cfg.Exclude.Patterns) != 1 || cfg.Exclude.Patterns[0] != "**/generated/" {
		t.Errorf("Exclude.Patterns = %v", cfg.Exclude.Patterns)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want default 24", cfg.Cache.TTL)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "mood.yaml", `
classpath:
  - out
analysis:
  workers: 1
output:
  format: markdown
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Classpath) != 1 || cfg.Classpath[0] != "out" {
		t.Errorf("Classpath = %v, want [out]", cfg.Classpath)
	}
	if cfg.Analysis.Workers != 1 {
		t.Errorf("Analysis.Workers = %d, want 1", cfg.Analysis.Workers)
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %s, want markdown", cfg.Output.Format)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "mood.json", `{
  "cache": {"ttl": 48},
  "output": {"format": "toon", "color": false}
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Cache.TTL != 48 {
		t.Errorf("Cache.TTL = %d, want 48", cfg.Cache.TTL)
	}
	if cfg.Output.Format != "toon" || cfg.Output.Color {
		t.Errorf("Output = %+v", cfg.Output)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/mood.toml"); err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "mood.toml", "[analysis\ninvalid toml")
	if _, err := Load(path); err == nil {
		t.Error("Load() should return error for invalid config")
	}
}

func TestLoadConfig_SearchesStandardLocations(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, filepath.Join(".mood", "mood.toml"), "[output]\nformat = \"json\"\n")
	chdir(t, dir)

	result, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if result.Source != filepath.Join(".mood", "mood.toml") {
		t.Errorf("Source = %q", result.Source)
	}
	if result.Config.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", result.Config.Output.Format)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	result, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if result.Source != "" {
		t.Errorf("Source = %q, want empty", result.Source)
	}
	if result.Config.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", result.Config.Output.Format)
	}
}

func TestLoadConfig_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown format", "[output]\nformat = \"xml\"\n"},
		{"unknown key", "[analysis]\ncomplexity = true\n"},
		{"negative workers", "[analysis]\nworkers = -1\n"},
		{"wrong type", "classpath = \"build\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "mood.toml", tt.content)
			_, err := LoadConfig(WithPath(path))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("LoadConfig() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfig_WithoutValidation(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "mood.toml", "[output]\nformat = \"xml\"\n")
	result, err := LoadConfig(WithPath(path), WithoutValidation())
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if result.Config.Output.Format != "xml" {
		t.Errorf("Output.Format = %s, want xml", result.Config.Output.Format)
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mood.toml", "[output]\nformat = \"nope\"\n")
	chdir(t, dir)

	cfg := LoadOrDefault()
	if cfg.Output.Format != "text" {
		t.Errorf("invalid config should fall back to defaults, got format %s", cfg.Output.Format)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "html"
	cfg.Analysis.Workers = -2
	cfg.Classpath = []string{" "}

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Validate() error = %v, want ErrInvalidConfig", err)
	}
}
