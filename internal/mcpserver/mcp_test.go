package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/internal/testutil"
	"github.com/panbanda/mood/pkg/config"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	classes := filepath.Join(t.TempDir(), "classes")
	testutil.WriteClasses(t, classes,
		testutil.NewClass("com/example/Base", "java/lang/Object").
			Method(testutil.Public, "foo", "()V").
			Getter(testutil.Public, "X", "I").
			Setter(testutil.Public, "X", "I"),
		testutil.NewClass("com/example/Child", "com/example/Base").
			Method(testutil.Public, "foo", "()V").
			Method(testutil.Public, "bar", "()V"),
	)
	cfg := config.DefaultConfig()
	cfg.Classpath = []string{classes}
	cfg.Cache.Enabled = false
	return NewServer("1.0.0-test", cfg, nil), classes
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("result is nil")
	}
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is not TextContent: %T", result.Content[0])
	}
	return text.Text
}

// TestServerCreation verifies the MCP server can be created without panicking.
func TestServerCreation(t *testing.T) {
	server := NewServer("", config.DefaultConfig(), nil)
	if server == nil || server.server == nil {
		t.Fatal("NewServer() returned an incomplete server")
	}
}

// TestToolDescriptions verifies all descriptions carry the guidance sections.
func TestToolDescriptions(t *testing.T) {
	descriptions := map[string]func() string{
		"mood":        describeMood,
		"dumpIR":      describeDumpIR,
		"listClasses": describeListClasses,
	}
	for name, fn := range descriptions {
		t.Run(name, func(t *testing.T) {
			desc := fn()
			for _, section := range []string{"USE WHEN:", "INTERPRETING RESULTS:", "METRICS RETURNED:"} {
				if !strings.Contains(desc, section) {
					t.Errorf("%s description missing %s section", name, section)
				}
			}
		})
	}
}

func TestGetFormat(t *testing.T) {
	tests := map[string]output.Format{
		"":         output.FormatTOON,
		"toon":     output.FormatTOON,
		"json":     output.FormatJSON,
		"md":       output.FormatMarkdown,
		"markdown": output.FormatMarkdown,
		"xml":      output.FormatTOON,
	}
	for in, want := range tests {
		if got := getFormat(in); got != want {
			t.Errorf("getFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToolError(t *testing.T) {
	result, _, err := toolError("boom")
	if err != nil {
		t.Fatalf("toolError returned error: %v", err)
	}
	if !result.IsError {
		t.Error("toolError.IsError should be true")
	}
	if got := resultText(t, result); got != "Error: boom" {
		t.Errorf("text = %q", got)
	}
}

func TestFormatOutput(t *testing.T) {
	data := map[string]any{"classes": 2}

	js, err := formatOutput(data, output.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(js), &decoded); err != nil {
		t.Errorf("JSON format is not valid JSON: %v\n%s", err, js)
	}

	md, err := formatOutput(data, output.FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(md, "```\n") || !strings.HasSuffix(md, "\n```") {
		t.Errorf("markdown format should be fenced: %q", md)
	}
}

func TestHandleAnalyzeMood(t *testing.T) {
	s, _ := testServer(t)

	input := MoodInput{Format: "json", PerClass: true}
	result, _, err := s.handleAnalyzeMood(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleAnalyzeMood error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	var payload struct {
		Metrics map[string]*float64 `json:"metrics"`
		Classes []map[string]any    `json:"classes"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if v := payload.Metrics["mif"]; v == nil || *v != 0 {
		t.Errorf("mif = %v, want 0", v)
	}
	if v := payload.Metrics["aif"]; v == nil || *v != 0.5 {
		t.Errorf("aif = %v, want 0.5", v)
	}
	if len(payload.Classes) != 2 {
		t.Errorf("classes = %d, want 2", len(payload.Classes))
	}
}

func TestHandleAnalyzeMood_TOONDefault(t *testing.T) {
	s, _ := testServer(t)
	result, _, err := s.handleAnalyzeMood(context.Background(), nil, MoodInput{})
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "mhf") || strings.Contains(text, "classes[") {
		t.Errorf("unexpected TOON output:\n%s", text)
	}
}

func TestHandleAnalyzeMood_MissingClass(t *testing.T) {
	s, _ := testServer(t)
	input := MoodInput{ClasspathInput: ClasspathInput{Classes: []string{"com.example.Ghost"}}}
	result, _, err := s.handleAnalyzeMood(context.Background(), nil, input)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("missing class should produce a tool error")
	}
	if !strings.Contains(resultText(t, result), "com.example.Ghost") {
		t.Errorf("error should name the class: %s", resultText(t, result))
	}
}

func TestHandleDumpIR(t *testing.T) {
	s, classes := testServer(t)
	input := ClasspathInput{Classpath: []string{classes}, Classes: []string{"com.example.Child"}}
	result, _, err := s.handleDumpIR(context.Background(), nil, input)
	if err != nil {
		t.Fatal(err)
	}
	want := "IR\n\tclass com/example/Child : com/example/Base\n\t\tattributes\n\t\tmethods\n\t\t\tpublic foo: ()V\n\t\t\tpublic bar: ()V\n"
	if got := resultText(t, result); got != want {
		t.Errorf("dump =\n%q\nwant\n%q", got, want)
	}
}

func TestHandleListClasses(t *testing.T) {
	s, _ := testServer(t)
	result, _, err := s.handleListClasses(context.Background(), nil, ClasspathInput{})
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)
	for _, want := range []string{"com/example/Base", "com/example/Child", "count"} {
		if !strings.Contains(text, want) {
			t.Errorf("list output missing %q:\n%s", want, text)
		}
	}
}

func TestParsePrompt(t *testing.T) {
	spec, err := parsePrompt("check", []byte("---\ndescription: Check design\narguments:\n  - name: classpath\n    required: true\n---\nAnalyze {{classpath}}.\n"))
	if err != nil {
		t.Fatal(err)
	}
	if spec.Name != "check" || spec.Description != "Check design" || spec.Body != "Analyze {{classpath}}.\n" {
		t.Errorf("parsePrompt() = %+v", spec)
	}
	if len(spec.Arguments) != 1 || !spec.Arguments[0].Required {
		t.Errorf("arguments = %+v", spec.Arguments)
	}

	plain, err := parsePrompt("plain", []byte("no frontmatter"))
	if err != nil {
		t.Fatal(err)
	}
	if plain.Description != "" || plain.Body != "no frontmatter" {
		t.Errorf("parsePrompt() = %+v", plain)
	}

	if _, err := parsePrompt("bad", []byte("---\ndescription: [\n---\nbody")); err == nil {
		t.Error("expected error for malformed frontmatter")
	}
}

func TestEmbeddedPrompts(t *testing.T) {
	specs, err := loadPrompts(promptFiles, "prompts")
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) == 0 {
		t.Fatal("no embedded prompts")
	}
	for _, spec := range specs {
		if spec.Description == "" {
			t.Errorf("%s has no description", spec.Name)
		}
		if strings.HasPrefix(spec.Body, "---") {
			t.Errorf("%s body still carries frontmatter", spec.Name)
		}
	}
}

func TestPromptRender(t *testing.T) {
	spec := &promptSpec{
		Name:        "explain",
		Description: "d",
		Arguments:   []promptArgument{{Name: "class", Required: true}, {Name: "classpath"}},
		Body:        "Explain {{class}} on {{classpath}}.",
	}

	res, err := spec.handle(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Arguments: map[string]string{"class": "com.example.Child"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Description != "d" || len(res.Messages) != 1 {
		t.Fatalf("unexpected prompt result: %+v", res)
	}
	text := res.Messages[0].Content.(*mcp.TextContent).Text
	if text != "Explain com.example.Child on (ask the user for the classpath)." {
		t.Errorf("rendered text = %q", text)
	}

	if _, err := spec.handle(context.Background(), nil); err == nil {
		t.Error("expected error for missing required argument")
	}
	if got := len(spec.prompt().Arguments); got != 2 {
		t.Errorf("prompt arguments = %d, want 2", got)
	}
}

func TestGenerateManifest(t *testing.T) {
	data, err := GenerateManifest("")
	if err != nil {
		t.Fatal(err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m.Name != "io.github.panbanda/mood" || m.Version != "0.0.0" {
		t.Errorf("unexpected manifest: %+v", m)
	}
	if m.Packages[0].Identifier != "ghcr.io/panbanda/mood:0.0.0" {
		t.Errorf("identifier = %s", m.Packages[0].Identifier)
	}
	if m.Packages[0].Transport.Type != "stdio" {
		t.Errorf("transport = %s", m.Packages[0].Transport.Type)
	}
	if env := m.Packages[0].EnvironmentVariables; len(env) != 1 || env[0].Name != "MOOD_CONFIG" {
		t.Errorf("environment = %+v", env)
	}
}
