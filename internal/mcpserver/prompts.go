package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

var frontmatterFence = []byte("---\n")

// promptSpec is one embedded prompt: YAML frontmatter followed by a
// markdown body with {{argument}} placeholders.
type promptSpec struct {
	Name        string           `yaml:"-"`
	Description string           `yaml:"description"`
	Arguments   []promptArgument `yaml:"arguments"`
	Body        string           `yaml:"-"`
}

type promptArgument struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
}

// parsePrompt splits content into frontmatter and body. Content without a
// frontmatter block is all body.
func parsePrompt(name string, content []byte) (*promptSpec, error) {
	spec := &promptSpec{Name: name, Body: string(content)}
	if !bytes.HasPrefix(content, frontmatterFence) {
		return spec, nil
	}
	header, body, ok := bytes.Cut(content[len(frontmatterFence):], append([]byte("\n"), frontmatterFence...))
	if !ok {
		return spec, nil
	}
	if err := yaml.Unmarshal(header, spec); err != nil {
		return nil, fmt.Errorf("prompt %s: %w", name, err)
	}
	spec.Body = strings.TrimLeft(string(body), "\n")
	return spec, nil
}

// loadPrompts reads every markdown prompt under dir of fsys.
func loadPrompts(fsys fs.FS, dir string) ([]*promptSpec, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.md"))
	if err != nil {
		return nil, err
	}
	specs := make([]*promptSpec, 0, len(matches))
	for _, m := range matches {
		content, err := fs.ReadFile(fsys, m)
		if err != nil {
			return nil, err
		}
		spec, err := parsePrompt(strings.TrimSuffix(path.Base(m), ".md"), content)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (s *Server) registerPrompts() {
	specs, err := loadPrompts(promptFiles, "prompts")
	if err != nil {
		s.logger.Warn("prompts not registered", "error", err)
		return
	}
	for _, spec := range specs {
		s.server.AddPrompt(spec.prompt(), spec.handle)
	}
}

func (p *promptSpec) prompt() *mcp.Prompt {
	args := make([]*mcp.PromptArgument, 0, len(p.Arguments))
	for _, a := range p.Arguments {
		args = append(args, &mcp.PromptArgument{
			Name:        a.Name,
			Description: a.Description,
			Required:    a.Required,
		})
	}
	return &mcp.Prompt{Name: p.Name, Description: p.Description, Arguments: args}
}

// render fills {{name}} placeholders. A placeholder with no value becomes a
// note asking the user for it, unless the argument is required.
func (p *promptSpec) render(values map[string]string) (string, error) {
	pairs := make([]string, 0, 2*len(p.Arguments))
	for _, a := range p.Arguments {
		v := values[a.Name]
		if v == "" {
			if a.Required {
				return "", fmt.Errorf("prompt %s: missing argument %q", p.Name, a.Name)
			}
			v = "(ask the user for the " + a.Name + ")"
		}
		pairs = append(pairs, "{{"+a.Name+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(p.Body), nil
}

func (p *promptSpec) handle(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	var values map[string]string
	if req != nil && req.Params != nil {
		values = req.Params.Arguments
	}
	text, err := p.render(values)
	if err != nil {
		return nil, err
	}
	return &mcp.GetPromptResult{
		Description: p.Description,
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}, nil
}
