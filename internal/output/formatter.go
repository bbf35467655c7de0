// Package output renders analysis results as text, JSON, markdown or TOON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/fatih/color"
	toon "github.com/toon-format/toon-go"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
)

// ParseFormat converts a string to Format, defaulting to text.
func ParseFormat(s string) Format {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatMarkdown, FormatTOON:
		return f
	case "md":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// Renderable is a result that knows its human-readable forms. JSON and TOON
// encode RenderData.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	RenderData() any
}

// Formatter writes results in one format to stdout or a file.
type Formatter struct {
	format  Format
	w       io.Writer
	closer  io.Closer
	colored bool
}

// NewFormatter creates a formatter writing to the output file, or to
// stdout when output is empty. Color is always off for files.
func NewFormatter(format Format, output string, colored bool) (*Formatter, error) {
	if output == "" {
		return NewWriterFormatter(format, os.Stdout, colored), nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, err
	}
	formatter := NewWriterFormatter(format, f, false)
	formatter.closer = f
	return formatter, nil
}

// NewWriterFormatter creates a formatter writing to w.
func NewWriterFormatter(format Format, w io.Writer, colored bool) *Formatter {
	return &Formatter{format: format, w: w, colored: colored}
}

// Close closes the output file, if any.
func (f *Formatter) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// Writer returns the destination.
func (f *Formatter) Writer() io.Writer {
	return f.w
}

// Format returns the output format.
func (f *Formatter) Format() Format {
	return f.format
}

// Colored returns whether colored output is enabled.
func (f *Formatter) Colored() bool {
	return f.colored
}

// Output writes data in the configured format. Values that are not
// Renderable are written as JSON in text mode and fenced JSON in markdown.
func (f *Formatter) Output(data any) error {
	r, renderable := data.(Renderable)
	switch f.format {
	case FormatText:
		if renderable {
			return r.RenderText(f.w, f.colored)
		}
		return f.writeJSON(data)
	case FormatMarkdown:
		if renderable {
			return r.RenderMarkdown(f.w)
		}
		fmt.Fprintln(f.w, "```json")
		if err := f.writeJSON(data); err != nil {
			return err
		}
		_, err := fmt.Fprintln(f.w, "```")
		return err
	}

	if renderable {
		data = r.RenderData()
	}
	if f.format == FormatTOON {
		out, err := MarshalTOON(data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(f.w, out)
		return err
	}
	return f.writeJSON(data)
}

func (f *Formatter) writeJSON(data any) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// MarshalTOON encodes data as TOON with two-space indentation. Data goes
// through its JSON encoding first so custom marshalers (undefined metric
// values become null) apply to TOON too.
func MarshalTOON(data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", err
	}
	out, err := toon.Marshal(doc, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (f *Formatter) message(c color.Attribute, prefix, format string, args ...any) {
	if f.colored {
		color.New(c).Fprintf(f.w, format+"\n", args...)
		return
	}
	fmt.Fprintf(f.w, prefix+format+"\n", args...)
}

// Warning writes a status line, yellow or prefixed with WARNING.
func (f *Formatter) Warning(format string, args ...any) {
	f.message(color.FgYellow, "WARNING: ", format, args...)
}

// Error writes a status line, red or prefixed with ERROR.
func (f *Formatter) Error(format string, args ...any) {
	f.message(color.FgRed, "ERROR: ", format, args...)
}

// FactorColor highlights undefined ratio values.
func FactorColor(value float64, text string) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return color.YellowString(text)
	}
	return color.CyanString(text)
}
