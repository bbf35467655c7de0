package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Table is a titled table. Without Data, JSON and TOON encode one object
// per row keyed by header.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  []string
	Data    any

	numeric map[int]bool
}

// NewTable starts a table with the given column headers.
func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers, numeric: map[int]bool{}}
}

// Row appends a row.
func (t *Table) Row(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)
	return t
}

// Totals sets the footer row.
func (t *Table) Totals(cells ...string) *Table {
	t.Footer = cells
	return t
}

// Numeric right-aligns the given columns in text output.
func (t *Table) Numeric(cols ...int) *Table {
	for _, c := range cols {
		t.numeric[c] = true
	}
	return t
}

// WithData sets the value serialized instead of the rows.
func (t *Table) WithData(data any) *Table {
	t.Data = data
	return t
}

func (t *Table) RenderData() any {
	if t.Data != nil {
		return t.Data
	}
	rows := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		rows = append(rows, m)
	}
	return rows
}

func (t *Table) alignments() []tw.Align {
	align := make([]tw.Align, len(t.Headers))
	for i := range align {
		align[i] = tw.AlignLeft
		if t.numeric[i] {
			align[i] = tw.AlignRight
		}
	}
	return align
}

func (t *Table) RenderText(w io.Writer, colored bool) error {
	if t.Title != "" {
		title := color.New(color.Bold)
		if !colored {
			title.DisableColor()
		}
		title.Fprintln(w, t.Title)
		fmt.Fprintln(w, strings.Repeat("=", len(t.Title)))
		fmt.Fprintln(w)
	}

	cells := tw.CellConfig{
		Alignment: tw.CellAlignment{Global: tw.AlignLeft, PerColumn: t.alignments()},
	}
	header := cells
	header.Alignment = tw.CellAlignment{Global: tw.AlignLeft}
	header.Formatting = tw.CellFormatting{AutoFormat: tw.On}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{Header: header, Row: cells, Footer: cells}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off},
			},
		}),
	)
	table.Header(t.Headers)
	for _, row := range t.Rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if len(t.Footer) > 0 {
		footer := make([]any, len(t.Footer))
		for i, c := range t.Footer {
			footer[i] = c
		}
		table.Footer(footer...)
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func (t *Table) RenderMarkdown(w io.Writer) error {
	if t.Title != "" {
		fmt.Fprintf(w, "## %s\n\n", t.Title)
	}
	line := func(cells []string) {
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
	line(t.Headers)
	seps := make([]string, len(t.Headers))
	for i := range seps {
		seps[i] = "---"
		if t.numeric[i] {
			seps[i] = "---:"
		}
	}
	line(seps)
	for _, row := range t.Rows {
		line(row)
	}
	if len(t.Footer) > 0 {
		line(t.Footer)
	}
	_, err := fmt.Fprintln(w)
	return err
}
