package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/pkg/analyzer/mood"
	"github.com/panbanda/mood/pkg/ir"
)

// moodReport renders an analysis with its optional IR dump and per-class table.
type moodReport struct {
	ir       *ir.IR
	analysis *mood.Analysis
	perClass bool
}

type moodReportData struct {
	IR *ir.IR `json:"ir,omitempty"`
	*mood.Analysis
}

func (r *moodReport) RenderData() any {
	data := moodReportData{IR: r.ir, Analysis: r.analysis}
	if !r.perClass {
		trimmed := *r.analysis
		trimmed.Classes = nil
		data.Analysis = &trimmed
	}
	return data
}

func (r *moodReport) RenderText(w io.Writer, colored bool) error {
	if r.ir != nil {
		if err := r.ir.Dump(w); err != nil {
			return err
		}
	}
	if colored {
		m := r.analysis.Metrics
		for i, v := range m.Values() {
			fmt.Fprintf(w, "%s = %s\n", color.New(color.Bold).Sprint(mood.MetricNames[i]), output.FactorColor(float64(v), v.String()))
		}
	} else if err := r.analysis.Metrics.Write(w); err != nil {
		return err
	}
	if r.perClass {
		fmt.Fprintln(w)
		return r.classTable().RenderText(w, colored)
	}
	return nil
}

func (r *moodReport) RenderMarkdown(w io.Writer) error {
	fmt.Fprintln(w, "# MOOD Metrics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Metric | Value |")
	fmt.Fprintln(w, "| --- | --- |")
	for i, v := range r.analysis.Metrics.Values() {
		fmt.Fprintf(w, "| %s | %s |\n", mood.MetricNames[i], v)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d classes analyzed.\n\n", r.analysis.Summary.TotalClasses)
	if r.perClass {
		if err := r.classTable().RenderMarkdown(w); err != nil {
			return err
		}
	}
	if r.ir != nil {
		fmt.Fprintln(w, "## IR")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "```")
		if err := r.ir.Dump(w); err != nil {
			return err
		}
		fmt.Fprintln(w, "```")
	}
	return nil
}

// inheritanceCell formats new/overridden/inherited counts.
func inheritanceCell(m mood.InheritanceMetrics) string {
	return fmt.Sprintf("%d/%d/%d", m.NewCount, m.OverriddenCount, m.InheritedNotOverriddenCount)
}

func (r *moodReport) classTable() *output.Table {
	t := output.NewTable("Per-Class Breakdown",
		"Class", "Base", "Methods (new/ovr/inh)", "Attributes (new/ovr/inh)",
		"Hidden M", "Hidden A", "Descendants", "Coupled").
		Numeric(4, 5, 6).
		WithData(r.analysis.Classes)
	var methods, attrs, descendants int
	for _, c := range r.analysis.Classes {
		t.Row(
			c.Class,
			c.BaseClass,
			inheritanceCell(c.Methods),
			inheritanceCell(c.Attributes),
			fmt.Sprintf("%d/%d", c.HiddenMethods, c.DeclaredMethods),
			fmt.Sprintf("%d/%d", c.HiddenAttributes, c.DeclaredAttributes),
			strconv.Itoa(c.Descendants),
			strings.Join(c.CoupledClasses, ", "),
		)
		methods += c.DeclaredMethods
		attrs += c.DeclaredAttributes
		descendants += c.Descendants
	}
	return t.Totals(
		fmt.Sprintf("%d classes", len(r.analysis.Classes)), "",
		fmt.Sprintf("%d declared", methods),
		fmt.Sprintf("%d declared", attrs),
		"", "",
		strconv.Itoa(descendants), "",
	)
}

// irReport renders an IR on its own.
type irReport struct {
	ir *ir.IR
}

func (r *irReport) RenderData() any {
	return r.ir
}

func (r *irReport) RenderText(w io.Writer, _ bool) error {
	return r.ir.Dump(w)
}

func (r *irReport) RenderMarkdown(w io.Writer) error {
	fmt.Fprintln(w, "```")
	if err := r.ir.Dump(w); err != nil {
		return err
	}
	fmt.Fprintln(w, "```")
	return nil
}
