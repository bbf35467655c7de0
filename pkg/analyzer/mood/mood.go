// Package mood computes the MOOD object-oriented design metrics (method and
// attribute hiding, method and attribute inheritance, polymorphism and
// coupling factors) over an IR of compiled classes.
package mood

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/panbanda/mood/internal/cache"
	"github.com/panbanda/mood/pkg/analyzer"
	"github.com/panbanda/mood/pkg/ir"
	"github.com/panbanda/mood/pkg/source"
)

// Ensure Analyzer implements analyzer.ClassAnalyzer.
var _ analyzer.ClassAnalyzer[*Analysis] = (*Analyzer)(nil)

// Analyzer builds an IR from a class source and computes its MOOD metrics.
type Analyzer struct {
	src        source.ClassSource
	workers    int
	cache      *cache.Cache
	logger     *slog.Logger
	onProgress func()
	now        func() time.Time
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithWorkers bounds concurrent class reading. 1 reads serially.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithCache reuses introspected classes across runs.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// WithProgress sets a callback invoked once per introspected class.
func WithProgress(fn func()) Option {
	return func(a *Analyzer) {
		a.onProgress = fn
	}
}

// New creates an analyzer reading classes from src.
func New(src source.ClassSource, opts ...Option) *Analyzer {
	a := &Analyzer{
		src:    src,
		cache:  cache.Disabled(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildIR introspects the named classes.
func (a *Analyzer) BuildIR(ctx context.Context, classNames []string) (*ir.IR, error) {
	in := ir.NewIntrospector(a.src, ir.WithCache(a.cache), ir.WithLogger(a.logger))
	b := ir.NewBuilder(in, ir.WithWorkers(a.workers), ir.WithProgress(a.onProgress))
	return b.Build(ctx, classNames)
}

// Analyze builds the IR for classNames and computes its metrics.
func (a *Analyzer) Analyze(ctx context.Context, classNames []string) (*Analysis, error) {
	r, err := a.BuildIR(ctx, classNames)
	if err != nil {
		return nil, err
	}
	return a.Compute(r)
}

// Compute derives the metrics of an already built IR.
func (a *Analyzer) Compute(r *ir.IR) (*Analysis, error) {
	res, err := NewResolver(r)
	if err != nil {
		return nil, err
	}

	classes := r.Classes()
	analysis := &Analysis{
		GeneratedAt: a.now(),
		Classes:     make([]ClassMetrics, 0, len(classes)),
	}

	var ratios Ratios
	ratios.MHF, ratios.AHF = hidingRatios(classes)

	coupled := 0
	for _, c := range classes {
		cm := ClassMetrics{
			Class:              c.Name,
			BaseClass:          c.BaseClassName,
			DeclaredMethods:    len(c.Methods),
			DeclaredAttributes: len(c.Attributes),
			HiddenMethods:      countHidden(c.Methods, func(m ir.Method) ir.Access { return m.Access }),
			HiddenAttributes:   countHidden(c.Attributes, func(at ir.Attribute) ir.Access { return at.Access }),
			Methods:            res.MethodInheritance(c),
			Attributes:         res.AttributeInheritance(c),
			Descendants:        res.DescendantCount(c),
			CoupledClasses:     couplings(c, classes),
		}

		ratios.MIF.Numerator += cm.Methods.InheritedNotOverriddenCount
		ratios.MIF.Denominator += cm.Methods.Available()
		ratios.AIF.Numerator += cm.Attributes.InheritedNotOverriddenCount
		ratios.AIF.Denominator += cm.Attributes.Available()
		ratios.POF.Numerator += cm.Methods.OverriddenCount
		ratios.POF.Denominator += cm.Descendants * cm.Methods.NewCount
		coupled += len(cm.CoupledClasses)

		a.logger.Debug("class metrics",
			"class", c.Name,
			"new_methods", cm.Methods.NewCount,
			"overridden_methods", cm.Methods.OverriddenCount,
			"descendants", cm.Descendants)
		analysis.Classes = append(analysis.Classes, cm)
	}

	n := len(classes)
	ratios.COF = Ratio{Numerator: coupled, Denominator: n * (n - 1)}

	analysis.Summary = Summary{TotalClasses: n, Ratios: ratios}
	analysis.Metrics = ratios.Metrics()
	return analysis, nil
}
