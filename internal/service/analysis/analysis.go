// Package analysis wires configuration, class sources, the cache and the
// MOOD analyzer into the single run shared by the CLI, watch mode and the
// MCP server.
package analysis

import (
	"context"
	"errors"
	"log/slog"

	"github.com/panbanda/mood/internal/cache"
	"github.com/panbanda/mood/internal/logging"
	"github.com/panbanda/mood/internal/progress"
	"github.com/panbanda/mood/internal/scanner"
	"github.com/panbanda/mood/pkg/analyzer/mood"
	"github.com/panbanda/mood/pkg/config"
	"github.com/panbanda/mood/pkg/ir"
	"github.com/panbanda/mood/pkg/source"
)

// ErrNoClasses is returned when neither arguments, config nor the classpath name a class.
var ErrNoClasses = errors.New("no classes to analyze")

// Service orchestrates MOOD analysis runs.
type Service struct {
	config *config.Config
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = config.LoadOrDefault()
	}
	return s
}

// Config returns the configuration in use.
func (s *Service) Config() *config.Config {
	return s.config
}

// RunOptions selects what a run analyzes. Empty fields fall back to the config.
type RunOptions struct {
	Classpath []string
	Classes   []string
	// ShowProgress draws a progress bar on stderr while classes are read.
	ShowProgress bool
}

// Result is the outcome of one run.
type Result struct {
	IR       *ir.IR
	Analysis *mood.Analysis
}

func (s *Service) classpath(opts RunOptions) []string {
	if len(opts.Classpath) > 0 {
		return opts.Classpath
	}
	return s.config.Classpath
}

// Classes resolves the class names a run would analyze: explicit names,
// then configured names, then every class discovered on the classpath.
func (s *Service) Classes(opts RunOptions) ([]string, error) {
	if len(opts.Classes) > 0 {
		return opts.Classes, nil
	}
	if len(s.config.Classes) > 0 {
		return s.config.Classes, nil
	}
	spinner := progress.ForScan(opts.ShowProgress)
	names, err := scanner.NewScanner(s.config).Scan(s.classpath(opts))
	if err != nil {
		spinner.FinishError(err)
		return nil, err
	}
	spinner.FinishSuccess()
	if len(names) == 0 {
		return nil, ErrNoClasses
	}
	return names, nil
}

func (s *Service) openCache() *cache.Cache {
	c, err := cache.New(s.config.Cache.Dir, s.config.Cache.TTL, s.config.Cache.Enabled)
	if err != nil {
		s.logger.Warn("cache disabled", "dir", s.config.Cache.Dir, "error", err)
		return cache.Disabled()
	}
	return c
}

// BuildIR opens the classpath and introspects the selected classes.
func (s *Service) BuildIR(ctx context.Context, opts RunOptions) (*ir.IR, error) {
	r, _, err := s.build(ctx, opts)
	return r, err
}

// Run builds the IR and computes its metrics.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	r, a, err := s.build(ctx, opts)
	if err != nil {
		return nil, err
	}
	analysis, err := a.Compute(r)
	if err != nil {
		return nil, err
	}
	return &Result{IR: r, Analysis: analysis}, nil
}

func (s *Service) build(ctx context.Context, opts RunOptions) (*ir.IR, *mood.Analyzer, error) {
	names, err := s.Classes(opts)
	if err != nil {
		return nil, nil, err
	}
	cp, err := source.Open(s.classpath(opts))
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err := cp.Close(); err != nil {
			s.logger.Warn("close classpath", "error", err)
		}
	}()

	tracker := progress.ForClasses(len(names), opts.ShowProgress)
	a := mood.New(cp,
		mood.WithWorkers(s.config.Analysis.Workers),
		mood.WithCache(s.openCache()),
		mood.WithLogger(s.logger),
		mood.WithProgress(tracker.Func()),
	)

	r, err := a.BuildIR(ctx, names)
	if err != nil {
		tracker.FinishError(err)
		return nil, nil, err
	}
	tracker.FinishSuccess()
	s.logger.Debug("built IR", "classes", r.Len())
	return r, a, nil
}
