package ir

import (
	"context"

	"github.com/panbanda/mood/internal/fileproc"
)

// Builder runs an Introspector over a list of class names.
type Builder struct {
	introspector *Introspector
	workers      int
	onProgress   func()
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithWorkers bounds the number of classes read concurrently.
// 0 selects a default based on the CPU count; 1 reads serially.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		b.workers = n
	}
}

// WithProgress sets a callback invoked once per introspected class.
func WithProgress(fn func()) BuilderOption {
	return func(b *Builder) {
		b.onProgress = fn
	}
}

// NewBuilder creates a builder around introspector.
func NewBuilder(introspector *Introspector, opts ...BuilderOption) *Builder {
	b := &Builder{introspector: introspector}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build introspects every name and assembles the IR in input order.
// Any failure aborts the build; no partial IR is returned. When two inputs
// declare the same class name the first is kept and the collision is
// logged at warn level.
func (b *Builder) Build(ctx context.Context, classNames []string) (*IR, error) {
	names := dedupe(classNames)
	classes, err := fileproc.MapOrdered(ctx, names, b.workers,
		func(_ context.Context, name string) (*Class, error) {
			return b.introspector.Introspect(name)
		},
		b.onProgress,
	)
	if err != nil {
		return nil, err
	}

	from := make(map[string]string, len(classes))
	for i, c := range classes {
		if kept, dup := from[c.Name]; dup {
			b.introspector.logger.Warn("duplicate class dropped",
				"class", c.Name, "kept", kept, "dropped", names[i])
			continue
		}
		from[c.Name] = names[i]
	}
	return New(classes...), nil
}

// dedupe drops repeated names, keeping the first occurrence.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
