package analyzer

import "context"

// ClassAnalyzer is the interface analyzers over compiled classes implement.
type ClassAnalyzer[T any] interface {
	// Analyze processes the named classes and returns the analysis result.
	// The context can be used for cancellation.
	Analyze(ctx context.Context, classNames []string) (T, error)
}
