// Package fileproc provides bounded concurrent processing of class inputs.
package fileproc

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// ProcessingError records which input failed.
type ProcessingError struct {
	Name string
	Err  error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
// Class reading is I/O bound, so 2x keeps the disk busy.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each input is processed.
type ProgressFunc func()

// DefaultWorkers returns the worker count used when none is configured.
func DefaultWorkers() int {
	return runtime.NumCPU() * DefaultWorkerMultiplier
}

// MapOrdered applies fn to every input with at most maxWorkers goroutines.
// Results keep the order of inputs. The first failure cancels the remaining
// work and is returned as a *ProcessingError; no partial results are returned.
// If maxWorkers is <= 0, DefaultWorkers is used; 1 processes inputs serially
// in order.
func MapOrdered[T any](
	ctx context.Context,
	inputs []string,
	maxWorkers int,
	fn func(ctx context.Context, name string) (T, error),
	onProgress ProgressFunc,
) ([]T, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if maxWorkers <= 0 {
		maxWorkers = DefaultWorkers()
	}

	results := make([]T, len(inputs))

	if maxWorkers == 1 {
		for i, name := range inputs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := fn(ctx, name)
			if err != nil {
				return nil, &ProcessingError{Name: name, Err: err}
			}
			results[i] = r
			if onProgress != nil {
				onProgress()
			}
		}
		return results, nil
	}

	p := pool.New().
		WithContext(ctx).
		WithMaxGoroutines(maxWorkers).
		WithCancelOnError().
		WithFirstError()
	for i, name := range inputs {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := fn(ctx, name)
			if err != nil {
				return &ProcessingError{Name: name, Err: err}
			}
			// Each goroutine owns a distinct slot.
			results[i] = r
			if onProgress != nil {
				onProgress()
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
