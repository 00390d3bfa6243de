package task

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"datalens/internal/classify"
	"datalens/internal/errors"
)

// Kind names a supported transform
type Kind string

const (
	// KindClean coerces a raw string array to numbers, dropping entries
	// that do not parse as finite numbers.
	KindClean Kind = "clean"
	// KindMultiply computes the elementwise product of two equal-length arrays
	KindMultiply Kind = "multiply"
	// KindSubtract computes the elementwise difference of two equal-length arrays
	KindSubtract Kind = "subtract"
)

// Task is one transform request. Raw feeds clean tasks; A and B feed the
// elementwise compute tasks.
type Task struct {
	Kind Kind
	Raw  []string
	A, B []float64
}

// Result carries a finished transform or its failure
type Result struct {
	Values []float64
	Err    error
}

// WeightedSemaphore throttles concurrent transforms by cost so one huge
// array cannot starve every other request sharing the process. Costs above
// the total capacity are clamped so an oversized task can still run alone.
// Waiters are cancellable through their context and a cancelled waiter
// leaves no capacity held behind.
type WeightedSemaphore struct {
	maxCapacity int64
	sem         *semaphore.Weighted
}

// NewWeightedSemaphore creates a semaphore with total capacity
func NewWeightedSemaphore(capacity int) *WeightedSemaphore {
	c := int64(capacity)
	return &WeightedSemaphore{maxCapacity: c, sem: semaphore.NewWeighted(c)}
}

// Acquire blocks until cost units are available or the context ends
func (ws *WeightedSemaphore) Acquire(ctx context.Context, cost int) error {
	if err := ws.sem.Acquire(ctx, ws.clamp(cost)); err != nil {
		return fmt.Errorf("waiting for transform capacity: %w", err)
	}
	return nil
}

// Release returns capacity to the semaphore. The cost must match the
// amount passed to the corresponding Acquire.
func (ws *WeightedSemaphore) Release(cost int) {
	ws.sem.Release(ws.clamp(cost))
}

func (ws *WeightedSemaphore) clamp(cost int) int64 {
	c := int64(cost)
	if c > ws.maxCapacity {
		c = ws.maxCapacity
	}
	if c < 1 {
		c = 1
	}
	return c
}

// Runner executes pure numeric transforms off the caller's goroutine. A
// failed transform fails only the request that submitted it; the runner
// itself carries no per-request state.
type Runner struct {
	semaphore *WeightedSemaphore
}

// NewRunner creates a runner with the given total capacity
func NewRunner(capacity int) *Runner {
	if capacity <= 0 {
		capacity = 8
	}
	return &Runner{semaphore: NewWeightedSemaphore(capacity)}
}

// Run dispatches one transform and returns immediately; the channel yields
// the single result when the transform finishes.
func (r *Runner) Run(ctx context.Context, t Task) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		cost := taskCost(t)
		if err := r.semaphore.Acquire(ctx, cost); err != nil {
			out <- Result{Err: errors.TransformFailure(string(t.Kind), err)}
			return
		}
		defer r.semaphore.Release(cost)

		values, err := execute(t)
		if err != nil {
			out <- Result{Err: errors.TransformFailure(string(t.Kind), err)}
			return
		}
		out <- Result{Values: values}
	}()
	return out
}

// RunAll dispatches independent transforms concurrently and waits for all of
// them. The first failure cancels the rest and is returned to the caller.
func (r *Runner) RunAll(ctx context.Context, tasks []Task) ([][]float64, error) {
	results := make([][]float64, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tasks {
		g.Go(func() error {
			res := <-r.Run(gctx, t)
			if res.Err != nil {
				return res.Err
			}
			results[i] = res.Values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// taskCost weighs a transform by input size so large arrays hold more of
// the shared capacity while they run.
func taskCost(t Task) int {
	n := len(t.Raw)
	if len(t.A) > n {
		n = len(t.A)
	}
	switch {
	case n > 100000:
		return 4
	case n > 10000:
		return 2
	default:
		return 1
	}
}

func execute(t Task) ([]float64, error) {
	switch t.Kind {
	case KindClean:
		out := make([]float64, 0, len(t.Raw))
		for _, raw := range t.Raw {
			if v, ok := classify.ParseNumber(raw); ok {
				out = append(out, v)
			}
		}
		return out, nil
	case KindMultiply:
		return elementwise(t.A, t.B, func(a, b float64) float64 { return a * b })
	case KindSubtract:
		return elementwise(t.A, t.B, func(a, b float64) float64 { return a - b })
	default:
		return nil, fmt.Errorf("unsupported transform kind %q", t.Kind)
	}
}

func elementwise(a, b []float64, op func(float64, float64) float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("array length mismatch: %d vs %d", len(a), len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = op(a[i], b[i])
	}
	return out, nil
}
