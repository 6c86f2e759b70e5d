package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// defaultToolTimeout bounds each tool invocation. A tool that overruns is
// reported as an error string for that tool only.
const defaultToolTimeout = 60 * time.Second

// Executor runs selected tools in parallel on a bounded worker pool and
// collects their results keyed by tool name. Partial failure is tolerated:
// a failing or timed-out tool contributes an error string, never aborting
// its siblings.
type Executor struct {
	pool    *ants.Pool
	timeout time.Duration
	logger  *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor) error

// WithToolTimeout sets the per-tool timeout.
// Default is 60 seconds.
func WithToolTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) error {
		if timeout > 0 {
			e.timeout = timeout
		}
		return nil
	}
}

// NewExecutor creates an executor with a worker pool of the given size.
func NewExecutor(poolSize int, opts ...ExecutorOption) (*Executor, error) {
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Executor{
		pool:    pool,
		timeout: defaultToolTimeout,
		logger:  slog.Default().With("component", "tool-executor"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			pool.Release()
			return nil, err
		}
	}
	return e, nil
}

// Close releases the worker pool.
func (e *Executor) Close() error {
	e.pool.Release()
	return nil
}

// Execute runs every tool against the input and returns results keyed by
// tool name. Callers must not assume any ordering between tools.
func (e *Executor) Execute(ctx context.Context, tools []Tool, input ToolInput) map[string]string {
	results := make(map[string]string, len(tools))
	if len(tools) == 0 {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, tool := range tools {
		tool := tool
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()

			toolCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			result, err := e.invokeOne(toolCtx, tool, input)

			mu.Lock()
			results[tool.Name()] = result
			mu.Unlock()

			if err != nil {
				e.logger.Warn("tool execution failed", "tool", tool.Name(), "err", err)
			}
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			results[tool.Name()] = fmt.Sprintf("Error executing %s: %v", tool.Name(), err)
			mu.Unlock()
		}
	}

	wg.Wait()
	return results
}

// invokeOne runs a single tool, converting timeouts and failures into
// error strings.
func (e *Executor) invokeOne(ctx context.Context, tool Tool, input ToolInput) (string, error) {
	type outcome struct {
		result string
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		result, err := tool.Invoke(ctx, input)
		done <- outcome{result, err}
	}()

	select {
	case <-ctx.Done():
		err := ctx.Err()
		if err == context.DeadlineExceeded {
			return fmt.Sprintf("Error: tool %s timed out after %s", tool.Name(), e.timeout), err
		}
		return fmt.Sprintf("Error executing %s: %v", tool.Name(), err), err
	case out := <-done:
		if out.err != nil {
			return fmt.Sprintf("Error executing %s: %v", tool.Name(), out.err), out.err
		}
		return out.result, nil
	}
}
