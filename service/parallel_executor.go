package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/qgrade/domain"
	"github.com/ludo-technologies/qgrade/internal/config"
)

// Fallbacks for unset performance settings
const (
	DefaultMaxConcurrency = 4
	DefaultTimeout        = time.Minute
)

// TaskError names the task that stopped a run
type TaskError struct {
	TaskName string
	Err      error
}

func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

func (e TaskError) Unwrap() error {
	return e.Err
}

// ParallelExecutorImpl runs tasks on a bounded errgroup. The first failing
// task cancels the rest and its error is returned.
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
	progress       domain.ProgressManager
	description    string
}

// NewParallelExecutor uses one goroutine per CPU and the default timeout
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.NumCPU(),
		timeout:        DefaultTimeout,
	}
}

// NewParallelExecutorFromConfig applies performance settings, falling back
// to defaults for zero values
func NewParallelExecutorFromConfig(cfg *config.PerformanceConfig) *ParallelExecutorImpl {
	executor := &ParallelExecutorImpl{
		maxConcurrency: DefaultMaxConcurrency,
		timeout:        DefaultTimeout,
	}
	if cfg == nil {
		return executor
	}
	if cfg.MaxGoroutines > 0 {
		executor.maxConcurrency = cfg.MaxGoroutines
	}
	if cfg.TimeoutSeconds > 0 {
		executor.timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return executor
}

// WithProgress reports one step per finished task under description
func (e *ParallelExecutorImpl) WithProgress(pm domain.ProgressManager, description string) *ParallelExecutorImpl {
	e.progress = pm
	e.description = description
	return e
}

// Execute runs the enabled tasks and waits for them
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	enabled := make([]domain.ExecutableTask, 0, len(tasks))
	for _, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var progress domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		progress = e.progress.StartTask(e.description, len(enabled))
	}
	defer progress.Complete()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrency)

	for _, t := range enabled {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			if _, err := t.Execute(gCtx); err != nil {
				return TaskError{TaskName: t.Name(), Err: err}
			}
			progress.Increment(1)
			return nil
		})
	}

	return g.Wait()
}
