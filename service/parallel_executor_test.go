package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/qgrade/domain"
	"github.com/ludo-technologies/qgrade/internal/config"
)

// mockTask implements domain.ExecutableTask for testing
type mockTask struct {
	name     string
	enabled  bool
	execFunc func(ctx context.Context) (interface{}, error)
}

func (t *mockTask) Name() string { return t.name }

func (t *mockTask) Execute(ctx context.Context) (interface{}, error) {
	if t.execFunc != nil {
		return t.execFunc(ctx)
	}
	return nil, nil
}

func (t *mockTask) IsEnabled() bool { return t.enabled }

// countingProgress records increments
type countingProgress struct {
	NoOpProgressManager
	total     int
	increment atomic.Int64
	completed atomic.Bool
}

func (p *countingProgress) StartTask(_ string, total int) domain.TaskProgress {
	p.total = total
	return p
}

func (p *countingProgress) Increment(n int)   { p.increment.Add(int64(n)) }
func (p *countingProgress) Describe(_ string) {}
func (p *countingProgress) Complete()         { p.completed.Store(true) }

func TestNewParallelExecutorFromConfig(t *testing.T) {
	executor := NewParallelExecutorFromConfig(&config.PerformanceConfig{MaxGoroutines: 3, TimeoutSeconds: 7})
	assert.Equal(t, 3, executor.maxConcurrency)
	assert.Equal(t, 7*time.Second, executor.timeout)

	executor = NewParallelExecutorFromConfig(&config.PerformanceConfig{})
	assert.Equal(t, DefaultMaxConcurrency, executor.maxConcurrency)
	assert.Equal(t, DefaultTimeout, executor.timeout)

	executor = NewParallelExecutorFromConfig(nil)
	assert.Equal(t, DefaultMaxConcurrency, executor.maxConcurrency)

	assert.Positive(t, NewParallelExecutor().maxConcurrency)
}

func TestParallelExecutor_RunsEnabledTasksOnly(t *testing.T) {
	var ran atomic.Int64
	run := func(ctx context.Context) (interface{}, error) {
		ran.Add(1)
		return nil, nil
	}
	tasks := []domain.ExecutableTask{
		&mockTask{name: "a", enabled: true, execFunc: run},
		&mockTask{name: "b", enabled: false, execFunc: run},
		&mockTask{name: "c", enabled: true, execFunc: run},
	}
	progress := &countingProgress{}

	err := NewParallelExecutor().WithProgress(progress, "testing").Execute(context.Background(), tasks)

	require.NoError(t, err)
	assert.Equal(t, int64(2), ran.Load())
	assert.Equal(t, 2, progress.total)
	assert.Equal(t, int64(2), progress.increment.Load())
	assert.True(t, progress.completed.Load())
}

func TestParallelExecutor_NoTasks(t *testing.T) {
	assert.NoError(t, NewParallelExecutor().Execute(context.Background(), nil))
}

func TestParallelExecutor_FirstErrorStopsRun(t *testing.T) {
	boom := errors.New("boom")
	tasks := []domain.ExecutableTask{
		&mockTask{name: "broken", enabled: true, execFunc: func(ctx context.Context) (interface{}, error) {
			return nil, boom
		}},
		&mockTask{name: "slow", enabled: true, execFunc: func(ctx context.Context) (interface{}, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				return nil, nil
			}
		}},
	}

	start := time.Now()
	err := NewParallelExecutor().Execute(context.Background(), tasks)

	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second, "failure must cancel the remaining tasks")

	var taskErr TaskError
	require.True(t, errors.As(err, &taskErr))
	assert.Equal(t, "broken", taskErr.TaskName)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "[broken] boom", err.Error())
}

func TestParallelExecutor_RespectsConcurrencyLimit(t *testing.T) {
	var current, peak atomic.Int64
	tasks := make([]domain.ExecutableTask, 0, 12)
	for i := 0; i < 12; i++ {
		tasks = append(tasks, &mockTask{name: "t", enabled: true, execFunc: func(ctx context.Context) (interface{}, error) {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			current.Add(-1)
			return nil, nil
		}})
	}

	executor := NewParallelExecutorFromConfig(&config.PerformanceConfig{MaxGoroutines: 2})
	require.NoError(t, executor.Execute(context.Background(), tasks))

	assert.LessOrEqual(t, peak.Load(), int64(2))
}

func TestParallelExecutor_Timeout(t *testing.T) {
	executor := NewParallelExecutor()
	executor.timeout = 20 * time.Millisecond

	err := executor.Execute(context.Background(), []domain.ExecutableTask{
		&mockTask{name: "stuck", enabled: true, execFunc: func(ctx context.Context) (interface{}, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}},
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
