package scheduler

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopTask(context.Context) error { return nil }

func TestNewSchedulerNotRunning(t *testing.T) {
	s := NewScheduler(slog.Default())
	assert.False(t, s.IsRunning())
	assert.Empty(t, s.ListTasks())
}

func TestAddTask(t *testing.T) {
	s := NewScheduler(slog.Default())

	err := s.AddTask("sweep", "@every 1h", noopTask)
	require.NoError(t, err)
	assert.Equal(t, []string{"sweep"}, s.ListTasks())
}

func TestAddTaskReplacesExisting(t *testing.T) {
	s := NewScheduler(slog.Default())

	require.NoError(t, s.AddTask("sweep", "@every 1h", noopTask))
	require.NoError(t, s.AddTask("sweep", "@every 2h", noopTask))
	assert.Len(t, s.ListTasks(), 1)
}

func TestAddTaskInvalidSpec(t *testing.T) {
	s := NewScheduler(slog.Default())

	err := s.AddTask("sweep", "not a cron spec", noopTask)
	assert.Error(t, err)
	assert.Empty(t, s.ListTasks())
}

func TestRemoveTask(t *testing.T) {
	s := NewScheduler(slog.Default())

	require.NoError(t, s.AddTask("sweep", "@every 1h", noopTask))
	s.RemoveTask("sweep")
	assert.Empty(t, s.ListTasks())

	// Removing an unknown task is a no-op.
	s.RemoveTask("missing")
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(slog.Default())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	// Start is idempotent.
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Stop(context.Background()))
	assert.False(t, s.IsRunning())
}
