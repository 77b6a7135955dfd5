package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absolutecinema/absolutecinema/internal/testutil"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := New(testutil.NopLogger())
	require.NoError(t, err)
	return s
}

func TestRegisterTask(t *testing.T) {
	s := newTestScheduler(t)
	defer s.Stop()

	noop := func(context.Context) error { return nil }

	require.NoError(t, s.RegisterTask(TaskConfig{ID: "b", Name: "B", Cron: "0 * * * *", Func: noop}))
	require.NoError(t, s.RegisterTask(TaskConfig{ID: "a", Name: "A", Cron: "*/5 * * * *", Func: noop}))

	err := s.RegisterTask(TaskConfig{ID: "a", Name: "A", Cron: "0 * * * *", Func: noop})
	assert.ErrorIs(t, err, ErrTaskRegistered)

	assert.Error(t, s.RegisterTask(TaskConfig{ID: "c", Cron: "not a cron", Func: noop}))
	assert.Error(t, s.RegisterTask(TaskConfig{ID: "d", Cron: "0 * * * *"}))

	tasks := s.ListTasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "b", tasks[1].ID)
}

func TestRunNow(t *testing.T) {
	s := newTestScheduler(t)
	defer s.Stop()

	release := make(chan struct{})
	var runs atomic.Int32
	boom := errors.New("boom")

	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "slow",
		Name: "Slow",
		Cron: "0 0 1 1 *",
		Func: func(ctx context.Context) error {
			runs.Add(1)
			<-release
			return boom
		},
	}))
	require.NoError(t, s.Start())

	require.NoError(t, s.RunNow("slow"))
	assert.ErrorIs(t, s.RunNow("slow"), ErrTaskRunning)
	assert.ErrorIs(t, s.RunNow("missing"), ErrTaskNotFound)

	info, err := s.GetTask("slow")
	require.NoError(t, err)
	assert.True(t, info.Running)

	close(release)
	require.Eventually(t, func() bool {
		info, err := s.GetTask("slow")
		return err == nil && !info.Running && info.LastRun != nil
	}, time.Second, 10*time.Millisecond)

	info, err = s.GetTask("slow")
	require.NoError(t, err)
	assert.Equal(t, "boom", info.LastError)
	assert.Equal(t, int32(1), runs.Load())
}

func TestStart_RunOnStart(t *testing.T) {
	s := newTestScheduler(t)
	defer s.Stop()

	ran := make(chan struct{}, 1)
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:         "boot",
		Name:       "Boot",
		Cron:       "0 0 1 1 *",
		RunOnStart: true,
		Func: func(context.Context) error {
			ran <- struct{}{}
			return nil
		},
	}))
	require.NoError(t, s.Start())

	testutil.Receive[struct{}](t, ran, time.Second)
}

func TestStop_CancelsRunningTasks(t *testing.T) {
	s := newTestScheduler(t)

	started := make(chan struct{})
	var cancelled atomic.Bool
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "long",
		Name: "Long",
		Cron: "0 0 1 1 *",
		Func: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			cancelled.Store(true)
			return ctx.Err()
		},
	}))
	require.NoError(t, s.Start())
	require.NoError(t, s.RunNow("long"))
	<-started

	require.NoError(t, s.Stop())
	assert.True(t, cancelled.Load())
	assert.ErrorIs(t, s.RunNow("long"), ErrStopped)
}
