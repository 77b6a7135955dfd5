package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absolutecinema/absolutecinema/internal/scheduler"
	"github.com/absolutecinema/absolutecinema/internal/testutil"
)

type countingChecker struct {
	calls chan struct{}
}

func (c *countingChecker) CheckAll(context.Context) error {
	c.calls <- struct{}{}
	return nil
}

func TestRegisterHealthCheckTask(t *testing.T) {
	sched, err := scheduler.New(testutil.NopLogger())
	require.NoError(t, err)
	defer sched.Stop()

	checker := &countingChecker{calls: make(chan struct{}, 4)}
	require.NoError(t, RegisterHealthCheckTask(sched, checker))

	info, err := sched.GetTask(HealthCheckTaskID)
	require.NoError(t, err)
	assert.Equal(t, DefaultHealthCron, info.Cron)

	require.NoError(t, sched.Start())
	testutil.Receive[struct{}](t, checker.calls, time.Second)
}
