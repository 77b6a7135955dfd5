package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absolutecinema/absolutecinema/internal/config"
	"github.com/absolutecinema/absolutecinema/internal/scheduler"
	"github.com/absolutecinema/absolutecinema/internal/testutil"
)

type countingRefresher struct {
	calls chan struct{}
}

func (r *countingRefresher) RefreshAll(context.Context) error {
	r.calls <- struct{}{}
	return nil
}

func TestRegisterBucketRefreshTask(t *testing.T) {
	sched, err := scheduler.New(testutil.NopLogger())
	require.NoError(t, err)
	defer sched.Stop()

	refresher := &countingRefresher{calls: make(chan struct{}, 4)}
	require.NoError(t, RegisterBucketRefreshTask(sched, refresher, config.BucketsConfig{RunOnStart: true}))

	info, err := sched.GetTask(BucketRefreshTaskID)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Buckets.RefreshCron, info.Cron)

	require.NoError(t, sched.Start())
	testutil.Receive[struct{}](t, refresher.calls, time.Second)
}

func TestRegisterBucketRefreshTask_CustomCron(t *testing.T) {
	sched, err := scheduler.New(testutil.NopLogger())
	require.NoError(t, err)
	defer sched.Stop()

	refresher := &countingRefresher{calls: make(chan struct{}, 1)}
	require.NoError(t, RegisterBucketRefreshTask(sched, refresher, config.BucketsConfig{RefreshCron: "30 3 * * *"}))

	info, err := sched.GetTask(BucketRefreshTaskID)
	require.NoError(t, err)
	assert.Equal(t, "30 3 * * *", info.Cron)

	require.NoError(t, sched.Start())
	require.Eventually(t, func() bool {
		info, err := sched.GetTask(BucketRefreshTaskID)
		return err == nil && info.NextRun != nil
	}, time.Second, 10*time.Millisecond)
}
