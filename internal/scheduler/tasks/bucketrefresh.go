package tasks

import (
	"context"

	"github.com/absolutecinema/absolutecinema/internal/config"
	"github.com/absolutecinema/absolutecinema/internal/scheduler"
)

const BucketRefreshTaskID = "bucket-refresh"

// BucketRefresher refreshes every recommendation bucket.
type BucketRefresher interface {
	RefreshAll(ctx context.Context) error
}

// RegisterBucketRefreshTask registers the recommendation bucket refresh task with the scheduler.
// The task runs on the configured cron, every six hours by default.
func RegisterBucketRefreshTask(sched *scheduler.Scheduler, refresher BucketRefresher, cfg config.BucketsConfig) error {
	cron := cfg.RefreshCron
	if cron == "" {
		cron = config.Default().Buckets.RefreshCron
	}

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          BucketRefreshTaskID,
		Name:        "Recommendation Refresh",
		Description: "Replaces every recommendation bucket with fresh catalog results",
		Cron:        cron,
		RunOnStart:  cfg.RunOnStart,
		Func:        refresher.RefreshAll,
	})
}
