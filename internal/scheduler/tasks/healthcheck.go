package tasks

import (
	"context"

	"github.com/absolutecinema/absolutecinema/internal/scheduler"
)

const (
	HealthCheckTaskID = "health-check"
	DefaultHealthCron = "*/5 * * * *"
)

// HealthChecker checks every registered component.
type HealthChecker interface {
	CheckAll(ctx context.Context) error
}

// RegisterHealthCheckTask registers the periodic component health check.
func RegisterHealthCheckTask(sched *scheduler.Scheduler, checker HealthChecker) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          HealthCheckTaskID,
		Name:        "Health Check",
		Description: "Probes the cache database and the remote catalog",
		Cron:        DefaultHealthCron,
		RunOnStart:  true,
		Func:        checker.CheckAll,
	})
}
