package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StatusRefresher recomputes stored tournament and stage statuses from
// their dates and reports how many rows changed.
type StatusRefresher interface {
	RefreshStatuses(ctx context.Context) (int, error)
}

// StartStatusSweep runs refresher once right away and then every interval.
// Runs never overlap; a slow sweep pushes the next one back. The caller
// owns the returned scheduler and must Shutdown it.
func StartStatusSweep(ctx context.Context, refresher StatusRefresher, interval time.Duration, logger *slog.Logger) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			sweepOnce(ctx, refresher, logger)
		}),
		gocron.WithName("status-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("register status sweep: %w", err)
	}

	sched.Start()
	logger.Info("status sweep started", slog.Duration("interval", interval))
	return sched, nil
}

func sweepOnce(ctx context.Context, refresher StatusRefresher, logger *slog.Logger) {
	if ctx.Err() != nil {
		return
	}
	changed, err := refresher.RefreshStatuses(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "status sweep failed", slog.Any("error", err))
		return
	}
	if changed > 0 {
		logger.InfoContext(ctx, "status sweep updated rows", slog.Int("changed", changed))
		return
	}
	logger.DebugContext(ctx, "status sweep found nothing to change")
}
