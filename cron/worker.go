package cron

import (
	"context"
	"fmt"
	"time"

	cronlib "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Roller runs the past-slot rollover against the reference clock.
type Roller interface {
	RunNow(ctx context.Context) error
}

// InitRolloverWorker schedules roller on spec (standard five-field cron) in
// loc. It complements the rollover triggered by every week view load.
// The returned scheduler is already running; Stop it on shutdown.
func InitRolloverWorker(spec string, loc *time.Location, roller Roller, timeout time.Duration, logger *zap.Logger) (*cronlib.Cron, error) {
	c := cronlib.New(
		cronlib.WithLocation(loc),
		cronlib.WithChain(cronlib.SkipIfStillRunning(cronlib.DiscardLogger), cronlib.Recover(cronlib.DiscardLogger)),
	)

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		logger.Info("[RolloverWorker] running scheduled rollover")
		if err := roller.RunNow(ctx); err != nil {
			logger.Error("[RolloverWorker] scheduled rollover failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid ROLLOVER_CRON %q: %w", spec, err)
	}

	c.Start()
	logger.Info("[RolloverWorker] started", zap.String("schedule", spec), zap.String("timezone", loc.String()))
	return c, nil
}
