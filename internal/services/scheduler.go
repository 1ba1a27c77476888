package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSyncSchedule fires once per day at local midnight, after the
// previous day's provider data is finalized.
const DefaultSyncSchedule = "0 0 * * *"

// Scheduler owns the single recurring daily trigger. It is a long-lived
// instance with an explicit start/stop lifecycle, wired once in main.
type Scheduler struct {
	cron   *cron.Cron
	sync   *SyncService
	spec   string
	logger *zap.Logger
}

func NewScheduler(spec string, syncService *SyncService, location *time.Location, logger *zap.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultSyncSchedule
	}
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(location)),
		sync:   syncService,
		spec:   spec,
		logger: logger,
	}
}

func (scheduler *Scheduler) Start(ctx context.Context) error {
	if _, err := scheduler.cron.AddFunc(scheduler.spec, func() {
		scheduler.sync.SyncAllUsers(ctx)
	}); err != nil {
		return fmt.Errorf("register sync schedule %q: %w", scheduler.spec, err)
	}

	scheduler.cron.Start()
	scheduler.logger.Info("sync scheduler started", zap.String("schedule", scheduler.spec))

	go func() {
		<-ctx.Done()
		scheduler.Stop()
	}()
	return nil
}

// Stop halts the trigger; a batch run already in flight completes.
func (scheduler *Scheduler) Stop() {
	<-scheduler.cron.Stop().Done()
	scheduler.logger.Info("sync scheduler stopped")
}
