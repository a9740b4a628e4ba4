package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// ReminderSender emails leads that are still New after afterDays days
type ReminderSender interface {
	SendReminders(ctx context.Context, afterDays int) (int, error)
}

// CronManager manages scheduled jobs
type CronManager struct {
	cron      *cron.Cron
	reminders ReminderSender
	monitor   *PipelineMonitor
	schedule  string
	afterDays int
	logger    *log.Logger
}

// NewCronManager creates a cron manager evaluating schedules in loc
func NewCronManager(reminders ReminderSender, monitor *PipelineMonitor, schedule string, afterDays int, loc *time.Location, logger *log.Logger) *CronManager {
	if logger == nil {
		logger = log.Default()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &CronManager{
		cron:      cron.New(cron.WithLocation(loc)),
		reminders: reminders,
		monitor:   monitor,
		schedule:  schedule,
		afterDays: afterDays,
		logger:    logger,
	}
}

// SetupJobs configures all scheduled jobs
func (cm *CronManager) SetupJobs() error {
	cm.logger.Println("Setting up cron jobs...")

	if _, err := cm.cron.AddFunc(cm.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		cm.RunReminders(ctx)
	}); err != nil {
		return err
	}

	if cm.monitor != nil {
		// Every 15 minutes: refresh pipeline gauges
		if _, err := cm.cron.AddFunc("*/15 * * * *", func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			cm.RunPipelineStats(ctx)
		}); err != nil {
			return err
		}
	}

	cm.logger.Printf("✅ Cron jobs configured (%d jobs)", len(cm.cron.Entries()))
	return nil
}

// RunReminders sends the reminder emails once
func (cm *CronManager) RunReminders(ctx context.Context) int {
	cm.logger.Println("🕐 Running reminder email job...")

	sent, err := cm.reminders.SendReminders(ctx, cm.afterDays)
	if err != nil {
		cm.logger.Printf("❌ Reminder job failed after %d emails: %v", sent, err)
		return sent
	}

	cm.logger.Printf("✅ Reminder job completed (%d emails sent)", sent)
	return sent
}

// RunPipelineStats logs pipeline statistics once
func (cm *CronManager) RunPipelineStats(ctx context.Context) {
	stats, err := cm.monitor.CollectStats(ctx)
	if err != nil {
		cm.logger.Printf("❌ Failed to get pipeline stats: %v", err)
		return
	}

	cm.logger.Printf("📊 Pipeline: %d leads, %d still New after %d days, by status %v",
		stats.TotalLeads, stats.StaleNew, cm.afterDays, stats.ByStatus)
}

// Start starts the cron scheduler
func (cm *CronManager) Start() {
	cm.logger.Println("Starting cron scheduler...")
	cm.cron.Start()
}

// Stop stops the scheduler; the returned context is done once running
// jobs have finished.
func (cm *CronManager) Stop() context.Context {
	cm.logger.Println("Stopping cron scheduler...")
	return cm.cron.Stop()
}
