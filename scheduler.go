package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// startScheduler runs the background jobs: closing idle contact sessions and
// deleting tracking data past its retention.
func (a *app) startScheduler() (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc("@every 1m", func() {
		a.contacts.Sweep(a.cfg.SessionIdleTimeout)
	}); err != nil {
		return nil, err
	}

	// Daily at 03:30
	if _, err := c.AddFunc("30 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		a.cleanupOldVisitorData(ctx)
	}); err != nil {
		return nil, err
	}

	c.Start()
	a.log.Debug("scheduler started", zap.Int("jobs", len(c.Entries())))

	// Also run the retention cleanup once at boot.
	go a.cleanupOldVisitorData(context.Background())
	return c, nil
}
