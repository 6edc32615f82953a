package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/trackly/tracker/internal/logging"
)

// Scheduler refreshes the dashboard snapshot on a cron schedule.
type Scheduler struct {
	svc     *DashboardService
	c       *cron.Cron
	timeout time.Duration
}

func NewScheduler(svc *DashboardService) *Scheduler {
	return &Scheduler{
		svc:     svc,
		c:       cron.New(cron.WithSeconds()),
		timeout: time.Minute,
	}
}

// Start registers the refresh job under spec (six fields, with seconds)
// and starts the cron runner.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.c.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("failed to create cron job: %w", err)
	}
	s.c.Start()
	logging.NewLogger(context.Background()).LogInfof("dashboard_scheduler", "started spec=%q", spec)
	return nil
}

// Stop halts the runner and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(logging.WithRequestID(context.Background(), "cron"), s.timeout)
	defer cancel()

	log := logging.NewLogger(ctx)
	start := time.Now()
	n, err := s.svc.Refresh(ctx)
	if err != nil {
		log.LogErrorf("dashboard_refresh", "error=%v", err)
		return
	}
	log.LogInfof("dashboard_refresh", "users=%d took=%s", n, time.Since(start).Round(time.Millisecond))
}
