// Package sched runs the screening pipeline on a recurring schedule, for the
// after-close daily review.
package sched

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron runner with seconds-resolution expressions.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

// New creates a stopped Scheduler.
func New(log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log,
	}
}

// Add registers job to run on the given cron expression.
func (s *Scheduler) Add(spec string, job func()) error {
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("registering schedule %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron runner.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron runner gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}
