package reminders

import (
	"context"
	"fmt"
	"time"

	"dently/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the reminder job in-process on a cron schedule, in
// addition to the external cron HTTP endpoint.
type Scheduler struct {
	cron    *cron.Cron
	service Service
	log     *logger.Logger
}

// NewScheduler creates a scheduler for the given cron spec.
func NewScheduler(service Service, spec string, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		service: service,
		log:     log,
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid reminder cron spec %q: %w", spec, err)
	}

	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.service.SendReminders(ctx); err != nil {
		s.log.WithError(err).Error("scheduled reminder run failed")
	}
}

// Start begins the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Reminder scheduler started")
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Reminder scheduler stopped")
}
