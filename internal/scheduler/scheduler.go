package scheduler

import (
	"fmt"
	"log"
	"time"

	"FuturesSentinel/internal/monitor"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the day and night cron tasks.
type Scheduler struct {
	Cron    *cron.Cron
	Monitor *monitor.Monitor
	Loc     *time.Location
}

// NewScheduler creates a new Scheduler in the given location.
func NewScheduler(loc *time.Location, m *monitor.Monitor) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Monitor: m,
		Loc:     loc,
	}
}

// RegisterAll registers the day and night session tasks.
func (s *Scheduler) RegisterAll(dayCron, nightCron string) error {
	if _, err := s.Cron.AddFunc(dayCron, func() { s.run("day") }); err != nil {
		return fmt.Errorf("register day task: %w", err)
	}
	if _, err := s.Cron.AddFunc(nightCron, func() { s.run("night") }); err != nil {
		return fmt.Errorf("register night task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one evaluation immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.run("manual")
}

func (s *Scheduler) run(trigger string) {
	log.Printf("[INFO] running %s task", trigger)
	if err := s.Monitor.Run(time.Now().In(s.Loc)); err != nil {
		log.Printf("[ERROR] %s task: %v", trigger, err)
	}
}
