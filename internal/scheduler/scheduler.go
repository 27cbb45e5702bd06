package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/carrickvaughan/dropship-trends-app/internal/pipeline"
)

// Scheduler triggers periodic refresh cycles. One cycle runs to completion
// before the next fires; the pipeline serializes overlapping triggers.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *pipeline.Pipeline
	Ctx      context.Context

	markup   float64
	shipping float64
}

// NewScheduler creates a Scheduler running cycles with the configured
// pricing parameters.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline, markup, shipping float64) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pipeline: p,
		Ctx:      ctx,
		markup:   markup,
		shipping: shipping,
	}
}

// Register adds the periodic refresh task.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
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

// RunNow executes a refresh cycle immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running refresh cycle")
	batch := s.Pipeline.RunCycle(s.Ctx, s.markup, s.shipping)
	log.Printf("[INFO] refresh cycle complete: %d rows scored", len(batch))
}
