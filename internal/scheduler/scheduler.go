package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-advisory/internal/advisory"
)

// Warmer periodically refreshes the result cache so dashboard requests
// hit a warm payload. It reuses the aggregator's refresh path, so error
// outcomes are still never cached. Disabled when interval is zero; the
// service works fine without it since cache expiry is checked lazily.
type Warmer struct {
	scheduler *gocron.Scheduler
	service   *advisory.Service
	interval  time.Duration
}

// New creates a new Warmer.
func New(interval time.Duration, service *advisory.Service) *Warmer {
	s := gocron.NewScheduler(time.UTC)
	return &Warmer{
		scheduler: s,
		service:   service,
		interval:  interval,
	}
}

// Start schedules the periodic refresh and starts the underlying scheduler.
func (w *Warmer) Start() error {
	if w.interval <= 0 {
		log.Println("warmer: cache warming disabled")
		return nil
	}

	_, err := w.scheduler.Every(w.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := w.service.Refresh(ctx); err != nil {
			if errors.Is(err, advisory.ErrNotConfigured) {
				log.Println("warmer: skipping refresh, no upstream credential")
				return
			}
			log.Printf("warmer: refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	w.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (w *Warmer) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}
