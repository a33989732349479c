package advisory

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-advisory/internal/cache"
	"github.com/i474232898/weather-advisory/internal/ratelimit"
	"github.com/i474232898/weather-advisory/internal/registry"
	"github.com/i474232898/weather-advisory/internal/upstream"
)

var (
	// ErrNotConfigured is returned when no upstream credential is set.
	ErrNotConfigured = errors.New("no upstream credential configured")

	// ErrAllLocationsFailed is returned when every location fetch failed.
	ErrAllLocationsFailed = errors.New("all location fetches failed")
)

// advisoryWindow is how far into the future an alert start may lie and
// still be included in the output.
const advisoryWindow = 7 * 24 * time.Hour

// Config carries the aggregator's tunables.
type Config struct {
	CacheTTL      time.Duration
	RateLimit     int
	RateWindow    time.Duration
	FetchTimeout  time.Duration
	HasCredential bool
}

// Service orchestrates the rate limiter and result cache around a
// concurrent fan-out over the location registry. It owns both pieces of
// mutable state; nothing else touches them.
type Service struct {
	registry *registry.Registry
	fetcher  upstream.Fetcher
	cache    *cache.Cache[*Payload]
	limiter  *ratelimit.Limiter

	fetchTimeout  time.Duration
	hasCredential bool
	now           func() time.Time
}

// NewService creates a Service with its own cache slot and limiter state.
func NewService(reg *registry.Registry, fetcher upstream.Fetcher, cfg Config) *Service {
	return &Service{
		registry:      reg,
		fetcher:       fetcher,
		cache:         cache.New[*Payload](cfg.CacheTTL),
		limiter:       ratelimit.New(cfg.RateLimit, cfg.RateWindow),
		fetchTimeout:  cfg.FetchTimeout,
		hasCredential: cfg.HasCredential,
		now:           time.Now,
	}
}

// Admit runs the rate-limit admission check for one caller key.
func (s *Service) Admit(callerKey string) ratelimit.Decision {
	return s.limiter.Admit(callerKey)
}

// RateLimit returns the per-window admission threshold for response metadata.
func (s *Service) RateLimit() int {
	return s.limiter.Limit()
}

// Advisories returns the current payload, serving from the cache when a
// fresh entry exists and rebuilding otherwise.
func (s *Service) Advisories(ctx context.Context) (payload *Payload, age time.Duration, cached bool, err error) {
	if p, age, ok := s.cache.Get(); ok {
		return p, age, true, nil
	}

	p, err := s.Refresh(ctx)
	return p, 0, false, err
}

// Refresh runs one aggregation pass: fetch every location concurrently,
// classify and filter alerts, build forecasts, sort, and cache the result.
// Error outcomes are never cached.
func (s *Service) Refresh(ctx context.Context) (*Payload, error) {
	if !s.hasCredential {
		return nil, ErrNotConfigured
	}

	now := s.now().UTC()
	horizon := now.Add(advisoryWindow)

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		succeeded  int
		advisories = make(map[string]Advisory)
		forecasts  []ForecastBundle
	)

	for _, loc := range s.registry.Locations() {
		wg.Add(1)
		go func(loc registry.Location) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
			defer cancel()

			report, err := s.fetcher.Fetch(fetchCtx, loc)
			if err != nil {
				// Log and continue; a single location must not fail the batch.
				log.Printf("advisory: fetch failed for %s: %v", loc.Name, err)
				return
			}

			mu.Lock()
			defer mu.Unlock()
			succeeded++

			for _, raw := range report.Alerts {
				end := time.Unix(raw.End, 0).UTC()
				start := time.Unix(raw.Start, 0).UTC()
				if !end.After(now) || !start.Before(horizon) {
					continue
				}
				advisories[AlertKey(raw, loc)] = Classify(raw, loc)
			}

			if len(report.Daily) > 0 {
				forecasts = append(forecasts, BuildForecast(report.Current, report.Daily, loc))
			}
		}(loc)
	}

	wg.Wait()

	if succeeded == 0 {
		return nil, ErrAllLocationsFailed
	}

	sorted := make([]Advisory, 0, len(advisories))
	for _, a := range advisories {
		sorted = append(sorted, a)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].StartTime.Equal(sorted[j].StartTime) {
			return sorted[i].StartTime.Before(sorted[j].StartTime)
		}
		return sorted[i].Location < sorted[j].Location
	})

	sort.Slice(forecasts, func(i, j int) bool {
		return forecasts[i].Location < forecasts[j].Location
	})
	if forecasts == nil {
		forecasts = []ForecastBundle{}
	}

	payload := &Payload{
		Advisories:       sorted,
		Forecasts:        forecasts,
		GeneratedAt:      now,
		LocationsChecked: s.registry.Len(),
	}

	s.cache.Put(payload)
	return payload, nil
}
