// Package scheduler runs ingestion on a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"claimdesk/internal/model"
)

// Runner runs one ingestion pass.
type Runner interface {
	Run(ctx context.Context, sources []string) (model.IngestResult, error)
}

// Reporter is notified after every pass.
type Reporter interface {
	ReportIngest(res model.IngestResult, err error)
}

// Scheduler periodically ingests the configured feeds.
type Scheduler struct {
	runner   Runner
	sources  []string
	reporter Reporter
	log      *slog.Logger
	tick     time.Duration
}

// New creates a Scheduler with a 15-minute interval. reporter may be nil.
func New(runner Runner, sources []string, reporter Reporter, log *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		sources:  sources,
		reporter: reporter,
		log:      log,
		tick:     15 * time.Minute,
	}
}

// SetTickInterval overrides the default interval.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	s.tick = d
}

// Run ingests immediately and then on every tick, blocking until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	res, err := s.runner.Run(ctx, s.sources)
	if err != nil {
		s.log.Error("scheduled ingest", "error", err, "scanned", res.Scanned, "inserted", res.Inserted)
	} else {
		s.log.Info("scheduled ingest", "scanned", res.Scanned, "inserted", res.Inserted, "duration", time.Since(start))
	}

	if s.reporter != nil {
		s.reporter.ReportIngest(res, err)
	}
}
