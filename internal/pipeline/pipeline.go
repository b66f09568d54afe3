package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/launch-data-etl/internal/domain"
	"github.com/couchcryptid/launch-data-etl/internal/observability"
)

// LaunchSource reads the API-origin table.
type LaunchSource interface {
	LoadLaunches(ctx context.Context) ([]domain.LaunchRecord, error)
}

// BoosterSource reads the wiki-origin table.
type BoosterSource interface {
	LoadBoosters(ctx context.Context) ([]domain.BoosterRecord, error)
}

// BatchLoader writes the reconciled table to a destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, records []domain.ReconciledRecord) error
}

// Pipeline runs one extract-transform-load pass over the two source tables.
type Pipeline struct {
	launches   LaunchSource
	boosters   BoosterSource
	reconciler *Reconciler
	loader     BatchLoader
	publisher  BatchLoader
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool
	lastRun    atomic.Pointer[RunSummary]
}

// RunSummary describes the most recent successful run.
type RunSummary struct {
	Stats      Stats         `json:"stats"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration_ns"`
}

// Option configures optional pipeline stages.
type Option func(*Pipeline)

// WithPublisher adds an event sink that receives the reconciled records after
// the primary loader has written them.
func WithPublisher(p BatchLoader) Option {
	return func(pl *Pipeline) { pl.publisher = p }
}

// New creates a Pipeline with the given stages and observability.
func New(ls LaunchSource, bs BoosterSource, r *Reconciler, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		launches:   ls,
		boosters:   bs,
		reconciler: r,
		loader:     l,
		logger:     logger,
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no reconciliation run has completed yet")
	}
	return nil
}

// LastRun returns the summary of the most recent successful run.
func (p *Pipeline) LastRun() (RunSummary, bool) {
	s := p.lastRun.Load()
	if s == nil {
		return RunSummary{}, false
	}
	return *s, true
}

// Run executes a single pass. Rows that fail date parsing or find no match
// are dropped and counted; schema and sink errors abort the run.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	p.logger.Info("pipeline started", "tolerance", p.reconciler.Tolerance().String())
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	launches, err := p.launches.LoadLaunches(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load launches: %w", err)
	}
	boosters, err := p.boosters.LoadBoosters(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load boosters: %w", err)
	}

	records, stats, err := p.reconciler.Transform(launches, boosters)
	if err != nil {
		return stats, fmt.Errorf("reconcile: %w", err)
	}
	p.observe(stats)

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if err := p.loader.LoadBatch(ctx, records); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(records))
		return stats, fmt.Errorf("write reconciled: %w", err)
	}
	if p.publisher != nil {
		if err := p.publisher.LoadBatch(ctx, records); err != nil {
			p.logger.Error("publish batch failed", "error", err, "batch_size", len(records))
			return stats, fmt.Errorf("publish reconciled: %w", err)
		}
		p.metrics.RecordsPublished.Add(float64(len(records)))
	}

	elapsed := time.Since(start)
	p.metrics.RunDuration.Observe(elapsed.Seconds())
	p.lastRun.Store(&RunSummary{Stats: stats, FinishedAt: time.Now().UTC(), Duration: elapsed})
	p.ready.Store(true)

	p.logger.Info("pipeline finished",
		"launch_rows", stats.LaunchRows,
		"booster_rows", stats.BoosterRows,
		"launch_parse_failures", stats.LaunchParseFailures,
		"booster_parse_failures", stats.BoosterParseFailures,
		"unmatched", stats.Unmatched,
		"reconciled", stats.Reconciled,
		"duration", elapsed.String(),
	)
	return stats, nil
}

func (p *Pipeline) observe(s Stats) {
	p.metrics.RowsRead.WithLabelValues("api").Add(float64(s.LaunchRows))
	p.metrics.RowsRead.WithLabelValues("wiki").Add(float64(s.BoosterRows))
	p.metrics.ParseFailures.WithLabelValues("api").Add(float64(s.LaunchParseFailures))
	p.metrics.ParseFailures.WithLabelValues("wiki").Add(float64(s.BoosterParseFailures))
	p.metrics.UnmatchedRows.Add(float64(s.Unmatched))
	p.metrics.RecordsProduced.Add(float64(s.Reconciled))
	p.metrics.CanonicalFallback.WithLabelValues("orbit").Add(float64(s.OrbitFallback))
	p.metrics.CanonicalFallback.WithLabelValues("launch_site").Add(float64(s.LaunchSiteFallback))

	if s.LaunchParseFailures > 0 || s.BoosterParseFailures > 0 {
		p.logger.Warn("rows dropped: unparseable date",
			"api", s.LaunchParseFailures, "wiki", s.BoosterParseFailures)
	}
	if s.Unmatched > 0 {
		p.logger.Info("rows dropped: no wiki record within tolerance", "count", s.Unmatched)
	}
}
