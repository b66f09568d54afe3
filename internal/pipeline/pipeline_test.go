package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/launch-data-etl/internal/domain"
	"github.com/couchcryptid/launch-data-etl/internal/observability"
	"github.com/couchcryptid/launch-data-etl/internal/pipeline"
)

// --- mocks ---

type mockLaunches struct {
	records []domain.LaunchRecord
	err     error
}

func (m *mockLaunches) LoadLaunches(_ context.Context) ([]domain.LaunchRecord, error) {
	return m.records, m.err
}

type mockBoosters struct {
	records []domain.BoosterRecord
	err     error
}

func (m *mockBoosters) LoadBoosters(_ context.Context) ([]domain.BoosterRecord, error) {
	return m.records, m.err
}

type mockLoader struct {
	loaded []domain.ReconciledRecord
	calls  int
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, records []domain.ReconciledRecord) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, records...)
	return nil
}

func newTestMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func strPtr(s string) *string { return &s }

// --- fixtures ---

func launchFixture() []domain.LaunchRecord {
	return []domain.LaunchRecord{
		{MissionName: "CRS-1", LaunchDate: "2012-10-08T00:35:00Z", RocketName: "Falcon 9",
			Orbit: strPtr("ISS"), LaunchSite: strPtr("CCSFS SLC 40"), LandingSuccess: "True"},
		{MissionName: "FalconSat", LaunchDate: "2006-03-24T22:30:00Z", RocketName: "Falcon 1",
			Orbit: strPtr("LEO"), LandingSuccess: nil},
		{MissionName: "Broken", LaunchDate: "yesterday"},
		{MissionName: "Starlink-1", LaunchDate: "2019-11-11T14:56:00Z", RocketName: "Falcon 9",
			Orbit: strPtr("VLEO"), LaunchSite: strPtr("CCSFS SLC 40"), LandingSuccess: false},
	}
}

func boosterFixture() []domain.BoosterRecord {
	return []domain.BoosterRecord{
		{Date: "11 November 201914:56[6]", BoosterVersion: "F9 B5 B1048.4", LaunchSite: "CCAFS", Orbit: ""},
		{Date: "8 October 201200:35", BoosterVersion: "F9 v1.0B0006", LaunchSite: "CCAFS", Orbit: "LEO (ISS)"},
		{Date: "TBD", BoosterVersion: "F9 B5"},
	}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	ldr := &mockLoader{}
	metrics := newTestMetrics()
	p := pipeline.New(
		&mockLaunches{records: launchFixture()},
		&mockBoosters{records: boosterFixture()},
		pipeline.NewReconciler(domain.DefaultTolerance),
		ldr, slog.Default(), metrics,
	)

	require.Error(t, p.CheckReadiness(context.Background()))
	_, ok := p.LastRun()
	require.False(t, ok)

	stats, err := p.Run(context.Background())
	require.NoError(t, err)

	want := pipeline.Stats{
		LaunchRows:           4,
		BoosterRows:          3,
		LaunchParseFailures:  1,
		BoosterParseFailures: 1,
		Unmatched:            1,
		Reconciled:           2,
		OrbitFallback:        1,
		LaunchSiteFallback:   0,
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, "CRS-1", ldr.loaded[0].Launch.MissionName)
	assert.Equal(t, "LEO (ISS)", ldr.loaded[0].CanonicalOrbit())
	assert.Equal(t, "CCAFS", ldr.loaded[0].CanonicalLaunchSite())
	assert.Equal(t, "Starlink-1", ldr.loaded[1].Launch.MissionName)
	assert.Equal(t, "VLEO", ldr.loaded[1].CanonicalOrbit())
	require.NotNil(t, ldr.loaded[1].LandingSuccess)
	assert.Equal(t, 0, *ldr.loaded[1].LandingSuccess)

	require.NoError(t, p.CheckReadiness(context.Background()))
	last, ok := p.LastRun()
	require.True(t, ok)
	assert.Equal(t, stats, last.Stats)
	assert.False(t, last.FinishedAt.IsZero())

	assert.InDelta(t, 4, testutil.ToFloat64(metrics.RowsRead.WithLabelValues("api")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RowsRead.WithLabelValues("wiki")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ParseFailures.WithLabelValues("api")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.UnmatchedRows), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.RecordsProduced), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CanonicalFallback.WithLabelValues("orbit")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PipelineRunning), 0)
}

func TestPipeline_Run_ProcessedAtFromClock(t *testing.T) {
	now := time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(nil) })

	ldr := &mockLoader{}
	p := pipeline.New(
		&mockLaunches{records: launchFixture()},
		&mockBoosters{records: boosterFixture()},
		pipeline.NewReconciler(0),
		ldr, slog.Default(), newTestMetrics(),
	)
	_, err := p.Run(context.Background())
	require.NoError(t, err)
	for _, rec := range ldr.loaded {
		assert.Equal(t, now, rec.ProcessedAt)
	}
}

func TestPipeline_Run_Publisher(t *testing.T) {
	ldr := &mockLoader{}
	pub := &mockLoader{}
	metrics := newTestMetrics()
	p := pipeline.New(
		&mockLaunches{records: launchFixture()},
		&mockBoosters{records: boosterFixture()},
		pipeline.NewReconciler(domain.DefaultTolerance),
		ldr, slog.Default(), metrics,
		pipeline.WithPublisher(pub),
	)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ldr.loaded, pub.loaded)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.RecordsPublished), 0)
}

func TestPipeline_Run_SourceErrors(t *testing.T) {
	schemaErr := &domain.SchemaError{Table: "launches", Missing: []string{"reused"}}

	tests := []struct {
		name     string
		launches *mockLaunches
		boosters *mockBoosters
		contains string
	}{
		{
			name:     "launch schema mismatch",
			launches: &mockLaunches{err: schemaErr},
			boosters: &mockBoosters{},
			contains: "load launches",
		},
		{
			name:     "booster read failure",
			launches: &mockLaunches{},
			boosters: &mockBoosters{err: errors.New("disk gone")},
			contains: "load boosters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ldr := &mockLoader{}
			p := pipeline.New(tt.launches, tt.boosters, pipeline.NewReconciler(0), ldr, slog.Default(), newTestMetrics())

			_, err := p.Run(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Zero(t, ldr.calls)
			assert.Error(t, p.CheckReadiness(context.Background()))
		})
	}
}

func TestPipeline_Run_SchemaMismatchIsDetectable(t *testing.T) {
	p := pipeline.New(
		&mockLaunches{err: &domain.SchemaError{Table: "launches", Missing: []string{"reused"}}},
		&mockBoosters{},
		pipeline.NewReconciler(0),
		&mockLoader{}, slog.Default(), newTestMetrics(),
	)
	_, err := p.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestPipeline_Run_LoaderError(t *testing.T) {
	ldr := &mockLoader{err: errors.New("disk full")}
	pub := &mockLoader{}
	p := pipeline.New(
		&mockLaunches{records: launchFixture()},
		&mockBoosters{records: boosterFixture()},
		pipeline.NewReconciler(0),
		ldr, slog.Default(), newTestMetrics(),
		pipeline.WithPublisher(pub),
	)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write reconciled")
	assert.Zero(t, pub.calls)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_PublisherError(t *testing.T) {
	metrics := newTestMetrics()
	p := pipeline.New(
		&mockLaunches{records: launchFixture()},
		&mockBoosters{records: boosterFixture()},
		pipeline.NewReconciler(0),
		&mockLoader{}, slog.Default(), metrics,
		pipeline.WithPublisher(&mockLoader{err: errors.New("broker down")}),
	)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish reconciled")
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.RecordsPublished), 0)
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(
		&mockLaunches{records: launchFixture()},
		&mockBoosters{records: boosterFixture()},
		pipeline.NewReconciler(0),
		ldr, slog.Default(), newTestMetrics(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, ldr.calls)
}
