package pipeline

import (
	"time"

	"github.com/couchcryptid/launch-data-etl/internal/domain"
)

// Stats counts what happened to every input row in one run.
type Stats struct {
	LaunchRows           int `json:"launch_rows"`
	BoosterRows          int `json:"booster_rows"`
	LaunchParseFailures  int `json:"launch_parse_failures"`
	BoosterParseFailures int `json:"booster_parse_failures"`
	Unmatched            int `json:"unmatched"`
	Reconciled           int `json:"reconciled"`
	OrbitFallback        int `json:"orbit_api_fallback"`
	LaunchSiteFallback   int `json:"launch_site_api_fallback"`
}

// Reconciler is the pure transform stage: normalize dates, sort, join, and
// reconcile columns.
type Reconciler struct {
	tolerance time.Duration
}

// NewReconciler creates a Reconciler. A non-positive tolerance selects
// domain.DefaultTolerance.
func NewReconciler(tolerance time.Duration) *Reconciler {
	if tolerance <= 0 {
		tolerance = domain.DefaultTolerance
	}
	return &Reconciler{tolerance: tolerance}
}

// Tolerance returns the match window in use.
func (r *Reconciler) Tolerance() time.Duration {
	return r.tolerance
}

// Transform produces the reconciled table, ordered by API timestamp.
func (r *Reconciler) Transform(launches []domain.LaunchRecord, boosters []domain.BoosterRecord) ([]domain.ReconciledRecord, Stats, error) {
	stats := Stats{LaunchRows: len(launches), BoosterRows: len(boosters)}

	timedLaunches, failed := domain.NormalizeLaunches(launches)
	stats.LaunchParseFailures = failed
	timedBoosters, failed := domain.NormalizeBoosters(boosters)
	stats.BoosterParseFailures = failed

	domain.SortLaunches(timedLaunches)
	domain.SortBoosters(timedBoosters)

	matches, err := domain.AsofJoin(timedLaunches, timedBoosters, r.tolerance)
	if err != nil {
		return nil, stats, err
	}
	stats.Unmatched = len(timedLaunches) - len(matches)

	out := make([]domain.ReconciledRecord, 0, len(matches))
	for _, m := range matches {
		rec := domain.Reconcile(m)
		if rec.Orbit.Wiki == nil && rec.Orbit.API != nil {
			stats.OrbitFallback++
		}
		if rec.LaunchSite.Wiki == nil && rec.LaunchSite.API != nil {
			stats.LaunchSiteFallback++
		}
		out = append(out, rec)
	}
	stats.Reconciled = len(out)
	return out, stats, nil
}
