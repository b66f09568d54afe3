package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/launch-data-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/launch-data-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/launch-data-etl/internal/domain"
)

func newReportCmd() *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Load the enriched table into SQLite and print success rates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if inPath == "" {
				inPath = a.cfg.OutputCSVPath
			}
			return runReport(cmd.Context(), a, inPath)
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "enriched table path (default $OUTPUT_CSV)")
	return cmd
}

func runReport(ctx context.Context, a *app, inPath string) error {
	records, err := readReconciledFile(inPath)
	if err != nil {
		return err
	}

	store, err := sqlite.New(a.cfg.ReportDB)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.LoadBatch(ctx, records); err != nil {
		return fmt.Errorf("load report table: %w", err)
	}
	a.logger.Info("report table loaded", "db", a.cfg.ReportDB, "rows", len(records))

	byOrbit, err := store.SuccessByOrbit(ctx)
	if err != nil {
		return err
	}
	bySite, err := store.SuccessByLaunchSite(ctx)
	if err != nil {
		return err
	}
	byYear, err := store.SuccessByYear(ctx)
	if err != nil {
		return err
	}
	byBooster, err := store.LaunchesByBooster(ctx)
	if err != nil {
		return err
	}

	checks := []struct {
		name  string
		rates []sqlite.GroupRate
		key   func(domain.ReconciledRecord) string
	}{
		{"orbit", byOrbit, domain.ReconciledRecord.CanonicalOrbit},
		{"launch site", bySite, domain.ReconciledRecord.CanonicalLaunchSite},
		{"year", byYear, recordYear},
	}
	for _, c := range checks {
		if err := crossCheckRates(c.name, c.rates, domain.SuccessRateBy(records, c.key)); err != nil {
			return err
		}
	}

	overall := domain.SuccessRate(records)
	fmt.Fprintf(a.out, "%d reconciled launches, %d with a known landing outcome, %.1f%% landed\n\n",
		len(records), overall.Total, 100*overall.Rate())
	renderRates(a.out, "Landing success by orbit", "Orbit", byOrbit)
	renderRates(a.out, "Landing success by launch site", "Launch site", bySite)
	renderRates(a.out, "Landing success by year", "Year", byYear)
	renderCounts(a.out, "Launches by booster version", "Booster", byBooster)
	return nil
}

var errRatesDisagree = errors.New("report rates disagree with reconciled records")

// crossCheckRates compares SQLite group rates with the same grouping computed
// in memory.
func crossCheckRates(name string, got []sqlite.GroupRate, want map[string]domain.SuccessStats) error {
	if len(got) != len(want) {
		return fmt.Errorf("%s: %d groups in report, %d in records: %w", name, len(got), len(want), errRatesDisagree)
	}
	for _, g := range got {
		st, ok := want[g.Key]
		if !ok || st.Total != g.Total || st.Successful != g.Successful {
			return fmt.Errorf("%s %q: report %d/%d, records %d/%d: %w",
				name, g.Key, g.Successful, g.Total, st.Successful, st.Total, errRatesDisagree)
		}
	}
	return nil
}

func recordYear(r domain.ReconciledRecord) string {
	return strconv.Itoa(r.Year)
}

func readReconciledFile(path string) ([]domain.ReconciledRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open enriched table: %w", err)
	}
	defer f.Close()
	return csvfile.ReadReconciled(f)
}
