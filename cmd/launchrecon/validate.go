package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/launch-data-etl/internal/domain"
)

// errValidationFailed is returned when any phase reports errors.
var errValidationFailed = errors.New("validation failed")

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func newValidateCmd() *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the enriched table against the reconciliation rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if inPath == "" {
				inPath = a.cfg.OutputCSVPath
			}
			records, err := readReconciledFile(inPath)
			if err != nil {
				return err
			}

			phases := validateAll(records, a.cfg.MatchTolerance)
			renderPhases(a.out, phases, len(records))
			for _, p := range phases {
				if !p.passed() {
					return errValidationFailed
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "enriched table path (default $OUTPUT_CSV)")
	return cmd
}

func validateAll(records []domain.ReconciledRecord, tolerance time.Duration) []*phase {
	return []*phase{
		validateMatchWindow(records, tolerance),
		validateOrdering(records),
		validateCanonicalColumns(records),
		validateDerivedColumns(records),
	}
}

// validateMatchWindow checks every pair is within tolerance and that the
// recorded offset agrees with the two timestamps.
func validateMatchWindow(records []domain.ReconciledRecord, tolerance time.Duration) *phase {
	p := &phase{name: "Match window"}
	for i, r := range records {
		gap := r.BoosterTime.Sub(r.Timestamp)
		if gap.Abs() > tolerance {
			p.errorf("row %d (%s): wiki date %s is %s from launch, over %s",
				i+1, r.Launch.MissionName, r.BoosterTime.Format(time.RFC3339), gap, tolerance)
		}
		// The CSV stores the offset in fractional hours.
		if gap.Round(time.Second) != r.MatchOffset.Round(time.Second) {
			p.errorf("row %d (%s): match_offset %s, timestamps differ by %s",
				i+1, r.Launch.MissionName, r.MatchOffset, gap)
		}
	}
	return p
}

func validateOrdering(records []domain.ReconciledRecord) *phase {
	p := &phase{name: "Ascending launch time"}
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.Before(records[i-1].Timestamp) {
			p.errorf("row %d (%s) is earlier than row %d", i+1, records[i].Launch.MissionName, i)
		}
	}
	return p
}

// validateCanonicalColumns recomputes orbit and launch_site from the stored
// source values and compares.
func validateCanonicalColumns(records []domain.ReconciledRecord) *phase {
	p := &phase{name: "Canonical orbit and launch site"}
	for i, r := range records {
		check := func(field string, f domain.ReconciledField) {
			want := domain.Coalesce(f.Wiki, f.API)
			switch {
			case want == nil && f.Canonical != nil:
				p.errorf("row %d (%s): %s is %q with no source value", i+1, r.Launch.MissionName, field, *f.Canonical)
			case want != nil && f.Canonical == nil:
				p.errorf("row %d (%s): %s missing, expected %q", i+1, r.Launch.MissionName, field, *want)
			case want != nil && *want != *f.Canonical:
				p.errorf("row %d (%s): %s is %q, expected %q", i+1, r.Launch.MissionName, field, *f.Canonical, *want)
			}
		}
		check("orbit", r.Orbit)
		check("launch_site", r.LaunchSite)
	}
	return p
}

// validateDerivedColumns checks year and the landing flag encoding.
func validateDerivedColumns(records []domain.ReconciledRecord) *phase {
	p := &phase{name: "Year and landing success"}
	for i, r := range records {
		if r.Year != r.Timestamp.Year() {
			p.errorf("row %d (%s): year %d, launch_date is in %d", i+1, r.Launch.MissionName, r.Year, r.Timestamp.Year())
		}
		switch raw := r.Launch.LandingSuccess.(type) {
		case nil:
		case string:
			if raw != "0" && raw != "1" {
				p.errorf("row %d (%s): landing_success %q is not 0, 1 or empty", i+1, r.Launch.MissionName, raw)
			}
		default:
			p.errorf("row %d (%s): landing_success has unexpected type %T", i+1, r.Launch.MissionName, raw)
		}
	}
	return p
}
