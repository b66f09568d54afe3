package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/launch-data-etl/internal/domain"
)

// ReconciledFile writes the reconciled table to a CSV file, replacing any
// existing file. It implements pipeline.BatchLoader.
type ReconciledFile struct {
	Path string
}

// LoadBatch writes all records in one pass.
func (f ReconciledFile) LoadBatch(_ context.Context, records []domain.ReconciledRecord) error {
	return writeFile(f.Path, func(w io.Writer) error { return WriteReconciled(w, records) })
}

// WriteLaunchesFile writes an API-origin table to path, creating parent directories.
func WriteLaunchesFile(path string, records []domain.LaunchRecord) error {
	return writeFile(path, func(w io.Writer) error { return WriteLaunches(w, records) })
}

// WriteBoostersFile writes a wiki-origin table to path, creating parent directories.
func WriteBoostersFile(path string, records []domain.BoosterRecord) error {
	return writeFile(path, func(w io.Writer) error { return WriteBoosters(w, records) })
}

// WriteLaunches encodes an API-origin table with LaunchColumns.
func WriteLaunches(w io.Writer, records []domain.LaunchRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.MissionName,
			r.LaunchDate,
			r.RocketName,
			formatFloat(r.PayloadMass),
			deref(r.Orbit),
			deref(r.LaunchSite),
			formatLoose(r.LandingSuccess),
			formatBool(r.Reused),
		})
	}
	return writeTable(w, LaunchColumns, rows)
}

// WriteBoosters encodes a wiki-origin table with BoosterColumns.
func WriteBoosters(w io.Writer, records []domain.BoosterRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date, r.BoosterVersion, r.LaunchSite, r.Payload, r.Orbit,
			r.Customer, r.LaunchOutcome, r.LandingType, r.LandingOutcome,
		})
	}
	return writeTable(w, BoosterColumns, rows)
}

// WriteReconciled encodes the reconciled table with ReconciledColumns.
// Timestamps are RFC 3339 in UTC, keeping fractional seconds.
func WriteReconciled(w io.Writer, records []domain.ReconciledRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, len(ReconciledColumns))
		row[colMission] = r.Launch.MissionName
		row[colLaunchDate] = r.Timestamp.UTC().Format(time.RFC3339Nano)
		row[colRocket] = r.Launch.RocketName
		row[colPayloadMass] = formatFloat(r.Launch.PayloadMass)
		row[colLandingSuccess] = formatInt(r.LandingSuccess)
		row[colReused] = formatBool(r.Launch.Reused)
		row[colDate] = r.BoosterTime.UTC().Format(time.RFC3339Nano)
		row[colBooster] = r.Booster.BoosterVersion
		row[colPayload] = r.Booster.Payload
		row[colCustomer] = r.Booster.Customer
		row[colLaunchOutcome] = r.Booster.LaunchOutcome
		row[colLandingType] = r.Booster.LandingType
		row[colLandingOutcome] = r.Booster.LandingOutcome
		row[colOrbitAPI] = deref(r.Orbit.API)
		row[colOrbitWiki] = deref(r.Orbit.Wiki)
		row[colOrbit] = deref(r.Orbit.Canonical)
		row[colSiteAPI] = deref(r.LaunchSite.API)
		row[colSiteWiki] = deref(r.LaunchSite.Wiki)
		row[colSite] = deref(r.LaunchSite.Canonical)
		row[colYear] = strconv.Itoa(r.Year)
		row[colOffset] = strconv.FormatFloat(r.MatchOffset.Hours(), 'f', -1, 64)
		rows = append(rows, row)
	}
	return writeTable(w, ReconciledColumns, rows)
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

func writeFile(path string, encode func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encode(file); err != nil {
		file.Close() //nolint:errcheck // encode error takes precedence
		return err
	}
	return file.Close()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// formatBool uses the "True"/"False" spelling of the upstream tables.
func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "True"
	}
	return "False"
}

func formatLoose(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		return formatBool(&x)
	case *bool:
		return formatBool(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
