package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/launch-data-etl/internal/domain"
)

// LaunchFile loads API-origin records from a CSV file.
// It implements pipeline.LaunchSource.
type LaunchFile struct {
	Path string
}

// LoadLaunches reads and decodes the whole file.
func (f LaunchFile) LoadLaunches(_ context.Context) ([]domain.LaunchRecord, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open launches: %w", err)
	}
	defer file.Close()
	return ReadLaunches(file)
}

// BoosterFile loads wiki-origin records from a CSV file.
// It implements pipeline.BoosterSource.
type BoosterFile struct {
	Path string
}

// LoadBoosters reads and decodes the whole file.
func (f BoosterFile) LoadBoosters(_ context.Context) ([]domain.BoosterRecord, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open boosters: %w", err)
	}
	defer file.Close()
	return ReadBoosters(file)
}

// ReadLaunches decodes an API-origin table. A header that breaks the column
// contract yields a *domain.SchemaError.
func ReadLaunches(r io.Reader) ([]domain.LaunchRecord, error) {
	rows, err := readTable(r, "launches", LaunchColumns)
	if err != nil {
		return nil, err
	}

	out := make([]domain.LaunchRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.LaunchRecord{
			MissionName:    cell(row, 0),
			LaunchDate:     cell(row, 1),
			RocketName:     cell(row, 2),
			PayloadMass:    parseFloatOrNil(cell(row, 3)),
			Orbit:          domain.TextOrNil(cell(row, 4)),
			LaunchSite:     domain.TextOrNil(cell(row, 5)),
			LandingSuccess: rawOrNil(cell(row, 6)),
			Reused:         parseBoolOrNil(cell(row, 7)),
		})
	}
	return out, nil
}

// ReadBoosters decodes a wiki-origin table. A header that breaks the column
// contract yields a *domain.SchemaError.
func ReadBoosters(r io.Reader) ([]domain.BoosterRecord, error) {
	rows, err := readTable(r, "boosters", BoosterColumns)
	if err != nil {
		return nil, err
	}

	out := make([]domain.BoosterRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.BoosterRecord{
			Date:           cell(row, 0),
			BoosterVersion: cell(row, 1),
			LaunchSite:     cell(row, 2),
			Payload:        cell(row, 3),
			Orbit:          cell(row, 4),
			Customer:       cell(row, 5),
			LaunchOutcome:  cell(row, 6),
			LandingType:    cell(row, 7),
			LandingOutcome: cell(row, 8),
		})
	}
	return out, nil
}

// ReadReconciled decodes a table written by WriteReconciled.
func ReadReconciled(r io.Reader) ([]domain.ReconciledRecord, error) {
	rows, err := readTable(r, "reconciled", ReconciledColumns)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ReconciledRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := decodeReconciled(row)
		if err != nil {
			// +2: one for the header, one for 1-based line numbers.
			return nil, fmt.Errorf("reconciled line %d: %w", i+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeReconciled(row []string) (domain.ReconciledRecord, error) {
	ts, err := time.Parse(time.RFC3339, cell(row, colLaunchDate))
	if err != nil {
		return domain.ReconciledRecord{}, fmt.Errorf("launch_date: %w", err)
	}
	boosterTime, err := time.Parse(time.RFC3339, cell(row, colDate))
	if err != nil {
		return domain.ReconciledRecord{}, fmt.Errorf("date: %w", err)
	}
	year, err := strconv.Atoi(cell(row, colYear))
	if err != nil {
		return domain.ReconciledRecord{}, fmt.Errorf("year: %w", err)
	}
	offsetHours, err := strconv.ParseFloat(cell(row, colOffset), 64)
	if err != nil {
		return domain.ReconciledRecord{}, fmt.Errorf("match_offset_hours: %w", err)
	}

	landing := rawOrNil(cell(row, colLandingSuccess))
	return domain.ReconciledRecord{
		Launch: domain.LaunchRecord{
			MissionName:    cell(row, colMission),
			LaunchDate:     cell(row, colLaunchDate),
			RocketName:     cell(row, colRocket),
			PayloadMass:    parseFloatOrNil(cell(row, colPayloadMass)),
			Orbit:          domain.TextOrNil(cell(row, colOrbitAPI)),
			LaunchSite:     domain.TextOrNil(cell(row, colSiteAPI)),
			LandingSuccess: landing,
			Reused:         parseBoolOrNil(cell(row, colReused)),
		},
		Booster: domain.BoosterRecord{
			Date:           cell(row, colDate),
			BoosterVersion: cell(row, colBooster),
			LaunchSite:     cell(row, colSiteWiki),
			Payload:        cell(row, colPayload),
			Orbit:          cell(row, colOrbitWiki),
			Customer:       cell(row, colCustomer),
			LaunchOutcome:  cell(row, colLaunchOutcome),
			LandingType:    cell(row, colLandingType),
			LandingOutcome: cell(row, colLandingOutcome),
		},
		Timestamp:   ts.UTC(),
		BoosterTime: boosterTime.UTC(),
		MatchOffset: time.Duration(math.Round(offsetHours * float64(time.Hour))),
		Orbit: domain.ReconciledField{
			API:       domain.TextOrNil(cell(row, colOrbitAPI)),
			Wiki:      domain.TextOrNil(cell(row, colOrbitWiki)),
			Canonical: domain.TextOrNil(cell(row, colOrbit)),
		},
		LaunchSite: domain.ReconciledField{
			API:       domain.TextOrNil(cell(row, colSiteAPI)),
			Wiki:      domain.TextOrNil(cell(row, colSiteWiki)),
			Canonical: domain.TextOrNil(cell(row, colSite)),
		},
		Year:           year,
		LandingSuccess: domain.NormalizeLandingSuccess(landing),
	}, nil
}

// readTable checks the header against expected and returns the data rows.
func readTable(r io.Reader, table string, expected []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &domain.SchemaError{Table: table, Missing: expected}
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", table, err)
	}
	if err := domain.CheckHeader(table, header, expected); err != nil {
		return nil, err
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s rows: %w", table, err)
	}
	return rows, nil
}

// cell returns the trimmed value at i, or "" for short rows.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func rawOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseFloatOrNil(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseBoolOrNil accepts the same spellings as the landing flag.
func parseBoolOrNil(s string) *bool {
	n := domain.NormalizeLandingSuccess(s)
	if n == nil {
		return nil
	}
	b := *n == 1
	return &b
}
