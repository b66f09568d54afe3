package domain

import (
	"math"
	"strconv"
	"strings"
)

// Reconcile builds the enriched record for a match. The timestamp and year
// come from the API side.
func Reconcile(m Match) ReconciledRecord {
	rec := ReconciledRecord{
		Launch:      m.Launch.Record,
		Booster:     m.Booster.Record,
		Timestamp:   m.Launch.At,
		BoosterTime: m.Booster.At,
		MatchOffset: m.Offset(),
		Orbit: ReconciledField{
			API:  presentOrNil(m.Launch.Record.Orbit),
			Wiki: TextOrNil(m.Booster.Record.Orbit),
		},
		LaunchSite: ReconciledField{
			API:  presentOrNil(m.Launch.Record.LaunchSite),
			Wiki: TextOrNil(m.Booster.Record.LaunchSite),
		},
		ProcessedAt: clock.Now(),
	}
	return ReconcileColumns(rec)
}

// ReconcileColumns recomputes every derived column from the source values it
// holds. Applying it to an already reconciled record changes nothing.
func ReconcileColumns(rec ReconciledRecord) ReconciledRecord {
	rec.Orbit.Canonical = Coalesce(rec.Orbit.Wiki, rec.Orbit.API)
	rec.LaunchSite.Canonical = Coalesce(rec.LaunchSite.Wiki, rec.LaunchSite.API)
	rec.LandingSuccess = NormalizeLandingSuccess(rec.Launch.LandingSuccess)
	rec.Year = rec.Timestamp.Year()
	return rec
}

// Coalesce returns the first non-missing value, or nil when all are missing.
func Coalesce(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			s := *v
			return &s
		}
	}
	return nil
}

// TextOrNil returns nil for blank text and a pointer to the trimmed text otherwise.
func TextOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func presentOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	return TextOrNil(*s)
}

// NormalizeLandingSuccess maps the loosely typed landing flag to 1 or 0.
// Accepted: bool; "True"/"False" in any case; integers 0 and 1 of any width;
// floats and numeric strings equal to 0 or 1 (a dataframe writer emits "1.0"
// for an integer column with gaps). Everything else, including nil, is missing.
func NormalizeLandingSuccess(v any) *int {
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		if x {
			return binary(1)
		}
		return binary(0)
	case *bool:
		if x == nil {
			return nil
		}
		return NormalizeLandingSuccess(*x)
	case *int:
		if x == nil {
			return nil
		}
		return binaryFromFloat(float64(*x))
	case string:
		return binaryFromString(x)
	case int:
		return binaryFromFloat(float64(x))
	case int8:
		return binaryFromFloat(float64(x))
	case int16:
		return binaryFromFloat(float64(x))
	case int32:
		return binaryFromFloat(float64(x))
	case int64:
		return binaryFromFloat(float64(x))
	case uint:
		return binaryFromFloat(float64(x))
	case uint8:
		return binaryFromFloat(float64(x))
	case uint16:
		return binaryFromFloat(float64(x))
	case uint32:
		return binaryFromFloat(float64(x))
	case uint64:
		return binaryFromFloat(float64(x))
	case float32:
		return binaryFromFloat(float64(x))
	case float64:
		return binaryFromFloat(x)
	default:
		return nil
	}
}

func binaryFromString(s string) *int {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true":
		return binary(1)
	case "false":
		return binary(0)
	case "":
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return binaryFromFloat(f)
}

func binaryFromFloat(f float64) *int {
	switch {
	case math.IsNaN(f):
		return nil
	case f == 1:
		return binary(1)
	case f == 0:
		return binary(0)
	default:
		return nil
	}
}

func binary(n int) *int { return &n }
