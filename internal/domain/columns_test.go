package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeLandingSuccess(t *testing.T) {
	tr, fa := true, false
	one, zero, two := 1, 0, 2

	tests := []struct {
		name     string
		input    any
		expected *int
	}{
		{"native true", true, &one},
		{"native false", false, &zero},
		{"string True", "True", &one},
		{"string False", "False", &zero},
		{"lowercase string", "true", &one},
		{"int 1", 1, &one},
		{"int 0", 0, &zero},
		{"int64 1", int64(1), &one},
		{"float 1.0", 1.0, &one},
		{"int8 1", int8(1), &one},
		{"int16 0", int16(0), &zero},
		{"int32 1", int32(1), &one},
		{"uint 1", uint(1), &one},
		{"uint8 0", uint8(0), &zero},
		{"uint16 1", uint16(1), &one},
		{"uint32 0", uint32(0), &zero},
		{"uint64 1", uint64(1), &one},
		{"float32 1", float32(1), &one},
		{"float32 0", float32(0), &zero},
		{"float32 half", float32(0.5), nil},
		{"uint8 2", uint8(2), nil},
		{"numeric string", "0.0", &zero},
		{"numeric string one", "1", &one},
		{"bool pointer", &tr, &one},
		{"bool pointer false", &fa, &zero},
		{"nil bool pointer", (*bool)(nil), nil},
		{"int pointer", &two, nil},
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"other string", "maybe", nil},
		{"other int", 2, nil},
		{"NaN", math.NaN(), nil},
		{"unsupported type", []int{1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeLandingSuccess(tt.input))
		})
	}
}

func TestNormalizeLandingSuccess_ScenarioValues(t *testing.T) {
	inputs := []any{true, "False", 0, nil}
	var got []*int
	for _, v := range inputs {
		got = append(got, NormalizeLandingSuccess(v))
	}

	require.NotNil(t, got[0])
	assert.Equal(t, 1, *got[0])
	require.NotNil(t, got[1])
	assert.Equal(t, 0, *got[1])
	require.NotNil(t, got[2])
	assert.Equal(t, 0, *got[2])
	assert.Nil(t, got[3])

	records := make([]ReconciledRecord, len(got))
	for i := range got {
		records[i].LandingSuccess = got[i]
	}
	stats := SuccessRate(records)
	assert.Equal(t, 3, stats.Total, "missing outcome must not be counted")
	assert.Equal(t, 1, stats.Successful)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "wiki", *Coalesce(strPtr("wiki"), strPtr("api")))
	assert.Equal(t, "api", *Coalesce(nil, strPtr("api")))
	assert.Nil(t, Coalesce(nil, nil))
	assert.Nil(t, Coalesce())
}

func TestCoalesce_ReturnsCopy(t *testing.T) {
	src := strPtr("LEO")
	got := Coalesce(src)
	*src = "GTO"
	assert.Equal(t, "LEO", *got)
}

func TestTextOrNil(t *testing.T) {
	assert.Nil(t, TextOrNil(""))
	assert.Nil(t, TextOrNil("   "))
	assert.Equal(t, "LEO", *TextOrNil(" LEO "))
}

func TestReconcile(t *testing.T) {
	fixed := time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	apiAt := time.Date(2018, 3, 6, 5, 33, 0, 0, time.UTC)
	wikiAt := time.Date(2018, 3, 6, 5, 33, 0, 0, time.UTC).Add(-time.Minute)

	t.Run("wiki preferred", func(t *testing.T) {
		m := Match{
			Launch: TimedLaunch{At: apiAt, Record: LaunchRecord{
				MissionName:    "Hispasat 30W-6",
				Orbit:          strPtr("GTO"),
				LaunchSite:     strPtr("CCSFS SLC 40"),
				LandingSuccess: "False",
			}},
			Booster: TimedBooster{At: wikiAt, Record: BoosterRecord{
				BoosterVersion: "F9 FT B1044",
				Orbit:          "GTO",
				LaunchSite:     "CCAFS SLC-40",
			}},
		}

		rec := Reconcile(m)

		assert.Equal(t, "CCAFS SLC-40", rec.CanonicalLaunchSite())
		assert.Equal(t, "CCSFS SLC 40", *rec.LaunchSite.API)
		assert.Equal(t, "CCAFS SLC-40", *rec.LaunchSite.Wiki)
		assert.Equal(t, "GTO", rec.CanonicalOrbit())
		assert.Equal(t, 2018, rec.Year)
		require.NotNil(t, rec.LandingSuccess)
		assert.Equal(t, 0, *rec.LandingSuccess)
		assert.Equal(t, apiAt, rec.Timestamp)
		assert.Equal(t, wikiAt, rec.BoosterTime)
		assert.Equal(t, -time.Minute, rec.MatchOffset)
		assert.Equal(t, fixed, rec.ProcessedAt)
	})

	t.Run("api fallback when wiki blank", func(t *testing.T) {
		m := Match{
			Launch:  TimedLaunch{At: apiAt, Record: LaunchRecord{Orbit: strPtr("LEO")}},
			Booster: TimedBooster{At: wikiAt, Record: BoosterRecord{Orbit: "  "}},
		}

		rec := Reconcile(m)

		assert.Equal(t, "LEO", rec.CanonicalOrbit())
		assert.Nil(t, rec.Orbit.Wiki)
		assert.Nil(t, rec.LaunchSite.Canonical)
		assert.Empty(t, rec.CanonicalLaunchSite())
	})

	t.Run("blank api value is missing", func(t *testing.T) {
		m := Match{
			Launch:  TimedLaunch{At: apiAt, Record: LaunchRecord{Orbit: strPtr("")}},
			Booster: TimedBooster{At: wikiAt},
		}

		rec := Reconcile(m)

		assert.Nil(t, rec.Orbit.API)
		assert.Nil(t, rec.Orbit.Canonical)
	})
}

func TestReconcileColumns_Idempotent(t *testing.T) {
	rec := ReconciledRecord{
		Launch:     LaunchRecord{LandingSuccess: 1},
		Timestamp:  time.Date(2015, 12, 22, 1, 29, 0, 0, time.UTC),
		Orbit:      ReconciledField{API: strPtr("LEO"), Wiki: strPtr("LEO (ISS)")},
		LaunchSite: ReconciledField{API: strPtr("CCSFS SLC 40")},
	}

	once := ReconcileColumns(rec)
	twice := ReconcileColumns(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, "LEO (ISS)", twice.CanonicalOrbit())
	assert.Equal(t, "CCSFS SLC 40", twice.CanonicalLaunchSite())
	assert.Equal(t, 2015, twice.Year)
}

func TestReconcile_CanonicalPresentWhenEitherSourceHasValue(t *testing.T) {
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	values := []*string{nil, strPtr(""), strPtr("LEO")}

	for _, api := range values {
		for _, wiki := range values {
			wikiText := ""
			if wiki != nil {
				wikiText = *wiki
			}
			rec := Reconcile(Match{
				Launch:  TimedLaunch{At: at, Record: LaunchRecord{Orbit: api}},
				Booster: TimedBooster{At: at, Record: BoosterRecord{Orbit: wikiText}},
			})
			if rec.Orbit.API != nil || rec.Orbit.Wiki != nil {
				assert.NotNil(t, rec.Orbit.Canonical)
			} else {
				assert.Nil(t, rec.Orbit.Canonical)
			}
		}
	}
}
