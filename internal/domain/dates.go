package domain

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

var (
	// citationRe matches bracketed annotations such as "[1]" or "[citation needed]".
	citationRe = regexp.MustCompile(`\[.*?\]`)

	// gluedHourRe matches a 4-digit year directly followed by a 2-digit hour,
	// e.g. "201018:45" -> "2010 18:45".
	gluedHourRe = regexp.MustCompile(`(\d{4})(\d{2}):`)

	whitespaceRe = regexp.MustCompile(`\s+`)

	// zoneSuffixRe matches a trailing zone marker; wiki times are already UTC.
	zoneSuffixRe = regexp.MustCompile(`(?i)\s+(?:UTC|GMT)$`)

	// yearCommaRe matches "2010, 18:45", where the comma separates date and time.
	yearCommaRe = regexp.MustCompile(`(\d{4}),\s*(\d{1,2}:)`)

	septRe = regexp.MustCompile(`\bSept\b\.?`)
)

// apiLayouts are the zoned ISO-8601 shapes seen in API-origin data. Fractional
// seconds are accepted by time.Parse without being spelled out in the layout.
var apiLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
}

// wikiLayouts are tried in order. All numeric forms are day before month.
var wikiLayouts = []string{
	"2 January 2006 15:04:05",
	"2 January 2006 15:04",
	"2 January 2006",
	"2 Jan 2006 15:04:05",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
	"January 2, 2006 15:04",
	"January 2, 2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006 15:04",
	"2-1-2006",
	"2.1.2006",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NormalizeAPITimestamp parses an API-origin launch date and converts it to
// UTC. It reports false for anything that is not zoned ISO-8601.
func NormalizeAPITimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range apiLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// NormalizeWikiDate repairs and parses a wiki-origin date cell. The result is
// in UTC; the source carries no zone. It reports false when no layout matches.
func NormalizeWikiDate(s string) (time.Time, bool) {
	s = CleanWikiDate(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range wikiLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CleanWikiDate strips citation markers, re-inserts the space lost between
// year and hour, and collapses whitespace (including non-breaking spaces).
// A trailing UTC marker and a comma before the time are dropped.
func CleanWikiDate(s string) string {
	s = norm.NFKC.String(s)
	s = citationRe.ReplaceAllString(s, "")
	s = gluedHourRe.ReplaceAllString(s, "$1 $2:")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = zoneSuffixRe.ReplaceAllString(s, "")
	s = yearCommaRe.ReplaceAllString(s, "$1 $2")
	return septRe.ReplaceAllString(s, "Sep")
}

// NormalizeLaunches parses every launch date, dropping rows that fail.
// It returns the kept rows in input order and the number dropped.
func NormalizeLaunches(records []LaunchRecord) ([]TimedLaunch, int) {
	out := make([]TimedLaunch, 0, len(records))
	failed := 0
	for _, rec := range records {
		at, ok := NormalizeAPITimestamp(rec.LaunchDate)
		if !ok {
			failed++
			continue
		}
		out = append(out, TimedLaunch{Record: rec, At: at})
	}
	return out, failed
}

// NormalizeBoosters parses every wiki date, dropping rows that fail.
// It returns the kept rows in input order and the number dropped.
func NormalizeBoosters(records []BoosterRecord) ([]TimedBooster, int) {
	out := make([]TimedBooster, 0, len(records))
	failed := 0
	for _, rec := range records {
		at, ok := NormalizeWikiDate(rec.Date)
		if !ok {
			failed++
			continue
		}
		out = append(out, TimedBooster{Record: rec, At: at})
	}
	return out, failed
}
