// Package domain models launch records from two independently sourced datasets
// and the rules for reconciling them into one enriched table.
//
// # Data Sources
//
// API-origin launch records come from the SpaceX REST API (v5 launches with
// rocket, payload and launchpad ids resolved through the v4 endpoints). Each
// launch is flattened into eight columns; see [LaunchRecord].
//
// Wiki-origin booster records are scraped from the "List of Falcon 9 and Falcon
// Heavy launches" wikitables. Cells are human-edited free text; see
// [BoosterRecord].
//
// # Date Conventions
//
// API timestamps are machine-generated ISO-8601 with a zone:
//
//	"2010-06-04T18:45:00.000Z"       (API JSON)
//	"2010-06-04 18:45:00+00:00"      (dataframe CSV writer)
//
// Both are converted to UTC. The zone itself is not carried downstream.
//
// Wiki dates are UK-style, day before month, and carry two known defects:
//
//	"4 June 2010[1] 18:45"   citation markers anywhere in the cell
//	"4 June 201018:45"       the line break between date and time is lost
//	                         when cell text is flattened, gluing the year to
//	                         the hour
//
// [NormalizeWikiDate] strips bracketed annotations, re-inserts the missing
// space and then tries a fixed list of day-first layouts.
//
// # Matching
//
// The two sources share no key. Records are paired by nearest launch time
// within a tolerance window (30 days by default) with [AsofJoin]. The API clock
// is authoritative; the wiki timestamp is kept only as match metadata.
//
// # Reconciliation
//
// Orbit and launch site exist in both sources. [Reconcile] keeps both values
// and resolves one canonical value, preferring the wiki value and falling back
// to the API value. Landing success arrives loosely typed and is normalized to
// 1, 0 or missing by [NormalizeLandingSuccess]. Missing values are excluded
// from success-rate aggregation ([SuccessRate]).
package domain
