package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/couchcryptid/launch-data-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/launch-data-etl/internal/pipeline"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	return t
}

func renderStats(w io.Writer, outPath string, s pipeline.Stats) {
	t := newTable(w, "Reconciliation run")
	t.AppendHeader(table.Row{"Stage", "API", "Wiki"})
	t.AppendRow(table.Row{"Rows read", s.LaunchRows, s.BoosterRows})
	t.AppendRow(table.Row{"Unparseable dates", s.LaunchParseFailures, s.BoosterParseFailures})
	t.AppendRow(table.Row{"No match in window", s.Unmatched, ""})
	t.AppendRow(table.Row{"Orbit from API", s.OrbitFallback, ""})
	t.AppendRow(table.Row{"Launch site from API", s.LaunchSiteFallback, ""})
	t.AppendFooter(table.Row{"Reconciled", s.Reconciled, outPath})
	t.Render()
}

func renderRates(w io.Writer, title, keyHeader string, rates []sqlite.GroupRate) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{keyHeader, "Launches", "Landed", "Rate"})
	for _, r := range rates {
		t.AppendRow(table.Row{orUnknown(r.Key), r.Total, r.Successful, fmt.Sprintf("%.2f%%", 100*r.Rate)})
	}
	t.Render()
}

func renderCounts(w io.Writer, title, keyHeader string, counts []sqlite.GroupCount) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{keyHeader, "Launches"})
	for _, c := range counts {
		t.AppendRow(table.Row{orUnknown(c.Key), c.Launches})
	}
	t.Render()
}

func renderPhases(w io.Writer, phases []*phase, rows int) {
	t := newTable(w, fmt.Sprintf("Enriched table validation (%d rows)", rows))
	t.AppendHeader(table.Row{"Phase", "Result"})
	for _, p := range phases {
		status := text.FgGreen.Sprint("PASS")
		if !p.passed() {
			status = text.FgRed.Sprintf("FAIL (%d errors)", len(p.errors))
		}
		t.AppendRow(table.Row{p.name, status})
	}
	t.Render()

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}
}

func orUnknown(s string) string {
	if s == "" {
		return text.FgHiBlack.Sprint("(unknown)")
	}
	return s
}
