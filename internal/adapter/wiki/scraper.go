// Package wiki scrapes the Falcon launch tables from a Wikipedia page into
// wiki-origin booster records.
package wiki

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/couchcryptid/launch-data-etl/internal/domain"
)

// minCells is the fewest td cells a launch row carries; the landing outcome
// cell after them is optional.
const minCells = 8

// Scraper downloads and parses the launch list page. It implements
// pipeline.BoosterSource.
type Scraper struct {
	url        string
	maxTables  int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewScraper creates a Scraper that reads at most maxTables wikitables.
func NewScraper(url string, maxTables int, timeout time.Duration, logger *slog.Logger) *Scraper {
	return &Scraper{
		url:        url,
		maxTables:  maxTables,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// LoadBoosters fetches the page and extracts its launch rows.
func (s *Scraper) LoadBoosters(ctx context.Context) ([]domain.BoosterRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "launch-data-etl/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wiki request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wiki request: status %d", resp.StatusCode)
	}

	records, err := ParseBoosters(resp.Body, s.maxTables)
	if err != nil {
		return nil, err
	}
	s.logger.Info("wiki tables scraped", "url", s.url, "rows", len(records))
	return records, nil
}

// ParseBoosters reads the first maxTables tables with class "wikitable". The
// first row of each table is its header and is skipped; of the remaining
// rows, those with at least eight td cells become records.
func ParseBoosters(r io.Reader, maxTables int) ([]domain.BoosterRecord, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse wiki html: %w", err)
	}

	var records []domain.BoosterRecord
	for _, table := range findTables(doc, maxTables) {
		rows := findAll(table, atom.Tr, atom.Table)
		if len(rows) > 0 {
			rows = rows[1:]
		}
		for _, row := range rows {
			cells := childCells(row)
			if len(cells) < minCells {
				continue
			}
			records = append(records, domain.BoosterRecord{
				Date:           textContent(cells[0]),
				BoosterVersion: textContent(cells[1]),
				LaunchSite:     textContent(cells[2]),
				Payload:        textContent(cells[3]),
				Orbit:          textContent(cells[4]),
				Customer:       textContent(cells[5]),
				LaunchOutcome:  textContent(cells[6]),
				LandingType:    textContent(cells[7]),
				LandingOutcome: optionalCell(cells, 8),
			})
		}
	}
	return records, nil
}

func findTables(doc *html.Node, limit int) []*html.Node {
	var tables []*html.Node
	for n := range doc.Descendants() {
		if len(tables) == limit {
			break
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Table && hasClass(n, "wikitable") {
			tables = append(tables, n)
		}
	}
	return tables
}

// findAll returns descendants with tag a, not descending into nested stop
// elements.
func findAll(root *html.Node, a, stop atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := range n.ChildNodes() {
			if c.Type != html.ElementNode {
				continue
			}
			if c.DataAtom == a {
				out = append(out, c)
			}
			if c.DataAtom != stop {
				walk(c)
			}
		}
	}
	walk(root)
	return out
}

// childCells returns the td cells of a row; th cells are not counted.
func childCells(row *html.Node) []*html.Node {
	var cells []*html.Node
	for c := range row.ChildNodes() {
		if c.Type == html.ElementNode && c.DataAtom == atom.Td {
			cells = append(cells, c)
		}
	}
	return cells
}

func optionalCell(cells []*html.Node, i int) string {
	if i >= len(cells) {
		return ""
	}
	return textContent(cells[i])
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" && slices.Contains(strings.Fields(attr.Val), class) {
			return true
		}
	}
	return false
}

// textContent concatenates the text nodes under n and trims the result. A
// br element contributes nothing, matching how the page's dates read as
// "4 June 201018:45" once flattened.
func textContent(n *html.Node) string {
	var b strings.Builder
	for d := range n.Descendants() {
		if d.Type == html.TextNode {
			b.WriteString(d.Data)
		}
	}
	return strings.TrimSpace(b.String())
}
