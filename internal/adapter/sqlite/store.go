// Package sqlite loads reconciled records into a SQLite table and runs the
// success-rate report queries over it.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/couchcryptid/launch-data-etl/internal/domain"
)

// Store is a SQLite-backed report table. It implements pipeline.BatchLoader.
type Store struct {
	db *sql.DB
}

// GroupRate is one row of a success-rate breakdown.
type GroupRate struct {
	Key        string
	Total      int
	Successful int
	Rate       float64 // Successful / Total
}

// GroupCount is one row of a launch-count breakdown.
type GroupCount struct {
	Key      string
	Launches int
}

// New opens the database at dbPath and creates the schema. Use ":memory:"
// for an in-process database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS spacex (
		mission_name    TEXT NOT NULL,
		launch_date     TEXT NOT NULL,
		rocket_name     TEXT,
		payload_mass    REAL,
		orbit           TEXT,
		launch_site     TEXT,
		booster_version TEXT,
		launch_outcome  TEXT,
		landing_outcome TEXT,
		landing_success INTEGER,
		reused          INTEGER,
		year            INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_spacex_landing ON spacex(landing_success);
	`
	_, err := s.db.Exec(schema)
	return err
}

// LoadBatch replaces the table contents with records in one transaction.
func (s *Store) LoadBatch(ctx context.Context, records []domain.ReconciledRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback() //nolint:errcheck // original error is returned
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM spacex`); err != nil {
		return fmt.Errorf("clear spacex: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO spacex (mission_name, launch_date, rocket_name, payload_mass, orbit, launch_site,
			booster_version, launch_outcome, landing_outcome, landing_success, reused, year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err = stmt.ExecContext(ctx,
			r.Launch.MissionName,
			r.Timestamp.UTC().Format(time.RFC3339),
			nullString(r.Launch.RocketName),
			r.Launch.PayloadMass,
			r.Orbit.Canonical,
			r.LaunchSite.Canonical,
			nullString(r.Booster.BoosterVersion),
			nullString(r.Booster.LaunchOutcome),
			nullString(r.Booster.LandingOutcome),
			r.LandingSuccess,
			r.Launch.Reused,
			r.Year,
		)
		if err != nil {
			return fmt.Errorf("insert %q: %w", r.Launch.MissionName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// TotalLaunches counts rows with a known landing outcome.
func (s *Store) TotalLaunches(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM spacex WHERE landing_success IS NOT NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count launches: %w", err)
	}
	return n, nil
}

// SuccessByOrbit returns landing success rates per canonical orbit, highest
// rate first. Rows with unknown landing outcome are excluded.
func (s *Store) SuccessByOrbit(ctx context.Context) ([]GroupRate, error) {
	return s.queryRates(ctx, `
		SELECT orbit, COUNT(*) AS total, SUM(landing_success) AS successful
		FROM spacex
		WHERE landing_success IS NOT NULL
		GROUP BY orbit
		ORDER BY 1.0 * SUM(landing_success) / COUNT(*) DESC, orbit`)
}

// SuccessByLaunchSite returns landing success rates per canonical launch site,
// highest rate first.
func (s *Store) SuccessByLaunchSite(ctx context.Context) ([]GroupRate, error) {
	return s.queryRates(ctx, `
		SELECT launch_site, COUNT(*) AS total, SUM(landing_success) AS successful
		FROM spacex
		WHERE landing_success IS NOT NULL
		GROUP BY launch_site
		ORDER BY 1.0 * SUM(landing_success) / COUNT(*) DESC, launch_site`)
}

// SuccessByYear returns landing success rates per launch year, oldest first.
func (s *Store) SuccessByYear(ctx context.Context) ([]GroupRate, error) {
	return s.queryRates(ctx, `
		SELECT strftime('%Y', launch_date) AS y, COUNT(*) AS total, SUM(landing_success) AS successful
		FROM spacex
		WHERE landing_success IS NOT NULL
		GROUP BY y
		ORDER BY y`)
}

// LaunchesByBooster counts launches per booster version, most used first.
func (s *Store) LaunchesByBooster(ctx context.Context) ([]GroupCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT booster_version, COUNT(*) AS launches
		FROM spacex
		WHERE landing_success IS NOT NULL
		GROUP BY booster_version
		ORDER BY launches DESC, booster_version`)
	if err != nil {
		return nil, fmt.Errorf("query boosters: %w", err)
	}
	defer rows.Close()

	var out []GroupCount
	for rows.Next() {
		var key sql.NullString
		var gc GroupCount
		if err := rows.Scan(&key, &gc.Launches); err != nil {
			return nil, fmt.Errorf("scan booster row: %w", err)
		}
		gc.Key = key.String
		out = append(out, gc)
	}
	return out, rows.Err()
}

func (s *Store) queryRates(ctx context.Context, query string) ([]GroupRate, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query rates: %w", err)
	}
	defer rows.Close()

	var out []GroupRate
	for rows.Next() {
		var key sql.NullString
		var gr GroupRate
		if err := rows.Scan(&key, &gr.Total, &gr.Successful); err != nil {
			return nil, fmt.Errorf("scan rate row: %w", err)
		}
		gr.Key = key.String
		if gr.Total > 0 {
			gr.Rate = float64(gr.Successful) / float64(gr.Total)
		}
		out = append(out, gr)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
