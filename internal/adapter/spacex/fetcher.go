package spacex

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/launch-data-etl/internal/domain"
)

// LaunchLister lists raw launches.
type LaunchLister interface {
	Launches(ctx context.Context) ([]Launch, error)
}

// Fetcher builds the API-origin launch table. It implements
// pipeline.LaunchSource.
type Fetcher struct {
	launches LaunchLister
	lookup   Lookup
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher. Pass a CachedLookup to resolve each id once.
func NewFetcher(launches LaunchLister, lookup Lookup, logger *slog.Logger) *Fetcher {
	return &Fetcher{launches: launches, lookup: lookup, logger: logger}
}

// LoadLaunches fetches every launch and resolves its rocket, first payload,
// launchpad and first core. Any failed lookup aborts the fetch.
func (f *Fetcher) LoadLaunches(ctx context.Context) ([]domain.LaunchRecord, error) {
	launches, err := f.launches.Launches(ctx)
	if err != nil {
		return nil, err
	}
	f.logger.Info("launches fetched", "count", len(launches))

	out := make([]domain.LaunchRecord, 0, len(launches))
	for _, l := range launches {
		rec, err := f.resolve(ctx, l)
		if err != nil {
			return nil, fmt.Errorf("launch %q: %w", l.Name, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *Fetcher) resolve(ctx context.Context, l Launch) (domain.LaunchRecord, error) {
	rec := domain.LaunchRecord{
		MissionName: l.Name,
		LaunchDate:  l.DateUTC,
	}

	if l.Rocket != "" {
		rocket, err := f.lookup.Rocket(ctx, l.Rocket)
		if err != nil {
			return rec, err
		}
		rec.RocketName = rocket.Name
	}

	if len(l.Payloads) > 0 {
		payload, err := f.lookup.Payload(ctx, l.Payloads[0])
		if err != nil {
			return rec, err
		}
		rec.PayloadMass = payload.MassKg
		if payload.Orbit != nil {
			rec.Orbit = domain.TextOrNil(*payload.Orbit)
		}
	}

	if l.Launchpad != "" {
		pad, err := f.lookup.Launchpad(ctx, l.Launchpad)
		if err != nil {
			return rec, err
		}
		rec.LaunchSite = domain.TextOrNil(pad.Name)
	}

	if len(l.Cores) > 0 && l.Cores[0] != nil {
		core := l.Cores[0]
		if core.LandingSuccess != nil {
			rec.LandingSuccess = *core.LandingSuccess
		}
		rec.Reused = core.Reused
	}
	return rec, nil
}
