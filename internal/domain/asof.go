package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// DefaultTolerance is the widest gap between matched API and wiki timestamps.
const DefaultTolerance = 30 * 24 * time.Hour

// ErrUnsorted is returned by AsofJoin when an input is not ascending by time.
var ErrUnsorted = errors.New("asof join input not sorted by timestamp")

// Match pairs an API record with the wiki record nearest to it in time.
type Match struct {
	Launch  TimedLaunch
	Booster TimedBooster
}

// Offset is the wiki time minus the API time.
func (m Match) Offset() time.Duration {
	return m.Booster.At.Sub(m.Launch.At)
}

// SortLaunches orders launches by time, keeping input order among equals.
func SortLaunches(launches []TimedLaunch) {
	slices.SortStableFunc(launches, func(a, b TimedLaunch) int { return a.At.Compare(b.At) })
}

// SortBoosters orders boosters by time, keeping input order among equals.
func SortBoosters(boosters []TimedBooster) {
	slices.SortStableFunc(boosters, func(a, b TimedBooster) int { return a.At.Compare(b.At) })
}

// AsofJoin matches every launch to the booster closest in time, provided the
// absolute gap is at most tolerance. On a tie the earlier booster wins; among
// boosters sharing a timestamp the leftmost wins. Launches with no booster in
// the window produce no match. A booster may match several launches.
//
// Both inputs must be sorted ascending. The sweep advances a single cursor over
// boosters, so the cost is linear in len(launches)+len(boosters).
func AsofJoin(launches []TimedLaunch, boosters []TimedBooster, tolerance time.Duration) ([]Match, error) {
	if err := checkSorted(launches, boosters); err != nil {
		return nil, err
	}
	if len(launches) == 0 || len(boosters) == 0 {
		return nil, nil
	}

	// runStart[i] is the first index of the run of equal timestamps holding i.
	runStart := make([]int, len(boosters))
	for i := range boosters {
		if i > 0 && boosters[i].At.Equal(boosters[i-1].At) {
			runStart[i] = runStart[i-1]
		} else {
			runStart[i] = i
		}
	}

	matches := make([]Match, 0, len(launches))
	next := 0 // first booster with At >= current launch time
	for _, launch := range launches {
		for next < len(boosters) && boosters[next].At.Before(launch.At) {
			next++
		}

		best, bestGap := -1, time.Duration(0)
		if next > 0 {
			best = runStart[next-1]
			bestGap = launch.At.Sub(boosters[best].At)
		}
		if next < len(boosters) {
			gap := boosters[next].At.Sub(launch.At)
			if best < 0 || gap < bestGap {
				best, bestGap = next, gap
			}
		}

		if best < 0 || bestGap > tolerance {
			continue
		}
		matches = append(matches, Match{Launch: launch, Booster: boosters[best]})
	}
	return matches, nil
}

func checkSorted(launches []TimedLaunch, boosters []TimedBooster) error {
	for i := 1; i < len(launches); i++ {
		if launches[i].At.Before(launches[i-1].At) {
			return fmt.Errorf("launches at index %d: %w", i, ErrUnsorted)
		}
	}
	for i := 1; i < len(boosters); i++ {
		if boosters[i].At.Before(boosters[i-1].At) {
			return fmt.Errorf("boosters at index %d: %w", i, ErrUnsorted)
		}
	}
	return nil
}
