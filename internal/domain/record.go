package domain

import "time"

// LaunchRecord is one API-origin row.
type LaunchRecord struct {
	MissionName    string   `json:"mission_name"`
	LaunchDate     string   `json:"launch_date"` // ISO-8601 with zone, as received
	RocketName     string   `json:"rocket_name"`
	PayloadMass    *float64 `json:"payload_mass,omitempty"` // kg
	Orbit          *string  `json:"orbit,omitempty"`
	LaunchSite     *string  `json:"launch_site,omitempty"`
	LandingSuccess any      `json:"landing_success,omitempty"` // bool, "True"/"False", 0/1 or nil
	Reused         *bool    `json:"reused,omitempty"`
}

// BoosterRecord is one wiki-origin row. Empty strings are missing values.
type BoosterRecord struct {
	Date           string `json:"date"` // free text, as scraped
	BoosterVersion string `json:"booster_version"`
	LaunchSite     string `json:"launch_site"`
	Payload        string `json:"payload"`
	Orbit          string `json:"orbit"`
	Customer       string `json:"customer"`
	LaunchOutcome  string `json:"launch_outcome"`
	LandingType    string `json:"landing_type"`
	LandingOutcome string `json:"landing_outcome"`
}

// TimedLaunch is a LaunchRecord whose launch date parsed successfully.
type TimedLaunch struct {
	Record LaunchRecord
	At     time.Time
}

// TimedBooster is a BoosterRecord whose date parsed successfully.
type TimedBooster struct {
	Record BoosterRecord
	At     time.Time
}

// ReconciledField holds a field present in both sources: each source's value
// and the resolved canonical value. Nil means missing.
type ReconciledField struct {
	API       *string `json:"api,omitempty"`
	Wiki      *string `json:"wiki,omitempty"`
	Canonical *string `json:"canonical,omitempty"`
}

// ReconciledRecord is one API record joined with its nearest wiki record.
type ReconciledRecord struct {
	Launch  LaunchRecord  `json:"launch"`
	Booster BoosterRecord `json:"booster"`

	// Timestamp is the API launch time. BoosterTime is the parsed wiki time
	// and is advisory only.
	Timestamp   time.Time     `json:"timestamp"`
	BoosterTime time.Time     `json:"booster_time"`
	MatchOffset time.Duration `json:"match_offset"` // BoosterTime - Timestamp

	Orbit          ReconciledField `json:"orbit"`
	LaunchSite     ReconciledField `json:"launch_site"`
	Year           int             `json:"year"`
	LandingSuccess *int            `json:"landing_success,omitempty"` // 1, 0 or nil

	ProcessedAt time.Time `json:"processed_at"`
}

// CanonicalOrbit returns the canonical orbit or "" when missing.
func (r ReconciledRecord) CanonicalOrbit() string {
	return deref(r.Orbit.Canonical)
}

// CanonicalLaunchSite returns the canonical launch site or "" when missing.
func (r ReconciledRecord) CanonicalLaunchSite() string {
	return deref(r.LaunchSite.Canonical)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
