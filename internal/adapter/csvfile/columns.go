// Package csvfile reads the two source tables and writes the reconciled table
// as CSV files.
package csvfile

// LaunchColumns is the API-origin table contract, in order.
var LaunchColumns = []string{
	"mission_name", "launch_date", "rocket_name", "payload_mass",
	"orbit", "launch_site", "landing_success", "reused",
}

// BoosterColumns is the wiki-origin table contract, in order.
var BoosterColumns = []string{
	"date", "booster_version", "launch_site", "payload", "orbit",
	"customer", "launch_outcome", "landing_type", "landing_outcome",
}

// ReconciledColumns is the output table: both source schemas, each shared field
// once per source plus its canonical value, and the derived columns.
var ReconciledColumns = []string{
	"mission_name", "launch_date", "rocket_name", "payload_mass", "landing_success", "reused",
	"date", "booster_version", "payload", "customer", "launch_outcome", "landing_type", "landing_outcome",
	"orbit_api", "orbit_wiki", "orbit",
	"launch_site_api", "launch_site_wiki", "launch_site",
	"year", "match_offset_hours",
}

// Column positions in ReconciledColumns.
const (
	colMission = iota
	colLaunchDate
	colRocket
	colPayloadMass
	colLandingSuccess
	colReused
	colDate
	colBooster
	colPayload
	colCustomer
	colLaunchOutcome
	colLandingType
	colLandingOutcome
	colOrbitAPI
	colOrbitWiki
	colOrbit
	colSiteAPI
	colSiteWiki
	colSite
	colYear
	colOffset
)
