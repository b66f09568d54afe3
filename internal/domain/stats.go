package domain

// SuccessStats counts landings whose outcome is known.
type SuccessStats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
}

// Rate returns Successful/Total, or 0 when nothing was counted.
func (s SuccessStats) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.Total)
}

// SuccessRate aggregates landing outcomes. Records with a missing outcome are
// skipped, not counted as failures.
func SuccessRate(records []ReconciledRecord) SuccessStats {
	var s SuccessStats
	for _, r := range records {
		s.add(r)
	}
	return s
}

// SuccessRateBy aggregates landing outcomes per group key.
func SuccessRateBy(records []ReconciledRecord, key func(ReconciledRecord) string) map[string]SuccessStats {
	out := make(map[string]SuccessStats)
	for _, r := range records {
		if r.LandingSuccess == nil {
			continue
		}
		k := key(r)
		s := out[k]
		s.add(r)
		out[k] = s
	}
	return out
}

func (s *SuccessStats) add(r ReconciledRecord) {
	if r.LandingSuccess == nil {
		return
	}
	s.Total++
	s.Successful += *r.LandingSuccess
}
