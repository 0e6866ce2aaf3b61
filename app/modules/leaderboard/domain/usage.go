package leaderboarddomain

import "fmt"

// ApplyUsage merges the submitted readings into r and refreshes its stored
// score. Readings absent from the submission keep their current value.
func ApplyUsage(r TownScoreRecord, u TownUsageSubmittedPayload) (TownScoreRecord, error) {
	if u.Electricity != nil {
		r.Electricity = Reading(*u.Electricity)
	}
	if u.Gas != nil {
		r.Gas = Reading(*u.Gas)
	}
	if u.Recycle != nil {
		if err := ValidateReading(*u.Recycle); err != nil {
			return r, fmt.Errorf("town %q recycle: %w", r.TownName, err)
		}
		r.Recycle = Reading(*u.Recycle)
	}

	score, err := StoredGreenScore(r.Electricity, r.Gas)
	if err != nil {
		return r, fmt.Errorf("town %q: %w", r.TownName, err)
	}
	r.GreenScore = score
	return r, nil
}
