package leaderboarddomain

import "fmt"

// TownScoreRecord is one scoreboard row. Electricity and Gas are nil until the
// town's readings for the period land.
type TownScoreRecord struct {
	ID          int64    `json:"id"`
	TownName    string   `json:"town_name"`
	GreenScore  float64  `json:"green_score"`
	Gas         *float64 `json:"gas"`
	Electricity *float64 `json:"electricity"`
	Recycle     *float64 `json:"recycle,omitempty"`
}

// Eligible reports whether the record has both readings and can be ranked.
func (r TownScoreRecord) Eligible() bool {
	return r.Electricity != nil && r.Gas != nil
}

// Score returns a copy of an eligible record with GreenScore recomputed from its readings.
func Score(r TownScoreRecord) (TownScoreRecord, error) {
	if !r.Eligible() {
		return r, fmt.Errorf("town %q: %w", r.TownName, ErrIneligible)
	}
	score, err := ComputeGreenScore(*r.Electricity, *r.Gas)
	if err != nil {
		return r, fmt.Errorf("town %q: %w", r.TownName, err)
	}
	r.GreenScore = score
	return r, nil
}

// Reading returns a pointer to v for populating optional readings.
func Reading(v float64) *float64 {
	return &v
}
