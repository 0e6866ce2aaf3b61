package profiledomain

import "time"

// BadgeDefinition is an achievement and the condition that earns it.
type BadgeDefinition struct {
	ID          int64
	Name        string
	Description string
	earned      func(Ledger) bool
}

// Earned reports whether l meets the badge's condition.
func (b BadgeDefinition) Earned(l Ledger) bool {
	return b.earned(l)
}

// Badge is an awarded badge.
type Badge struct {
	BadgeID     int64     `json:"badge_id"`
	Name        string    `json:"badge_name"`
	NRIC        string    `json:"nric"`
	Description string    `json:"description"`
	AwardedAt   time.Time `json:"awarded_at"`
}

func scoreAtLeast(n int) func(Ledger) bool {
	return func(l Ledger) bool { return l.GreenScore >= n }
}

func rewardsAtLeast(n int) func(Ledger) bool {
	return func(l Ledger) bool { return len(l.ClaimedRewardIDs) >= n }
}

// BadgeCatalog lists every badge in id order.
var BadgeCatalog = []BadgeDefinition{
	{ID: 1, Name: "First Steps", Description: "Complete your first login to the platform", earned: func(Ledger) bool { return true }},
	{ID: 2, Name: "Green Novice", Description: "Reach a green score of 50 points", earned: scoreAtLeast(50)},
	{ID: 3, Name: "Green Champion", Description: "Reach a green score of 100 points", earned: scoreAtLeast(100)},
	{ID: 4, Name: "Green Legend", Description: "Reach a green score of 250 points", earned: scoreAtLeast(250)},
	{ID: 5, Name: "Reward Redeemer", Description: "Redeem your first reward", earned: rewardsAtLeast(1)},
	{ID: 6, Name: "Generous Soul", Description: "Redeem 3 or more rewards", earned: rewardsAtLeast(3)},
}

// NewlyEarned returns the badges l qualifies for that are not in owned.
func NewlyEarned(l Ledger, owned []Badge) []BadgeDefinition {
	have := make(map[int64]bool, len(owned))
	for _, b := range owned {
		have[b.BadgeID] = true
	}

	var out []BadgeDefinition
	for _, def := range BadgeCatalog {
		if !have[def.ID] && def.Earned(l) {
			out = append(out, def)
		}
	}
	return out
}
