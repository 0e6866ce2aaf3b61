package leaderboarddomain

import (
	"cmp"
	"slices"
)

// Tier is a cosmetic rank band derived from leaderboard position.
type Tier string

const (
	TierChampion Tier = "CHAMPION"
	TierDiamond  Tier = "DIAMOND"
	TierGold     Tier = "GOLD"
	TierSilver   Tier = "SILVER"
	TierUntiered Tier = "UNTIERED"
)

// TierAt maps a zero-based leaderboard index to its tier.
func TierAt(index int) Tier {
	switch {
	case index < 0:
		return TierUntiered
	case index == 0:
		return TierChampion
	case index == 1:
		return TierDiamond
	case index <= 4:
		return TierGold
	case index <= 9:
		return TierSilver
	default:
		return TierUntiered
	}
}

// TierOf maps a 1-based rank to its tier.
func TierOf(rank int) Tier {
	if rank <= 0 {
		return TierUntiered
	}
	return TierAt(rank - 1)
}

// SortByScore orders records by green score, highest first. Records with equal
// scores keep their relative order.
func SortByScore(records []TownScoreRecord) {
	slices.SortStableFunc(records, func(a, b TownScoreRecord) int {
		return cmp.Compare(b.GreenScore, a.GreenScore)
	})
}
