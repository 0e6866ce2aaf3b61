package leaderboarddb

import (
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/uptrace/bun"
)

// TownScore is one row of the scoreboard table.
type TownScore struct {
	bun.BaseModel `bun:"table:scoreboard,alias:sb"`

	ID          int64     `bun:"id,pk,autoincrement"`
	TownName    string    `bun:"town_name,notnull,unique"`
	GreenScore  float64   `bun:"green_score,notnull,default:0"`
	Gas         *float64  `bun:"gas"`
	Electricity *float64  `bun:"electricity"`
	Recycle     *float64  `bun:"recycle"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (m *TownScore) toDomain() leaderboarddomain.TownScoreRecord {
	return leaderboarddomain.TownScoreRecord{
		ID:          m.ID,
		TownName:    m.TownName,
		GreenScore:  m.GreenScore,
		Gas:         m.Gas,
		Electricity: m.Electricity,
		Recycle:     m.Recycle,
	}
}

func fromDomain(r leaderboarddomain.TownScoreRecord) *TownScore {
	return &TownScore{
		ID:          r.ID,
		TownName:    r.TownName,
		GreenScore:  r.GreenScore,
		Gas:         r.Gas,
		Electricity: r.Electricity,
		Recycle:     r.Recycle,
	}
}
