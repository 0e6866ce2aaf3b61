package leaderboarddb

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/uptrace/bun"
)

// Repository defines the contract for scoreboard persistence. Every method takes
// an optional bun.IDB so callers can run it inside their own transaction; nil
// falls back to the repository's connection.
type Repository interface {
	// ListTownScores returns up to limit rows ordered by id.
	ListTownScores(ctx context.Context, db bun.IDB, limit int) ([]leaderboarddomain.TownScoreRecord, error)

	// GetByTownName returns ErrNotFound when the town has no row.
	GetByTownName(ctx context.Context, db bun.IDB, townName string) (*leaderboarddomain.TownScoreRecord, error)

	// Insert stores a new row and returns it with its assigned id.
	Insert(ctx context.Context, db bun.IDB, record leaderboarddomain.TownScoreRecord) (leaderboarddomain.TownScoreRecord, error)

	// Update overwrites the row with record.ID. Returns ErrNoRowsAffected if absent.
	Update(ctx context.Context, db bun.IDB, record leaderboarddomain.TownScoreRecord) error

	// Delete removes the row with id. Returns ErrNoRowsAffected if absent.
	Delete(ctx context.Context, db bun.IDB, id int64) error
}
