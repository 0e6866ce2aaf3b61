package leaderboardmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating scoreboard table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS scoreboard (
					id BIGSERIAL PRIMARY KEY,
					town_name VARCHAR(100) NOT NULL UNIQUE,
					green_score DOUBLE PRECISION NOT NULL DEFAULT 0,
					gas DOUBLE PRECISION CHECK (gas >= 0),
					electricity DOUBLE PRECISION CHECK (electricity >= 0),
					recycle DOUBLE PRECISION,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_scoreboard_green_score ON scoreboard(green_score DESC);
			`); err != nil {
				return fmt.Errorf("failed to create scoreboard table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping scoreboard table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS scoreboard;`); err != nil {
			return fmt.Errorf("failed to drop scoreboard table: %w", err)
		}
		return nil
	})
}
