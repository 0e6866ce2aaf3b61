package profilemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating profile tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS userprofile (
					id UUID PRIMARY KEY,
					nric VARCHAR(9) NOT NULL UNIQUE,
					username VARCHAR(100) NOT NULL,
					town VARCHAR(100),
					green_score INTEGER NOT NULL DEFAULT 0 CHECK (green_score >= 0),
					quiz_answers JSONB NOT NULL DEFAULT '{}'::jsonb,
					rewards BIGINT[] NOT NULL DEFAULT '{}',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create userprofile table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS challenges (
					id BIGSERIAL PRIMARY KEY,
					question_desc TEXT NOT NULL,
					option_a TEXT NOT NULL,
					option_b TEXT NOT NULL,
					option_c TEXT NOT NULL,
					answer TEXT NOT NULL,
					points INTEGER NOT NULL DEFAULT 1
				);
			`); err != nil {
				return fmt.Errorf("failed to create challenges table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS rewards (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(200) NOT NULL,
					points_required INTEGER NOT NULL CHECK (points_required >= 0),
					available BOOLEAN NOT NULL DEFAULT TRUE
				);
			`); err != nil {
				return fmt.Errorf("failed to create rewards table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS badges (
					id BIGSERIAL PRIMARY KEY,
					nric VARCHAR(9) NOT NULL,
					badge_id BIGINT NOT NULL,
					badge_name VARCHAR(100) NOT NULL,
					description TEXT,
					awarded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE (nric, badge_id)
				);
				CREATE INDEX IF NOT EXISTS idx_badges_nric_lower ON badges(LOWER(nric));
			`); err != nil {
				return fmt.Errorf("failed to create badges table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping profile tables...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS badges, rewards, challenges, userprofile;`); err != nil {
			return fmt.Errorf("failed to drop profile tables: %w", err)
		}
		return nil
	})
}
