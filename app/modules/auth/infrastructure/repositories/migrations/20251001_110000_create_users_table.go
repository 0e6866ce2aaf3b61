package authmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating users table...")

		if _, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY,
				nric VARCHAR(9) NOT NULL UNIQUE,
				password_hash BYTEA NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`); err != nil {
			return fmt.Errorf("failed to create users table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping users table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS users;`); err != nil {
			return fmt.Errorf("failed to drop users table: %w", err)
		}
		return nil
	})
}
