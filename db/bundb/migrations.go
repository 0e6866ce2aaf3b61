package bundb

import (
	"context"
	"fmt"

	authmigrations "github.com/Black-And-White-Club/green-quest/app/modules/auth/infrastructure/repositories/migrations"
	leaderboardmigrations "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/infrastructure/repositories/migrations"
	profilemigrations "github.com/Black-And-White-Club/green-quest/app/modules/profile/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// ModuleMigrator is one module's migration set. Each module keeps its own
// bookkeeping tables so groups roll back per module.
type ModuleMigrator struct {
	Module   string
	Migrator *migrate.Migrator
}

// Migrators returns every module's migrator in the order they must run.
func Migrators(db *bun.DB) []ModuleMigrator {
	sets := []struct {
		module     string
		migrations *migrate.Migrations
	}{
		{"auth", authmigrations.Migrations},
		{"leaderboard", leaderboardmigrations.Migrations},
		{"profile", profilemigrations.Migrations},
	}

	out := make([]ModuleMigrator, 0, len(sets))
	for _, s := range sets {
		out = append(out, ModuleMigrator{
			Module: s.module,
			Migrator: migrate.NewMigrator(db, s.migrations,
				migrate.WithTableName(s.module+"_migrations"),
				migrate.WithLocksTableName(s.module+"_migration_locks"),
			),
		})
	}
	return out
}

// MigrateAll initialises and applies every module's pending migrations.
func MigrateAll(ctx context.Context, db *bun.DB) error {
	for _, m := range Migrators(db) {
		if err := m.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("init %s migrations: %w", m.Module, err)
		}
		if _, err := m.Migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate %s: %w", m.Module, err)
		}
	}
	return nil
}
