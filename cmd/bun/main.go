package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Black-And-White-Club/green-quest/config"
	"github.com/Black-And-White-Club/green-quest/db/bundb"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "green-quest database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			newMultiModuleDBCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withMigrators loads the config, opens the database and hands every module's
// migrator to fn.
func withMigrators(c *cli.Context, fn func(migrators []bundb.ModuleMigrator) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	db, err := bundb.Open(c.Context, cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(bundb.Migrators(db))
}

func findMigrator(migrators []bundb.ModuleMigrator, module string) (bundb.ModuleMigrator, error) {
	for _, m := range migrators {
		if m.Module == module {
			return m, nil
		}
	}
	return bundb.ModuleMigrator{}, fmt.Errorf("invalid module name: %q", module)
}

func newMultiModuleDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(migrators []bundb.ModuleMigrator) error {
						for _, m := range migrators {
							fmt.Printf("Initializing migrations for module: %s\n", m.Module)
							if err := m.Migrator.Init(c.Context); err != nil {
								return fmt.Errorf("module %s: %w", m.Module, err)
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(migrators []bundb.ModuleMigrator) error {
						for _, m := range migrators {
							group, err := m.Migrator.Migrate(c.Context)
							if err != nil {
								return fmt.Errorf("module %s: %w", m.Module, err)
							}
							if group.IsZero() {
								fmt.Printf("No new migrations to run for module: %s\n", m.Module)
							} else {
								fmt.Printf("Migrated module: %s to %s\n", m.Module, group)
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(migrators []bundb.ModuleMigrator) error {
						// Reverse order, so dependants roll back first.
						for i := len(migrators) - 1; i >= 0; i-- {
							m := migrators[i]
							group, err := m.Migrator.Rollback(c.Context)
							if err != nil {
								return fmt.Errorf("module %s: %w", m.Module, err)
							}
							if group.IsZero() {
								fmt.Printf("No groups to roll back for module: %s\n", m.Module)
							} else {
								fmt.Printf("Rolled back module: %s to %s\n", m.Module, group)
							}
						}
						return nil
					})
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(migrators []bundb.ModuleMigrator) error {
						m, err := findMigrator(migrators, c.Args().First())
						if err != nil {
							return err
						}
						name := strings.Join(c.Args().Tail(), "_")
						mf, err := m.Migrator.CreateGoMigration(c.Context, name)
						if err != nil {
							return err
						}
						fmt.Printf("Created migration for module %s: %s (%s)\n", m.Module, mf.Name, mf.Path)
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(migrators []bundb.ModuleMigrator) error {
						for _, m := range migrators {
							ms, err := m.Migrator.MigrationsWithStatus(c.Context)
							if err != nil {
								return fmt.Errorf("module %s: %w", m.Module, err)
							}
							fmt.Printf("Migrations for module: %s\n", m.Module)
							fmt.Printf("  Applied: %s\n", ms.Applied())
							fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
						}
						return nil
					})
				},
			},
		},
	}
}
