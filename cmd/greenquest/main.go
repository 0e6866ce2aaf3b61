package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Black-And-White-Club/green-quest/app"
	energyservice "github.com/Black-And-White-Club/green-quest/app/modules/energy/application"
	energydomain "github.com/Black-And-White-Club/green-quest/app/modules/energy/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/config"
	"github.com/Black-And-White-Club/green-quest/db/bundb"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "greenquest",
		Usage: "Green Quest backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", EnvVars: []string{"CONFIG_PATH"}, Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			importCommand(),
			assignQuizCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withApp builds the application, hands it to fn and closes it afterwards.
func withApp(c *cli.Context, fn func(application *app.App) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	obs := observability.New(cfg.Observability)

	ctx, cancel := app.SignalContext(c.Context)
	defer cancel()
	c.Context = ctx

	application, err := app.NewApp(ctx, cfg, obs)
	if err != nil {
		return err
	}
	defer application.Close()

	return fn(application)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the API, event handlers and background jobs",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "apply pending database migrations first"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(application *app.App) error {
				if c.Bool("migrate") {
					if err := bundb.MigrateAll(c.Context, application.DB); err != nil {
						return err
					}
					application.Observability.Logger.InfoContext(c.Context, "Migrations applied")
				}
				return application.Run(c.Context)
			})
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "import one month of town electricity and gas usage",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "period", Value: "last month", Usage: `"YYYY.M" or a relative date such as "2 months ago"`},
			&cli.StringFlag{Name: "electricity", Usage: "electricity sheet (.csv or .xlsx); defaults to energy.electricity_file"},
			&cli.StringFlag{Name: "gas", Usage: "gas sheet (.csv or .xlsx); defaults to energy.gas_file"},
		},
		Action: func(c *cli.Context) error {
			period, err := energydomain.ParsePeriod(c.String("period"), time.Now())
			if err != nil {
				return err
			}
			return withApp(c, func(application *app.App) error {
				req := energyservice.ImportRequest{
					Period:          period,
					ElectricityFile: firstNonEmpty(c.String("electricity"), application.Config.Energy.ElectricityFile),
					GasFile:         firstNonEmpty(c.String("gas"), application.Config.Energy.GasFile),
				}
				result, err := application.Modules.Energy.EnergyService.ImportMonth(c.Context, req)
				if err != nil {
					return err
				}
				if result.IsFailure() {
					return *result.Failure
				}
				return printJSON(result.Success)
			})
		},
	}
}

func assignQuizCommand() *cli.Command {
	return &cli.Command{
		Name:  "assign-quiz",
		Usage: "give every profile a new set of weekly quiz questions",
		Action: func(c *cli.Context) error {
			return withApp(c, func(application *app.App) error {
				result, err := application.Modules.Profile.ProfileService.AssignWeeklyQuiz(c.Context)
				if err != nil {
					return err
				}
				if result.IsFailure() {
					return *result.Failure
				}
				application.Observability.Logger.InfoContext(c.Context, "Weekly quiz assigned",
					attr.Any("question_ids", result.Success.QuestionIDs),
				)
				return printJSON(result.Success)
			})
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
