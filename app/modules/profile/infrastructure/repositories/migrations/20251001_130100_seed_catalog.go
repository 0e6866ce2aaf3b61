package profilemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Seeding challenge questions and rewards...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO challenges (question_desc, option_a, option_b, option_c, answer, points) VALUES
				('Which light bulb uses the least electricity?', 'LED', 'Halogen', 'Incandescent', 'LED', 10),
				('What temperature setting saves the most energy on an air-conditioner?', '18°C', '21°C', '25°C', '25°C', 10),
				('Which bin should a clean plastic bottle go into?', 'General waste', 'Blue recycling bin', 'Food waste', 'Blue recycling bin', 5),
				('Unplugging idle chargers mainly reduces what?', 'Standby power', 'Water usage', 'Gas usage', 'Standby power', 5),
				('Which cooking method usually uses the least gas?', 'Boiling uncovered', 'Boiling with a lid', 'Deep frying', 'Boiling with a lid', 5),
				('A 5-tick energy label means the appliance is…', 'Least efficient', 'Most efficient', 'Imported', 'Most efficient', 10),
				('Which of these can NOT go into the recycling bin?', 'Newspaper', 'Aluminium can', 'Used tissue', 'Used tissue', 5)
				ON CONFLICT DO NOTHING;
			`); err != nil {
				return fmt.Errorf("failed to seed challenges: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO rewards (name, points_required, available) VALUES
				('Reusable tote bag', 20, TRUE),
				('$5 grocery voucher', 50, TRUE),
				('Stainless steel straw set', 30, TRUE),
				('$10 utilities rebate', 100, TRUE)
				ON CONFLICT DO NOTHING;
			`); err != nil {
				return fmt.Errorf("failed to seed rewards: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Removing seeded catalog...")

		if _, err := db.ExecContext(ctx, `TRUNCATE challenges, rewards RESTART IDENTITY;`); err != nil {
			return fmt.Errorf("failed to clear seeded catalog: %w", err)
		}
		return nil
	})
}
