// Package testutils starts the Postgres and NATS containers shared by the
// integration tests.
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/green-quest/app/eventbus"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability"
	"github.com/Black-And-White-Club/green-quest/config"
	"github.com/Black-And-White-Club/green-quest/db/bundb"
	"github.com/Black-And-White-Club/green-quest/integration_tests/containers"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Tables emptied between tests. The seeded quiz and reward catalog stays.
var resetTables = []string{"badges", "userprofile", "users", "scoreboard"}

// TestEnvironment holds everything an integration test needs.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer testcontainers.Container
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Config        *config.Config
	Observability observability.Observability
}

var (
	sharedEnv     *TestEnvironment
	sharedEnvOnce sync.Once
	sharedEnvErr  error
)

// GetTestEnv returns the environment shared by every test in the binary,
// starting it on first use. Set SKIP_INTEGRATION=1 to skip.
func GetTestEnv(t *testing.T) *TestEnvironment {
	t.Helper()
	if os.Getenv("SKIP_INTEGRATION") != "" || testing.Short() {
		t.Skip("integration tests disabled")
	}

	sharedEnvOnce.Do(func() {
		sharedEnv, sharedEnvErr = NewTestEnvironment()
	})
	if sharedEnvErr != nil {
		t.Fatalf("test environment initialization failed: %v", sharedEnvErr)
	}

	resetCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sharedEnv.Reset(resetCtx); err != nil {
		t.Fatalf("failed to reset environment: %v", err)
	}
	return sharedEnv
}

// NewTestEnvironment starts Postgres and NATS, applies every migration and
// connects the event bus.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())
	os.Setenv("APP_ENV", "test")

	env := &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
		Observability: observability.Observability{
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
			Tracer: observability.NewNoop().Tracer,
		},
	}

	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to setup nats container: %w", err)
	}
	env.NatsContainer = natsContainer

	env.Config = &config.Config{
		Postgres:    config.PostgresConfig{DSN: pgConnStr},
		NATS:        config.NATSConfig{URL: natsURL},
		JWT:         config.JWTConfig{Secret: "integration-secret", DefaultTTL: time.Hour},
		Persistence: config.PersistenceConfig{Timeout: config.DefaultPersistenceTimeout},
		Challenge:   config.ChallengeConfig{QuestionsPerWeek: config.DefaultQuestionsPerWeek},
	}

	sqlDB, err := sql.Open("pgx", pgConnStr)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	env.DB = bundb.BunDB(sqlDB)

	if err := bundb.MigrateAll(ctx, env.DB); err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	eb, err := eventbus.NewEventBus(ctx, eventbus.Options{URL: natsURL}, env.Observability.Logger)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	env.EventBus = eb

	if err := eventbus.InitializeStreams(ctx, eb); err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to create streams: %w", err)
	}
	return env, nil
}

// Reset empties the per-test tables.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	for _, table := range resetTables {
		if _, err := env.DB.NewTruncateTable().TableExpr(table).Cascade().Exec(ctx); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// Cleanup closes connections and terminates the containers.
func (env *TestEnvironment) Cleanup() {
	ctx := context.Background()
	if env.EventBus != nil {
		_ = env.EventBus.Close()
	}
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.NatsContainer != nil {
		_ = env.NatsContainer.Terminate(ctx)
	}
	if env.PgContainer != nil {
		_ = env.PgContainer.Terminate(ctx)
	}
	env.CancelContext()
}
