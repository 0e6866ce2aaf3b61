package energyintegrationtests

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	energyservice "github.com/Black-And-White-Club/green-quest/app/modules/energy/application"
	energydomain "github.com/Black-And-White-Club/green-quest/app/modules/energy/domain"
	energyparsers "github.com/Black-And-White-Club/green-quest/app/modules/energy/infrastructure/parsers"
	leaderboardservice "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/application"
	leaderboardrealtime "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/infrastructure/realtime"
	leaderboarddb "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/green-quest/integration_tests/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportMonth_WritesScoreboard(t *testing.T) {
	env := testutils.GetTestEnv(t)
	ctx, cancel := context.WithTimeout(env.Ctx, 30*time.Second)
	defer cancel()

	logger, tracer := env.Observability.Logger, env.Observability.Tracer
	leaderboard := leaderboardservice.NewLeaderboardService(
		leaderboarddb.NewRepository(env.DB),
		leaderboardservice.NewView(logger),
		leaderboardrealtime.NewPublisher(env.EventBus, logger),
		logger,
		metrics.NewNoop(),
		tracer,
		env.DB,
		env.Config.Persistence.Timeout,
	)
	energy := energyservice.NewEnergyService(leaderboard, energyparsers.NewFactory(), logger, metrics.NewNoop(), tracer)

	dir := t.TempDir()
	elec := filepath.Join(dir, "electricity.csv")
	gas := filepath.Join(dir, "gas.csv")
	require.NoError(t, os.WriteFile(elec, []byte("Town,2024.2,2024.3\nBedok,400,410\nTampines,300,1200\nYishun,100,-\n"), 0o600))
	require.NoError(t, os.WriteFile(gas, []byte("Town,2024.3\nBedok,0\nTampines,70\n"), 0o600))

	result, err := energy.ImportMonth(ctx, energyservice.ImportRequest{
		Period:          energydomain.Period{Year: 2024, Month: time.March},
		ElectricityFile: elec,
		GasFile:         gas,
	})
	require.NoError(t, err)
	require.True(t, result.IsSuccess(), "import: %v", result.Failure)
	assert.Equal(t, 2, result.Success.Succeeded)
	assert.Equal(t, 0, result.Success.Failed)

	snap, err := leaderboard.Refresh(ctx)
	require.NoError(t, err)
	records := snap.Success.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "Bedok", records[0].TownName)
	assert.Equal(t, 70.3, records[0].GreenScore)
}
