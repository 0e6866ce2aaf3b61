package energy

import (
	"context"
	"fmt"

	energyservice "github.com/Black-And-White-Club/green-quest/app/modules/energy/application"
	energyparsers "github.com/Black-And-White-Club/green-quest/app/modules/energy/infrastructure/parsers"
	energyqueue "github.com/Black-And-White-Club/green-quest/app/modules/energy/infrastructure/queue"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability"
	"github.com/Black-And-White-Club/green-quest/app/shared/queue"
	"github.com/Black-And-White-Club/green-quest/config"
)

// Module imports monthly usage sheets through the leaderboard.
type Module struct {
	EnergyService energyservice.Service
	config        *config.Config
	observability observability.Observability
}

// NewEnergyModule creates the energy module. submitter is normally the
// leaderboard service.
func NewEnergyModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	submitter energyservice.UsageSubmitter,
) (*Module, error) {
	obs.Logger.InfoContext(ctx, "energy.NewEnergyModule called")

	recorder, err := obs.Metrics("energy")
	if err != nil {
		return nil, fmt.Errorf("failed to register energy metrics: %w", err)
	}

	service := energyservice.NewEnergyService(
		submitter,
		energyparsers.NewFactory(),
		obs.Logger,
		recorder,
		obs.Tracer,
	)

	return &Module{
		EnergyService: service,
		config:        cfg,
		observability: obs,
	}, nil
}

// QueueRegistration adds the import worker and, when sheets are configured,
// the monthly import.
func (m *Module) QueueRegistration() queue.Registration {
	return energyqueue.Register(m.EnergyService, m.observability.Logger, m.config.Energy.ElectricityFile, m.config.Energy.GasFile)
}
