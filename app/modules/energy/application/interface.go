package energyservice

import (
	"context"

	energydomain "github.com/Black-And-White-Club/green-quest/app/modules/energy/domain"
	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
)

// Service imports monthly usage sheets into the scoreboard.
type Service interface {
	// ImportMonth reads the period's column from the electricity and gas sheets
	// and writes every town found in either one. A town that fails does not
	// stop the others.
	ImportMonth(ctx context.Context, req ImportRequest) (results.OperationResult[ImportSummary, error], error)
}

// UsageSubmitter writes one town's readings. The leaderboard service
// implements it.
type UsageSubmitter interface {
	SubmitTownUsage(ctx context.Context, usage leaderboarddomain.TownUsageSubmittedPayload) (results.OperationResult[leaderboarddomain.TownScoreRecord, error], error)
}

// ImportRequest names the month and the sheets to read. Either file may be
// empty, not both.
type ImportRequest struct {
	Period          energydomain.Period
	ElectricityFile string
	GasFile         string
}

// ImportSummary counts the towns written and lists those that were not.
type ImportSummary struct {
	Period    string        `json:"period"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Failures  []TownFailure `json:"failures,omitempty"`
}

type TownFailure struct {
	Town   string `json:"town"`
	Reason string `json:"reason"`
}
