package leaderboardhandlers

import (
	"context"
	"net/http"

	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/handlerwrapper"
)

// Handlers defines the leaderboard event handlers.
type Handlers interface {
	// HandleTownUsageSubmitted applies readings published by an external producer.
	HandleTownUsageSubmitted(ctx context.Context, payload *leaderboarddomain.TownUsageSubmittedPayload) ([]handlerwrapper.Result, error)

	// --- HTTP ---

	HandleHTTPGetLeaderboard(w http.ResponseWriter, r *http.Request)
	HandleHTTPGetTownRank(w http.ResponseWriter, r *http.Request)
	HandleHTTPRefresh(w http.ResponseWriter, r *http.Request)
	HandleHTTPChart(w http.ResponseWriter, r *http.Request)

	// HandleHTTPStream upgrades to a websocket and pushes every new snapshot.
	HandleHTTPStream(w http.ResponseWriter, r *http.Request)
}
