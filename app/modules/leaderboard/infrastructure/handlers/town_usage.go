package leaderboardhandlers

import (
	"context"
	"fmt"

	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
)

// HandleTownUsageSubmitted writes the readings through the service, which
// publishes the scoreboard change itself. Rejected submissions are answered on
// TownUsageRejectedV1; infrastructure errors are returned so the router retries.
func (h *LeaderboardHandlers) HandleTownUsageSubmitted(ctx context.Context, payload *leaderboarddomain.TownUsageSubmittedPayload) ([]handlerwrapper.Result, error) {
	result, err := h.service.SubmitTownUsage(ctx, *payload)
	if err != nil {
		return nil, fmt.Errorf("failed to submit usage for %q: %w", payload.TownName, err)
	}

	if result.IsFailure() {
		reason := (*result.Failure).Error()
		h.logger.WarnContext(ctx, "Town usage rejected",
			attr.ExtractCorrelationID(ctx),
			attr.String("town_name", payload.TownName),
			attr.String("reason", reason),
		)
		return []handlerwrapper.Result{{
			Topic: leaderboarddomain.TownUsageRejectedV1,
			Payload: leaderboarddomain.TownUsageRejectedPayload{
				TownName: payload.TownName,
				Reason:   reason,
			},
		}}, nil
	}

	return nil, nil
}
