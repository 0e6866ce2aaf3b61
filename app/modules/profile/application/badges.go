package profileservice

import (
	"context"

	profiledomain "github.com/Black-And-White-Club/green-quest/app/modules/profile/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type badgesResult = results.OperationResult[[]profiledomain.Badge, error]

// GetBadges lists the user's badges, matched on NRIC.
func (s *ProfileService) GetBadges(ctx context.Context, userID uuid.UUID) (badgesResult, error) {
	return withTelemetry(s, ctx, "GetBadges", userID.String(), func(ctx context.Context) (badgesResult, error) {
		profile, err := s.getProfile(ctx, userID)
		if err != nil {
			if isValidation(err) {
				return results.FailureResult[[]profiledomain.Badge, error](err), nil
			}
			return badgesResult{}, err
		}

		badges, err := read(s, ctx, func(ctx context.Context) ([]profiledomain.Badge, error) {
			return s.repo.ListBadges(ctx, nil, profile.NRIC)
		})
		if err != nil {
			return badgesResult{}, err
		}
		return results.SuccessResult[[]profiledomain.Badge, error](badges), nil
	})
}

// CheckAndAwardBadges writes each badge the user newly qualifies for. A badge
// is held at most once per NRIC.
func (s *ProfileService) CheckAndAwardBadges(ctx context.Context, userID uuid.UUID) (badgesResult, error) {
	return withTelemetry(s, ctx, "CheckAndAwardBadges", userID.String(), func(ctx context.Context) (badgesResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (badgesResult, error) {
			profile, err := s.repo.GetProfile(ctx, db, userID)
			if err != nil {
				if err := mapNotFound(err); isValidation(err) {
					return results.FailureResult[[]profiledomain.Badge, error](err), nil
				}
				return badgesResult{}, err
			}

			owned, err := s.repo.ListBadges(ctx, db, profile.NRIC)
			if err != nil {
				return badgesResult{}, err
			}

			awarded := []profiledomain.Badge{}
			for _, def := range profiledomain.NewlyEarned(profile.Ledger, owned) {
				badge := profiledomain.Badge{
					BadgeID:     def.ID,
					Name:        def.Name,
					NRIC:        profile.NRIC,
					Description: def.Description,
					AwardedAt:   s.now(),
				}
				inserted, err := s.repo.InsertBadge(ctx, db, badge)
				if err != nil {
					return badgesResult{}, err
				}
				if inserted {
					awarded = append(awarded, badge)
				}
			}

			if len(awarded) > 0 {
				s.logger.InfoContext(ctx, "Badges awarded",
					attr.String("user_id", userID.String()),
					attr.Int("count", len(awarded)),
					attr.ExtractCorrelationID(ctx),
				)
			}
			return results.SuccessResult[[]profiledomain.Badge, error](awarded), nil
		})
	})
}

// awardBadgesAfter runs the badge check after a committed ledger change. A
// failure here never undoes the change that triggered it.
func (s *ProfileService) awardBadgesAfter(ctx context.Context, userID uuid.UUID) {
	if _, err := s.CheckAndAwardBadges(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "Badge check failed",
			attr.String("user_id", userID.String()),
			attr.Error(err),
			attr.ExtractCorrelationID(ctx),
		)
	}
}
