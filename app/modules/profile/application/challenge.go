package profileservice

import (
	"context"
	"slices"

	profiledomain "github.com/Black-And-White-Club/green-quest/app/modules/profile/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LoadChallenge returns the user's assigned questions, or the first ones by id
// when none are assigned yet.
func (s *ProfileService) LoadChallenge(ctx context.Context, userID uuid.UUID) (results.OperationResult[Challenge, error], error) {
	return withTelemetry(s, ctx, "LoadChallenge", userID.String(), func(ctx context.Context) (results.OperationResult[Challenge, error], error) {
		profile, err := s.getProfile(ctx, userID)
		if err != nil {
			if isValidation(err) {
				return results.FailureResult[Challenge, error](err), nil
			}
			return results.OperationResult[Challenge, error]{}, err
		}

		assigned := profile.AssignedQuestionIDs()
		questions, err := read(s, ctx, func(ctx context.Context) ([]profiledomain.ChallengeQuestion, error) {
			return s.repo.ListQuestions(ctx, nil, assigned, s.questionsPerWeek)
		})
		if err != nil {
			return results.OperationResult[Challenge, error]{}, err
		}

		answers := make(map[int64]profiledomain.AnswerLetter, len(questions))
		for _, q := range questions {
			answers[q.ID] = profile.QuizAnswers[q.ID]
		}

		now := s.now()
		return results.SuccessResult[Challenge, error](Challenge{
			Questions:  questions,
			Answers:    answers,
			GreenScore: profile.GreenScore,
			Deadline:   profiledomain.QuizDeadline(now),
			TimeLeft:   profiledomain.TimeLeft(now),
		}), nil
	})
}

// AssignWeeklyQuiz draws questionsPerWeek random questions and assigns them,
// unanswered, to every profile.
func (s *ProfileService) AssignWeeklyQuiz(ctx context.Context) (results.OperationResult[QuizAssignment, error], error) {
	return withTelemetry(s, ctx, "AssignWeeklyQuiz", "all", func(ctx context.Context) (results.OperationResult[QuizAssignment, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[QuizAssignment, error], error) {
			ids, err := s.repo.ListQuestionIDs(ctx, db)
			if err != nil {
				return results.OperationResult[QuizAssignment, error]{}, err
			}
			if len(ids) == 0 {
				return results.FailureResult[QuizAssignment, error](ErrNoQuestions), nil
			}

			picked := s.sample(ids)
			n, err := s.repo.AssignQuiz(ctx, db, picked)
			if err != nil {
				return results.OperationResult[QuizAssignment, error]{}, err
			}

			s.logger.InfoContext(ctx, "Weekly quiz assigned",
				attr.Any("question_ids", picked),
				attr.Int("profiles", n),
				attr.ExtractCorrelationID(ctx),
			)
			return results.SuccessResult[QuizAssignment, error](QuizAssignment{QuestionIDs: picked, Profiles: n}), nil
		})
	})
}

// sample returns up to questionsPerWeek ids in ascending order.
func (s *ProfileService) sample(ids []int64) []int64 {
	pool := slices.Clone(ids)
	s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > s.questionsPerWeek {
		pool = pool[:s.questionsPerWeek]
	}
	slices.Sort(pool)
	return pool
}
