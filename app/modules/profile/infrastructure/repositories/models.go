package profiledb

import (
	"time"

	profiledomain "github.com/Black-And-White-Club/green-quest/app/modules/profile/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserProfile is one row of the userprofile table. A nil answer marks a
// question that is assigned but unanswered.
type UserProfile struct {
	bun.BaseModel `bun:"table:userprofile,alias:up"`

	ID          uuid.UUID         `bun:"id,pk,type:uuid"`
	NRIC        string            `bun:"nric,notnull,unique"`
	Username    string            `bun:"username,notnull"`
	Town        string            `bun:"town"`
	GreenScore  int               `bun:"green_score,notnull,default:0"`
	QuizAnswers map[int64]*string `bun:"quiz_answers,type:jsonb,notnull"`
	Rewards     []int64           `bun:"rewards,array,notnull"`
	CreatedAt   time.Time         `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time         `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Challenge is one row of the challenges table.
type Challenge struct {
	bun.BaseModel `bun:"table:challenges,alias:ch"`

	ID           int64  `bun:"id,pk,autoincrement"`
	QuestionDesc string `bun:"question_desc,notnull"`
	OptionA      string `bun:"option_a,notnull"`
	OptionB      string `bun:"option_b,notnull"`
	OptionC      string `bun:"option_c,notnull"`
	Answer       string `bun:"answer,notnull"`
	Points       int    `bun:"points,notnull,default:1"`
}

// RewardRow is one row of the rewards table.
type RewardRow struct {
	bun.BaseModel `bun:"table:rewards,alias:rw"`

	ID             int64  `bun:"id,pk,autoincrement"`
	Name           string `bun:"name,notnull"`
	PointsRequired int    `bun:"points_required,notnull"`
	Available      bool   `bun:"available,notnull,default:true"`
}

// BadgeRow is one row of the badges table.
type BadgeRow struct {
	bun.BaseModel `bun:"table:badges,alias:bg"`

	ID          int64     `bun:"id,pk,autoincrement"`
	NRIC        string    `bun:"nric,notnull"`
	BadgeID     int64     `bun:"badge_id,notnull"`
	BadgeName   string    `bun:"badge_name,notnull"`
	Description string    `bun:"description"`
	AwardedAt   time.Time `bun:"awarded_at,nullzero,notnull,default:current_timestamp"`
}

func (m *UserProfile) toDomain() profiledomain.Profile {
	answers := make(map[int64]profiledomain.AnswerLetter, len(m.QuizAnswers))
	for id, letter := range m.QuizAnswers {
		if letter == nil {
			answers[id] = profiledomain.AnswerNone
			continue
		}
		answers[id] = profiledomain.AnswerLetter(*letter)
	}
	return profiledomain.Profile{
		Ledger: profiledomain.Ledger{
			UserID:           m.ID,
			NRIC:             m.NRIC,
			GreenScore:       m.GreenScore,
			QuizAnswers:      answers,
			ClaimedRewardIDs: append([]int64(nil), m.Rewards...),
		},
		Username: m.Username,
		Town:     m.Town,
	}
}

func encodeAnswers(answers map[int64]profiledomain.AnswerLetter) map[int64]*string {
	out := make(map[int64]*string, len(answers))
	for id, letter := range answers {
		if letter == profiledomain.AnswerNone {
			out[id] = nil
			continue
		}
		s := string(letter)
		out[id] = &s
	}
	return out
}

func encodeRewards(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func (m *Challenge) toDomain() profiledomain.ChallengeQuestion {
	return profiledomain.ChallengeQuestion{
		ID:      m.ID,
		Prompt:  m.QuestionDesc,
		OptionA: m.OptionA,
		OptionB: m.OptionB,
		OptionC: m.OptionC,
		Answer:  m.Answer,
		Points:  m.Points,
	}
}

func (m *RewardRow) toDomain() profiledomain.Reward {
	return profiledomain.Reward{
		ID:             m.ID,
		Name:           m.Name,
		PointsRequired: m.PointsRequired,
		Available:      m.Available,
	}
}

func (m *BadgeRow) toDomain() profiledomain.Badge {
	return profiledomain.Badge{
		BadgeID:     m.BadgeID,
		Name:        m.BadgeName,
		NRIC:        m.NRIC,
		Description: m.Description,
		AwardedAt:   m.AwardedAt,
	}
}
