package profiledomain

// AnswerLetter is the recorded choice for a quiz question.
type AnswerLetter string

const (
	// AnswerNone marks a question that is assigned but not yet answered.
	AnswerNone AnswerLetter = ""
	AnswerA    AnswerLetter = "A"
	AnswerB    AnswerLetter = "B"
	AnswerC    AnswerLetter = "C"
)

// DefaultQuestionPoints is awarded when a question carries no point value.
const DefaultQuestionPoints = 1

// ChallengeQuestion is a read-only quiz question.
type ChallengeQuestion struct {
	ID      int64  `json:"id"`
	Prompt  string `json:"question_desc"`
	OptionA string `json:"option_a"`
	OptionB string `json:"option_b"`
	OptionC string `json:"option_c"`
	Answer  string `json:"-"`
	Points  int    `json:"points"`
}

// LetterFor maps an option's text to its letter.
func (q ChallengeQuestion) LetterFor(optionText string) (AnswerLetter, bool) {
	switch optionText {
	case q.OptionA:
		return AnswerA, true
	case q.OptionB:
		return AnswerB, true
	case q.OptionC:
		return AnswerC, true
	}
	return AnswerNone, false
}

// Value returns the points a correct answer is worth.
func (q ChallengeQuestion) Value() int {
	if q.Points <= 0 {
		return DefaultQuestionPoints
	}
	return q.Points
}
