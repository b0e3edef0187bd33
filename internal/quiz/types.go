package quiz

import "fmt"

const (
	// QuestionCount is the fixed quiz length.
	QuestionCount = 5

	// OptionCount is the fixed number of options per question.
	OptionCount = 4

	// GoodFitThreshold is the minimum correct count for a good-fit verdict.
	GoodFitThreshold = 4
)

// Question is a single multiple-choice quiz question.
type Question struct {
	// Text is the question prompt shown to the student.
	Text string

	// Options holds exactly 4 distinct answer options.
	Options []string

	// CorrectIndex is the index of the correct option, in [0,3].
	CorrectIndex int
}

// Session tracks one student's quiz over a single domain.
// Questions are set once at generation and never mutated; UserAnswers
// grows by one entry per answered question, and its length is the
// implicit cursor for the current question.
type Session struct {
	// PredictedDomain is the domain suggested by an external source.
	PredictedDomain string

	// InterestedDomain is the domain the student chose to be quizzed on.
	InterestedDomain string

	// Questions is the generated quiz, exactly 5 entries once set.
	Questions []Question

	// UserAnswers holds the chosen option index per answered question.
	UserAnswers []int
}

// QuizDomain returns the domain this quiz runs against: the student's
// interested domain when chosen, otherwise the predicted one.
func (s *Session) QuizDomain() string {
	if s.InterestedDomain != "" {
		return s.InterestedDomain
	}
	return s.PredictedDomain
}

// CurrentIndex returns the index of the next unanswered question.
func (s *Session) CurrentIndex() int {
	return len(s.UserAnswers)
}

// Complete reports whether every question has been answered.
func (s *Session) Complete() bool {
	return len(s.Questions) > 0 && len(s.UserAnswers) == len(s.Questions)
}

// RecordAnswer appends the chosen option index for the current question.
// The caller is responsible for calling in question order, exactly once
// per question.
func (s *Session) RecordAnswer(optionIndex int) error {
	cur := s.CurrentIndex()
	if cur >= len(s.Questions) {
		return fmt.Errorf("all %d questions already answered", len(s.Questions))
	}
	if optionIndex < 0 || optionIndex >= len(s.Questions[cur].Options) {
		return fmt.Errorf("option index %d out of range for question %d", optionIndex, cur+1)
	}
	s.UserAnswers = append(s.UserAnswers, optionIndex)
	return nil
}

// Breakdown is the per-question portion of a quiz analysis.
type Breakdown struct {
	QuestionText  string
	UserAnswer    string
	CorrectAnswer string
	Justification string
	IsCorrect     bool
}

// Analysis is the structured performance analysis for a completed quiz.
type Analysis struct {
	Headline        string
	OverallFeedback string
	Breakdown       []Breakdown // exactly 5, in original question order
	NextSteps       string
}

// Score returns the number of correct answers in the breakdown.
func (a *Analysis) Score() int {
	n := 0
	for _, b := range a.Breakdown {
		if b.IsCorrect {
			n++
		}
	}
	return n
}
