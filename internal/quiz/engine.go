// Package quiz generates fixed-size domain aptitude quizzes and computes
// structured performance analyses with a fit verdict.
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/disha/internal/llm"
)

// ErrMalformed marks responses that came back from the provider but did not
// have the required shape. Callers use it to tell recoverable generation
// problems apart from transport failures.
var ErrMalformed = errors.New("malformed quiz response")

// Config holds tunables for quiz LLM calls.
type Config struct {
	GenerateMaxTokens int
	AnalyzeMaxTokens  int
	Temperature       float64
}

// DefaultConfig returns the default quiz engine config.
func DefaultConfig() Config {
	return Config{
		GenerateMaxTokens: 2048,
		AnalyzeMaxTokens:  2048,
		Temperature:       0.7,
	}
}

// Engine generates quizzes and analyzes completed sessions using the LLM.
type Engine struct {
	provider llm.Provider
	cfg      Config
}

// New creates a quiz engine with the given provider and config.
func New(provider llm.Provider, cfg Config) *Engine {
	return &Engine{provider: provider, cfg: cfg}
}

type questionOutput struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
}

type quizOutput struct {
	Questions []questionOutput `json:"questions"`
}

// Generate produces the fixed 5-question quiz for a domain.
// Any shape deviation in the response — wrong question count, wrong
// option count, duplicate options, index out of range — is a hard error;
// no partial quiz is ever returned.
func (e *Engine) Generate(ctx context.Context, domain string) ([]Question, error) {
	ctx = llm.WithPurpose(ctx, "quiz-gen")

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      generateSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: generateUserMessage(domain)}},
		Schema:      QuizSchema,
		MaxTokens:   e.cfg.GenerateMaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz generation for %q: %w", domain, err)
	}

	var out quizOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("%w: parse quiz response: %v", ErrMalformed, err)
	}

	if len(out.Questions) != QuestionCount {
		return nil, fmt.Errorf("%w: %d questions, want %d", ErrMalformed, len(out.Questions), QuestionCount)
	}

	questions := make([]Question, 0, QuestionCount)
	for i, q := range out.Questions {
		if len(q.Options) != OptionCount {
			return nil, fmt.Errorf("%w: question %d has %d options, want %d", ErrMalformed, i+1, len(q.Options), OptionCount)
		}
		seen := make(map[string]bool, OptionCount)
		for _, opt := range q.Options {
			if seen[opt] {
				return nil, fmt.Errorf("%w: question %d has duplicate option %q", ErrMalformed, i+1, opt)
			}
			seen[opt] = true
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= OptionCount {
			return nil, fmt.Errorf("%w: question %d correct index %d out of range", ErrMalformed, i+1, q.CorrectAnswerIndex)
		}
		questions = append(questions, Question{
			Text:         q.Question,
			Options:      q.Options,
			CorrectIndex: q.CorrectAnswerIndex,
		})
	}

	return questions, nil
}

type breakdownOutput struct {
	QuestionText  string `json:"question_text"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Justification string `json:"justification"`
}

type analysisOutput struct {
	Headline          string            `json:"headline"`
	OverallFeedback   string            `json:"overall_feedback"`
	QuestionBreakdown []breakdownOutput `json:"question_breakdown"`
	NextSteps         string            `json:"next_steps"`
}

// Analyze builds the scoring prompt from the session's recorded answers
// and parses the structured analysis. The fit verdict is computed locally
// by counting is_correct flags in the returned breakdown, never by
// trusting a score asserted in the response prose.
func (e *Engine) Analyze(ctx context.Context, s *Session) (*Analysis, bool, error) {
	if !s.Complete() {
		return nil, false, fmt.Errorf("quiz incomplete: %d of %d answered", len(s.UserAnswers), len(s.Questions))
	}

	ctx = llm.WithPurpose(ctx, "quiz-analysis")

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      analyzeSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: analyzeUserMessage(s)}},
		Schema:      AnalysisSchema,
		MaxTokens:   e.cfg.AnalyzeMaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return nil, false, fmt.Errorf("quiz analysis: %w", err)
	}

	var out analysisOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, false, fmt.Errorf("%w: parse analysis response: %v", ErrMalformed, err)
	}

	if len(out.QuestionBreakdown) != QuestionCount {
		return nil, false, fmt.Errorf("%w: analysis has %d breakdown entries, want %d", ErrMalformed, len(out.QuestionBreakdown), QuestionCount)
	}

	analysis := &Analysis{
		Headline:        out.Headline,
		OverallFeedback: out.OverallFeedback,
		NextSteps:       out.NextSteps,
	}
	for _, b := range out.QuestionBreakdown {
		analysis.Breakdown = append(analysis.Breakdown, Breakdown{
			QuestionText:  b.QuestionText,
			UserAnswer:    b.UserAnswer,
			CorrectAnswer: b.CorrectAnswer,
			Justification: b.Justification,
			IsCorrect:     b.IsCorrect,
		})
	}

	return analysis, analysis.Score() >= GoodFitThreshold, nil
}
