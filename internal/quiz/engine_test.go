package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/disha/internal/llm"
)

func validQuizJSON() string {
	questions := make([]string, 0, QuestionCount)
	for i := 0; i < QuestionCount; i++ {
		questions = append(questions, fmt.Sprintf(`{
			"question": "Question %d text",
			"options": ["Alpha %d", "Beta %d", "Gamma %d", "Delta %d"],
			"correct_answer_index": %d
		}`, i+1, i, i, i, i, i%OptionCount))
	}
	return fmt.Sprintf(`{"questions":[%s]}`, strings.Join(questions, ","))
}

func validAnalysisJSON(correct int) string {
	entries := make([]string, 0, QuestionCount)
	for i := 0; i < QuestionCount; i++ {
		entries = append(entries, fmt.Sprintf(`{
			"question_text": "Question %d text",
			"user_answer": "Alpha %d",
			"correct_answer": "Beta %d",
			"is_correct": %v,
			"justification": "Because."
		}`, i+1, i, i, i < correct))
	}
	return fmt.Sprintf(`{
		"headline": "Good Performance in Medicine",
		"overall_feedback": "Nice work.",
		"question_breakdown": [%s],
		"next_steps": "Keep going."
	}`, strings.Join(entries, ","))
}

func completedSession(t *testing.T, answers ...int) *Session {
	t.Helper()
	s := &Session{InterestedDomain: "Medicine"}
	for i := 0; i < QuestionCount; i++ {
		s.Questions = append(s.Questions, Question{
			Text:         fmt.Sprintf("Question %d text", i+1),
			Options:      []string{"North", "South", "East", "West"},
			CorrectIndex: 0,
		})
	}
	for _, a := range answers {
		if err := s.RecordAnswer(a); err != nil {
			t.Fatalf("record answer: %v", err)
		}
	}
	return s
}

func TestGenerate_ValidQuiz(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(validQuizJSON())},
	)
	e := New(mock, DefaultConfig())

	questions, err := e.Generate(context.Background(), "Medicine")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != QuestionCount {
		t.Fatalf("expected %d questions, got %d", QuestionCount, len(questions))
	}
	if questions[0].Text != "Question 1 text" {
		t.Fatalf("unexpected first question: %q", questions[0].Text)
	}
	if len(questions[0].Options) != OptionCount {
		t.Fatalf("expected %d options, got %d", OptionCount, len(questions[0].Options))
	}
	if questions[1].CorrectIndex != 1 {
		t.Fatalf("expected correct index 1, got %d", questions[1].CorrectIndex)
	}

	req := mock.LastCall()
	if !strings.Contains(req.Messages[0].Content, "Medicine") {
		t.Fatal("domain not carried into the generation prompt")
	}
}

func TestGenerate_WrongQuestionCount(t *testing.T) {
	payload := `{"questions":[{"question":"only one","options":["a","b","c","d"],"correct_answer_index":0}]}`
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(payload)},
	)
	e := New(mock, DefaultConfig())

	_, err := e.Generate(context.Background(), "Medicine")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got: %v", err)
	}
}

func TestGenerate_WrongOptionCount(t *testing.T) {
	questions := make([]string, 0, QuestionCount)
	for i := 0; i < QuestionCount; i++ {
		questions = append(questions, fmt.Sprintf(`{"question":"q%d","options":["a","b","c"],"correct_answer_index":0}`, i))
	}
	payload := fmt.Sprintf(`{"questions":[%s]}`, strings.Join(questions, ","))
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(payload)},
	)
	e := New(mock, DefaultConfig())

	_, err := e.Generate(context.Background(), "Medicine")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got: %v", err)
	}
}

func TestGenerate_DuplicateOptions(t *testing.T) {
	questions := make([]string, 0, QuestionCount)
	for i := 0; i < QuestionCount; i++ {
		questions = append(questions, fmt.Sprintf(`{"question":"q%d","options":["same","same","c","d"],"correct_answer_index":0}`, i))
	}
	payload := fmt.Sprintf(`{"questions":[%s]}`, strings.Join(questions, ","))
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(payload)},
	)
	e := New(mock, DefaultConfig())

	_, err := e.Generate(context.Background(), "Medicine")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got: %v", err)
	}
}

func TestGenerate_CorrectIndexOutOfRange(t *testing.T) {
	questions := make([]string, 0, QuestionCount)
	for i := 0; i < QuestionCount; i++ {
		questions = append(questions, fmt.Sprintf(`{"question":"q%d","options":["a","b","c","d"],"correct_answer_index":7}`, i))
	}
	payload := fmt.Sprintf(`{"questions":[%s]}`, strings.Join(questions, ","))
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(payload)},
	)
	e := New(mock, DefaultConfig())

	_, err := e.Generate(context.Background(), "Medicine")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got: %v", err)
	}
}

func TestGenerate_TransportErrorNotMalformed(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	e := New(mock, DefaultConfig())

	_, err := e.Generate(context.Background(), "Medicine")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrMalformed) {
		t.Fatal("transport failure must not be classified as malformed")
	}
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestAnalyze_IncompleteSessionRejected(t *testing.T) {
	mock := llm.NewMockProvider()
	e := New(mock, DefaultConfig())

	s := completedSession(t, 0, 1) // only 2 of 5 answered
	_, _, err := e.Analyze(context.Background(), s)
	if err == nil {
		t.Fatal("expected error for incomplete session")
	}
	if mock.CallCount() != 0 {
		t.Fatalf("incomplete session must not hit the provider, got %d calls", mock.CallCount())
	}
}

func TestAnalyze_GoodFit(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(validAnalysisJSON(4))},
	)
	e := New(mock, DefaultConfig())

	analysis, goodFit, err := e.Analyze(context.Background(), completedSession(t, 0, 0, 0, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !goodFit {
		t.Fatal("expected good fit at 4 correct")
	}
	if analysis.Score() != 4 {
		t.Fatalf("expected score 4, got %d", analysis.Score())
	}
	if analysis.Headline != "Good Performance in Medicine" {
		t.Fatalf("unexpected headline: %q", analysis.Headline)
	}
	if len(analysis.Breakdown) != QuestionCount {
		t.Fatalf("expected %d breakdown entries, got %d", QuestionCount, len(analysis.Breakdown))
	}
}

func TestAnalyze_WeakFit(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(validAnalysisJSON(3))},
	)
	e := New(mock, DefaultConfig())

	analysis, goodFit, err := e.Analyze(context.Background(), completedSession(t, 0, 0, 0, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if goodFit {
		t.Fatal("3 correct must not be a good fit")
	}
	if analysis.Score() != 3 {
		t.Fatalf("expected score 3, got %d", analysis.Score())
	}
}

func TestAnalyze_WrongBreakdownCount(t *testing.T) {
	payload := `{
		"headline": "Good Performance in Medicine",
		"overall_feedback": "ok",
		"question_breakdown": [{"question_text":"q","user_answer":"a","correct_answer":"a","is_correct":true,"justification":"j"}],
		"next_steps": "ok"
	}`
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(payload)},
	)
	e := New(mock, DefaultConfig())

	_, _, err := e.Analyze(context.Background(), completedSession(t, 0, 0, 0, 0, 0))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got: %v", err)
	}
}

func TestAnalyze_PromptPairsAnswersWithOptionText(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(validAnalysisJSON(5))},
	)
	e := New(mock, DefaultConfig())

	s := completedSession(t, 1, 2, 3, 0, 1)
	_, _, err := e.Analyze(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := mock.LastCall().Messages[0].Content
	if !strings.Contains(prompt, "Correct answer: North") {
		t.Fatal("correct option text missing from analysis prompt")
	}
	if !strings.Contains(prompt, "Student's answer: South") {
		t.Fatal("student's chosen option text missing from analysis prompt")
	}
	if !strings.Contains(prompt, "Domain: Medicine") {
		t.Fatal("domain missing from analysis prompt")
	}
}

func TestSession_QuizDomainPrefersInterested(t *testing.T) {
	s := &Session{PredictedDomain: "Engineering", InterestedDomain: "Design"}
	if s.QuizDomain() != "Design" {
		t.Fatalf("expected Design, got %q", s.QuizDomain())
	}
	s.InterestedDomain = ""
	if s.QuizDomain() != "Engineering" {
		t.Fatalf("expected Engineering, got %q", s.QuizDomain())
	}
}

func TestSession_RecordAnswerBounds(t *testing.T) {
	s := completedSession(t)

	if err := s.RecordAnswer(4); err == nil {
		t.Fatal("expected error for option index out of range")
	}
	if err := s.RecordAnswer(-1); err == nil {
		t.Fatal("expected error for negative option index")
	}

	for i := 0; i < QuestionCount; i++ {
		if err := s.RecordAnswer(0); err != nil {
			t.Fatalf("record answer %d: %v", i, err)
		}
	}
	if !s.Complete() {
		t.Fatal("expected complete session")
	}
	if err := s.RecordAnswer(0); err == nil {
		t.Fatal("expected error when all questions answered")
	}
}
