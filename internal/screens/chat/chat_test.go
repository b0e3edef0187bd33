package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/disha/internal/dialogue"
	"github.com/abhisek/disha/internal/llm"
	"github.com/abhisek/disha/internal/logging"
	"github.com/abhisek/disha/internal/quiz"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrlKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code, Mod: tea.ModCtrl}
}

func testChatScreen(responses ...llm.MockResponse) (*ChatScreen, *dialogue.Controller) {
	provider := llm.NewMockProvider(responses...)
	controller := dialogue.New(provider, logging.Nop())
	return New(controller, nil, nil), controller
}

// fakeCapture stands in for the microphone pipeline.
type fakeCapture struct {
	recording  bool
	transcript string
	startErr   error
	finishErr  error
	starts     int
	finishes   int
}

func (f *fakeCapture) Recording() bool { return f.recording }

func (f *fakeCapture) Start() error {
	f.starts++
	if f.startErr != nil {
		return f.startErr
	}
	f.recording = true
	return nil
}

func (f *fakeCapture) Finish(context.Context) (string, error) {
	f.finishes++
	f.recording = false
	return f.transcript, f.finishErr
}

func quizResponse() llm.MockResponse {
	var qs []map[string]any
	for i := 0; i < quiz.QuestionCount; i++ {
		qs = append(qs, map[string]any{
			"question":             fmt.Sprintf("Question %d", i+1),
			"options":              []string{"Option A", "Option B", "Option C", "Option D"},
			"correct_answer_index": 0,
		})
	}
	b, _ := json.Marshal(map[string]any{"questions": qs})
	return llm.MockResponse{Content: b}
}

// driveToQuiz walks the controller to the first quiz question.
func driveToQuiz(c *dialogue.Controller) {
	ctx := context.Background()
	c.Start()
	c.SubmitText(ctx, "Asha")
	c.SubmitText(ctx, "class 10")
	c.SubmitText(ctx, "Engineering")
	c.SubmitText(ctx, "not satisfied")
	c.SubmitText(ctx, "Design")
}

func TestTitle(t *testing.T) {
	s, _ := testChatScreen()
	if s.Title() != "Career Chat" {
		t.Errorf("title = %q", s.Title())
	}
}

func TestEmptyEnterDoesNothing(t *testing.T) {
	s, c := testChatScreen()
	c.Start()
	s.Update(turnDoneMsg{})

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("enter on empty input should not produce a command")
	}
	if s.waiting {
		t.Error("screen should not be waiting")
	}
}

func TestTypedSubmitTriggersTurn(t *testing.T) {
	s, c := testChatScreen()
	c.Start()
	s.Update(turnDoneMsg{})

	for _, r := range "Asha" {
		s.Update(keyPress(r))
	}
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter with text should produce a command")
	}
	if !s.waiting {
		t.Error("screen should be waiting for the turn")
	}
	if s.input.Value() != "" {
		t.Errorf("input not cleared, value = %q", s.input.Value())
	}
}

func TestKeysIgnoredWhileWaiting(t *testing.T) {
	s, c := testChatScreen()
	c.Start()
	s.Update(turnDoneMsg{})
	s.waiting = true

	s.Update(keyPress('x'))
	if s.input.Value() != "" {
		t.Errorf("input accepted text while waiting: %q", s.input.Value())
	}
}

func TestPickerOpensOnQuizQuestion(t *testing.T) {
	s, c := testChatScreen(quizResponse())
	driveToQuiz(c)

	s.Update(turnDoneMsg{})
	if !s.pickerOpen {
		t.Fatal("picker should open on an unanswered question")
	}
	if got := len(s.picker.Options); got != quiz.OptionCount {
		t.Errorf("picker has %d options, want %d", got, quiz.OptionCount)
	}
}

func TestPickerEnterSubmitsAnswer(t *testing.T) {
	s, c := testChatScreen(quizResponse())
	driveToQuiz(c)
	s.Update(turnDoneMsg{})

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("picker enter should produce a command")
	}
	if s.pickerOpen {
		t.Error("picker should close after submission")
	}
	if !s.waiting {
		t.Error("screen should be waiting for the answer to process")
	}
}

func testVoiceScreen(capture VoiceCapture, responses ...llm.MockResponse) (*ChatScreen, *dialogue.Controller) {
	provider := llm.NewMockProvider(responses...)
	controller := dialogue.New(provider, logging.Nop())
	return New(controller, nil, capture), controller
}

func TestRecordKeyStartsTake(t *testing.T) {
	fake := &fakeCapture{}
	s, c := testVoiceScreen(fake)
	c.Start()
	s.Update(turnDoneMsg{})

	s.Update(ctrlKey('r'))
	if fake.starts != 1 {
		t.Fatalf("capture started %d times, want 1", fake.starts)
	}
	if !s.recording {
		t.Error("screen should be recording")
	}
	if s.waiting {
		t.Error("screen should not be waiting while the take is open")
	}
}

func TestRecordKeySubmitsTranscriptAsTurn(t *testing.T) {
	fake := &fakeCapture{transcript: "Asha"}
	s, c := testVoiceScreen(fake)
	c.Start()
	s.Update(turnDoneMsg{})

	s.Update(ctrlKey('r'))
	_, cmd := s.Update(ctrlKey('r'))
	if cmd == nil {
		t.Fatal("stopping a take should produce a command")
	}
	if s.recording {
		t.Error("recording should have stopped")
	}
	if !s.waiting {
		t.Error("screen should be waiting for the transcript turn")
	}

	if msg := s.submitVoice()(); msg != (turnDoneMsg{}) {
		t.Fatalf("unexpected message: %#v", msg)
	}
	if fake.finishes != 1 {
		t.Fatalf("capture finished %d times, want 1", fake.finishes)
	}
	if got := c.Session().StudentName; got != "Asha" {
		t.Errorf("transcript did not reach the controller, name = %q", got)
	}
}

func TestEmptyTranscriptSkipsTurn(t *testing.T) {
	fake := &fakeCapture{transcript: ""}
	s, c := testVoiceScreen(fake)
	c.Start()
	s.Update(turnDoneMsg{})
	before := len(c.Transcript())

	s.Update(ctrlKey('r'))
	s.Update(ctrlKey('r'))
	s.submitVoice()()

	if got := len(c.Transcript()); got != before {
		t.Errorf("transcript grew from %d to %d on a silent take", before, got)
	}
}

func TestRecordKeyIgnoredWithoutCapture(t *testing.T) {
	s, c := testChatScreen()
	c.Start()
	s.Update(turnDoneMsg{})

	s.Update(ctrlKey('r'))
	if s.recording {
		t.Error("screen without capture should never record")
	}
}

func TestRecordKeyIgnoredWhilePickerOpen(t *testing.T) {
	fake := &fakeCapture{}
	s, c := testVoiceScreen(fake, quizResponse())
	driveToQuiz(c)
	s.Update(turnDoneMsg{})

	s.Update(ctrlKey('r'))
	if fake.starts != 0 {
		t.Errorf("capture started %d times during a quiz question", fake.starts)
	}
}

func TestTypingIgnoredWhileRecording(t *testing.T) {
	fake := &fakeCapture{}
	s, c := testVoiceScreen(fake)
	c.Start()
	s.Update(turnDoneMsg{})

	s.Update(ctrlKey('r'))
	s.Update(keyPress('x'))
	if s.input.Value() != "" {
		t.Errorf("input accepted text during a take: %q", s.input.Value())
	}
}

func TestRecordIndicatorShown(t *testing.T) {
	fake := &fakeCapture{}
	s, c := testVoiceScreen(fake)
	c.Start()
	s.Update(turnDoneMsg{})

	s.Update(ctrlKey('r'))
	view := s.View(80, 24)
	if !strings.Contains(view, "recording") {
		t.Error("view should show the recording indicator")
	}
}

func TestViewShowsGreeting(t *testing.T) {
	s, c := testChatScreen()
	c.Start()
	s.Update(turnDoneMsg{})

	view := s.View(80, 24)
	if !strings.Contains(view, "your name") {
		t.Error("view should contain the greeting prompt")
	}
}

func TestViewClampsScroll(t *testing.T) {
	s, c := testChatScreen()
	c.Start()
	s.Update(turnDoneMsg{})

	s.scroll = 9999
	view := s.View(80, 24)
	if !strings.Contains(view, "your name") {
		t.Error("clamped view should still show the transcript tail")
	}
}

func TestWaitingLabelFollowsState(t *testing.T) {
	s, c := testChatScreen()
	c.Start()
	s.Update(turnDoneMsg{})
	s.waiting = true

	view := s.View(80, 24)
	if !strings.Contains(view, "thinking") {
		t.Error("waiting view should show thinking indicator")
	}
}
