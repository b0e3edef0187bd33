package chat

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/disha/internal/dialogue"
	"github.com/abhisek/disha/internal/screen"
	"github.com/abhisek/disha/internal/speech"
	"github.com/abhisek/disha/internal/ui/components"
	"github.com/abhisek/disha/internal/ui/layout"
)

const spinnerInterval = 120 * time.Millisecond

// VoiceCapture is the press-to-talk surface the chat screen drives: one
// key starts a take, the next one finishes it and yields the transcript.
type VoiceCapture interface {
	Recording() bool
	Start() error
	Finish(ctx context.Context) (string, error)
}

// ChatScreen is the conversation surface: a scrolling transcript with a
// text input at the bottom, swapped for an option picker while a quiz
// question is open.
type ChatScreen struct {
	controller *dialogue.Controller
	speaker    *speech.Speaker
	capture    VoiceCapture

	input      components.TextInput
	picker     components.OptionPicker
	pickerOpen bool

	waiting     bool
	recording   bool
	spinnerTick int
	scroll      int
	spoken      int
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a ChatScreen over the given controller. speaker and capture
// may be nil, which disables voice output and voice input respectively.
func New(controller *dialogue.Controller, speaker *speech.Speaker, capture VoiceCapture) *ChatScreen {
	return &ChatScreen{
		controller: controller,
		speaker:    speaker,
		capture:    capture,
		input:      components.NewTextInput("Type your reply...", 280),
	}
}

func (s *ChatScreen) Title() string {
	return "Career Chat"
}

func (s *ChatScreen) Init() tea.Cmd {
	return tea.Batch(
		s.input.Init(),
		func() tea.Msg {
			s.controller.Start()
			return turnDoneMsg{}
		},
	)
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	if s.pickerOpen {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "1-4", Description: "Jump"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
	}
	if s.capture != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+R", Description: "Voice"})
	}
	return append(hints,
		layout.KeyHint{Key: "PgUp/PgDn", Description: "Scroll"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case turnDoneMsg:
		s.waiting = false
		s.scroll = 0
		s.syncPicker()
		s.speakLatest()
		return s, nil

	case spinnerTickMsg:
		if !s.waiting {
			return s, nil
		}
		s.spinnerTick++
		return s, s.tickSpinner()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if !s.pickerOpen {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ChatScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "pgup", "ctrl+u":
		s.scroll += 5
		return s, nil
	case "pgdown", "ctrl+d":
		s.scroll -= 5
		if s.scroll < 0 {
			s.scroll = 0
		}
		return s, nil
	}

	if s.waiting {
		return s, nil
	}

	// While a take is open the record key is the only one that matters.
	if s.recording {
		if msg.String() == "ctrl+r" {
			s.recording = false
			return s, tea.Batch(s.submitVoice(), s.startWaiting())
		}
		return s, nil
	}

	if msg.String() == "ctrl+r" {
		if s.capture == nil || s.pickerOpen {
			return s, nil
		}
		if err := s.capture.Start(); err == nil {
			s.recording = true
			if s.speaker != nil {
				s.speaker.Stop()
			}
		}
		return s, nil
	}

	if s.pickerOpen {
		var cmd tea.Cmd
		s.picker, cmd = s.picker.Update(msg)
		if s.picker.Submitted {
			s.pickerOpen = false
			return s, tea.Batch(s.submitOption(s.picker.ChosenIndex), s.startWaiting())
		}
		return s, cmd
	}

	if msg.String() == "enter" {
		text := strings.TrimSpace(s.input.Value())
		if text == "" {
			return s, nil
		}
		s.input.Reset()
		return s, tea.Batch(s.submitText(text), s.startWaiting())
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) startWaiting() tea.Cmd {
	s.waiting = true
	if s.speaker != nil {
		s.speaker.Stop()
	}
	return s.tickSpinner()
}

func (s *ChatScreen) tickSpinner() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (s *ChatScreen) submitText(text string) tea.Cmd {
	return func() tea.Msg {
		s.controller.SubmitText(context.Background(), text)
		return turnDoneMsg{}
	}
}

// submitVoice finishes the open take and submits its transcript through
// the ordinary turn pipeline. Silent takes and transcription failures
// fall through without a turn.
func (s *ChatScreen) submitVoice() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		text, err := s.capture.Finish(ctx)
		if err == nil && text != "" {
			s.controller.SubmitText(ctx, text)
		}
		return turnDoneMsg{}
	}
}

func (s *ChatScreen) submitOption(index int) tea.Cmd {
	return func() tea.Msg {
		s.controller.SelectOption(context.Background(), index)
		return turnDoneMsg{}
	}
}

// syncPicker opens the option picker when the newest message carries an
// unanswered option set.
func (s *ChatScreen) syncPicker() {
	transcript := s.controller.Transcript()
	s.pickerOpen = false
	if len(transcript) == 0 {
		return
	}
	last := transcript[len(transcript)-1]
	if last.Options != nil && !last.Options.Answered {
		s.picker = components.NewOptionPicker(last.Options.Options)
		s.pickerOpen = true
	}
}

// speakLatest reads the newest assistant reply aloud, replacing whatever
// was still playing.
func (s *ChatScreen) speakLatest() {
	transcript := s.controller.Transcript()
	if s.speaker == nil {
		s.spoken = len(transcript)
		return
	}
	var latest string
	for i := s.spoken; i < len(transcript); i++ {
		if transcript[i].Sender == dialogue.SenderAssistant && transcript[i].Body != "" {
			latest = transcript[i].Body
		}
	}
	s.spoken = len(transcript)
	if latest != "" {
		s.speaker.Say(latest)
	}
}
