// Package speech provides optional voice in and out for the chat: a
// synthesizer that reads assistant replies aloud, a recorder that
// captures microphone takes, and a transcriber that turns a take into
// text.
package speech

import (
	"context"
	"os/exec"
	"runtime"
	"sync"

	"github.com/abhisek/disha/internal/logging"
)

// Speaker reads text aloud through the system synthesizer. Starting a new
// utterance cancels whatever is currently playing; the newest reply always
// wins.
type Speaker struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	binary string
	args   []string
	log    *logging.Logger
}

// NewSpeaker locates a system synthesizer. Returns nil if none is
// installed; callers treat a nil Speaker as speech disabled.
func NewSpeaker(log *logging.Logger) *Speaker {
	if log == nil {
		log = logging.Nop()
	}
	binary, args := findSynthesizer()
	if binary == "" {
		log.Info("no speech synthesizer found, voice output disabled")
		return nil
	}
	return &Speaker{binary: binary, args: args, log: log}
}

func findSynthesizer() (string, []string) {
	candidates := [][]string{
		{"espeak-ng"},
		{"espeak"},
		{"spd-say", "--wait"},
	}
	if runtime.GOOS == "darwin" {
		candidates = [][]string{{"say"}}
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c[0]); err == nil {
			return path, c[1:]
		}
	}
	return "", nil
}

// Say starts speaking text, interrupting any utterance in progress.
// Markdown structure is stripped before synthesis. Playback is
// asynchronous; Say returns immediately.
func (s *Speaker) Say(text string) {
	if s == nil {
		return
	}
	plain := StripMarkdown(text)
	if plain == "" {
		return
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	cmd := exec.CommandContext(ctx, s.binary, append(s.args, plain)...)
	go func() {
		defer cancel()
		if err := cmd.Run(); err != nil && ctx.Err() == nil {
			s.log.Warn("speech synthesis failed", "error", err)
		}
	}()
}

// Stop silences any utterance in progress.
func (s *Speaker) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
