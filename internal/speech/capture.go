package speech

import (
	"context"
	"os"
	"strings"

	"github.com/abhisek/disha/internal/logging"
)

// Capture is the press-to-talk surface: it pairs a microphone recorder
// with a transcriber so one key starts a take and a second key turns the
// take into chat text.
type Capture struct {
	recorder    *Recorder
	transcriber Transcriber
	log         *logging.Logger
}

// NewCapture wires a recorder to the Speech-to-Text transcriber. Returns
// nil when a capture binary or credentials are missing; callers treat a
// nil Capture as voice input disabled.
func NewCapture(ctx context.Context, log *logging.Logger) *Capture {
	if log == nil {
		log = logging.Nop()
	}
	recorder := NewRecorder(log)
	if recorder == nil {
		return nil
	}
	if os.Getenv("DISHA_GCP_CREDENTIALS") == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		log.Info("no speech credentials set, voice input disabled")
		return nil
	}
	transcriber, err := NewGoogleTranscriber(ctx, DefaultTranscriberConfig(), log)
	if err != nil {
		log.Warn("speech transcriber unavailable, voice input disabled", "error", err)
		return nil
	}
	return &Capture{recorder: recorder, transcriber: transcriber, log: log}
}

// Recording reports whether a take is in progress.
func (c *Capture) Recording() bool {
	if c == nil {
		return false
	}
	return c.recorder.Recording()
}

// Start begins a take.
func (c *Capture) Start() error {
	if c == nil {
		return errVoiceDisabled
	}
	return c.recorder.Start()
}

// Finish ends the take and returns its transcript. A silent or empty
// take returns "".
func (c *Capture) Finish(ctx context.Context) (string, error) {
	if c == nil {
		return "", errVoiceDisabled
	}
	audio, err := c.recorder.Stop()
	if err != nil {
		return "", err
	}
	text, err := c.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Close releases the transcriber connection.
func (c *Capture) Close() error {
	if c == nil {
		return nil
	}
	return c.transcriber.Close()
}
