package speech

import (
	"context"
	"fmt"
	"os"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/abhisek/disha/internal/logging"
)

// Transcriber turns a recorded utterance into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
	Close() error
}

// TranscriberConfig holds recognition settings for captured microphone
// audio. The defaults match 16 kHz mono LINEAR16 capture.
type TranscriberConfig struct {
	LanguageCode    string
	SampleRateHertz int
	MaxRetries      int
}

// DefaultTranscriberConfig returns settings tuned for Indian-English
// student speech.
func DefaultTranscriberConfig() TranscriberConfig {
	return TranscriberConfig{
		LanguageCode:    "en-IN",
		SampleRateHertz: 16000,
		MaxRetries:      3,
	}
}

// GoogleTranscriber recognizes speech through the Cloud Speech-to-Text
// API.
type GoogleTranscriber struct {
	client *speech.Client
	cfg    TranscriberConfig
	log    *logging.Logger

	// recognize wraps the API call so tests can substitute a stub.
	recognize func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)
	retryWait time.Duration
}

// NewGoogleTranscriber dials the Speech API. Credentials come from
// DISHA_GCP_CREDENTIALS when set, otherwise application default
// credentials apply.
func NewGoogleTranscriber(ctx context.Context, cfg TranscriberConfig, log *logging.Logger) (*GoogleTranscriber, error) {
	if log == nil {
		log = logging.Nop()
	}
	var opts []option.ClientOption
	if creds := os.Getenv("DISHA_GCP_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	t := &GoogleTranscriber{client: client, cfg: cfg, log: log}
	t.recognize = func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return client.Recognize(ctx, req)
	}
	return t, nil
}

// Transcribe recognizes a single short utterance and returns the top
// alternative of each result joined together. Empty audio and empty
// recognitions both return "".
func (t *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            int32(t.cfg.SampleRateHertz),
			LanguageCode:               t.cfg.LanguageCode,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	resp, err := t.recognizeWithRetry(ctx, req)
	if err != nil {
		return "", fmt.Errorf("speech recognize: %w", err)
	}

	var text string
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		if text != "" {
			text += " "
		}
		text += r.Alternatives[0].Transcript
	}
	return text, nil
}

func (t *GoogleTranscriber) recognizeWithRetry(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	backoff := t.retryWait
	if backoff == 0 {
		backoff = 500 * time.Millisecond
	}
	var last error
	for attempt := 0; attempt <= t.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resp, err := t.recognize(ctx, req)
		if err == nil {
			return resp, nil
		}
		last = err

		if !transientRecognizeError(err) {
			return nil, err
		}
		if attempt == t.cfg.MaxRetries {
			break
		}
		t.log.Warn("speech recognize retrying", "attempt", attempt+1, "error", err)
		time.Sleep(backoff)
		backoff *= 2
	}
	return nil, last
}

// transientRecognizeError reports whether a Recognize failure is worth
// retrying. Quota and availability blips clear on their own; anything
// else (bad audio, bad credentials) will fail identically next time.
func transientRecognizeError(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded:
		return true
	}
	return false
}

// Close releases the underlying gRPC connection.
func (t *GoogleTranscriber) Close() error {
	if t == nil || t.client == nil {
		return nil
	}
	return t.client.Close()
}
