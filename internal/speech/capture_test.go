package speech

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/abhisek/disha/internal/logging"
)

// shRecorder swaps the capture binary for a shell stub that writes a
// recognizable payload and then blocks until interrupted, the way a real
// recorder does.
func shRecorder(t *testing.T) *Recorder {
	t.Helper()
	path, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	r := &Recorder{
		binary: path,
		args: func(p string) []string {
			return []string{"-c", "printf RIFFtake > " + p + "; sleep 30"}
		},
		log: logging.Nop(),
	}
	t.Cleanup(func() {
		if r.Recording() {
			r.Stop()
		}
	})
	return r
}

func waitForTake(t *testing.T, r *Recorder) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if fi, err := os.Stat(r.path); err == nil && fi.Size() > 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("stub recorder never wrote its take")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

type fakeTranscriber struct {
	text  string
	err   error
	audio []byte
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audio []byte) (string, error) {
	f.audio = audio
	return f.text, f.err
}

func (f *fakeTranscriber) Close() error { return nil }

func TestRecorderSpecsUseLinear16(t *testing.T) {
	for _, spec := range recorderSpecs() {
		args := spec.args("/tmp/take.wav")
		if args[len(args)-1] != "/tmp/take.wav" {
			t.Errorf("%s: output path must be the last argument, got %v", spec.name, args)
		}
		found := false
		for _, a := range args {
			if a == "16000" {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: args missing 16 kHz sample rate: %v", spec.name, args)
		}
	}
}

func TestRecorderCapturesTake(t *testing.T) {
	r := shRecorder(t)
	if r.Recording() {
		t.Fatal("fresh recorder should not be recording")
	}
	if err := r.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !r.Recording() {
		t.Error("recorder should report an open take")
	}
	waitForTake(t, r)

	audio, err := r.Stop()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if string(audio) != "RIFFtake" {
		t.Errorf("captured %q, want the stub payload", audio)
	}
	if r.Recording() {
		t.Error("recorder should be idle after stop")
	}
}

func TestRecorderStartTwiceFails(t *testing.T) {
	r := shRecorder(t)
	if err := r.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := r.Start(); err == nil {
		t.Error("second start should fail while a take is open")
	}
}

func TestRecorderStopWithoutStart(t *testing.T) {
	r := shRecorder(t)
	if _, err := r.Stop(); err == nil {
		t.Error("stop without a take should fail")
	}
}

func TestNilRecorderIsDisabled(t *testing.T) {
	var r *Recorder
	if r.Recording() {
		t.Error("nil recorder should not be recording")
	}
	if err := r.Start(); !errors.Is(err, errVoiceDisabled) {
		t.Errorf("start: %v", err)
	}
	if _, err := r.Stop(); !errors.Is(err, errVoiceDisabled) {
		t.Errorf("stop: %v", err)
	}
}

func TestNilCaptureIsDisabled(t *testing.T) {
	var c *Capture
	if c.Recording() {
		t.Error("nil capture should not be recording")
	}
	if err := c.Start(); !errors.Is(err, errVoiceDisabled) {
		t.Errorf("start: %v", err)
	}
	if _, err := c.Finish(context.Background()); !errors.Is(err, errVoiceDisabled) {
		t.Errorf("finish: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestCaptureFinishTranscribesTake(t *testing.T) {
	fake := &fakeTranscriber{text: "  I want to explore Design  "}
	c := &Capture{recorder: shRecorder(t), transcriber: fake, log: logging.Nop()}

	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !c.Recording() {
		t.Error("capture should report an open take")
	}
	waitForTake(t, c.recorder)

	text, err := c.Finish(context.Background())
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if text != "I want to explore Design" {
		t.Errorf("transcript = %q, want trimmed text", text)
	}
	if string(fake.audio) != "RIFFtake" {
		t.Errorf("transcriber received %q, want the recorded take", fake.audio)
	}
}

func TestCaptureFinishPropagatesTranscribeError(t *testing.T) {
	fake := &fakeTranscriber{err: errors.New("quota exceeded")}
	c := &Capture{recorder: shRecorder(t), transcriber: fake, log: logging.Nop()}

	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitForTake(t, c.recorder)

	if _, err := c.Finish(context.Background()); err == nil {
		t.Error("finish should surface the transcriber error")
	}
}

func TestCaptureFinishWithoutTakeFails(t *testing.T) {
	c := &Capture{recorder: shRecorder(t), transcriber: &fakeTranscriber{}, log: logging.Nop()}
	if _, err := c.Finish(context.Background()); err == nil {
		t.Error("finish without a take should fail")
	}
}
