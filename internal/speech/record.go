package speech

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/abhisek/disha/internal/logging"
)

var errVoiceDisabled = errors.New("voice input disabled")

// Recorder captures microphone audio to a temporary WAV file through an
// external capture binary. One take at a time: Start begins a take and
// Stop finalizes it and returns the raw bytes.
type Recorder struct {
	mu     sync.Mutex
	binary string
	args   func(path string) []string
	cmd    *exec.Cmd
	path   string
	log    *logging.Logger
}

// recorderSpec names a capture binary and builds its argument list for a
// 16 kHz mono LINEAR16 take written to path.
type recorderSpec struct {
	name string
	args func(path string) []string
}

func recorderSpecs() []recorderSpec {
	specs := []recorderSpec{
		{
			name: "arecord",
			args: func(path string) []string {
				return []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", path}
			},
		},
		{
			// sox's capture front end.
			name: "rec",
			args: func(path string) []string {
				return []string{"-q", "-r", "16000", "-c", "1", "-b", "16", path}
			},
		},
	}
	if runtime.GOOS == "darwin" {
		// arecord is ALSA-only.
		specs = specs[1:]
	}
	return specs
}

// NewRecorder locates a capture binary. Returns nil if none is installed;
// callers treat a nil Recorder as voice input disabled.
func NewRecorder(log *logging.Logger) *Recorder {
	if log == nil {
		log = logging.Nop()
	}
	for _, spec := range recorderSpecs() {
		if path, err := exec.LookPath(spec.name); err == nil {
			return &Recorder{binary: path, args: spec.args, log: log}
		}
	}
	log.Info("no audio recorder found, voice input disabled")
	return nil
}

// Recording reports whether a take is in progress.
func (r *Recorder) Recording() bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}

// Start begins capturing a take. Fails if one is already in progress.
func (r *Recorder) Start() error {
	if r == nil {
		return errVoiceDisabled
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd != nil {
		return errors.New("recording already in progress")
	}

	f, err := os.CreateTemp("", "disha-take-*.wav")
	if err != nil {
		return err
	}
	path := f.Name()
	f.Close()

	cmd := exec.Command(r.binary, r.args(path)...)
	if err := cmd.Start(); err != nil {
		os.Remove(path)
		return err
	}
	r.cmd = cmd
	r.path = path
	return nil
}

// Stop ends the take and returns the captured audio. The recorder is
// interrupted rather than killed so it finalizes the WAV header.
func (r *Recorder) Stop() ([]byte, error) {
	if r == nil {
		return nil, errVoiceDisabled
	}
	r.mu.Lock()
	cmd, path := r.cmd, r.path
	r.cmd, r.path = nil, ""
	r.mu.Unlock()
	if cmd == nil {
		return nil, errors.New("no recording in progress")
	}
	defer os.Remove(path)

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		cmd.Process.Kill()
	}
	// Interrupted capture binaries exit nonzero; that is the normal path.
	cmd.Wait()

	return os.ReadFile(path)
}
