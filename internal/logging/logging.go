package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin wrapper around zap's sugared logger. Disha runs a
// full-screen TUI, so diagnostics go to a log file rather than stdout.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New opens a file-backed logger at the default log path.
func New() (*Logger, error) {
	path, err := defaultLogPath()
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zl, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{sugar: zl.Sugar()}, nil
}

// Nop returns a logger that discards everything. Used in tests and when
// the log file cannot be opened.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// defaultLogPath resolves the log file location:
// 1. DISHA_LOG environment variable
// 2. $XDG_STATE_HOME/disha/disha.log
// 3. ~/.local/state/disha/disha.log
func defaultLogPath() (string, error) {
	if p := os.Getenv("DISHA_LOG"); p != "" {
		return p, ensureDir(p)
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}

	p := filepath.Join(stateHome, "disha", "disha.log")
	return p, ensureDir(p)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// With returns a child logger with the given key/value context attached.
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

// Sync flushes buffered entries. Safe to call on shutdown.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}
