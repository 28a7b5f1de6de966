// Package logging builds the zap loggers used across trainerdesk.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultDebugPath is where the TUI writes its debug log when --debug is set.
const DefaultDebugPath = "trainerdesk-debug.log"

// Options configures New.
type Options struct {
	// Debug enables logging. When false, New returns a no-op logger.
	Debug bool
	// Path is the log file. The TUI owns the terminal, so debug output never
	// goes to stderr. Defaults to DefaultDebugPath.
	Path string
}

// New returns a logger for interactive commands and a close func that flushes
// and releases the log file.
func New(opts Options) (*zap.Logger, func(), error) {
	if !opts.Debug {
		return zap.NewNop(), func() {}, nil
	}

	path := opts.Path
	if path == "" {
		path = DefaultDebugPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("creating debug log: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zapcore.DebugLevel)
	logger := zap.New(core).With(zap.String("log_file", path))
	logger.Debug("debug logging started")

	closeFn := func() {
		logger.Debug("debug logging stopped")
		_ = logger.Sync()
		_ = f.Close()
	}
	return logger, closeFn, nil
}

// NewServer returns the stderr logger used by long-running commands such as serve.
func NewServer(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
