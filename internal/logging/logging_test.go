package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_DisabledIsNop(t *testing.T) {
	logger, closeFn, err := New(Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()
	if logger.Core().Enabled(zap.ErrorLevel) {
		t.Error("expected nop logger to have every level disabled")
	}
}

func TestNew_DebugWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")

	logger, closeFn, err := New(Options{Debug: true, Path: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("fetch applied", zap.Int("seq", 3))
	closeFn()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"msg":"fetch applied"`, `"seq":3`, `"log_file"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s:\n%s", want, out)
		}
	}
}
