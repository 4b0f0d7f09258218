package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"testing"
)

// captureStderr runs fn while capturing everything written to stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stderr = w
	defer func() { os.Stderr = old }()

	fn()

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close pipe writer: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return string(data)
}

func TestConsoleLoggerVerboseEnabled(t *testing.T) {
	out := captureStderr(t, func() {
		logger := NewConsoleLogger(true)
		logger.Verbose("scanning %s", "sub-01")
	})

	if !strings.Contains(out, "[VERBOSE] scanning sub-01") {
		t.Errorf("expected verbose output, got %q", out)
	}
}

func TestConsoleLoggerVerboseDisabled(t *testing.T) {
	out := captureStderr(t, func() {
		logger := NewConsoleLogger(false)
		logger.Verbose("should not appear")
	})

	if out != "" {
		t.Errorf("expected no output in non-verbose mode, got %q", out)
	}
}

func TestConsoleLoggerInfo(t *testing.T) {
	out := captureStderr(t, func() {
		logger := NewConsoleLogger(false)
		logger.Info("extracted %d records", 3)
	})

	if !strings.Contains(out, "extracted 3 records") {
		t.Errorf("expected info output, got %q", out)
	}
	if strings.Contains(out, "[") {
		t.Errorf("info output should carry no level prefix, got %q", out)
	}
}

func TestConsoleLoggerWarn(t *testing.T) {
	out := captureStderr(t, func() {
		logger := NewConsoleLogger(false)
		logger.Warn("could not parse row %d", 7)
	})

	if !strings.Contains(out, "[WARN] could not parse row 7") {
		t.Errorf("expected warn output, got %q", out)
	}
}

func TestConsoleLoggerError(t *testing.T) {
	out := captureStderr(t, func() {
		logger := NewConsoleLogger(false)
		logger.Error("extraction failed: %v", io.ErrUnexpectedEOF)
	})

	if !strings.Contains(out, "[ERROR] extraction failed: unexpected EOF") {
		t.Errorf("expected error output, got %q", out)
	}
}

func TestConsoleLoggerLiteralPercent(t *testing.T) {
	// Messages without args must pass through unformatted, even when they
	// contain formatting verbs.
	out := captureStderr(t, func() {
		logger := NewConsoleLogger(false)
		logger.Info("progress 100%s done")
	})

	if !strings.Contains(out, "progress 100%s done") {
		t.Errorf("expected literal output, got %q", out)
	}
}

func TestConsoleLoggerConcurrentUse(t *testing.T) {
	out := captureStderr(t, func() {
		logger := NewConsoleLogger(true)
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.Verbose("worker %d", n)
				logger.Info("worker %d", n)
				logger.Warn("worker %d", n)
				logger.Error("worker %d", n)
			}(i)
		}
		wg.Wait()
	})

	// 16 goroutines x 4 lines each. Mutex serialization keeps lines whole.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 64 {
		t.Errorf("expected 64 log lines, got %d", len(lines))
	}
}

func TestNullLoggerDiscardsEverything(t *testing.T) {
	out := captureStderr(t, func() {
		logger := NewNullLogger()
		logger.Verbose("v")
		logger.Info("i")
		logger.Warn("w")
		logger.Error("e")
	})

	if out != "" {
		t.Errorf("expected no output from NullLogger, got %q", out)
	}
}
