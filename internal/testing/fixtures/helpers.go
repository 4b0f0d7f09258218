package fixtures

import (
	"context"
	"fmt"
	"sync"
)

// RecordingLogger captures log output per level for assertions.
// Safe for concurrent use.
type RecordingLogger struct {
	mu       sync.Mutex
	Verboses []string
	Infos    []string
	Warnings []string
	Errors   []string
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) Verbose(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Verboses = append(l.Verboses, fmt.Sprintf(format, args...))
}

func (l *RecordingLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, fmt.Sprintf(format, args...))
}

func (l *RecordingLogger) Warn(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warnings = append(l.Warnings, fmt.Sprintf(format, args...))
}

func (l *RecordingLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, fmt.Sprintf(format, args...))
}

// StaticApprover answers every approval request with a canned decision and
// records the targets it was asked about.
type StaticApprover struct {
	Approve bool
	Err     error

	mu      sync.Mutex
	Calls   int
	Targets []string
}

func (a *StaticApprover) RequestApproval(ctx context.Context, target string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Calls++
	a.Targets = append(a.Targets, target)
	return a.Approve, a.Err
}
