// Package testutils provides test helpers shared across packages.
package testutils

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// MockHandler is a slog.Handler recording every record it handles.
type MockHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

// NewMockLogger returns a logger writing to a new MockHandler, and the handler.
func NewMockLogger() (*slog.Logger, *MockHandler) {
	h := &MockHandler{}
	return slog.New(h), h
}

// Enabled implements Handler.Enabled.
func (h *MockHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements Handler.Handle.
func (h *MockHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, record.Clone())
	return nil
}

// WithAttrs implements Handler.WithAttrs. Attributes are dropped.
func (h *MockHandler) WithAttrs([]slog.Attr) slog.Handler {
	return h
}

// WithGroup implements Handler.WithGroup. Groups are dropped.
func (h *MockHandler) WithGroup(string) slog.Handler {
	return h
}

// Messages returns the messages of the records at the given level, containing substr.
func (h *MockHandler) Messages(level slog.Level, substr string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var msgs []string
	for _, r := range h.records {
		if r.Level == level && strings.Contains(r.Message, substr) {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}
