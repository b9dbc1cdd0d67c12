package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
)

// TestLogBuffer collects JSON log output. It may be written concurrently.
type TestLogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *TestLogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far.
func (b *TestLogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Entries decodes the buffered output into one map per log record.
func (b *TestLogBuffer) Entries() ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(b.String())))
	var entries []map[string]any
	for {
		var entry map[string]any
		err := dec.Decode(&entry)
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}

// NewTestLogger returns a debug-level JSON logger and the buffer it writes to.
func NewTestLogger(t *testing.T) (*slog.Logger, *TestLogBuffer) {
	t.Helper()
	buf := &TestLogBuffer{}
	return New(buf, slog.LevelDebug), buf
}
