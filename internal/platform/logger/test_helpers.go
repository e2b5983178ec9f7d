package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
)

// TestLogBuffer collects JSON log lines written concurrently by the code
// under test.
type TestLogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *TestLogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything written so far.
func (b *TestLogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Entries decodes one JSON object per non-empty line.
func (b *TestLogBuffer) Entries() ([]map[string]any, error) {
	var entries []map[string]any

	sc := bufio.NewScanner(bytes.NewBufferString(b.String()))
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, sc.Err()
}

// WithMessage returns the entries whose msg equals msg. Lines that are not
// JSON are skipped.
func (b *TestLogBuffer) WithMessage(msg string) []map[string]any {
	entries, _ := b.Entries()
	var out []map[string]any
	for _, e := range entries {
		if e[slog.MessageKey] == msg {
			out = append(out, e)
		}
	}
	return out
}

// NewTestLogger returns a debug-level JSON logger writing into a fresh
// buffer. The process-wide default logger is left alone, so parallel tests
// can each have their own.
func NewTestLogger() (*TestLogBuffer, *slog.Logger) {
	buf := &TestLogBuffer{}
	return buf, slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
