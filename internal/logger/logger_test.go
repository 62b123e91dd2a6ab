package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(Config{Output: &buf, MinLevel: level, Format: format}), &buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) Entry {
	t.Helper()
	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to unmarshal log entry %q: %v", buf.String(), err)
	}
	return entry
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, MinLevel: LevelDebug, Format: FormatText, WithStack: true})

	if logger.output != &buf {
		t.Error("expected output to be set")
	}
	if logger.minLevel != LevelDebug {
		t.Errorf("expected minLevel DEBUG, got %s", logger.minLevel)
	}
	if logger.format != FormatText {
		t.Errorf("expected text format, got %s", logger.format)
	}
	if !logger.withStack {
		t.Error("expected withStack to be true")
	}
}

func TestDefault(t *testing.T) {
	logger := Default()

	if logger.minLevel != LevelInfo {
		t.Errorf("expected minLevel INFO, got %s", logger.minLevel)
	}
	if logger.format != FormatJSON {
		t.Errorf("expected json format, got %s", logger.format)
	}
}

func TestLevels_JSON(t *testing.T) {
	tests := []struct {
		level Level
		emit  func(l *Logger)
		msg   string
		err   string
	}{
		{LevelDebug, func(l *Logger) { l.Debug("step applied") }, "step applied", ""},
		{LevelInfo, func(l *Logger) { l.Info("film built") }, "film built", ""},
		{LevelWarn, func(l *Logger) { l.Warn("shutdown deadline exceeded") }, "shutdown deadline exceeded", ""},
		{LevelError, func(l *Logger) { l.Error("request failed", errors.New("bad sender")) }, "request failed", "bad sender"},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			logger, buf := newBufferLogger(LevelDebug, FormatJSON)
			tt.emit(logger)

			entry := decodeEntry(t, buf)
			if entry.Level != tt.level {
				t.Errorf("expected level %s, got %s", tt.level, entry.Level)
			}
			if entry.Message != tt.msg {
				t.Errorf("expected message %q, got %q", tt.msg, entry.Message)
			}
			if entry.Error != tt.err {
				t.Errorf("expected error %q, got %q", tt.err, entry.Error)
			}
			if entry.Timestamp == "" {
				t.Error("expected timestamp to be set")
			}
		})
	}
}

func TestMinLevel(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatText} {
		t.Run(string(format), func(t *testing.T) {
			logger, buf := newBufferLogger(LevelWarn, format)

			logger.Debug("hidden")
			logger.Info("hidden")
			logger.WithFields(map[string]interface{}{"title": "Tatort"}).Debug("hidden")
			if buf.Len() > 0 {
				t.Fatalf("expected no output below WARN, got %q", buf.String())
			}

			logger.Warn("shown")
			if !strings.Contains(buf.String(), "shown") {
				t.Errorf("expected WARN entry, got %q", buf.String())
			}
		})
	}
}

func TestErrorWithStack(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, MinLevel: LevelDebug, WithStack: true})

	logger.Warn("no stack for warnings")
	logger.Error("error with stack", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(lines))
	}

	var warn, failure Entry
	if err := json.Unmarshal([]byte(lines[0]), &warn); err != nil {
		t.Fatalf("failed to unmarshal warn entry: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &failure); err != nil {
		t.Fatalf("failed to unmarshal error entry: %v", err)
	}
	if len(warn.Stack) != 0 {
		t.Error("expected no stack on warn entry")
	}
	if len(failure.Stack) == 0 {
		t.Error("expected stack trace on error entry")
	}
}

func TestWithFields(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	logger.WithFields(map[string]interface{}{
		"sender":    "ARD",
		"index_key": "TatortKrimi",
	}).Info("film built")

	entry := decodeEntry(t, buf)
	if entry.Context["sender"] != "ARD" {
		t.Errorf("expected sender ARD, got %v", entry.Context["sender"])
	}
	if entry.Context["index_key"] != "TatortKrimi" {
		t.Errorf("expected index_key TatortKrimi, got %v", entry.Context["index_key"])
	}
}

func TestContextIDs(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected map[string]interface{}
	}{
		{"none", context.Background(), map[string]interface{}{}},
		{"request", ContextWithRequestID(context.Background(), "req-123"), map[string]interface{}{"request_id": "req-123"}},
		{"film", ContextWithFilmID(context.Background(), "film-456"), map[string]interface{}{"film_id": "film-456"}},
		{"both", ContextWithFilmID(ContextWithRequestID(context.Background(), "req-123"), "film-456"),
			map[string]interface{}{"request_id": "req-123", "film_id": "film-456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelInfo, FormatJSON)
			logger.InfoContext(tt.ctx, "request handled")

			entry := decodeEntry(t, buf)
			if len(entry.Context) != len(tt.expected) {
				t.Errorf("expected context %v, got %v", tt.expected, entry.Context)
			}
			for k, v := range tt.expected {
				if entry.Context[k] != v {
					t.Errorf("expected %s=%v, got %v", k, v, entry.Context[k])
				}
			}
		})
	}
}

func TestFieldLoggerContext_FieldsWinOverContext(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)

	ctx := ContextWithFilmID(context.Background(), "from-context")
	logger.WithFields(map[string]interface{}{"film_id": "from-fields", "hook": "http"}).
		ErrorContext(ctx, "shutdown hook failed", errors.New("timeout"))

	entry := decodeEntry(t, buf)
	if entry.Context["film_id"] != "from-fields" {
		t.Errorf("expected explicit field to win, got %v", entry.Context["film_id"])
	}
	if entry.Context["hook"] != "http" {
		t.Errorf("expected hook field, got %v", entry.Context["hook"])
	}
	if entry.Error != "timeout" {
		t.Errorf("expected error 'timeout', got %q", entry.Error)
	}
}

func TestTextFormat(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)

	logger.WithFields(map[string]interface{}{
		"title": "Tatort",
		"after": 400,
	}).Error("description truncated", errors.New("boom"))

	output := strings.TrimSpace(buf.String())
	if json.Valid([]byte(output)) {
		t.Fatalf("expected text output, got JSON: %s", output)
	}
	if !strings.Contains(output, " ERROR description truncated after=400 title=Tatort error=\"boom\"") {
		t.Errorf("unexpected text entry: %s", output)
	}
}

func TestTextFormat_ContextIDs(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)

	ctx := ContextWithFilmID(ContextWithRequestID(context.Background(), "req-1"), "film-2")
	logger.InfoContext(ctx, "film built")

	output := strings.TrimSpace(buf.String())
	if !strings.HasSuffix(output, " INFO film built film_id=film-2 request_id=req-1") {
		t.Errorf("unexpected text entry: %s", output)
	}
}

func TestTextFormat_StackLines(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, MinLevel: LevelError, Format: FormatText, WithStack: true})

	logger.Error("panic while handling request", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected stack lines after the entry, got %q", buf.String())
	}
	for _, frame := range lines[1:] {
		if !strings.HasPrefix(frame, "\t") {
			t.Errorf("expected indented stack frame, got %q", frame)
		}
	}
}

func TestRenderText_NoContext(t *testing.T) {
	got := renderText(Entry{Timestamp: "ts", Level: LevelWarn, Message: "deadline"})
	if got != "ts WARN deadline" {
		t.Errorf("unexpected rendering %q", got)
	}
}

func TestConcurrentWrites_OneEntryPerLine(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.WithFields(map[string]interface{}{"title": "Tatort"}).Info("description normalized")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !json.Valid([]byte(line)) {
			t.Fatalf("interleaved entry: %q", line)
		}
	}
}

func TestNewWithLevelAndFormat(t *testing.T) {
	tests := []struct {
		level, format  string
		expectedLevel  Level
		expectedFormat Format
		expectStack    bool
	}{
		{"debug", "json", LevelDebug, FormatJSON, true},
		{"INFO", "text", LevelInfo, FormatText, false},
		{"WARN", "TEXT", LevelWarn, FormatText, false},
		{"error", "", LevelError, FormatJSON, false},
		{"invalid", "yaml", LevelInfo, FormatJSON, false},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			logger := NewWithLevelAndFormat(tt.level, tt.format)
			if logger.minLevel != tt.expectedLevel {
				t.Errorf("expected level %s, got %s", tt.expectedLevel, logger.minLevel)
			}
			if logger.format != tt.expectedFormat {
				t.Errorf("expected format %s, got %s", tt.expectedFormat, logger.format)
			}
			if logger.withStack != tt.expectStack {
				t.Errorf("expected withStack %v, got %v", tt.expectStack, logger.withStack)
			}
		})
	}

	if NewWithLevel("warn").format != FormatJSON {
		t.Error("expected NewWithLevel to use json")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug": LevelDebug,
		"Info":  LevelInfo,
		"WARN":  LevelWarn,
		"error": LevelError,
		"trace": LevelInfo,
		"":      LevelInfo,
	}

	for input, expected := range tests {
		if level := parseLevel(input); level != expected {
			t.Errorf("parseLevel(%q) = %s, want %s", input, level, expected)
		}
	}
}

func TestEnabled(t *testing.T) {
	logger := New(Config{Output: &bytes.Buffer{}, MinLevel: LevelWarn})
	if logger.Enabled(LevelDebug) {
		t.Error("debug should be disabled when minLevel is WARN")
	}
	if !logger.Enabled(LevelError) {
		t.Error("error should be enabled when minLevel is WARN")
	}
}

func resetLoggers() {
	mu.Lock()
	appLogger = nil
	apiLogger = nil
	mu.Unlock()
}

func TestInitializeLoggers(t *testing.T) {
	resetLoggers()
	defer resetLoggers()

	InitializeLoggers("debug", "warn", "text")

	if AppLogger().minLevel != LevelDebug {
		t.Errorf("expected app logger level DEBUG, got %s", AppLogger().minLevel)
	}
	if APILogger().minLevel != LevelWarn {
		t.Errorf("expected API logger level WARN, got %s", APILogger().minLevel)
	}
	if AppLogger().format != FormatText || APILogger().format != FormatText {
		t.Error("expected both loggers to use the text format")
	}
}

func TestSingletons(t *testing.T) {
	resetLoggers()
	defer resetLoggers()

	if AppLogger() != AppLogger() {
		t.Error("expected AppLogger to return the same instance")
	}
	if APILogger() != APILogger() {
		t.Error("expected APILogger to return the same instance")
	}
	if AppLogger() == APILogger() {
		t.Error("expected separate app and API loggers")
	}

	custom := NewWithLevel("error")
	SetAppLogger(custom)
	SetAPILogger(custom)
	if AppLogger() != custom || APILogger() != custom {
		t.Error("expected custom loggers to be set")
	}

	SetAppLogger(nil)
	if AppLogger() == nil {
		t.Error("expected a default logger after clearing the app logger")
	}
}
