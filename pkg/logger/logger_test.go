package logger

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gammascope/pkg/config"
)

func newJSONLogger(t *testing.T) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := NewWithWriter(&config.LoggingConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)
	return l, &buf
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{name: "info level", cfg: &config.LoggingConfig{Level: "info"}},
		{name: "debug level json", cfg: &config.LoggingConfig{Level: "debug", Format: "json"}},
		{name: "invalid level", cfg: &config.LoggingConfig{Level: "loud"}, wantErr: true},
		{name: "with file", cfg: &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "gs.log")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"fatal", zerolog.FatalLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"verbose", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestFieldsAreWritten(t *testing.T) {
	l, buf := newJSONLogger(t)

	l.WithField("paint_seed", 305).
		WithFields(map[string]interface{}{"attempt": 2, "reused": false}).
		Warn("lookup failed")

	out := buf.String()
	assert.Contains(t, out, "lookup failed")
	assert.Contains(t, out, `"paint_seed":305`)
	assert.Contains(t, out, `"attempt":2`)
	assert.Contains(t, out, `"reused":false`)
	assert.Contains(t, out, `"app":"gammascope"`)
}

func TestWithFieldDoesNotLeakIntoParent(t *testing.T) {
	l, buf := newJSONLogger(t)

	_ = l.WithField("child", "yes")
	l.Info("parent message")

	assert.NotContains(t, buf.String(), "child")
}

func TestWithError(t *testing.T) {
	l, buf := newJSONLogger(t)

	assert.Equal(t, l, l.WithError(nil))

	l.WithError(errors.New("disk full")).Error("save failed")
	assert.Contains(t, buf.String(), "disk full")
}

func TestFieldTypes(t *testing.T) {
	l, buf := newJSONLogger(t)

	l.InfoWithFields("all types", map[string]interface{}{
		"string":   "x",
		"int64":    int64(7),
		"float":    0.25,
		"duration": 5 * time.Second,
		"strings":  []string{"a", "b"},
		"ints":     []int{1, 2},
		"custom":   struct{ Name string }{Name: "n"},
	})

	out := buf.String()
	assert.Contains(t, out, `"strings":["a","b"]`)
	assert.Contains(t, out, `"ints":[1,2]`)
	assert.Contains(t, out, `"float":0.25`)
}

func TestHelpers(t *testing.T) {
	tl := NewTestLogger()

	LogRequest(tl, "GET", "http://x", 200, time.Millisecond)
	LogRequest(tl, "GET", "http://x", 429, time.Millisecond)
	LogRequest(tl, "GET", "http://x", 502, time.Millisecond)
	LogRateLimit(tl, 12, 1, time.Second)
	LogProgress(tl, "fetcher", 1, 4)
	LogComponentStart(tl, "ranker", map[string]interface{}{"workers": 8})

	assert.Len(t, tl.GetMessagesByLevel("DEBUG"), 1)
	assert.Len(t, tl.GetMessagesByLevel("WARN"), 2)
	assert.True(t, tl.HasError())

	var progress LogMessage
	for _, m := range tl.GetMessages() {
		if m.Message == "Progress" {
			progress = m
		}
	}
	assert.Equal(t, "25.0%", progress.Fields["percentage"])
	assert.True(t, tl.HasMessage("Component started"))
}

func TestTestLoggerChildrenShareMessages(t *testing.T) {
	tl := NewTestLogger()
	child := tl.WithField("component", "viewer").WithError(errors.New("boom"))

	child.Info("hello")

	msgs := tl.GetMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "viewer", msgs[0].Fields["component"])
	assert.EqualError(t, msgs[0].Error, "boom")
	assert.Contains(t, tl.String(), "[INFO] hello")

	tl.Clear()
	assert.Empty(t, tl.GetMessages())
}

func TestGlobalLogger(t *testing.T) {
	require.NoError(t, Initialize(&config.LoggingConfig{Level: "disabled"}))
	assert.NotNil(t, GetLogger())

	tl := NewTestLogger()
	SetLogger(tl)
	WithField("k", "v").Info("global")
	assert.True(t, tl.HasMessage("global"))
}
