package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer, verbose bool) *Logger {
	l := New(buf, verbose, false)
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC) }
	return l
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, false)

	l.Debug("hidden %d", 1)
	l.Info("shown %s", "info")
	l.Warn("careful")
	l.Error("broken: %v", "disk")

	assert.Equal(t,
		"[03:04:05.006 INFO] shown info\n"+
			"[03:04:05.006 WARN] careful\n"+
			"[03:04:05.006 ERROR] broken: disk\n",
		buf.String())
}

func TestLoggerVerboseShowsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, true)

	l.Debug("walking %s", "src")

	assert.Equal(t, "[03:04:05.006 DEBUG] walking src\n", buf.String())
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, false)

	l.SetLevel("error")
	l.Warn("dropped")
	assert.Empty(t, buf.String())
	assert.Equal(t, LevelError, l.Level())

	l.SetLevel("bogus")
	assert.Equal(t, LevelInfo, l.Level())
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"DEBUG":    LevelDebug,
		"info":     LevelInfo,
		"":         LevelInfo,
		"Warning":  LevelWarn,
		"CRITICAL": LevelError,
		"off":      LevelNone,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
