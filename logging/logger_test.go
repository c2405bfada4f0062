package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerIsSingletonPerComponent(t *testing.T) {
	a := NewLogger("test-component")
	b := NewLogger("test-component")
	assert.Same(t, a, b)

	c := NewLogger("other-component")
	assert.NotSame(t, a, c)
}

func TestTextFormatter(t *testing.T) {
	f := &TextFormatter{}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "socket dropped",
		Data:    logrus.Fields{"component": "live", "attempt": 3},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)

	line := string(out)
	assert.Contains(t, line, "2026-08-26 12:00:00")
	assert.Contains(t, line, "[WARN]")
	assert.Contains(t, line, "socket dropped")
	assert.Contains(t, line, "attempt=3")
}

func TestTextFormatterSimplePreset(t *testing.T) {
	f := &TextFormatter{Config: FormatConfig{DisableTimestamp: true, DisableComponent: true}}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Now(),
		Level:   logrus.InfoLevel,
		Message: "hello",
		Data:    logrus.Fields{"component": "cli"},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(out), "2026"))
	assert.Contains(t, string(out), "[INFO] hello")
}

func TestPrettyLoggerNotices(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrettyLogger().WithWriter(&buf)

	p.Success("Started F001")
	p.Error("start feature F002: server rejected")

	out := buf.String()
	assert.Contains(t, out, "Started F001")
	assert.Contains(t, out, "server rejected")
}
