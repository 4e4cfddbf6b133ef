package logx

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, log.WarnLevel)
	logger.Info("should be filtered")
	logger.Warn("should appear")

	out := buf.String()
	assert.NotContains(t, out, "should be filtered")
	assert.Contains(t, out, "should appear")
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, log.InfoLevel, ParseLevel("not-a-level"))
	assert.Equal(t, log.DebugLevel, ParseLevel("debug"))
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2026, 8, 1, 15, 4, 5, 0, time.UTC)
	out, err := FormatTimestamp("%Y-%m-%d", ts)
	assert.NoError(t, err)
	assert.Equal(t, "2026-08-01", out)
}

func TestNewSessionIDIsUnique(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
