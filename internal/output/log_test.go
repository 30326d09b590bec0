package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

// captureLog sets up the logger and redirects it to a buffer.
func captureLog(cfg LogConfig) *bytes.Buffer {
	var buf bytes.Buffer
	SetupLogging(cfg)
	SetOutput(&buf)
	return &buf
}

func TestSetupLogging_TimestampDefaultOn(t *testing.T) {
	buf := captureLog(LogConfig{})
	Info("test")
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}`, strings.TrimSpace(buf.String()))
}

func TestSetupLogging_TimestampExplicitlyDisabled(t *testing.T) {
	buf := captureLog(LogConfig{Timestamps: BoolPtr(false)})
	Info("hello")
	assert.NotRegexp(t, `^\d{1,2}:\d{2}:\d{2}`, strings.TrimSpace(buf.String()),
		"output should not start with a timestamp")
}

func TestSetupLogging_VerboseEnablesDebugLevel(t *testing.T) {
	buf := captureLog(LogConfig{Verbose: true, Timestamps: BoolPtr(false)})
	Debug("verbose-msg")
	assert.Equal(t, log.DebugLevel, Logger().GetLevel())
	assert.Contains(t, buf.String(), "verbose-msg")
}

func TestSetupLogging_DefaultInfoLevel(t *testing.T) {
	buf := captureLog(LogConfig{})
	Debug("hidden")
	assert.Equal(t, log.InfoLevel, Logger().GetLevel())
	assert.NotContains(t, buf.String(), "hidden")
}

func TestComponentLogger_HasPrefix(t *testing.T) {
	SetupLogging(LogConfig{})
	l := ComponentLogger("button")
	assert.Contains(t, l.GetPrefix(), "button")
}

func TestComponentLogger_InheritsLevel(t *testing.T) {
	SetupLogging(LogConfig{Verbose: true})
	l := ComponentLogger("card")
	assert.Equal(t, log.DebugLevel, l.GetLevel())
}

func TestBoolPtr(t *testing.T) {
	assert.True(t, *BoolPtr(true))
	assert.False(t, *BoolPtr(false))
}
