package ulogger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToZerolog(t *testing.T) {
	logger := New("test", WithWriter(&bytes.Buffer{}))
	require.NotNil(t, logger)

	_, ok := logger.(*ZLoggerWrapper)
	assert.True(t, ok)
}

func TestNewGoCore(t *testing.T) {
	logger := New("test", WithLoggerType("gocore"))
	require.NotNil(t, logger)

	_, ok := logger.(*GoCoreLogger)
	assert.True(t, ok)
}

func TestZeroLoggerSetLogLevel(t *testing.T) {
	logger := NewZeroLogger("test", WithWriter(&bytes.Buffer{}))

	logger.SetLogLevel("DEBUG")
	assert.Equal(t, "debug", logger.GetLevel().String())

	logger.SetLogLevel("ERROR")
	assert.Equal(t, "error", logger.GetLevel().String())

	// unknown levels fall back to info
	logger.SetLogLevel("bogus")
	assert.Equal(t, "info", logger.GetLevel().String())
}

func TestZeroLoggerNewInheritsLevel(t *testing.T) {
	parent := NewZeroLogger("parent", WithWriter(&bytes.Buffer{}), WithLevel("ERROR"))

	child, ok := parent.New("child").(*ZLoggerWrapper)
	require.True(t, ok)
	assert.Equal(t, "error", child.GetLevel().String())
}
