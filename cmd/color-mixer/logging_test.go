package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useLogDir(t *testing.T) {
	t.Helper()
	prev := logDir
	logDir = filepath.Join(t.TempDir(), "logs")
	t.Cleanup(func() {
		logDir = prev
		log.SetOutput(os.Stderr)
	})
}

func TestSetupLoggingDisabledByDefault(t *testing.T) {
	useLogDir(t)

	f, logger := setupLogging(false)
	assert.Nil(t, f)
	assert.Equal(t, io.Discard, log.Writer())

	logger.Info().Msg("dropped")
	_, err := os.Stat(logDir)
	assert.True(t, os.IsNotExist(err), "disabled logging must not create the log directory")
}

func TestSetupLoggingEnabledWithDebug(t *testing.T) {
	useLogDir(t)

	f, logger := setupLogging(true)
	require.NotNil(t, f)
	defer f.Close()

	logger.Debug().Str("kind", "tomato").Msg("Placed")
	log.Println("stdlib message")

	data, err := os.ReadFile(filepath.Join(logDir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"tomato"`)
	assert.Contains(t, string(data), "stdlib message")

	assert.NotEqual(t, os.Stdout, log.Writer())
	assert.NotEqual(t, os.Stderr, log.Writer())
}

func TestSetupLoggingRotation(t *testing.T) {
	useLogDir(t)
	require.NoError(t, os.MkdirAll(logDir, 0o755))

	logPath := filepath.Join(logDir, logFileName)
	require.NoError(t, os.WriteFile(logPath, make([]byte, maxLogSize+1), 0o644))

	f, _ := setupLogging(true)
	require.NotNil(t, f)
	defer f.Close()

	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)

	rotated := false
	for _, e := range entries {
		if e.Name() != logFileName && filepath.Ext(e.Name()) == ".log" {
			rotated = true
		}
	}
	assert.True(t, rotated, "expected a rotated log file")

	info, err := os.Stat(logPath)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(maxLogSize))
}
