package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer for testing.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)

	mu.Lock()
	originalOutput := output
	originalColor := useColor
	mu.Unlock()
	originalLevel := Level(currentLevel.Load())
	originalFormat, _ := currentFormat.Load().(string)

	InitWithWriter(buf, "", "text", false)

	t.Cleanup(func() {
		mu.Lock()
		output = originalOutput
		useColor = originalColor
		mu.Unlock()
		currentLevel.Store(int32(originalLevel))
		currentFormat.Store(originalFormat)
		reconfigure()
	})
	return buf
}

func TestLevelFiltering(t *testing.T) {
	t.Run("DebugLevelShowsAllMessages", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("DEBUG")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		out := buf.String()
		for _, want := range []string{"[DEBUG] debug message", "[INFO] info message", "[WARN] warn message", "[ERROR] error message"} {
			assert.Contains(t, out, want)
		}
	})

	t.Run("WarnLevelFiltersInfoAndDebug", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("warn")

		Debug("debug message")
		Info("info message")
		Warn("warn message")

		out := buf.String()
		assert.NotContains(t, out, "debug message")
		assert.NotContains(t, out, "info message")
		assert.Contains(t, out, "warn message")
	})

	t.Run("InvalidLevelIsIgnored", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("INFO")
		SetLevel("LOUD")

		Debug("hidden")
		Info("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestTextFormatting(t *testing.T) {
	t.Run("QuotesValuesWithSpaces", func(t *testing.T) {
		buf := captureOutput(t)

		Info("engine resolved", KeyExecutable, `C:\Program Files\RF2K-TRAINER\rf2k-trainer.exe`, KeyExitCode, 0)

		out := buf.String()
		assert.Contains(t, out, `executable="C:\\Program Files\\RF2K-TRAINER\\rf2k-trainer.exe"`)
		assert.Contains(t, out, "exit_code=0")
	})

	t.Run("GroupsPrefixKeys", func(t *testing.T) {
		buf := captureOutput(t)

		With("component", "lock").WithGroup("record").Info("stale lock removed", "pid", 42)

		out := buf.String()
		assert.Contains(t, out, "component=lock")
		assert.Contains(t, out, "record.pid=42")
	})
}

func TestJSONFormat(t *testing.T) {
	buf := captureOutput(t)
	SetFormat("json")

	Info("run finished", KeyExitCode, 111)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "run finished", entry["msg"])
	assert.Equal(t, float64(111), entry[KeyExitCode])
}

func TestContextFields(t *testing.T) {
	buf := captureOutput(t)

	lc := NewLogContext("abc-123", "/tmp/state").WithChoice("info")
	ctx := WithContext(context.Background(), lc)

	InfoCtx(ctx, "dispatching")

	out := buf.String()
	assert.Contains(t, out, "session_id=abc-123")
	assert.Contains(t, out, "choice=info")
}

func TestContextFieldsWithoutLogContext(t *testing.T) {
	buf := captureOutput(t)

	InfoCtx(context.Background(), "plain")

	assert.NotContains(t, buf.String(), KeySessionID)
}

func TestLogContextClone(t *testing.T) {
	var nilCtx *LogContext
	assert.Nil(t, nilCtx.Clone())
	assert.Zero(t, nilCtx.Elapsed())

	lc := NewLogContext("s1", "/state")
	choice := lc.WithChoice("debug")
	assert.Empty(t, lc.Choice)
	assert.Equal(t, "debug", choice.Choice)
	assert.Equal(t, "s1", choice.SessionID)
}

func TestInitFileOutput(t *testing.T) {
	t.Cleanup(func() {
		_ = Close()
		SetLevel("INFO")
		SetFormat("text")
	})

	logPath := filepath.Join(t.TempDir(), "nested", "launcher.log")
	require.NoError(t, Init(Config{Level: "DEBUG", Format: "text", Output: logPath}))

	Debug("written to file")
	require.NoError(t, Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "written to file"))
	assert.NotContains(t, string(data), colorReset)
}
