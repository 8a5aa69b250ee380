// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/hyperbrowserai/hyperagent-go/internal/config"
)

// -- Test Cases --

func TestInitialize(t *testing.T) {

	t.Run("should initialize console logger with colors", func(t *testing.T) {
		ResetForTest()
		var buf bytes.Buffer

		cfg := config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "TestService",
			Colors: config.ColorConfig{
				Info: "green",
			},
		}
		Initialize(cfg, zapcore.AddSync(&buf))
		logger := GetLogger()
		logger.Info("This is a test message.")

		output := buf.String()
		assert.Contains(t, output, "INFO", "Output should contain the log level")
		assert.Contains(t, output, "This is a test message.", "Output should contain the message")
		assert.Contains(t, output, colorMap["green"], "Info level should be colorized green")
		assert.Contains(t, output, colorReset, "Output should contain the reset color code")
		assert.Contains(t, output, "TestService.", "Output should carry the service name")
	})

	t.Run("should initialize json logger", func(t *testing.T) {
		ResetForTest()
		var buf bytes.Buffer

		cfg := config.LoggerConfig{
			Level:       "info",
			Format:      "json",
			ServiceName: "JSONTest",
		}
		Initialize(cfg, zapcore.AddSync(&buf))
		GetLogger().Info("structured message")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "JSON output should be decodable")
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "structured message", entry["msg"])
		assert.Equal(t, "JSONTest", entry["logger"])
		assert.NotContains(t, buf.String(), colorReset, "JSON output must not contain ANSI codes")
	})

	t.Run("should respect the configured level", func(t *testing.T) {
		ResetForTest()
		var buf bytes.Buffer

		Initialize(config.LoggerConfig{Level: "warn", Format: "json"}, zapcore.AddSync(&buf))
		logger := GetLogger()
		logger.Info("filtered out")
		logger.Warn("kept")

		output := buf.String()
		assert.NotContains(t, output, "filtered out")
		assert.Contains(t, output, "kept")
	})

	t.Run("should fall back to info level on garbage input", func(t *testing.T) {
		ResetForTest()
		var buf bytes.Buffer

		Initialize(config.LoggerConfig{Level: "chatty", Format: "json"}, zapcore.AddSync(&buf))
		logger := GetLogger()
		logger.Debug("too fine")
		logger.Info("visible")

		output := buf.String()
		assert.NotContains(t, output, "too fine")
		assert.Contains(t, output, "visible")
	})

	t.Run("should only initialize once", func(t *testing.T) {
		ResetForTest()
		var first, second bytes.Buffer

		Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&first))
		Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&second))

		GetLogger().Info("single home")
		assert.Contains(t, first.String(), "single home")
		assert.Empty(t, second.String(), "A second Initialize call must not rewire the logger")
	})

	t.Run("should write a rotating file core when configured", func(t *testing.T) {
		ResetForTest()
		var buf bytes.Buffer
		logFile := filepath.Join(t.TempDir(), "hyperagent.log")

		cfg := config.LoggerConfig{
			Level:   "info",
			Format:  "console",
			LogFile: logFile,
			MaxSize: 1,
		}
		Initialize(cfg, zapcore.AddSync(&buf))
		GetLogger().Info("goes to both sinks")
		Sync()

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "goes to both sinks")
		// The file core is JSON regardless of the console format.
		firstLine := strings.SplitN(string(data), "\n", 2)[0]
		var entry map[string]any
		assert.NoError(t, json.Unmarshal([]byte(firstLine), &entry))
	})
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	logger := GetLogger()
	require.NotNil(t, logger, "GetLogger must never return nil")
}
