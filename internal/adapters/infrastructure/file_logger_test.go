package infrastructure

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weatherproxy.app/internal/ports"
	"weatherproxy.app/pkg/errors"
)

var _ ports.Logger = (*FileLoggerAdapter)(nil)

func readLogLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry), "line %q", scanner.Text())
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestFileLoggerAdapter_NewFileLoggerAdapter(t *testing.T) {
	t.Run("CreatesNestedDirectories", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "nested", "deep", "weather.log")

		logger, err := NewFileLoggerAdapter(logPath)
		require.NoError(t, err)
		defer logger.Close()

		assert.DirExists(t, filepath.Dir(logPath))
		assert.FileExists(t, logPath)
	})

	t.Run("EmptyPath", func(t *testing.T) {
		logger, err := NewFileLoggerAdapter("")
		assert.Nil(t, logger)
		assert.True(t, errors.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "log file path cannot be empty")
	})
}

func TestFileLoggerAdapter_LogLevels(t *testing.T) {
	tests := []struct {
		level   string
		message string
		fields  []ports.Field
		log     func(l ports.Logger, msg string, fields ...ports.Field)
	}{
		{"DEBUG", "Debug message", []ports.Field{ports.F("key", "value")}, ports.Logger.Debug},
		{"INFO", "Info message", []ports.Field{ports.F("provider", "openweathermap")}, ports.Logger.Info},
		{"WARN", "Warning message", []ports.Field{ports.F("city", "London"), ports.F("error", "timeout")}, ports.Logger.Warn},
		{"ERROR", "Error message", []ports.Field{ports.F("duration_ms", 5000)}, ports.Logger.Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logPath := filepath.Join(t.TempDir(), "test.log")
			logger, err := NewFileLoggerAdapter(logPath)
			require.NoError(t, err)

			tt.log(logger, tt.message, tt.fields...)
			require.NoError(t, logger.Close())

			entries := readLogLines(t, logPath)
			require.Len(t, entries, 1)
			entry := entries[0]

			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, tt.message, entry["message"])

			timestamp, ok := entry["timestamp"].(string)
			require.True(t, ok)
			_, err = time.Parse(time.RFC3339, timestamp)
			assert.NoError(t, err)

			for _, field := range tt.fields {
				// JSON numbers decode as float64
				if expectedInt, ok := field.Value.(int); ok {
					assert.Equal(t, float64(expectedInt), entry[field.Key])
				} else {
					assert.Equal(t, field.Value, entry[field.Key])
				}
			}
		})
	}
}

func TestFileLoggerAdapter_ReservedKeysWin(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewFileLoggerAdapter(logPath)
	require.NoError(t, err)

	logger.Info("real message", ports.F("message", "shadow"), ports.F("level", "DEBUG"))
	require.NoError(t, logger.Close())

	entries := readLogLines(t, logPath)
	require.Len(t, entries, 1)
	assert.Equal(t, "real message", entries[0]["message"])
	assert.Equal(t, "INFO", entries[0]["level"])
}

func TestFileLoggerAdapter_UnmarshalableField(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewFileLoggerAdapter(logPath)
	require.NoError(t, err)

	logger.Info("bad field", ports.F("ch", make(chan int)))
	require.NoError(t, logger.Close())

	entries := readLogLines(t, logPath)
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.Contains(t, entries[0]["message"], "failed to marshal log entry")
}

func TestFileLoggerAdapter_AppendsAcrossInstances(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	for i := 0; i < 2; i++ {
		logger, err := NewFileLoggerAdapter(logPath)
		require.NoError(t, err)
		logger.Info(fmt.Sprintf("run %d", i))
		require.NoError(t, logger.Close())
	}

	entries := readLogLines(t, logPath)
	require.Len(t, entries, 2)
	assert.Equal(t, "run 0", entries[0]["message"])
	assert.Equal(t, "run 1", entries[1]["message"])
}

func TestFileLoggerAdapter_DropsAfterClose(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewFileLoggerAdapter(logPath)
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())
	logger.Info("dropped")

	assert.Empty(t, readLogLines(t, logPath))
}

func TestFileLoggerAdapter_ConcurrentLogging(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "concurrent.log")
	logger, err := NewFileLoggerAdapter(logPath)
	require.NoError(t, err)

	const goroutines, perGoroutine = 10, 5

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				logger.Info(fmt.Sprintf("Message from goroutine %d", id),
					ports.F("goroutine_id", id),
					ports.F("message_id", j))
			}
		}(i)
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	entries := readLogLines(t, logPath)
	assert.Len(t, entries, goroutines*perGoroutine)
	for _, entry := range entries {
		assert.True(t, strings.HasPrefix(entry["message"].(string), "Message from goroutine"))
		assert.Contains(t, entry, "goroutine_id")
		assert.Contains(t, entry, "message_id")
	}
}

func TestFileLoggerAdapter_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}

	logPath := filepath.Join(t.TempDir(), "permissions.log")
	logger, err := NewFileLoggerAdapter(logPath)
	require.NoError(t, err)
	defer logger.Close()

	info, err := os.Stat(logPath)
	require.NoError(t, err)
	assert.Zero(t, info.Mode().Perm()&^0o644, "no permissions beyond 0644")
}
