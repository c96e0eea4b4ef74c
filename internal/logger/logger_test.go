package logger

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdesk/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		AppPort:     8080,
		LogLevel:    "info",
		LogFormat:   "json",
		MongoURI:    "mongodb://localhost:27017",
		MongoDBName: "test",
		JWTSecret:   "secret",
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), "level %q", tt.input)
	}
}

func TestBuildHandler_FormatSelection(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		expectJSON bool
	}{
		{"json format", "json", true},
		{"text format", "text", false},
		{"empty format defaults to json", "", true},
		{"unknown format defaults to json", "logfmt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(buildHandler(&buf, tt.format, slog.LevelInfo))
			log.Info("test message", "key", "value")

			output := buf.String()
			if tt.expectJSON {
				assert.Contains(t, output, `"msg":"test message"`)
				assert.Contains(t, output, `"key":"value"`)
			} else {
				assert.Contains(t, output, "test message")
				assert.Contains(t, output, "key=value")
				assert.NotContains(t, output, `"msg":`)
			}
		})
	}
}

func TestBuildHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(buildHandler(&buf, "json", slog.LevelInfo))

	log.Debug("debug message")
	assert.Empty(t, buf.String(), "debug should be suppressed at info level")

	log.Info("info message")
	assert.Contains(t, buf.String(), "info message")
}

func TestInit_Idempotency(t *testing.T) {
	log1, err := Init(testConfig())
	require.NoError(t, err)
	require.NotNil(t, log1)

	log2, err := Init(testConfig())
	require.NoError(t, err)
	assert.Same(t, log1, log2, "repeat Init returns the cached logger")

	other := testConfig()
	other.LogLevel = "debug"
	other.LogFormat = "text"

	log3, err := Init(other)
	require.NoError(t, err)
	assert.Same(t, log1, log3, "Init with different config still returns the first logger")
}

func TestInit_Concurrency(t *testing.T) {
	const numGoroutines = 10
	var wg sync.WaitGroup
	results := make([]*slog.Logger, numGoroutines)
	errs := make([]error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			results[index], errs[index] = Init(testConfig())
		}(i)
	}

	wg.Wait()

	for i := 0; i < numGoroutines; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		assert.Same(t, results[0], results[i], "concurrent Init calls share one instance")
	}
}

func TestL(t *testing.T) {
	log1, err := Init(testConfig())
	require.NoError(t, err)
	require.NotNil(t, log1)

	assert.Same(t, log1, L())
}
