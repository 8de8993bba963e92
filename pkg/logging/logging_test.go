package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dremio/pkg/logging"
)

func TestNewLoggerFromConfig(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)

	t.Run("json output to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "client.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "debug",
			Format: "json",
			Output: path,
			Fields: map[string]any{"component": "catalog"},
		})
		logger.Info().Msg("expanded node")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "expanded node")
		assert.Contains(t, string(content), `"component":"catalog"`)
	})

	t.Run("level filtering", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "client.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "warn",
			Format: "json",
			Output: path,
		})
		logger.Info().Msg("hidden")
		logger.Warn().Msg("shown")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "hidden")
		assert.Contains(t, string(content), "shown")
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		cfg := logging.DefaultConfig()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		_ = logging.NewLoggerFromConfig(nil)
	})
}

func TestContextHelpers(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	ctx = logging.WithEntity(ctx, "1a2b", []string{"adls", "nyctaxi"})
	ctx = logging.WithJob(ctx, "J1")
	ctx = logging.WithOperation(ctx, "expand")
	logging.FromContext(ctx).Debug().Msg("fetching")

	assert.True(t, tl.Contains(`"entity_id":"1a2b"`))
	assert.True(t, tl.Contains(`"path":"adls.nyctaxi"`))
	assert.True(t, tl.Contains(`"job_id":"J1"`))
	assert.True(t, tl.Contains(`"operation":"expand"`))
	assert.Len(t, tl.Lines(), 1)
}

func TestWithEntityEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, logging.WithEntity(ctx, "", nil))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Equal(t, logging.Default(), logging.FromContext(nil))
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)
	logging.Warn().Str("kind", "source").Msg("captured")
	assert.True(t, tl.Contains("captured"))
}
