package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "CHUNK_SIZE", "UPLOAD_STEPS", "UPLOAD_STEP_PAUSE", "GOFILE_UPLOAD_URL", "MAX_CONCURRENT_TRANSFERS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, DefaultUploadSteps, cfg.UploadSteps)
	assert.Equal(t, DefaultUploadStepPause, cfg.UploadStepPause)
	assert.Equal(t, DefaultGoFileUploadURL, cfg.GoFileUploadURL)
	assert.GreaterOrEqual(t, cfg.MaxConcurrentTransfers, DefaultMaxConcurrentTransfers)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("API_ID", "42")
	t.Setenv("API_HASH", "hash")
	t.Setenv("OWNER_ID", "777")
	t.Setenv("CHUNK_SIZE", "65536")
	t.Setenv("UPLOAD_STEP_PAUSE", "250ms")
	t.Setenv("GOFILE_API_URL", "http://localhost:9000/")
	t.Setenv("MAX_CONCURRENT_TRANSFERS", "2")
	t.Setenv("DEBUG", "true")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 42, cfg.AppID)
	assert.Equal(t, int64(777), cfg.OwnerID)
	assert.Equal(t, 65536, cfg.ChunkSize)
	assert.Equal(t, 250*time.Millisecond, cfg.UploadStepPause)
	assert.Equal(t, "http://localhost:9000", cfg.GoFileAPIURL)
	assert.Equal(t, 2, cfg.MaxConcurrentTransfers)
	assert.True(t, cfg.Debug)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "lots")
	t.Setenv("UPLOAD_STEP_PAUSE", "soon")

	cfg := Load()
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, DefaultUploadStepPause, cfg.UploadStepPause)
}

func TestValidateReportsAllMissing(t *testing.T) {
	err := (&Config{}).Validate()
	require.Error(t, err)
	for _, want := range []string{"BOT_TOKEN", "API_ID", "API_HASH", "CHUNK_SIZE"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestSentryRelease(t *testing.T) {
	t.Setenv("SENTRY_RELEASE", "")
	assert.Equal(t, "dev", Load().SentryRelease)

	t.Setenv("SENTRY_RELEASE", "v1.4.0")
	assert.Equal(t, "v1.4.0", Load().SentryRelease)
}
