package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"docent/internal/config"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("GEMINI_API_KEY", "test-key")
	os.Setenv("DB_HOST", "test-host")
	defer os.Unsetenv("GEMINI_API_KEY")
	defer os.Unsetenv("DB_HOST")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "test-host", cfg.DBHost)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
}

func TestLoadConfig_Defaults(t *testing.T) {
	os.Setenv("GEMINI_API_KEY", "test-key")
	defer os.Unsetenv("GEMINI_API_KEY")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 100, cfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.TopKAsk)
	assert.Equal(t, 8, cfg.TopKChallenge)
	assert.Equal(t, 3, cfg.ChallengeCount)
	assert.Equal(t, 768, cfg.EmbedDimension)
	assert.Equal(t, "default", cfg.Namespace)
}

func TestLoadConfig_MissingGeminiKey(t *testing.T) {
	os.Unsetenv("GEMINI_API_KEY")

	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrMissingRequired)
}

func TestValidate_OverlapBounds(t *testing.T) {
	cfg := &config.Config{
		GeminiAPIKey:   "k",
		Namespace:      "default",
		EmbedDimension: 768,
		ChunkSize:      100,
		ChunkOverlap:   100,
	}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "overlap")
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	content := []byte("GEMINI_API_KEY=loaded-from-file")
	err := os.WriteFile(".env", content, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(".env")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "loaded-from-file", cfg.GeminiAPIKey)
}
