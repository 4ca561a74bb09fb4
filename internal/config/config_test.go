package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "API_KEY", "AITOOLBOX_BACKEND", "AITOOLBOX_ADDR", "AITOOLBOX_DB", "OLLAMA_HOST"} {
		t.Setenv(key, "")
	}
}

func TestDefaultNeedsAPIKey(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "api_key", verrs[0].Field)

	cfg.APIKey = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestOllamaDoesNotNeedAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Backend = BackendOllama
	assert.NoError(t, cfg.Validate())

	cfg.OllamaURL = "localhost"
	assert.Error(t, cfg.Validate())
}

func TestUnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.Backend = "grok"
	assert.ErrorContains(t, cfg.Validate(), "invalid backend")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aitoolbox.toml")
	content := `
addr = "0.0.0.0:9000"
debug = true

[models]
text = "gemini-2.5-pro"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := Default()
	require.NoError(t, LoadFile(&cfg, path))
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "gemini-2.5-pro", cfg.Models.Text)
	assert.Equal(t, "imagen-4.0-generate-001", cfg.Models.Image, "untouched keys keep defaults")
	assert.Equal(t, "aitoolbox.db", cfg.DBPath)
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("addr = "), 0600))

	cfg := Default()
	assert.Error(t, LoadFile(&cfg, path))
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "fallback-key")
	t.Setenv("AITOOLBOX_ADDR", ":7000")

	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "fallback-key", cfg.APIKey)
	assert.Equal(t, ":7000", cfg.Addr)

	t.Setenv("GEMINI_API_KEY", "gemini-key")
	require.NoError(t, ApplyEnv(&cfg, ""))
	assert.Equal(t, "gemini-key", cfg.APIKey)
}

func TestApplyEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("AITOOLBOX_DB")
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("AITOOLBOX_DB=/tmp/toolbox.db\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("AITOOLBOX_DB") })

	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg, envFile))
	assert.Equal(t, "/tmp/toolbox.db", cfg.DBPath)
}
