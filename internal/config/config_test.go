package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"MODEL", "HTTP_PORT", "SESSION_STORE", "OPENWEATHER_API_KEY", "OPENWEATHER_BASE_URL", "NOMINATIM_USER_AGENT", "GOOGLE_GENAI_USE_VERTEXAI"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultHTTPPort, cfg.HTTPPort)
	assert.Equal(t, "mongodb", cfg.SessionStore)
	assert.Empty(t, cfg.OpenWeatherAPIKey)
	assert.Equal(t, DefaultOpenWeatherBaseURL, cfg.OpenWeatherBaseURL)
	assert.Equal(t, DefaultNominatimUserAgent, cfg.NominatimUserAgent)
	assert.False(t, cfg.UseVertexAI)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("MODEL", "gemini-2.5-pro")
	t.Setenv("SESSION_STORE", "Memory")
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "true")

	cfg := FromEnv()
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, "secret", cfg.OpenWeatherAPIKey)
	assert.True(t, cfg.UseVertexAI)
}

func TestDuration(t *testing.T) {
	t.Setenv("SESSION_TTL", "24h")
	assert.Equal(t, 24*time.Hour, FromEnv().SessionTTL)

	t.Setenv("SESSION_TTL", "soon")
	assert.Equal(t, DefaultSessionTTL, FromEnv().SessionTTL)
}

func TestBool_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_FLAG", "maybe")
	assert.True(t, Bool("SOME_FLAG", true))
}

func TestLoadDotEnv_SearchesParents(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("CITY_AGENT_TEST_KEY=from-dotenv\n"), 0o644))

	t.Setenv("CITY_AGENT_TEST_KEY", "")
	os.Unsetenv("CITY_AGENT_TEST_KEY")
	t.Chdir(nested)

	path := LoadDotEnv()
	assert.Equal(t, "from-dotenv", os.Getenv("CITY_AGENT_TEST_KEY"))
	assert.Equal(t, ".env", filepath.Base(path))
}
