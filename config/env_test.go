package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useFiles loads the given app.json and .env contents in place of the
// project files. Empty content means the file does not exist.
func useFiles(t *testing.T, appJSON, dotEnv string) {
	t.Helper()

	// Consume the sync.Once so getters do not reload over our values.
	_ = Load()

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	if appJSON != "" {
		require.NoError(t, os.WriteFile(jsonPath, []byte(appJSON), 0o600))
	}
	if dotEnv != "" {
		require.NoError(t, os.WriteFile(envPath, []byte(dotEnv), 0o600))
	}

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})
}

func TestDefaults(t *testing.T) {
	useFiles(t, "", "")

	assert.Equal(t, 5000, AppPort())
	assert.Equal(t, "", AppHost())
	assert.Equal(t, "local", AppEnv())
	assert.False(t, IsProduction())
	assert.Equal(t, 5*time.Second, ReadHeaderTimeout())
	assert.Equal(t, 10*time.Second, ShutdownTimeout())
	assert.Equal(t, []string{"*"}, CORSAllowedOrigins())
	assert.Equal(t, 200, RateLimitMax())
	assert.Equal(t, time.Minute, RateLimitWindow())
}

func TestCORSOriginsList(t *testing.T) {
	useFiles(t, "", "CORS_ALLOWED_ORIGINS= http://localhost:3000 , ,https://modaviva.com.br\n")

	assert.Equal(t, []string{"http://localhost:3000", "https://modaviva.com.br"}, CORSAllowedOrigins())
}

func TestDotEnvOverridesJSON(t *testing.T) {
	useFiles(t,
		`{"app_port": 7000, "app_env": "production", "app_host": "127.0.0.1"}`,
		"# comment\nAPP_PORT=\"8000\"\nHTTP_IDLE_TIMEOUT=2m\n",
	)

	assert.Equal(t, 8000, AppPort())
	assert.Equal(t, "127.0.0.1", AppHost())
	assert.True(t, IsProduction())
	assert.Equal(t, 2*time.Minute, IdleTimeout())
}

func TestEnvironmentWins(t *testing.T) {
	t.Setenv("APP_PORT", "9100")
	useFiles(t, "", "APP_PORT=8000\n")

	assert.Equal(t, 9100, AppPort())
}

func TestInvalidValuesFallBack(t *testing.T) {
	useFiles(t, "", "APP_PORT=five-thousand\nHTTP_WRITE_TIMEOUT=soon\n")

	assert.Equal(t, 5000, AppPort())
	assert.Equal(t, 15*time.Second, WriteTimeout())
}

func TestRateLimitValues(t *testing.T) {
	useFiles(t, `{"rate_limit_max": 0}`, "RATE_LIMIT_WINDOW=0s\n")

	assert.Equal(t, 0, RateLimitMax())
	assert.Equal(t, time.Minute, RateLimitWindow(), "a zero window falls back")

	Set("RATE_LIMIT_MAX", "-3")
	assert.Equal(t, 200, RateLimitMax())
}

func TestLayerPrecedence(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "3s")
	useFiles(t,
		`{"http_read_timeout": "1s", "http_write_timeout": "1s", "http_idle_timeout": "1s"}`,
		"HTTP_READ_TIMEOUT=2s\nHTTP_WRITE_TIMEOUT=2s\n",
	)

	assert.Equal(t, 3*time.Second, ReadTimeout(), "environment over dotenv")
	assert.Equal(t, 2*time.Second, WriteTimeout(), "dotenv over JSON")
	assert.Equal(t, 1*time.Second, IdleTimeout(), "JSON over defaults")
	assert.Equal(t, 5*time.Second, ReadHeaderTimeout(), "defaults")
}

func TestParseEnvLine(t *testing.T) {
	cases := []struct {
		line       string
		key, value string
		ok         bool
	}{
		{line: "APP_PORT=5000", key: "APP_PORT", value: "5000", ok: true},
		{line: "  app_env = production  ", key: "app_env", value: "production", ok: true},
		{line: `APP_HOST="127.0.0.1"`, key: "APP_HOST", value: "127.0.0.1", ok: true},
		{line: `CORS_ALLOWED_ORIGINS='http://a,http://b'`, key: "CORS_ALLOWED_ORIGINS", value: "http://a,http://b", ok: true},
		{line: `APP_ENV="local'`, key: "APP_ENV", value: `"local'`, ok: true},
		{line: "export APP_PORT=6000", key: "APP_PORT", value: "6000", ok: true},
		{line: "APP_HOST=", key: "APP_HOST", value: "", ok: true},
		{line: "URL=http://x/?a=b", key: "URL", value: "http://x/?a=b", ok: true},
		{line: "# APP_PORT=1"},
		{line: "   "},
		{line: "=5000"},
		{line: "APP_PORT"},
	}

	for _, tc := range cases {
		key, value, ok := parseEnvLine(tc.line)
		assert.Equal(t, tc.ok, ok, tc.line)
		assert.Equal(t, tc.key, key, tc.line)
		assert.Equal(t, tc.value, value, tc.line)
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	useFiles(t, "", "APP_ENV=staging\n")

	assert.Equal(t, "staging", Get("app_env", ""))
	assert.Equal(t, "fallback", Get("NOT_SET", "fallback"))
}

func TestSetOverrides(t *testing.T) {
	useFiles(t, "", "")

	Set("app_port", "6100")
	assert.Equal(t, 6100, AppPort())
	assert.Equal(t, "6100", Get("APP_PORT", ""))
}

func TestMalformedJSON(t *testing.T) {
	_ = Load()

	path := filepath.Join(t.TempDir(), "app.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	err := loadFromFiles(path, filepath.Join(t.TempDir(), ".env"))
	assert.ErrorContains(t, err, "decode")
}
