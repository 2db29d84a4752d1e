package config

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultAppEnv  = "local"
	defaultAppHost = ""
	defaultAppPort = 5000

	defaultCORSOrigins = "*"

	defaultReadHeaderTimeout = 5 * time.Second
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 15 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultShutdownTimeout   = 10 * time.Second

	defaultRateLimitMax    = 200
	defaultRateLimitWindow = time.Minute
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json and .env once. Missing files are not an error.
// Process environment variables win over both files.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":                  defaultAppEnv,
		"APP_HOST":                 defaultAppHost,
		"APP_PORT":                 strconv.Itoa(defaultAppPort),
		"HTTP_READ_HEADER_TIMEOUT": defaultReadHeaderTimeout.String(),
		"HTTP_READ_TIMEOUT":        defaultReadTimeout.String(),
		"HTTP_WRITE_TIMEOUT":       defaultWriteTimeout.String(),
		"HTTP_IDLE_TIMEOUT":        defaultIdleTimeout.String(),
		"HTTP_SHUTDOWN_TIMEOUT":    defaultShutdownTimeout.String(),
		"CORS_ALLOWED_ORIGINS":     defaultCORSOrigins,
		"RATE_LIMIT_MAX":           strconv.Itoa(defaultRateLimitMax),
		"RATE_LIMIT_WINDOW":        defaultRateLimitWindow.String(),
	}
}

func AppEnv() string {
	_ = Load()
	return lookup("APP_ENV", defaultAppEnv)
}

// AppHost is the interface the server binds to. Empty means all interfaces.
func AppHost() string {
	_ = Load()
	return lookup("APP_HOST", defaultAppHost)
}

// AppPort returns the configured TCP port, falling back to 5000 when the
// value is not a number.
func AppPort() int {
	_ = Load()
	port, err := strconv.Atoi(lookup("APP_PORT", ""))
	if err != nil {
		return defaultAppPort
	}
	return port
}

// IsProduction reports whether APP_ENV names a production environment.
func IsProduction() bool {
	switch strings.ToLower(AppEnv()) {
	case "production", "prod":
		return true
	}
	return false
}

// CORSAllowedOrigins splits the comma-separated CORS_ALLOWED_ORIGINS list.
func CORSAllowedOrigins() []string {
	_ = Load()

	var origins []string
	for _, o := range strings.Split(lookup("CORS_ALLOWED_ORIGINS", defaultCORSOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// ── HTTP server timeouts ─────────────────────────────────────────────────────

func ReadHeaderTimeout() time.Duration {
	return duration("HTTP_READ_HEADER_TIMEOUT", defaultReadHeaderTimeout)
}

func ReadTimeout() time.Duration { return duration("HTTP_READ_TIMEOUT", defaultReadTimeout) }
func WriteTimeout() time.Duration { return duration("HTTP_WRITE_TIMEOUT", defaultWriteTimeout) }
func IdleTimeout() time.Duration  { return duration("HTTP_IDLE_TIMEOUT", defaultIdleTimeout) }

func ShutdownTimeout() time.Duration {
	return duration("HTTP_SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
}

// ── Rate limiting ────────────────────────────────────────────────────────────

// RateLimitMax is the number of requests one client IP may make per window.
// Zero disables the limiter.
func RateLimitMax() int {
	_ = Load()
	n, err := strconv.Atoi(lookup("RATE_LIMIT_MAX", ""))
	if err != nil || n < 0 {
		return defaultRateLimitMax
	}
	return n
}

func RateLimitWindow() time.Duration {
	d := duration("RATE_LIMIT_WINDOW", defaultRateLimitWindow)
	if d == 0 {
		return defaultRateLimitWindow
	}
	return d
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return lookup(key, fallback)
}

// Set overrides a single key for the rest of the process lifetime.
// Used by CLI flags, which take precedence over files and environment.
func Set(key, value string) {
	_ = Load()

	mu.Lock()
	defer mu.Unlock()
	put(values, key, value)
}

func duration(key string, fallback time.Duration) time.Duration {
	_ = Load()
	d, err := time.ParseDuration(lookup(key, ""))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// layer merges one configuration source into the values being built.
// A missing source is not an error.
type layer func(into map[string]string) error

// loadFromFiles rebuilds the value set from defaults and then each layer in
// order of increasing precedence: JSON file, dotenv file, process
// environment. The result replaces the live values only when every layer
// loaded cleanly.
func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	for _, merge := range []layer{
		jsonLayer(configPath),
		dotEnvLayer(envPath),
		environLayer,
	} {
		if err := merge(loaded); err != nil {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()
	return nil
}

func jsonLayer(path string) layer {
	return func(into map[string]string) error {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}

		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}

		for key, val := range raw {
			switch v := val.(type) {
			case string:
				put(into, key, v)
			case float64:
				// "app_port": 5000 is as natural in JSON as "5000".
				put(into, key, strconv.FormatFloat(v, 'f', -1, 64))
			}
		}
		return nil
	}
}

func dotEnvLayer(path string) layer {
	return func(into map[string]string) error {
		file, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			if key, value, ok := parseEnvLine(scanner.Text()); ok {
				put(into, key, value)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		return nil
	}
}

// parseEnvLine splits a KEY=value line. Blank lines, comments, lines with
// no key and an optional "export " prefix are handled; one pair of matching
// quotes around the value is removed.
func parseEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")

	key, value, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}

	value = strings.TrimSpace(value)
	if n := len(value); n >= 2 && (value[0] == '"' || value[0] == '\'') && value[n-1] == value[0] {
		value = value[1 : n-1]
	}
	return key, value, true
}

// environLayer only overrides keys the application knows about, so an
// unrelated PATH or HOME never leaks into Get.
func environLayer(into map[string]string) error {
	for key := range defaultValues() {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			put(into, key, v)
		}
	}
	return nil
}

// put stores value under the canonical (upper-case, trimmed) form of key.
func put(into map[string]string, key, value string) {
	if k := canonical(key); k != "" {
		into[k] = strings.TrimSpace(value)
	}
}

func canonical(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// lookup returns the live value for key, or fallback when it is unset or
// blank. Keys are matched case-insensitively.
func lookup(key, fallback string) string {
	mu.RLock()
	v := strings.TrimSpace(values[canonical(key)])
	mu.RUnlock()

	if v == "" {
		return fallback
	}
	return v
}
