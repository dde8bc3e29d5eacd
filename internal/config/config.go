// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultOrigin   = "http://localhost:3000"
	minSecretLength = 32
)

type Config struct {
	Port     string
	LogLevel slog.Level

	DBDriver     string
	DatabasePath string
	DatabaseURL  string

	JWTSecret       string
	JWTAlgorithm    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int

	CookieSecure   bool
	CookieSameSite http.SameSite

	AllowedOrigins []string

	AppName    string
	AppVersion string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def, min, max int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, min, max, n)
	}
	return n, nil
}

// New reads and validates the configuration from environment variables.
func New() (*Config, error) {
	c := &Config{
		Port:         getenv("PORT", "8080"),
		DBDriver:     strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
		DatabasePath: getenv("DATABASE_PATH", "todo.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    getenv("SECRET_KEY", os.Getenv("JWT_SECRET")),
		JWTAlgorithm: strings.ToUpper(getenv("ALGORITHM", "HS256")),
		AppName:      getenv("APP_NAME", "Todo App API"),
		AppVersion:   getenv("APP_VERSION", "1.0.0"),
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT: %s", c.Port)
	}

	level, err := parseLogLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	c.LogLevel = level

	switch c.DBDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return nil, errors.New("DATABASE_PATH must be set when DB_DRIVER=sqlite")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL must be set when DB_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.JWTSecret == "" {
		return nil, errors.New("SECRET_KEY environment variable is required")
	}
	if len(c.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretLength)
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported ALGORITHM %q", c.JWTAlgorithm)
	}

	accessMinutes, err := getenvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30, 1, 24*60)
	if err != nil {
		return nil, err
	}
	c.AccessTokenTTL = time.Duration(accessMinutes) * time.Minute

	refreshDays, err := getenvInt("REFRESH_TOKEN_EXPIRE_DAYS", 7, 1, 365)
	if err != nil {
		return nil, err
	}
	c.RefreshTokenTTL = time.Duration(refreshDays) * 24 * time.Hour

	c.BcryptCost, err = getenvInt("BCRYPT_COST", 12, 4, 14)
	if err != nil {
		return nil, err
	}

	// Default to secure cookies; disable only for local development.
	c.CookieSecure = !strings.EqualFold(os.Getenv("COOKIE_SECURE"), "false")

	c.CookieSameSite, err = parseSameSite(getenv("COOKIE_SAMESITE", "lax"))
	if err != nil {
		return nil, err
	}
	if c.CookieSameSite == http.SameSiteNoneMode && !c.CookieSecure {
		return nil, errors.New("COOKIE_SAMESITE=none requires COOKIE_SECURE")
	}

	c.AllowedOrigins = parseOrigins(getenv("FRONTEND_ORIGIN", defaultOrigin), os.Getenv("ALLOWED_ORIGINS"))

	return c, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return level, nil
}

func parseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	}
	return 0, fmt.Errorf("invalid COOKIE_SAMESITE %q: want lax, strict or none", s)
}

// parseOrigins merges the frontend origin with a comma-separated list,
// dropping blanks and duplicates while keeping first-seen order.
func parseOrigins(frontend, extra string) []string {
	seen := make(map[string]bool)
	var origins []string
	add := func(o string) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			return
		}
		seen[o] = true
		origins = append(origins, o)
	}

	add(frontend)
	for _, o := range strings.Split(extra, ",") {
		add(o)
	}
	if len(origins) == 0 {
		origins = []string{defaultOrigin}
	}
	return origins
}
