// internal/config/config.go
//
// Process configuration.
// Responsibilities:
//   - Load an optional .env file (godotenv) without overriding the real env.
//   - Read every setting with a default so a bare `go run .` works locally.
//
// Nothing else in the tree reads os.Getenv directly.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/maxbax0808/Bergle/internal/geo"
	"github.com/maxbax0808/Bergle/internal/reveal"
)

// Config holds the server settings.
type Config struct {
	Port           string
	LogLevel       string
	DBPath         string
	DailySalt      string
	CatalogFile    string // empty: embedded Oslo catalog
	MaxDistance    float64
	RevealUnit     time.Duration
	ClientOrigins  []string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	Locale         string
	Env            string
}

// Production reports whether cookies must be Secure/SameSite=None.
func (c Config) Production() bool { return c.Env == "production" }

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a getenv-style lookup.
func FromEnv(getenv func(string) string) Config {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}

	c := Config{
		Port:           get("PORT", "5175"),
		LogLevel:       get("LOG_LEVEL", "info"),
		DBPath:         get("DB_PATH", "./data/bergle.db"),
		DailySalt:      get("DAILY_SALT", "local_dev_salt"),
		CatalogFile:    get("CATALOG_FILE", ""),
		MaxDistance:    geo.DefaultMaxDistance,
		RevealUnit:     reveal.DefaultUnit,
		ClientOrigins:  splitList(get("CLIENT_ORIGIN", "http://localhost:5173")),
		JWTSecret:      get("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: 14,
		CookieName:     get("COOKIE_NAME", "bergle_token"),
		Locale:         get("LOCALE", "nb"),
		Env:            get("APP_ENV", "development"),
	}

	if v := get("MAX_DISTANCE_METERS", ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.MaxDistance = f
		} else {
			log.Warn().Str("MAX_DISTANCE_METERS", v).Msg("ignoring invalid value")
		}
	}
	if v := get("REVEAL_UNIT_MS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RevealUnit = time.Duration(n) * time.Millisecond
		} else {
			log.Warn().Str("REVEAL_UNIT_MS", v).Msg("ignoring invalid value")
		}
	}
	if v := get("JWT_EXPIRES_DAYS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.JWTExpiresDays = n
		}
	}
	return c
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
