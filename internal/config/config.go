package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrConfiguration marks errors caused by missing or invalid configuration.
var ErrConfiguration = errors.New("configuration error")

// MissingError names a required env key that is unset.
type MissingError struct {
	Key string
}

func (e *MissingError) Error() string { return fmt.Sprintf("missing required env %s", e.Key) }

func (e *MissingError) Is(target error) bool { return target == ErrConfiguration }

// Config holds runtime configuration loaded from env.
type Config struct {
	TMDBAPIKey  string
	TMDBBaseURL string

	PostgresHost     string
	PostgresPort     string
	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
	PostgresSSLMode  string
	// DatabaseURL, when set, takes precedence over the POSTGRES_* parts.
	DatabaseURL string

	// ReleaseDate overrides the target date (YYYY-MM-DD). Empty means today in UTC.
	ReleaseDate string

	ValkeyAddr     string
	ValkeyPassword string

	Port         string
	CursorSecret []byte
	LogLevel     string
	Env          string
}

func FromEnv() Config {
	c := Config{
		TMDBAPIKey:       os.Getenv("TMDB_API_KEY"),
		TMDBBaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ReleaseDate:      strings.TrimSpace(os.Getenv("RELEASE_DATE")),
		ValkeyAddr:       os.Getenv("VALKEY_ADDR"),
		ValkeyPassword:   os.Getenv("VALKEY_PASSWORD"),
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Env:              getEnv("ENV", "development"),
	}
	if s := os.Getenv("CURSOR_SECRET"); s != "" {
		c.CursorSecret = []byte(s)
	} else {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err == nil {
			c.CursorSecret = buf
		} else {
			log.Warn().Err(err).Msg("failed to generate cursor secret")
			c.CursorSecret = []byte("insecure-default")
		}
	}
	return c
}

// Validate reports every missing required key. The returned error matches ErrConfiguration.
func (c Config) Validate() error {
	var errs []error
	if c.TMDBAPIKey == "" {
		errs = append(errs, &MissingError{Key: "TMDB_API_KEY"})
	}
	if c.DatabaseURL == "" {
		required := []struct{ key, val string }{
			{"POSTGRES_HOST", c.PostgresHost},
			{"POSTGRES_DB", c.PostgresDB},
			{"POSTGRES_USER", c.PostgresUser},
			{"POSTGRES_PASSWORD", c.PostgresPassword},
		}
		for _, r := range required {
			if r.val == "" {
				errs = append(errs, &MissingError{Key: r.key})
			}
		}
	}
	return errors.Join(errs...)
}

// PostgresURL returns DatabaseURL if set, otherwise a URL built from the POSTGRES_* parts.
func (c Config) PostgresURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   net.JoinHostPort(c.PostgresHost, c.PostgresPort),
		Path:   "/" + c.PostgresDB,
	}
	if c.PostgresSSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.PostgresSSLMode}}.Encode()
	}
	return u.String()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
