package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	RedisURL      string
	Session       SessionConfig
	RenderBackend RenderBackendConfig
	Generation    GenerationConfig
	LogLevel      string
}

type ServerConfig struct {
	Port            string
	CORSOrigin      string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type SessionConfig struct {
	Secret         string
	TTL            time.Duration
	APIKeyCacheTTL time.Duration
}

type RenderBackendConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

type GenerationConfig struct {
	// UnrestrictedAccounts bypass quota checks. Their usage is still recorded.
	UnrestrictedAccounts []string
	MusicLibraryURL      string
	SettlementTimeout    time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:          getEnv("POSTGRES_URL", ""),
			MaxOpenConns: getEnvInt("POSTGRES_MAX_OPEN_CONNS", 20),
			MaxIdleConns: getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			AutoMigrate:  getEnvBool("POSTGRES_AUTO_MIGRATE", true),
		},
		RedisURL: getEnv("REDIS_URL", ""),
		Session: SessionConfig{
			Secret:         getEnv("JWT_SECRET", ""),
			TTL:            getEnvDuration("SESSION_TTL", 24*time.Hour),
			APIKeyCacheTTL: getEnvDuration("API_KEY_CACHE_TTL", time.Minute),
		},
		RenderBackend: RenderBackendConfig{
			URL:     getEnv("RENDER_BACKEND_URL", ""),
			Token:   getEnv("RENDER_BACKEND_TOKEN", ""),
			Timeout: getEnvDuration("DISPATCH_TIMEOUT", 20*time.Second),
		},
		Generation: GenerationConfig{
			UnrestrictedAccounts: getEnvList("UNRESTRICTED_ACCOUNTS"),
			MusicLibraryURL:      getEnv("MUSIC_LIBRARY_URL", ""),
			SettlementTimeout:    getEnvDuration("SETTLEMENT_TIMEOUT", 10*time.Second),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("POSTGRES_URL is required"))
	}
	if len(c.Session.Secret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if u, err := url.Parse(c.RenderBackend.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, errors.New("RENDER_BACKEND_URL must be an absolute URL"))
	}
	if c.RenderBackend.Timeout <= 0 {
		errs = append(errs, errors.New("DISPATCH_TIMEOUT must be positive"))
	}
	if c.Generation.SettlementTimeout <= 0 {
		errs = append(errs, errors.New("SETTLEMENT_TIMEOUT must be positive"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	return errors.Join(errs...)
}

// NewLogger builds the process logger from LOG_LEVEL.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
