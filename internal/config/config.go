package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server config
	Server ServerConfig

	// optional database config
	Database DatabaseConfig

	// CSRF and view cookie config
	Security SecurityConfig

	// analysis service config
	Analysis AnalysisConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address      string
	Environment  string // development, staging, production
	BaseURL      string // public address; its host is a trusted CSRF origin
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings. An empty URL keeps view state in memory.
type DatabaseConfig struct {
	URL string
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	CSRFSecret      string
	TrustedOrigins  []string
	ViewCookieName  string
	ViewTTL         time.Duration
	ViewStateSecret string
	SecureCookies   bool // true in production
}

// AnalysisConfig holds the remote analysis service settings.
type AnalysisConfig struct {
	BaseURL        string
	Timeout        time.Duration
	MaxUploadBytes int64
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// UsesDatabase reports whether view state should go to PostgreSQL.
func (c *Config) UsesDatabase() bool {
	return c.Database.URL != ""
}

func Load() (*Config, error) {
	// .env is optional; deployed environments set real variables.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Address:      getEnvOrDefault("SERVER_ADDRESS", ":8080"),
		Environment:  getEnvOrDefault("APP_ENV", "development"),
		BaseURL:      getEnvOrDefault("BASE_URL", "http://localhost:8080"),
		ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 90*time.Second),
		IdleTimeout:  getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
	}

	cfg.Database = DatabaseConfig{
		URL: os.Getenv("DATABASE_URL"),
	}

	cfg.Security = SecurityConfig{
		CSRFSecret:      os.Getenv("CSRF_SECRET"),
		TrustedOrigins:  strings.Fields(getEnvOrDefault("CSRF_TRUSTED_ORIGINS", "")),
		ViewCookieName:  getEnvOrDefault("VIEW_COOKIE_NAME", "compass_view"),
		ViewTTL:         getDurationOrDefault("VIEW_TTL", 24*time.Hour),
		ViewStateSecret: os.Getenv("VIEWSTATE_SECRET"),
		SecureCookies:   cfg.Server.Environment == "production",
	}
	if u, err := url.Parse(cfg.Server.BaseURL); err == nil && u.Host != "" {
		cfg.Security.TrustedOrigins = append(cfg.Security.TrustedOrigins, u.Host)
	}

	maxUpload, err := strconv.ParseInt(getEnvOrDefault("MAX_UPLOAD_BYTES", "5242880"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
	}

	cfg.Analysis = AnalysisConfig{
		BaseURL:        getEnvOrDefault("ANALYSIS_BASE_URL", "http://localhost:8000"),
		Timeout:        getDurationOrDefault("ANALYSIS_TIMEOUT", 60*time.Second),
		MaxUploadBytes: maxUpload,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate collects every configuration problem so startup reports them all at once.
func (c *Config) validate() error {
	var errs []error

	if c.Security.CSRFSecret == "" {
		errs = append(errs, errors.New("CSRF_SECRET is required"))
	} else if len(c.Security.CSRFSecret) < 32 {
		errs = append(errs, errors.New("CSRF_SECRET must be at least 32 characters"))
	}

	if c.Security.ViewStateSecret == "" {
		errs = append(errs, errors.New("VIEWSTATE_SECRET is required"))
	} else if len(c.Security.ViewStateSecret) < 32 {
		errs = append(errs, errors.New("VIEWSTATE_SECRET must be at least 32 characters"))
	}

	if u, err := url.Parse(c.Server.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("BASE_URL must be an absolute URL (got: %q)", c.Server.BaseURL))
	}

	if u, err := url.Parse(c.Analysis.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("ANALYSIS_BASE_URL must be an absolute URL (got: %q)", c.Analysis.BaseURL))
	}

	if c.Analysis.Timeout <= 0 {
		errs = append(errs, errors.New("ANALYSIS_TIMEOUT must be positive"))
	}

	if c.Analysis.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}

	if c.Security.ViewTTL <= 0 {
		errs = append(errs, errors.New("VIEW_TTL must be positive"))
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.Server.Environment] {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of: development, staging, production (got: %s)", c.Server.Environment))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%w", errors.Join(errs...))
	}

	return nil
}

// getEnvOrDefault returns the .env value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			log.Printf("Warning: Invalid duration for %s: %v, using default", key, err)
			return defaultValue
		}
		return duration
	}
	return defaultValue
}

// MustLoad is like Load but panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
