package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// insecureDevSecret signs dashboard tokens when no secret is configured outside production
const insecureDevSecret = "roofleads-dev-secret-change-me"

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	CompanyCam CompanyCamConfig `mapstructure:"companycam"`
	Tenants    TenantsConfig    `mapstructure:"tenants"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Maps       MapsConfig       `mapstructure:"maps"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CompanyCamConfig holds CompanyCam API configuration and address search limits
type CompanyCamConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxSearchTime  time.Duration `mapstructure:"max_search_time"`
	PageSize       int           `mapstructure:"page_size"`
	PhotoLimit     int           `mapstructure:"photo_limit"`
	RateLimit      float64       `mapstructure:"rate_limit"` // requests per second
	ScrapeTimeline bool          `mapstructure:"scrape_timeline"`
}

// TenantsConfig points at the tenant registry file
type TenantsConfig struct {
	File string `mapstructure:"file"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// AuthConfig holds dashboard token settings
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// MapsConfig holds Google Maps proxy configuration
type MapsConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
	Color  bool   `mapstructure:"color"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/roofleads/")

	// ROOFLEADS_SERVER_PORT -> server.port
	v.SetEnvPrefix("ROOFLEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if config.Auth.JWTSecret == "" {
		config.Auth.JWTSecret = insecureDevSecret
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if one exists.
// Variables already present in the environment win.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("companycam.base_url", "https://api.companycam.com/v2")
	v.SetDefault("companycam.request_timeout", "5s")
	v.SetDefault("companycam.max_search_time", "30s")
	v.SetDefault("companycam.page_size", 50)
	v.SetDefault("companycam.photo_limit", 5)
	v.SetDefault("companycam.rate_limit", 4.0)
	v.SetDefault("companycam.scrape_timeline", true)

	v.SetDefault("tenants.file", "tenants.yml")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "168h") // 7 days

	v.SetDefault("maps.api_key", "")
	v.SetDefault("maps.base_url", "https://maps.googleapis.com/maps/api")
	v.SetDefault("maps.cache_ttl", "24h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.color", true)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Tenants.File == "" {
		return fmt.Errorf("tenants file is required (set ROOFLEADS_TENANTS_FILE)")
	}

	if config.Database.URL == "" {
		return fmt.Errorf("database URL is required (set ROOFLEADS_DATABASE_URL)")
	}

	if config.Server.Environment == "production" && config.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required in production (set ROOFLEADS_AUTH_JWT_SECRET)")
	}

	if config.CompanyCam.PageSize < 1 {
		return fmt.Errorf("companycam page size must be at least 1, got: %d", config.CompanyCam.PageSize)
	}

	if config.CompanyCam.PhotoLimit < 1 {
		return fmt.Errorf("companycam photo limit must be at least 1, got: %d", config.CompanyCam.PhotoLimit)
	}

	if config.CompanyCam.MaxSearchTime <= 0 {
		return fmt.Errorf("companycam max search time must be positive")
	}

	if config.Logging.Format != "text" && config.Logging.Format != "json" {
		return fmt.Errorf("logging format must be 'text' or 'json', got: %s", config.Logging.Format)
	}

	return nil
}
