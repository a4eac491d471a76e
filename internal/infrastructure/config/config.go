// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Planner    PlannerConfig    `mapstructure:"planner"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	EnableCORS      bool          `mapstructure:"enable_cors"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	Seed            bool          `mapstructure:"seed"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// CacheConfig contains catalog cache configuration
type CacheConfig struct {
	RecipeListTTL time.Duration `mapstructure:"recipe_list_ttl"`
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	Issuer        string        `mapstructure:"issuer"`
	JWTExpiration time.Duration `mapstructure:"jwt_expiration"`
}

// PlannerConfig contains the meal planning windows and generator options
type PlannerConfig struct {
	RecencyWindowDays int    `mapstructure:"recency_window_days"`
	HistoryWeeks      int    `mapstructure:"history_weeks"`
	WindowDays        int    `mapstructure:"window_days"`
	MaxRangeDays      int    `mapstructure:"max_range_days"`
	DedupOnInsert     bool   `mapstructure:"dedup_on_insert"`
	RunLocalExclusion bool   `mapstructure:"run_local_exclusion"`
	RandomSeed        uint64 `mapstructure:"random_seed"`
	Timezone          string `mapstructure:"timezone"`
}

// Location resolves the configured timezone
func (p PlannerConfig) Location() (*time.Location, error) {
	if p.Timezone == "" || strings.EqualFold(p.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(p.Timezone)
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics   bool    `mapstructure:"enable_metrics"`
	MetricsPath     string  `mapstructure:"metrics_path"`
	EnableTracing   bool    `mapstructure:"enable_tracing"`
	OTLPEndpoint    string  `mapstructure:"otlp_endpoint"`
	SamplingRate    float64 `mapstructure:"sampling_rate"`
	HealthCheckPath string  `mapstructure:"health_check_path"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enable          bool          `mapstructure:"enable"`
	RequestsPerMin  int           `mapstructure:"requests_per_min"`
	BurstSize       int           `mapstructure:"burst_size"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/weeklydish")
	}

	// WEEKLYDISH_PLANNER_RECENCY_WINDOW_DAYS overrides planner.recency_window_days
	v.SetEnvPrefix("WEEKLYDISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "weeklydish")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.max_header_bytes", 1<<20) // 1MB
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.enable_cors", true)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_body_bytes", 1<<20)

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "weeklydish.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "weeklydish")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.seed", false)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.key_prefix", "weeklydish:")

	v.SetDefault("cache.recipe_list_ttl", "10m")

	// Auth defaults
	v.SetDefault("auth.issuer", "weeklydish")
	v.SetDefault("auth.jwt_expiration", "24h")

	// Planner defaults
	v.SetDefault("planner.recency_window_days", 28)
	v.SetDefault("planner.history_weeks", 4)
	v.SetDefault("planner.window_days", 35)
	v.SetDefault("planner.max_range_days", 62)
	v.SetDefault("planner.dedup_on_insert", false)
	v.SetDefault("planner.run_local_exclusion", false)
	v.SetDefault("planner.random_seed", 0)
	v.SetDefault("planner.timezone", "Local")

	// Monitoring defaults
	v.SetDefault("monitoring.enable_metrics", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")
	v.SetDefault("monitoring.enable_tracing", false)
	v.SetDefault("monitoring.otlp_endpoint", "localhost:4318")
	v.SetDefault("monitoring.sampling_rate", 0.1)
	v.SetDefault("monitoring.health_check_path", "/health")

	// Rate limit defaults
	v.SetDefault("rate_limit.enable", true)
	v.SetDefault("rate_limit.requests_per_min", 120)
	v.SetDefault("rate_limit.burst_size", 20)
	v.SetDefault("rate_limit.cleanup_interval", "1m")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.Database == "" {
			return fmt.Errorf("database.database is required")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" && c.IsProduction() {
		return fmt.Errorf("auth.jwt_secret is required in production")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	p := c.Planner
	if p.RecencyWindowDays < 0 || p.HistoryWeeks < 0 {
		return fmt.Errorf("planner windows must not be negative")
	}
	if p.WindowDays < 1 {
		return fmt.Errorf("planner.window_days must be at least 1")
	}
	if _, err := p.Location(); err != nil {
		return fmt.Errorf("planner.timezone: %w", err)
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Path
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.Username,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetMigrationURL returns the postgres URL golang-migrate expects
func (c *Config) GetMigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.Username,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}
