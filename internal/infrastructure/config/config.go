// Package config provides configuration management for the application.
// It follows the 12-Factor App methodology by loading configuration
// from environment variables and supporting external configuration files.
//
// 12-Factor App Compliance:
//   - III. Config: Store config in the environment
//   - Configuration is loaded from environment variables
//   - Sensitive data (DSNs, passwords) only via environment
//   - No config files checked into version control
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hapkiduki/fulfillment-go/internal/domain/fulfillment"
	"github.com/hapkiduki/fulfillment-go/internal/domain/valueobject"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FUL"

// Config holds all application configuration.
// All fields are populated from environment variables or config files.
type Config struct {
	// App contains application-level configuration
	App AppConfig `mapstructure:"app"`

	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server"`

	// Log contains logger configuration
	Log LogConfig `mapstructure:"log"`

	// Cost contains the shipment pricing factors
	Cost CostConfig `mapstructure:"cost"`

	// Engine tunes the assignment engine
	Engine EngineConfig `mapstructure:"engine"`

	// Postgres is the optional dataset source
	Postgres PostgresConfig `mapstructure:"postgres"`

	// Redis is the optional plan report cache
	Redis RedisConfig `mapstructure:"redis"`

	// Dataset points the CLI at an input file
	Dataset DatasetConfig `mapstructure:"dataset"`
}

// AppConfig contains application-level configuration.
type AppConfig struct {
	// Name of the application
	Name string `mapstructure:"name"`

	// Environment the application is running in (e.g., development, staging, production)
	Environment string `mapstructure:"environment"`

	// Version of the application
	Version string `mapstructure:"version"`

	// Debug mode flag
	Debug bool `mapstructure:"debug"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading the entire request, including the body
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MaxRequestSize bounds POST /v1/plans bodies
	MaxRequestSize int64 `mapstructure:"max_request_size"`

	// RateLimit is the sustained requests per second per client (0 disables)
	RateLimit float64 `mapstructure:"rate_limit"`

	// RateBurst is the token bucket size per client
	RateBurst int `mapstructure:"rate_burst"`

	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// LogConfig mirrors logger.Config.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CostConfig holds the shipment pricing factors.
type CostConfig struct {
	Base            float64 `mapstructure:"base"`
	Size            float64 `mapstructure:"size"`
	UnfulfilledLine float64 `mapstructure:"unfulfilled_line"`
}

// Factors converts the section into validated cost factors.
func (c CostConfig) Factors() (valueobject.CostFactors, error) {
	return valueobject.NewCostFactors(c.Base, c.Size, c.UnfulfilledLine)
}

// EngineConfig tunes the assignment engine.
type EngineConfig struct {
	// Policy is the default selection policy name
	Policy string `mapstructure:"policy"`

	// Metric is the distance metric name
	Metric string `mapstructure:"metric"`

	// Workers bounds distance precomputation goroutines (0 = unbounded)
	Workers int `mapstructure:"workers"`
}

// PostgresConfig describes the dataset database.
type PostgresConfig struct {
	// DSN is only read from the environment (FUL_POSTGRES_DSN or DATABASE_URL)
	DSN string `mapstructure:"dsn"`

	MaxConns       int32         `mapstructure:"max_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RedisConfig describes the plan report cache.
type RedisConfig struct {
	// Addr empty means reports are kept in memory
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// DatasetConfig points at an input file.
type DatasetConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads the configuration from environment variables and config files.
// It follows this precedence (highest to lowest):
//  1. Environment variables
//  2. Config file (explicit path, or config.yaml in the search paths)
//  3. Default values
//
// Parameters:
//   - path: explicit config file; empty searches the default locations
//
// Returns:
//   - *Config: The loaded and validated configuration
//   - error: Any error encountered during loading
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/fulfillment-go")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	loadSensitiveConfig(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fulfillment-go")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", false)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.max_request_size", 10<<20) // 10MB
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("cost.base", 10.0)
	v.SetDefault("cost.size", 2.0)
	v.SetDefault("cost.unfulfilled_line", 100.0)

	v.SetDefault("engine.policy", fulfillment.PolicyNearest)
	v.SetDefault("engine.metric", valueobject.MetricEuclidean)
	v.SetDefault("engine.workers", 0)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_conns", 4)
	v.SetDefault("postgres.connect_timeout", 5*time.Second)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("dataset.path", "")
}

// bindEnvVars binds specific environment variables to configuration keys.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("app.environment", EnvPrefix+"_ENVIRONMENT")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
}

// loadSensitiveConfig fills secrets from conventional variables when the
// prefixed ones are unset.
func loadSensitiveConfig(cfg *Config) {
	if cfg.Postgres.DSN == "" {
		cfg.Postgres.DSN = GetEnv("DATABASE_URL", "")
	}
	if cfg.Redis.Password == "" {
		cfg.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	}
}

// Validate checks the values the engine depends on.
func (c *Config) Validate() error {
	if _, err := c.Cost.Factors(); err != nil {
		return fmt.Errorf("config cost: %w", err)
	}
	if _, err := fulfillment.ParsePolicy(c.Engine.Policy); err != nil {
		return fmt.Errorf("config engine.policy: %w", err)
	}
	if _, err := valueobject.ParseDistanceMetric(c.Engine.Metric); err != nil {
		return fmt.Errorf("config engine.metric: %w", err)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("config engine.workers: must be >= 0, got %d", c.Engine.Workers)
	}
	return nil
}

// MustLoad loads the configuration and panics on error.
// Use this in application entry points where configuration is required.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// GetEnv gets an environment variable with a default value.
//
// Parameters:
//   - key: Environment variable name
//   - defaultValue: Default value if not set
//
// Returns:
//   - string: The environment variable value or default
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
