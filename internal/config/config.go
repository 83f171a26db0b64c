package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/giannis84/favorites-admin/internal/auth"
)

const (
	defaultConfigPath   = "config.yaml"
	defaultEnvFile      = ".env"
	defaultSQLitePath   = "favorites.db"
	defaultSessionTTL   = 30 * time.Minute
	defaultItemsPerPage = 50
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Session stores.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config holds the application configuration.
type Config struct {
	APIPort    string `yaml:"api_port"`
	HealthPort string `yaml:"health_port"`

	// HTTP server timeouts (optional, defaults apply in server.go)
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`

	// JWT signing secret (env var only). When empty, only unsigned tokens
	// (alg=none) are accepted, and only if AllowUnsignedTokens is true.
	// Normally in production it should be fetched from a secrets provider like Vault,
	// and not set via config file or env var.
	JWTSecret string `yaml:"-"`

	// AllowUnsignedTokens permits unsigned JWT tokens (alg=none) when true.
	// This should ONLY be enabled for local development and testing.
	// Requires explicit opt-in via ALLOW_UNSIGNED_TOKENS=true env var.
	AllowUnsignedTokens bool `yaml:"-"`

	// StoreDriver selects the favorites store: "postgres" (default) or "sqlite".
	StoreDriver string `yaml:"store_driver"`
	SQLitePath  string `yaml:"sqlite_path"`

	// Database configuration (env vars only, secrets must not live in config.yaml)
	DBHost     string `yaml:"-"`
	DBPort     string `yaml:"-"`
	DBUser     string `yaml:"-"`
	DBPassword string `yaml:"-"`
	DBName     string `yaml:"-"`

	// SessionStore selects where edit sessions live: "memory" (default) or "redis".
	SessionStore  string        `yaml:"session_store"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"-"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SecureCookies bool          `yaml:"secure_cookies"`

	// ItemsPerPage is the default page size of the favorites list.
	ItemsPerPage int `yaml:"items_per_page"`

	LogFormat string `yaml:"log_format"` // "json" (default) or "text"
	LogLevel  string `yaml:"log_level"`

	// Rate limiting configuration
	RateLimitRequests int           `yaml:"rate_limit_requests"` // Max requests per window (0 = disabled)
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`   // Time window for rate limiting
}

// Load reads configuration with the following precedence (highest wins):
//  1. Environment variables, including those from an optional .env file
//     (path from ENV_FILE env var, or ".env"); real env vars win over the file
//  2. YAML config file (path from CONFIG_PATH env var, or "config.yaml")
//
// Database credentials are loaded exclusively from environment variables.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg := &Config{}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	envString("API_PORT", &cfg.APIPort)
	envString("HEALTH_PORT", &cfg.HealthPort)

	if cfg.APIPort == "" {
		return nil, fmt.Errorf("api_port is required (set via config file or API_PORT env var)")
	}
	if cfg.HealthPort == "" {
		return nil, fmt.Errorf("health_port is required (set via config file or HEALTH_PORT env var)")
	}

	// JWT secret (optional: when empty and AllowUnsignedTokens is true, unsigned tokens are accepted)
	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	// Allow unsigned tokens (explicit opt-in for dev/test only)
	cfg.AllowUnsignedTokens = os.Getenv("ALLOW_UNSIGNED_TOKENS") == "true"

	// HTTP server timeouts (optional, defaults apply in server.go if zero)
	envDuration("READ_TIMEOUT", &cfg.ReadTimeout)
	envDuration("WRITE_TIMEOUT", &cfg.WriteTimeout)
	envDuration("IDLE_TIMEOUT", &cfg.IdleTimeout)

	if err := cfg.loadStore(); err != nil {
		return nil, err
	}
	if err := cfg.loadSessions(); err != nil {
		return nil, err
	}

	envInt("ITEMS_PER_PAGE", &cfg.ItemsPerPage)
	if cfg.ItemsPerPage <= 0 {
		cfg.ItemsPerPage = defaultItemsPerPage
	}

	envString("LOG_FORMAT", &cfg.LogFormat)
	envString("LOG_LEVEL", &cfg.LogLevel)

	// Rate limiting configuration (env vars override config file)
	envInt("RATE_LIMIT_REQUESTS", &cfg.RateLimitRequests)
	envDuration("RATE_LIMIT_WINDOW", &cfg.RateLimitWindow)

	// Apply rate limiting defaults if partially configured
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow == 0 {
		cfg.RateLimitWindow = time.Minute // Default window: 1 minute
	}

	return cfg, nil
}

func (c *Config) loadStore() error {
	envString("STORE_DRIVER", &c.StoreDriver)
	envString("SQLITE_PATH", &c.SQLitePath)

	switch c.StoreDriver {
	case "", StorePostgres:
		c.StoreDriver = StorePostgres
	case StoreSQLite:
		if c.SQLitePath == "" {
			c.SQLitePath = defaultSQLitePath
		}
		return nil
	default:
		return fmt.Errorf("unknown store_driver %q (expected %q or %q)", c.StoreDriver, StorePostgres, StoreSQLite)
	}

	// Database configuration from environment variables
	c.DBHost = os.Getenv("POSTGRES_HOST")
	c.DBPort = os.Getenv("POSTGRES_PORT")
	c.DBUser = os.Getenv("POSTGRES_USER")
	c.DBPassword = os.Getenv("POSTGRES_PASSWORD")
	c.DBName = os.Getenv("POSTGRES_DB")

	if c.DBHost == "" {
		return fmt.Errorf("POSTGRES_HOST env var is required")
	}
	if c.DBPort == "" {
		return fmt.Errorf("POSTGRES_PORT env var is required")
	}
	if c.DBUser == "" {
		return fmt.Errorf("POSTGRES_USER env var is required")
	}
	if c.DBPassword == "" {
		return fmt.Errorf("POSTGRES_PASSWORD env var is required")
	}
	if c.DBName == "" {
		return fmt.Errorf("POSTGRES_DB env var is required")
	}
	return nil
}

func (c *Config) loadSessions() error {
	envString("SESSION_STORE", &c.SessionStore)
	envString("REDIS_ADDR", &c.RedisAddr)
	c.RedisPassword = os.Getenv("REDIS_PASSWORD")
	envDuration("SESSION_TTL", &c.SessionTTL)
	if v := os.Getenv("SECURE_COOKIES"); v != "" {
		c.SecureCookies = v == "true"
	}

	if c.SessionTTL <= 0 {
		c.SessionTTL = defaultSessionTTL
	}

	switch c.SessionStore {
	case "", SessionMemory:
		c.SessionStore = SessionMemory
	case SessionRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis_addr is required when session_store is %q (set via config file or REDIS_ADDR env var)", SessionRedis)
		}
	default:
		return fmt.Errorf("unknown session_store %q (expected %q or %q)", c.SessionStore, SessionMemory, SessionRedis)
	}
	return nil
}

// loadEnvFile loads variables from the .env file without overriding
// variables already present in the environment. A missing file is not an error.
func loadEnvFile() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

// PostgresConnString returns a PostgreSQL connection string.
func (c *Config) PostgresConnString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// StoreDSN returns the data source name for the configured store driver.
func (c *Config) StoreDSN() string {
	if c.StoreDriver == StoreSQLite {
		return c.SQLitePath
	}
	return c.PostgresConnString()
}

// APIAddr returns the listen address for the API server.
func (c *Config) APIAddr() string {
	return ":" + c.APIPort
}

// HealthAddr returns the listen address for the health check server.
func (c *Config) HealthAddr() string {
	return ":" + c.HealthPort
}

// AuthConfig returns the JWT authentication configuration.
func (c *Config) AuthConfig() auth.AuthConfig {
	return auth.AuthConfig{
		Secret:              c.JWTSecret,
		AllowUnsignedTokens: c.AllowUnsignedTokens,
	}
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Requests int           // Max requests per window (0 = disabled)
	Window   time.Duration // Time window for rate limiting
}

// RateLimitConfig returns the rate limiting configuration.
func (c *Config) RateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests: c.RateLimitRequests,
		Window:   c.RateLimitWindow,
	}
}
