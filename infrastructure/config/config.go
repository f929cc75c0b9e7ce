package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// Catalog configuration
	CatalogBaseURL    string        `yaml:"catalog_base_url"`
	CatalogCollection string        `yaml:"catalog_collection"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`

	// Query configuration
	SearchDebounce     time.Duration `yaml:"search_debounce"`
	ListStaleTime      time.Duration `yaml:"list_stale_time"`
	DetailStaleTime    time.Duration `yaml:"detail_stale_time"`
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`

	// Circuit breaker configuration
	EnableBreaker           bool          `yaml:"enable_breaker"`
	BreakerMaxRequests      int           `yaml:"breaker_max_requests"`
	BreakerInterval         time.Duration `yaml:"breaker_interval"`
	BreakerTimeout          time.Duration `yaml:"breaker_timeout"`
	BreakerFailureThreshold float64       `yaml:"breaker_failure_threshold"`
	BreakerMinRequests      int           `yaml:"breaker_min_requests"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Terminal client
	HistoryFile string `yaml:"history_file"`

	// Feature flags
	EnableMetrics      bool     `yaml:"enable_metrics"`
	EnableCORS         bool     `yaml:"enable_cors"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	// Requests per minute per client IP on /api routes; 0 disables limiting.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`

	// Search sessions keep state in process memory, so they are only served
	// where one long-lived process handles every request.
	EnableSessions bool `yaml:"enable_sessions"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServerAddress:           ":8080",
		Environment:             "development",
		CatalogBaseURL:          "https://swapi.py4e.com/api",
		CatalogCollection:       "people",
		RequestTimeout:          20 * time.Second,
		SearchDebounce:          300 * time.Millisecond,
		ListStaleTime:           5 * time.Minute,
		DetailStaleTime:         10 * time.Minute,
		SessionIdleTimeout:      30 * time.Minute,
		EnableBreaker:           false,
		BreakerMaxRequests:      5,
		BreakerInterval:         30 * time.Second,
		BreakerTimeout:          60 * time.Second,
		BreakerFailureThreshold: 0.8,
		BreakerMinRequests:      5,
		LogLevel:                "info",
		HistoryFile:             "",
		EnableMetrics:           true,
		EnableCORS:              true,
		CORSAllowedOrigins:      []string{"*"},
		RateLimitPerMinute:      0,
		EnableSessions:          true,
	}
}

// LoadConfig loads configuration from the built-in defaults, then the YAML
// file named by CONFIG_FILE if set, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.loadEnvironmentVariables()

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnvironmentVariables() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)

	c.CatalogBaseURL = getEnv("CATALOG_BASE_URL", c.CatalogBaseURL)
	c.CatalogCollection = getEnv("CATALOG_COLLECTION", c.CatalogCollection)
	c.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)

	c.SearchDebounce = getEnvDuration("SEARCH_DEBOUNCE", c.SearchDebounce)
	c.ListStaleTime = getEnvDuration("LIST_STALE_TIME", c.ListStaleTime)
	c.DetailStaleTime = getEnvDuration("DETAIL_STALE_TIME", c.DetailStaleTime)
	c.SessionIdleTimeout = getEnvDuration("SESSION_IDLE_TIMEOUT", c.SessionIdleTimeout)

	c.EnableBreaker = getEnvBool("ENABLE_BREAKER", c.EnableBreaker)
	c.BreakerMaxRequests = getEnvInt("BREAKER_MAX_REQUESTS", c.BreakerMaxRequests)
	c.BreakerInterval = getEnvDuration("BREAKER_INTERVAL", c.BreakerInterval)
	c.BreakerTimeout = getEnvDuration("BREAKER_TIMEOUT", c.BreakerTimeout)
	c.BreakerFailureThreshold = getEnvFloat("BREAKER_FAILURE_THRESHOLD", c.BreakerFailureThreshold)
	c.BreakerMinRequests = getEnvInt("BREAKER_MIN_REQUESTS", c.BreakerMinRequests)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.HistoryFile = getEnv("HISTORY_FILE", c.HistoryFile)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSAllowedOrigins = splitList(origins)
	}
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	c.EnableSessions = getEnvBool("ENABLE_SESSIONS", c.EnableSessions)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.CatalogBaseURL == "" {
		return fmt.Errorf("CATALOG_BASE_URL is required")
	}
	if c.CatalogCollection == "" {
		return fmt.Errorf("CATALOG_COLLECTION is required")
	}
	if c.SearchDebounce <= 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.ListStaleTime <= 0 || c.DetailStaleTime <= 0 {
		return fmt.Errorf("stale times must be positive")
	}
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive")
	}
	if c.EnableBreaker && (c.BreakerFailureThreshold <= 0 || c.BreakerFailureThreshold > 1) {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be in (0, 1]")
	}
	if c.BreakerMaxRequests < 0 || c.BreakerMinRequests < 0 {
		return fmt.Errorf("BREAKER_MAX_REQUESTS and BREAKER_MIN_REQUESTS must not be negative")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable such as "300ms" with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
