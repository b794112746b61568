package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server settings
	ServerPort   string        `json:"server_port" yaml:"server_port"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	Debug        bool          `json:"debug" yaml:"debug"`

	// Application paths
	LogDir string `json:"log_dir" yaml:"log_dir"`

	// Middleware settings
	Middleware MiddlewareConfig `json:"middleware" yaml:"middleware"`

	// CORS Configuration
	CORS CORSConfig `json:"cors" yaml:"cors"`

	// Rate Limiting
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`

	// Database settings
	Database DatabaseConfig `json:"database" yaml:"database"`

	// Completion service settings
	OpenAI OpenAIConfig `json:"openai" yaml:"openai"`

	// Note generation settings
	Notes NotesConfig `json:"notes" yaml:"notes"`

	// Application version
	Version string `json:"version" yaml:"version"`

	// Request and shutdown timeouts
	RequestTimeout  time.Duration `json:"request_timeout" yaml:"request_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type MiddlewareConfig struct {
	EnableRecover   bool `json:"enable_recover" yaml:"enable_recover"`
	EnableRequestID bool `json:"enable_request_id" yaml:"enable_request_id"`
	EnableLogger    bool `json:"enable_logger" yaml:"enable_logger"`
	EnableCORS      bool `json:"enable_cors" yaml:"enable_cors"`
	EnableRateLimit bool `json:"enable_rate_limit" yaml:"enable_rate_limit"`
}

type DatabaseConfig struct {
	Path               string        `json:"path" yaml:"path"`
	MaxConnections     int           `json:"max_connections" yaml:"max_connections"`
	MaxIdleConnections int           `json:"max_idle_connections" yaml:"max_idle_connections"`
	ConnMaxLifetime    time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime"`
}

type CORSConfig struct {
	Enabled          bool     `json:"enabled" yaml:"enabled"`
	AllowedOrigins   []string `json:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers" yaml:"allowed_headers"`
	ExposedHeaders   []string `json:"exposed_headers" yaml:"exposed_headers"`
	AllowCredentials bool     `json:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `json:"max_age" yaml:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `json:"enabled" yaml:"enabled"`
	RequestsPerMinute int  `json:"requests_per_minute" yaml:"requests_per_minute"`
	BurstSize         int  `json:"burst_size" yaml:"burst_size"`
}

type OpenAIConfig struct {
	APIKey  string `json:"-" yaml:"api_key"`
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Models is the ordered fallback list. The first entry is tried
	// first; later entries only after the previous one fails.
	Models []string `json:"models" yaml:"models"`

	MaxTokens        int     `json:"max_tokens" yaml:"max_tokens"`
	CombineMaxTokens int     `json:"combine_max_tokens" yaml:"combine_max_tokens"`
	Temperature      float64 `json:"temperature" yaml:"temperature"`
	CombineTemp      float64 `json:"combine_temperature" yaml:"combine_temperature"`

	RequestTimeout    time.Duration `json:"request_timeout" yaml:"request_timeout"`
	RequestsPerMinute int           `json:"requests_per_minute" yaml:"requests_per_minute"`

	// Pricing per one million tokens, used for logging cost estimates.
	InputPricePerMillion  float64 `json:"input_price_per_million" yaml:"input_price_per_million"`
	OutputPricePerMillion float64 `json:"output_price_per_million" yaml:"output_price_per_million"`
}

type NotesConfig struct {
	CacheTTL            time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	MaxTranscriptLength int           `json:"max_transcript_length" yaml:"max_transcript_length"`
}

// Load reads configuration from environment variables, then applies an
// optional YAML overlay named by CONFIG_FILE.
func Load() (*Config, error) {
	cfg := &Config{
		// Server settings
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		Debug:        getEnvAsBool("DEBUG", false),

		// Application paths
		LogDir: getEnv("LOG_DIR", "/var/log/notetube"),

		// Application version
		Version: getEnv("VERSION", "1.0.0"),

		// Generation requests fan out into several completion calls, so
		// the request timeout is long.
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Minute),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		// CORS Configuration
		CORS: CORSConfig{
			Enabled:        getEnvAsBool("CORS_ENABLED", true),
			AllowedOrigins: getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsStringSlice(
				"CORS_ALLOWED_METHODS",
				[]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			),
			AllowedHeaders:   getEnvAsStringSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type"}),
			ExposedHeaders:   getEnvAsStringSlice("CORS_EXPOSED_HEADERS", []string{}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 86400),
		},

		// Rate Limiting
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 60),
			BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 10),
		},

		// Database
		Database: DatabaseConfig{
			Path:               getEnv("DB_PATH", "/var/lib/notetube/data.db"),
			MaxConnections:     getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},

		// Completion service
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Models: getEnvAsStringSlice(
				"OPENAI_MODELS",
				[]string{"gpt-3.5-turbo-0125", "gpt-3.5-turbo"},
			),
			MaxTokens:             getEnvAsInt("OPENAI_MAX_TOKENS", 4000),
			CombineMaxTokens:      getEnvAsInt("OPENAI_COMBINE_MAX_TOKENS", 4096),
			Temperature:           getEnvAsFloat("OPENAI_TEMPERATURE", 0.1),
			CombineTemp:           getEnvAsFloat("OPENAI_COMBINE_TEMPERATURE", 0.2),
			RequestTimeout:        getEnvAsDuration("OPENAI_REQUEST_TIMEOUT", 2*time.Minute),
			RequestsPerMinute:     getEnvAsInt("OPENAI_RPM", 20),
			InputPricePerMillion:  getEnvAsFloat("OPENAI_INPUT_PRICE", 0.50),
			OutputPricePerMillion: getEnvAsFloat("OPENAI_OUTPUT_PRICE", 1.50),
		},

		// Note generation
		Notes: NotesConfig{
			CacheTTL:            getEnvAsDuration("NOTES_CACHE_TTL", 24*time.Hour),
			MaxTranscriptLength: getEnvAsInt("NOTES_MAX_TRANSCRIPT_LENGTH", 500000),
		},

		// Middleware
		Middleware: defaultDevConfig(),
	}

	if os.Getenv("ENV") == "production" {
		cfg.Middleware = defaultProdConfig()
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFile overlays values from a YAML config file on top of the
// environment-derived configuration.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func defaultDevConfig() MiddlewareConfig {
	return MiddlewareConfig{
		EnableRecover:   true,
		EnableRequestID: true,
		EnableLogger:    true,
		EnableCORS:      true,
		EnableRateLimit: false, // Disabled for testing
	}
}

func defaultProdConfig() MiddlewareConfig {
	return MiddlewareConfig{
		EnableRecover:   true,
		EnableRequestID: true,
		EnableLogger:    true,
		EnableCORS:      true,
		EnableRateLimit: true,
	}
}

func (c *Config) Validate() error {
	if err := validatePaths(c); err != nil {
		return err
	}
	if err := validateTimeouts(c); err != nil {
		return err
	}
	if err := validateOpenAI(c); err != nil {
		return err
	}
	return nil
}

func validatePaths(c *Config) error {
	paths := []struct {
		path string
		name string
	}{
		{c.LogDir, "log directory"},
		{filepath.Dir(c.Database.Path), "database directory"},
	}

	for _, p := range paths {
		if err := os.MkdirAll(p.path, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", p.name, err)
		}
	}

	return nil
}

func validateTimeouts(c *Config) error {
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.OpenAI.RequestTimeout <= 0 {
		return fmt.Errorf("openai request timeout must be positive")
	}
	return nil
}

func validateOpenAI(c *Config) error {
	if len(c.OpenAI.Models) == 0 {
		return fmt.Errorf("at least one completion model is required")
	}
	if c.OpenAI.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive")
	}
	if c.OpenAI.CombineMaxTokens < c.OpenAI.MaxTokens {
		return fmt.Errorf("combine max tokens must not be below per-chunk max tokens")
	}
	if c.Notes.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}
	return nil
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durVal, err := time.ParseDuration(value); err == nil {
			return durVal
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
