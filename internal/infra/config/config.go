package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	ServiceName   string              `yaml:"serviceName"`
	HTTP          HTTPConfig          `yaml:"http"`
	Log           LogConfig           `yaml:"log"`
	FAQ           FAQConfig           `yaml:"faq"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	TestQuestions TestQuestionsConfig `yaml:"testQuestions"`
	Storage       StorageConfig       `yaml:"storage"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Host         string          `yaml:"host"`
	Port         int             `yaml:"port"`
	Production   bool            `yaml:"production"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	AllowOrigins []string        `yaml:"allowOrigins"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// Address joins host and port for http.Server.
func (c HTTPConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LogConfig selects slog level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// FAQConfig controls where the catalog comes from and how matches are accepted.
type FAQConfig struct {
	Source     string           `yaml:"source"`
	Path       string           `yaml:"path"`
	Table      string           `yaml:"table"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	SQLitePath string           `yaml:"sqlitePath"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Timeout    time.Duration    `yaml:"timeout"`
}

// ThresholdsConfig holds the per-method acceptance scores.
type ThresholdsConfig struct {
	Lexical  float64 `yaml:"lexical"`
	Semantic float64 `yaml:"semantic"`
	Surface  float64 `yaml:"surface"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// EmbeddingConfig selects the sentence embedding backend.
type EmbeddingConfig struct {
	Provider   string        `yaml:"provider"`
	Model      string        `yaml:"model"`
	BaseURL    string        `yaml:"baseUrl"`
	APIKey     string        `yaml:"apiKey"`
	Dimensions int           `yaml:"dimensions"`
	Timeout    time.Duration `yaml:"timeout"`
	Breaker    BreakerConfig `yaml:"breaker"`
	Cache      CacheConfig   `yaml:"cache"`
}

// BreakerConfig tunes the circuit breaker around remote embedders.
type BreakerConfig struct {
	Enabled      bool          `yaml:"enabled"`
	MaxRequests  uint32        `yaml:"maxRequests"`
	Interval     time.Duration `yaml:"interval"`
	OpenTimeout  time.Duration `yaml:"openTimeout"`
	FailureRatio float64       `yaml:"failureRatio"`
	MinRequests  uint32        `yaml:"minRequests"`
}

// CacheConfig selects where query embeddings are cached.
type CacheConfig struct {
	Backend    string         `yaml:"backend"`
	TTL        time.Duration  `yaml:"ttl"`
	MaxEntries int            `yaml:"maxEntries"`
	Prefix     string         `yaml:"prefix"`
	Redis      RedisConfig    `yaml:"redis"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Addr string `yaml:"addr"`
}

// TestQuestionsConfig points at the sample question file used by the UI.
type TestQuestionsConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// StorageConfig configures S3-compatible object storage for input files.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Enabled reports whether input files are read from a bucket.
func (s StorageConfig) Enabled() bool {
	return strings.TrimSpace(s.Bucket) != ""
}

// TelemetryConfig controls OTLP trace export.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sampleRatio"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HOST"); v != "" {
		cfg.HTTP.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Port = parsed
		}
	}
	// FLASK_ENV is honoured so existing deployments keep their switch.
	for _, key := range []string{"FLASK_ENV", "APP_ENV"} {
		if v := os.Getenv(key); v != "" {
			cfg.HTTP.Production = strings.EqualFold(v, "production")
		}
	}
	if v := os.Getenv("HTTP_ALLOW_ORIGINS"); v != "" {
		cfg.HTTP.AllowOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("FAQ_SOURCE"); v != "" {
		cfg.FAQ.Source = strings.ToLower(v)
	}
	if v := os.Getenv("FAQ_PATH"); v != "" {
		cfg.FAQ.Path = v
	}
	if v := os.Getenv("FAQ_TABLE"); v != "" {
		cfg.FAQ.Table = v
	}
	if v := os.Getenv("FAQ_POSTGRES_DSN"); v != "" {
		cfg.FAQ.Postgres.DSN = v
	}
	if v := os.Getenv("FAQ_SQLITE_PATH"); v != "" {
		cfg.FAQ.SQLitePath = v
	}
	if v := os.Getenv("FAQ_LEXICAL_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.Thresholds.Lexical = parsed
		}
	}
	if v := os.Getenv("FAQ_SEMANTIC_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.Thresholds.Semantic = parsed
		}
	}
	if v := os.Getenv("FAQ_SURFACE_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.Thresholds.Surface = parsed
		}
	}
	if v := os.Getenv("EMBEDDING_PROVIDER"); v != "" {
		cfg.Embedding.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("EMBEDDING_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("EMBEDDING_DIMENSIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Embedding.Dimensions = parsed
		}
	}
	if v := os.Getenv("EMBEDDING_CACHE_BACKEND"); v != "" {
		cfg.Embedding.Cache.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("EMBEDDING_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Embedding.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("EMBEDDING_CACHE_MAX_ENTRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Embedding.Cache.MaxEntries = parsed
		}
	}
	if v := os.Getenv("EMBEDDING_CACHE_REDIS_ADDR"); v != "" {
		cfg.Embedding.Cache.Redis.Addr = v
	}
	if v := os.Getenv("EMBEDDING_CACHE_POSTGRES_DSN"); v != "" {
		cfg.Embedding.Cache.Postgres.DSN = v
	}
	if v := os.Getenv("EMBEDDING_BREAKER_ENABLED"); v != "" {
		cfg.Embedding.Breaker.Enabled = parseBool(v)
	}
	if v := os.Getenv("TEST_QUESTIONS_PATH"); v != "" {
		cfg.TestQuestions.Path = v
	}
	if v := os.Getenv("TEST_QUESTIONS_WATCH"); v != "" {
		cfg.TestQuestions.Watch = parseBool(v)
	}
	if v := os.Getenv("STORAGE_ENDPOINT"); v != "" {
		cfg.Storage.Endpoint = v
	}
	if v := os.Getenv("STORAGE_ACCESS_KEY"); v != "" {
		cfg.Storage.AccessKey = v
	}
	if v := os.Getenv("STORAGE_SECRET_KEY"); v != "" {
		cfg.Storage.SecretKey = v
	}
	if v := os.Getenv("STORAGE_BUCKET"); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := os.Getenv("STORAGE_REGION"); v != "" {
		cfg.Storage.Region = v
	}
	if v := os.Getenv("OTEL_ENABLED"); v != "" {
		cfg.Telemetry.Enabled = parseBool(v)
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.Endpoint = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		ServiceName: "faq-matcher",
		HTTP: HTTPConfig{
			Host:         "0.0.0.0",
			Port:         5000,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             20,
			},
		},
		Log: LogConfig{
			Level: "info",
		},
		FAQ: FAQConfig{
			Source: "builtin",
			Table:  "faqs",
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
			Thresholds: ThresholdsConfig{
				Lexical:  0.1,
				Semantic: 0.3,
				Surface:  0.2,
			},
			Timeout: 20 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Provider:   "ollama",
			Model:      "all-minilm",
			Dimensions: 384,
			Timeout:    60 * time.Second,
			Breaker: BreakerConfig{
				Enabled:      true,
				MaxRequests:  2,
				Interval:     30 * time.Second,
				OpenTimeout:  30 * time.Second,
				FailureRatio: 0.6,
				MinRequests:  3,
			},
			Cache: CacheConfig{
				Backend:    "memory",
				TTL:        time.Hour,
				MaxEntries: 10000,
				Prefix:     "faqemb",
				Postgres: PostgresConfig{
					MaxConns: 2,
				},
			},
		},
		TestQuestions: TestQuestionsConfig{
			Path: "test_questions.json",
		},
		Telemetry: TelemetryConfig{
			Endpoint:    "localhost:4317",
			Insecure:    true,
			SampleRatio: 1,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return errors.New("serviceName cannot be empty")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return errors.New("http.port must be between 1 and 65535")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	switch c.FAQ.Source {
	case "builtin":
	case "file":
		if strings.TrimSpace(c.FAQ.Path) == "" {
			return errors.New("faq.path cannot be empty when faq.source is file")
		}
	case "postgres":
		if strings.TrimSpace(c.FAQ.Postgres.DSN) == "" {
			return errors.New("faq.postgres.dsn cannot be empty when faq.source is postgres")
		}
	case "sqlite":
		if strings.TrimSpace(c.FAQ.SQLitePath) == "" {
			return errors.New("faq.sqlitePath cannot be empty when faq.source is sqlite")
		}
	default:
		return fmt.Errorf("faq.source %q is not supported", c.FAQ.Source)
	}
	if c.FAQ.Source == "postgres" || c.FAQ.Source == "sqlite" {
		if !validIdentifier(c.FAQ.Table) {
			return fmt.Errorf("faq.table %q is not a valid table name", c.FAQ.Table)
		}
	}
	for name, v := range map[string]float64{
		"lexical":  c.FAQ.Thresholds.Lexical,
		"semantic": c.FAQ.Thresholds.Semantic,
		"surface":  c.FAQ.Thresholds.Surface,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("faq.thresholds.%s must be within [0,1]", name)
		}
	}
	switch c.Embedding.Provider {
	case "hash":
		if c.Embedding.Dimensions <= 0 {
			return errors.New("embedding.dimensions must be positive for the hash provider")
		}
	case "ollama":
	case "openai", "gemini":
		if strings.TrimSpace(c.Embedding.APIKey) == "" {
			return fmt.Errorf("embedding.apiKey cannot be empty for the %s provider", c.Embedding.Provider)
		}
	default:
		return fmt.Errorf("embedding.provider %q is not supported", c.Embedding.Provider)
	}
	if c.Embedding.Provider != "hash" && strings.TrimSpace(c.Embedding.Model) == "" {
		return errors.New("embedding.model cannot be empty")
	}
	switch c.Embedding.Cache.Backend {
	case "", "none", "memory":
	case "valkey":
		if strings.TrimSpace(c.Embedding.Cache.Redis.Addr) == "" {
			return errors.New("embedding.cache.redis.addr cannot be empty when the valkey cache is enabled")
		}
	case "postgres":
		if strings.TrimSpace(c.Embedding.Cache.Postgres.DSN) == "" {
			return errors.New("embedding.cache.postgres.dsn cannot be empty when the postgres cache is enabled")
		}
	default:
		return fmt.Errorf("embedding.cache.backend %q is not supported", c.Embedding.Cache.Backend)
	}
	if c.Embedding.Cache.TTL < 0 {
		return errors.New("embedding.cache.ttl cannot be negative")
	}
	if c.Embedding.Cache.MaxEntries < 0 {
		return errors.New("embedding.cache.maxEntries cannot be negative")
	}
	if c.Storage.Enabled() && strings.TrimSpace(c.Storage.Endpoint) == "" {
		return errors.New("storage.endpoint cannot be empty when storage.bucket is set")
	}
	if c.Telemetry.Enabled && strings.TrimSpace(c.Telemetry.Endpoint) == "" {
		return errors.New("telemetry.endpoint cannot be empty when telemetry is enabled")
	}
	return nil
}

func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
