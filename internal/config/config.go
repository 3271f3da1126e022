// Package config loads and validates the screener configuration. The result is
// read once at process start and never mutated afterwards.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/applicant-screener/internal/types"
)

// EnvPrefix is the prefix of environment variables that override file values,
// e.g. SCREENER_SCORING_APPROVE_THRESHOLD.
const EnvPrefix = "SCREENER"

// weightSumTolerance bounds floating-point drift when checking the weights sum.
const weightSumTolerance = 1e-6

// Config is the full process configuration.
type Config struct {
	Scoring  Scoring        `mapstructure:"scoring"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Postings PostingsConfig `mapstructure:"postings"`
	Log      LogConfig      `mapstructure:"log"`
}

// Scoring holds the weights and decision thresholds.
type Scoring struct {
	Weights          types.ScoringWeights `mapstructure:"weights"`
	ApproveThreshold int                  `mapstructure:"approve_threshold" validate:"min=0,max=100"`
	RejectThreshold  int                  `mapstructure:"reject_threshold" validate:"min=0,max=100"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port             int  `mapstructure:"port" validate:"min=1,max=65535"`
	RateLimitEnabled bool `mapstructure:"rate_limit_enabled"`
	// RequestsPerMinute is the default per-client budget for endpoints without a specific limit.
	RequestsPerMinute int   `mapstructure:"requests_per_minute" validate:"min=1"`
	MaxUploadBytes    int64 `mapstructure:"max_upload_bytes" validate:"min=1024"`
}

// DatabaseConfig configures PostgreSQL persistence. An empty URL disables it.
type DatabaseConfig struct {
	URL     string `mapstructure:"url"`
	URLFile string `mapstructure:"url_file"`
}

// RedisConfig configures the parse-result cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"min=0"`
	TTL      time.Duration `mapstructure:"ttl" validate:"min=0"`
}

// StorageConfig configures S3-compatible document storage. An empty Bucket disables it.
type StorageConfig struct {
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	SecretKeyFile string `mapstructure:"secret_key_file"`
	MaxAttempts   int    `mapstructure:"max_attempts" validate:"min=1"`
}

// QueueConfig configures the RabbitMQ worker. An empty URL disables it.
type QueueConfig struct {
	URL      string `mapstructure:"url"`
	Queue    string `mapstructure:"queue" validate:"required"`
	Exchange string `mapstructure:"exchange" validate:"required"`
	Workers  int    `mapstructure:"workers" validate:"min=1"`
	Prefetch int    `mapstructure:"prefetch" validate:"min=1"`
}

// PostingsConfig configures job posting import.
type PostingsConfig struct {
	UseBrowser     bool          `mapstructure:"use_browser"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"min=0"`
	BrowserTimeout time.Duration `mapstructure:"browser_timeout" validate:"min=0"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Scoring: Scoring{
			Weights:          types.DefaultWeights(),
			ApproveThreshold: 70,
			RejectThreshold:  40,
		},
		Server: ServerConfig{
			Port:              8080,
			RateLimitEnabled:  true,
			RequestsPerMinute: 600,
			MaxUploadBytes:    10 << 20,
		},
		Redis: RedisConfig{TTL: 24 * time.Hour},
		Storage: StorageConfig{
			Region:      "auto",
			MaxAttempts: 3,
		},
		Queue: QueueConfig{
			Queue:    "applications",
			Exchange: "application_decisions",
			Workers:  3,
			Prefetch: 1,
		},
		Auth: AuthConfig{ExpirationHours: 24},
		Postings: PostingsConfig{
			Timeout:        30 * time.Second,
			BrowserTimeout: 45 * time.Second,
		},
	}
}

// Load reads configuration from the optional file at path and from SCREENER_*
// environment variables, resolves file-backed secrets, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.resolveSecrets(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	w := d.Scoring.Weights
	v.SetDefault("scoring.weights.skills_match", w.SkillsMatch)
	v.SetDefault("scoring.weights.experience_match", w.ExperienceMatch)
	v.SetDefault("scoring.weights.education_match", w.EducationMatch)
	v.SetDefault("scoring.weights.keywords_match", w.KeywordsMatch)
	v.SetDefault("scoring.weights.format_score", w.FormatScore)
	v.SetDefault("scoring.approve_threshold", d.Scoring.ApproveThreshold)
	v.SetDefault("scoring.reject_threshold", d.Scoring.RejectThreshold)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate_limit_enabled", d.Server.RateLimitEnabled)
	v.SetDefault("server.requests_per_minute", d.Server.RequestsPerMinute)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)

	v.SetDefault("database.url", "")
	v.SetDefault("database.url_file", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", d.Redis.TTL)

	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", d.Storage.Region)
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.secret_key_file", "")
	v.SetDefault("storage.max_attempts", d.Storage.MaxAttempts)

	v.SetDefault("queue.url", "")
	v.SetDefault("queue.queue", d.Queue.Queue)
	v.SetDefault("queue.exchange", d.Queue.Exchange)
	v.SetDefault("queue.workers", d.Queue.Workers)
	v.SetDefault("queue.prefetch", d.Queue.Prefetch)

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.secret_file", "")
	v.SetDefault("auth.expiration_hours", d.Auth.ExpirationHours)

	v.SetDefault("postings.use_browser", d.Postings.UseBrowser)
	v.SetDefault("postings.timeout", d.Postings.Timeout)
	v.SetDefault("postings.browser_timeout", d.Postings.BrowserTimeout)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// resolveSecrets replaces file-backed secrets with their contents.
func (c *Config) resolveSecrets() error {
	if c.Database.URLFile != "" {
		url, err := LoadSecret(Source{Name: "database url", Value: c.Database.URL, File: c.Database.URLFile})
		if err != nil {
			return err
		}
		c.Database.URL = url
	}
	if c.Storage.SecretKeyFile != "" {
		key, err := LoadSecret(Source{Name: "storage secret key", Value: c.Storage.SecretKey, File: c.Storage.SecretKeyFile})
		if err != nil {
			return err
		}
		c.Storage.SecretKey = key
	}
	if c.Auth.SecretFile != "" {
		secret, err := LoadSecret(Source{Name: "auth secret", Value: c.Auth.Secret, File: c.Auth.SecretFile})
		if err != nil {
			return err
		}
		c.Auth.Secret = secret
	}
	return nil
}

// Validate checks struct tags and the cross-field scoring rules.
// A failing configuration must keep the engine from accepting requests.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return extractValidationError(err)
	}
	if err := c.Scoring.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// Validate checks the weights sum and threshold ordering.
func (s Scoring) Validate() error {
	w := s.Weights
	for _, weight := range []struct {
		name  string
		value float64
	}{
		{"skills_match", w.SkillsMatch},
		{"experience_match", w.ExperienceMatch},
		{"education_match", w.EducationMatch},
		{"keywords_match", w.KeywordsMatch},
		{"format_score", w.FormatScore},
	} {
		if weight.value < 0 {
			return &ValidationError{Field: "scoring.weights." + weight.name, Message: fmt.Sprintf("must be non-negative, got %g", weight.value)}
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return &ValidationError{Field: "scoring.weights", Message: fmt.Sprintf("weights sum to %.4f, must sum to 1.0", sum)}
	}
	if s.ApproveThreshold < 0 || s.ApproveThreshold > 100 || s.RejectThreshold < 0 || s.RejectThreshold > 100 {
		return &ValidationError{Field: "scoring", Message: "thresholds must be within 0-100"}
	}
	if s.ApproveThreshold <= s.RejectThreshold {
		return &ValidationError{
			Field:   "scoring.approve_threshold",
			Message: fmt.Sprintf("approve threshold (%d) must be greater than reject threshold (%d)", s.ApproveThreshold, s.RejectThreshold),
		}
	}
	return nil
}

// extractValidationError converts the first validator failure into a ValidationError.
func extractValidationError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return &ValidationError{
			Field:   strings.ToLower(fe.Namespace()),
			Message: fmt.Sprintf("failed on '%s' validation", fe.Tag()),
		}
	}
	return &ValidationError{Message: err.Error()}
}
