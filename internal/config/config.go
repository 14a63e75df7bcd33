package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/griefbot/memeforge/internal/client"
)

type (
	// Config holds configuration settings for the service
	Config struct {
		// API server
		APIHost  string
		APIPort  int
		LogLevel string

		// External services
		Generation GenerationConfig
		Imgflip    ImgflipConfig

		// Template cache
		RedisAddr        string
		RedisPassword    string
		RedisDB          int
		TemplateCacheTTL time.Duration

		// Run archive
		ArchiveBucketURL string
		ArchivePrefix    string

		// Service calls
		CallTimeout time.Duration
		Retry       client.RetryConfig

		ShutdownTimeout time.Duration
	}

	// GenerationConfig locates the structured-generation service. The API
	// key is optional; without it the service applies reduced rate limits
	GenerationConfig struct {
		Endpoint string
		APIKey   string
		Model    string
	}

	// ImgflipConfig locates the template lookup and render services.
	// Credentials are optional with a documented demo fallback
	ImgflipConfig struct {
		TemplatesURL string
		CaptionURL   string
		Username     string
		Password     string
	}
)

const (
	DefaultAPIPort = 8080
	DefaultAPIHost = "0.0.0.0"
	MaxTCPPort     = 65535

	DefaultGenerationEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultGenerationModel    = "gpt-4o-mini"

	DefaultTemplatesURL = "https://api.imgflip.com/get_memes"
	DefaultCaptionURL   = "https://api.imgflip.com/caption_image"

	// Demo credentials are rate-limited but let the service run without
	// any configuration
	DefaultImgflipUsername = "imgflip_hubot"
	DefaultImgflipPassword = "imgflip_hubot"

	DefaultRedisAddr        = "localhost:6379"
	DefaultRedisDB          = 0
	DefaultTemplateCacheTTL = 15 * time.Minute

	DefaultCallTimeout     = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	MaxRetryMaxRetries  = 10
	MaxRetryInitBackoff = int64(time.Minute / time.Millisecond)
	MaxRetryMaxBackoff  = MaxRetryInitBackoff
)

var (
	ErrInvalidAPIPort     = errors.New("invalid API port")
	ErrInvalidCallTimeout = errors.New("call timeout must be positive")
	ErrInvalidInitBackoff = errors.New("initial backoff must be positive")
	ErrInvalidMaxBackoff  = errors.New("max backoff must be positive")
	ErrMaxBackoffTooSmall = errors.New(
		"max backoff must be >= initial backoff",
	)
	ErrInvalidBackoffType    = errors.New("invalid backoff type")
	ErrInvalidShutdownWindow = errors.New("shutdown timeout must be positive")
)

var validBackoffTypes = map[string]struct{}{
	client.BackoffTypeFixed:       {},
	client.BackoffTypeLinear:      {},
	client.BackoffTypeExponential: {},
}

// NewDefaultConfig creates a configuration with sensible defaults for all
// service endpoints, caching, and retry behavior
func NewDefaultConfig() *Config {
	return &Config{
		APIHost:  DefaultAPIHost,
		APIPort:  DefaultAPIPort,
		LogLevel: "info",
		Generation: GenerationConfig{
			Endpoint: DefaultGenerationEndpoint,
			Model:    DefaultGenerationModel,
		},
		Imgflip: ImgflipConfig{
			TemplatesURL: DefaultTemplatesURL,
			CaptionURL:   DefaultCaptionURL,
			Username:     DefaultImgflipUsername,
			Password:     DefaultImgflipPassword,
		},
		RedisAddr:        DefaultRedisAddr,
		RedisDB:          DefaultRedisDB,
		TemplateCacheTTL: DefaultTemplateCacheTTL,
		ArchivePrefix:    "runs/",
		CallTimeout:      DefaultCallTimeout,
		Retry:            client.DefaultRetryConfig(),
		ShutdownTimeout:  DefaultShutdownTimeout,
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any env var cannot be parsed
func (c *Config) LoadFromEnv() error {
	loadEnvString("API_HOST", &c.APIHost)
	loadEnvString("LOG_LEVEL", &c.LogLevel)

	loadEnvString("GENERATION_API_URL", &c.Generation.Endpoint)
	loadEnvString("GENERATION_API_KEY", &c.Generation.APIKey)
	loadEnvString("GENERATION_MODEL", &c.Generation.Model)

	loadEnvString("IMGFLIP_TEMPLATES_URL", &c.Imgflip.TemplatesURL)
	loadEnvString("IMGFLIP_CAPTION_URL", &c.Imgflip.CaptionURL)
	loadEnvString("IMGFLIP_USERNAME", &c.Imgflip.Username)
	loadEnvString("IMGFLIP_PASSWORD", &c.Imgflip.Password)

	loadEnvString("REDIS_ADDR", &c.RedisAddr)
	loadEnvString("REDIS_PASSWORD", &c.RedisPassword)
	loadEnvString("ARCHIVE_BUCKET_URL", &c.ArchiveBucketURL)
	loadEnvString("ARCHIVE_PREFIX", &c.ArchivePrefix)
	loadEnvString("RETRY_BACKOFF_TYPE", &c.Retry.BackoffType)

	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	if err := loadEnvInt("REDIS_DB", &c.RedisDB, -1, 15); err != nil {
		return err
	}
	if err := loadEnvInt(
		"RETRY_MAX_RETRIES", &c.Retry.MaxRetries, -1, MaxRetryMaxRetries,
	); err != nil {
		return err
	}
	if err := loadEnvInt(
		"RETRY_INITIAL_BACKOFF", &c.Retry.InitBackoff, 0, MaxRetryInitBackoff,
	); err != nil {
		return err
	}
	if err := loadEnvInt(
		"RETRY_MAX_BACKOFF", &c.Retry.MaxBackoff, 0, MaxRetryMaxBackoff,
	); err != nil {
		return err
	}

	if err := loadEnvDuration("CALL_TIMEOUT", &c.CallTimeout); err != nil {
		return err
	}
	if err := loadEnvDuration(
		"TEMPLATE_CACHE_TTL", &c.TemplateCacheTTL,
	); err != nil {
		return err
	}
	return loadEnvDuration("SHUTDOWN_TIMEOUT", &c.ShutdownTimeout)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}
	if c.CallTimeout <= 0 {
		return ErrInvalidCallTimeout
	}
	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownWindow
	}
	if c.Retry.InitBackoff <= 0 {
		return ErrInvalidInitBackoff
	}
	if c.Retry.MaxBackoff <= 0 {
		return ErrInvalidMaxBackoff
	}
	if c.Retry.MaxBackoff < c.Retry.InitBackoff {
		return ErrMaxBackoffTooSmall
	}
	if _, ok := validBackoffTypes[c.Retry.BackoffType]; !ok {
		return fmt.Errorf("%w: %s",
			ErrInvalidBackoffType, c.Retry.BackoffType)
	}
	return nil
}

func loadEnvString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max]. Returns an error if
// the value cannot be parsed or falls outside the valid range
func loadEnvInt[T ~int | ~int64](key string, dst *T, min, max T) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, tv, min+1, max)
	}
	*dst = tv
	return nil
}

func loadEnvDuration(key string, dst *time.Duration) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s: must be positive", key)
	}
	*dst = d
	return nil
}
