package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griefbot/memeforge/internal/client"
	"github.com/griefbot/memeforge/internal/config"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := config.NewDefaultConfig()

	assert.Equal(t, config.DefaultAPIPort, cfg.APIPort)
	assert.Equal(t, "0.0.0.0", cfg.APIHost)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, config.DefaultGenerationEndpoint, cfg.Generation.Endpoint)
	assert.Equal(t, config.DefaultGenerationModel, cfg.Generation.Model)
	assert.Equal(t, config.DefaultTemplatesURL, cfg.Imgflip.TemplatesURL)
	assert.Equal(t, config.DefaultCaptionURL, cfg.Imgflip.CaptionURL)
	assert.Equal(t, config.DefaultTemplateCacheTTL, cfg.TemplateCacheTTL)
	assert.Equal(t, config.DefaultCallTimeout, cfg.CallTimeout)
	assert.Equal(t, config.DefaultShutdownTimeout, cfg.ShutdownTimeout)

	assert.NoError(t, cfg.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		configMod func(*config.Config)
		wantErr   error
	}{
		{
			name:      "api_port_zero",
			configMod: func(c *config.Config) { c.APIPort = 0 },
			wantErr:   config.ErrInvalidAPIPort,
		},
		{
			name:      "api_port_negative",
			configMod: func(c *config.Config) { c.APIPort = -1 },
			wantErr:   config.ErrInvalidAPIPort,
		},
		{
			name:      "api_port_too_high",
			configMod: func(c *config.Config) { c.APIPort = 70000 },
			wantErr:   config.ErrInvalidAPIPort,
		},
		{
			name:      "zero_call_timeout",
			configMod: func(c *config.Config) { c.CallTimeout = 0 },
			wantErr:   config.ErrInvalidCallTimeout,
		},
		{
			name: "zero_shutdown_timeout",
			configMod: func(c *config.Config) {
				c.ShutdownTimeout = 0
			},
			wantErr: config.ErrInvalidShutdownWindow,
		},
		{
			name: "zero_init_backoff",
			configMod: func(c *config.Config) {
				c.Retry.InitBackoff = 0
			},
			wantErr: config.ErrInvalidInitBackoff,
		},
		{
			name: "max_backoff_below_initial",
			configMod: func(c *config.Config) {
				c.Retry.InitBackoff = 500
				c.Retry.MaxBackoff = 100
			},
			wantErr: config.ErrMaxBackoffTooSmall,
		},
		{
			name: "unknown_backoff_type",
			configMod: func(c *config.Config) {
				c.Retry.BackoffType = "quantum"
			},
			wantErr: config.ErrInvalidBackoffType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			tt.configMod(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestValidateValidEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{
			name:   "min_valid_port",
			modify: func(c *config.Config) { c.APIPort = 1 },
		},
		{
			name:   "max_valid_port",
			modify: func(c *config.Config) { c.APIPort = 65535 },
		},
		{
			name: "equal_backoffs",
			modify: func(c *config.Config) {
				c.Retry.InitBackoff = 100
				c.Retry.MaxBackoff = 100
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			tt.modify(cfg)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestConfigLoadFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(*testing.T, *config.Config)
	}{
		{
			name:    "load_api_port",
			envVars: map[string]string{"API_PORT": "9090"},
			check: func(t *testing.T, c *config.Config) {
				assert.Equal(t, 9090, c.APIPort)
			},
		},
		{
			name:    "load_api_host",
			envVars: map[string]string{"API_HOST": "127.0.0.1"},
			check: func(t *testing.T, c *config.Config) {
				assert.Equal(t, "127.0.0.1", c.APIHost)
			},
		},
		{
			name: "load_generation_settings",
			envVars: map[string]string{
				"GENERATION_API_URL": "http://llm.local/v1/chat",
				"GENERATION_API_KEY": "sk-test",
				"GENERATION_MODEL":   "llama3",
			},
			check: func(t *testing.T, c *config.Config) {
				assert.Equal(t,
					"http://llm.local/v1/chat", c.Generation.Endpoint)
				assert.Equal(t, "sk-test", c.Generation.APIKey)
				assert.Equal(t, "llama3", c.Generation.Model)
			},
		},
		{
			name: "load_imgflip_credentials",
			envVars: map[string]string{
				"IMGFLIP_USERNAME": "someuser",
				"IMGFLIP_PASSWORD": "somepass",
			},
			check: func(t *testing.T, c *config.Config) {
				assert.Equal(t, "someuser", c.Imgflip.Username)
				assert.Equal(t, "somepass", c.Imgflip.Password)
			},
		},
		{
			name: "load_redis_settings",
			envVars: map[string]string{
				"REDIS_ADDR": "redis.example.com:6379",
				"REDIS_DB":   "5",
			},
			check: func(t *testing.T, c *config.Config) {
				assert.Equal(t,
					"redis.example.com:6379", c.RedisAddr)
				assert.Equal(t, 5, c.RedisDB)
			},
		},
		{
			name: "load_archive_settings",
			envVars: map[string]string{
				"ARCHIVE_BUCKET_URL": "s3://meme-runs?region=us-east-1",
				"ARCHIVE_PREFIX":     "archive/",
			},
			check: func(t *testing.T, c *config.Config) {
				assert.Equal(t,
					"s3://meme-runs?region=us-east-1", c.ArchiveBucketURL)
				assert.Equal(t, "archive/", c.ArchivePrefix)
			},
		},
		{
			name: "load_retry_settings",
			envVars: map[string]string{
				"RETRY_BACKOFF_TYPE":    "linear",
				"RETRY_MAX_RETRIES":     "5",
				"RETRY_INITIAL_BACKOFF": "100",
				"RETRY_MAX_BACKOFF":     "5000",
			},
			check: func(t *testing.T, c *config.Config) {
				assert.Equal(t,
					client.BackoffTypeLinear, c.Retry.BackoffType)
				assert.Equal(t, 5, c.Retry.MaxRetries)
				assert.Equal(t, int64(100), c.Retry.InitBackoff)
				assert.Equal(t, int64(5000), c.Retry.MaxBackoff)
			},
		},
		{
			name:    "load_call_timeout",
			envVars: map[string]string{"CALL_TIMEOUT": "45s"},
			check: func(t *testing.T, c *config.Config) {
				assert.Equal(t, 45*time.Second, c.CallTimeout)
			},
		},
		{
			name:    "load_cache_ttl",
			envVars: map[string]string{"TEMPLATE_CACHE_TTL": "1h"},
			check: func(t *testing.T, c *config.Config) {
				assert.Equal(t, time.Hour, c.TemplateCacheTTL)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg := config.NewDefaultConfig()
			require.NoError(t, cfg.LoadFromEnv())
			tt.check(t, cfg)
		})
	}
}

func TestConfigLoadFromEnvRejected(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "unparseable_port",
			envVars: map[string]string{"API_PORT": "not_a_number"},
		},
		{
			name:    "port_out_of_range",
			envVars: map[string]string{"API_PORT": "70000"},
		},
		{
			name:    "unparseable_timeout",
			envVars: map[string]string{"CALL_TIMEOUT": "soon"},
		},
		{
			name:    "negative_timeout",
			envVars: map[string]string{"CALL_TIMEOUT": "-5s"},
		},
		{
			name: "retry_budget_out_of_range",
			envVars: map[string]string{
				"RETRY_MAX_RETRIES": "100",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg := config.NewDefaultConfig()
			assert.Error(t, cfg.LoadFromEnv())
		})
	}
}
