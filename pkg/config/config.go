package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every shopdesk environment variable.
const EnvPrefix = "SHOPDESK"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"

	TokenStoreFile  = "file"
	TokenStoreRedis = "redis"
)

type Config struct {
	App        AppConfig
	API        APIConfig
	TokenStore TokenStoreConfig
	Redis      RedisConfig
	Polling    PollingConfig
	Location   LocationConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	if err := cfg.TokenStore.validate(cfg.Redis); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env      string `envconfig:"SHOPDESK_APP_ENV" default:"development"`
	LogLevel string `envconfig:"SHOPDESK_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL string        `envconfig:"SHOPDESK_API_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"SHOPDESK_API_TIMEOUT" default:"30s"`
}

func (a APIConfig) validate() error {
	parsed, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api base url must be http(s), got %q", a.BaseURL)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive")
	}
	return nil
}

type TokenStoreConfig struct {
	Backend string `envconfig:"SHOPDESK_TOKEN_STORE" default:"file"`
	// Path of the token file when the file backend is selected. Empty means
	// $HOME/.shopdesk/tokens.json, resolved at startup.
	FilePath string `envconfig:"SHOPDESK_TOKEN_FILE"`
}

func (t TokenStoreConfig) validate(redis RedisConfig) error {
	switch strings.ToLower(strings.TrimSpace(t.Backend)) {
	case TokenStoreFile:
		return nil
	case TokenStoreRedis:
		if redis.URL == "" && redis.Address == "" {
			return fmt.Errorf("redis token store selected but no redis url or address configured")
		}
		return nil
	default:
		return fmt.Errorf("token store backend must be %q or %q", TokenStoreFile, TokenStoreRedis)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPDESK_REDIS_URL"`
	Address      string        `envconfig:"SHOPDESK_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPDESK_REDIS_DB" default:"0"`
	DialTimeout  time.Duration `envconfig:"SHOPDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type PollingConfig struct {
	PendingInterval time.Duration `envconfig:"SHOPDESK_PENDING_POLL_INTERVAL" default:"30s"`
}

type LocationConfig struct {
	SoftTimeout time.Duration `envconfig:"SHOPDESK_LOCATION_SOFT_TIMEOUT" default:"15s"`
	HardTimeout time.Duration `envconfig:"SHOPDESK_LOCATION_HARD_TIMEOUT" default:"20s"`
	// Command is an external program that prints "<latitude> <longitude>" on
	// stdout, e.g. a GPS daemon shim. Empty disables device location.
	Command string `envconfig:"SHOPDESK_LOCATION_CMD"`
}
