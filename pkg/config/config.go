package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "samboni"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	// Env var names shared with tests.
	EnvAppEnv        = "SAMBONI_APP_ENV"
	EnvPort          = "SAMBONI_APP_PORT"
	EnvShopifyDomain = "SAMBONI_SHOPIFY_STORE_DOMAIN"
	EnvShopifyToken  = "SAMBONI_SHOPIFY_STOREFRONT_ACCESS_TOKEN"
	EnvCMSBaseURL    = "SAMBONI_CMS_BASE_URL"
	EnvRedisURL      = "SAMBONI_REDIS_URL"
)

type Config struct {
	App     AppConfig
	Shopify ShopifyConfig
	CMS     CMSConfig
	Redis   RedisConfig
	Cart    CartConfig
	PubSub  PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SAMBONI_APP_ENV" required:"true"`
	Port         string `envconfig:"SAMBONI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SAMBONI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SAMBONI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ShopifyConfig struct {
	StoreDomain string        `envconfig:"SAMBONI_SHOPIFY_STORE_DOMAIN" required:"true"`
	AccessToken string        `envconfig:"SAMBONI_SHOPIFY_STOREFRONT_ACCESS_TOKEN"`
	APIVersion  string        `envconfig:"SAMBONI_SHOPIFY_API_VERSION" default:"2025-10"`
	Timeout     time.Duration `envconfig:"SAMBONI_SHOPIFY_TIMEOUT" default:"10s"`
}

// Endpoint returns the Storefront GraphQL URL for the configured shop.
func (s ShopifyConfig) Endpoint() string {
	return fmt.Sprintf("https://%s.myshopify.com/api/%s/graphql.json", s.StoreDomain, s.APIVersion)
}

type CMSConfig struct {
	BaseURL  string        `envconfig:"SAMBONI_CMS_BASE_URL" required:"true"`
	Timeout  time.Duration `envconfig:"SAMBONI_CMS_TIMEOUT" default:"10s"`
	CacheTTL time.Duration `envconfig:"SAMBONI_CMS_CACHE_TTL" default:"5m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SAMBONI_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"SAMBONI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SAMBONI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SAMBONI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SAMBONI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SAMBONI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CartConfig struct {
	// LinePageSize bounds how many lines the upstream queries request.
	LinePageSize int `envconfig:"SAMBONI_CART_LINE_PAGE_SIZE" default:"10"`
	// DefaultStock stands in when the upstream reports no inventory,
	// effectively disabling the stock ceiling.
	DefaultStock int `envconfig:"SAMBONI_CART_DEFAULT_STOCK" default:"999"`
	// SettlingDelay tolerates eventual-consistency lag after an add
	// before the panel is re-read.
	SettlingDelay time.Duration `envconfig:"SAMBONI_CART_SETTLING_DELAY" default:"500ms"`
	SessionCookie string        `envconfig:"SAMBONI_CART_SESSION_COOKIE" default:"sb_session"`
	SessionTTL    time.Duration `envconfig:"SAMBONI_CART_SESSION_TTL" default:"720h"`
}

type PubSubConfig struct {
	ProjectID  string `envconfig:"SAMBONI_PUBSUB_PROJECT_ID"`
	CartEvents string `envconfig:"SAMBONI_PUBSUB_CART_EVENTS_TOPIC"`
}

// Enabled reports whether analytics publishing is configured.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.ProjectID) != "" && strings.TrimSpace(p.CartEvents) != ""
}
