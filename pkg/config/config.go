package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Catalog      CatalogConfig
	Cart         CartConfig
	Checkout     CheckoutConfig
	GCP          GCPConfig
	RateLimit    RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Catalog.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PLANFINDERZ_APP_ENV" required:"true"`
	Port         string `envconfig:"PLANFINDERZ_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PLANFINDERZ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PLANFINDERZ_LOG_WARN_STACK" default:"false"`

	AllowedOrigins []string `envconfig:"PLANFINDERZ_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PLANFINDERZ_DB_DSN" required:"true"`
	Driver string `envconfig:"PLANFINDERZ_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"PLANFINDERZ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PLANFINDERZ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PLANFINDERZ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PLANFINDERZ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PLANFINDERZ_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PLANFINDERZ_REDIS_ADDR"`
	Password     string        `envconfig:"PLANFINDERZ_REDIS_PASSWORD"`
	DB           int           `envconfig:"PLANFINDERZ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PLANFINDERZ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PLANFINDERZ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PLANFINDERZ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PLANFINDERZ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PLANFINDERZ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig verifies bearer tokens minted by the account service. An empty
// secret leaves every request anonymous.
type JWTConfig struct {
	Secret string `envconfig:"PLANFINDERZ_JWT_SECRET"`
	Issuer string `envconfig:"PLANFINDERZ_JWT_ISSUER" default:"planfinderz"`
}

// Enabled reports whether bearer tokens can be verified.
func (j JWTConfig) Enabled() bool {
	return strings.TrimSpace(j.Secret) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PLANFINDERZ_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PLANFINDERZ_AUTO_MIGRATE" default:"false"`
}

type CatalogConfig struct {
	APIURL           string        `envconfig:"PLANFINDERZ_CATALOG_API_URL" required:"true"`
	AdminPath        string        `envconfig:"PLANFINDERZ_CATALOG_ADMIN_PATH" default:"/products"`
	ProfessionalPath string        `envconfig:"PLANFINDERZ_CATALOG_PROFESSIONAL_PATH" default:"/professional/plans"`
	OrdersPath       string        `envconfig:"PLANFINDERZ_CATALOG_ORDERS_PATH" default:"/orders/my-orders"`
	InquiriesPath    string        `envconfig:"PLANFINDERZ_CATALOG_INQUIRIES_PATH" default:"/inquiries"`
	RequestTimeout   time.Duration `envconfig:"PLANFINDERZ_CATALOG_REQUEST_TIMEOUT" default:"10s"`
	CacheTTL         time.Duration `envconfig:"PLANFINDERZ_CATALOG_CACHE_TTL" default:"2m"`
	PageSize         int           `envconfig:"PLANFINDERZ_CATALOG_PAGE_SIZE" default:"12"`
	PlaceholderImage string        `envconfig:"PLANFINDERZ_CATALOG_PLACEHOLDER_IMAGE" default:"/images/plan-placeholder.jpg"`
	BreakerFailures  uint32        `envconfig:"PLANFINDERZ_CATALOG_BREAKER_FAILURES" default:"5"`
	BreakerTimeout   time.Duration `envconfig:"PLANFINDERZ_CATALOG_BREAKER_TIMEOUT" default:"30s"`
}

func (c CatalogConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(c.APIURL))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvCatalogAPIURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute url", EnvCatalogAPIURL)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%s must be positive", EnvCatalogPageSize)
	}
	return nil
}

type CartConfig struct {
	SessionTTL   time.Duration `envconfig:"PLANFINDERZ_CART_SESSION_TTL" default:"168h"`
	CookieName   string        `envconfig:"PLANFINDERZ_CART_COOKIE_NAME" default:"pf_cart"`
	CookieSecure bool          `envconfig:"PLANFINDERZ_CART_COOKIE_SECURE" default:"true"`
	CookieDomain string        `envconfig:"PLANFINDERZ_CART_COOKIE_DOMAIN"`
}

// CheckoutConfig controls where finalized cart snapshots are handed off.
// Without a topic, submissions are only logged.
type CheckoutConfig struct {
	Topic string `envconfig:"PLANFINDERZ_CHECKOUT_TOPIC"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"PLANFINDERZ_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"PLANFINDERZ_GCP_CREDENTIALS_JSON"`
}

// RateLimitConfig throttles the customization inquiry form per client IP and
// per submitted email address.
type RateLimitConfig struct {
	InquiryWindow     time.Duration `envconfig:"PLANFINDERZ_RATE_LIMIT_INQUIRY_WINDOW" default:"1h"`
	InquiryIPLimit    int           `envconfig:"PLANFINDERZ_RATE_LIMIT_INQUIRY_IP_LIMIT" default:"20"`
	InquiryEmailLimit int           `envconfig:"PLANFINDERZ_RATE_LIMIT_INQUIRY_EMAIL_LIMIT" default:"5"`
}
