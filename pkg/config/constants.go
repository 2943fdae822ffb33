package config

const (
	EnvPrefix = "PLANFINDERZ"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv             = "PLANFINDERZ_APP_ENV"
	EnvPort               = "PLANFINDERZ_APP_PORT"
	EnvLogLevel           = "PLANFINDERZ_LOG_LEVEL"
	EnvDBDSN              = "PLANFINDERZ_DB_DSN"
	EnvRedisURL           = "PLANFINDERZ_REDIS_URL"
	EnvJWTSecret          = "PLANFINDERZ_JWT_SECRET"
	EnvCatalogAPIURL      = "PLANFINDERZ_CATALOG_API_URL"
	EnvCatalogPageSize    = "PLANFINDERZ_CATALOG_PAGE_SIZE"
	EnvCatalogCacheTTL    = "PLANFINDERZ_CATALOG_CACHE_TTL"
	EnvCartSessionTTL     = "PLANFINDERZ_CART_SESSION_TTL"
	EnvCheckoutTopic      = "PLANFINDERZ_CHECKOUT_TOPIC"
	EnvGCPProjectID       = "PLANFINDERZ_GCP_PROJECT_ID"
	EnvCORSAllowedOrigins = "PLANFINDERZ_CORS_ALLOWED_ORIGINS"
)
