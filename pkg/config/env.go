package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultSQLiteDSN = "file::memory:?cache=shared"
)

const (
	EnvAppEnv   = "STOREFRONT_APP_ENV"
	EnvPort     = "STOREFRONT_APP_PORT"
	EnvLogLevel = "STOREFRONT_LOG_LEVEL"

	// EnvPlatformPort is honoured when EnvPort is unset.
	EnvPlatformPort = "PORT"

	EnvDBDSN    = "STOREFRONT_DB_DSN"
	EnvDBDriver = "STOREFRONT_DB_DRIVER"
	EnvDBHost   = "STOREFRONT_DB_HOST"
	EnvDBUser   = "STOREFRONT_DB_USER"
	EnvDBName   = "STOREFRONT_DB_NAME"

	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvCatalogFile     = "STOREFRONT_CATALOG_FILE"
	EnvOrderIDPrefix   = "STOREFRONT_ORDER_ID_PREFIX"
	EnvNodeID          = "STOREFRONT_NODE_ID"
	EnvCORSOrigins     = "STOREFRONT_CORS_ALLOWED_ORIGINS"
	EnvMetricsEnabled  = "STOREFRONT_METRICS_ENABLED"
	EnvShutdownTimeout = "STOREFRONT_SHUTDOWN_TIMEOUT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
