package config

// EnvPrefix namespaces every environment variable consumed by the app.
const EnvPrefix = "KASIRPOS"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv     = "KASIRPOS_APP_ENV"
	EnvPort       = "KASIRPOS_APP_PORT"
	EnvDBDSN      = "KASIRPOS_DB_DSN"
	EnvDBHost     = "KASIRPOS_DB_HOST"
	EnvDBUser     = "KASIRPOS_DB_USER"
	EnvDBName     = "KASIRPOS_DB_NAME"
	EnvRedisURL   = "KASIRPOS_REDIS_URL"
	EnvJWTSecret  = "KASIRPOS_JWT_SECRET"
	EnvJWTIssuer  = "KASIRPOS_JWT_ISSUER"
	EnvJWTExpMins = "KASIRPOS_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
