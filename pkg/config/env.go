package config

// EnvPrefix scopes every envconfig lookup.
const EnvPrefix = "FUELOPS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "FUELOPS_APP_ENV"
	EnvPort      = "FUELOPS_APP_PORT"
	EnvDBDSN     = "FUELOPS_DB_DSN"
	EnvDBHost    = "FUELOPS_DB_HOST"
	EnvDBUser    = "FUELOPS_DB_USER"
	EnvDBName    = "FUELOPS_DB_NAME"
	EnvRedisURL  = "FUELOPS_REDIS_URL"
	EnvJWTSecret = "FUELOPS_JWT_SECRET"
	EnvJWTIssuer = "FUELOPS_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
