package config

// EnvPrefix namespaces every variable read by envconfig.
const EnvPrefix = "TALLER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "TALLER_APP_ENV"
	EnvPort         = "TALLER_APP_PORT"
	EnvLogLevel     = "TALLER_LOG_LEVEL"
	EnvLogWarnStack = "TALLER_LOG_WARN_STACK"
	EnvServiceKind  = "TALLER_SERVICE_KIND"

	EnvDBDSN      = "TALLER_DB_DSN"
	EnvDBDriver   = "TALLER_DB_DRIVER"
	EnvDBHost     = "TALLER_DB_HOST"
	EnvDBPort     = "TALLER_DB_PORT"
	EnvDBUser     = "TALLER_DB_USER"
	EnvDBPassword = "TALLER_DB_PASSWORD"
	EnvDBName     = "TALLER_DB_NAME"
	EnvDBSSLMode  = "TALLER_DB_SSLMODE"

	EnvAutoMigrate = "TALLER_AUTO_MIGRATE"

	EnvExtraGroups = "TALLER_PROVISIONING_EXTRA_GROUPS"

	EnvMetricsEnabled = "TALLER_METRICS_ENABLED"
	EnvMetricsPath    = "TALLER_METRICS_PATH"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
