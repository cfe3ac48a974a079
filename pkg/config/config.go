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
	Service      ServiceConfig
	DB           DBConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Provisioning ProvisioningConfig
	Metrics      MetricsConfig
	Redis        RedisConfig
	Maintenance  MaintenanceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TALLER_APP_ENV" required:"true"`
	Port         string `envconfig:"TALLER_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TALLER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TALLER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"TALLER_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"TALLER_DB_DSN"`
	Driver string `envconfig:"TALLER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TALLER_DB_HOST"`
	LegacyPort     int    `envconfig:"TALLER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TALLER_DB_USER"`
	LegacyPassword string `envconfig:"TALLER_DB_PASSWORD"`
	LegacyName     string `envconfig:"TALLER_DB_NAME"`
	LegacySSLMode  string `envconfig:"TALLER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TALLER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TALLER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TALLER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TALLER_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// SlowQueryThreshold logs statements slower than this; zero disables it.
	SlowQueryThreshold time.Duration `envconfig:"TALLER_DB_SLOW_QUERY_THRESHOLD" default:"250ms"`
}

// IsSQLite reports whether the sqlite dialector was requested.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), "sqlite")
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TALLER_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TALLER_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TALLER_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TALLER_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TALLER_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TALLER_AUTO_MIGRATE" default:"false"`
}

// ProvisioningConfig lists permission groups that must exist on top of the
// ones mapped from profile roles.
type ProvisioningConfig struct {
	ExtraGroups []string `envconfig:"TALLER_PROVISIONING_EXTRA_GROUPS"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"TALLER_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"TALLER_METRICS_PATH" default:"/metrics"`
}

// RedisConfig is only read by the maintenance worker, which needs it for its
// run lock.
type RedisConfig struct {
	URL          string        `envconfig:"TALLER_REDIS_URL"`
	Address      string        `envconfig:"TALLER_REDIS_ADDR"`
	Password     string        `envconfig:"TALLER_REDIS_PASSWORD"`
	DB           int           `envconfig:"TALLER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TALLER_REDIS_POOL_SIZE" default:"4"`
	DialTimeout  time.Duration `envconfig:"TALLER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TALLER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TALLER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type MaintenanceConfig struct {
	Interval                time.Duration `envconfig:"TALLER_MAINTENANCE_INTERVAL" default:"1h"`
	LockTTL                 time.Duration `envconfig:"TALLER_MAINTENANCE_LOCK_TTL" default:"55m"`
	ReconcileBatchSize      int           `envconfig:"TALLER_MAINTENANCE_RECONCILE_BATCH" default:"200"`
	NotificationExpiryHours int           `envconfig:"TALLER_MAINTENANCE_NOTIFICATION_EXPIRY_HOURS" default:"72"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when %s=sqlite", EnvDBDSN, EnvDBDriver)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
