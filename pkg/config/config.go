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
	OTP          OTPConfig
	RateLimit    RateLimitConfig
	SMS          SMSConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"FUELOPS_APP_ENV" required:"true"`
	Port         string `envconfig:"FUELOPS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FUELOPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FUELOPS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FUELOPS_DB_DSN"`
	Driver string `envconfig:"FUELOPS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FUELOPS_DB_HOST"`
	LegacyPort     int    `envconfig:"FUELOPS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FUELOPS_DB_USER"`
	LegacyPassword string `envconfig:"FUELOPS_DB_PASSWORD"`
	LegacyName     string `envconfig:"FUELOPS_DB_NAME"`
	LegacySSLMode  string `envconfig:"FUELOPS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FUELOPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FUELOPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FUELOPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FUELOPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FUELOPS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FUELOPS_REDIS_ADDR"`
	Password     string        `envconfig:"FUELOPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"FUELOPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FUELOPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FUELOPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FUELOPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FUELOPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FUELOPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FUELOPS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FUELOPS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FUELOPS_JWT_EXPIRATION_MINUTES" default:"60"`
}

// OTPConfig tunes placement code issuance and verification.
type OTPConfig struct {
	TTL            time.Duration `envconfig:"FUELOPS_OTP_TTL" default:"10m"`
	ResendCooldown time.Duration `envconfig:"FUELOPS_OTP_RESEND_COOLDOWN" default:"30s"`
	MaxAttempts    int           `envconfig:"FUELOPS_OTP_MAX_ATTEMPTS" default:"5"`
}

type RateLimitConfig struct {
	OTPWindow           time.Duration `envconfig:"FUELOPS_RATE_LIMIT_OTP_WINDOW" default:"1m"`
	OTPVerifyIPLimit    int           `envconfig:"FUELOPS_RATE_LIMIT_OTP_VERIFY_IP_LIMIT" default:"60"`
	OTPVerifyOrderLimit int           `envconfig:"FUELOPS_RATE_LIMIT_OTP_VERIFY_ORDER_LIMIT" default:"20"`
	OTPResendIPLimit    int           `envconfig:"FUELOPS_RATE_LIMIT_OTP_RESEND_IP_LIMIT" default:"30"`
	OTPResendOrderLimit int           `envconfig:"FUELOPS_RATE_LIMIT_OTP_RESEND_ORDER_LIMIT" default:"10"`
}

type SMSConfig struct {
	ClusterID string `envconfig:"FUELOPS_STAN_CLUSTER_ID" default:"fuelops"`
	ClientID  string `envconfig:"FUELOPS_STAN_CLIENT_ID"`
	URL       string `envconfig:"FUELOPS_NATS_URL" default:"nats://localhost:4222"`
	Subject   string `envconfig:"FUELOPS_SMS_SUBJECT" default:"fuelops.sms.dispatch"`
	Durable   string `envconfig:"FUELOPS_SMS_DURABLE" default:"sms-worker"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FUELOPS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
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
