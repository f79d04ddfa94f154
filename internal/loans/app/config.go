package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/loandesk/internal/loans/service"
	"github.com/aussiebroadwan/loandesk/pkg/httpx"
	"github.com/aussiebroadwan/loandesk/pkg/jwtx"
)

// Environments understood by Env.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is loaded in layers: Default, then the optional YAML file with its
// section for the current environment, then environment variables.
type Config struct {
	Env                 string        `yaml:"env"`
	LogLevel            string        `yaml:"log_level"`
	LogFormat           string        `yaml:"log_format"`
	Port                int           `yaml:"port"`
	ShutdownGracePeriod time.Duration `yaml:"shutdown_grace_period"`
	MetricsNamespace    string        `yaml:"metrics_namespace"`
	// TrustedProxies are CIDRs (or single addresses) of reverse proxies
	// whose X-Forwarded-For and X-Real-IP headers are honoured.
	TrustedProxies []string `yaml:"trusted_proxies"`

	Database     DatabaseConfig     `yaml:"database"`
	Auth         AuthConfig         `yaml:"auth"`
	Housekeeping HousekeepingConfig `yaml:"housekeeping"`

	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn"`    // file path for sqlite, URL for postgres
}

type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret"`
	Issuer            string        `yaml:"issuer"`
	TokenTTL          time.Duration `yaml:"token_ttl"`
	PepperFile        string        `yaml:"pepper_file"`
	MaxFailedAttempts int           `yaml:"max_failed_attempts"`
	LockoutDuration   time.Duration `yaml:"lockout_duration"`
	TOTPIssuer        string        `yaml:"totp_issuer"`
}

type HousekeepingConfig struct {
	Interval time.Duration `yaml:"interval"`
	// AuditRetention of zero keeps audit events forever.
	AuditRetention time.Duration `yaml:"audit_retention"`
}

// Overrides replace base values for one environment. Zero values are
// ignored.
type Overrides struct {
	LogLevel     string              `yaml:"log_level,omitempty"`
	LogFormat    string              `yaml:"log_format,omitempty"`
	Database     *DatabaseConfig     `yaml:"database,omitempty"`
	Auth         *AuthConfig         `yaml:"auth,omitempty"`
	Housekeeping *HousekeepingConfig `yaml:"housekeeping,omitempty"`
}

func Default() Config {
	return Config{
		Env:                 EnvDevelopment,
		LogLevel:            "info",
		LogFormat:           "json",
		Port:                8080,
		ShutdownGracePeriod: 10 * time.Second,
		MetricsNamespace:    "loandesk",
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    "loandesk.db",
		},
		Auth: AuthConfig{
			Issuer:            "loandesk",
			TokenTTL:          jwtx.DefaultSessionTTL,
			PepperFile:        "pepper",
			MaxFailedAttempts: service.DefaultMaxFailedAttempts,
			LockoutDuration:   service.DefaultLockoutDuration,
			TOTPIssuer:        service.DefaultTOTPIssuer,
		},
		Housekeeping: HousekeepingConfig{
			Interval: time.Hour,
		},
	}
}

// LoadConfig builds the configuration. path may be empty, in which case
// only defaults and environment variables apply.
func LoadConfig(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// ENV picks the override section, so it is read before the rest.
	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.applyOverrides()
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyOverrides() {
	var o *Overrides
	switch c.Env {
	case EnvDevelopment:
		o = c.Development
	case EnvStaging:
		o = c.Staging
	case EnvProduction:
		o = c.Production
	}
	if o == nil {
		return
	}

	setString(&c.LogLevel, o.LogLevel)
	setString(&c.LogFormat, o.LogFormat)

	if d := o.Database; d != nil {
		setString(&c.Database.Driver, d.Driver)
		setString(&c.Database.DSN, d.DSN)
	}
	if a := o.Auth; a != nil {
		setString(&c.Auth.JWTSecret, a.JWTSecret)
		setString(&c.Auth.Issuer, a.Issuer)
		setString(&c.Auth.PepperFile, a.PepperFile)
		setString(&c.Auth.TOTPIssuer, a.TOTPIssuer)
		setDuration(&c.Auth.TokenTTL, a.TokenTTL)
		setDuration(&c.Auth.LockoutDuration, a.LockoutDuration)
		if a.MaxFailedAttempts != 0 {
			c.Auth.MaxFailedAttempts = a.MaxFailedAttempts
		}
	}
	if h := o.Housekeeping; h != nil {
		setDuration(&c.Housekeeping.Interval, h.Interval)
		setDuration(&c.Housekeeping.AuditRetention, h.AuditRetention)
	}
}

func (c *Config) applyEnv() {
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnvOrDefault("LOG_FORMAT", c.LogFormat)
	c.Port = getEnvIntOrDefault("PORT", c.Port)
	c.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", c.ShutdownGracePeriod)
	c.MetricsNamespace = getEnvOrDefault("LOANDESK_METRICS_NAMESPACE", c.MetricsNamespace)
	c.TrustedProxies = getEnvListOrDefault("LOANDESK_TRUSTED_PROXIES", c.TrustedProxies)

	c.Database.Driver = getEnvOrDefault("LOANDESK_DATABASE_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnvOrDefault("LOANDESK_DATABASE_DSN", c.Database.DSN)

	c.Auth.JWTSecret = getEnvOrDefault("LOANDESK_JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.Issuer = getEnvOrDefault("LOANDESK_JWT_ISSUER", c.Auth.Issuer)
	c.Auth.TokenTTL = getEnvDurationOrDefault("LOANDESK_TOKEN_TTL", c.Auth.TokenTTL)
	c.Auth.PepperFile = getEnvOrDefault("LOANDESK_PEPPER_FILE", c.Auth.PepperFile)
	c.Auth.MaxFailedAttempts = getEnvIntOrDefault("LOANDESK_MAX_FAILED_ATTEMPTS", c.Auth.MaxFailedAttempts)
	c.Auth.LockoutDuration = getEnvDurationOrDefault("LOANDESK_LOCKOUT_DURATION", c.Auth.LockoutDuration)
	c.Auth.TOTPIssuer = getEnvOrDefault("LOANDESK_TOTP_ISSUER", c.Auth.TOTPIssuer)

	c.Housekeeping.Interval = getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", c.Housekeeping.Interval)
	c.Housekeeping.AuditRetention = getEnvDurationOrDefault("LOANDESK_AUDIT_RETENTION", c.Housekeeping.AuditRetention)
}

func (c Config) IsProduction() bool { return c.Env == EnvProduction }

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("env: unknown environment %q", c.Env))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port: %d out of range", c.Port))
	}

	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("trusted_proxies: %w", err))
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver: unknown driver %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}

	// Outside production an empty secret means a random one per process.
	switch {
	case c.Auth.JWTSecret == "" && c.IsProduction():
		errs = append(errs, errors.New("auth.jwt_secret is required in production"))
	case c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < jwtx.MinSecretLength:
		errs = append(errs, fmt.Errorf("auth.jwt_secret must be at least %d bytes", jwtx.MinSecretLength))
	}
	if c.Auth.Issuer == "" {
		errs = append(errs, errors.New("auth.issuer is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Auth.PepperFile == "" {
		errs = append(errs, errors.New("auth.pepper_file is required"))
	}
	if c.Auth.MaxFailedAttempts < 1 {
		errs = append(errs, errors.New("auth.max_failed_attempts must be at least 1"))
	}
	if c.Auth.LockoutDuration <= 0 {
		errs = append(errs, errors.New("auth.lockout_duration must be positive"))
	}
	if c.Auth.TOTPIssuer == "" {
		errs = append(errs, errors.New("auth.totp_issuer is required"))
	}

	if c.Housekeeping.Interval <= 0 {
		errs = append(errs, errors.New("housekeeping.interval must be positive"))
	}
	if c.Housekeeping.AuditRetention < 0 {
		errs = append(errs, errors.New("housekeeping.audit_retention must not be negative"))
	}

	return errors.Join(errs...)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated variable.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// "30m", "1h", ...
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
