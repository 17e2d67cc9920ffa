// Package config loads the server configuration from the environment.
// Values come from an optional .env file and the process environment;
// nothing else reads environment variables directly.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database backends.
const (
	DriverD1       = "d1"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Health severity policies. See Config.HealthPolicy.
const (
	HealthPolicyDegraded  = "degraded"
	HealthPolicyUnhealthy = "unhealthy"
)

const (
	DefaultD1BaseURL     = "https://api.cloudflare.com/client/v4"
	DefaultResendBaseURL = "https://api.resend.com"
	DefaultContactEmail  = "hello@secunit.io"
	DefaultEmailFrom     = "Secunit Website <noreply@secunit.io>"
)

// D1 holds the Cloudflare D1 REST API credentials.
type D1 struct {
	AccountID  string `mapstructure:"cloudflare_account_id"`
	DatabaseID string `mapstructure:"cloudflare_d1_database_id"`
	APIToken   string `mapstructure:"cloudflare_api_token"`
	BaseURL    string `mapstructure:"d1_api_base_url"`
}

// Configured reports whether every credential is present.
func (d D1) Configured() bool {
	return d.AccountID != "" && d.DatabaseID != "" && d.APIToken != ""
}

type Database struct {
	Driver      string `mapstructure:"db_driver"`
	D1          D1     `mapstructure:",squash"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	DatabaseURL string `mapstructure:"database_url"`
}

type Email struct {
	ResendAPIKey  string `mapstructure:"resend_api_key"`
	ResendBaseURL string `mapstructure:"resend_api_base_url"`
	ContactEmail  string `mapstructure:"contact_email"`
	From          string `mapstructure:"email_from"`
}

type Config struct {
	Addr     string   `mapstructure:"addr"`
	SiteURL  string   `mapstructure:"site_url"`
	LogLevel string   `mapstructure:"log_level"`
	Database Database `mapstructure:",squash"`
	Email    Email    `mapstructure:",squash"`

	// HealthPolicy maps CRUD probe failures either to "degraded" with
	// HTTP 200 or to "unhealthy" with HTTP 503.
	HealthPolicy string `mapstructure:"health_policy"`
	// ExposeErrors echoes the caught error text in 500 responses.
	ExposeErrors bool `mapstructure:"expose_errors"`
	// AdminToken enables the admin contact routes when non-empty.
	AdminToken string `mapstructure:"admin_token"`
	// ContactRateLimit is the per-IP limit on POST /api/contact per minute.
	// Zero disables rate limiting.
	ContactRateLimit int   `mapstructure:"contact_rate_limit"`
	MaxBodyBytes     int64 `mapstructure:"max_body_bytes"`
}

var keys = []string{
	"addr", "site_url", "log_level",
	"db_driver", "cloudflare_account_id", "cloudflare_d1_database_id", "cloudflare_api_token",
	"d1_api_base_url", "sqlite_path", "database_url",
	"resend_api_key", "resend_api_base_url", "contact_email", "email_from",
	"health_policy", "expose_errors", "admin_token", "contact_rate_limit", "max_body_bytes",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("site_url", "http://localhost:4321")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("db_driver", DriverD1)
	v.SetDefault("d1_api_base_url", DefaultD1BaseURL)
	v.SetDefault("sqlite_path", "contacts.db")
	v.SetDefault("resend_api_base_url", DefaultResendBaseURL)
	v.SetDefault("contact_email", DefaultContactEmail)
	v.SetDefault("email_from", DefaultEmailFrom)
	v.SetDefault("health_policy", HealthPolicyDegraded)
	v.SetDefault("expose_errors", false)
	v.SetDefault("contact_rate_limit", 10)
	v.SetDefault("max_body_bytes", 64<<10)
}

// Load reads .env files (if present) into the environment and builds a
// Config from it.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
	return FromViper(viper.New())
}

// FromViper binds the known keys to environment variables on v and
// unmarshals the result.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, fmt.Errorf("binding %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values. Missing credentials are not an error:
// the database client and the notification client report them when used.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverD1, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}
	switch c.HealthPolicy {
	case HealthPolicyDegraded, HealthPolicyUnhealthy:
	default:
		return fmt.Errorf("unknown HEALTH_POLICY %q", c.HealthPolicy)
	}
	if c.ContactRateLimit < 0 {
		return errors.New("CONTACT_RATE_LIMIT must not be negative")
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}
	return nil
}
