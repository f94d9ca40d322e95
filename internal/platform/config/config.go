package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const insecureDefaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration. It is built once at startup and passed to the
// components that need it.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	DBStatementTimeout time.Duration
	DBMaxConns         int32
	MigrationsPath     string

	JWTSecret                  string
	JWTExpiryDuration          time.Duration
	JWTIssuer                  string
	RefreshTokenExpiryDuration time.Duration
	MaxLoginAttempts           int
	LoginRateLimit             string

	CORSAllowedOrigins []string
	MetricsEnabled     bool
	Location           *time.Location

	ReminderCron           string
	ReminderLeadDays       int
	ReminderRecipients     []string
	ReminderSendsPerSecond float64

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPTimeout  time.Duration

	// External OAuth Providers
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendBaseURL    string

	BootstrapAdminUsername string
	BootstrapAdminPassword string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig(logger *slog.Logger) (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v, logger)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("DB_STATEMENT_TIMEOUT", "30s")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("JWT_SECRET", insecureDefaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "15m")
	v.SetDefault("JWT_ISSUER", "branch-finance-admin")
	v.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	v.SetDefault("MAX_LOGIN_ATTEMPTS", 5)
	v.SetDefault("LOGIN_RATE_LIMIT", "10-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("APP_TIMEZONE", "Local")
	v.SetDefault("REMINDER_CRON", "0 8 * * *")
	v.SetDefault("REMINDER_LEAD_DAYS", 30)
	v.SetDefault("REMINDER_RECIPIENTS", "")
	v.SetDefault("REMINDER_SENDS_PER_SECOND", 2.0)
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "no-reply@localhost")
	v.SetDefault("SMTP_TIMEOUT", "30s")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("BOOTSTRAP_ADMIN_USERNAME", "")
	v.SetDefault("BOOTSTRAP_ADMIN_PASSWORD", "")
}

func fromViper(v *viper.Viper, logger *slog.Logger) (*Config, error) {
	cfg := &Config{
		DatabaseURL:            v.GetString("PGSQL_URL"),
		Port:                   v.GetString("PORT"),
		IsProduction:           v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:          v.GetBool("ENABLE_DB_CHECK"),
		DBMaxConns:             v.GetInt32("DB_MAX_CONNS"),
		MigrationsPath:         v.GetString("MIGRATIONS_PATH"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		JWTIssuer:              v.GetString("JWT_ISSUER"),
		MaxLoginAttempts:       v.GetInt("MAX_LOGIN_ATTEMPTS"),
		LoginRateLimit:         v.GetString("LOGIN_RATE_LIMIT"),
		CORSAllowedOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MetricsEnabled:         v.GetBool("METRICS_ENABLED"),
		ReminderCron:           v.GetString("REMINDER_CRON"),
		ReminderLeadDays:       v.GetInt("REMINDER_LEAD_DAYS"),
		ReminderRecipients:     splitList(v.GetString("REMINDER_RECIPIENTS")),
		ReminderSendsPerSecond: v.GetFloat64("REMINDER_SENDS_PER_SECOND"),
		SMTPHost:               v.GetString("SMTP_HOST"),
		SMTPPort:               v.GetInt("SMTP_PORT"),
		SMTPUsername:           v.GetString("SMTP_USERNAME"),
		SMTPPassword:           v.GetString("SMTP_PASSWORD"),
		SMTPFrom:               v.GetString("SMTP_FROM"),
		GoogleClientID:         v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:     v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:      v.GetString("GOOGLE_REDIRECT_URL"),
		FrontendBaseURL:        v.GetString("FRONTEND_BASE_URL"),
		BootstrapAdminUsername: v.GetString("BOOTSTRAP_ADMIN_USERNAME"),
		BootstrapAdminPassword: v.GetString("BOOTSTRAP_ADMIN_PASSWORD"),
	}

	var err error
	if cfg.DBStatementTimeout, err = parseDuration(v, "DB_STATEMENT_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.JWTExpiryDuration, err = parseDuration(v, "JWT_EXPIRY_DURATION"); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenExpiryDuration, err = parseDuration(v, "REFRESH_TOKEN_EXPIRY_DURATION"); err != nil {
		return nil, err
	}
	if cfg.SMTPTimeout, err = parseDuration(v, "SMTP_TIMEOUT"); err != nil {
		return nil, err
	}

	cfg.Location, err = time.LoadLocation(v.GetString("APP_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL must be set")
	}
	if cfg.MaxLoginAttempts < 1 {
		return nil, fmt.Errorf("MAX_LOGIN_ATTEMPTS must be at least 1, got %d", cfg.MaxLoginAttempts)
	}
	if cfg.ReminderSendsPerSecond <= 0 {
		return nil, fmt.Errorf("REMINDER_SENDS_PER_SECOND must be positive")
	}
	if cfg.JWTSecret == insecureDefaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		logger.Warn("JWT_SECRET not set. Using default insecure key.")
	}
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GoogleRedirectURL == "" {
		logger.Info("Google sign-in disabled: GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URL are required")
	}
	if cfg.SMTPHost == "" {
		logger.Info("SMTP_HOST not set. Reminder emails will only be logged.")
	}

	return cfg, nil
}

// MigrationsSourceURL returns the golang-migrate source URL for MigrationsPath. A path that
// already carries the file scheme is used as is.
func (c *Config) MigrationsSourceURL() string {
	return "file://" + strings.TrimPrefix(c.MigrationsPath, "file://")
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
