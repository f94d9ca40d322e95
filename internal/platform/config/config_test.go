package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.Set("PGSQL_URL", "postgres://localhost/bfa_test")
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(nil), discard)

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.MaxLoginAttempts)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpiryDuration)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenExpiryDuration)
	assert.Equal(t, 30*time.Second, cfg.DBStatementTimeout)
	assert.Equal(t, 30*time.Second, cfg.SMTPTimeout)
	assert.Equal(t, "0 8 * * *", cfg.ReminderCron)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.GoogleEnabled())
}

func TestFromViper_ParsesLists(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]any{
		"REMINDER_RECIPIENTS": " finance@example.org, ,audit@example.org ",
		"APP_TIMEZONE":        "UTC",
	}), discard)

	require.NoError(t, err)
	assert.Equal(t, []string{"finance@example.org", "audit@example.org"}, cfg.ReminderRecipients)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestFromViper_RejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]any{
		"missing database url":   {"PGSQL_URL": ""},
		"bad duration":           {"JWT_EXPIRY_DURATION": "soon"},
		"zero attempts":          {"MAX_LOGIN_ATTEMPTS": 0},
		"unknown timezone":       {"APP_TIMEZONE": "Mars/Olympus"},
		"default secret in prod": {"IS_PRODUCTION": true},
	}

	for name, overrides := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := fromViper(newTestViper(overrides), discard)
			assert.Error(t, err)
		})
	}
}

func TestMigrationsSourceURL(t *testing.T) {
	tests := map[string]struct {
		path string
		want string
	}{
		"default":        {path: "", want: "file://migrations"},
		"plain path":     {path: "/srv/bfa/migrations", want: "file:///srv/bfa/migrations"},
		"already scheme": {path: "file://migrations", want: "file://migrations"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			overrides := map[string]any{}
			if tc.path != "" {
				overrides["MIGRATIONS_PATH"] = tc.path
			}
			cfg, err := fromViper(newTestViper(overrides), discard)
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.MigrationsSourceURL())
		})
	}
}

func TestMigrationsSourceURL_OpensRepositoryMigrations(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]any{"MIGRATIONS_PATH": "../../../migrations"}), discard)
	require.NoError(t, err)

	drv, err := source.Open(cfg.MigrationsSourceURL())
	require.NoError(t, err)
	defer drv.Close()

	first, err := drv.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}
