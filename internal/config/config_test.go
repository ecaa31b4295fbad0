package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, 15*time.Minute, cfg.GuestIdleTimeout)
	assert.Equal(t, 15*time.Minute, cfg.ReaperInterval)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("PORT", "8081")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("REAPER_INTERVAL", "5")
	t.Setenv("GUEST_IDLE_TIMEOUT", "90s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOG_STDOUT", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 5*time.Minute, cfg.ReaperInterval)
	assert.Equal(t, 90*time.Second, cfg.GuestIdleTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.False(t, cfg.LogStdout)
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg := &Config{Port: "99999", DBDriver: "mysql", AccessTTL: time.Minute, RefreshTTL: time.Hour}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.True(t, strings.Contains(msg, `invalid PORT "99999"`), msg)
	assert.Contains(t, msg, `unknown DB_DRIVER "mysql"`)
	assert.Contains(t, msg, "JWT_SECRET_KEY is required")
	assert.Contains(t, msg, "GUEST_IDLE_TIMEOUT and REAPER_INTERVAL must be positive")
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable", DBTimezone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.PostgresDSN())

	for _, driver := range []string{"postgres", "pq"} {
		cfg.DBDriver = driver
		d, err := cfg.Dialector()
		require.NoError(t, err)
		assert.Equal(t, "postgres", d.Name())
	}
}

func TestOpenDBSqlite(t *testing.T) {
	cfg := &Config{DBDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "test.db")}

	db, err := OpenDB(cfg, gormlogger.Default.LogMode(gormlogger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	for _, table := range []string{"users", "budgets", "savings", "transactions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
