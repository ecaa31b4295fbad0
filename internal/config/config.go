package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full server configuration, read from the environment.
type Config struct {
	Port string

	// Database
	DBDriver   string // postgres (pgx), pq (lib/pq) or sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimezone string
	SQLitePath string

	// Tokens
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Guest reaper
	GuestIdleTimeout time.Duration
	ReaperInterval   time.Duration

	// Optional redis for the reaper lock
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSOrigins        []string
	GuestRatePerMinute int

	LogFile   string
	LogLevel  string
	LogStdout bool

	ShutdownGracePeriod time.Duration
}

// Load reads .env (when present) and then the environment.
func Load() (*Config, error) {
	envErr := godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "5000"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "sandoog"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBTimezone: getEnv("DB_TIMEZONE", "UTC"),
		SQLitePath: getEnv("SQLITE_PATH", "sandoog.db"),

		JWTSecret:  os.Getenv("JWT_SECRET_KEY"),
		AccessTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL: getEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),

		GuestIdleTimeout: getEnvDuration("GUEST_IDLE_TIMEOUT", 15*time.Minute),
		ReaperInterval:   getEnvDuration("REAPER_INTERVAL", 15*time.Minute),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "*")),
		GuestRatePerMinute: getEnvInt("GUEST_RATE_PER_MINUTE", 10),

		LogFile:   getEnv("LOG_FILE", "./logs/app.log"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogStdout: getEnvBool("LOG_STDOUT", true),

		ShutdownGracePeriod: getEnvDuration("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if envErr != nil && !os.IsNotExist(envErr) {
		return cfg, fmt.Errorf("load .env: %w", envErr)
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid PORT %q", c.Port))
	}

	switch c.DBDriver {
	case "postgres", "pq":
		if c.DBHost == "" || c.DBName == "" {
			problems = append(problems, "DB_HOST and DB_NAME are required for postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			problems = append(problems, "SQLITE_PATH is required for sqlite")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown DB_DRIVER %q (want postgres, pq or sqlite)", c.DBDriver))
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET_KEY is required")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		problems = append(problems, "token TTLs must be positive")
	}
	if c.GuestIdleTimeout <= 0 || c.ReaperInterval <= 0 {
		problems = append(problems, "GUEST_IDLE_TIMEOUT and REAPER_INTERVAL must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("15m") or bare minutes ("15").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
