package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port           string
	Env            string
	MigrationsPath string

	DB    DatabaseConfig
	Redis RedisConfig
	Auth  AuthConfig
	S3    S3Config
	CORS  CORSConfig
}

// DatabaseConfig contains PostgreSQL connection and pool parameters.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig contains Redis connection parameters. An empty Host disables
// cross-instance event fan-out.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Channel  string
}

// Enabled reports whether Redis should be used.
func (c RedisConfig) Enabled() bool { return c.Host != "" }

// AuthConfig controls admin authentication. An empty JWTSecret leaves the API open.
// AdminEmail and AdminPassword, when both set, seed the first operator account.
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Enabled reports whether the API routes require a bearer token.
func (c AuthConfig) Enabled() bool { return c.JWTSecret != "" }

// S3Config contains object storage settings for product images.
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	PublicURL       string
	AccessKeyID     string
	SecretAccessKey string
}

// Enabled reports whether image uploads are available.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// CORSConfig lists the hosts allowed to call the API from a browser.
type CORSConfig struct {
	AllowedHosts []string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first.
func Load() (*Config, error) {
	// Missing .env is fine: production injects real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Port = getEnv("PORT", "3000")
	cfg.Env = getEnv("ENV", "development")
	cfg.MigrationsPath = getEnv("MIGRATIONS_PATH", "file://migrations")

	lifetime, err := parseDurationEnv("DB_CONN_MAX_LIFETIME", "5m")
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}
	cfg.DB = DatabaseConfig{
		Host:            getEnv("DB_HOST", ""),
		Port:            getEnv("DB_PORT", "5432"),
		User:            getEnv("DB_USER", ""),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", ""),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: lifetime,
	}

	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
		Channel:  getEnv("REDIS_CHANNEL", "ministore:pedidos"),
	}

	ttl, err := parseDurationEnv("JWT_TTL", "12h")
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.Auth = AuthConfig{
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenTTL:      ttl,
		AdminEmail:    strings.ToLower(getEnv("ADMIN_EMAIL", "")),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Administrador"),
	}

	cfg.S3 = S3Config{
		Region:          getEnv("S3_REGION", "us-east-1"),
		Bucket:          getEnv("S3_BUCKET", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		PublicURL:       getEnv("S3_PUBLIC_URL", ""),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	cfg.CORS = CORSConfig{
		AllowedHosts: splitList(getEnv("CORS_ALLOWED_ORIGINS", "localhost:5173,127.0.0.1:5173,localhost:3000")),
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
