package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Env         string
	StorageType string
	Postgres    PostgresConfig
	HTTP        HTTPConfig
	Auth        AuthConfig
	Pagination  PaginationConfig
	Log         LogConfig
}

type PostgresConfig struct {
	User     string
	Password string
	DB       string
	Host     string
	Port     int
	SSLMode  string
}

func (pc PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.User,
		pc.Password,
		pc.Host,
		pc.Port,
		pc.DB,
		pc.SSLMode,
	)
}

type HTTPConfig struct {
	Port string
	// PublicBaseURL overrides scheme and host in pagination links.
	PublicBaseURL string
}

type AuthConfig struct {
	Salt         string
	Secret       string
	TokenTTL     time.Duration
	CookieSecure bool
}

type PaginationConfig struct {
	DefaultPerPage int64
}

type LogConfig struct {
	Level  string
	Format string
}

// LoadDotEnv loads ENV_PATH (default .env) into the process environment.
// A missing file only fails in local mode.
func LoadDotEnv() error {
	path := getEnv("ENV_PATH", ".env")
	if err := godotenv.Load(path); err != nil {
		env := os.Getenv("APP_ENV")
		if errors.Is(err, fs.ErrNotExist) && env != "local" {
			slog.Debug("no .env file, using process environment", "path", path)
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func LoadConfig() Config {
	storageType := getEnv("STORAGE_TYPE", StorageMemory)

	cfg := Config{
		Env:         getEnv("APP_ENV", "local"),
		StorageType: storageType,
		HTTP: HTTPConfig{
			Port:          mustGetEnv("HTTP_PORT"),
			PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
		},
		Auth: AuthConfig{
			Salt:         mustGetEnv("AUTH_SALT"),
			Secret:       mustGetEnv("AUTH_SECRET"),
			TokenTTL:     time.Duration(getInt("AUTH_TOKEN_TTL_MINUTES", 20)) * time.Minute,
			CookieSecure: getBool("AUTH_COOKIE_SECURE", false),
		},
		Pagination: PaginationConfig{
			DefaultPerPage: int64(getInt("PAGINATION_DEFAULT_PER_PAGE", 10)),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if storageType == StoragePostgres {
		cfg.Postgres = PostgresConfig{
			User:     mustGetEnv("POSTGRES_USER"),
			Password: mustGetEnv("POSTGRES_PASSWORD"),
			DB:       mustGetEnv("POSTGRES_DB"),
			Host:     mustGetEnv("POSTGRES_HOST"),
			Port:     mustGetInt("POSTGRES_PORT"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		}
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("missing required env var: " + key)
	}
	return val
}

func mustGetInt(key string) int {
	val := mustGetEnv(key)
	i, err := strconv.Atoi(val)
	if err != nil {
		panic("invalid int for env var " + key + ": " + val)
	}
	return i
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		panic("invalid int for env var " + key + ": " + val)
	}
	return i
}

func getBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		panic("invalid bool for env var " + key + ": " + val)
	}
	return b
}
