package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	LogLevel  string
	LogFormat string

	// STORAGE_BACKEND: "memory" keeps board state per process; "postgres" persists it.
	StorageBackend string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often PgBouncer/pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	OrderAPI OrderAPIConfig

	Board BoardConfig

	// StatusMetadataFile optionally overrides labels, descriptions and icons per status.
	StatusMetadataFile string

	// CORSAllowedOrigins is a comma-separated allowlist. Example:
	//   https://board.example.com,http://localhost:4200
	CORSAllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type OrderAPIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type BoardConfig struct {
	DebounceWindow  time.Duration
	PersistDebounce time.Duration
	DefaultPageSize int
	QuotePriceMin   decimal.Decimal
	QuotePriceMax   decimal.Decimal
	// HighValueFrom is the lower bound of the built-in "High value" preset.
	HighValueFrom    decimal.Decimal
	FirstBookingYear int
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: env("MIGRATIONS_PATH", "file://migrations"),
		LogLevel:       env("LOG_LEVEL", "INFO"),
		LogFormat:      env("LOG_FORMAT", "CONSOLE"),
		StorageBackend: strings.ToLower(env("STORAGE_BACKEND", "memory")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "procurement"),
			User:     env("DB_USER", "procurement"),
			Password: env("DB_PASSWORD", "procurement"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		OrderAPI: OrderAPIConfig{
			BaseURL: env("ORDER_API_BASE_URL", "http://localhost:8080/api/v1"),
			Token:   os.Getenv("ORDER_API_TOKEN"),
			Timeout: envMillis("ORDER_API_TIMEOUT_MS", 20000),
		},
		Board: BoardConfig{
			DebounceWindow:   envMillis("DEBOUNCE_WINDOW_MS", 100),
			PersistDebounce:  envMillis("FILTER_PERSIST_DEBOUNCE_MS", 500),
			DefaultPageSize:  envInt("DEFAULT_PAGE_SIZE", 25),
			QuotePriceMin:    envDecimal("QUOTE_PRICE_MIN", decimal.Zero),
			QuotePriceMax:    envDecimal("QUOTE_PRICE_MAX", decimal.NewFromInt(10000)),
			HighValueFrom:    envDecimal("HIGH_VALUE_FROM", decimal.NewFromInt(5000)),
			FirstBookingYear: envInt("FIRST_BOOKING_YEAR", 2015),
		},
		StatusMetadataFile: os.Getenv("STATUS_METADATA_FILE"),
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", "http://localhost:4200"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envMillis(key string, fallbackMS int) time.Duration {
	return time.Duration(envInt(key, fallbackMS)) * time.Millisecond
}

func envDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
