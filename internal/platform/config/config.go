package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StorageDriver  string
	MigrationsPath string
	DBMaxConns     int32
	DBLockTimeout  time.Duration

	JWTSecret string
	JWTIssuer string

	// Snowflake node used for document numbers; must differ per running instance.
	NumberingNodeID int64
	DefaultTaxRate  decimal.Decimal

	RateLimit          string // ulule/limiter format, e.g. "300-M"
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("DB_MAX_CONNS", 0)
	v.SetDefault("DB_LOCK_TIMEOUT", "5s")
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_ISSUER", "oneflow")
	v.SetDefault("NUMBERING_NODE_ID", 1)
	v.SetDefault("DEFAULT_TAX_RATE", "18")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:    v.GetString("PGSQL_URL"),
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  v.GetBool("ENABLE_DB_CHECK"),
		StorageDriver:  strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		DBMaxConns:     v.GetInt32("DB_MAX_CONNS"),
		DBLockTimeout:  v.GetDuration("DB_LOCK_TIMEOUT"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTIssuer:      v.GetString("JWT_ISSUER"),
		RateLimit:      v.GetString("RATE_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when STORAGE_DRIVER is %q", StorageDriverPostgres)
		}
	case StorageDriverMemory:
		log.Println("Warning: using in-memory storage. Data is lost on restart.")
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET is the built-in default. THIS IS NOT FOR PRODUCTION.")
	}

	if cfg.DBMaxConns < 0 || cfg.DBLockTimeout < 0 {
		return nil, fmt.Errorf("DB_MAX_CONNS and DB_LOCK_TIMEOUT must not be negative")
	}

	cfg.NumberingNodeID = v.GetInt64("NUMBERING_NODE_ID")
	if cfg.NumberingNodeID < 0 || cfg.NumberingNodeID > 1023 {
		return nil, fmt.Errorf("NUMBERING_NODE_ID must be between 0 and 1023, got %d", cfg.NumberingNodeID)
	}

	rate, err := decimal.NewFromString(v.GetString("DEFAULT_TAX_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_TAX_RATE: %w", err)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("DEFAULT_TAX_RATE must not be negative")
	}
	cfg.DefaultTaxRate = rate

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
