package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRemote   = "remote"

	defaultJWTSecret = "dev-secret"
)

type Config struct {
	Addr              string
	Environment       string
	LogLevel          string
	LogFormat         string
	StoreBackend      string
	StoreURL          string
	StoreTimeout      time.Duration
	StoreAPIEnabled   bool
	StoreAPIToken     string
	DatabaseURL       string
	MigrationsDir     string
	RunMigrations     bool
	SeedFile          string
	JWTSecret         string
	TokenTTL          time.Duration
	AdminUsername     string
	AdminPassword     string
	DataEncryptionKey string
	OrganizationName  string
	Currency          string
	MaxBodyBytes      int64
	LoginRateLimit    int
	MetricsEnabled    bool
}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("STORE_URL", "")
	v.SetDefault("STORE_TIMEOUT", "30s")
	v.SetDefault("STORE_API_ENABLED", false)
	v.SetDefault("STORE_API_TOKEN", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("SEED_FILE", "")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("TOKEN_TTL", "8h")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("DATA_ENCRYPTION_KEY", "")
	v.SetDefault("ORGANIZATION_NAME", "Prince of Peace Academy")
	v.SetDefault("CURRENCY", "Kshs")
	v.SetDefault("MAX_BODY_BYTES", 2097152)
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("METRICS_ENABLED", true)
}

// Load reads defaults, then the optional YAML file named by CONFIG_FILE, then
// environment variables, later sources winning.
func Load() (Config, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	return Config{
		Addr:              v.GetString("APP_ADDR"),
		Environment:       v.GetString("APP_ENV"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		StoreBackend:      strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		StoreURL:          v.GetString("STORE_URL"),
		StoreTimeout:      v.GetDuration("STORE_TIMEOUT"),
		StoreAPIEnabled:   v.GetBool("STORE_API_ENABLED"),
		StoreAPIToken:     v.GetString("STORE_API_TOKEN"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		MigrationsDir:     v.GetString("MIGRATIONS_DIR"),
		RunMigrations:     v.GetBool("RUN_MIGRATIONS"),
		SeedFile:          v.GetString("SEED_FILE"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		TokenTTL:          v.GetDuration("TOKEN_TTL"),
		AdminUsername:     v.GetString("ADMIN_USERNAME"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
		DataEncryptionKey: v.GetString("DATA_ENCRYPTION_KEY"),
		OrganizationName:  v.GetString("ORGANIZATION_NAME"),
		Currency:          v.GetString("CURRENCY"),
		MaxBodyBytes:      v.GetInt64("MAX_BODY_BYTES"),
		LoginRateLimit:    v.GetInt("LOGIN_RATE_LIMIT"),
		MetricsEnabled:    v.GetBool("METRICS_ENABLED"),
	}, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store backend")
		}
	case BackendRemote:
		if strings.TrimSpace(c.StoreURL) == "" {
			return fmt.Errorf("STORE_URL is required for the remote store backend")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of memory, postgres, remote")
	}
	if strings.TrimSpace(c.AdminPassword) == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.StoreAPIEnabled && strings.TrimSpace(c.StoreAPIToken) == "" {
		return fmt.Errorf("STORE_API_TOKEN is required when STORE_API_ENABLED is set")
	}
	if c.StoreTimeout < 0 {
		return fmt.Errorf("STORE_TIMEOUT must not be negative")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.LoginRateLimit <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be positive")
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.StoreBackend == BackendPostgres && strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
	}
	return nil
}
