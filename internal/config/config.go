package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values for DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// MinBcryptCost is the lowest bcrypt cost the service accepts.
const MinBcryptCost = 10

// Config holds every setting the service reads at start-up.
// It is built once by Load and then only read.
type Config struct {
	Port   string
	AppEnv string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Auth
	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	// Geoapify
	GeoAPIKey  string
	GeoBaseURL string
	GeoTimeout time.Duration

	// Optional integrations
	RabbitMQURL       string
	SearchEventsQueue string
	SentryDSN         string

	CORSOrigins string
	LogLevel    string
}

// SetDefaults registers the default value of every optional key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "restosearch.db")
	v.SetDefault("JWT_EXPIRY", "2h")
	v.SetDefault("BCRYPT_COST", MinBcryptCost)
	v.SetDefault("GEOAPIFY_BASE_URL", "https://api.geoapify.com")
	v.SetDefault("GEOAPIFY_TIMEOUT", "10s")
	v.SetDefault("SEARCH_EVENTS_QUEUE", "search_events")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
}

// LoadEnvFile loads a .env file into the process environment if one exists.
// Variables that are already set win.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load reads the configuration from v. Environment variables are picked up
// through viper's AutomaticEnv.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:   v.GetString("PORT"),
		AppEnv: v.GetString("APP_ENV"),

		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USERNAME"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),
		SQLitePath: v.GetString("SQLITE_PATH"),

		JWTSecret:  v.GetString("JWT_SECRET"),
		JWTExpiry:  v.GetDuration("JWT_EXPIRY"),
		BcryptCost: v.GetInt("BCRYPT_COST"),

		GeoAPIKey:  v.GetString("GEOGRAPHY_API_KEY"),
		GeoBaseURL: strings.TrimRight(v.GetString("GEOAPIFY_BASE_URL"), "/"),
		GeoTimeout: v.GetDuration("GEOAPIFY_TIMEOUT"),

		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		SearchEventsQueue: v.GetString("SEARCH_EVENTS_QUEUE"),
		SentryDSN:         v.GetString("SENTRY_DSN"),

		CORSOrigins: v.GetString("CORS_ORIGINS"),
		LogLevel:    v.GetString("LOG_LEVEL"),
	}

	if cfg.BcryptCost < MinBcryptCost {
		cfg.BcryptCost = MinBcryptCost
	}
	if cfg.JWTExpiry <= 0 {
		cfg.JWTExpiry = 2 * time.Hour
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.GeoAPIKey == "" {
		missing = append(missing, "GEOGRAPHY_API_KEY")
	}

	switch c.DBDriver {
	case DriverPostgres:
		for key, val := range map[string]string{
			"DB_HOST":     c.DBHost,
			"DB_USERNAME": c.DBUser,
			"DB_PASSWORD": c.DBPassword,
			"DB_NAME":     c.DBName,
		} {
			if val == "" {
				missing = append(missing, key)
			}
		}
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// ListenAddr returns the address passed to fiber's Listen.
func (c *Config) ListenAddr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

