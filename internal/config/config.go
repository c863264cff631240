package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"-"` // SERVER_TIMEOUT_SECONDS

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"-"` // DB_CONN_MAX_LIFETIME_MINUTES

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Auth
	JWTSecretKey         string        `mapstructure:"JWT_SECRET_KEY"`
	JWTAccessTokenExpiry time.Duration `mapstructure:"-"` // JWT_ACCESS_TOKEN_EXPIRY_MINUTES
	JWTIssuer            string        `mapstructure:"JWT_ISSUER"`

	// Uploads
	UploadDir         string `mapstructure:"UPLOAD_DIR"`
	UploadMaxMemoryMB int64  `mapstructure:"UPLOAD_MAX_MEMORY_MB"`
	ImageMaxDimension int    `mapstructure:"IMAGE_MAX_DIMENSION"`

	// Discovery
	TaxonomyFile         string `mapstructure:"TAXONOMY_FILE"`
	AggregationSampleCap int    `mapstructure:"AGGREGATION_SAMPLE_CAP"`

	// Rate limiting (per client IP)
	RateLimitRPS       float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst     int     `mapstructure:"RATE_LIMIT_BURST"`
	AuthRateLimitRPS   float64 `mapstructure:"AUTH_RATE_LIMIT_RPS"`
	AuthRateLimitBurst int     `mapstructure:"AUTH_RATE_LIMIT_BURST"`
}

const defaultJWTSecret = "change-me-in-production"

// defaults are applied before the environment is read. Durations are whole
// seconds or minutes as the key name says.
var defaults = map[string]any{
	"GIN_MODE":               "debug",
	"SERVER_HOST":            "0.0.0.0",
	"SERVER_PORT":            "8080",
	"SERVER_TIMEOUT_SECONDS": 30,

	"DB_HOST":                      "localhost",
	"DB_PORT":                      "5432",
	"DB_USER":                      "postgres",
	"DB_PASSWORD":                  "password",
	"DB_NAME":                      "workisready_db",
	"DB_SSL_MODE":                  "disable",
	"DB_TIMEZONE":                  "UTC",
	"DB_MAX_IDLE_CONNS":            10,
	"DB_MAX_OPEN_CONNS":            100,
	"DB_CONN_MAX_LIFETIME_MINUTES": 60,

	"LOG_LEVEL":  "info",
	"LOG_FORMAT": "console",

	"JWT_SECRET_KEY":                  defaultJWTSecret,
	"JWT_ACCESS_TOKEN_EXPIRY_MINUTES": 60 * 24,
	"JWT_ISSUER":                      "workisready_backend",

	"UPLOAD_DIR":           "./uploads",
	"UPLOAD_MAX_MEMORY_MB": 32,
	"IMAGE_MAX_DIMENSION":  1600,

	"TAXONOMY_FILE":          "",
	"AGGREGATION_SAMPLE_CAP": 5,

	"RATE_LIMIT_RPS":        20,
	"RATE_LIMIT_BURST":      40,
	"AUTH_RATE_LIMIT_RPS":   1,
	"AUTH_RATE_LIMIT_BURST": 5,
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Durations are whole units in the environment, so they bypass Unmarshal.
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.JWTAccessTokenExpiry = time.Duration(v.GetInt("JWT_ACCESS_TOKEN_EXPIRY_MINUTES")) * time.Minute

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("FATAL: JWT_SECRET_KEY is not set")
	}
	if c.GinMode == "release" && c.JWTSecretKey == defaultJWTSecret {
		return fmt.Errorf("FATAL: JWT_SECRET_KEY must be changed from the default value in release mode")
	}
	if strings.TrimSpace(c.UploadDir) == "" {
		return fmt.Errorf("FATAL: UPLOAD_DIR is not set")
	}
	if c.JWTAccessTokenExpiry <= 0 {
		return fmt.Errorf("FATAL: JWT_ACCESS_TOKEN_EXPIRY_MINUTES must be positive")
	}
	if c.AggregationSampleCap < 0 {
		return fmt.Errorf("FATAL: AGGREGATION_SAMPLE_CAP cannot be negative")
	}
	return nil
}

// DSN builds the GORM postgres connection string from the individual DB_* settings.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.DBTimezone)
}

// UploadMaxMemory is the multipart parsing memory limit in bytes.
func (c *Config) UploadMaxMemory() int64 {
	if c.UploadMaxMemoryMB <= 0 {
		return 32 << 20
	}
	return c.UploadMaxMemoryMB << 20
}
