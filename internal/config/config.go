package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Config holds process-wide settings. It is loaded once at startup and
// passed down explicitly; nothing reads the environment after Load.
type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Database. DB_DRIVER selects pgx (default), postgres (lib/pq) or sqlite.
	DBDriver   string `envconfig:"DB_DRIVER" default:"pgx"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"password"`
	DBName     string `envconfig:"DB_NAME" default:"sevasetu"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBTimezone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"sevasetu.db"`

	// Tokens
	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"12h"`

	// Logging
	LogFile  string `envconfig:"LOG_FILE" default:"./logs/app.log"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Certificates. CERTIFICATE_STORAGE is disk or s3.
	CertificateStorage string `envconfig:"CERTIFICATE_STORAGE" default:"disk"`
	CertificateDir     string `envconfig:"CERTIFICATE_DIR" default:"certificates"`
	CertificateBucket  string `envconfig:"CERTIFICATE_BUCKET"`

	AllowAdminSignup bool     `envconfig:"ALLOW_ADMIN_SIGNUP" default:"false"`
	CORSOrigins      []string `envconfig:"CORS_ORIGINS"`
}

// Load reads .env (if present) and the process environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("could not read .env file, relying on env vars")
	}

	c := new(Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("set JWT_SECRET")
	}

	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}

	switch c.DBDriver {
	case "pgx", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.CertificateStorage {
	case "disk":
	case "s3":
		if c.CertificateBucket == "" {
			return errors.New("set CERTIFICATE_BUCKET when CERTIFICATE_STORAGE=s3")
		}
	default:
		return fmt.Errorf("unsupported CERTIFICATE_STORAGE %q", c.CertificateStorage)
	}

	return nil
}

// IsDevelopment reports whether the process runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// PostgresDSN builds the key/value connection string used by both postgres drivers.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.DBTimezone,
	)
}
