package config

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, uint(8080), cfg.ServerPort)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, "disk", cfg.CertificateStorage)
	assert.Equal(t, "certificates", cfg.CertificateDir)
	assert.False(t, cfg.AllowAdminSignup)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.EqualError(t, err, "set JWT_SECRET")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWTSecret:          "k",
			TokenTTL:           time.Hour,
			DBDriver:           "sqlite",
			CertificateStorage: "disk",
		}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.CertificateStorage = "s3"
	assert.Error(t, c.Validate())
	c.CertificateBucket = "certs"
	assert.NoError(t, c.Validate())

	c = base()
	c.DBDriver = "mysql"
	assert.Error(t, c.Validate())

	c = base()
	c.TokenTTL = 0
	assert.Error(t, c.Validate())
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5433", DBSSLMode: "disable", DBTimezone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=disable TimeZone=UTC", c.PostgresDSN())
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, IsDuplicateKey(&pq.Error{Code: "23503"}))
	assert.False(t, IsDuplicateKey(errors.New("boom")))
}
