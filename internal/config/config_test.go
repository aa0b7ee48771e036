package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_TTL", "")
	t.Setenv("CACHE_SIZE", "")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.JWT.AccessTTL)
	assert.Equal(t, 256, cfg.App.CacheSize)
	assert.Equal(t, "local", cfg.Storage.Driver)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_TTL", "120")
	t.Setenv("CACHE_TTL", "5s")
	t.Setenv("DATABASE_AUTO_MIGRATE", "true")
	t.Setenv("EMAIL_PORT", "2525")

	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 2*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 5*time.Second, cfg.App.CacheTTL)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 2525, cfg.SMTP.Port)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "recados", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=recados port=5432 sslmode=disable", d.DSN())

	d.Connection = "postgres://x"
	assert.Equal(t, "postgres://x", d.DSN())
}
