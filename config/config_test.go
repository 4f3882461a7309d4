package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "session_token", cfg.Auth.CookieName)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "order_events", cfg.Kafka.Topic)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_SERVER_PORT", "9090")
	t.Setenv("STOREFRONT_AUTH_TOKEN_TTL", "30m")
	t.Setenv("STOREFRONT_REDIS_ADDR", "localhost:6379")
	t.Setenv("STOREFRONT_RATELIMIT_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.RateLimit.Burst)
}

func TestInitDB(t *testing.T) {
	db, err := InitDB(DBConfig{Driver: "sqlite", DSN: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("menu_items"))
	assert.True(t, db.Migrator().HasTable("order_items"))
	assert.True(t, db.Migrator().HasTable("profiles"))

	_, err = InitDB(DBConfig{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}
