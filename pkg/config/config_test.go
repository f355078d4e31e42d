package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Lubricantes-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "lubricantes-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Minute, cfg.Pricing.LockTTL)
	assert.Empty(t, cfg.Pricing.CronSpec)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("PRICING_CRON", "@every 15m")
	t.Setenv("PRICING_SYSTEM_ACTOR_ID", "00000000-0000-0000-0000-0000000000aa")
	t.Setenv("PRICING_LOCK_TTL_SECONDS", "60")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, "@every 15m", cfg.Pricing.CronSpec)
	assert.Equal(t, time.Minute, cfg.Pricing.LockTTL)
}

func TestLoad_CronSinActorEsError(t *testing.T) {
	t.Setenv("PRICING_CRON", "@hourly")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "lubricantes", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/lubricantes?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())
}
