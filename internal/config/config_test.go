package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, 60, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "gemini-2.5-flash", cfg.Advice.Model)
	assert.Equal(t, 30*time.Second, cfg.Advice.Timeout())
	assert.Equal(t, 4, cfg.Advice.Concurrency)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Cache.AdviceTTL())
	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, "exports", cfg.Archive.Prefix)
	assert.Equal(t, "minio", cfg.Archive.Driver)
	assert.Empty(t, cfg.Drive.CredentialsJSON)
	assert.True(t, cfg.App.SeedDemoData)
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("SERVER_PORT", "9090")
	v.Set("CACHE_ENABLED", "true")
	v.Set("ADVICE_CONCURRENCY", "8")
	v.Set("SEED_DEMO_DATA", "false")
	v.Set("ARCHIVE_BUCKET", "shop-exports")

	cfg := fromViper(v)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 8, cfg.Advice.Concurrency)
	assert.False(t, cfg.App.SeedDemoData)
	assert.Equal(t, "shop-exports", cfg.Archive.Bucket)
}
