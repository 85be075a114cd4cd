package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("CACHE_PREFIX", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, "index_page", cfg.Cache.Prefix)
	assert.Equal(t, 20*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "/media/", cfg.MediaURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SITE_URL", "https://quill.example/")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "https://quill.example", cfg.SiteURL)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 3, cfg.Cache.RedisDB)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("REDIS_DB", "zero")

	cfg := Load()

	assert.Equal(t, 20*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 0, cfg.Cache.RedisDB)
}
