package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// CacheConfig 页面缓存配置
type CacheConfig struct {
	Backend       string // memory | redis
	Prefix        string
	TTL           time.Duration
	Size          int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type Config struct {
	Port          string
	SiteURL       string
	DatabaseURL   string
	SessionSecret string
	SessionName   string
	MediaRoot     string
	MediaURL      string
	TemplatesDir  string // 为空时使用内嵌模板
	Cache         CacheConfig
}

// Load reads the configuration from environment variables, falling back to
// local development defaults.
func Load() Config {
	return Config{
		Port:          getEnv("PORT", "8080"),
		SiteURL:       strings.TrimSuffix(getEnv("SITE_URL", "http://localhost:8080"), "/"),
		DatabaseURL:   getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=quill port=5432 sslmode=disable"),
		SessionSecret: getEnv("SESSION_SECRET", "secret_key_change_me"),
		SessionName:   getEnv("SESSION_NAME", "quill_session"),
		MediaRoot:     getEnv("MEDIA_ROOT", "./media"),
		MediaURL:      getEnv("MEDIA_URL", "/media/"),
		TemplatesDir:  os.Getenv("TEMPLATES_DIR"),
		Cache: CacheConfig{
			Backend:       getEnv("CACHE_BACKEND", "memory"),
			Prefix:        getEnv("CACHE_PREFIX", "index_page"),
			TTL:           getDuration("CACHE_TTL", 20*time.Second),
			Size:          getInt("CACHE_SIZE", 500),
			RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getInt("REDIS_DB", 0),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("config: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
