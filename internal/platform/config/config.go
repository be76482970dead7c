package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server and gateway level configuration.
type Server struct {
	Addr        string
	Environment string

	// UpstreamBaseURL is the identity/platform backend every auth and proxy
	// call is forwarded to (exposes /auth/me, /auth/refresh, /auth/oauth/*).
	UpstreamBaseURL string

	// AdminTokenHash is a bcrypt hash of the admin console token. The raw
	// secret never appears in the environment.
	AdminTokenHash string

	CookieDomain string

	Cache    Cache
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

// Cache bounds the in-process gateway caches.
type Cache struct {
	UserTTL    time.Duration
	RefreshTTL time.Duration
	MaxEntries int
}

// RedisConfig holds connection settings for the optional distributed cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds the campaign store connection string.
type PostgresConfig struct {
	URL string
}

// KafkaConfig holds the optional audit sink settings.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// Production reports whether cookies should carry the Secure flag.
func (s Server) Production() bool {
	return s.Environment == "production"
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := getenv("BRANDREACH_ADDR", ":8080")
	upstream := getenv("BRANDREACH_UPSTREAM_URL", "http://localhost:4000")

	cfg := Server{
		Addr:            addr,
		Environment:     getenv("BRANDREACH_ENV", "development"),
		UpstreamBaseURL: upstream,
		AdminTokenHash:  os.Getenv("BRANDREACH_ADMIN_TOKEN_HASH"),
		CookieDomain:    os.Getenv("BRANDREACH_COOKIE_DOMAIN"),
		Cache: Cache{
			UserTTL:    durationEnv("BRANDREACH_USER_CACHE_TTL", time.Second),
			RefreshTTL: durationEnv("BRANDREACH_REFRESH_CACHE_TTL", 2*time.Second),
			MaxEntries: intEnv("BRANDREACH_CACHE_MAX_ENTRIES", 4096),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("BRANDREACH_REDIS_URL"),
			PoolSize:     intEnv("BRANDREACH_REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("BRANDREACH_REDIS_MIN_IDLE", 2),
			DialTimeout:  durationEnv("BRANDREACH_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("BRANDREACH_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("BRANDREACH_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("BRANDREACH_POSTGRES_URL"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitEnv("BRANDREACH_KAFKA_BROKERS"),
			AuditTopic: getenv("BRANDREACH_KAFKA_AUDIT_TOPIC", "brandreach.audit"),
		},
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitEnv(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
