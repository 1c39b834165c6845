// Package config builds process configuration from the environment so main
// stays lean. Secrets are read once here and passed down explicitly; nothing
// below this layer touches os.Getenv.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full process configuration.
type Config struct {
	Server    Server
	Postgres  Postgres
	Redis     Redis
	Renderer  Renderer
	Signing   Signing
	RateLimit RateLimit
	Kafka     Kafka
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
}

// Postgres configures the primary store. An empty URL selects the in-memory
// stores, which is the development and test default.
type Postgres struct {
	URL string
}

// Redis configures the rate limit store. Empty URL disables redis and the
// limiter falls back to its in-memory window.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Renderer configures the external certificate rendering service.
type Renderer struct {
	BaseURL string
	Timeout time.Duration
}

// Signing holds the certificate token signing parameters. The secret is
// injected here at process start and never read from ambient state again.
type Signing struct {
	Secret string
	Issuer string
}

// RateLimit bounds issuance requests per client IP.
type RateLimit struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

// Kafka configures the optional audit event sink. Empty brokers disable it.
type Kafka struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr: envOr("GALA_ADDR", ":8080"),
		},
		Postgres: Postgres{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Renderer: Renderer{
			BaseURL: envOr("CERT_API", "http://localhost:9090"),
			Timeout: envDuration("RENDERER_TIMEOUT", 10*time.Second),
		},
		Signing: Signing{
			Secret: envOr("CERT_SIGNING_SECRET", "dev-secret-change-in-production"),
			Issuer: envOr("CERT_ISSUER", "gala"),
		},
		RateLimit: RateLimit{
			Enabled: os.Getenv("RATE_LIMIT_DISABLED") != "true",
			Limit:   envInt("RATE_LIMIT_ISSUE_PER_MINUTE", 30),
			Window:  time.Minute,
		},
		Kafka: Kafka{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_AUDIT_TOPIC", "gala.audit"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
