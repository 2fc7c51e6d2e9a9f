package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	productredis "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/cache/redis"
)

// Config carries environment-driven settings shared by the inventory processes.
type Config struct {
	Port              string
	PostgresDSN       string
	RedisAddr         string
	RedisTTL          time.Duration
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	AMQPURL           string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisTTL:          productredis.DefaultTTL,
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		AMQPURL:           strings.TrimSpace(os.Getenv("AMQP_URL")),
	}
	if raw := strings.TrimSpace(os.Getenv("REDIS_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("REDIS_TTL_HOURS must be a positive integer")
		}
		cfg.RedisTTL = time.Duration(hours) * time.Hour
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
