package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	awspkg "github.com/Tiyani-source/MindMattersProject-sub002/pkg/aws"
)

// Config holds the loaded configuration
type Config struct {
	Port           string
	Env            string
	BackendURL     string
	RequestTimeout time.Duration
	Role           string

	RedisURL   string
	SessionTTL time.Duration
	IdemTTL    time.Duration

	CookieSecure   bool
	AllowedOrigins []string

	RateLimit float64
	RateBurst int

	OrderTopicArn string
}

// LoadConfig reads .env (if present) and the environment. With
// AWS_USE_SECRETS=true the bff/CONFIG secret overrides matching keys.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := Config{
		Port:           getEnv("PORT", "8000"),
		Env:            getEnv("APP_ENV", "development"),
		BackendURL:     getEnv("BACKEND_URL", "http://localhost:4000"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		Role:           getEnv("STOREFRONT_ROLE", "student"),
		RedisURL:       os.Getenv("REDIS_URL"),
		SessionTTL:     getDuration("SESSION_TTL", 24*time.Hour),
		IdemTTL:        getDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		CookieSecure:   getEnv("COOKIE_SECURE", "false") == "true",
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		RateLimit:      getFloat("RATE_LIMIT_RPS", 10),
		RateBurst:      getInt("RATE_LIMIT_BURST", 20),
		OrderTopicArn:  os.Getenv("ORDER_EVENTS_TOPIC_ARN"),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		applySecrets(&cfg)
	}
	return cfg
}

func applySecrets(cfg *Config) {
	ctx := context.Background()
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		log.Printf("secrets manager unavailable: %v", err)
		return
	}
	m, err := awspkg.NewSecretsClient(awsCfg).GetSecretMap(ctx, getEnv("BFF_SECRET_NAME", "bff/CONFIG"))
	if err != nil {
		log.Printf("failed to read bff secret: %v", err)
		return
	}
	if v := m["REDIS_URL"]; v != "" {
		cfg.RedisURL = v
	}
	if v := m["BACKEND_URL"]; v != "" {
		cfg.BackendURL = v
	}
	if v := m["ORDER_EVENTS_TOPIC_ARN"]; v != "" {
		cfg.OrderTopicArn = v
	}
}

// Helper to get an environment variable or return a default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return f
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
