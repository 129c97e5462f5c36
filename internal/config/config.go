package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// CheckoutMode selects how payment simulation and booking submission run
type CheckoutMode string

const (
	CheckoutInline   CheckoutMode = "inline"
	CheckoutTemporal CheckoutMode = "temporal"
)

// Config holds all configuration for the portal and the checkout worker
type Config struct {
	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LogLevel     string

	// Upstream flight API
	UpstreamURL     string
	UpstreamTimeout time.Duration

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	// Wizard timing
	PaymentDelay   time.Duration
	FilterDebounce time.Duration

	// Checkout
	CheckoutMode      CheckoutMode
	TemporalHost      string
	TemporalNamespace string
	TaskQueue         string

	// Seat inventory; empty means the synthetic placeholder is used
	DatabaseURL string
}

// LoadConfig reads .env (if present) and the environment
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORTAL_PORT", "8081"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 15)) * time.Second,
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		UpstreamURL:     strings.TrimRight(getEnv("UPSTREAM_URL", "http://localhost:5000"), "/"),
		UpstreamTimeout: time.Duration(getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 10)) * time.Second,

		SessionSecret: getEnv("SESSION_SECRET", "dev-portal-secret-change-in-production"),
		SessionTTL:    time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		CookieSecure:  getEnvAsBool("COOKIE_SECURE", false),

		PaymentDelay:   time.Duration(getEnvAsInt("PAYMENT_DELAY_MS", 2000)) * time.Millisecond,
		FilterDebounce: time.Duration(getEnvAsInt("FILTER_DEBOUNCE_MS", 500)) * time.Millisecond,

		CheckoutMode:      CheckoutMode(getEnv("CHECKOUT_MODE", string(CheckoutInline))),
		TemporalHost:      getEnv("TEMPORAL_HOST", "localhost:7233"),
		TemporalNamespace: getEnv("TEMPORAL_NAMESPACE", "default"),
		TaskQueue:         getEnv("CHECKOUT_TASK_QUEUE", "portal-checkout-queue"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
