package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"
)

type Config struct {
	AppEnv   string `mapstructure:"APP_ENV"`
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	SweeperToken    string `mapstructure:"SWEEPER_TOKEN"`
	SweeperSchedule string `mapstructure:"SWEEPER_SCHEDULE"`

	RedisURL         string        `mapstructure:"REDIS_URL"`
	SettingsCacheTTL time.Duration `mapstructure:"SETTINGS_CACHE_TTL"`
	CartTTL          time.Duration `mapstructure:"CART_TTL"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeCurrency      string `mapstructure:"STRIPE_CURRENCY"`
	CheckoutSuccessURL  string `mapstructure:"CHECKOUT_SUCCESS_URL"`
	CheckoutCancelURL   string `mapstructure:"CHECKOUT_CANCEL_URL"`

	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `mapstructure:"TWILIO_FROM_NUMBER"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	CORSAllowedOrigins   string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RateLimitHoldsPerMin int    `mapstructure:"RATE_LIMIT_HOLDS_PER_MIN"`
}

var defaults = map[string]any{
	"APP_ENV":                  "dev",
	"HTTP_ADDR":                ":8080",
	"LOG_LEVEL":                "info",
	"DATABASE_URL":             "bookingsite.db",
	"JWT_SECRET":               defaultJWTSecret,
	"JWT_TTL":                  "12h",
	"SWEEPER_TOKEN":            "",
	"SWEEPER_SCHEDULE":         "@every 5m",
	"REDIS_URL":                "",
	"SETTINGS_CACHE_TTL":       "60s",
	"CART_TTL":                 "168h",
	"STRIPE_SECRET_KEY":        "",
	"STRIPE_WEBHOOK_SECRET":    "",
	"STRIPE_CURRENCY":          "usd",
	"CHECKOUT_SUCCESS_URL":     "http://localhost:3000/book/success?booking={BOOKING_ID}",
	"CHECKOUT_CANCEL_URL":      "http://localhost:3000/book/cancelled?booking={BOOKING_ID}",
	"TWILIO_ACCOUNT_SID":       "",
	"TWILIO_AUTH_TOKEN":        "",
	"TWILIO_FROM_NUMBER":       "",
	"KAFKA_BROKERS":            "",
	"KAFKA_TOPIC":              "booking-events",
	"CORS_ALLOWED_ORIGINS":     "http://localhost:3000,http://localhost:5173",
	"RATE_LIMIT_HOLDS_PER_MIN": 10,
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.SettingsCacheTTL < 0 {
		return fmt.Errorf("SETTINGS_CACHE_TTL must be >= 0")
	}
	if cfg.CartTTL <= 0 {
		return fmt.Errorf("CART_TTL must be > 0")
	}
	if cfg.RateLimitHoldsPerMin <= 0 {
		return fmt.Errorf("RATE_LIMIT_HOLDS_PER_MIN must be > 0")
	}
	if cfg.StripeSecretKey != "" && cfg.StripeWebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required when STRIPE_SECRET_KEY is set")
	}

	if cfg.IsProdLike() {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if strings.TrimSpace(cfg.SweeperToken) == "" {
			return fmt.Errorf("in prod/release SWEEPER_TOKEN must be set")
		}
	}

	return nil
}

func (c *Config) IsProdLike() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

// KafkaBrokerList splits KAFKA_BROKERS on commas.
func (c *Config) KafkaBrokerList() []string {
	return splitList(c.KafkaBrokers)
}

func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
