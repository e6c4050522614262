package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage backend: "mongo" or "memory".
	StoreBackend string `mapstructure:"STORE_BACKEND"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payments.
	StripeKey              string        `mapstructure:"STRIPE_KEY"`
	CardProvider           string        `mapstructure:"CARD_PROVIDER"`
	Currency               string        `mapstructure:"CURRENCY"`
	PlatformCommissionRate float64       `mapstructure:"PLATFORM_COMMISSION_RATE"`
	PointsEarnDivisor      int64         `mapstructure:"POINTS_EARN_DIVISOR"`
	WalletApproveAfter     time.Duration `mapstructure:"WALLET_APPROVE_AFTER"`
	ReceiptBaseURL         string        `mapstructure:"RECEIPT_BASE_URL"`

	// Pricing.
	PeakMultiplier float64 `mapstructure:"PEAK_MULTIPLIER"`
	PromoCodes     string  `mapstructure:"PROMO_CODES"`

	// Booking flow.
	PaymentPollInterval time.Duration `mapstructure:"PAYMENT_POLL_INTERVAL"`
	PaymentPollAttempts int           `mapstructure:"PAYMENT_POLL_ATTEMPTS"`
	SlotHoldTTL         time.Duration `mapstructure:"SLOT_HOLD_TTL"`
	AttemptTTL          time.Duration `mapstructure:"ATTEMPT_TTL"`
}

var AppConfig Config

func LoadConfig() {
	v := viper.GetViper()
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	cfg, err := load(v)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// load applies defaults and environment overrides to v and decodes the result.
func load(v *viper.Viper) (Config, error) {
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := ParsePromoCodes(cfg.PromoCodes); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("STORE_BACKEND", "mongo")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "glowhub")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("STRIPE_KEY", "")
	v.SetDefault("CARD_PROVIDER", "simulated")
	v.SetDefault("CURRENCY", "PKR")
	v.SetDefault("PLATFORM_COMMISSION_RATE", 0.15)
	v.SetDefault("POINTS_EARN_DIVISOR", 100)
	v.SetDefault("WALLET_APPROVE_AFTER", "5s")
	v.SetDefault("RECEIPT_BASE_URL", "https://receipts.glowhub.pk")
	v.SetDefault("PEAK_MULTIPLIER", 1.2)
	v.SetDefault("PROMO_CODES", "GLOW10=0.10")
	v.SetDefault("PAYMENT_POLL_INTERVAL", "1s")
	v.SetDefault("PAYMENT_POLL_ATTEMPTS", 10)
	v.SetDefault("SLOT_HOLD_TTL", "2m")
	v.SetDefault("ATTEMPT_TTL", "30m")
}

// ParsePromoCodes decodes "CODE=rate,CODE=rate" into a map keyed by upper-case code.
func ParsePromoCodes(raw string) (map[string]float64, error) {
	codes := make(map[string]float64)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, rate, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("promo code %q: expected CODE=rate", entry)
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(rate), 64)
		if err != nil {
			return nil, fmt.Errorf("promo code %q: %w", entry, err)
		}
		if pct < 0 || pct > 1 {
			return nil, fmt.Errorf("promo code %q: rate must be between 0 and 1", entry)
		}
		codes[strings.ToUpper(strings.TrimSpace(code))] = pct
	}
	return codes, nil
}

// Promotions returns the parsed promo code table, ignoring malformed input.
func (c Config) Promotions() map[string]float64 {
	codes, err := ParsePromoCodes(c.PromoCodes)
	if err != nil {
		return map[string]float64{}
	}
	return codes
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
