package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	RazorpayKey    string
	RazorpaySecret string
	WebhookSecret  string

	// PlatformFeeBps is the marketplace fee in basis points, so the
	// fee/payout split stays exact in integer minor units.
	PlatformFeeBps int64
	// AutoPayoutEnabled triggers a vendor payout right after a completed
	// capture instead of waiting for an on-demand call.
	AutoPayoutEnabled bool
	// GatewayTimeout bounds every outbound gateway call.
	GatewayTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         os.Getenv("DB_PORT"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Port:           os.Getenv("PORT"),
		Env:            os.Getenv("ENV"),
		RazorpayKey:    os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret: os.Getenv("RAZORPAY_SECRET"),
		WebhookSecret:  os.Getenv("GATEWAY_WEBHOOK_SECRET"),
	}

	config.PlatformFeeBps = 500 // 5% default
	if v := os.Getenv("PLATFORM_FEE_BPS"); v != "" {
		bps, err := strconv.ParseInt(v, 10, 64)
		if err != nil || bps < 0 || bps > 10000 {
			return nil, fmt.Errorf("invalid PLATFORM_FEE_BPS: %q", v)
		}
		config.PlatformFeeBps = bps
	}

	config.AutoPayoutEnabled = os.Getenv("AUTO_PAYOUT_ENABLED") == "true"

	config.GatewayTimeout = 15 * time.Second
	if v := os.Getenv("GATEWAY_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid GATEWAY_TIMEOUT_SECONDS: %q", v)
		}
		config.GatewayTimeout = time.Duration(secs) * time.Second
	}

	return config, nil
}
