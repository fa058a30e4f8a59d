package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"sqbpay-go/internal/payment"

	"github.com/joho/godotenv"
)

type Config struct {
	APIDomain   string
	AppID       string
	NotifyURL   string
	ReturnURL   string
	VendorSN    string
	VendorKey   string
	GateWay     string
	Sandbox     bool
	HTTPTimeout time.Duration
	RateLimit   float64 // requests per second, 0 disables
	AppEnv      string
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIDomain:   os.Getenv("SQB_API_DOMAIN"),
		AppID:       os.Getenv("SQB_APP_ID"),
		NotifyURL:   os.Getenv("SQB_NOTIFY_URL"),
		ReturnURL:   os.Getenv("SQB_RETURN_URL"),
		VendorSN:    os.Getenv("SQB_VENDOR_SN"),
		VendorKey:   os.Getenv("SQB_VENDOR_KEY"),
		GateWay:     os.Getenv("SQB_GATEWAY"),
		HTTPTimeout: 15 * time.Second,
		AppEnv:      os.Getenv("APP_ENV"),
	}

	if v := os.Getenv("SQB_SANDBOX"); v != "" {
		sandbox, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SQB_SANDBOX: %w", err)
		}
		cfg.Sandbox = sandbox
	}

	if v := os.Getenv("SQB_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SQB_HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}

	if v := os.Getenv("SQB_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SQB_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = limit
	}

	if cfg.VendorSN == "" || cfg.VendorKey == "" {
		return nil, fmt.Errorf("environment variables not loaded properly: SQB_VENDOR_SN and SQB_VENDOR_KEY are required")
	}

	return cfg, nil
}

// Gateway returns the part of the config the payment client consumes.
func (c *Config) Gateway() payment.Config {
	return payment.Config{
		APIDomain: c.APIDomain,
		AppID:     c.AppID,
		NotifyURL: c.NotifyURL,
		ReturnURL: c.ReturnURL,
		VendorSN:  c.VendorSN,
		VendorKey: c.VendorKey,
		GateWay:   c.GateWay,
		Sandbox:   c.Sandbox,
	}
}
