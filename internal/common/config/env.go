package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
// This struct contains all configuration parameters for the console
type Config struct {
	// Portal service endpoints
	OrderURL string
	LoginURL string
	UserURL  string

	// Product code sent with login requests
	ProductCode string

	// Paging configuration for portal queries
	PageSize     int
	MaxPages     int
	FastMaxPages int

	// Outbound request timeout
	RequestTimeout time.Duration

	// Background re-fetch interval (consumed by the UI timer, exposed here
	// so deployments can tune it in one place)
	PollInterval time.Duration

	// Environment info
	Environment string

	// Lambda detection flag (cached)
	isLambda bool
}

// LoadFromEnv loads the configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}

	// Required environment variables
	cfg.OrderURL = os.Getenv("MEDHUB_ORDER_URL")
	if cfg.OrderURL == "" {
		return nil, errors.New("MEDHUB_ORDER_URL environment variable is required")
	}

	cfg.LoginURL = os.Getenv("MEDHUB_LOGIN_URL")
	if cfg.LoginURL == "" {
		return nil, errors.New("MEDHUB_LOGIN_URL environment variable is required")
	}

	cfg.UserURL = os.Getenv("MEDHUB_USER_URL")
	if cfg.UserURL == "" {
		return nil, errors.New("MEDHUB_USER_URL environment variable is required")
	}

	cfg.ProductCode = os.Getenv("MEDHUB_PRODUCT_CODE")
	if cfg.ProductCode == "" {
		cfg.ProductCode = "fp"
	}

	cfg.PageSize = intFromEnv("PAGE_SIZE", 200)
	cfg.MaxPages = intFromEnv("MAX_PAGES", 8)
	cfg.FastMaxPages = intFromEnv("FAST_MAX_PAGES", 2)

	cfg.RequestTimeout = durationFromEnv("REQUEST_TIMEOUT", 30*time.Second)
	cfg.PollInterval = durationFromEnv("POLL_INTERVAL", 2*time.Minute)

	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "dev" // Default to dev environment
	}

	// Check if running in Lambda
	cfg.isLambda = os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""

	return cfg, nil
}

func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// IsLambda returns true if the application is running in AWS Lambda
func (c *Config) IsLambda() bool {
	return c.isLambda
}

func intFromEnv(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func durationFromEnv(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
