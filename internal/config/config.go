// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the server.
type Config struct {
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	AppAddr string `envconfig:"APP_ADDR" default:":8080"`

	DBPath string `envconfig:"DB_PATH" default:"./data/tripsplit.db"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// DevAllowFallback accepts the X-Owner-Id header in place of a token.
	DevAllowFallback bool `envconfig:"DEV_ALLOW_FALLBACK" default:"false"`

	RateLimitPerMinute int    `envconfig:"RATE_LIMIT_PER_MINUTE" default:"300"`
	CORSOrigin         string `envconfig:"CORS_ORIGIN" default:"*"`

	GoogleAPIKey    string        `envconfig:"GOOGLE_API_KEY"`
	GeminiModel     string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	GeminiFallbacks []string      `envconfig:"GEMINI_FALLBACKS" default:"gemini-1.5-flash,gemini-1.5-flash-8b,gemini-1.5-pro"`
	ReceiptTimeout  time.Duration `envconfig:"RECEIPT_TIMEOUT" default:"30s"`

	SettlementMaxNodes int `envconfig:"SETTLEMENT_MAX_NODES" default:"250000"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("jwt secret must be provided")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	switch c.LogFormat {
	case "pretty", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be pretty or json, got %q", c.LogFormat)
	}
	if c.RateLimitPerMinute < 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.IsProduction() && c.DevAllowFallback {
		return errors.New("DEV_ALLOW_FALLBACK cannot be enabled in production")
	}
	return nil
}

// IsProduction returns true when the server runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// ReceiptsEnabled reports whether receipt extraction has credentials.
func (c *Config) ReceiptsEnabled() bool {
	return c != nil && c.GoogleAPIKey != ""
}
