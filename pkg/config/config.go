// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendDynamoDB = "dynamodb"
	BackendSQLite   = "sqlite"
)

// Config is the full runtime configuration shared by every binary.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"dynamodb"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"donation-ledger.db"`

	CampaignsTable   string `env:"DYNAMODB_CAMPAIGNS_TABLE_NAME"`
	DonationsTable   string `env:"DYNAMODB_DONATIONS_TABLE_NAME"`
	ReviewsTable     string `env:"DYNAMODB_REVIEWS_TABLE_NAME"`
	ConnectionsTable string `env:"DYNAMODB_CONNECTIONS_TABLE_NAME"`

	ReviewQueueURL  string `env:"SQS_REVIEW_QUEUE_URL"`
	ReceiptQueueURL string `env:"SQS_RECEIPT_QUEUE_URL"`

	PaymentProviderURL     string        `env:"PAYMENT_PROVIDER_URL"`
	PaymentProviderAPIKey  string        `env:"PAYMENT_PROVIDER_API_KEY"`
	PaymentProviderTimeout time.Duration `env:"PAYMENT_PROVIDER_TIMEOUT" envDefault:"10s"`
	PaymentWebhookSecret   string        `env:"PAYMENT_WEBHOOK_SECRET"`

	DonationExpiry        time.Duration       `env:"DONATION_EXPIRY" envDefault:"30m"`
	CampaignGracePeriod   time.Duration       `env:"CAMPAIGN_GRACE_PERIOD" envDefault:"72h"`
	ExpiredCampaignPolicy models.ExpiryPolicy `env:"EXPIRED_CAMPAIGN_POLICY" envDefault:"complete"`
	AuditConcurrency      int                 `env:"AUDIT_CONCURRENCY" envDefault:"4"`

	WebSocketAPIEndpoint string `env:"WEBSOCKET_API_ENDPOINT"`
	Currency             string `env:"CURRENCY" envDefault:"USD"`
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the environment and validates it.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageBackend {
	case BackendDynamoDB:
		for name, value := range map[string]string{
			"DYNAMODB_CAMPAIGNS_TABLE_NAME":   c.CampaignsTable,
			"DYNAMODB_DONATIONS_TABLE_NAME":   c.DonationsTable,
			"DYNAMODB_REVIEWS_TABLE_NAME":     c.ReviewsTable,
			"DYNAMODB_CONNECTIONS_TABLE_NAME": c.ConnectionsTable,
		} {
			if value == "" {
				errs = append(errs, fmt.Errorf("%s is required for the dynamodb backend", name))
			}
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND %q is not one of dynamodb, sqlite", c.StorageBackend))
	}

	if _, err := c.ExpiredCampaignPolicy.Transition(); err != nil {
		errs = append(errs, fmt.Errorf("EXPIRED_CAMPAIGN_POLICY: %w", err))
	}
	for name, d := range map[string]time.Duration{
		"PAYMENT_PROVIDER_TIMEOUT": c.PaymentProviderTimeout,
		"DONATION_EXPIRY":          c.DonationExpiry,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.CampaignGracePeriod < 0 {
		errs = append(errs, errors.New("CAMPAIGN_GRACE_PERIOD must not be negative"))
	}
	if c.AuditConcurrency < 1 {
		errs = append(errs, errors.New("AUDIT_CONCURRENCY must be at least 1"))
	}
	if (c.PaymentProviderURL == "") != (c.PaymentProviderAPIKey == "") {
		errs = append(errs, errors.New("PAYMENT_PROVIDER_URL and PAYMENT_PROVIDER_API_KEY must be set together"))
	}
	if !c.UsesSandboxPayments() && c.PaymentWebhookSecret == "" {
		errs = append(errs, errors.New("PAYMENT_WEBHOOK_SECRET is required with a real payment provider"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// UsesSandboxPayments reports whether no real provider is configured.
func (c *Config) UsesSandboxPayments() bool {
	return c.PaymentProviderURL == ""
}

// NewLogger returns a JSON logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", s)
	}
	return level, nil
}
