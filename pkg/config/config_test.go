package config

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/chris/donation-ledger/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDynamoTables(t *testing.T) {
	t.Setenv("DYNAMODB_CAMPAIGNS_TABLE_NAME", "campaigns")
	t.Setenv("DYNAMODB_DONATIONS_TABLE_NAME", "donations")
	t.Setenv("DYNAMODB_REVIEWS_TABLE_NAME", "reviews")
	t.Setenv("DYNAMODB_CONNECTIONS_TABLE_NAME", "connections")
}

func TestParse(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		setDynamoTables(t)

		cfg, err := Parse()

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, BackendDynamoDB, cfg.StorageBackend)
		assert.Equal(t, 10*time.Second, cfg.PaymentProviderTimeout)
		assert.Equal(t, 30*time.Minute, cfg.DonationExpiry)
		assert.Equal(t, 72*time.Hour, cfg.CampaignGracePeriod)
		assert.Equal(t, models.ExpiryComplete, cfg.ExpiredCampaignPolicy)
		assert.Equal(t, 4, cfg.AuditConcurrency)
		assert.Equal(t, "USD", cfg.Currency)
		assert.True(t, cfg.UsesSandboxPayments())
	})

	t.Run("SQLite Needs No Tables", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "sqlite")
		t.Setenv("SQLITE_PATH", "/tmp/ledger.db")
		t.Setenv("EXPIRED_CAMPAIGN_POLICY", "cancel")

		cfg, err := Parse()

		require.NoError(t, err)
		assert.Equal(t, "/tmp/ledger.db", cfg.SQLitePath)
		assert.Equal(t, models.ExpiryCancel, cfg.ExpiredCampaignPolicy)
	})

	t.Run("Reports Every Problem", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "dynamodb")
		t.Setenv("EXPIRED_CAMPAIGN_POLICY", "archive")
		t.Setenv("AUDIT_CONCURRENCY", "0")
		t.Setenv("PAYMENT_PROVIDER_URL", "https://pay.test")
		t.Setenv("LOG_LEVEL", "loud")

		_, err := Parse()

		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, "DYNAMODB_CAMPAIGNS_TABLE_NAME is required")
		assert.Contains(t, msg, "EXPIRED_CAMPAIGN_POLICY")
		assert.Contains(t, msg, "AUDIT_CONCURRENCY must be at least 1")
		assert.Contains(t, msg, "must be set together")
		assert.Contains(t, msg, "PAYMENT_WEBHOOK_SECRET is required")
		assert.Contains(t, msg, `LOG_LEVEL "loud"`)
	})

	t.Run("Bad Duration", func(t *testing.T) {
		setDynamoTables(t)
		t.Setenv("DONATION_EXPIRY", "soon")

		_, err := Parse()

		assert.ErrorContains(t, err, "parse env")
	})

	t.Run("Unknown Backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "postgres")

		_, err := Parse()

		assert.ErrorContains(t, err, `STORAGE_BACKEND "postgres"`)
	})
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{LogLevel: "warn"}
	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "campaignId", "c1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "c1", entry["campaignId"])
}
