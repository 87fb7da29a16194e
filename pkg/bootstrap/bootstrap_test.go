package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/chris/donation-ledger/pkg/campaigns"
	"github.com/chris/donation-ledger/pkg/config"
	"github.com/chris/donation-ledger/pkg/donations"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/money"
	"github.com/chris/donation-ledger/pkg/reconciliation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		StorageBackend:         config.BackendSQLite,
		SQLitePath:             filepath.Join(t.TempDir(), "ledger.db"),
		PaymentProviderTimeout: 5 * time.Second,
		DonationExpiry:         30 * time.Minute,
		CampaignGracePeriod:    72 * time.Hour,
		ExpiredCampaignPolicy:  models.ExpiryComplete,
		AuditConcurrency:       2,
		Currency:               "USD",
	}
}

func TestNew(t *testing.T) {
	t.Run("Local Hub", func(t *testing.T) {
		app, err := New(context.Background(), sqliteConfig(t), nil, WithLocalHub())
		require.NoError(t, err)
		defer app.Close()

		assert.NotNil(t, app.Hub)
		assert.NotNil(t, app.Sweeper)
	})

	t.Run("No Hub By Default", func(t *testing.T) {
		app, err := New(context.Background(), sqliteConfig(t), nil)
		require.NoError(t, err)
		defer app.Close()

		assert.Nil(t, app.Hub)
	})

	t.Run("Unknown Backend", func(t *testing.T) {
		cfg := sqliteConfig(t)
		cfg.StorageBackend = "postgres"

		_, err := New(context.Background(), cfg, nil)
		assert.Error(t, err)
	})

	t.Run("Close Is Idempotent", func(t *testing.T) {
		app, err := New(context.Background(), sqliteConfig(t), nil)
		require.NoError(t, err)

		require.NoError(t, app.Close())
		assert.NoError(t, app.Close())
	})
}

func TestDonationLifecycle(t *testing.T) {
	ctx := context.Background()
	app, err := New(ctx, sqliteConfig(t), nil)
	require.NoError(t, err)
	defer app.Close()

	campaign, err := app.Campaigns.CreateDraft(ctx, campaigns.Submission{
		CreatorId:  "creator-1",
		Title:      "Community garden",
		GoalAmount: money.FromMinor(1000),
		EndDate:    time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = app.Campaigns.ApplyModerationDecision(ctx, campaign.Id, models.ModerationDecision{Approve: true})
	require.NoError(t, err)

	initiated, err := app.Donations.Initiate(ctx, donations.Request{
		CampaignId: campaign.Id,
		Amount:     money.FromMinor(1000),
		Donor:      models.KnownDonor("donor-1"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, initiated.ClientToken)

	event := models.ReconciliationEvent{
		ProviderReference: "ch_1",
		Outcome:           models.OutcomeSuccess,
		Amount:            money.FromMinor(1000),
		CorrelationToken:  initiated.Donation.CorrelationToken,
	}
	result, err := app.Reconciliation.Process(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, reconciliation.ResolutionSettled, result.Resolution)

	// Redelivery changes nothing.
	result, err = app.Reconciliation.Process(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, reconciliation.ResolutionDuplicate, result.Resolution)

	got, err := app.Campaigns.Get(ctx, campaign.Id)
	require.NoError(t, err)
	assert.Equal(t, money.FromMinor(1000), got.RaisedAmount)
	assert.Equal(t, int64(1), got.DonorCount)
	assert.Equal(t, models.FundingCompleted, got.FundingStatus)

	receipt, err := app.Receipts.Get(ctx, initiated.Donation.Id)
	require.NoError(t, err)
	assert.Equal(t, "USD", receipt.Currency)
	assert.Equal(t, "ch_1", receipt.ProviderReference)

	report, err := app.Sweeper.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.ExpiredDonations)
	assert.Zero(t, report.CorrectedCampaigns)
}
