package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/money"
	"github.com/chris/donation-ledger/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func liveCampaign(id string, goal money.Money) *models.Campaign {
	return &models.Campaign{
		Id:               id,
		CreatorId:        "creator-1",
		Title:            "Clinic roof",
		GoalAmount:       goal,
		ModerationStatus: models.ModerationApproved,
		FundingStatus:    models.FundingLive,
		EndDate:          baseTime.Add(30 * 24 * time.Hour),
		CreatedAt:        baseTime,
		UpdatedAt:        baseTime,
	}
}

func initiatedDonation(id, campaignID string, amount money.Money) *models.Donation {
	return &models.Donation{
		Id:               id,
		CampaignId:       campaignID,
		Amount:           amount,
		Donor:            models.KnownDonor("donor-" + id),
		SettlementStatus: models.SettlementInitiated,
		CorrelationToken: "tok-" + id,
		CreatedAt:        baseTime,
		UpdatedAt:        baseTime,
	}
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestOpenIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestCampaigns(t *testing.T) {
	ctx := context.Background()

	t.Run("Create And Get", func(t *testing.T) {
		store := openTempStore(t)
		c := liveCampaign("c1", 100000)
		require.NoError(t, store.CreateCampaign(ctx, c))

		got, err := store.GetCampaign(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, c, got)
	})

	t.Run("Duplicate", func(t *testing.T) {
		store := openTempStore(t)
		require.NoError(t, store.CreateCampaign(ctx, liveCampaign("c1", 100)))
		err := store.CreateCampaign(ctx, liveCampaign("c1", 100))
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("Not Found", func(t *testing.T) {
		store := openTempStore(t)
		_, err := store.GetCampaign(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Update Status With Version", func(t *testing.T) {
		store := openTempStore(t)
		c := liveCampaign("c1", 100)
		c.ModerationStatus = models.ModerationPending
		c.FundingStatus = models.FundingDraft
		require.NoError(t, store.CreateCampaign(ctx, c))

		c.ModerationStatus = models.ModerationApproved
		c.FundingStatus = models.FundingLive
		require.NoError(t, store.UpdateCampaignStatus(ctx, c, 0))
		assert.Equal(t, int64(1), c.Version)

		err := store.UpdateCampaignStatus(ctx, c, 0)
		assert.ErrorIs(t, err, storage.ErrVersionConflict)

		c.Id = "missing"
		err = store.UpdateCampaignStatus(ctx, c, 1)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Listings", func(t *testing.T) {
		store := openTempStore(t)
		pending := liveCampaign("pending", 100)
		pending.ModerationStatus = models.ModerationPending
		pending.FundingStatus = models.FundingDraft
		expired := liveCampaign("expired", 100)
		expired.EndDate = baseTime.Add(-time.Hour)
		require.NoError(t, store.CreateCampaign(ctx, pending))
		require.NoError(t, store.CreateCampaign(ctx, expired))
		require.NoError(t, store.CreateCampaign(ctx, liveCampaign("running", 100)))

		got, err := store.ListCampaignsByModeration(ctx, models.ModerationPending)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "pending", got[0].Id)

		got, err = store.ListCampaignsByFunding(ctx, models.FundingLive)
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = store.ListExpiredCampaigns(ctx, baseTime)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "expired", got[0].Id)
	})
}

func TestDonations(t *testing.T) {
	ctx := context.Background()

	t.Run("Create And Lookup", func(t *testing.T) {
		store := openTempStore(t)
		require.NoError(t, store.CreateCampaign(ctx, liveCampaign("c1", 100)))
		d := initiatedDonation("d1", "c1", 5000)
		d.Donor = models.AnonymousDonor()
		d.Message = "good luck"
		require.NoError(t, store.CreateDonation(ctx, d))

		got, err := store.GetDonation(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, d, got)

		got, err = store.FindDonationByCorrelation(ctx, "tok-d1")
		require.NoError(t, err)
		assert.Equal(t, "d1", got.Id)

		_, err = store.FindDonationByCorrelation(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Fail Only From Initiated", func(t *testing.T) {
		store := openTempStore(t)
		require.NoError(t, store.CreateCampaign(ctx, liveCampaign("c1", 100)))
		require.NoError(t, store.CreateDonation(ctx, initiatedDonation("d1", "c1", 5000)))

		failed, err := store.FailDonation(ctx, "d1", "ch_1", "card declined", baseTime)
		require.NoError(t, err)
		assert.True(t, failed)

		failed, err = store.FailDonation(ctx, "d1", "ch_1", "card declined", baseTime)
		require.NoError(t, err)
		assert.False(t, failed)

		got, err := store.GetDonation(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, models.SettlementFailed, got.SettlementStatus)
		assert.Equal(t, "card declined", got.FailureReason)
	})

	t.Run("Stale", func(t *testing.T) {
		store := openTempStore(t)
		require.NoError(t, store.CreateCampaign(ctx, liveCampaign("c1", 100)))
		old := initiatedDonation("old", "c1", 5000)
		fresh := initiatedDonation("fresh", "c1", 5000)
		fresh.CreatedAt = baseTime.Add(time.Hour)
		require.NoError(t, store.CreateDonation(ctx, old))
		require.NoError(t, store.CreateDonation(ctx, fresh))

		stale, err := store.ListStaleDonations(ctx, baseTime.Add(30*time.Minute))
		require.NoError(t, err)
		require.Len(t, stale, 1)
		assert.Equal(t, "old", stale[0].Id)
	})
}

func TestLedger(t *testing.T) {
	ctx := context.Background()
	settlement := storage.Settlement{DonationID: "d1", CampaignID: "c1", ProviderReference: "ch_1", Amount: 5000, SettledAt: baseTime}

	setup := func(t *testing.T) *Store {
		store := openTempStore(t)
		require.NoError(t, store.CreateCampaign(ctx, liveCampaign("c1", 100000)))
		require.NoError(t, store.CreateDonation(ctx, initiatedDonation("d1", "c1", 5000)))
		require.NoError(t, store.CreateDonation(ctx, initiatedDonation("d2", "c1", 5000)))
		return store
	}

	t.Run("Settle Once", func(t *testing.T) {
		store := setup(t)

		settled, err := store.SettleDonation(ctx, settlement)
		require.NoError(t, err)
		assert.True(t, settled)

		settled, err = store.SettleDonation(ctx, settlement)
		require.NoError(t, err)
		assert.False(t, settled)

		c, err := store.GetCampaign(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, money.FromMinor(5000), c.RaisedAmount)
		assert.Equal(t, int64(1), c.DonorCount)
		assert.Equal(t, int64(1), c.Version)

		d, err := store.GetDonation(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, models.SettlementSettled, d.SettlementStatus)
		assert.Equal(t, "ch_1", d.ProviderReference)
		require.NotNil(t, d.SettledAt)
	})

	t.Run("Reference Claimed", func(t *testing.T) {
		store := setup(t)
		_, err := store.SettleDonation(ctx, settlement)
		require.NoError(t, err)

		other := settlement
		other.DonationID = "d2"
		_, err = store.SettleDonation(ctx, other)
		assert.ErrorIs(t, err, storage.ErrReferenceClaimed)

		// The whole transaction rolled back: d2 untouched and totals unchanged.
		d, err := store.GetDonation(ctx, "d2")
		require.NoError(t, err)
		assert.Equal(t, models.SettlementInitiated, d.SettlementStatus)
		c, err := store.GetCampaign(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, money.FromMinor(5000), c.RaisedAmount)
	})

	t.Run("Refund", func(t *testing.T) {
		store := setup(t)
		_, err := store.SettleDonation(ctx, settlement)
		require.NoError(t, err)

		refund := storage.Refund{DonationID: "d1", CampaignID: "c1", Amount: 5000, RefundedAt: baseTime}
		refunded, err := store.RefundDonation(ctx, refund)
		require.NoError(t, err)
		assert.True(t, refunded)

		refunded, err = store.RefundDonation(ctx, refund)
		require.NoError(t, err)
		assert.False(t, refunded)

		c, err := store.GetCampaign(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, money.Zero, c.RaisedAmount)
		assert.Equal(t, int64(1), c.DonorCount)
	})

	t.Run("Replace Totals", func(t *testing.T) {
		store := setup(t)
		err := store.ReplaceTotals(ctx, "c1", models.Totals{RaisedAmount: 42, DonorCount: 1}, 0)
		require.NoError(t, err)

		err = store.ReplaceTotals(ctx, "c1", models.Totals{}, 0)
		assert.ErrorIs(t, err, storage.ErrVersionConflict)

		c, err := store.GetCampaign(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, money.FromMinor(42), c.RaisedAmount)
	})
}

func TestReviews(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)
	ev := models.ReconciliationEvent{ProviderReference: "ch_9", Outcome: models.OutcomeSuccess, Amount: 100, CorrelationToken: "tok"}
	item := models.NewReviewItem(models.ReviewOrphanedEvent, ev, "", "no donation for correlation token", baseTime)

	recorded, err := store.RecordReview(ctx, item)
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = store.RecordReview(ctx, item)
	require.NoError(t, err)
	assert.False(t, recorded)

	items, err := store.ListReviews(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.ReviewOrphanedEvent, items[0].Kind)
	assert.Equal(t, "ch_9", items[0].ProviderReference)
}

func TestConnections(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)

	require.NoError(t, store.AddConnection(ctx, "conn-1", "c1"))
	require.NoError(t, store.AddConnection(ctx, "conn-2", "c1"))
	require.NoError(t, store.AddConnection(ctx, "conn-3", "c2"))

	ids, err := store.ListConnections(ctx, "c1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"conn-1", "conn-2"}, ids)

	require.NoError(t, store.RemoveConnection(ctx, "conn-1"))
	ids, err = store.ListConnections(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"conn-2"}, ids)
}
