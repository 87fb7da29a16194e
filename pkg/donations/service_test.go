package donations

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/chris/donation-ledger/pkg/ledger"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/money"
	"github.com/chris/donation-ledger/pkg/payments"
	"github.com/chris/donation-ledger/pkg/payments/mocks"
	"github.com/chris/donation-ledger/pkg/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *Service
	store    *sqlite.Store
	provider *mocks.Provider
	clock    time.Time
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "donations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{
		store:    store,
		provider: mocks.NewProvider(t),
		clock:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	now := func() time.Time { return f.clock }
	seq := 0
	base := []Option{
		WithClock(now),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	}
	agg := ledger.New(store, ledger.WithClock(now))
	f.svc = NewService(store, store, agg, f.provider, append(base, opts...)...)

	require.NoError(t, store.CreateCampaign(context.Background(), &models.Campaign{
		Id:               "c1",
		CreatorId:        "creator-1",
		Title:            "Community garden",
		GoalAmount:       money.FromMinor(100000),
		ModerationStatus: models.ModerationApproved,
		FundingStatus:    models.FundingLive,
		EndDate:          f.clock.Add(30 * 24 * time.Hour),
		CreatedAt:        f.clock,
		UpdatedAt:        f.clock,
	}))
	return f
}

func (f *fixture) campaign(t *testing.T) *models.Campaign {
	t.Helper()
	c, err := f.store.GetCampaign(context.Background(), "c1")
	require.NoError(t, err)
	return c
}

func (f *fixture) initiate(t *testing.T, amount money.Money) *models.Donation {
	t.Helper()
	f.provider.On("CreateSession", mock.Anything, mock.Anything).Return(payments.Session{ID: "s", ClientToken: "ct"}, nil).Once()
	out, err := f.svc.Initiate(context.Background(), Request{CampaignId: "c1", Amount: amount, Donor: models.KnownDonor("donor-1")})
	require.NoError(t, err)
	return out.Donation
}

func TestInitiate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.provider.On("CreateSession", mock.Anything, mock.MatchedBy(func(req payments.SessionRequest) bool {
			return req.DonationID == "id-1" && req.CorrelationToken == "id-2" &&
				req.Amount == money.FromMinor(5000) && req.Currency == "USD" && req.Description == "Community garden"
		})).Return(payments.Session{ID: "sess_1", ClientToken: "ct_1"}, nil).Once()

		out, err := f.svc.Initiate(ctx, Request{
			CampaignId: "c1",
			Amount:     money.FromMinor(5000),
			Donor:      models.AnonymousDonor(),
			Message:    "  good luck ",
		})

		require.NoError(t, err)
		assert.Equal(t, "ct_1", out.ClientToken)
		assert.Equal(t, models.SettlementInitiated, out.Donation.SettlementStatus)
		assert.Equal(t, "good luck", out.Donation.Message)

		stored, err := f.store.FindDonationByCorrelation(ctx, "id-2")
		require.NoError(t, err)
		assert.Equal(t, "id-1", stored.Id)
		assert.True(t, stored.Donor.Anonymous)
		assert.Equal(t, money.Zero, f.campaign(t).RaisedAmount)
	})

	t.Run("Campaign Not Live", func(t *testing.T) {
		f := newFixture(t)
		c := f.campaign(t)
		c.FundingStatus = models.FundingCancelled
		require.NoError(t, f.store.UpdateCampaignStatus(ctx, c, c.Version))

		_, err := f.svc.Initiate(ctx, Request{CampaignId: "c1", Amount: 100, Donor: models.AnonymousDonor()})

		assert.ErrorIs(t, err, models.ErrCampaignNotLive)
		list, err := f.store.ListDonationsByCampaign(ctx, "c1")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("Campaign Not Found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Initiate(ctx, Request{CampaignId: "nope", Amount: 100, Donor: models.AnonymousDonor()})
		assert.ErrorIs(t, err, models.ErrCampaignNotFound)
	})

	t.Run("Validation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Initiate(ctx, Request{CampaignId: "c1", Amount: 0, Donor: models.DonorIdentity{}})

		assert.ErrorIs(t, err, models.ErrInvalidAmount)
		assert.ErrorIs(t, err, models.ErrInvalidDonor)
	})

	t.Run("Declined", func(t *testing.T) {
		f := newFixture(t)
		f.provider.On("CreateSession", mock.Anything, mock.Anything).
			Return(payments.Session{}, &payments.DeclinedError{Code: "card_declined", Reason: "card declined"}).Once()

		out, err := f.svc.Initiate(ctx, Request{CampaignId: "c1", Amount: 100, Donor: models.KnownDonor("donor-1")})

		assert.ErrorIs(t, err, models.ErrPaymentFailed)
		assert.Contains(t, err.Error(), "card declined")
		require.NotNil(t, out)
		assert.Equal(t, models.SettlementFailed, out.Donation.SettlementStatus)

		stored, err := f.store.GetDonation(ctx, out.Donation.Id)
		require.NoError(t, err)
		assert.Equal(t, models.SettlementFailed, stored.SettlementStatus)
		assert.Equal(t, "card declined", stored.FailureReason)
	})

	t.Run("Provider Timeout", func(t *testing.T) {
		f := newFixture(t, WithProviderTimeout(20*time.Millisecond))
		f.provider.On("CreateSession", mock.Anything, mock.Anything).
			Return(func(ctx context.Context, _ payments.SessionRequest) (payments.Session, error) {
				<-ctx.Done()
				return payments.Session{}, ctx.Err()
			}).Once()

		out, err := f.svc.Initiate(ctx, Request{CampaignId: "c1", Amount: 100, Donor: models.KnownDonor("donor-1")})

		assert.ErrorIs(t, err, models.ErrPaymentFailed)
		assert.Equal(t, "payment provider timed out", out.Donation.FailureReason)
	})
}

func TestMarkSettled(t *testing.T) {
	ctx := context.Background()

	t.Run("Idempotent Per Reference", func(t *testing.T) {
		f := newFixture(t)
		d := f.initiate(t, money.FromMinor(5000))

		settled, applied, err := f.svc.MarkSettled(ctx, d.Id, "ch_1")
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, models.SettlementSettled, settled.SettlementStatus)
		assert.Equal(t, "ch_1", settled.ProviderReference)
		require.NotNil(t, settled.SettledAt)

		again, applied, err := f.svc.MarkSettled(ctx, d.Id, "ch_1")
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, settled.ProviderReference, again.ProviderReference)

		c := f.campaign(t)
		assert.Equal(t, money.FromMinor(5000), c.RaisedAmount)
		assert.Equal(t, int64(1), c.DonorCount)
	})

	t.Run("Different Reference Conflicts", func(t *testing.T) {
		f := newFixture(t)
		d := f.initiate(t, money.FromMinor(5000))
		_, _, err := f.svc.MarkSettled(ctx, d.Id, "ch_1")
		require.NoError(t, err)

		_, _, err = f.svc.MarkSettled(ctx, d.Id, "ch_2")

		assert.ErrorIs(t, err, models.ErrReconciliationConflict)
		assert.Equal(t, money.FromMinor(5000), f.campaign(t).RaisedAmount)
	})

	t.Run("Reference Bound To Another Donation", func(t *testing.T) {
		f := newFixture(t)
		first := f.initiate(t, money.FromMinor(5000))
		second := f.initiate(t, money.FromMinor(7000))
		_, _, err := f.svc.MarkSettled(ctx, first.Id, "ch_1")
		require.NoError(t, err)

		_, _, err = f.svc.MarkSettled(ctx, second.Id, "ch_1")

		assert.ErrorIs(t, err, models.ErrReconciliationConflict)
		stored, err := f.store.GetDonation(ctx, second.Id)
		require.NoError(t, err)
		assert.Equal(t, models.SettlementInitiated, stored.SettlementStatus)
		assert.Equal(t, money.FromMinor(5000), f.campaign(t).RaisedAmount)
	})

	t.Run("Failed Cannot Settle", func(t *testing.T) {
		f := newFixture(t)
		d := f.initiate(t, money.FromMinor(5000))
		_, _, err := f.svc.MarkFailed(ctx, d.Id, "ch_1", "card declined")
		require.NoError(t, err)

		_, _, err = f.svc.MarkSettled(ctx, d.Id, "ch_1")
		assert.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})

	t.Run("Unknown Donation", func(t *testing.T) {
		f := newFixture(t)
		_, _, err := f.svc.MarkSettled(ctx, "missing", "ch_1")
		assert.ErrorIs(t, err, models.ErrDonationNotFound)
	})
}

func TestMarkFailed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	d := f.initiate(t, money.FromMinor(5000))

	failed, applied, err := f.svc.MarkFailed(ctx, d.Id, "ch_1", " insufficient funds ")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "insufficient funds", failed.FailureReason)

	_, applied, err = f.svc.MarkFailed(ctx, d.Id, "ch_1", "insufficient funds")
	require.NoError(t, err)
	assert.False(t, applied)

	other := f.initiate(t, money.FromMinor(100))
	_, _, err = f.svc.MarkSettled(ctx, other.Id, "ch_2")
	require.NoError(t, err)
	_, _, err = f.svc.MarkFailed(ctx, other.Id, "ch_2", "late failure")
	assert.ErrorIs(t, err, models.ErrInvalidStateTransition)
}

func TestRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		d := f.initiate(t, money.FromMinor(5000))
		_, _, err := f.svc.MarkSettled(ctx, d.Id, "ch_1")
		require.NoError(t, err)
		f.provider.On("Refund", mock.Anything, payments.RefundRequest{
			ProviderReference: "ch_1",
			Amount:            money.FromMinor(5000),
			Reason:            "duplicate",
		}).Return(nil).Once()

		refunded, err := f.svc.Refund(ctx, d.Id, "duplicate")

		require.NoError(t, err)
		assert.Equal(t, models.SettlementRefunded, refunded.SettlementStatus)
		c := f.campaign(t)
		assert.Equal(t, money.Zero, c.RaisedAmount)
		assert.Equal(t, int64(1), c.DonorCount)

		_, err = f.svc.Refund(ctx, d.Id, "again")
		assert.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})

	t.Run("Not Settled", func(t *testing.T) {
		f := newFixture(t)
		d := f.initiate(t, money.FromMinor(5000))

		_, err := f.svc.Refund(ctx, d.Id, "")
		assert.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})

	t.Run("Provider Rejects", func(t *testing.T) {
		f := newFixture(t)
		d := f.initiate(t, money.FromMinor(5000))
		_, _, err := f.svc.MarkSettled(ctx, d.Id, "ch_1")
		require.NoError(t, err)
		f.provider.On("Refund", mock.Anything, mock.Anything).Return(errors.New("charge already disputed")).Once()

		_, err = f.svc.Refund(ctx, d.Id, "")

		assert.ErrorIs(t, err, models.ErrRefundFailed)
		assert.Equal(t, money.FromMinor(5000), f.campaign(t).RaisedAmount)
	})
}

// An initiated donation that is never confirmed expires to failed and never
// touches the campaign totals.
func TestExpireStale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	abandoned := f.initiate(t, money.FromMinor(5000))

	f.clock = f.clock.Add(10 * time.Minute)
	fresh := f.initiate(t, money.FromMinor(2500))

	f.clock = f.clock.Add(25 * time.Minute)
	n, err := f.svc.ExpireStale(ctx, 30*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, 1, n)

	d, err := f.store.GetDonation(ctx, abandoned.Id)
	require.NoError(t, err)
	assert.Equal(t, models.SettlementFailed, d.SettlementStatus)
	assert.Equal(t, ExpiredReason, d.FailureReason)

	d, err = f.store.GetDonation(ctx, fresh.Id)
	require.NoError(t, err)
	assert.Equal(t, models.SettlementInitiated, d.SettlementStatus)

	assert.Equal(t, money.Zero, f.campaign(t).RaisedAmount)
}

func TestListPublic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.provider.On("CreateSession", mock.Anything, mock.Anything).Return(payments.Session{ClientToken: "ct"}, nil)
	anon, err := f.svc.Initiate(ctx, Request{CampaignId: "c1", Amount: 1000, Donor: models.AnonymousDonor(), Message: "hi"})
	require.NoError(t, err)
	known, err := f.svc.Initiate(ctx, Request{CampaignId: "c1", Amount: 2000, Donor: models.KnownDonor("donor-7")})
	require.NoError(t, err)
	_, err = f.svc.Initiate(ctx, Request{CampaignId: "c1", Amount: 3000, Donor: models.KnownDonor("donor-8")})
	require.NoError(t, err)

	_, _, err = f.svc.MarkSettled(ctx, anon.Donation.Id, "ch_a")
	require.NoError(t, err)
	_, _, err = f.svc.MarkSettled(ctx, known.Donation.Id, "ch_k")
	require.NoError(t, err)

	public, err := f.svc.ListPublic(ctx, "c1")

	require.NoError(t, err)
	require.Len(t, public, 2)
	names := []string{public[0].DonorName, public[1].DonorName}
	assert.ElementsMatch(t, []string{"anonymous", "donor-7"}, names)
}
