package mapping

import (
	"testing"
	"time"

	"github.com/chris/donation-ledger/pkg/api"
	"github.com/chris/donation-ledger/pkg/donations"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/money"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToApiCampaign(t *testing.T) {
	id := uuid.New()
	c := &models.Campaign{
		Id:               id.String(),
		CreatorId:        "user-1",
		Title:            "Community garden",
		OrganizerContact: "org@example.com",
		GoalAmount:       money.FromMinor(100000),
		RaisedAmount:     money.FromMinor(33333),
		DonorCount:       4,
		ModerationStatus: models.ModerationApproved,
		FundingStatus:    models.FundingLive,
	}

	out := ToApiCampaign(c)

	assert.Equal(t, id, out.Id)
	assert.Equal(t, "1000.00", out.GoalAmount)
	assert.Equal(t, "333.33", out.RaisedAmount)
	assert.Equal(t, "33.33", out.PercentFunded)
	assert.Equal(t, api.CampaignFundingStatusLive, out.FundingStatus)
	require.NotNil(t, out.OrganizerContact)
	assert.Equal(t, openapi_types.Email("org@example.com"), *out.OrganizerContact)
	assert.Nil(t, out.Description)
	assert.Nil(t, out.ResubmittedFrom)
}

func TestToDomainSubmission(t *testing.T) {
	end := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Parses Goal", func(t *testing.T) {
		sub, err := ToDomainSubmission("user-1", &api.NewCampaign{Title: "x", GoalAmount: "250.50", EndDate: end})
		require.NoError(t, err)
		assert.Equal(t, money.FromMinor(25050), sub.GoalAmount)
		assert.Equal(t, "user-1", sub.CreatorId)
		assert.Equal(t, end, sub.EndDate)
	})

	t.Run("Bad Goal Is A Field Error", func(t *testing.T) {
		_, err := ToDomainSubmission("user-1", &api.NewCampaign{Title: "x", GoalAmount: "ten", EndDate: end})
		assert.ErrorIs(t, err, models.ErrInvalidGoal)
		assert.Contains(t, err.Error(), "goalAmount")
	})
}

func TestToDomainDonationRequest(t *testing.T) {
	campaignID := uuid.New()
	yes := true

	req, err := ToDomainDonationRequest("user-1", &api.NewDonation{CampaignId: campaignID, Amount: "25"})
	require.NoError(t, err)
	assert.Equal(t, models.KnownDonor("user-1"), req.Donor)
	assert.Equal(t, campaignID.String(), req.CampaignId)
	assert.Equal(t, money.FromMinor(2500), req.Amount)

	req, err = ToDomainDonationRequest("user-1", &api.NewDonation{CampaignId: campaignID, Amount: "25", Anonymous: &yes})
	require.NoError(t, err)
	assert.Equal(t, models.AnonymousDonor(), req.Donor)

	req, err = ToDomainDonationRequest("", &api.NewDonation{CampaignId: campaignID, Amount: "25"})
	require.NoError(t, err)
	assert.True(t, req.Donor.Anonymous)

	_, err = ToDomainDonationRequest("user-1", &api.NewDonation{CampaignId: campaignID, Amount: "1.005"})
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestToDomainModerationDecision(t *testing.T) {
	reason := "off-topic"
	d, err := ToDomainModerationDecision(&api.ModerationDecision{Decision: api.Reject, Reason: &reason})
	require.NoError(t, err)
	assert.False(t, d.Approve)
	assert.Equal(t, "off-topic", d.Reason)

	_, err = ToDomainModerationDecision(&api.ModerationDecision{Decision: "maybe"})
	assert.Error(t, err)
}

func TestToApiPublicDonations(t *testing.T) {
	id := uuid.New()
	out := ToApiPublicDonations([]donations.PublicDonation{{Id: id.String(), Amount: money.FromMinor(500), DonorName: "anonymous"}})

	require.Len(t, out, 1)
	assert.Equal(t, id, out[0].Id)
	assert.Equal(t, "5.00", out[0].Amount)
	assert.Nil(t, out[0].Message)
}

func TestToDomainReconciliationEvent(t *testing.T) {
	ev, err := ToDomainReconciliationEvent(&api.PaymentEvent{ProviderReference: " ch_1 ", Outcome: api.Success, Amount: "10.00", CorrelationToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "ch_1", ev.ProviderReference)
	assert.Equal(t, money.FromMinor(1000), ev.Amount)

	_, err = ToDomainReconciliationEvent(&api.PaymentEvent{ProviderReference: "ch_1", Outcome: api.Success, Amount: "lots"})
	assert.ErrorIs(t, err, models.ErrMalformedEvent)
}
