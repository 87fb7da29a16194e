package models

import (
	"errors"
	"testing"

	"github.com/chris/donation-ledger/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCampaignTransitions = []CampaignTransition{TransitionApprove, TransitionReject, TransitionCancel, TransitionComplete}

func TestNextCampaignState(t *testing.T) {
	draft := CampaignState{ModerationPending, FundingDraft}

	t.Run("Approve Goes Live", func(t *testing.T) {
		next, err := NextCampaignState(draft, TransitionApprove)
		require.NoError(t, err)
		assert.Equal(t, CampaignState{ModerationApproved, FundingLive}, next)
	})

	t.Run("Reject Is Terminal", func(t *testing.T) {
		next, err := NextCampaignState(draft, TransitionReject)
		require.NoError(t, err)
		assert.Equal(t, ModerationRejected, next.Moderation)
		assert.True(t, next.IsTerminal())
	})

	t.Run("Cannot Cancel Draft", func(t *testing.T) {
		_, err := NextCampaignState(draft, TransitionCancel)
		assert.ErrorIs(t, err, ErrInvalidStateTransition)
	})

	t.Run("Cannot Approve Twice", func(t *testing.T) {
		live, err := NextCampaignState(draft, TransitionApprove)
		require.NoError(t, err)
		_, err = NextCampaignState(live, TransitionApprove)
		assert.ErrorIs(t, err, ErrInvalidStateTransition)
	})
}

// Every state reachable from a fresh draft must never leave a terminal state,
// and funding must never be live without approval.
func TestCampaignStateMachineClosure(t *testing.T) {
	start := CampaignState{ModerationPending, FundingDraft}
	seen := map[CampaignState]bool{start: true}
	frontier := []CampaignState{start}

	for len(frontier) > 0 {
		s := frontier[0]
		frontier = frontier[1:]
		for _, tr := range allCampaignTransitions {
			next, err := NextCampaignState(s, tr)
			if s.IsTerminal() {
				assert.ErrorIs(t, err, ErrInvalidStateTransition, "terminal state %v accepted %s", s, tr)
				continue
			}
			if err != nil {
				assert.Equal(t, s, next)
				continue
			}
			if next.Funding == FundingLive {
				assert.Equal(t, ModerationApproved, next.Moderation)
			}
			if !seen[next] {
				seen[next] = true
				frontier = append(frontier, next)
			}
		}
	}

	assert.Len(t, seen, 5)
}

func TestCheckSettlementTransition(t *testing.T) {
	all := []SettlementStatus{SettlementInitiated, SettlementSettled, SettlementFailed, SettlementRefunded}
	legal := map[[2]SettlementStatus]bool{
		{SettlementInitiated, SettlementSettled}: true,
		{SettlementInitiated, SettlementFailed}:  true,
		{SettlementSettled, SettlementRefunded}:  true,
	}

	for _, from := range all {
		for _, to := range all {
			err := CheckSettlementTransition(from, to)
			if legal[[2]SettlementStatus{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.ErrorIs(t, err, ErrInvalidStateTransition, "%s -> %s", from, to)
			}
		}
	}

	assert.True(t, SettlementFailed.IsTerminal())
	assert.True(t, SettlementRefunded.IsTerminal())
	assert.False(t, SettlementSettled.IsTerminal())
}

func TestDonorIdentity(t *testing.T) {
	assert.NoError(t, AnonymousDonor().Validate())
	assert.NoError(t, KnownDonor("user-1").Validate())
	assert.ErrorIs(t, DonorIdentity{}.Validate(), ErrInvalidDonor)
	assert.ErrorIs(t, DonorIdentity{DonorId: "user-1", Anonymous: true}.Validate(), ErrInvalidDonor)
	assert.Equal(t, "anonymous", AnonymousDonor().PublicName())
	assert.Equal(t, "user-1", KnownDonor(" user-1 ").PublicName())
}

func TestComputeTotals(t *testing.T) {
	donations := []Donation{
		{Amount: money.FromMinor(60000), SettlementStatus: SettlementSettled},
		{Amount: money.FromMinor(50000), SettlementStatus: SettlementSettled},
		{Amount: money.FromMinor(2500), SettlementStatus: SettlementRefunded},
		{Amount: money.FromMinor(5000), SettlementStatus: SettlementFailed},
		{Amount: money.FromMinor(7000), SettlementStatus: SettlementInitiated},
	}

	totals := ComputeTotals(donations)

	assert.Equal(t, money.FromMinor(110000), totals.RaisedAmount)
	assert.Equal(t, int64(3), totals.DonorCount)
}

func TestReconciliationEventValidate(t *testing.T) {
	valid := ReconciliationEvent{ProviderReference: "ch_1", Outcome: OutcomeSuccess, Amount: 100, CorrelationToken: "tok"}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Outcome = "maybe"
	bad.ProviderReference = ""
	err := bad.Validate()
	assert.ErrorIs(t, err, ErrMalformedEvent)
	assert.Contains(t, err.Error(), "providerReference is required")
	assert.Contains(t, err.Error(), `outcome "maybe"`)
}

func TestFieldErrors(t *testing.T) {
	var fe FieldErrors
	assert.NoError(t, fe.OrNil())

	fe = append(fe, NewFieldError("goalAmount", ErrInvalidGoal), NewFieldError("endDate", ErrInvalidEndDate))
	err := fe.OrNil()

	assert.ErrorIs(t, err, ErrInvalidGoal)
	assert.ErrorIs(t, err, ErrInvalidEndDate)
	assert.Contains(t, err.Error(), "goalAmount")

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "goalAmount", fieldErr.Field)
}

func TestExpiryPolicy(t *testing.T) {
	tr, err := ExpiryComplete.Transition()
	require.NoError(t, err)
	assert.Equal(t, TransitionComplete, tr)

	tr, err = ExpiryCancel.Transition()
	require.NoError(t, err)
	assert.Equal(t, TransitionCancel, tr)

	_, err = ExpiryPolicy("archive").Transition()
	assert.Error(t, err)
}
