package storage

import (
	"context"
	"time"

	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/money"
)

// Settlement is a confirmed payment to be applied to a donation and its campaign.
type Settlement struct {
	DonationID        string
	CampaignID        string
	ProviderReference string
	Amount            money.Money
	SettledAt         time.Time
}

// Refund is a compensating reversal of a settled donation.
type Refund struct {
	DonationID string
	CampaignID string
	Amount     money.Money
	RefundedAt time.Time
}

// LedgerStore defines the privileged interface that moves money on a campaign.
// Each operation is a single atomic write spanning the donation and its campaign,
// so the campaign totals can never disagree with the donation states.
// It should only be exposed to the ledger aggregator.
type LedgerStore interface {
	// SettleDonation flips the donation from initiated to settled, binds the
	// provider reference to it and adds the amount to the campaign.
	// It returns false, without error, when the donation is no longer initiated.
	// It returns ErrReferenceClaimed when the reference belongs to another donation.
	SettleDonation(ctx context.Context, s Settlement) (bool, error)

	// RefundDonation flips the donation from settled to refunded and subtracts
	// the amount from the campaign. The donor count is left unchanged.
	// It returns false, without error, when the donation is not settled.
	RefundDonation(ctx context.Context, r Refund) (bool, error)

	// ReplaceTotals overwrites the derived totals of a campaign if its stored
	// version still equals expectedVersion.
	ReplaceTotals(ctx context.Context, campaignID string, totals models.Totals, expectedVersion int64) error
}
