package storage

import (
	"context"
	"time"

	"github.com/chris/donation-ledger/pkg/models"
)

// DonationReader defines the interface for reading donation data.
type DonationReader interface {
	// GetDonation retrieves a donation by its ID.
	GetDonation(ctx context.Context, donationID string) (*models.Donation, error)

	// FindDonationByCorrelation retrieves the donation created with the given provider session token.
	FindDonationByCorrelation(ctx context.Context, token string) (*models.Donation, error)

	// ListDonationsByCampaign retrieves every donation recorded against a campaign, oldest first.
	ListDonationsByCampaign(ctx context.Context, campaignID string) ([]models.Donation, error)

	// ListStaleDonations retrieves donations still initiated that were created before cutoff.
	ListStaleDonations(ctx context.Context, cutoff time.Time) ([]models.Donation, error)
}

// DonationWriter defines the interface for recording donations and their failure.
// Settlement and refund move money and live on LedgerStore.
type DonationWriter interface {
	// CreateDonation stores a new donation in the initiated state.
	CreateDonation(ctx context.Context, donation *models.Donation) error

	// FailDonation moves a donation from initiated to failed.
	// It returns false, without error, when the donation is no longer initiated.
	FailDonation(ctx context.Context, donationID, providerReference, reason string, at time.Time) (bool, error)
}

// DonationStore combines the reader and writer interfaces.
type DonationStore interface {
	DonationReader
	DonationWriter
}
