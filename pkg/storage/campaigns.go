package storage

import (
	"context"
	"time"

	"github.com/chris/donation-ledger/pkg/models"
)

// CampaignReader defines the interface for reading campaign data.
type CampaignReader interface {
	// GetCampaign retrieves a campaign by its ID.
	GetCampaign(ctx context.Context, campaignID string) (*models.Campaign, error)

	// ListCampaignsByModeration retrieves campaigns in the given moderation state, oldest first.
	ListCampaignsByModeration(ctx context.Context, status models.ModerationStatus) ([]models.Campaign, error)

	// ListCampaignsByFunding retrieves campaigns in the given funding state.
	ListCampaignsByFunding(ctx context.Context, status models.FundingStatus) ([]models.Campaign, error)

	// ListExpiredCampaigns retrieves live campaigns whose end date is before cutoff.
	ListExpiredCampaigns(ctx context.Context, cutoff time.Time) ([]models.Campaign, error)
}

// CampaignWriter defines the interface for creating campaigns and moving their status.
// It never touches the ledger-derived totals.
type CampaignWriter interface {
	// CreateCampaign stores a new campaign.
	CreateCampaign(ctx context.Context, campaign *models.Campaign) error

	// UpdateCampaignStatus persists the moderation and funding fields of campaign
	// if the stored version still equals expectedVersion, and bumps the version.
	UpdateCampaignStatus(ctx context.Context, campaign *models.Campaign, expectedVersion int64) error
}

// CampaignStore combines the reader and writer interfaces.
type CampaignStore interface {
	CampaignReader
	CampaignWriter
}
