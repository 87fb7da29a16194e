package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/money"
	"github.com/chris/donation-ledger/pkg/storage"
)

const campaignColumns = `id, creator_id, title, description, category, organizer_contact,
	goal_amount, raised_amount, donor_count, moderation_status, funding_status,
	moderation_reason, resubmitted_from, end_date, version, created_at, updated_at`

func scanCampaign(row rowScanner) (*models.Campaign, error) {
	var (
		c                             models.Campaign
		goal, raised                  int64
		moderation, funding           string
		endDate, createdAt, updatedAt int64
	)
	if err := row.Scan(
		&c.Id, &c.CreatorId, &c.Title, &c.Description, &c.Category, &c.OrganizerContact,
		&goal, &raised, &c.DonorCount, &moderation, &funding,
		&c.ModerationReason, &c.ResubmittedFrom, &endDate, &c.Version, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	c.GoalAmount = money.FromMinor(goal)
	c.RaisedAmount = money.FromMinor(raised)
	c.ModerationStatus = models.ModerationStatus(moderation)
	c.FundingStatus = models.FundingStatus(funding)
	c.EndDate = fromMillis(endDate)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return &c, nil
}

func (s *Store) queryCampaigns(ctx context.Context, query string, args ...any) ([]models.Campaign, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

// CreateCampaign inserts one campaign record.
func (s *Store) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO campaigns (`+campaignColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Id, c.CreatorId, c.Title, c.Description, c.Category, c.OrganizerContact,
		c.GoalAmount.Minor(), c.RaisedAmount.Minor(), c.DonorCount,
		string(c.ModerationStatus), string(c.FundingStatus),
		c.ModerationReason, c.ResubmittedFrom,
		toMillis(c.EndDate), c.Version, toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("campaign %s: %w", c.Id, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

// GetCampaign returns one campaign by ID.
func (s *Store) GetCampaign(ctx context.Context, campaignID string) (*models.Campaign, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`, campaignID)
	c, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("campaign %s: %w", campaignID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

// ListCampaignsByModeration returns campaigns in status, oldest first.
func (s *Store) ListCampaignsByModeration(ctx context.Context, status models.ModerationStatus) ([]models.Campaign, error) {
	campaigns, err := s.queryCampaigns(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE moderation_status = ? ORDER BY created_at, id`,
		string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("list campaigns by moderation: %w", err)
	}
	return campaigns, nil
}

// ListCampaignsByFunding returns campaigns in status, by end date.
func (s *Store) ListCampaignsByFunding(ctx context.Context, status models.FundingStatus) ([]models.Campaign, error) {
	campaigns, err := s.queryCampaigns(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE funding_status = ? ORDER BY end_date, id`,
		string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("list campaigns by funding: %w", err)
	}
	return campaigns, nil
}

// ListExpiredCampaigns returns live campaigns whose end date is before cutoff.
func (s *Store) ListExpiredCampaigns(ctx context.Context, cutoff time.Time) ([]models.Campaign, error) {
	campaigns, err := s.queryCampaigns(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE funding_status = ? AND end_date < ? ORDER BY end_date, id`,
		string(models.FundingLive), toMillis(cutoff),
	)
	if err != nil {
		return nil, fmt.Errorf("list expired campaigns: %w", err)
	}
	return campaigns, nil
}

// UpdateCampaignStatus writes the status fields of c when the stored version matches.
func (s *Store) UpdateCampaignStatus(ctx context.Context, c *models.Campaign, expectedVersion int64) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE campaigns
		 SET moderation_status = ?, funding_status = ?, moderation_reason = ?, updated_at = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		string(c.ModerationStatus), string(c.FundingStatus), c.ModerationReason, toMillis(c.UpdatedAt),
		c.Id, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update campaign status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update campaign status: %w", err)
	}
	if n == 0 {
		return s.missingOrConflict(ctx, c.Id)
	}
	c.Version = expectedVersion + 1
	return nil
}

// missingOrConflict explains why a versioned campaign write matched no row.
func (s *Store) missingOrConflict(ctx context.Context, campaignID string) error {
	var found int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM campaigns WHERE id = ?`, campaignID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("campaign %s: %w", campaignID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check campaign: %w", err)
	}
	return fmt.Errorf("campaign %s: %w", campaignID, storage.ErrVersionConflict)
}
