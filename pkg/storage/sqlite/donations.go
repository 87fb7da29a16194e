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

const donationColumns = `id, campaign_id, amount, donor_id, anonymous, message, status,
	correlation_token, provider_reference, failure_reason, created_at, updated_at, settled_at`

func scanDonation(row rowScanner) (*models.Donation, error) {
	var (
		d                    models.Donation
		amount               int64
		anonymous            int
		status               string
		createdAt, updatedAt int64
		settledAt            sql.NullInt64
	)
	if err := row.Scan(
		&d.Id, &d.CampaignId, &amount, &d.Donor.DonorId, &anonymous, &d.Message, &status,
		&d.CorrelationToken, &d.ProviderReference, &d.FailureReason, &createdAt, &updatedAt, &settledAt,
	); err != nil {
		return nil, err
	}
	d.Amount = money.FromMinor(amount)
	d.Donor.Anonymous = anonymous != 0
	d.SettlementStatus = models.SettlementStatus(status)
	d.CreatedAt = fromMillis(createdAt)
	d.UpdatedAt = fromMillis(updatedAt)
	if settledAt.Valid {
		at := fromMillis(settledAt.Int64)
		d.SettledAt = &at
	}
	return &d, nil
}

func (s *Store) queryDonations(ctx context.Context, query string, args ...any) ([]models.Donation, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []models.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		donations = append(donations, *d)
	}
	return donations, rows.Err()
}

func (s *Store) getDonationWhere(ctx context.Context, column, value string) (*models.Donation, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+donationColumns+` FROM donations WHERE `+column+` = ?`, value)
	d, err := scanDonation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("donation with %s %s: %w", column, value, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get donation: %w", err)
	}
	return d, nil
}

// CreateDonation inserts one donation record.
func (s *Store) CreateDonation(ctx context.Context, d *models.Donation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var settledAt sql.NullInt64
	if d.SettledAt != nil {
		settledAt = sql.NullInt64{Int64: toMillis(*d.SettledAt), Valid: true}
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO donations (`+donationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Id, d.CampaignId, d.Amount.Minor(), d.Donor.DonorId, boolToInt(d.Donor.Anonymous), d.Message,
		string(d.SettlementStatus), d.CorrelationToken, d.ProviderReference, d.FailureReason,
		toMillis(d.CreatedAt), toMillis(d.UpdatedAt), settledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("donation %s: %w", d.Id, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("create donation: %w", err)
	}
	return nil
}

// GetDonation returns one donation by ID.
func (s *Store) GetDonation(ctx context.Context, donationID string) (*models.Donation, error) {
	return s.getDonationWhere(ctx, "id", donationID)
}

// FindDonationByCorrelation returns the donation created with token.
func (s *Store) FindDonationByCorrelation(ctx context.Context, token string) (*models.Donation, error) {
	return s.getDonationWhere(ctx, "correlation_token", token)
}

// ListDonationsByCampaign returns all donations of a campaign, oldest first.
func (s *Store) ListDonationsByCampaign(ctx context.Context, campaignID string) ([]models.Donation, error) {
	donations, err := s.queryDonations(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE campaign_id = ? ORDER BY created_at, id`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("list donations by campaign: %w", err)
	}
	return donations, nil
}

// ListStaleDonations returns initiated donations created before cutoff.
func (s *Store) ListStaleDonations(ctx context.Context, cutoff time.Time) ([]models.Donation, error) {
	donations, err := s.queryDonations(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE status = ? AND created_at < ? ORDER BY created_at, id`,
		string(models.SettlementInitiated), toMillis(cutoff),
	)
	if err != nil {
		return nil, fmt.Errorf("list stale donations: %w", err)
	}
	return donations, nil
}

// FailDonation moves an initiated donation to failed.
func (s *Store) FailDonation(ctx context.Context, donationID, providerReference, reason string, at time.Time) (bool, error) {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE donations
		 SET status = ?, provider_reference = ?, failure_reason = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		string(models.SettlementFailed), providerReference, reason, toMillis(at),
		donationID, string(models.SettlementInitiated),
	)
	if err != nil {
		return false, fmt.Errorf("fail donation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("fail donation: %w", err)
	}
	return n == 1, nil
}
