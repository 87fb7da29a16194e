package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/storage"
)

// SettleDonation applies a settlement in a single transaction.
func (s *Store) SettleDonation(ctx context.Context, st storage.Settlement) (bool, error) {
	settled := false
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		// 1. Flip the donation, only if it is still waiting on the provider.
		res, err := tx.ExecContext(ctx,
			`UPDATE donations
			 SET status = ?, provider_reference = ?, settled_at = ?, updated_at = ?
			 WHERE id = ? AND campaign_id = ? AND status = ?`,
			string(models.SettlementSettled), st.ProviderReference, toMillis(st.SettledAt), toMillis(st.SettledAt),
			st.DonationID, st.CampaignID, string(models.SettlementInitiated),
		)
		if err != nil {
			return fmt.Errorf("settle donation: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("settle donation: %w", err)
		} else if n == 0 {
			return nil
		}

		// 2. Claim the provider reference.
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO provider_references (reference, donation_id, claimed_at) VALUES (?, ?, ?)`,
			st.ProviderReference, st.DonationID, toMillis(st.SettledAt),
		); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("reference %s: %w", st.ProviderReference, storage.ErrReferenceClaimed)
			}
			return fmt.Errorf("claim provider reference: %w", err)
		}

		// 3. Increment the campaign totals.
		if err := incrementCampaign(ctx, tx, st.CampaignID, st.Amount.Minor(), 1, st.SettledAt.UnixMilli()); err != nil {
			return err
		}
		settled = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return settled, nil
}

// RefundDonation reverses a settled donation in a single transaction.
func (s *Store) RefundDonation(ctx context.Context, r storage.Refund) (bool, error) {
	refunded := false
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE donations SET status = ?, updated_at = ?
			 WHERE id = ? AND campaign_id = ? AND status = ?`,
			string(models.SettlementRefunded), toMillis(r.RefundedAt),
			r.DonationID, r.CampaignID, string(models.SettlementSettled),
		)
		if err != nil {
			return fmt.Errorf("refund donation: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("refund donation: %w", err)
		} else if n == 0 {
			return nil
		}

		if err := incrementCampaign(ctx, tx, r.CampaignID, -r.Amount.Minor(), 0, r.RefundedAt.UnixMilli()); err != nil {
			return err
		}
		refunded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return refunded, nil
}

func incrementCampaign(ctx context.Context, tx *sql.Tx, campaignID string, amount, donors, atMillis int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE campaigns
		 SET raised_amount = raised_amount + ?, donor_count = donor_count + ?, version = version + 1, updated_at = ?
		 WHERE id = ?`,
		amount, donors, atMillis, campaignID,
	)
	if err != nil {
		return fmt.Errorf("update campaign totals: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update campaign totals: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("campaign %s: %w", campaignID, storage.ErrNotFound)
	}
	return nil
}

// ReplaceTotals overwrites the derived totals when the stored version matches.
func (s *Store) ReplaceTotals(ctx context.Context, campaignID string, totals models.Totals, expectedVersion int64) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE campaigns SET raised_amount = ?, donor_count = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		totals.RaisedAmount.Minor(), totals.DonorCount, campaignID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("replace totals: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace totals: %w", err)
	}
	if n == 0 {
		return s.missingOrConflict(ctx, campaignID)
	}
	return nil
}
