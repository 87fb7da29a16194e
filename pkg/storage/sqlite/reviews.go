package sqlite

import (
	"context"
	"fmt"

	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/money"
)

// RecordReview inserts a review item, ignoring duplicates.
func (s *Store) RecordReview(ctx context.Context, item *models.ReviewItem) (bool, error) {
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT OR IGNORE INTO review_items
		 (id, kind, provider_reference, correlation_token, donation_id, outcome, amount, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Id, string(item.Kind), item.ProviderReference, item.CorrelationToken, item.DonationId,
		string(item.Outcome), item.Amount.Minor(), item.Detail, toMillis(item.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("record review: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record review: %w", err)
	}
	return n == 1, nil
}

// ListReviews returns the most recent review items first.
func (s *Store) ListReviews(ctx context.Context, limit int32) ([]models.ReviewItem, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, kind, provider_reference, correlation_token, donation_id, outcome, amount, detail, created_at
		 FROM review_items ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var items []models.ReviewItem
	for rows.Next() {
		var (
			item          models.ReviewItem
			kind, outcome string
			amount        int64
			createdAt     int64
		)
		if err := rows.Scan(&item.Id, &kind, &item.ProviderReference, &item.CorrelationToken, &item.DonationId,
			&outcome, &amount, &item.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		item.Kind = models.ReviewKind(kind)
		item.Outcome = models.Outcome(outcome)
		item.Amount = money.FromMinor(amount)
		item.CreatedAt = fromMillis(createdAt)
		items = append(items, item)
	}
	return items, rows.Err()
}
