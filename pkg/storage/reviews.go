package storage

import (
	"context"

	"github.com/chris/donation-ledger/pkg/models"
)

// ReviewStore defines the interface for the manual review queue.
type ReviewStore interface {
	// RecordReview stores item unless an item with the same ID exists.
	// It returns false, without error, for a duplicate.
	RecordReview(ctx context.Context, item *models.ReviewItem) (bool, error)

	// ListReviews retrieves the most recent review items.
	ListReviews(ctx context.Context, limit int32) ([]models.ReviewItem, error)
}
