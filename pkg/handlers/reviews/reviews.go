package reviews

import (
	"context"
	"net/http"

	"github.com/chris/donation-ledger/pkg/api"
	"github.com/chris/donation-ledger/pkg/handlers/respond"
	"github.com/chris/donation-ledger/pkg/mapping"
	"github.com/chris/donation-ledger/pkg/models"
)

const (
	defaultLimit int32 = 50
	maxLimit     int32 = 500
)

// ReviewLister lists the manual review queue.
type ReviewLister interface {
	ListReviews(ctx context.Context, limit int32) ([]models.ReviewItem, error)
}

// ReviewsHandler serves the manual review queue to admins.
type ReviewsHandler struct {
	Store ReviewLister
}

// NewReviewsHandler creates a new ReviewsHandler.
func NewReviewsHandler(store ReviewLister) *ReviewsHandler {
	return &ReviewsHandler{Store: store}
}

// ListReviewItems returns the most recent review items. Admin only.
func (h *ReviewsHandler) ListReviewItems(w http.ResponseWriter, r *http.Request, params api.ListReviewItemsParams) {
	if !respond.RequireAdmin(w, r) {
		return
	}

	limit := defaultLimit
	if params.Limit != nil {
		limit = *params.Limit
	}
	if limit < 1 || limit > maxLimit {
		respond.Message(w, http.StatusBadRequest, "limit must be between 1 and 500")
		return
	}

	items, err := h.Store.ListReviews(r.Context(), limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiReviewItems(items))
}
