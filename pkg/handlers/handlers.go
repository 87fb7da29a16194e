package handlers

import (
	"github.com/chris/donation-ledger/pkg/api"
	"github.com/chris/donation-ledger/pkg/handlers/campaigns"
	"github.com/chris/donation-ledger/pkg/handlers/donations"
	"github.com/chris/donation-ledger/pkg/handlers/reviews"
	"github.com/chris/donation-ledger/pkg/handlers/webhooks"
)

// ApiHandler implements the generated server interface by composing the
// per-resource handlers.
type ApiHandler struct {
	*campaigns.CampaignsHandler
	*donations.DonationsHandler
	*reviews.ReviewsHandler
	*webhooks.WebhooksHandler
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(c *campaigns.CampaignsHandler, d *donations.DonationsHandler, r *reviews.ReviewsHandler, w *webhooks.WebhooksHandler) *ApiHandler {
	return &ApiHandler{
		CampaignsHandler: c,
		DonationsHandler: d,
		ReviewsHandler:   r,
		WebhooksHandler:  w,
	}
}
