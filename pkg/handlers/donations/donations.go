package donations

import (
	"context"
	"net/http"

	"github.com/chris/donation-ledger/pkg/api"
	donationsvc "github.com/chris/donation-ledger/pkg/donations"
	"github.com/chris/donation-ledger/pkg/handlers/respond"
	"github.com/chris/donation-ledger/pkg/mapping"
	"github.com/chris/donation-ledger/pkg/middleware"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/receipts"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// DonationService is the donation lifecycle the handlers drive.
type DonationService interface {
	Initiate(ctx context.Context, req donationsvc.Request) (*donationsvc.Initiated, error)
	Get(ctx context.Context, donationID string) (*models.Donation, error)
	Refund(ctx context.Context, donationID, reason string) (*models.Donation, error)
}

// ReceiptService builds receipts for settled donations.
type ReceiptService interface {
	Get(ctx context.Context, donationID string) (receipts.Snapshot, error)
}

// DonationsHandler holds the dependencies for donation-related handlers.
type DonationsHandler struct {
	Donations DonationService
	Receipts  ReceiptService
}

// NewDonationsHandler creates a new DonationsHandler.
func NewDonationsHandler(donations DonationService, receipts ReceiptService) *DonationsHandler {
	return &DonationsHandler{Donations: donations, Receipts: receipts}
}

// InitiateDonation records a donation and opens its payment session.
// Unidentified callers always give anonymously.
func (h *DonationsHandler) InitiateDonation(w http.ResponseWriter, r *http.Request) {
	var body api.NewDonation
	if !respond.Decode(w, r, &body, false) {
		return
	}

	caller := middleware.IdentityFromContext(r.Context())
	req, err := mapping.ToDomainDonationRequest(caller.UserID, &body)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	initiated, err := h.Donations.Initiate(r.Context(), req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiDonationSession(initiated))
}

// GetDonation returns a donation. The donor reference is only shown to the
// donor and to admins.
func (h *DonationsHandler) GetDonation(w http.ResponseWriter, r *http.Request, donationId openapi_types.UUID) {
	d, err := h.Donations.Get(r.Context(), donationId.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	out := mapping.ToApiDonation(d)
	caller := middleware.IdentityFromContext(r.Context())
	if !caller.IsAdmin() && (caller.UserID == "" || caller.UserID != d.Donor.DonorId) {
		out.DonorId = nil
	}
	respond.JSON(w, http.StatusOK, out)
}

// RefundDonation reverses a settled donation. Admin only.
func (h *DonationsHandler) RefundDonation(w http.ResponseWriter, r *http.Request, donationId openapi_types.UUID) {
	if !respond.RequireAdmin(w, r) {
		return
	}
	var body api.RefundRequest
	if !respond.Decode(w, r, &body, true) {
		return
	}

	reason := ""
	if body.Reason != nil {
		reason = *body.Reason
	}
	d, err := h.Donations.Refund(r.Context(), donationId.String(), reason)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiDonation(d))
}

// GetDonationReceipt returns the receipt of a settled or refunded donation.
func (h *DonationsHandler) GetDonationReceipt(w http.ResponseWriter, r *http.Request, donationId openapi_types.UUID) {
	snap, err := h.Receipts.Get(r.Context(), donationId.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiReceipt(snap))
}
