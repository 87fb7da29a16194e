package campaigns

import (
	"context"
	"net/http"

	"github.com/chris/donation-ledger/pkg/api"
	campaignsvc "github.com/chris/donation-ledger/pkg/campaigns"
	"github.com/chris/donation-ledger/pkg/donations"
	"github.com/chris/donation-ledger/pkg/handlers/respond"
	"github.com/chris/donation-ledger/pkg/ledger"
	"github.com/chris/donation-ledger/pkg/mapping"
	"github.com/chris/donation-ledger/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CampaignService is the campaign lifecycle the handlers drive.
type CampaignService interface {
	CreateDraft(ctx context.Context, sub campaignsvc.Submission) (*models.Campaign, error)
	Get(ctx context.Context, campaignID string) (*models.Campaign, error)
	ListPending(ctx context.Context) ([]models.Campaign, error)
	ApplyModerationDecision(ctx context.Context, campaignID string, decision models.ModerationDecision) (*models.Campaign, error)
	Cancel(ctx context.Context, campaignID string) (*models.Campaign, error)
	Resubmit(ctx context.Context, campaignID string, changes campaignsvc.Submission) (*models.Campaign, error)
}

// DonationLister lists the public donations of a campaign.
type DonationLister interface {
	ListPublic(ctx context.Context, campaignID string) ([]donations.PublicDonation, error)
}

// TotalsAuditor recomputes a campaign's totals from its donations.
type TotalsAuditor interface {
	ReconcileTotals(ctx context.Context, campaignID string) (ledger.Audit, error)
}

// CampaignsHandler holds the dependencies for campaign and moderation handlers.
type CampaignsHandler struct {
	Campaigns CampaignService
	Donations DonationLister
	Auditor   TotalsAuditor
}

// NewCampaignsHandler creates a new CampaignsHandler.
func NewCampaignsHandler(campaigns CampaignService, donations DonationLister, auditor TotalsAuditor) *CampaignsHandler {
	return &CampaignsHandler{Campaigns: campaigns, Donations: donations, Auditor: auditor}
}

// CreateCampaign submits a new campaign owned by the caller.
func (h *CampaignsHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.RequireUser(w, r)
	if !ok {
		return
	}
	var body api.NewCampaign
	if !respond.Decode(w, r, &body, false) {
		return
	}

	sub, err := mapping.ToDomainSubmission(caller.UserID, &body)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	c, err := h.Campaigns.CreateDraft(r.Context(), sub)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiCampaign(c))
}

// GetCampaign returns the campaign view with its derived progress.
func (h *CampaignsHandler) GetCampaign(w http.ResponseWriter, r *http.Request, campaignId openapi_types.UUID) {
	c, err := h.Campaigns.Get(r.Context(), campaignId.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiCampaign(c))
}

// CancelCampaign cancels a live campaign. Only its creator or an admin may.
func (h *CampaignsHandler) CancelCampaign(w http.ResponseWriter, r *http.Request, campaignId openapi_types.UUID) {
	if _, ok := h.authorizeOwner(w, r, campaignId.String(), true); !ok {
		return
	}
	c, err := h.Campaigns.Cancel(r.Context(), campaignId.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiCampaign(c))
}

// ResubmitCampaign copies a rejected campaign into a new draft. Creator only.
func (h *CampaignsHandler) ResubmitCampaign(w http.ResponseWriter, r *http.Request, campaignId openapi_types.UUID) {
	if _, ok := h.authorizeOwner(w, r, campaignId.String(), false); !ok {
		return
	}
	var body api.CampaignChanges
	if !respond.Decode(w, r, &body, true) {
		return
	}

	changes, err := mapping.ToDomainChanges(&body)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	c, err := h.Campaigns.Resubmit(r.Context(), campaignId.String(), changes)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiCampaign(c))
}

// ListCampaignDonations returns the settled donations of a campaign.
func (h *CampaignsHandler) ListCampaignDonations(w http.ResponseWriter, r *http.Request, campaignId openapi_types.UUID) {
	if _, err := h.Campaigns.Get(r.Context(), campaignId.String()); err != nil {
		respond.Error(w, r, err)
		return
	}
	ds, err := h.Donations.ListPublic(r.Context(), campaignId.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiPublicDonations(ds))
}

// ReconcileCampaignTotals recomputes a campaign's totals. Admin only.
func (h *CampaignsHandler) ReconcileCampaignTotals(w http.ResponseWriter, r *http.Request, campaignId openapi_types.UUID) {
	if !respond.RequireAdmin(w, r) {
		return
	}
	audit, err := h.Auditor.ReconcileTotals(r.Context(), campaignId.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiTotalsAudit(audit))
}

// ListPendingCampaigns returns campaigns awaiting moderation. Admin only.
func (h *CampaignsHandler) ListPendingCampaigns(w http.ResponseWriter, r *http.Request) {
	if !respond.RequireAdmin(w, r) {
		return
	}
	cs, err := h.Campaigns.ListPending(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiCampaigns(cs))
}

// DecideModeration approves or rejects a pending campaign. Admin only.
func (h *CampaignsHandler) DecideModeration(w http.ResponseWriter, r *http.Request, campaignId openapi_types.UUID) {
	if !respond.RequireAdmin(w, r) {
		return
	}
	var body api.ModerationDecision
	if !respond.Decode(w, r, &body, false) {
		return
	}

	decision, err := mapping.ToDomainModerationDecision(&body)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	c, err := h.Campaigns.ApplyModerationDecision(r.Context(), campaignId.String(), decision)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiCampaign(c))
}

// authorizeOwner loads the campaign and lets through its creator, plus admins
// when allowAdmin is set.
func (h *CampaignsHandler) authorizeOwner(w http.ResponseWriter, r *http.Request, campaignID string, allowAdmin bool) (*models.Campaign, bool) {
	caller, ok := respond.RequireUser(w, r)
	if !ok {
		return nil, false
	}
	c, err := h.Campaigns.Get(r.Context(), campaignID)
	if err != nil {
		respond.Error(w, r, err)
		return nil, false
	}
	if c.CreatorId == caller.UserID || (allowAdmin && caller.IsAdmin()) {
		return c, true
	}
	respond.Message(w, http.StatusForbidden, "only the campaign creator may do this")
	return nil, false
}
