package mapping

import (
	"fmt"
	"strings"

	"github.com/chris/donation-ledger/pkg/api"
	"github.com/chris/donation-ledger/pkg/campaigns"
	"github.com/chris/donation-ledger/pkg/donations"
	"github.com/chris/donation-ledger/pkg/ledger"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/money"
	"github.com/chris/donation-ledger/pkg/receipts"
	"github.com/chris/donation-ledger/pkg/reconciliation"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ToApiCampaign converts a domain Campaign model to an API Campaign model.
func ToApiCampaign(c *models.Campaign) api.Campaign {
	out := api.Campaign{
		Id:               toUUID(c.Id),
		CreatorId:        c.CreatorId,
		Title:            c.Title,
		Description:      optional(c.Description),
		Category:         optional(c.Category),
		OrganizerContact: optionalEmail(c.OrganizerContact),
		GoalAmount:       c.GoalAmount.String(),
		RaisedAmount:     c.RaisedAmount.String(),
		PercentFunded:    c.RaisedAmount.PercentOf(c.GoalAmount).StringFixed(2),
		DonorCount:       c.DonorCount,
		ModerationStatus: api.CampaignModerationStatus(c.ModerationStatus),
		FundingStatus:    api.CampaignFundingStatus(c.FundingStatus),
		ModerationReason: optional(c.ModerationReason),
		EndDate:          c.EndDate,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if c.ResubmittedFrom != "" {
		from := toUUID(c.ResubmittedFrom)
		out.ResubmittedFrom = &from
	}
	return out
}

// ToApiCampaigns converts a slice of domain campaigns.
func ToApiCampaigns(cs []models.Campaign) []api.Campaign {
	out := make([]api.Campaign, len(cs))
	for i := range cs {
		out[i] = ToApiCampaign(&cs[i])
	}
	return out
}

// ToDomainSubmission converts an API NewCampaign submitted by creatorID.
// A goal that cannot be read as money is reported as a goalAmount field error.
func ToDomainSubmission(creatorID string, nc *api.NewCampaign) (campaigns.Submission, error) {
	goal, err := parseGoal(nc.GoalAmount)
	if err != nil {
		return campaigns.Submission{}, err
	}
	return campaigns.Submission{
		CreatorId:        creatorID,
		Title:            nc.Title,
		Description:      deref(nc.Description),
		Category:         deref(nc.Category),
		OrganizerContact: derefEmail(nc.OrganizerContact),
		GoalAmount:       goal,
		EndDate:          nc.EndDate,
	}, nil
}

// ToDomainChanges converts the fields of a resubmission. Omitted fields stay zero.
func ToDomainChanges(ch *api.CampaignChanges) (campaigns.Submission, error) {
	sub := campaigns.Submission{
		Title:            deref(ch.Title),
		Description:      deref(ch.Description),
		Category:         deref(ch.Category),
		OrganizerContact: derefEmail(ch.OrganizerContact),
	}
	if ch.GoalAmount != nil {
		goal, err := parseGoal(*ch.GoalAmount)
		if err != nil {
			return campaigns.Submission{}, err
		}
		sub.GoalAmount = goal
	}
	if ch.EndDate != nil {
		sub.EndDate = *ch.EndDate
	}
	return sub, nil
}

// ToDomainModerationDecision converts an API moderation decision.
func ToDomainModerationDecision(d *api.ModerationDecision) (models.ModerationDecision, error) {
	switch d.Decision {
	case api.Approve:
		return models.ModerationDecision{Approve: true, Reason: deref(d.Reason)}, nil
	case api.Reject:
		return models.ModerationDecision{Reason: deref(d.Reason)}, nil
	default:
		return models.ModerationDecision{}, models.FieldErrors{
			{Field: "decision", Message: fmt.Sprintf("decision %q must be approve or reject", d.Decision), Err: models.ErrInvalidSubmission},
		}
	}
}

// ToDomainDonationRequest converts an API NewDonation made by callerID.
// Callers without an identity can only give anonymously.
func ToDomainDonationRequest(callerID string, nd *api.NewDonation) (donations.Request, error) {
	amount, err := money.Parse(nd.Amount)
	if err != nil {
		return donations.Request{}, models.FieldErrors{
			{Field: "amount", Message: "amount must be a decimal with at most two places", Err: models.ErrInvalidAmount},
		}
	}
	donor := models.KnownDonor(callerID)
	if (nd.Anonymous != nil && *nd.Anonymous) || strings.TrimSpace(callerID) == "" {
		donor = models.AnonymousDonor()
	}
	return donations.Request{
		CampaignId: nd.CampaignId.String(),
		Amount:     amount,
		Donor:      donor,
		Message:    deref(nd.Message),
	}, nil
}

// ToApiDonation converts a domain Donation model to an API Donation model.
func ToApiDonation(d *models.Donation) api.Donation {
	return api.Donation{
		Id:                toUUID(d.Id),
		CampaignId:        toUUID(d.CampaignId),
		Amount:            d.Amount.String(),
		Anonymous:         d.Donor.Anonymous,
		DonorId:           optional(d.Donor.DonorId),
		Message:           optional(d.Message),
		SettlementStatus:  api.DonationSettlementStatus(d.SettlementStatus),
		FailureReason:     optional(d.FailureReason),
		ProviderReference: optional(d.ProviderReference),
		CreatedAt:         d.CreatedAt,
		SettledAt:         d.SettledAt,
	}
}

// ToApiDonationSession converts a freshly initiated donation.
func ToApiDonationSession(in *donations.Initiated) api.DonationSession {
	return api.DonationSession{
		Donation:    ToApiDonation(in.Donation),
		ClientToken: in.ClientToken,
	}
}

// ToApiPublicDonations converts the public view of a campaign's donations.
func ToApiPublicDonations(ds []donations.PublicDonation) []api.PublicDonation {
	out := make([]api.PublicDonation, len(ds))
	for i, d := range ds {
		out[i] = api.PublicDonation{
			Id:        toUUID(d.Id),
			Amount:    d.Amount.String(),
			DonorName: d.DonorName,
			Message:   optional(d.Message),
			SettledAt: d.SettledAt,
		}
	}
	return out
}

// ToApiReceipt converts a receipt snapshot.
func ToApiReceipt(s receipts.Snapshot) api.Receipt {
	return api.Receipt{
		ReceiptNumber:     s.ReceiptNumber,
		DonationId:        toUUID(s.DonationID),
		CampaignId:        toUUID(s.CampaignID),
		CampaignTitle:     s.CampaignTitle,
		OrganizerContact:  optionalEmail(s.OrganizerContact),
		Amount:            s.Amount.String(),
		Currency:          s.Currency,
		DonorName:         s.DonorName,
		Anonymous:         s.Anonymous,
		Message:           optional(s.Message),
		ProviderReference: s.ProviderReference,
		Status:            api.DonationSettlementStatus(s.Status),
		SettledAt:         s.SettledAt,
		IssuedAt:          s.IssuedAt,
	}
}

// ToApiReviewItems converts manual review items.
func ToApiReviewItems(items []models.ReviewItem) []api.ReviewItem {
	out := make([]api.ReviewItem, len(items))
	for i, item := range items {
		out[i] = api.ReviewItem{
			Id:                item.Id,
			Kind:              api.ReviewItemKind(item.Kind),
			ProviderReference: item.ProviderReference,
			CorrelationToken:  optional(item.CorrelationToken),
			DonationId:        optional(item.DonationId),
			Outcome:           api.PaymentEventOutcome(item.Outcome),
			Amount:            item.Amount.String(),
			Detail:            item.Detail,
			CreatedAt:         item.CreatedAt,
		}
	}
	return out
}

// ToApiTotalsAudit converts the outcome of a totals reconciliation.
func ToApiTotalsAudit(a ledger.Audit) api.TotalsAudit {
	return api.TotalsAudit{
		CampaignId: toUUID(a.CampaignID),
		Before:     toApiTotals(a.Before),
		After:      toApiTotals(a.After),
		Corrected:  a.Corrected,
	}
}

// ToDomainReconciliationEvent converts a provider webhook payload.
func ToDomainReconciliationEvent(ev *api.PaymentEvent) (models.ReconciliationEvent, error) {
	amount, err := money.Parse(ev.Amount)
	if err != nil {
		return models.ReconciliationEvent{}, fmt.Errorf("%w: amount %q: %v", models.ErrMalformedEvent, ev.Amount, err)
	}
	return models.ReconciliationEvent{
		ProviderReference: strings.TrimSpace(ev.ProviderReference),
		Outcome:           models.Outcome(ev.Outcome),
		Amount:            amount,
		CorrelationToken:  strings.TrimSpace(ev.CorrelationToken),
		FailureReason:     deref(ev.FailureReason),
	}, nil
}

// ToApiPaymentEventAck converts the result of processing a provider event.
func ToApiPaymentEventAck(res reconciliation.Result) api.PaymentEventAck {
	ack := api.PaymentEventAck{
		Resolution: string(res.Resolution),
		ReviewId:   optional(res.ReviewID),
	}
	if res.DonationID != "" {
		id := toUUID(res.DonationID)
		ack.DonationId = &id
	}
	return ack
}

func toApiTotals(t models.Totals) api.Totals {
	return api.Totals{RaisedAmount: t.RaisedAmount.String(), DonorCount: t.DonorCount}
}

func parseGoal(s string) (money.Money, error) {
	goal, err := money.Parse(s)
	if err != nil {
		return 0, models.FieldErrors{
			{Field: "goalAmount", Message: "goal amount must be a decimal with at most two places", Err: models.ErrInvalidGoal},
		}
	}
	return goal, nil
}

// toUUID parses an identifier minted by this service. Foreign ids map to the nil UUID.
func toUUID(id string) openapi_types.UUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalEmail(s string) *openapi_types.Email {
	if s == "" {
		return nil
	}
	e := openapi_types.Email(s)
	return &e
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefEmail(e *openapi_types.Email) string {
	if e == nil {
		return ""
	}
	return string(*e)
}
