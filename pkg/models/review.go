package models

import (
	"time"

	"github.com/chris/donation-ledger/pkg/money"
)

// ReviewKind classifies why a provider event needs a human.
type ReviewKind string

const (
	ReviewOrphanedEvent ReviewKind = "orphaned_event"
	ReviewConflict      ReviewKind = "reconciliation_conflict"
)

// ReviewItem is a provider event the platform acknowledged but could not apply.
// Its Id is derived from kind and provider reference so redeliveries collapse
// into one item.
type ReviewItem struct {
	Id                string      `dynamodbav:"id" json:"id"`
	Kind              ReviewKind  `dynamodbav:"kind" json:"kind"`
	ProviderReference string      `dynamodbav:"provider_reference" json:"providerReference"`
	CorrelationToken  string      `dynamodbav:"correlation_token,omitempty" json:"correlationToken,omitempty"`
	DonationId        string      `dynamodbav:"donation_id,omitempty" json:"donationId,omitempty"`
	Outcome           Outcome     `dynamodbav:"outcome" json:"outcome"`
	Amount            money.Money `dynamodbav:"amount" json:"amount"`
	Detail            string      `dynamodbav:"detail" json:"detail"`
	CreatedAt         time.Time   `dynamodbav:"created_at" json:"createdAt"`
	GSI1PK            string      `dynamodbav:"gsi1pk" json:"-"`
}

// ReviewItemID returns the stable identifier for a review of ref under kind.
func ReviewItemID(kind ReviewKind, ref string) string {
	return string(kind) + "#" + ref
}

// NewReviewItem builds a review item for an event.
func NewReviewItem(kind ReviewKind, ev ReconciliationEvent, donationID, detail string, at time.Time) *ReviewItem {
	return &ReviewItem{
		Id:                ReviewItemID(kind, ev.ProviderReference),
		Kind:              kind,
		ProviderReference: ev.ProviderReference,
		CorrelationToken:  ev.CorrelationToken,
		DonationId:        donationID,
		Outcome:           ev.Outcome,
		Amount:            ev.Amount,
		Detail:            detail,
		CreatedAt:         at.UTC(),
		GSI1PK:            "REVIEW_ITEMS",
	}
}
