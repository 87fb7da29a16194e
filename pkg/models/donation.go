package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/chris/donation-ledger/pkg/money"
)

// SettlementStatus is the payment state of a donation.
type SettlementStatus string

const (
	SettlementInitiated SettlementStatus = "initiated"
	SettlementSettled   SettlementStatus = "settled"
	SettlementFailed    SettlementStatus = "failed"
	SettlementRefunded  SettlementStatus = "refunded"
)

var settlementTransitions = map[SettlementStatus][]SettlementStatus{
	SettlementInitiated: {SettlementSettled, SettlementFailed},
	SettlementSettled:   {SettlementRefunded},
}

// CheckSettlementTransition returns ErrInvalidStateTransition unless from -> to is allowed.
func CheckSettlementTransition(from, to SettlementStatus) error {
	for _, allowed := range settlementTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: donation cannot move from %s to %s", ErrInvalidStateTransition, from, to)
}

// IsTerminal reports whether no transition leaves s.
func (s SettlementStatus) IsTerminal() bool {
	return len(settlementTransitions[s]) == 0
}

// DonorIdentity is either a donor reference or an explicit anonymous marker, never both.
type DonorIdentity struct {
	DonorId   string `dynamodbav:"donor_id,omitempty"`
	Anonymous bool   `dynamodbav:"anonymous"`
}

// AnonymousDonor returns the anonymous marker.
func AnonymousDonor() DonorIdentity {
	return DonorIdentity{Anonymous: true}
}

// KnownDonor returns an identity that references a donor.
func KnownDonor(donorID string) DonorIdentity {
	return DonorIdentity{DonorId: strings.TrimSpace(donorID)}
}

// Validate checks that exactly one of reference or anonymous marker is set.
func (d DonorIdentity) Validate() error {
	if d.Anonymous == (d.DonorId != "") {
		return ErrInvalidDonor
	}
	return nil
}

// PublicName is the donor label safe to show to anyone.
func (d DonorIdentity) PublicName() string {
	if d.Anonymous {
		return "anonymous"
	}
	return d.DonorId
}

// Donation is one donor's commitment against a campaign. Amount, campaign and
// donor are fixed at creation; only the settlement fields move, and only
// along the settlement transition table.
type Donation struct {
	Id                string           `dynamodbav:"id"`
	CampaignId        string           `dynamodbav:"campaign_id"`
	Amount            money.Money      `dynamodbav:"amount"`
	Donor             DonorIdentity    `dynamodbav:"donor"`
	Message           string           `dynamodbav:"message,omitempty"`
	SettlementStatus  SettlementStatus `dynamodbav:"status"`
	CorrelationToken  string           `dynamodbav:"correlation_token"`
	ProviderReference string           `dynamodbav:"provider_reference,omitempty"`
	FailureReason     string           `dynamodbav:"failure_reason,omitempty"`
	CreatedAt         time.Time        `dynamodbav:"created_at"`
	UpdatedAt         time.Time        `dynamodbav:"updated_at"`
	SettledAt         *time.Time       `dynamodbav:"settled_at,omitempty"`
}

// Outcome is the result a payment provider reports for a charge.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// ReconciliationEvent is a provider confirmation as delivered to the platform.
// ProviderReference is the idempotency key.
type ReconciliationEvent struct {
	ProviderReference string      `json:"providerReference"`
	Outcome           Outcome     `json:"outcome"`
	Amount            money.Money `json:"amount"`
	CorrelationToken  string      `json:"correlationToken"`
	FailureReason     string      `json:"failureReason,omitempty"`
}

// Validate reports ErrMalformedEvent for events missing required data.
func (e ReconciliationEvent) Validate() error {
	var problems []string
	if strings.TrimSpace(e.ProviderReference) == "" {
		problems = append(problems, "providerReference is required")
	}
	if e.Outcome != OutcomeSuccess && e.Outcome != OutcomeFailure {
		problems = append(problems, fmt.Sprintf("outcome %q is not recognised", e.Outcome))
	}
	if strings.TrimSpace(e.CorrelationToken) == "" {
		problems = append(problems, "correlationToken is required")
	}
	if !e.Amount.IsPositive() {
		problems = append(problems, "amount must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrMalformedEvent, strings.Join(problems, "; "))
	}
	return nil
}
