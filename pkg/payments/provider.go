// Package payments is the boundary to the external payment provider. The core
// only opens checkout sessions and requests refunds; confirmations come back
// asynchronously as reconciliation events.
package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chris/donation-ledger/pkg/money"
	"github.com/google/uuid"
)

// Provider opens payment sessions and issues refunds.
type Provider interface {
	// CreateSession opens a checkout session for a donation. The returned
	// client token is opaque to the platform and handed to the donor's browser.
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)

	// Refund returns a settled charge to the donor.
	Refund(ctx context.Context, req RefundRequest) error
}

// SessionRequest describes the charge a donor is about to authorize.
// CorrelationToken comes back on the reconciliation event and doubles as the
// idempotency key for the session call.
type SessionRequest struct {
	CorrelationToken string      `json:"correlation_token"`
	DonationID       string      `json:"donation_id"`
	CampaignID       string      `json:"campaign_id"`
	Amount           money.Money `json:"amount"`
	Currency         string      `json:"currency"`
	Description      string      `json:"description,omitempty"`
}

// Session is an open checkout session.
type Session struct {
	ID          string `json:"id"`
	ClientToken string `json:"client_token"`
}

// RefundRequest identifies a settled charge to reverse.
type RefundRequest struct {
	ProviderReference string      `json:"provider_reference"`
	Amount            money.Money `json:"amount"`
	Reason            string      `json:"reason,omitempty"`
}

// ErrDeclined is matched by every DeclinedError.
var ErrDeclined = errors.New("payment declined")

// DeclinedError carries the provider's reason for refusing a payment, such as
// "card declined" or "insufficient funds". The reason is safe to show the donor.
type DeclinedError struct {
	Code   string
	Reason string
}

func (e *DeclinedError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("payment declined: %s", e.Reason)
	}
	return fmt.Sprintf("payment declined (%s): %s", e.Code, e.Reason)
}

func (e *DeclinedError) Is(target error) bool {
	return target == ErrDeclined
}

// Sandbox is an in-process Provider for local development. Every session
// succeeds; confirmations must be posted to the webhook by hand.
type Sandbox struct {
	Logger *slog.Logger
}

// CreateSession returns a random client token.
func (s *Sandbox) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	session := Session{
		ID:          "sbx_sess_" + uuid.NewString(),
		ClientToken: "sbx_tok_" + req.CorrelationToken,
	}
	s.logger().Info("sandbox payment session opened",
		"donationId", req.DonationID,
		"correlationToken", req.CorrelationToken,
		"amount", req.Amount.String(),
	)
	return session, nil
}

// Refund logs the refund and reports success.
func (s *Sandbox) Refund(ctx context.Context, req RefundRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger().Info("sandbox refund issued", "providerReference", req.ProviderReference, "amount", req.Amount.String())
	return nil
}

func (s *Sandbox) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
