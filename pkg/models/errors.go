package models

import (
	"errors"
	"fmt"
)

// Validation errors. These are rejected at the API boundary and never reach persisted state.
var (
	// ErrInvalidGoal is returned when a campaign goal is not strictly positive.
	ErrInvalidGoal = errors.New("goal amount must be greater than zero")

	// ErrInvalidEndDate is returned when a campaign end date is not in the future.
	ErrInvalidEndDate = errors.New("end date must be in the future")

	// ErrInvalidAmount is returned when a donation amount is not strictly positive.
	ErrInvalidAmount = errors.New("donation amount must be greater than zero")

	// ErrInvalidDonor is returned when a donor identity is neither a reference nor anonymous.
	ErrInvalidDonor = errors.New("donor identity must be a donor reference or anonymous")

	// ErrInvalidSubmission is returned for campaign submissions with missing required fields.
	ErrInvalidSubmission = errors.New("invalid campaign submission")
)

// State machine errors. Rejected synchronously with no side effects.
var (
	// ErrCampaignNotLive is returned when a donation targets a campaign that is not accepting funds.
	ErrCampaignNotLive = errors.New("campaign is not live")

	// ErrInvalidStateTransition is returned for any move the transition tables do not allow.
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

// Reconciliation errors. Queued for manual review; never returned to the provider as a hard failure.
var (
	// ErrReconciliationConflict is returned when a confirmation disagrees with the recorded donation.
	ErrReconciliationConflict = errors.New("reconciliation conflict")

	// ErrOrphanedReconciliationEvent is returned when a confirmation matches no donation.
	ErrOrphanedReconciliationEvent = errors.New("orphaned reconciliation event")

	// ErrMalformedEvent is returned when a confirmation is missing required fields.
	ErrMalformedEvent = errors.New("malformed reconciliation event")
)

// Lookup and collaborator errors.
var (
	// ErrDonationNotFound is returned when a donation id does not exist.
	ErrDonationNotFound = errors.New("donation not found")

	// ErrCampaignNotFound is returned when a campaign id does not exist.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrPaymentFailed is returned when the payment provider could not open a session.
	ErrPaymentFailed = errors.New("payment could not be started")

	// ErrRefundFailed is returned when the payment provider did not accept a refund.
	ErrRefundFailed = errors.New("refund could not be issued")
)

// FieldError attaches a request field name to a validation error.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

// NewFieldError builds a FieldError whose message defaults to the wrapped error's text.
func NewFieldError(field string, err error) *FieldError {
	return &FieldError{Field: field, Message: err.Error(), Err: err}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// FieldErrors collects several FieldError values from one validation pass.
type FieldErrors []*FieldError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	msg := fe[0].Error()
	if len(fe) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(fe)-1)
	}
	return msg
}

// Unwrap exposes every field error to errors.Is and errors.As.
func (fe FieldErrors) Unwrap() []error {
	errs := make([]error, len(fe))
	for i, e := range fe {
		errs[i] = e
	}
	return errs
}

// OrNil returns nil when no errors were collected.
func (fe FieldErrors) OrNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
