// Package reconciliation applies payment provider confirmations to donation
// records. Processing is idempotent on the provider reference and safe to
// re-enter; redelivery is left to the transport.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/queue"
	"github.com/chris/donation-ledger/pkg/storage"
)

// MessageTypeReviewItem is the queue message type of a new review item.
const MessageTypeReviewItem = "reviewItem"

// Resolution is what processing an event did.
type Resolution string

const (
	ResolutionSettled   Resolution = "settled"
	ResolutionFailed    Resolution = "failed"
	ResolutionDuplicate Resolution = "duplicate"
	ResolutionOrphaned  Resolution = "orphaned"
	ResolutionConflict  Resolution = "conflict"
)

// Result reports the outcome of one event.
type Result struct {
	Resolution Resolution
	DonationID string
	// ReviewID is set when the event was queued for manual review.
	ReviewID string
}

// Donations is the donation record service.
type Donations interface {
	FindByCorrelation(ctx context.Context, token string) (*models.Donation, error)
	MarkSettled(ctx context.Context, donationID, providerReference string) (*models.Donation, bool, error)
	MarkFailed(ctx context.Context, donationID, providerReference, reason string) (*models.Donation, bool, error)
}

// ReceiptSender dispatches the receipt of a newly settled donation.
type ReceiptSender interface {
	Send(ctx context.Context, d *models.Donation) error
}

// Service processes reconciliation events.
type Service struct {
	donations Donations
	reviews   storage.ReviewStore
	notifier  queue.Publisher
	receipts  ReceiptSender
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithReviewNotifier publishes every new review item.
func WithReviewNotifier(p queue.Publisher) Option {
	return func(s *Service) { s.notifier = p }
}

// WithReceipts dispatches receipts for newly settled donations.
func WithReceipts(r ReceiptSender) Option {
	return func(s *Service) { s.receipts = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a reconciliation Service.
func NewService(donations Donations, reviews storage.ReviewStore, opts ...Option) *Service {
	s := &Service{
		donations: donations,
		reviews:   reviews,
		notifier:  queue.NoOpPublisher{},
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process applies one provider event.
//
// Orphans and conflicts are recorded for manual review and reported with a
// nil error, since the provider retrying them cannot help. A returned error
// is either ErrMalformedEvent, which retrying cannot fix either, or a
// transient failure the caller should redeliver.
func (s *Service) Process(ctx context.Context, ev models.ReconciliationEvent) (Result, error) {
	if err := ev.Validate(); err != nil {
		return Result{}, err
	}

	d, err := s.donations.FindByCorrelation(ctx, ev.CorrelationToken)
	if errors.Is(err, models.ErrDonationNotFound) {
		return s.review(ctx, models.ReviewOrphanedEvent, ev, "", "no donation matches the correlation token")
	}
	if err != nil {
		return Result{}, err
	}

	if ev.Amount != d.Amount {
		detail := fmt.Sprintf("event amount %s does not match donation amount %s", ev.Amount, d.Amount)
		return s.review(ctx, models.ReviewConflict, ev, d.Id, detail)
	}

	switch ev.Outcome {
	case models.OutcomeSuccess:
		return s.settle(ctx, ev, d)
	default:
		return s.fail(ctx, ev, d)
	}
}

func (s *Service) settle(ctx context.Context, ev models.ReconciliationEvent, d *models.Donation) (Result, error) {
	settled, applied, err := s.donations.MarkSettled(ctx, d.Id, ev.ProviderReference)
	if isConflict(err) {
		return s.review(ctx, models.ReviewConflict, ev, d.Id, err.Error())
	}
	if err != nil {
		return Result{}, err
	}
	if !applied {
		s.logger.Info("duplicate settlement ignored", "donationId", d.Id, "providerReference", ev.ProviderReference)
		return Result{Resolution: ResolutionDuplicate, DonationID: d.Id}, nil
	}

	if s.receipts != nil {
		if err := s.receipts.Send(ctx, settled); err != nil {
			s.logger.Error("failed to send receipt", "donationId", d.Id, "error", err)
		}
	}
	return Result{Resolution: ResolutionSettled, DonationID: d.Id}, nil
}

func (s *Service) fail(ctx context.Context, ev models.ReconciliationEvent, d *models.Donation) (Result, error) {
	_, applied, err := s.donations.MarkFailed(ctx, d.Id, ev.ProviderReference, ev.FailureReason)
	if isConflict(err) {
		return s.review(ctx, models.ReviewConflict, ev, d.Id, err.Error())
	}
	if err != nil {
		return Result{}, err
	}
	if !applied {
		return Result{Resolution: ResolutionDuplicate, DonationID: d.Id}, nil
	}
	return Result{Resolution: ResolutionFailed, DonationID: d.Id}, nil
}

func isConflict(err error) bool {
	return errors.Is(err, models.ErrReconciliationConflict) || errors.Is(err, models.ErrInvalidStateTransition)
}

// review records ev for a human. A failure to persist the item is returned
// so the event is redelivered rather than lost.
func (s *Service) review(ctx context.Context, kind models.ReviewKind, ev models.ReconciliationEvent, donationID, detail string) (Result, error) {
	item := models.NewReviewItem(kind, ev, donationID, detail, s.now())
	recorded, err := s.reviews.RecordReview(ctx, item)
	if err != nil {
		return Result{}, fmt.Errorf("failed to record review item %s: %w", item.Id, err)
	}

	resolution := ResolutionConflict
	if kind == models.ReviewOrphanedEvent {
		resolution = ResolutionOrphaned
	}
	result := Result{Resolution: resolution, DonationID: donationID, ReviewID: item.Id}
	if !recorded {
		return result, nil
	}

	s.logger.Warn("reconciliation event queued for review",
		"kind", kind,
		"providerReference", ev.ProviderReference,
		"correlationToken", ev.CorrelationToken,
		"donationId", donationID,
		"detail", detail,
	)
	if err := s.notifier.Publish(ctx, MessageTypeReviewItem, item); err != nil {
		s.logger.Error("failed to publish review item", "reviewId", item.Id, "error", err)
	}
	return result, nil
}
