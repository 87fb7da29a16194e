// Package donations manages donation records and their settlement state.
// Money only moves through the ledger; this package decides whether a
// transition is legal, idempotent, or a conflict.
package donations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/money"
	"github.com/chris/donation-ledger/pkg/payments"
	"github.com/chris/donation-ledger/pkg/storage"
	"github.com/google/uuid"
)

// MaxMessageLength bounds the optional donor message.
const MaxMessageLength = 500

// ExpiredReason is recorded on donations whose checkout was abandoned.
const ExpiredReason = "payment session expired"

// Ledger applies settled donations and refunds to campaign totals.
type Ledger interface {
	ApplySettledDonation(ctx context.Context, d *models.Donation, providerReference string) (bool, error)
	ApplyRefund(ctx context.Context, d *models.Donation) (bool, error)
}

// Service implements the donation record operations.
type Service struct {
	campaigns       storage.CampaignReader
	store           storage.DonationStore
	ledger          Ledger
	provider        payments.Provider
	logger          *slog.Logger
	now             func() time.Time
	newID           func() string
	providerTimeout time.Duration
	currency        string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides how donation ids and correlation tokens are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithProviderTimeout bounds every call to the payment provider.
func WithProviderTimeout(d time.Duration) Option {
	return func(s *Service) { s.providerTimeout = d }
}

// WithCurrency sets the ISO currency code sent to the provider.
func WithCurrency(code string) Option {
	return func(s *Service) { s.currency = code }
}

// NewService creates a donation Service.
func NewService(campaigns storage.CampaignReader, store storage.DonationStore, ledger Ledger, provider payments.Provider, opts ...Option) *Service {
	s := &Service{
		campaigns:       campaigns,
		store:           store,
		ledger:          ledger,
		provider:        provider,
		logger:          slog.Default(),
		now:             time.Now,
		newID:           uuid.NewString,
		providerTimeout: 10 * time.Second,
		currency:        "USD",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request is a donor's commitment to give.
type Request struct {
	CampaignId string
	Amount     money.Money
	Donor      models.DonorIdentity
	Message    string
}

// Initiated is a new donation plus the opaque token the donor's browser needs
// to collect payment details.
type Initiated struct {
	Donation    *models.Donation
	ClientToken string
}

// Initiate records a new donation against a live campaign and opens a payment
// session for it. Campaign totals are not touched until settlement.
//
// If the provider cannot open a session the donation is marked failed with the
// provider's reason and ErrPaymentFailed is returned alongside it.
func (s *Service) Initiate(ctx context.Context, req Request) (*Initiated, error) {
	req.Message = strings.TrimSpace(req.Message)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	campaign, err := s.campaigns.GetCampaign(ctx, req.CampaignId)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrCampaignNotFound, req.CampaignId)
		}
		return nil, fmt.Errorf("failed to load campaign %s: %w", req.CampaignId, err)
	}
	if !campaign.IsLive() {
		return nil, fmt.Errorf("%w: campaign %s is %s", models.ErrCampaignNotLive, campaign.Id, campaign.FundingStatus)
	}

	now := s.now().UTC()
	d := &models.Donation{
		Id:               s.newID(),
		CampaignId:       campaign.Id,
		Amount:           req.Amount,
		Donor:            req.Donor,
		Message:          req.Message,
		SettlementStatus: models.SettlementInitiated,
		CorrelationToken: s.newID(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.CreateDonation(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to record donation: %w", err)
	}

	session, err := s.openSession(ctx, d, campaign)
	if err != nil {
		reason := failureReason(err)
		s.logger.Warn("payment session could not be opened",
			"donationId", d.Id,
			"campaignId", d.CampaignId,
			"reason", reason,
			"error", err,
		)
		if _, failErr := s.store.FailDonation(ctx, d.Id, "", reason, s.now().UTC()); failErr != nil {
			s.logger.Error("failed to mark donation failed", "donationId", d.Id, "error", failErr)
		} else {
			d.SettlementStatus = models.SettlementFailed
			d.FailureReason = reason
		}
		return &Initiated{Donation: d}, fmt.Errorf("%w: %s", models.ErrPaymentFailed, reason)
	}

	s.logger.Info("donation initiated",
		"donationId", d.Id,
		"campaignId", d.CampaignId,
		"amount", d.Amount.String(),
		"anonymous", d.Donor.Anonymous,
	)
	return &Initiated{Donation: d, ClientToken: session.ClientToken}, nil
}

func (s *Service) openSession(ctx context.Context, d *models.Donation, c *models.Campaign) (payments.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()
	return s.provider.CreateSession(ctx, payments.SessionRequest{
		CorrelationToken: d.CorrelationToken,
		DonationID:       d.Id,
		CampaignID:       d.CampaignId,
		Amount:           d.Amount,
		Currency:         s.currency,
		Description:      c.Title,
	})
}

func failureReason(err error) string {
	var declined *payments.DeclinedError
	switch {
	case errors.As(err, &declined) && declined.Reason != "":
		return declined.Reason
	case errors.Is(err, context.DeadlineExceeded):
		return "payment provider timed out"
	default:
		return "payment provider unavailable"
	}
}

func validateRequest(req Request) error {
	var fe models.FieldErrors
	if strings.TrimSpace(req.CampaignId) == "" {
		fe = append(fe, &models.FieldError{Field: "campaignId", Message: "campaign is required", Err: models.ErrCampaignNotFound})
	}
	if !req.Amount.IsPositive() {
		fe = append(fe, models.NewFieldError("amount", models.ErrInvalidAmount))
	}
	if err := req.Donor.Validate(); err != nil {
		fe = append(fe, models.NewFieldError("donor", err))
	}
	if len(req.Message) > MaxMessageLength {
		fe = append(fe, &models.FieldError{
			Field:   "message",
			Message: fmt.Sprintf("message must be at most %d characters", MaxMessageLength),
			Err:     models.ErrInvalidSubmission,
		})
	}
	return fe.OrNil()
}

// Get returns a donation by id.
func (s *Service) Get(ctx context.Context, donationID string) (*models.Donation, error) {
	d, err := s.store.GetDonation(ctx, donationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrDonationNotFound, donationID)
		}
		return nil, fmt.Errorf("failed to get donation %s: %w", donationID, err)
	}
	return d, nil
}

// FindByCorrelation returns the donation created with the given session token.
func (s *Service) FindByCorrelation(ctx context.Context, token string) (*models.Donation, error) {
	d, err := s.store.FindDonationByCorrelation(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: correlation token %s", models.ErrDonationNotFound, token)
		}
		return nil, fmt.Errorf("failed to find donation by correlation: %w", err)
	}
	return d, nil
}

// MarkSettled moves a donation from initiated to settled and applies it to
// the ledger. Repeating the call with the same provider reference is a no-op
// reported with applied=false. A donation already settled under a different
// reference, or a reference already bound to another donation, yields
// ErrReconciliationConflict.
func (s *Service) MarkSettled(ctx context.Context, donationID, providerReference string) (*models.Donation, bool, error) {
	if strings.TrimSpace(providerReference) == "" {
		return nil, false, fmt.Errorf("%w: provider reference is required", models.ErrMalformedEvent)
	}
	d, err := s.Get(ctx, donationID)
	if err != nil {
		return nil, false, err
	}

	if d.SettlementStatus == models.SettlementInitiated {
		applied, err := s.ledger.ApplySettledDonation(ctx, d, providerReference)
		if err != nil {
			if errors.Is(err, storage.ErrReferenceClaimed) {
				return d, false, fmt.Errorf("%w: provider reference %s already settles another donation",
					models.ErrReconciliationConflict, providerReference)
			}
			return nil, false, err
		}
		// Reload either way: on success for the settled fields, otherwise
		// because a concurrent delivery won and the fresh state decides.
		if d, err = s.Get(ctx, donationID); err != nil {
			return nil, false, err
		}
		if applied {
			s.logger.Info("donation settled", "donationId", d.Id, "campaignId", d.CampaignId, "providerReference", providerReference)
			return d, true, nil
		}
	}

	switch d.SettlementStatus {
	case models.SettlementSettled, models.SettlementRefunded:
		if d.ProviderReference == providerReference {
			return d, false, nil
		}
		return d, false, fmt.Errorf("%w: donation %s is %s under reference %s, not %s",
			models.ErrReconciliationConflict, d.Id, d.SettlementStatus, d.ProviderReference, providerReference)
	default:
		return d, false, models.CheckSettlementTransition(d.SettlementStatus, models.SettlementSettled)
	}
}

// MarkFailed moves a donation from initiated to failed. Failing an already
// failed donation is a no-op; failing a settled one is an invalid transition.
func (s *Service) MarkFailed(ctx context.Context, donationID, providerReference, reason string) (*models.Donation, bool, error) {
	d, err := s.Get(ctx, donationID)
	if err != nil {
		return nil, false, err
	}

	if d.SettlementStatus == models.SettlementInitiated {
		reason = strings.TrimSpace(reason)
		if reason == "" {
			reason = "payment failed"
		}
		applied, err := s.store.FailDonation(ctx, d.Id, providerReference, reason, s.now().UTC())
		if err != nil {
			return nil, false, fmt.Errorf("failed to mark donation %s failed: %w", d.Id, err)
		}
		if d, err = s.Get(ctx, donationID); err != nil {
			return nil, false, err
		}
		if applied {
			s.logger.Info("donation failed", "donationId", d.Id, "campaignId", d.CampaignId, "reason", reason)
			return d, true, nil
		}
	}

	if d.SettlementStatus == models.SettlementFailed {
		return d, false, nil
	}
	return d, false, models.CheckSettlementTransition(d.SettlementStatus, models.SettlementFailed)
}

// Refund returns a settled donation to the donor and reverses it on the ledger.
func (s *Service) Refund(ctx context.Context, donationID, reason string) (*models.Donation, error) {
	d, err := s.Get(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if err := models.CheckSettlementTransition(d.SettlementStatus, models.SettlementRefunded); err != nil {
		return nil, err
	}

	pctx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	err = s.provider.Refund(pctx, payments.RefundRequest{
		ProviderReference: d.ProviderReference,
		Amount:            d.Amount,
		Reason:            strings.TrimSpace(reason),
	})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrRefundFailed, err)
	}

	applied, err := s.ledger.ApplyRefund(ctx, d)
	if err != nil {
		return nil, err
	}
	if d, err = s.Get(ctx, donationID); err != nil {
		return nil, err
	}
	if !applied && d.SettlementStatus != models.SettlementRefunded {
		return nil, models.CheckSettlementTransition(d.SettlementStatus, models.SettlementRefunded)
	}
	s.logger.Info("donation refunded", "donationId", d.Id, "campaignId", d.CampaignId, "amount", d.Amount.String())
	return d, nil
}

// PublicDonation is the view of a settled donation anyone may see.
// Anonymous donations never carry the donor reference.
type PublicDonation struct {
	Id        string
	Amount    money.Money
	DonorName string
	Message   string
	SettledAt *time.Time
}

// ListPublic returns the settled donations of a campaign, oldest first.
func (s *Service) ListPublic(ctx context.Context, campaignID string) ([]PublicDonation, error) {
	all, err := s.store.ListDonationsByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations for campaign %s: %w", campaignID, err)
	}
	public := make([]PublicDonation, 0, len(all))
	for _, d := range all {
		if d.SettlementStatus != models.SettlementSettled {
			continue
		}
		public = append(public, PublicDonation{
			Id:        d.Id,
			Amount:    d.Amount,
			DonorName: d.Donor.PublicName(),
			Message:   d.Message,
			SettledAt: d.SettledAt,
		})
	}
	return public, nil
}

// ExpireStale fails initiated donations older than maxAge. A donor who
// abandoned checkout never produces a confirmation, so this is the only way
// those records reach a terminal state.
func (s *Service) ExpireStale(ctx context.Context, maxAge time.Duration) (int, error) {
	now := s.now().UTC()
	stale, err := s.store.ListStaleDonations(ctx, now.Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("failed to list stale donations: %w", err)
	}

	expired := 0
	var errs []error
	for _, d := range stale {
		applied, err := s.store.FailDonation(ctx, d.Id, "", ExpiredReason, now)
		if err != nil {
			s.logger.Error("failed to expire donation", "donationId", d.Id, "error", err)
			errs = append(errs, err)
			continue
		}
		if applied {
			expired++
			s.logger.Info("expired abandoned donation", "donationId", d.Id, "campaignId", d.CampaignId, "createdAt", d.CreatedAt)
		}
	}
	return expired, errors.Join(errs...)
}
