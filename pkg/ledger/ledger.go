// Package ledger keeps each campaign's raised amount and donor count equal to
// the sum of its settled donations.
//
// The primary path is incremental: a settlement or refund is applied to the
// donation and its campaign in one storage transaction. ReconcileTotals is the
// self-healing audit that recomputes totals from the donations themselves.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/storage"
	"github.com/chris/donation-ledger/pkg/websockets"
)

// Store is the storage the aggregator reads and writes.
type Store interface {
	storage.LedgerStore
	storage.CampaignReader
	ListDonationsByCampaign(ctx context.Context, campaignID string) ([]models.Donation, error)
}

// CampaignCompleter completes a live campaign that has reached its goal.
type CampaignCompleter interface {
	CompleteFunded(ctx context.Context, campaignID string) (*models.Campaign, error)
}

// Aggregator applies money events to campaign totals.
type Aggregator struct {
	store        Store
	completer    CampaignCompleter
	publisher    websockets.Publisher
	logger       *slog.Logger
	now          func() time.Time
	maxTries     uint
	confirmDelay time.Duration
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithCompleter sets the component asked to complete funded campaigns.
func WithCompleter(c CampaignCompleter) Option {
	return func(a *Aggregator) { a.completer = c }
}

// WithPublisher sets where progress updates are published.
func WithPublisher(p websockets.Publisher) Option {
	return func(a *Aggregator) { a.publisher = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithMaxTries bounds the optimistic retries of ReconcileTotals.
func WithMaxTries(n uint) Option {
	return func(a *Aggregator) { a.maxTries = n }
}

// WithConfirmDelay makes ReconcileTotals re-read a drifting campaign after d
// and only correct it if nothing changed in between. Stores whose donation
// listing is eventually consistent need this.
func WithConfirmDelay(d time.Duration) Option {
	return func(a *Aggregator) { a.confirmDelay = d }
}

// New creates an Aggregator.
func New(store Store, opts ...Option) *Aggregator {
	a := &Aggregator{
		store:     store,
		publisher: &websockets.NoOpPublisher{},
		logger:    slog.Default(),
		now:       time.Now,
		maxTries:  8,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ApplySettledDonation records the settlement of d under providerReference and
// adds its amount to the campaign. It returns false when the donation had
// already left the initiated state, in which case nothing was changed.
func (a *Aggregator) ApplySettledDonation(ctx context.Context, d *models.Donation, providerReference string) (bool, error) {
	applied, err := a.store.SettleDonation(ctx, storage.Settlement{
		DonationID:        d.Id,
		CampaignID:        d.CampaignId,
		ProviderReference: providerReference,
		Amount:            d.Amount,
		SettledAt:         a.now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("apply settled donation %s: %w", d.Id, err)
	}
	if !applied {
		return false, nil
	}

	a.afterChange(ctx, d.CampaignId, true)
	return true, nil
}

// ApplyRefund reverses a settled donation. The donor count is not decremented.
func (a *Aggregator) ApplyRefund(ctx context.Context, d *models.Donation) (bool, error) {
	applied, err := a.store.RefundDonation(ctx, storage.Refund{
		DonationID: d.Id,
		CampaignID: d.CampaignId,
		Amount:     d.Amount,
		RefundedAt: a.now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("apply refund %s: %w", d.Id, err)
	}
	if !applied {
		return false, nil
	}

	a.afterChange(ctx, d.CampaignId, false)
	return true, nil
}

// afterChange runs the side effects of a committed ledger change. Failures
// are logged; the money has already moved and the sweeper catches up.
func (a *Aggregator) afterChange(ctx context.Context, campaignID string, mayComplete bool) {
	c, err := a.store.GetCampaign(ctx, campaignID)
	if err != nil {
		a.logger.Error("failed to reload campaign after ledger change", "campaignId", campaignID, "error", err)
		return
	}

	if mayComplete && c.IsLive() && c.IsFunded() && a.completer != nil {
		completed, err := a.completer.CompleteFunded(ctx, campaignID)
		if err != nil {
			a.logger.Error("failed to complete funded campaign", "campaignId", campaignID, "error", err)
		} else {
			c = completed
		}
	}

	if err := a.publisher.Publish(ctx, campaignID, websockets.NewCampaignProgress(c)); err != nil {
		a.logger.Warn("failed to publish campaign progress", "campaignId", campaignID, "error", err)
	}
}

// Audit is the outcome of reconciling one campaign's totals.
type Audit struct {
	CampaignID string
	Before     models.Totals
	After      models.Totals
	Corrected  bool
}

// ReconcileTotals recomputes the totals of a campaign from its donations and
// overwrites the stored totals if they drifted. The write is conditional on
// the campaign version read before the donations were listed, so a settlement
// racing the audit forces a retry instead of being overwritten.
func (a *Aggregator) ReconcileTotals(ctx context.Context, campaignID string) (Audit, error) {
	operation := func() (Audit, error) {
		audit, err := a.reconcileOnce(ctx, campaignID)
		if errors.Is(err, storage.ErrVersionConflict) {
			return Audit{}, err
		}
		if err != nil {
			return Audit{}, backoff.Permanent(err)
		}
		return audit, nil
	}

	audit, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(newBackOff()),
		backoff.WithMaxTries(a.maxTries),
	)
	if err != nil {
		return Audit{}, fmt.Errorf("reconcile totals for campaign %s: %w", campaignID, err)
	}
	if audit.Corrected {
		a.logger.Warn("corrected campaign totals drift",
			"campaignId", campaignID,
			"raisedBefore", audit.Before.RaisedAmount.String(),
			"raisedAfter", audit.After.RaisedAmount.String(),
			"donorsBefore", audit.Before.DonorCount,
			"donorsAfter", audit.After.DonorCount,
		)
		a.afterChange(ctx, campaignID, true)
	}
	return audit, nil
}

func (a *Aggregator) reconcileOnce(ctx context.Context, campaignID string) (Audit, error) {
	c, totals, err := a.snapshot(ctx, campaignID)
	if err != nil {
		return Audit{}, err
	}
	audit := Audit{CampaignID: campaignID, Before: c.Totals(), After: totals}
	if audit.Before == audit.After {
		return audit, nil
	}

	if a.confirmDelay > 0 {
		select {
		case <-ctx.Done():
			return Audit{}, ctx.Err()
		case <-time.After(a.confirmDelay):
		}
		again, againTotals, err := a.snapshot(ctx, campaignID)
		if err != nil {
			return Audit{}, err
		}
		if again.Version != c.Version || againTotals != totals {
			return Audit{}, fmt.Errorf("campaign %s changed during audit: %w", campaignID, storage.ErrVersionConflict)
		}
	}

	if err := a.store.ReplaceTotals(ctx, campaignID, totals, c.Version); err != nil {
		return Audit{}, err
	}
	audit.Corrected = true
	return audit, nil
}

// snapshot reads the campaign first, then its donations.
func (a *Aggregator) snapshot(ctx context.Context, campaignID string) (*models.Campaign, models.Totals, error) {
	c, err := a.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, models.Totals{}, err
	}
	donations, err := a.store.ListDonationsByCampaign(ctx, campaignID)
	if err != nil {
		return nil, models.Totals{}, err
	}
	return c, models.ComputeTotals(donations), nil
}

func newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	return b
}
