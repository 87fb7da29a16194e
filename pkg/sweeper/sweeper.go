// Package sweeper runs the scheduled maintenance of the ledger: expiring
// abandoned donations, closing campaigns past their end date, and auditing
// campaign totals against their donations.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chris/donation-ledger/pkg/campaigns"
	"github.com/chris/donation-ledger/pkg/ledger"
	"github.com/chris/donation-ledger/pkg/models"
	"golang.org/x/sync/errgroup"
)

// DonationExpirer fails initiated donations older than maxAge.
type DonationExpirer interface {
	ExpireStale(ctx context.Context, maxAge time.Duration) (int, error)
}

// CampaignCloser closes live campaigns past their end date.
type CampaignCloser interface {
	SweepExpired(ctx context.Context, policy models.ExpiryPolicy, grace time.Duration) (campaigns.SweepResult, error)
}

// Auditor recomputes the totals of one campaign.
type Auditor interface {
	ReconcileTotals(ctx context.Context, campaignID string) (ledger.Audit, error)
}

// CampaignLister lists campaigns by funding status.
type CampaignLister interface {
	ListCampaignsByFunding(ctx context.Context, status models.FundingStatus) ([]models.Campaign, error)
}

// Config holds the sweep policy.
type Config struct {
	DonationExpiry   time.Duration
	GracePeriod      time.Duration
	Policy           models.ExpiryPolicy
	AuditConcurrency int
}

// Report summarizes one run.
type Report struct {
	ExpiredDonations   int `json:"expiredDonations"`
	CompletedCampaigns int `json:"completedCampaigns"`
	CancelledCampaigns int `json:"cancelledCampaigns"`
	AuditedCampaigns   int `json:"auditedCampaigns"`
	CorrectedCampaigns int `json:"correctedCampaigns"`
}

// Sweeper runs the maintenance jobs.
type Sweeper struct {
	donations DonationExpirer
	campaigns CampaignCloser
	auditor   Auditor
	lister    CampaignLister
	cfg       Config
	logger    *slog.Logger
}

// New creates a Sweeper.
func New(donations DonationExpirer, campaigns CampaignCloser, auditor Auditor, lister CampaignLister, cfg Config, logger *slog.Logger) *Sweeper {
	if cfg.AuditConcurrency < 1 {
		cfg.AuditConcurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		donations: donations,
		campaigns: campaigns,
		auditor:   auditor,
		lister:    lister,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run executes every job in order. Abandoned donations are expired first so
// the audit sees their final state. A failing job does not skip the others.
func (s *Sweeper) Run(ctx context.Context) (Report, error) {
	var report Report
	var errs []error

	expired, err := s.donations.ExpireStale(ctx, s.cfg.DonationExpiry)
	report.ExpiredDonations = expired
	if err != nil {
		errs = append(errs, fmt.Errorf("expire donations: %w", err))
	}

	closed, err := s.campaigns.SweepExpired(ctx, s.cfg.Policy, s.cfg.GracePeriod)
	report.CompletedCampaigns = closed.Completed
	report.CancelledCampaigns = closed.Cancelled
	if err != nil {
		errs = append(errs, fmt.Errorf("close expired campaigns: %w", err))
	}

	audited, corrected, err := s.AuditLive(ctx)
	report.AuditedCampaigns = audited
	report.CorrectedCampaigns = corrected
	if err != nil {
		errs = append(errs, fmt.Errorf("audit totals: %w", err))
	}

	s.logger.Info("sweep finished",
		"expiredDonations", report.ExpiredDonations,
		"completedCampaigns", report.CompletedCampaigns,
		"cancelledCampaigns", report.CancelledCampaigns,
		"auditedCampaigns", report.AuditedCampaigns,
		"correctedCampaigns", report.CorrectedCampaigns,
	)
	return report, errors.Join(errs...)
}

// AuditLive reconciles the totals of every live campaign, at most
// AuditConcurrency at a time. It returns how many campaigns were audited and
// how many needed a correction.
func (s *Sweeper) AuditLive(ctx context.Context) (int, int, error) {
	live, err := s.lister.ListCampaignsByFunding(ctx, models.FundingLive)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list live campaigns: %w", err)
	}

	var (
		mu        sync.Mutex
		audited   int
		corrected int
		errs      []error
	)
	g := new(errgroup.Group)
	g.SetLimit(s.cfg.AuditConcurrency)
	for _, c := range live {
		g.Go(func() error {
			audit, err := s.auditor.ReconcileTotals(ctx, c.Id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Error("failed to audit campaign totals", "campaignId", c.Id, "error", err)
				errs = append(errs, err)
				return nil
			}
			audited++
			if audit.Corrected {
				corrected++
			}
			return nil
		})
	}
	_ = g.Wait()
	return audited, corrected, errors.Join(errs...)
}
