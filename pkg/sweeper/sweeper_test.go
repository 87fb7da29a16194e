package sweeper

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chris/donation-ledger/pkg/campaigns"
	"github.com/chris/donation-ledger/pkg/ledger"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExpirer struct {
	maxAge time.Duration
	n      int
	err    error
}

func (s *stubExpirer) ExpireStale(ctx context.Context, maxAge time.Duration) (int, error) {
	s.maxAge = maxAge
	return s.n, s.err
}

type stubCloser struct {
	policy models.ExpiryPolicy
	grace  time.Duration
	result campaigns.SweepResult
}

func (s *stubCloser) SweepExpired(ctx context.Context, policy models.ExpiryPolicy, grace time.Duration) (campaigns.SweepResult, error) {
	s.policy = policy
	s.grace = grace
	return s.result, nil
}

type stubLister struct{ campaigns []models.Campaign }

func (s stubLister) ListCampaignsByFunding(ctx context.Context, status models.FundingStatus) ([]models.Campaign, error) {
	return s.campaigns, nil
}

type stubAuditor struct {
	mu       sync.Mutex
	inFlight atomic.Int32
	peak     int32
	drifted  map[string]bool
	failing  map[string]bool
}

func (a *stubAuditor) ReconcileTotals(ctx context.Context, id string) (ledger.Audit, error) {
	n := a.inFlight.Add(1)
	defer a.inFlight.Add(-1)
	a.mu.Lock()
	if n > a.peak {
		a.peak = n
	}
	a.mu.Unlock()
	time.Sleep(5 * time.Millisecond)

	if a.failing[id] {
		return ledger.Audit{}, errors.New("boom")
	}
	return ledger.Audit{CampaignID: id, Corrected: a.drifted[id]}, nil
}

func liveCampaigns(ids ...string) []models.Campaign {
	out := make([]models.Campaign, len(ids))
	for i, id := range ids {
		out[i] = models.Campaign{Id: id, FundingStatus: models.FundingLive}
	}
	return out
}

func TestRun(t *testing.T) {
	expirer := &stubExpirer{n: 3}
	closer := &stubCloser{result: campaigns.SweepResult{Completed: 1, Cancelled: 2}}
	auditor := &stubAuditor{drifted: map[string]bool{"b": true}}
	cfg := Config{DonationExpiry: 30 * time.Minute, GracePeriod: 72 * time.Hour, Policy: models.ExpiryCancel, AuditConcurrency: 2}

	report, err := New(expirer, closer, auditor, stubLister{liveCampaigns("a", "b", "c")}, cfg, nil).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Report{
		ExpiredDonations:   3,
		CompletedCampaigns: 1,
		CancelledCampaigns: 2,
		AuditedCampaigns:   3,
		CorrectedCampaigns: 1,
	}, report)
	assert.Equal(t, 30*time.Minute, expirer.maxAge)
	assert.Equal(t, models.ExpiryCancel, closer.policy)
	assert.Equal(t, 72*time.Hour, closer.grace)
}

func TestRunKeepsGoingAfterFailure(t *testing.T) {
	expirer := &stubExpirer{err: errors.New("expiry failed")}
	closer := &stubCloser{}
	auditor := &stubAuditor{failing: map[string]bool{"a": true}}

	report, err := New(expirer, closer, auditor, stubLister{liveCampaigns("a", "b")}, Config{Policy: models.ExpiryComplete}, nil).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expiry failed")
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, 1, report.AuditedCampaigns)
}

func TestAuditLiveRespectsConcurrency(t *testing.T) {
	auditor := &stubAuditor{}
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	s := New(&stubExpirer{}, &stubCloser{}, auditor, stubLister{liveCampaigns(ids...)}, Config{AuditConcurrency: 3}, nil)

	audited, corrected, err := s.AuditLive(context.Background())

	require.NoError(t, err)
	assert.Equal(t, len(ids), audited)
	assert.Zero(t, corrected)
	assert.LessOrEqual(t, auditor.peak, int32(3))
}
