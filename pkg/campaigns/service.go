// Package campaigns owns the campaign aggregate and its moderation and
// funding state machines. Status changes go through models.NextCampaignState
// and are persisted with an optimistic version check; ledger totals are never
// written here.
package campaigns

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/money"
	"github.com/chris/donation-ledger/pkg/storage"
	"github.com/google/uuid"
)

// Submission is the creator-provided content of a campaign.
type Submission struct {
	CreatorId        string
	Title            string
	Description      string
	Category         string
	OrganizerContact string
	GoalAmount       money.Money
	EndDate          time.Time
}

// Service implements campaign submission, moderation and lifecycle transitions.
type Service struct {
	store    storage.CampaignStore
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	maxTries uint
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

// WithIDGenerator overrides how campaign ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithMaxTries bounds the retries of a status change that loses a version race.
func WithMaxTries(n uint) Option {
	return func(s *Service) { s.maxTries = n }
}

// NewService creates a campaign Service.
func NewService(store storage.CampaignStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		logger:   slog.Default(),
		now:      time.Now,
		newID:    uuid.NewString,
		maxTries: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateDraft validates a submission and stores it as a pending draft.
func (s *Service) CreateDraft(ctx context.Context, sub Submission) (*models.Campaign, error) {
	now := s.now().UTC()
	sub = normalize(sub)
	if err := validate(sub, now); err != nil {
		return nil, err
	}

	c := newDraft(s.newID(), sub, now)
	if err := s.store.CreateCampaign(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	s.logger.Info("campaign submitted", "campaignId", c.Id, "creatorId", c.CreatorId)
	return c, nil
}

// Get returns a campaign by id.
func (s *Service) Get(ctx context.Context, campaignID string) (*models.Campaign, error) {
	c, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrCampaignNotFound, campaignID)
		}
		return nil, fmt.Errorf("failed to get campaign %s: %w", campaignID, err)
	}
	return c, nil
}

// ListPending returns campaigns awaiting a moderation decision, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]models.Campaign, error) {
	campaigns, err := s.store.ListCampaignsByModeration(ctx, models.ModerationPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending campaigns: %w", err)
	}
	return campaigns, nil
}

// ApplyModerationDecision approves or rejects a pending campaign. Approval
// makes the campaign live.
func (s *Service) ApplyModerationDecision(ctx context.Context, campaignID string, decision models.ModerationDecision) (*models.Campaign, error) {
	c, err := s.transition(ctx, campaignID, decision.Transition(), func(c *models.Campaign) {
		c.ModerationReason = strings.TrimSpace(decision.Reason)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("campaign moderated",
		"campaignId", c.Id,
		"moderationStatus", c.ModerationStatus,
		"fundingStatus", c.FundingStatus,
	)
	return c, nil
}

// Cancel stops a live campaign. Cancelled is terminal.
func (s *Service) Cancel(ctx context.Context, campaignID string) (*models.Campaign, error) {
	c, err := s.transition(ctx, campaignID, models.TransitionCancel, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("campaign cancelled", "campaignId", c.Id)
	return c, nil
}

// CompleteFunded completes a live campaign whose raised amount reached its
// goal. It is a no-op returning the current campaign when the campaign is no
// longer live or no longer funded.
func (s *Service) CompleteFunded(ctx context.Context, campaignID string) (*models.Campaign, error) {
	var skipped bool
	c, err := s.transitionIf(ctx, campaignID, models.TransitionComplete, func(c *models.Campaign) bool {
		skipped = !c.IsLive() || !c.IsFunded()
		return !skipped
	}, nil)
	if err != nil {
		return nil, err
	}
	if !skipped {
		s.logger.Info("campaign reached its goal",
			"campaignId", c.Id,
			"raisedAmount", c.RaisedAmount.String(),
			"goalAmount", c.GoalAmount.String(),
		)
	}
	return c, nil
}

// Resubmit creates a new pending draft from a rejected campaign. Non-empty
// fields of changes replace the source's values. The rejected campaign is
// left untouched.
func (s *Service) Resubmit(ctx context.Context, campaignID string, changes Submission) (*models.Campaign, error) {
	source, err := s.Get(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if source.ModerationStatus != models.ModerationRejected {
		return nil, fmt.Errorf("%w: only rejected campaigns can be resubmitted, %s is %s",
			models.ErrInvalidStateTransition, campaignID, source.ModerationStatus)
	}

	sub := merge(source, changes)
	now := s.now().UTC()
	sub = normalize(sub)
	if err := validate(sub, now); err != nil {
		return nil, err
	}

	c := newDraft(s.newID(), sub, now)
	c.ResubmittedFrom = source.Id
	if err := s.store.CreateCampaign(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create resubmitted campaign: %w", err)
	}
	s.logger.Info("campaign resubmitted", "campaignId", c.Id, "resubmittedFrom", source.Id)
	return c, nil
}

// SweepResult summarizes one end-date sweep.
type SweepResult struct {
	Completed int
	Cancelled int
}

// SweepExpired closes live campaigns whose end date plus grace has passed.
// Funded campaigns are completed; the rest follow policy. Failures on one
// campaign do not stop the others and are returned joined.
func (s *Service) SweepExpired(ctx context.Context, policy models.ExpiryPolicy, grace time.Duration) (SweepResult, error) {
	var result SweepResult
	underGoal, err := policy.Transition()
	if err != nil {
		return result, err
	}

	cutoff := s.now().UTC().Add(-grace)
	expired, err := s.store.ListExpiredCampaigns(ctx, cutoff)
	if err != nil {
		return result, fmt.Errorf("failed to list expired campaigns: %w", err)
	}

	var errs []error
	for _, candidate := range expired {
		var applied models.CampaignTransition
		c, err := s.transitionFunc(ctx, candidate.Id, func(c *models.Campaign) (models.CampaignTransition, bool) {
			if !c.IsLive() {
				return "", false
			}
			applied = underGoal
			if c.IsFunded() {
				applied = models.TransitionComplete
			}
			return applied, true
		}, nil)
		if err != nil {
			s.logger.Error("failed to close expired campaign", "campaignId", candidate.Id, "error", err)
			errs = append(errs, err)
			continue
		}
		if applied == "" {
			continue
		}
		switch c.FundingStatus {
		case models.FundingCompleted:
			result.Completed++
		case models.FundingCancelled:
			result.Cancelled++
		}
		s.logger.Info("closed expired campaign",
			"campaignId", c.Id,
			"fundingStatus", c.FundingStatus,
			"endDate", c.EndDate,
		)
	}
	return result, errors.Join(errs...)
}

func (s *Service) transition(ctx context.Context, campaignID string, t models.CampaignTransition, mutate func(*models.Campaign)) (*models.Campaign, error) {
	return s.transitionIf(ctx, campaignID, t, nil, mutate)
}

func (s *Service) transitionIf(ctx context.Context, campaignID string, t models.CampaignTransition, guard func(*models.Campaign) bool, mutate func(*models.Campaign)) (*models.Campaign, error) {
	return s.transitionFunc(ctx, campaignID, func(c *models.Campaign) (models.CampaignTransition, bool) {
		if guard != nil && !guard(c) {
			return "", false
		}
		return t, true
	}, mutate)
}

// transitionFunc re-reads the campaign on every attempt, asks choose which
// transition applies to the fresh copy, and writes it conditioned on the
// version just read. Settlements bump the version too, so a status change
// racing a donation is retried against the new totals.
func (s *Service) transitionFunc(ctx context.Context, campaignID string, choose func(*models.Campaign) (models.CampaignTransition, bool), mutate func(*models.Campaign)) (*models.Campaign, error) {
	operation := func() (*models.Campaign, error) {
		c, err := s.Get(ctx, campaignID)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		t, ok := choose(c)
		if !ok {
			return c, nil
		}
		next, err := models.NextCampaignState(c.State(), t)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		expected := c.Version
		c.ModerationStatus = next.Moderation
		c.FundingStatus = next.Funding
		c.UpdatedAt = s.now().UTC()
		if mutate != nil {
			mutate(c)
		}
		if err := s.store.UpdateCampaignStatus(ctx, c, expected); err != nil {
			if errors.Is(err, storage.ErrVersionConflict) {
				return nil, err
			}
			if errors.Is(err, storage.ErrNotFound) {
				return nil, backoff.Permanent(fmt.Errorf("%w: %s", models.ErrCampaignNotFound, campaignID))
			}
			return nil, backoff.Permanent(fmt.Errorf("failed to update campaign %s: %w", campaignID, err))
		}
		return c, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	return backoff.Retry(ctx, operation, backoff.WithBackOff(b), backoff.WithMaxTries(s.maxTries))
}

func newDraft(id string, sub Submission, now time.Time) *models.Campaign {
	return &models.Campaign{
		Id:               id,
		CreatorId:        sub.CreatorId,
		Title:            sub.Title,
		Description:      sub.Description,
		Category:         sub.Category,
		OrganizerContact: sub.OrganizerContact,
		GoalAmount:       sub.GoalAmount,
		ModerationStatus: models.ModerationPending,
		FundingStatus:    models.FundingDraft,
		EndDate:          sub.EndDate.UTC(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func normalize(sub Submission) Submission {
	sub.CreatorId = strings.TrimSpace(sub.CreatorId)
	sub.Title = strings.TrimSpace(sub.Title)
	sub.Description = strings.TrimSpace(sub.Description)
	sub.Category = strings.TrimSpace(sub.Category)
	sub.OrganizerContact = strings.TrimSpace(sub.OrganizerContact)
	return sub
}

func validate(sub Submission, now time.Time) error {
	var fe models.FieldErrors
	if sub.CreatorId == "" {
		fe = append(fe, &models.FieldError{Field: "creatorId", Message: "creator is required", Err: models.ErrInvalidSubmission})
	}
	if sub.Title == "" {
		fe = append(fe, &models.FieldError{Field: "title", Message: "title is required", Err: models.ErrInvalidSubmission})
	}
	if !sub.GoalAmount.IsPositive() {
		fe = append(fe, models.NewFieldError("goalAmount", models.ErrInvalidGoal))
	}
	if !sub.EndDate.After(now) {
		fe = append(fe, models.NewFieldError("endDate", models.ErrInvalidEndDate))
	}
	return fe.OrNil()
}

func merge(source *models.Campaign, changes Submission) Submission {
	sub := Submission{
		CreatorId:        source.CreatorId,
		Title:            source.Title,
		Description:      source.Description,
		Category:         source.Category,
		OrganizerContact: source.OrganizerContact,
		GoalAmount:       source.GoalAmount,
		EndDate:          source.EndDate,
	}
	if changes.Title != "" {
		sub.Title = changes.Title
	}
	if changes.Description != "" {
		sub.Description = changes.Description
	}
	if changes.Category != "" {
		sub.Category = changes.Category
	}
	if changes.OrganizerContact != "" {
		sub.OrganizerContact = changes.OrganizerContact
	}
	if changes.GoalAmount != money.Zero {
		sub.GoalAmount = changes.GoalAmount
	}
	if !changes.EndDate.IsZero() {
		sub.EndDate = changes.EndDate
	}
	return sub
}
