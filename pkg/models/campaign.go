package models

import (
	"fmt"
	"time"

	"github.com/chris/donation-ledger/pkg/money"
)

// ModerationStatus is the administrative approval state of a campaign.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// FundingStatus is the money-driven state of a campaign.
type FundingStatus string

const (
	FundingDraft     FundingStatus = "draft"
	FundingLive      FundingStatus = "live"
	FundingCompleted FundingStatus = "completed"
	FundingCancelled FundingStatus = "cancelled"
)

// CampaignTransition names an event that may move a campaign between states.
type CampaignTransition string

const (
	// TransitionApprove is a moderator approving a pending campaign.
	TransitionApprove CampaignTransition = "approve"
	// TransitionReject is a moderator rejecting a pending campaign.
	TransitionReject CampaignTransition = "reject"
	// TransitionCancel is a manual cancellation or an expiry under the cancel policy.
	TransitionCancel CampaignTransition = "cancel"
	// TransitionComplete is the goal being reached or an expiry under the complete policy.
	TransitionComplete CampaignTransition = "complete"
)

// CampaignState is the pair of independent state machines carried by a campaign.
type CampaignState struct {
	Moderation ModerationStatus
	Funding    FundingStatus
}

type campaignEdge struct {
	from CampaignState
	on   CampaignTransition
}

// campaignTransitions is the only place campaign states are allowed to change.
// Moderation gates funding: only an approved campaign may ever be live.
var campaignTransitions = map[campaignEdge]CampaignState{
	{CampaignState{ModerationPending, FundingDraft}, TransitionApprove}:  {ModerationApproved, FundingLive},
	{CampaignState{ModerationPending, FundingDraft}, TransitionReject}:   {ModerationRejected, FundingDraft},
	{CampaignState{ModerationApproved, FundingLive}, TransitionCancel}:   {ModerationApproved, FundingCancelled},
	{CampaignState{ModerationApproved, FundingLive}, TransitionComplete}: {ModerationApproved, FundingCompleted},
}

// NextCampaignState returns the state reached by applying t to s, or
// ErrInvalidStateTransition when the table has no such edge.
func NextCampaignState(s CampaignState, t CampaignTransition) (CampaignState, error) {
	next, ok := campaignTransitions[campaignEdge{from: s, on: t}]
	if !ok {
		return s, fmt.Errorf("%w: cannot %s campaign in %s/%s", ErrInvalidStateTransition, t, s.Moderation, s.Funding)
	}
	return next, nil
}

// IsTerminal reports whether no transition leaves s.
func (s CampaignState) IsTerminal() bool {
	return s.Moderation == ModerationRejected || s.Funding == FundingCompleted || s.Funding == FundingCancelled
}

// Campaign is the platform-owned aggregate for one fundraiser.
// RaisedAmount and DonorCount are derived from settled donations and are only
// written by the ledger.
type Campaign struct {
	Id               string           `dynamodbav:"id"`
	CreatorId        string           `dynamodbav:"creator_id"`
	Title            string           `dynamodbav:"title"`
	Description      string           `dynamodbav:"description"`
	Category         string           `dynamodbav:"category"`
	OrganizerContact string           `dynamodbav:"organizer_contact"`
	GoalAmount       money.Money      `dynamodbav:"goal_amount"`
	RaisedAmount     money.Money      `dynamodbav:"raised_amount"`
	DonorCount       int64            `dynamodbav:"donor_count"`
	ModerationStatus ModerationStatus `dynamodbav:"moderation_status"`
	FundingStatus    FundingStatus    `dynamodbav:"funding_status"`
	ModerationReason string           `dynamodbav:"moderation_reason,omitempty"`
	ResubmittedFrom  string           `dynamodbav:"resubmitted_from,omitempty"`
	EndDate          time.Time        `dynamodbav:"end_date"`
	Version          int64            `dynamodbav:"version"`
	CreatedAt        time.Time        `dynamodbav:"created_at"`
	UpdatedAt        time.Time        `dynamodbav:"updated_at"`
}

// State returns the campaign's current moderation and funding status.
func (c *Campaign) State() CampaignState {
	return CampaignState{Moderation: c.ModerationStatus, Funding: c.FundingStatus}
}

// IsLive reports whether the campaign accepts new donations.
func (c *Campaign) IsLive() bool {
	return c.FundingStatus == FundingLive
}

// IsFunded reports whether the raised total has reached the goal.
func (c *Campaign) IsFunded() bool {
	return c.RaisedAmount >= c.GoalAmount
}

// Totals returns the ledger-derived figures of the campaign.
func (c *Campaign) Totals() Totals {
	return Totals{RaisedAmount: c.RaisedAmount, DonorCount: c.DonorCount}
}

// Totals is the derived aggregate of a campaign's donations.
type Totals struct {
	RaisedAmount money.Money
	DonorCount   int64
}

// ComputeTotals derives a campaign's totals from its full donation history.
// Settled donations contribute to the raised amount. Refunded donations no
// longer contribute money but still count as a participation.
func ComputeTotals(donations []Donation) Totals {
	var t Totals
	for _, d := range donations {
		switch d.SettlementStatus {
		case SettlementSettled:
			t.RaisedAmount = t.RaisedAmount.Add(d.Amount)
			t.DonorCount++
		case SettlementRefunded:
			t.DonorCount++
		}
	}
	return t
}

// ModerationDecision is an admin's verdict on a pending campaign.
type ModerationDecision struct {
	Approve bool
	Reason  string
}

// Transition returns the campaign transition matching the decision.
func (d ModerationDecision) Transition() CampaignTransition {
	if d.Approve {
		return TransitionApprove
	}
	return TransitionReject
}

// ExpiryPolicy decides what happens to a live, under-goal campaign after its end date and grace period.
type ExpiryPolicy string

const (
	ExpiryComplete ExpiryPolicy = "complete"
	ExpiryCancel   ExpiryPolicy = "cancel"
)

// Transition maps the policy to the campaign transition it applies.
func (p ExpiryPolicy) Transition() (CampaignTransition, error) {
	switch p {
	case ExpiryComplete:
		return TransitionComplete, nil
	case ExpiryCancel:
		return TransitionCancel, nil
	default:
		return "", fmt.Errorf("unknown expiry policy %q", p)
	}
}
