package websockets

import (
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/money"
)

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeCampaignProgress is for messages that update a campaign's raised total.
	MessageTypeCampaignProgress MessageType = "campaignProgress"
)

// Message represents a generic WebSocket message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// CampaignProgressPayload is the payload for a campaignProgress message.
type CampaignProgressPayload struct {
	CampaignID    string               `json:"campaign_id"`
	RaisedAmount  money.Money          `json:"raised_amount"`
	GoalAmount    money.Money          `json:"goal_amount"`
	DonorCount    int64                `json:"donor_count"`
	PercentFunded string               `json:"percent_funded"`
	FundingStatus models.FundingStatus `json:"funding_status"`
}

// NewCampaignProgress builds the progress message for c.
func NewCampaignProgress(c *models.Campaign) Message {
	return Message{
		Type: MessageTypeCampaignProgress,
		Payload: CampaignProgressPayload{
			CampaignID:    c.Id,
			RaisedAmount:  c.RaisedAmount,
			GoalAmount:    c.GoalAmount,
			DonorCount:    c.DonorCount,
			PercentFunded: c.RaisedAmount.PercentOf(c.GoalAmount).StringFixed(2),
			FundingStatus: c.FundingStatus,
		},
	}
}
