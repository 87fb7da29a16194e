// Package receipts builds the snapshot handed to the external receipt
// renderer once a donation has settled.
package receipts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/money"
	"github.com/chris/donation-ledger/pkg/queue"
	"github.com/chris/donation-ledger/pkg/storage"
)

// MessageTypeReceipt is the queue message type of a dispatched receipt.
const MessageTypeReceipt = "donationReceipt"

// ErrNotSettled is returned when a receipt is requested for a donation that never settled.
var ErrNotSettled = errors.New("donation has not settled")

// Snapshot is an immutable copy of a settled donation and the campaign it
// funded, as of the moment the receipt was issued.
type Snapshot struct {
	ReceiptNumber     string                  `json:"receipt_number"`
	DonationID        string                  `json:"donation_id"`
	CampaignID        string                  `json:"campaign_id"`
	CampaignTitle     string                  `json:"campaign_title"`
	OrganizerContact  string                  `json:"organizer_contact,omitempty"`
	Amount            money.Money             `json:"amount"`
	Currency          string                  `json:"currency"`
	DonorID           string                  `json:"donor_id,omitempty"`
	DonorName         string                  `json:"donor_name"`
	Anonymous         bool                    `json:"anonymous"`
	Message           string                  `json:"message,omitempty"`
	ProviderReference string                  `json:"provider_reference"`
	Status            models.SettlementStatus `json:"status"`
	SettledAt         time.Time               `json:"settled_at"`
	IssuedAt          time.Time               `json:"issued_at"`
}

// Build creates the receipt snapshot. Only settled or refunded donations
// have receipts.
func Build(d *models.Donation, c *models.Campaign, currency string, issuedAt time.Time) (Snapshot, error) {
	if d.SettlementStatus != models.SettlementSettled && d.SettlementStatus != models.SettlementRefunded {
		return Snapshot{}, fmt.Errorf("%w: donation %s is %s", ErrNotSettled, d.Id, d.SettlementStatus)
	}
	s := Snapshot{
		ReceiptNumber:     "R-" + d.Id,
		DonationID:        d.Id,
		CampaignID:        c.Id,
		CampaignTitle:     c.Title,
		OrganizerContact:  c.OrganizerContact,
		Amount:            d.Amount,
		Currency:          currency,
		DonorID:           d.Donor.DonorId,
		DonorName:         d.Donor.PublicName(),
		Anonymous:         d.Donor.Anonymous,
		Message:           d.Message,
		ProviderReference: d.ProviderReference,
		Status:            d.SettlementStatus,
		IssuedAt:          issuedAt.UTC(),
	}
	if d.SettledAt != nil {
		s.SettledAt = d.SettledAt.UTC()
	}
	return s, nil
}

// Dispatcher hands receipts to the external renderer.
type Dispatcher interface {
	Dispatch(ctx context.Context, s Snapshot) error
}

// QueueDispatcher sends receipts to the renderer's queue.
type QueueDispatcher struct {
	Publisher queue.Publisher
}

// Dispatch publishes the snapshot as a receipt message.
func (q *QueueDispatcher) Dispatch(ctx context.Context, s Snapshot) error {
	return q.Publisher.Publish(ctx, MessageTypeReceipt, s)
}

// Service issues receipts for stored donations.
type Service struct {
	donations  storage.DonationReader
	campaigns  storage.CampaignReader
	dispatcher Dispatcher
	currency   string
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a receipt Service. dispatcher may be nil when receipts
// are only fetched, never sent.
func NewService(donations storage.DonationReader, campaigns storage.CampaignReader, dispatcher Dispatcher, currency string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		donations:  donations,
		campaigns:  campaigns,
		dispatcher: dispatcher,
		currency:   currency,
		logger:     logger,
		now:        time.Now,
	}
}

// Get returns the receipt snapshot for a donation.
func (s *Service) Get(ctx context.Context, donationID string) (Snapshot, error) {
	d, err := s.donations.GetDonation(ctx, donationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Snapshot{}, fmt.Errorf("%w: %s", models.ErrDonationNotFound, donationID)
		}
		return Snapshot{}, fmt.Errorf("failed to get donation %s: %w", donationID, err)
	}
	return s.snapshot(ctx, d)
}

// Send builds the receipt of a settled donation and dispatches it.
func (s *Service) Send(ctx context.Context, d *models.Donation) error {
	if s.dispatcher == nil {
		return nil
	}
	snap, err := s.snapshot(ctx, d)
	if err != nil {
		return err
	}
	if err := s.dispatcher.Dispatch(ctx, snap); err != nil {
		return fmt.Errorf("failed to dispatch receipt %s: %w", snap.ReceiptNumber, err)
	}
	s.logger.Info("receipt dispatched", "donationId", d.Id, "receiptNumber", snap.ReceiptNumber)
	return nil
}

func (s *Service) snapshot(ctx context.Context, d *models.Donation) (Snapshot, error) {
	c, err := s.campaigns.GetCampaign(ctx, d.CampaignId)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load campaign for receipt: %w", err)
	}
	return Build(d, c, s.currency, s.now())
}
