package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/chris/donation-ledger/pkg/api"
	"github.com/chris/donation-ledger/pkg/handlers/respond"
	"github.com/chris/donation-ledger/pkg/mapping"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/payments"
	"github.com/chris/donation-ledger/pkg/reconciliation"
)

const maxPayloadBytes = 64 << 10

// EventProcessor applies a provider confirmation.
type EventProcessor interface {
	Process(ctx context.Context, ev models.ReconciliationEvent) (reconciliation.Result, error)
}

// WebhooksHandler receives payment provider callbacks.
type WebhooksHandler struct {
	Processor EventProcessor
	// Secret verifies the signature header. An empty secret skips verification,
	// which is only valid against the sandbox provider.
	Secret []byte
}

// NewWebhooksHandler creates a new WebhooksHandler.
func NewWebhooksHandler(processor EventProcessor, secret string) *WebhooksHandler {
	return &WebhooksHandler{Processor: processor, Secret: []byte(secret)}
}

// ReceivePaymentEvent verifies and processes one provider confirmation.
// Orphaned and conflicting events are acknowledged with 200 once they are
// queued for review; only transient failures ask the provider to redeliver.
func (h *WebhooksHandler) ReceivePaymentEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if len(body) > maxPayloadBytes {
		respond.Message(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}
	if len(h.Secret) > 0 && !payments.VerifySignature(h.Secret, body, r.Header.Get(payments.SignatureHeader)) {
		slog.WarnContext(r.Context(), "rejected payment webhook with bad signature")
		respond.Message(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var payload api.PaymentEvent
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&payload); err != nil {
		respond.Message(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	ev, err := mapping.ToDomainReconciliationEvent(&payload)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := h.Processor.Process(r.Context(), ev)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiPaymentEventAck(res))
}
