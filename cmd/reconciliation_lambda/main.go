package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/donation-ledger/pkg/api"
	"github.com/chris/donation-ledger/pkg/bootstrap"
	"github.com/chris/donation-ledger/pkg/config"
	"github.com/chris/donation-ledger/pkg/mapping"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/reconciliation"
)

// EventProcessor applies one provider confirmation.
type EventProcessor interface {
	Process(ctx context.Context, ev models.ReconciliationEvent) (reconciliation.Result, error)
}

// Consumer settles donations from provider events delivered through SQS.
type Consumer struct {
	processor EventProcessor
	logger    *slog.Logger
}

// HandleRequest processes a batch of SQS messages. Messages that can never
// succeed are dropped after logging; transient failures are reported back
// so SQS redelivers only those.
func (c *Consumer) HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, message := range sqsEvent.Records {
		logger := c.logger.With("messageId", message.MessageId)

		var payload api.PaymentEvent
		if err := json.Unmarshal([]byte(message.Body), &payload); err != nil {
			logger.Error("dropping unreadable payment event", "error", err)
			continue
		}
		ev, err := mapping.ToDomainReconciliationEvent(&payload)
		if err != nil {
			logger.Error("dropping malformed payment event", "error", err)
			continue
		}

		res, err := c.processor.Process(ctx, ev)
		if errors.Is(err, models.ErrMalformedEvent) {
			logger.Error("dropping malformed payment event", "providerReference", ev.ProviderReference, "error", err)
			continue
		}
		if err != nil {
			logger.Error("failed to process payment event, will retry", "providerReference", ev.ProviderReference, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
			continue
		}

		logger.Info("processed payment event",
			"providerReference", ev.ProviderReference,
			"resolution", res.Resolution,
			"donationId", res.DonationID,
		)
	}
	return resp, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	app, err := bootstrap.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to wire services", "error", err)
		os.Exit(1)
	}

	consumer := &Consumer{processor: app.Reconciliation, logger: logger}
	lambda.Start(consumer.HandleRequest)
}
