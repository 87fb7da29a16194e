// Package bootstrap wires the services every binary shares from a Config.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/donation-ledger/pkg/campaigns"
	"github.com/chris/donation-ledger/pkg/config"
	"github.com/chris/donation-ledger/pkg/donations"
	"github.com/chris/donation-ledger/pkg/ledger"
	"github.com/chris/donation-ledger/pkg/payments"
	"github.com/chris/donation-ledger/pkg/queue"
	"github.com/chris/donation-ledger/pkg/receipts"
	"github.com/chris/donation-ledger/pkg/reconciliation"
	"github.com/chris/donation-ledger/pkg/storage"
	"github.com/chris/donation-ledger/pkg/storage/dynamodb"
	"github.com/chris/donation-ledger/pkg/storage/sqlite"
	"github.com/chris/donation-ledger/pkg/sweeper"
	"github.com/chris/donation-ledger/pkg/websockets"
)

// DynamoDB reads after a conditional write may lag briefly; the ledger waits
// this long before re-reading a campaign to decide on completion.
const dynamoConfirmDelay = 2 * time.Second

// App holds the wired services.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Store  storage.Storage

	// Hub is set only when progress is served in-process.
	Hub *websockets.Hub

	Campaigns      *campaigns.Service
	Donations      *donations.Service
	Ledger         *ledger.Aggregator
	Receipts       *receipts.Service
	Reconciliation *reconciliation.Service
	Sweeper        *sweeper.Sweeper

	closers []func() error
}

// Option adjusts how the App is wired.
type Option func(*options)

type options struct {
	localHub bool
	aws      *aws.Config
	provider payments.Provider
}

// WithLocalHub delivers campaign progress to WebSocket clients connected to
// this process instead of through API Gateway.
func WithLocalHub() Option {
	return func(o *options) { o.localHub = true }
}

// WithAWSConfig uses cfg instead of loading the default AWS configuration.
func WithAWSConfig(cfg aws.Config) Option {
	return func(o *options) { o.aws = &cfg }
}

// WithProvider overrides the payment provider chosen from the Config.
func WithProvider(p payments.Provider) Option {
	return func(o *options) { o.provider = p }
}

// New wires an App from cfg. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if logger == nil {
		logger = slog.Default()
	}

	app := &App{Config: cfg, Logger: logger}

	awsCfg, err := o.awsConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	confirmDelay := time.Duration(0)
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		app.Store = store
		app.closers = append(app.closers, store.Close)
	case config.BackendDynamoDB:
		app.Store = dynamodb.New(awsdynamodb.NewFromConfig(*awsCfg),
			cfg.CampaignsTable, cfg.DonationsTable, cfg.ReviewsTable, cfg.ConnectionsTable)
		confirmDelay = dynamoConfirmDelay
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	progress, err := app.progressPublisher(ctx, o, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	provider := o.provider
	if provider == nil {
		provider, err = newProvider(cfg, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
	}

	reviewQueue := newQueuePublisher(awsCfg, cfg.ReviewQueueURL)
	receiptQueue := newQueuePublisher(awsCfg, cfg.ReceiptQueueURL)

	app.Campaigns = campaigns.NewService(app.Store, campaigns.WithLogger(logger))
	app.Ledger = ledger.New(app.Store,
		ledger.WithCompleter(app.Campaigns),
		ledger.WithPublisher(progress),
		ledger.WithConfirmDelay(confirmDelay),
		ledger.WithLogger(logger),
	)
	app.Donations = donations.NewService(app.Store, app.Store, app.Ledger, provider,
		donations.WithProviderTimeout(cfg.PaymentProviderTimeout),
		donations.WithCurrency(cfg.Currency),
		donations.WithLogger(logger),
	)
	app.Receipts = receipts.NewService(app.Store, app.Store,
		&receipts.QueueDispatcher{Publisher: receiptQueue}, cfg.Currency, logger)
	app.Reconciliation = reconciliation.NewService(app.Donations, app.Store,
		reconciliation.WithReviewNotifier(reviewQueue),
		reconciliation.WithReceipts(app.Receipts),
		reconciliation.WithLogger(logger),
	)
	app.Sweeper = sweeper.New(app.Donations, app.Campaigns, app.Ledger, app.Store, sweeper.Config{
		DonationExpiry:   cfg.DonationExpiry,
		GracePeriod:      cfg.CampaignGracePeriod,
		Policy:           cfg.ExpiredCampaignPolicy,
		AuditConcurrency: cfg.AuditConcurrency,
	}, logger)

	return app, nil
}

// Close releases the store.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// awsConfig loads the AWS configuration when any configured component needs it.
func (o *options) awsConfig(ctx context.Context, cfg *config.Config) (*aws.Config, error) {
	if o.aws != nil {
		return o.aws, nil
	}
	needsAWS := cfg.StorageBackend == config.BackendDynamoDB ||
		cfg.ReviewQueueURL != "" || cfg.ReceiptQueueURL != ""
	if !needsAWS {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &awsCfg, nil
}

func (a *App) progressPublisher(ctx context.Context, o *options, cfg *config.Config) (websockets.Publisher, error) {
	switch {
	case o.localHub:
		a.Hub = websockets.NewHub(a.Store)
		return a.Hub, nil
	case cfg.WebSocketAPIEndpoint != "":
		p, err := websockets.NewPublisher(ctx, a.Store, cfg.WebSocketAPIEndpoint)
		if err != nil {
			return nil, fmt.Errorf("create progress publisher: %w", err)
		}
		return p, nil
	default:
		return &websockets.NoOpPublisher{}, nil
	}
}

func newProvider(cfg *config.Config, logger *slog.Logger) (payments.Provider, error) {
	if cfg.UsesSandboxPayments() {
		logger.Warn("no payment provider configured, using the sandbox")
		return &payments.Sandbox{Logger: logger}, nil
	}
	client, err := payments.NewClient(
		payments.WithBaseURL(cfg.PaymentProviderURL),
		payments.WithAPIKey(cfg.PaymentProviderAPIKey),
		payments.WithRetry(3),
	)
	if err != nil {
		return nil, fmt.Errorf("create payment client: %w", err)
	}
	return client, nil
}

func newQueuePublisher(awsCfg *aws.Config, url string) queue.Publisher {
	if url == "" || awsCfg == nil {
		return queue.NoOpPublisher{}
	}
	return queue.NewSQSPublisher(sqs.NewFromConfig(*awsCfg), url)
}
