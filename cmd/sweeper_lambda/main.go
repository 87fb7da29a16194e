package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/donation-ledger/pkg/bootstrap"
	"github.com/chris/donation-ledger/pkg/config"
	"github.com/chris/donation-ledger/pkg/sweeper"
)

var sweep *sweeper.Sweeper

func init() {
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
	sweep = app.Sweeper
}

// HandleRequest is triggered by an EventBridge Schedule. Partial failures are
// returned so the invocation is marked failed; the next run picks up the rest.
func HandleRequest(ctx context.Context) (sweeper.Report, error) {
	slog.InfoContext(ctx, "starting sweep")
	return sweep.Run(ctx)
}

func main() {
	lambda.Start(HandleRequest)
}
