package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/donation-ledger/pkg/bootstrap"
	"github.com/chris/donation-ledger/pkg/config"
	wshandlers "github.com/chris/donation-ledger/pkg/handlers/websockets"
)

// Router dispatches API Gateway WebSocket events by route key.
type Router struct {
	handler *wshandlers.Handler
}

// HandleRequest routes $connect, $disconnect and everything else.
func (r *Router) HandleRequest(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.RequestContext.RouteKey {
	case "$connect":
		return r.handler.HandleConnect(ctx, request)
	case "$disconnect":
		return r.handler.HandleDisconnect(ctx, request)
	case "$default":
		return r.handler.HandleDefault(ctx, request)
	default:
		slog.WarnContext(ctx, "unknown route", "routeKey", request.RequestContext.RouteKey)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusNotFound}, nil
	}
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

	router := &Router{handler: wshandlers.NewHandler(app.Store)}
	lambda.Start(router.HandleRequest)
}
