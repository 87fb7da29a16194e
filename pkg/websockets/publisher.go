package websockets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"golang.org/x/sync/errgroup"
)

// ConnectionStore is what the publisher needs from connection storage.
type ConnectionStore interface {
	ConnectionLister
	ConnectionManager
}

// DefaultPublisher posts messages to API Gateway WebSocket connections.
type DefaultPublisher struct {
	store       ConnectionStore
	apiGwClient PostToConnectionAPI
}

// NewPublisher creates a new DefaultPublisher for the given API Gateway endpoint.
func NewPublisher(ctx context.Context, store ConnectionStore, apiEndpoint string) (*DefaultPublisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	apiGwClient := apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(apiEndpoint)
	})

	return NewPublisherWithClient(store, apiGwClient), nil
}

// NewPublisherWithClient creates a DefaultPublisher over an existing client.
func NewPublisherWithClient(store ConnectionStore, client PostToConnectionAPI) *DefaultPublisher {
	return &DefaultPublisher{
		store:       store,
		apiGwClient: client,
	}
}

// maxConcurrentPosts bounds the PostToConnection calls in flight per publish.
const maxConcurrentPosts = 8

// Publish sends a message to every client subscribed to campaignID.
// Connections that API Gateway reports as gone are removed. Delivery is best
// effort: only failing to list subscribers is returned.
func (p *DefaultPublisher) Publish(ctx context.Context, campaignID string, message Message) error {
	connectionIDs, err := p.store.ListConnections(ctx, campaignID)
	if err != nil {
		return fmt.Errorf("failed to list connections: %w", err)
	}
	if len(connectionIDs) == 0 {
		return nil
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	var delivered atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPosts)
	for _, connectionID := range connectionIDs {
		g.Go(func() error {
			p.post(gctx, connectionID, payload, &delivered)
			return nil
		})
	}
	_ = g.Wait()

	slog.Debug("published campaign progress",
		"campaignId", campaignID,
		"subscribers", len(connectionIDs),
		"delivered", delivered.Load(),
	)
	return nil
}

func (p *DefaultPublisher) post(ctx context.Context, connectionID string, payload []byte, delivered *atomic.Int64) {
	_, err := p.apiGwClient.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
		ConnectionId: aws.String(connectionID),
		Data:         payload,
	})
	var goneErr *apigwtypes.GoneException
	switch {
	case err == nil:
		delivered.Add(1)
	case errors.As(err, &goneErr):
		slog.Info("stale connection found, deleting", "connectionId", connectionID)
		if err := p.store.RemoveConnection(ctx, connectionID); err != nil {
			slog.Error("failed to delete stale connection", "connectionId", connectionID, "error", err)
		}
	default:
		slog.Error("failed to post to connection", "connectionId", connectionID, "error", err)
	}
}
