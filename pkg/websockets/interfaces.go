package websockets

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
)

// ConnectionManager defines the interface for managing WebSocket connections.
type ConnectionManager interface {
	AddConnection(ctx context.Context, connectionID, campaignID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
}

// ConnectionLister lists the connections subscribed to a campaign.
type ConnectionLister interface {
	ListConnections(ctx context.Context, campaignID string) ([]string, error)
}

// Publisher defines the interface for publishing messages to WebSocket clients.
type Publisher interface {
	Publish(ctx context.Context, campaignID string, message Message) error
}

// PostToConnectionAPI is the part of the API Gateway Management API the publisher needs.
type PostToConnectionAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}
