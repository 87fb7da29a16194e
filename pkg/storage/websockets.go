package storage

import "context"

// ConnectionStore defines the interface for storing WebSocket subscribers of campaign progress.
type ConnectionStore interface {
	AddConnection(ctx context.Context, connectionID, campaignID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
	ListConnections(ctx context.Context, campaignID string) ([]string, error)
}
