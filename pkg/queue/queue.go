// Package queue publishes JSON messages to asynchronous consumers.
package queue

import "context"

// Publisher sends one message of the given type to a queue.
type Publisher interface {
	Publish(ctx context.Context, messageType string, payload any) error
}

// NoOpPublisher drops every message. It stands in when no queue is configured.
type NoOpPublisher struct{}

// Publish does nothing.
func (NoOpPublisher) Publish(ctx context.Context, messageType string, payload any) error {
	return nil
}
