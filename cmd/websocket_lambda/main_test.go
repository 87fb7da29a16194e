package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	wshandlers "github.com/chris/donation-ledger/pkg/handlers/websockets"
	"github.com/chris/donation-ledger/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func event(routeKey string) events.APIGatewayWebsocketProxyRequest {
	return events.APIGatewayWebsocketProxyRequest{
		RequestContext:        events.APIGatewayWebsocketProxyRequestContext{RouteKey: routeKey, ConnectionID: "conn-1"},
		QueryStringParameters: map[string]string{wshandlers.CampaignQueryParam: "camp-1"},
	}
}

func TestRouter(t *testing.T) {
	t.Run("Connect", func(t *testing.T) {
		store := mocks.NewStorage(t)
		store.On("AddConnection", mock.Anything, "conn-1", "camp-1").Return(nil)

		resp, err := (&Router{handler: wshandlers.NewHandler(store)}).HandleRequest(context.Background(), event("$connect"))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Disconnect", func(t *testing.T) {
		store := mocks.NewStorage(t)
		store.On("RemoveConnection", mock.Anything, "conn-1").Return(nil)

		resp, err := (&Router{handler: wshandlers.NewHandler(store)}).HandleRequest(context.Background(), event("$disconnect"))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Default Ignores Messages", func(t *testing.T) {
		resp, err := (&Router{handler: wshandlers.NewHandler(mocks.NewStorage(t))}).HandleRequest(context.Background(), event("$default"))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Unknown Route", func(t *testing.T) {
		resp, err := (&Router{handler: wshandlers.NewHandler(mocks.NewStorage(t))}).HandleRequest(context.Background(), event("subscribe"))

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
