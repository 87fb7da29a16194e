package websockets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/chris/donation-ledger/pkg/models"
	"github.com/chris/donation-ledger/pkg/storage/mocks"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPoster struct {
	mock.Mock
}

func (m *mockPoster) PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error) {
	args := m.Called(ctx, *params.ConnectionId)
	if out := args.Get(0); out != nil {
		return out.(*apigatewaymanagementapi.PostToConnectionOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func testCampaign() *models.Campaign {
	return &models.Campaign{Id: "c1", GoalAmount: 100000, RaisedAmount: 110000, DonorCount: 2, FundingStatus: models.FundingCompleted}
}

func TestNewCampaignProgress(t *testing.T) {
	msg := NewCampaignProgress(testCampaign())

	out, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"campaignProgress","payload":{"campaign_id":"c1","raised_amount":"1100.00","goal_amount":"1000.00","donor_count":2,"percent_funded":"110.00","funding_status":"completed"}}`, string(out))
}

func TestDefaultPublisherPublish(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := new(mocks.Storage)
		poster := new(mockPoster)
		store.On("ListConnections", mock.Anything, "c1").Return([]string{"conn-1", "conn-2"}, nil).Once()
		poster.On("PostToConnection", mock.Anything, "conn-1").Return(&apigatewaymanagementapi.PostToConnectionOutput{}, nil).Once()
		poster.On("PostToConnection", mock.Anything, "conn-2").Return(&apigatewaymanagementapi.PostToConnectionOutput{}, nil).Once()

		err := NewPublisherWithClient(store, poster).Publish(context.Background(), "c1", NewCampaignProgress(testCampaign()))

		assert.NoError(t, err)
		store.AssertExpectations(t)
		poster.AssertExpectations(t)
	})

	t.Run("Removes Gone Connections", func(t *testing.T) {
		store := new(mocks.Storage)
		poster := new(mockPoster)
		store.On("ListConnections", mock.Anything, "c1").Return([]string{"conn-1"}, nil).Once()
		store.On("RemoveConnection", mock.Anything, "conn-1").Return(nil).Once()
		poster.On("PostToConnection", mock.Anything, "conn-1").Return(nil, &apigwtypes.GoneException{}).Once()

		err := NewPublisherWithClient(store, poster).Publish(context.Background(), "c1", NewCampaignProgress(testCampaign()))

		assert.NoError(t, err)
		store.AssertExpectations(t)
		poster.AssertExpectations(t)
	})

	t.Run("List Fails", func(t *testing.T) {
		store := new(mocks.Storage)
		store.On("ListConnections", mock.Anything, "c1").Return(nil, errors.New("boom")).Once()

		err := NewPublisherWithClient(store, new(mockPoster)).Publish(context.Background(), "c1", Message{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list connections")
	})
}

func TestHubPublish(t *testing.T) {
	hub := NewHub(nil)
	upgrader := websocket.Upgrader{}
	registered := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = hub.Register(r.Context(), "local-1", r.URL.Query().Get("campaignId"), conn)
		close(registered)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?campaignId=c1"
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not registered")
	}

	require.NoError(t, hub.Publish(context.Background(), "other", NewCampaignProgress(testCampaign())))
	require.NoError(t, hub.Publish(context.Background(), "c1", NewCampaignProgress(testCampaign())))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got struct {
		Type    MessageType             `json:"type"`
		Payload CampaignProgressPayload `json:"payload"`
	}
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, MessageTypeCampaignProgress, got.Type)
	assert.Equal(t, "c1", got.Payload.CampaignID)
	assert.Equal(t, "110.00", got.Payload.PercentFunded)
}
