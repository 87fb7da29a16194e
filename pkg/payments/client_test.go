package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/chris/donation-ledger/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name         string
		options      []ClientOption
		errorMessage string
	}{
		{name: "missing API key", options: []ClientOption{WithBaseURL("https://pay.test")}, errorMessage: "missing API key"},
		{name: "missing base URL", options: []ClientOption{WithAPIKey("k")}, errorMessage: "missing base URL"},
		{name: "valid", options: []ClientOption{WithAPIKey("k"), WithBaseURL("https://pay.test/v1/"), WithRetry(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.options...)
			if tt.errorMessage != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://pay.test/v1", client.opts.baseURL)
			assert.Equal(t, uint(3), client.opts.maxTries)
		})
	}
}

func sessionRequest() SessionRequest {
	return SessionRequest{
		CorrelationToken: "tok-1",
		DonationID:       "d1",
		CampaignID:       "c1",
		Amount:           money.FromMinor(5000),
		Currency:         "USD",
	}
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/sessions", r.URL.Path)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			assert.Equal(t, "tok-1", r.Header.Get("Idempotency-Key"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "50.00", body["amount"])
			assert.Equal(t, "d1", body["donation_id"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"sess_1","client_token":"ct_1"}`))
		}))
		defer server.Close()

		client, err := NewClient(WithAPIKey("secret"), WithBaseURL(server.URL))
		require.NoError(t, err)

		session, err := client.CreateSession(ctx, sessionRequest())

		require.NoError(t, err)
		assert.Equal(t, Session{ID: "sess_1", ClientToken: "ct_1"}, session)
	})

	t.Run("Declined", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"code":"insufficient_funds","message":"insufficient funds"}`))
		}))
		defer server.Close()

		client, err := NewClient(WithAPIKey("secret"), WithBaseURL(server.URL), WithRetry(3))
		require.NoError(t, err)

		_, err = client.CreateSession(ctx, sessionRequest())

		assert.ErrorIs(t, err, ErrDeclined)
		var declined *DeclinedError
		require.True(t, errors.As(err, &declined))
		assert.Equal(t, "insufficient funds", declined.Reason)
		assert.Equal(t, "insufficient_funds", declined.Code)
	})

	t.Run("Retries Server Errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"id":"sess_2","client_token":"ct_2"}`))
		}))
		defer server.Close()

		client, err := NewClient(WithAPIKey("secret"), WithBaseURL(server.URL), WithRetry(3))
		require.NoError(t, err)

		session, err := client.CreateSession(ctx, sessionRequest())

		require.NoError(t, err)
		assert.Equal(t, "ct_2", session.ClientToken)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("Client Errors Are Not Retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"invalid_currency","message":"currency not supported"}`))
		}))
		defer server.Close()

		client, err := NewClient(WithAPIKey("secret"), WithBaseURL(server.URL), WithRetry(3))
		require.NoError(t, err)

		_, err = client.CreateSession(ctx, sessionRequest())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "currency not supported")
		assert.NotErrorIs(t, err, ErrDeclined)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("Missing Client Token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"sess_3"}`))
		}))
		defer server.Close()

		client, err := NewClient(WithAPIKey("secret"), WithBaseURL(server.URL))
		require.NoError(t, err)

		_, err = client.CreateSession(ctx, sessionRequest())
		assert.ErrorContains(t, err, "no client token")
	})
}

func TestRefund(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/refunds", r.URL.Path)
		assert.Equal(t, "refund-ch_1", r.Header.Get("Idempotency-Key"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewClient(WithAPIKey("secret"), WithBaseURL(server.URL))
	require.NoError(t, err)

	err = client.Refund(context.Background(), RefundRequest{ProviderReference: "ch_1", Amount: 5000})
	assert.NoError(t, err)
}

func TestSandbox(t *testing.T) {
	sandbox := &Sandbox{}

	session, err := sandbox.CreateSession(context.Background(), sessionRequest())
	require.NoError(t, err)
	assert.Equal(t, "sbx_tok_tok-1", session.ClientToken)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sandbox.CreateSession(ctx, sessionRequest())
	assert.ErrorIs(t, err, context.Canceled)
}
