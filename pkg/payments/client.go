package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type clientOption struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxTries   uint
}

// ClientOption configures a Client.
type ClientOption func(*clientOption)

// WithAPIKey sets the bearer token sent to the provider.
func WithAPIKey(key string) ClientOption {
	return func(opt *clientOption) {
		opt.apiKey = key
	}
}

// WithBaseURL sets the provider API root, e.g. "https://api.provider.test/v1".
func WithBaseURL(url string) ClientOption {
	return func(opt *clientOption) {
		opt.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(opt *clientOption) {
		opt.httpClient = c
	}
}

// WithRetry retries transient failures up to maxTries attempts in total.
func WithRetry(maxTries uint) ClientOption {
	return func(opt *clientOption) {
		opt.maxTries = maxTries
	}
}

// Client is the HTTP implementation of Provider.
type Client struct {
	opts clientOption
}

var _ Provider = (*Client)(nil)

// NewClient creates a provider client. An API key and base URL are required.
func NewClient(options ...ClientOption) (*Client, error) {
	opts := clientOption{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxTries:   1,
	}
	for _, option := range options {
		option(&opts)
	}

	if opts.apiKey == "" {
		return nil, errors.New("payments: missing API key")
	}
	if opts.baseURL == "" {
		return nil, errors.New("payments: missing base URL")
	}
	if opts.maxTries == 0 {
		opts.maxTries = 1
	}
	return &Client{opts: opts}, nil
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type retryable interface {
	CanRetry() bool
}

type retryableError struct {
	Err      error
	canRetry bool
}

func (e retryableError) Error() string {
	return e.Err.Error()
}

func (e retryableError) Unwrap() error {
	return e.Err
}

func (e retryableError) CanRetry() bool {
	return e.canRetry
}

// CreateSession opens a checkout session. The correlation token is sent as
// the Idempotency-Key so a retried call never opens a second session.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/sessions", req.CorrelationToken, req, &session); err != nil {
		return Session{}, fmt.Errorf("create payment session: %w", err)
	}
	if session.ClientToken == "" {
		return Session{}, errors.New("create payment session: provider returned no client token")
	}
	return session, nil
}

// Refund reverses a settled charge.
func (c *Client) Refund(ctx context.Context, req RefundRequest) error {
	if err := c.do(ctx, http.MethodPost, "/refunds", "refund-"+req.ProviderReference, req, nil); err != nil {
		return fmt.Errorf("refund %s: %w", req.ProviderReference, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint, idempotencyKey string, body, out any) error {
	operation := func() (struct{}, error) {
		err := c.makeRequest(ctx, method, endpoint, idempotencyKey, body, out)
		var re retryable
		if err != nil && (!errors.As(err, &re) || !re.CanRetry()) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.opts.maxTries),
	)
	return err
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint, idempotencyKey string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.opts.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.opts.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("failed to make request: %w", err)
		}
		return retryableError{Err: fmt.Errorf("failed to make request: %w", err), canRetry: true}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return retryableError{Err: fmt.Errorf("failed to read response body: %w", err), canRetry: true}
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.Unmarshal(respBody, &apiErr)
		switch {
		case resp.StatusCode == http.StatusPaymentRequired:
			return &DeclinedError{Code: apiErr.Code, Reason: apiErr.Message}
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return retryableError{Err: fmt.Errorf("HTTP error: %d %s", resp.StatusCode, apiErr.Message), canRetry: true}
		default:
			return fmt.Errorf("HTTP error: %d (%s) %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
