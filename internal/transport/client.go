// Package transport talks to the content REST backend: collection reads,
// record deletes, create/update submissions and sign-in.
package transport

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

	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/routing"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID correlates console requests with backend logs.
	HeaderRequestID = "X-Request-ID"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 1 << 20
)

var ErrRoutesRequired = errors.New("transport: routes are required")

// SignInPolicy bounds the sign-in retry loop.
type SignInPolicy struct {
	Retries int
	Delay   time.Duration
}

// Config holds the settings for a Client.
type Config struct {
	Token   string
	Timeout time.Duration
	SignIn  SignInPolicy
}

// Option customises a Client.
type Option func(*Client)

// Client is safe for concurrent use.
type Client struct {
	routes     *routing.Routes
	httpClient *http.Client
	logger     interfaces.Logger
	requestID  func() string
	sleep      func(context.Context, time.Duration) error
	signIn     SignInPolicy

	token tokenStore
}

// WithHTTPClient overrides the HTTP client; its Timeout is left untouched.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger interfaces.Logger) Option {
	return func(client *Client) {
		client.logger = logging.Ensure(logger)
	}
}

// WithRequestIDGenerator replaces the uuid-based request id generator.
func WithRequestIDGenerator(fn func() string) Option {
	return func(client *Client) {
		if fn != nil {
			client.requestID = fn
		}
	}
}

// WithSleeper replaces the delay used between sign-in attempts.
func WithSleeper(fn func(context.Context, time.Duration) error) Option {
	return func(client *Client) {
		if fn != nil {
			client.sleep = fn
		}
	}
}

// NewClient builds a client that resolves endpoints through routes.
func NewClient(routes *routing.Routes, cfg Config, opts ...Option) (*Client, error) {
	if routes == nil {
		return nil, ErrRoutesRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &Client{
		routes:     routes,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NoOp(),
		requestID:  uuid.NewString,
		sleep:      sleepContext,
		signIn:     cfg.SignIn,
	}
	if client.signIn.Retries < 0 {
		client.signIn.Retries = 0
	}
	client.token.Set(cfg.Token)
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SetToken replaces the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.token.Set(token)
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.token.Get()
}

// Routes exposes the route set used by the client.
func (c *Client) Routes() *routing.Routes {
	return c.routes
}

// List reads the full collection of resource and returns the raw body so the
// caller can apply its own envelope unwrapping.
func (c *Client) List(ctx context.Context, resource string) ([]byte, error) {
	endpoint, err := c.routes.Collection(resource)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodGet, endpoint, nil, "")
}

// Delete removes one record.
func (c *Client) Delete(ctx context.Context, resource string, id int64) error {
	endpoint, err := c.routes.Record(resource, id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodDelete, endpoint, nil, "")
	return err
}

// Create submits a new record and returns the response body.
func (c *Client) Create(ctx context.Context, resource string, payload Payload) ([]byte, error) {
	endpoint, err := c.routes.Collection(resource)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, http.MethodPost, endpoint, payload)
}

// Update replaces one record and returns the response body.
func (c *Client) Update(ctx context.Context, resource string, id int64, payload Payload) ([]byte, error) {
	endpoint, err := c.routes.Record(resource, id)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, http.MethodPut, endpoint, payload)
}

func (c *Client) submit(ctx context.Context, method, endpoint string, payload Payload) ([]byte, error) {
	body, contentType, err := payload.Encode()
	if err != nil {
		return nil, err
	}
	return c.do(ctx, method, endpoint, body, contentType)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, contentType string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}

	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token.Get(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger := logging.WithFields(c.logger, map[string]any{
		"method":     method,
		"url":        endpoint,
		"request_id": requestID,
	})
	started := time.Now()
	logger.Debug("transport.request.start")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("transport.request.unreachable", "error", err)
		return nil, categorise(&Error{Kind: KindTransport, Method: method, URL: endpoint, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := readErrorResponse(resp, method, endpoint)
		logger.Warn("transport.request.rejected", "status", resp.StatusCode, "message", apiErr.Message)
		return nil, categorise(apiErr)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("transport.request.read_failed", "error", err)
		return nil, categorise(&Error{Kind: KindTransport, Method: method, URL: endpoint, Status: resp.StatusCode, Err: err})
	}
	logger.Debug("transport.request.success",
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return data, nil
}

// errorBody accepts the error shapes the backend family is known to emit:
// {"message": "..."}, {"error": "..."}, {"errors": [{"message": "..."}]}
// and the 422 field map {"errors": {"field": ["..."]}}.
type errorBody struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

type errorEntry struct {
	Message string `json:"message"`
}

func readErrorResponse(resp *http.Response, method, endpoint string) *Error {
	apiErr := &Error{
		Kind:   KindApplication,
		Method: method,
		URL:    endpoint,
		Status: resp.StatusCode,
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(body.Message)
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(body.Error)
	}

	if len(body.Errors) > 0 {
		var fields map[string][]string
		if err := json.Unmarshal(body.Errors, &fields); err == nil && len(fields) > 0 {
			apiErr.Fields = fields
			if resp.StatusCode == http.StatusUnprocessableEntity {
				apiErr.Kind = KindValidation
			}
		} else {
			var entries []errorEntry
			if err := json.Unmarshal(body.Errors, &entries); err == nil && len(entries) > 0 && apiErr.Message == "" {
				apiErr.Message = strings.TrimSpace(entries[0].Message)
			}
		}
	}
	return apiErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
