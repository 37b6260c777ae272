// Package ibmq is a thin client for the IBM Quantum Runtime REST API.
// It covers the slice of the service this repository needs: listing
// backends with their live queue status, submitting sampler jobs, and
// polling a job to completion or retrieving one by ID later.
package ibmq

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
)

const defaultBaseURL = "https://api.quantum-computing.ibm.com/runtime"

// ErrUnauthorized is returned when the service rejects the API key or
// instance CRN. It is fatal: callers must not retry with the same
// credentials.
var ErrUnauthorized = errors.New("ibmq: invalid credentials")

// ErrJobNotFound is returned when a job ID is unknown to the service or
// its results have aged out of retention.
var ErrJobNotFound = errors.New("ibmq: job not found")

// Client talks to the Runtime API with a fixed credential pair. It is
// safe for concurrent use, though this repository only ever drives it
// from a single goroutine.
type Client struct {
	apiKey       string
	instance     string
	baseURL      string
	httpClient   *http.Client
	retry        RetryPolicy
	pollInterval time.Duration
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithRetryPolicy sets the bounded backoff applied to transient errors
// while polling a job. Submission and backend listing are never
// retried; those failures surface immediately.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) { c.retry = normalizeRetryPolicy(policy) }
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// New builds a client from the two IBM Quantum secrets. Both are
// required; there is no anonymous access to the Runtime API.
func New(apiKey, instance string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("IBM_API_KEY is required")
	}
	if strings.TrimSpace(instance) == "" {
		return nil, fmt.Errorf("QISKIT_IBM_INSTANCE is required")
	}
	c := &Client{
		apiKey:   strings.TrimSpace(apiKey),
		instance: strings.TrimSpace(instance),
		baseURL:  defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		retry:        defaultRetryPolicy(),
		pollInterval: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do issues one request and decodes the JSON response into out when out
// is non-nil. Authentication failures map to ErrUnauthorized; any other
// non-2xx status surfaces as an APIError with the response body. Job
// endpoints translate 404s to ErrJobNotFound themselves, since a 404
// from a backend endpoint means something else.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Service-CRN", c.instance)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("runtime request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read runtime response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w (%d): %s", ErrUnauthorized, resp.StatusCode, strings.TrimSpace(string(raw)))
	case resp.StatusCode >= 300:
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode runtime response: %w", err)
	}
	return nil
}

// APIError is a non-auth service error carried verbatim.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("runtime API error (%d): %s", e.StatusCode, e.Body)
}

// transient reports whether an error is worth retrying during a poll
// loop: network-level failures and 5xx responses. Credential and
// not-found errors are never transient.
func transient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrJobNotFound) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Anything else at this point came from the transport.
	return true
}
