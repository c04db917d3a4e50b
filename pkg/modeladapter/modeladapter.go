package modeladapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/germanamz/pdfask/pkg/chats/chat"
	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/modeladapter/usage"
)

// Completer sends a conversation to a chat-completion API and returns the
// assistant's reply.
type Completer interface {
	Complete(ctx context.Context, c *chat.Chat) (message.Message, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, c *chat.Chat) (message.Message, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, c *chat.Chat) (message.Message, error) {
	return f(ctx, c)
}

// UsageReporter provides token usage information from a completer.
// Providers embedding ModelAdapter implement it.
type UsageReporter interface {
	UsageTracker() *usage.Tracker
	ModelMaxTokens() int
}

// ModelAdapter holds what every OpenAI-style provider shares: the endpoint,
// the bearer key, sampling settings and usage counters. Providers embed it
// and implement Complete on top of PostJSON.
type ModelAdapter struct {
	Name         string                // Model identifier (e.g. "gpt-3.5-turbo").
	Temperature  float64               // Sampling temperature.
	MaxTokens    int                   // Maximum tokens in the response.
	APIKey       string                // Sent as a bearer token when non-empty.
	Endpoint     string                // Full chat-completions URL.
	Client       *http.Client          // HTTP client; falls back to a default with a timeout.
	Usage        usage.Tracker         // Token usage tracker.
	HeaderParser RateLimitHeaderParser // Optional parser for rate limit response headers.

	rateLimitInfo atomic.Pointer[RateLimitInfo]
	clientOnce    sync.Once
	defaultClient *http.Client
}

// New creates a ModelAdapter. A nil client falls back to a default client at
// call time.
func New(endpoint, apiKey string, client *http.Client) ModelAdapter {
	return ModelAdapter{
		APIKey:   apiKey,
		Endpoint: endpoint,
		Client:   client,
	}
}

// UsageTracker returns the adapter's token usage tracker.
func (a *ModelAdapter) UsageTracker() *usage.Tracker { return &a.Usage }

// ModelMaxTokens returns the maximum tokens the model will generate per response.
func (a *ModelAdapter) ModelMaxTokens() int { return a.MaxTokens }

// LastRateLimitInfo returns the most recently observed rate limit info, or nil.
func (a *ModelAdapter) LastRateLimitInfo() *RateLimitInfo { return a.rateLimitInfo.Load() }

// httpClient returns the configured client or a cached default client with a 2-minute timeout.
func (a *ModelAdapter) httpClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}

	a.clientOnce.Do(func() {
		a.defaultClient = &http.Client{Timeout: 2 * time.Minute}
	})

	return a.defaultClient
}

// NewRequest builds a request for the endpoint with the bearer key applied.
func (a *ModelAdapter) NewRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.Endpoint, body)
	if err != nil {
		return nil, err
	}

	if a.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.APIKey)
	}

	return req, nil
}

// Do sends the request using the configured HTTP client.
func (a *ModelAdapter) Do(req *http.Request) (*http.Response, error) {
	return a.httpClient().Do(req) //nolint:gosec // URL comes from provider config, not user input.
}

// PostJSON marshals payload as JSON, POSTs it to the endpoint, checks for a
// 2xx status, and unmarshals the response body into dest. If dest is nil the
// response body is discarded after the status check.
//
// Failures are typed: *RateLimitError for 429, *StatusError for any other
// non-2xx status and *FormatError for a 2xx body that is not valid JSON.
func (a *ModelAdapter) PostJSON(ctx context.Context, payload any, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := a.NewRequest(ctx, http.MethodPost, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if a.HeaderParser != nil {
		if info := a.HeaderParser(resp.Header, time.Now()); info != nil {
			a.rateLimitInfo.Store(info)
		}
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &FormatError{Reason: fmt.Sprintf("decode response: %v", err)}
	}

	return nil
}

// checkStatus maps a non-2xx response to *RateLimitError or *StatusError.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{
			RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After")),
			Body:       string(body),
		}
	}

	return &StatusError{
		StatusCode: resp.StatusCode,
		Detail:     ErrorDetail(body),
		Body:       string(body),
	}
}
