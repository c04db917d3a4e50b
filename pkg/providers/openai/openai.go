// Package openai provides a Completer implementation for the OpenAI Chat
// Completions API and the providers that copy its wire format.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/germanamz/pdfask/pkg/chats/chat"
	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/chats/role"
	"github.com/germanamz/pdfask/pkg/modeladapter"
	"github.com/germanamz/pdfask/pkg/modeladapter/usage"
)

const (
	// DefaultEndpoint is the OpenAI chat completions URL.
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-3.5-turbo"

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2048
)

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for OpenAI-compatible APIs.
type Adapter struct {
	modeladapter.ModelAdapter

	// Provider names the backend in error messages.
	Provider string
	// Stream, when non-nil, is sent as the "stream" field.
	Stream *bool
}

// New creates an Adapter for the OpenAI API. An empty endpoint or model falls
// back to DefaultEndpoint and DefaultModel. A nil client uses the adapter's
// default client.
func New(endpoint, apiKey, model string, client *http.Client) *Adapter {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}

	a := &Adapter{
		ModelAdapter: modeladapter.New(endpoint, apiKey, client),
		Provider:     "openai",
	}
	a.Name = model
	a.Temperature = DefaultTemperature
	a.MaxTokens = DefaultMaxTokens
	a.HeaderParser = modeladapter.ParseOpenAIRateLimitHeaders

	return a
}

// Complete sends a conversation to the chat completions endpoint and returns
// the assistant's reply with surrounding whitespace trimmed.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat) (message.Message, error) {
	req := a.buildRequest(c)

	var resp apiResponse
	if err := a.PostJSON(ctx, req, &resp); err != nil {
		return message.Message{}, fmt.Errorf("%s: %w", a.Provider, err)
	}

	if resp.Usage != nil {
		a.Usage.Add(usage.TokenCount{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		})
	}

	if len(resp.Choices) == 0 {
		return message.Message{}, fmt.Errorf("%s: %w", a.Provider, &modeladapter.FormatError{Reason: "no choices"})
	}

	choice := resp.Choices[0]
	if choice.Message == nil || choice.Message.Content == nil {
		return message.Message{}, fmt.Errorf("%s: %w", a.Provider, &modeladapter.FormatError{Reason: "choice has no message"})
	}

	reply := message.New(role.Assistant, strings.TrimSpace(*choice.Message.Content), time.Now())
	reply.SetMeta("model", a.Name)
	if choice.FinishReason != "" {
		reply.SetMeta("finish_reason", choice.FinishReason)
	}

	return reply, nil
}

// --- request types ---

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Stream      *bool        `json:"stream,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- response types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
	Usage   *apiUsage   `json:"usage"`
}

type apiChoice struct {
	Message      *apiRespMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

type apiRespMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(c *chat.Chat) apiRequest {
	req := apiRequest{
		Model:       a.Name,
		Temperature: a.Temperature,
		MaxTokens:   a.MaxTokens,
		Stream:      a.Stream,
		Messages:    make([]apiMessage, 0, c.Len()),
	}

	c.Each(func(_ int, m message.Message) bool {
		req.Messages = append(req.Messages, apiMessage{Role: m.Role.String(), Content: m.Content})
		return true
	})

	return req
}
