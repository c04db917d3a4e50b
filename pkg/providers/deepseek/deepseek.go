// Package deepseek configures an OpenAI-compatible adapter for the DeepSeek
// chat completions API.
package deepseek

import (
	"net/http"

	"github.com/germanamz/pdfask/pkg/providers/openai"
)

const (
	// DefaultEndpoint is the DeepSeek chat completions URL.
	DefaultEndpoint = "https://api.deepseek.com/v1/chat/completions"
	// DefaultModel is used when no model is configured.
	DefaultModel = "deepseek-chat"
)

// New creates an adapter for DeepSeek. Requests explicitly ask for a
// non-streamed response. An empty endpoint or model falls back to
// DefaultEndpoint and DefaultModel.
func New(endpoint, apiKey, model string, client *http.Client) *openai.Adapter {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}

	a := openai.New(endpoint, apiKey, model, client)
	a.Provider = "deepseek"

	stream := false
	a.Stream = &stream

	return a
}
