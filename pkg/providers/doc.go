// Package providers holds the chat-completion backends the reader can talk
// to.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/pdfask/pkg/providers/openai]: OpenAI Chat Completions API
//   - [github.com/germanamz/pdfask/pkg/providers/deepseek]: DeepSeek, which speaks the same wire format
//
// Transport, auth and error types live in
// [github.com/germanamz/pdfask/pkg/modeladapter].
package providers
