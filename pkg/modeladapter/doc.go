// Package modeladapter defines the interface and transport types for
// chat-completion adapters.
//
// It contains:
//   - [Completer] interface and embeddable [ModelAdapter] base struct with HTTP helpers, auth, and custom headers
//   - typed failures: [StatusError], [RateLimitError] and [FormatError]
//   - [RateLimitedCompleter] for request pacing and 429 retry
//   - [TokenEstimator] for history truncation
//   - [github.com/germanamz/pdfask/pkg/modeladapter/usage]: thread-safe token usage tracker
//
// This package contains no provider-specific code. Concrete adapters live in
// separate packages that import modeladapter.
package modeladapter
