package assistant

import "fmt"

// ConfigReason says what is wrong with the provider configuration.
type ConfigReason int

const (
	MissingAPIKey ConfigReason = iota + 1
	UnsupportedProvider
)

// ConfigError is returned before any network call when the configuration
// cannot produce a request. It is never retried.
type ConfigError struct {
	Reason   ConfigReason
	Provider string
}

func (e *ConfigError) Error() string {
	switch e.Reason {
	case MissingAPIKey:
		return fmt.Sprintf("assistant: provider %q: api key is not configured", e.Provider)
	case UnsupportedProvider:
		return fmt.Sprintf("assistant: unsupported provider %q", e.Provider)
	}
	return fmt.Sprintf("assistant: provider %q: invalid configuration", e.Provider)
}
