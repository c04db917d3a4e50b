// Package assistant builds chat-completion requests from the conversation and
// the current configuration.
//
// [Assistant.Respond] assembles the system prompt, the truncated history and
// the current turn (prefixed with its PDF selection when it has one) and
// dispatches it to the configured provider through a [Registry].
// Failures are typed; [Assistant.Describe] turns them into the localized
// text shown to the user.
package assistant
