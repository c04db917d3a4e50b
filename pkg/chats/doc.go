// Package chats provides the provider-agnostic data model for the reader's
// conversations.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/pdfask/pkg/chats/role]: conversation roles (system, user, assistant)
//   - [github.com/germanamz/pdfask/pkg/chats/message]: turns with an optional PDF selection
//   - [github.com/germanamz/pdfask/pkg/chats/chat]: mutable conversation container
//
// No provider or API code is included. Both the conversation store and the
// request builder build on these types.
package chats
