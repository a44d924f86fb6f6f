// Package openai implements the providers.Provider interface for OpenAI's
// Chat Completions API.
//
// The adapter transforms the provider-agnostic CompletionRequest into
// OpenAI's wire format (always requesting a single choice), issues one POST
// to /v1/chat/completions, and normalizes the response. A successful
// response with no choices yields the NoResponseFound fallback text rather
// than an error.
package openai
