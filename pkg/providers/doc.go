// Package providers defines the provider-agnostic completion model and the
// base HTTP machinery shared by provider adapters.
//
// A Provider wraps a single chat-completion API. The session layer builds a
// CompletionRequest from a conversation's history and hands it to the
// configured provider; the adapter transforms it to the provider's wire
// format, issues exactly one HTTP call, and normalizes the result into a
// CompletionResponse.
//
// Errors are typed (ProviderError, AuthError, RateLimitError, TimeoutError,
// ParseError) so that callers can map them to response codes without string
// matching.
package providers
