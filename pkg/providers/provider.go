package providers

import "context"

// Provider is the core interface that LLM provider adapters must implement.
// It provides a unified abstraction over chat-completion providers.
//
// All methods accept a context.Context for cancellation and timeout control.
// Implementations must respect context cancellation and return immediately
// when the context is cancelled.
//
// Example usage:
//
//	req := &CompletionRequest{
//	    Model: "gpt-3.5-turbo",
//	    Messages: []Message{
//	        {Role: RoleUser, Content: "Hello!"},
//	    },
//	}
//
//	resp, err := provider.SendCompletion(ctx, req)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Content)
type Provider interface {
	// SendCompletion sends a completion request to the provider and returns
	// the normalized response. The request is transformed to the
	// provider-specific format and issued exactly once; there is no
	// automatic retry.
	SendCompletion(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// HealthCheck performs a lightweight check to verify the provider is
	// reachable and responding. Returns nil if healthy.
	HealthCheck(ctx context.Context) error

	// GetName returns the provider's configured name (e.g., "openai").
	GetName() string

	// GetType returns the provider's type.
	GetType() string

	// GetConfig returns the provider's configuration.
	GetConfig() ProviderConfig

	// IsHealthy returns the current health status of the provider.
	IsHealthy() bool

	// GetHealth returns detailed health information including last check
	// time, consecutive failures, and error details.
	GetHealth() ProviderHealth

	// Close closes the provider and releases any resources (HTTP
	// connections, etc.). After calling Close, the provider should not be
	// used.
	Close() error
}
