package openai

import (
	"context"
	"fmt"
	"log/slog"

	"parley-hq/parley/pkg/providers"
)

// Provider is the OpenAI provider adapter.
// It implements the providers.Provider interface for OpenAI's Chat
// Completions API.
type Provider struct {
	*providers.HTTPProvider
}

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-3.5-turbo"

// NewProvider creates a new OpenAI provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: "openai",
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com"
	}

	if config.APIKey == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "api_key",
			Message:  "API key is required for OpenAI",
		}
	}

	if config.Model == "" {
		config.Model = DefaultModel
	}

	// Set defaults if not provided
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}

	httpProvider := providers.NewHTTPProvider(config)

	p := &Provider{
		HTTPProvider: httpProvider,
	}

	slog.Info("OpenAI provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"model", config.Model,
	)

	return p, nil
}

// SendCompletion sends a completion request to OpenAI.
// The request is issued exactly once; transport, auth, and quota failures
// surface as typed provider errors without retry.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	openaiReq := transformRequest(req)

	url := fmt.Sprintf("%s/v1/chat/completions", p.GetConfig().BaseURL)
	headers := map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", p.GetConfig().APIKey),
		"Content-Type":  "application/json",
	}

	var openaiResp OpenAIResponse
	if err := p.DoJSONRequest(ctx, "POST", url, openaiReq, &openaiResp, headers); err != nil {
		return nil, err
	}

	resp := transformResponse(&openaiResp)

	slog.Debug("completion request succeeded",
		"provider", p.GetName(),
		"model", resp.Model,
		"finish_reason", resp.FinishReason,
		"tokens", resp.Usage.TotalTokens,
	)

	return resp, nil
}

// HealthCheck verifies the provider is reachable by listing models.
func (p *Provider) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models", p.GetConfig().BaseURL)
	headers := map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", p.GetConfig().APIKey),
	}

	resp, err := p.DoRequest(ctx, "GET", url, nil, headers)
	if err != nil {
		return err
	}
	resp.Body.Close()

	return nil
}

// validateRequest validates the completion request.
func validateRequest(req *providers.CompletionRequest) error {
	if req == nil {
		return &providers.ValidationError{
			Field:   "request",
			Message: "request cannot be nil",
		}
	}

	if req.Model == "" {
		return &providers.ValidationError{
			Field:   "model",
			Message: "model is required",
		}
	}

	if len(req.Messages) == 0 {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "at least one message is required",
		}
	}

	return nil
}
