package openai

import (
	"parley-hq/parley/pkg/providers"
)

// OpenAI API request/response types

// OpenAIRequest represents an OpenAI chat completion request.
// TopP and FrequencyPenalty are always emitted: an explicit 0 is a valid
// sampling value, and dropping it would let the API substitute its own
// default.
type OpenAIRequest struct {
	Model            string          `json:"model"`
	Messages         []OpenAIMessage `json:"messages"`
	MaxTokens        int             `json:"max_tokens,omitempty"`
	TopP             float64         `json:"top_p"`
	Stop             []string        `json:"stop,omitempty"`
	FrequencyPenalty float64         `json:"frequency_penalty"`
	User             string          `json:"user,omitempty"`
	N                int             `json:"n,omitempty"`
}

// OpenAIMessage represents a message in OpenAI format.
type OpenAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
	Name    string `json:"name,omitempty"`
}

// OpenAIResponse represents an OpenAI chat completion response.
type OpenAIResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []OpenAIChoice `json:"choices"`
	Usage   OpenAIUsage    `json:"usage"`
}

// OpenAIChoice represents a completion choice in OpenAI format.
type OpenAIChoice struct {
	Index        int           `json:"index"`
	Message      OpenAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// OpenAIUsage represents token usage in OpenAI format.
type OpenAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NoResponseFound is returned as the completion text when the provider
// responds successfully but includes no choices.
const NoResponseFound = "No response found"

// Transformation functions

// transformRequest transforms a provider-agnostic request to OpenAI format.
func transformRequest(req *providers.CompletionRequest) *OpenAIRequest {
	openaiReq := &OpenAIRequest{
		Model:            req.Model,
		Messages:         make([]OpenAIMessage, len(req.Messages)),
		MaxTokens:        req.MaxTokens,
		TopP:             req.TopP,
		Stop:             req.Stop,
		FrequencyPenalty: req.FrequencyPenalty,
		User:             req.User,
		N:                1, // Always generate 1 completion
	}

	for i, msg := range req.Messages {
		openaiReq.Messages[i] = OpenAIMessage{
			Role:    msg.Role,
			Content: msg.Content,
			Name:    msg.Name,
		}
	}

	return openaiReq
}

// transformResponse transforms an OpenAI response to provider-agnostic format.
// A response with zero choices is not an error: the content falls back to
// NoResponseFound and the caller records the turn with that text.
func transformResponse(resp *OpenAIResponse) *providers.CompletionResponse {
	result := &providers.CompletionResponse{
		ID:      resp.ID,
		Model:   resp.Model,
		Content: NoResponseFound,
		Usage: providers.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Created: resp.Created,
	}

	if len(resp.Choices) > 0 {
		// Use the first choice (we always request N=1)
		choice := resp.Choices[0]
		result.Content = choice.Message.Content
		result.FinishReason = normalizeFinishReason(choice.FinishReason)
	}

	return result
}

// normalizeFinishReason normalizes OpenAI finish reasons to provider-agnostic values.
func normalizeFinishReason(reason string) string {
	switch reason {
	case "stop":
		return providers.FinishReasonStop
	case "length":
		return providers.FinishReasonLength
	case "content_filter":
		return providers.FinishReasonContentFilter
	default:
		return reason
	}
}
