package handlers

// GenerateResponse is the success body for POST /generate.
type GenerateResponse struct {
	// Response is the generated reply text
	Response string `json:"response"`

	// ConversationID identifies the conversation the turn was recorded in
	ConversationID string `json:"conversationId"`
}

// ErrorResponse is the body returned for any failed request.
type ErrorResponse struct {
	// Message is a human-readable description of the failure
	Message string `json:"message"`
}
