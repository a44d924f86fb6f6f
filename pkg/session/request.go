package session

// Sampling parameter bounds and defaults. Randomness maps to nucleus
// sampling (top_p); richness maps to the frequency penalty.
const (
	// DefaultRandomness is the top_p applied when randomness is absent.
	DefaultRandomness = 0.6

	// DefaultRichness is the frequency penalty applied when richness is absent.
	DefaultRichness = 0.7

	// MinRandomness and MaxRandomness bound the randomness parameter.
	MinRandomness = 0.0
	MaxRandomness = 1.0

	// MinRichness and MaxRichness bound the richness parameter.
	MinRichness = -2.0
	MaxRichness = 2.0
)

// ResponseCue is appended to every prompt before it is sent to the provider.
const ResponseCue = "\n\nResponse:"

// TurnRequest is a validated, typed turn request. It is produced by
// ParseRequest and is the only request shape the store, assembler, and
// provider layers ever see.
type TurnRequest struct {
	// Prompt is the raw prompt text supplied by the caller
	Prompt string

	// PromptText is the prompt with the trailing response cue, as sent to
	// the provider and recorded in the turn history
	PromptText string

	// NewConversation requests a fresh conversation regardless of
	// ConversationID
	NewConversation bool

	// Pseudo identifies the human speaker; used as the speaker label on
	// replayed user messages and as the identifier suffix
	Pseudo string

	// Randomness is the nucleus-sampling top_p (0 to 1)
	Randomness float64

	// Richness is the frequency penalty (-2 to 2)
	Richness float64

	// Persona is the requested persona instruction; empty means "keep the
	// conversation's current persona"
	Persona string

	// ConversationID is the identifier of an existing conversation; empty
	// means "create a new one"
	ConversationID string
}

// ParseRequest shapes a typed TurnRequest from untyped JSON-decoded input.
// It is a pure function of its input: no store access, no side effects.
// Each rule is checked independently and the first failing field is
// reported with a *ValidationError naming it.
func ParseRequest(raw map[string]any) (*TurnRequest, error) {
	req := &TurnRequest{
		Randomness: DefaultRandomness,
		Richness:   DefaultRichness,
	}

	// pseudo is required and must be checked before conversation resolution.
	pseudo, ok := raw["pseudo"]
	if !ok || pseudo == nil {
		return nil, &ValidationError{
			Field:   "pseudo",
			Reason:  ReasonMissingField,
			Message: "pseudo is required",
		}
	}
	pseudoStr, ok := pseudo.(string)
	if !ok {
		return nil, &ValidationError{
			Field:   "pseudo",
			Reason:  ReasonTypeMismatch,
			Message: "pseudo must be a string",
		}
	}
	if pseudoStr == "" {
		return nil, &ValidationError{
			Field:   "pseudo",
			Reason:  ReasonMissingField,
			Message: "pseudo is required",
		}
	}
	req.Pseudo = pseudoStr

	if prompt, ok := raw["prompt"]; ok && prompt != nil {
		promptStr, ok := prompt.(string)
		if !ok {
			return nil, &ValidationError{
				Field:   "prompt",
				Reason:  ReasonTypeMismatch,
				Message: "prompt must be a string",
			}
		}
		req.Prompt = promptStr
	}
	req.PromptText = req.Prompt + ResponseCue

	if id, ok := raw["conversationId"]; ok && id != nil {
		idStr, ok := id.(string)
		if !ok {
			return nil, &ValidationError{
				Field:   "conversationId",
				Reason:  ReasonTypeMismatch,
				Message: "conversationId must be a string",
			}
		}
		req.ConversationID = idStr
	}

	if persona, ok := raw["aiPersonality"]; ok && persona != nil {
		personaStr, ok := persona.(string)
		if !ok {
			return nil, &ValidationError{
				Field:   "aiPersonality",
				Reason:  ReasonTypeMismatch,
				Message: "aiPersonality must be a string",
			}
		}
		req.Persona = personaStr
	}

	if randomness, ok := raw["randomness"]; ok && randomness != nil {
		val, ok := toFloat(randomness)
		if !ok {
			return nil, &ValidationError{
				Field:   "randomness",
				Reason:  ReasonTypeMismatch,
				Message: "randomness must be a number",
			}
		}
		if val < MinRandomness || val > MaxRandomness {
			return nil, &ValidationError{
				Field:   "randomness",
				Reason:  ReasonOutOfRange,
				Message: "randomness must be between 0 and 1",
			}
		}
		req.Randomness = val
	}

	if richness, ok := raw["richness"]; ok && richness != nil {
		val, ok := toFloat(richness)
		if !ok {
			return nil, &ValidationError{
				Field:   "richness",
				Reason:  ReasonTypeMismatch,
				Message: "richness must be a number",
			}
		}
		if val < MinRichness || val > MaxRichness {
			return nil, &ValidationError{
				Field:   "richness",
				Reason:  ReasonOutOfRange,
				Message: "richness must be between -2 and 2",
			}
		}
		req.Richness = val
	}

	// Boolean true or the literal string "true"; anything else is false.
	switch v := raw["isNewConversation"].(type) {
	case bool:
		req.NewConversation = v
	case string:
		req.NewConversation = v == "true"
	}

	return req, nil
}

// toFloat normalizes JSON-decoded numeric values. encoding/json decodes all
// numbers to float64, but integral values arriving through typed callers
// are accepted too.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
