package session

import (
	"parley-hq/parley/pkg/providers"
)

// assembleContext rebuilds the ordered message sequence for a conversation
// from its recorded turns, its current persona, and the new prompt text.
// Messages are derived here on every request; they are never stored.
//
// The sequence is:
//
//  1. Each recorded turn replayed as a user message (speaker label =
//     pseudo) followed by the assistant response.
//  2. If the replay produced more than one message (at least one prior
//     turn), a system message carrying the current persona, so the persona
//     takes priority over the original seed on later turns.
//  3. The new prompt text as the final user message, without a speaker
//     label.
//
// A conversation with no recorded turns instead opens with a single system
// message carrying the persona it was seeded with, so the "more than one
// message" check never duplicates the persona on the very first turn.
//
// Caller must hold conv.mu; the result is deterministic for a given
// (turns, persona, promptText, pseudo).
func assembleContext(conv *Conversation, promptText, pseudo string) []providers.Message {
	messages := make([]providers.Message, 0, 2*len(conv.turns)+2)

	if len(conv.turns) == 0 {
		messages = append(messages, providers.Message{
			Role:    providers.RoleSystem,
			Content: conv.persona,
		})
	}

	for _, turn := range conv.turns {
		messages = append(messages,
			providers.Message{
				Role:    providers.RoleUser,
				Content: turn.Prompt,
				Name:    pseudo,
			},
			providers.Message{
				Role:    providers.RoleAssistant,
				Content: turn.Response,
			},
		)
	}

	if len(messages) > 1 {
		messages = append(messages, providers.Message{
			Role:    providers.RoleSystem,
			Content: conv.persona,
		})
	}

	messages = append(messages, providers.Message{
		Role:    providers.RoleUser,
		Content: promptText,
	})

	return messages
}
