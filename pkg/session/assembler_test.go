package session

import (
	"reflect"
	"testing"

	"parley-hq/parley/pkg/providers"
)

func TestAssembleContext_FirstTurn(t *testing.T) {
	conv := newConversation("conv-1", "")

	messages := assembleContext(conv, "Hi\n\nResponse:", "alice")

	want := []providers.Message{
		{Role: providers.RoleSystem, Content: DefaultPersona},
		{Role: providers.RoleUser, Content: "Hi\n\nResponse:"},
	}
	if !reflect.DeepEqual(messages, want) {
		t.Errorf("first-turn context mismatch:\ngot:  %+v\nwant: %+v", messages, want)
	}
}

func TestAssembleContext_WithHistory(t *testing.T) {
	conv := newConversation("conv-1", "Be a pirate.")
	conv.recordTurn("Hi\n\nResponse:", "Hello!")

	messages := assembleContext(conv, "How are you?\n\nResponse:", "alice")

	want := []providers.Message{
		{Role: providers.RoleUser, Content: "Hi\n\nResponse:", Name: "alice"},
		{Role: providers.RoleAssistant, Content: "Hello!"},
		{Role: providers.RoleSystem, Content: "Be a pirate."},
		{Role: providers.RoleUser, Content: "How are you?\n\nResponse:"},
	}
	if !reflect.DeepEqual(messages, want) {
		t.Errorf("context mismatch:\ngot:  %+v\nwant: %+v", messages, want)
	}
}

func TestAssembleContext_ReplaysTurnsInOrder(t *testing.T) {
	conv := newConversation("conv-1", "persona")
	conv.recordTurn("first\n\nResponse:", "one")
	conv.recordTurn("second\n\nResponse:", "two")
	conv.recordTurn("third\n\nResponse:", "three")

	messages := assembleContext(conv, "fourth\n\nResponse:", "bob")

	// 3 turns * 2 messages + trailing system + final user
	if len(messages) != 8 {
		t.Fatalf("expected 8 messages, got %d", len(messages))
	}

	for i, wantPrompt := range []string{"first\n\nResponse:", "second\n\nResponse:", "third\n\nResponse:"} {
		userMsg := messages[2*i]
		if userMsg.Role != providers.RoleUser || userMsg.Content != wantPrompt {
			t.Errorf("message %d: expected user %q, got %s %q", 2*i, wantPrompt, userMsg.Role, userMsg.Content)
		}
		if userMsg.Name != "bob" {
			t.Errorf("message %d: expected speaker label 'bob', got %q", 2*i, userMsg.Name)
		}
	}

	if messages[6].Role != providers.RoleSystem || messages[6].Content != "persona" {
		t.Errorf("expected trailing system persona, got %+v", messages[6])
	}

	final := messages[7]
	if final.Role != providers.RoleUser || final.Content != "fourth\n\nResponse:" {
		t.Errorf("expected final user message, got %+v", final)
	}
	if final.Name != "" {
		t.Errorf("final user message must not carry a speaker label, got %q", final.Name)
	}
}

func TestAssembleContext_PersonaOverwriteTakesPriority(t *testing.T) {
	conv := newConversation("conv-1", "original persona")
	conv.recordTurn("Hi\n\nResponse:", "Hello!")
	conv.setPersona("updated persona")

	messages := assembleContext(conv, "next\n\nResponse:", "alice")

	var systemContent string
	for _, m := range messages {
		if m.Role == providers.RoleSystem {
			systemContent = m.Content
		}
	}
	if systemContent != "updated persona" {
		t.Errorf("expected updated persona in system message, got %q", systemContent)
	}
}

func TestAssembleContext_Deterministic(t *testing.T) {
	conv := newConversation("conv-1", "persona")
	conv.recordTurn("Hi\n\nResponse:", "Hello!")

	first := assembleContext(conv, "again\n\nResponse:", "alice")
	second := assembleContext(conv, "again\n\nResponse:", "alice")

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical output for identical input")
	}
}
