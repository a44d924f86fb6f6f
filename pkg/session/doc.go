/*
Package session implements the conversation lifecycle and context-assembly
core of Parley.

A conversation is identified by an opaque string, holds an append-only
history of prompt/response turns, and carries a mutable persona
instruction. For each incoming turn the Orchestrator validates the raw
request, resolves or creates the conversation, derives the role-tagged
message sequence from the recorded history, invokes the completion
provider once, and records the exchange:

	store := session.NewStore()
	orch := session.NewOrchestrator(store, provider, "gpt-3.5-turbo")

	result, err := orch.HandleTurn(ctx, map[string]any{
		"prompt": "Hi",
		"pseudo": "alice",
	})

Concurrency: store access is serialized by a store-level lock covering only
map operations, while each conversation carries its own mutex held from
resolution through turn recording. The provider call is the only suspension
point and never holds the store lock, so concurrent requests on different
conversations proceed independently; concurrent requests on the same
conversation are serialized whole-turn.

The store never persists and, unless an eviction schedule is configured,
never deletes; the Evictor implements the TTL policy at the store boundary.
*/
package session
