// Parley is a conversational session manager in front of an LLM completion
// provider. It keeps per-conversation history and persona server-side,
// assembles the provider context for each turn, and exposes a single
// HTTP endpoint for turn taking.
package main

func main() {
	Execute()
}
