// Package metrics provides Prometheus instrumentation for the session
// layer: turn counts, provider latency, token usage, and conversation
// lifecycle gauges.
package metrics
