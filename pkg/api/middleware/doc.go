// Package middleware provides the HTTP middleware chain for the Parley
// server: panic recovery, request logging, request ID assignment, and
// per-request timeouts.
package middleware
