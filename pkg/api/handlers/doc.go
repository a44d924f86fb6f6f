// Package handlers implements the HTTP endpoints of the Parley server:
// the /generate turn-taking endpoint and the /health and /ready probes.
package handlers
