package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces a candidate conversation identifier for the given
// pseudo. Generators are called in a retry loop by the store until an
// unused identifier is found; a single call does not have to be
// collision-free on its own.
type IDGenerator func(pseudo string) string

// NewConversationID generates a conversation identifier from a base-36
// timestamp, a random component, and the caller's pseudo as a suffix for
// traceability.
//
// Example output: "mewx3k2ba1b2c3d4e5f6alice"
func NewConversationID(pseudo string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return ts + random + pseudo
}
