package everest

import "github.com/google/uuid"

// NewCallID generates a fresh correlation id for a call envelope. The
// wire format treats ids as opaque strings; callers that don't already
// have a natural correlation id (a request id from an upstream RPC, a
// saga step id, ...) can use this to get a unique one.
func NewCallID() string {
	return uuid.New().String()
}
