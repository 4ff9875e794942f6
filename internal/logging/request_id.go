package logging

import "github.com/google/uuid"

// GenerateRequestID generates a unique request ID for tagging one client
// operation's log lines (bind, search, and so on) across the calls it makes
// into the lower layers.
func GenerateRequestID() string {
	return uuid.NewString()
}
