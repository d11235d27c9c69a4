package logger

import "github.com/google/uuid"

// generateRequestID produces a fresh id for requests that arrive without an
// X-Request-ID header.
func generateRequestID() string {
	return uuid.NewString()
}
