package utils

import (
	"github.com/google/uuid"
)

// NewID returns a time-ordered identifier (UUIDv7). Falls back to a random
// UUID if the clock source fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
