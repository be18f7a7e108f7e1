package runner

import "github.com/google/uuid"

// NewRunID returns a random run identifier.
func NewRunID() string {
	return uuid.NewString()
}
