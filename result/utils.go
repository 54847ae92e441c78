package result

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// encode UUID with base64 for a shorter run identifier
func newBase64UUID() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// NewRunID returns a fresh identifier for a Results envelope.
func NewRunID() string {
	return newBase64UUID()
}
