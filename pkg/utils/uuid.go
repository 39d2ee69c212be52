package utils

import (
	"github.com/google/uuid"
)

// NewID generates a random identifier for catalog and staff records
func NewID() string {
	return uuid.NewString()
}

// NewSaleID generates a time-ordered identifier, so ledger ids sort by
// creation even across processes. Falls back to a random id if the clock
// source fails.
func NewSaleID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewRequestID generates the id attached to each HTTP request log line
func NewRequestID() string {
	return uuid.NewString()
}
