package smp

import "github.com/google/uuid"

// NewUUID generates a new UUID version 4 string.
func NewUUID() string {
	return uuid.NewString()
}
