package utils

import "github.com/google/uuid"

// UUIDGenerator produces idempotency keys for pending operations. Version 7
// keys sort by creation time, which keeps the authority's applied_operations
// index append-mostly.
type UUIDGenerator struct{}

// NewUUIDGenerator returns a ready generator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a new key. It falls back to a random v4 key when the
// clock-based v7 generator fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
