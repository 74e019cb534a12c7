// Package utils provides general-purpose helper utilities shared by the sync
// client and the reference authority: context keys, JSON response writing,
// the resty HTTP client, owner tokens and idempotency key generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// OwnerIDCtxKey is the key under which the authenticated owner of the
// mirrored data is stored by the auth middleware.
var OwnerIDCtxKey = contextKey("ownerID")

// WithOwnerID returns a copy of ctx carrying ownerID.
func WithOwnerID(ctx context.Context, ownerID int64) context.Context {
	return context.WithValue(ctx, OwnerIDCtxKey, ownerID)
}

// GetOwnerIDFromContext retrieves the owner identifier from the context.
//
// ok is false when the value is missing or has an unexpected type.
func GetOwnerIDFromContext(ctx context.Context) (int64, bool) {
	ownerID, ok := ctx.Value(OwnerIDCtxKey).(int64)
	return ownerID, ok
}
