package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKeyString(t *testing.T) {
	assert.Equal(t, "ownerID", OwnerIDCtxKey.String())
}

func TestGetOwnerIDFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		wantID int64
		wantOK bool
	}{
		{
			name:   "set via helper",
			ctx:    WithOwnerID(context.Background(), 42),
			wantID: 42,
			wantOK: true,
		},
		{
			name:   "missing",
			ctx:    context.Background(),
			wantOK: false,
		},
		{
			name:   "wrong type",
			ctx:    context.WithValue(context.Background(), OwnerIDCtxKey, "42"),
			wantOK: false,
		},
		{
			name:   "plain string key does not collide",
			ctx:    context.WithValue(context.Background(), "ownerID", int64(42)), //nolint:staticcheck
			wantOK: false,
		},
		{
			name:   "zero value",
			ctx:    WithOwnerID(context.Background(), 0),
			wantID: 0,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := GetOwnerIDFromContext(tt.ctx)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
