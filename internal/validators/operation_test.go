// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/neuroplan-sync/models"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validCreate() models.ApplyRequest {
	return models.ApplyRequest{
		IdempotencyKey: "0190f5b2-7c1a-7000-8000-000000000001",
		EntityType:     models.EntityTask,
		Kind:           models.OperationCreate,
		Payload:        models.Fields{"title": "Write report"},
	}
}

func validUpdate() models.ApplyRequest {
	req := validCreate()
	req.Kind = models.OperationUpdate
	req.TargetID = 917
	req.BaseVersion = 3
	return req
}

func validDelete() models.ApplyRequest {
	req := validUpdate()
	req.Kind = models.OperationDelete
	req.Payload = nil
	return req
}

// ---------------------------------------------------------------------------
// TestValidate_Dispatch
// ---------------------------------------------------------------------------

func TestNewOperationValidator(t *testing.T) {
	require.NotNil(t, NewOperationValidator())
}

func TestValidate_Dispatch(t *testing.T) {
	v := NewOperationValidator()
	ctx := context.Background()
	req := validCreate()
	entity := models.RemoteEntity{ID: 1, OwnerID: 7, EntityType: models.EntityIdea, Version: 1}

	assert.NoError(t, v.Validate(ctx, req))
	assert.NoError(t, v.Validate(ctx, &req))
	assert.NoError(t, v.Validate(ctx, entity))
	assert.NoError(t, v.Validate(ctx, &entity))
	assert.ErrorIs(t, v.Validate(ctx, "not a model"), ErrUnsupportedType)
}

// ---------------------------------------------------------------------------
// TestValidateApplyRequest
// ---------------------------------------------------------------------------

func TestValidateApplyRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     func() models.ApplyRequest
		wantErr error
	}{
		{"valid create", validCreate, nil},
		{"valid update", validUpdate, nil},
		{"valid delete without payload", validDelete, nil},
		{"missing key", func() models.ApplyRequest {
			r := validCreate()
			r.IdempotencyKey = ""
			return r
		}, ErrInvalidIdempotencyKey},
		{"key too long", func() models.ApplyRequest {
			r := validCreate()
			r.IdempotencyKey = strings.Repeat("k", maxIdempotencyKeyLength+1)
			return r
		}, ErrInvalidIdempotencyKey},
		{"unknown entity type", func() models.ApplyRequest {
			r := validCreate()
			r.EntityType = "habit"
			return r
		}, ErrInvalidEntityType},
		{"unknown kind", func() models.ApplyRequest {
			r := validCreate()
			r.Kind = "upsert"
			return r
		}, ErrInvalidKind},
		{"create with target", func() models.ApplyRequest {
			r := validCreate()
			r.TargetID = 5
			return r
		}, ErrInvalidTargetID},
		{"update without target", func() models.ApplyRequest {
			r := validUpdate()
			r.TargetID = 0
			return r
		}, ErrInvalidTargetID},
		{"update without payload", func() models.ApplyRequest {
			r := validUpdate()
			r.Payload = nil
			return r
		}, ErrEmptyPayload},
		{"create with base version", func() models.ApplyRequest {
			r := validCreate()
			r.BaseVersion = 2
			return r
		}, ErrInvalidBaseVersion},
		{"delete without base version", func() models.ApplyRequest {
			r := validDelete()
			r.BaseVersion = 0
			return r
		}, ErrInvalidBaseVersion},
	}

	v := NewOperationValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.req())
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateApplyRequest_FieldScoping(t *testing.T) {
	v := NewOperationValidator()
	req := validUpdate()
	req.IdempotencyKey = ""

	assert.NoError(t, v.Validate(context.Background(), req, FieldEntityType, FieldTargetID))
	assert.ErrorIs(t, v.Validate(context.Background(), req, FieldIdempotencyKey), ErrInvalidIdempotencyKey)
	assert.ErrorIs(t, v.Validate(context.Background(), req, "color"), ErrUnknownField)
}

// ---------------------------------------------------------------------------
// TestValidateRemoteEntity
// ---------------------------------------------------------------------------

func TestValidateRemoteEntity(t *testing.T) {
	v := NewOperationValidator()
	ctx := context.Background()

	base := models.RemoteEntity{ID: 1, OwnerID: 7, EntityType: models.EntityProject, Version: 2}

	noOwner := base
	noOwner.OwnerID = 0
	assert.ErrorIs(t, v.Validate(ctx, noOwner), ErrInvalidOwnerID)

	badType := base
	badType.EntityType = ""
	assert.ErrorIs(t, v.Validate(ctx, badType), ErrInvalidEntityType)

	noVersion := base
	noVersion.Version = 0
	assert.ErrorIs(t, v.Validate(ctx, noVersion), ErrInvalidBaseVersion)

	noID := base
	noID.ID = 0
	assert.NoError(t, v.Validate(ctx, noID))
	assert.ErrorIs(t, v.Validate(ctx, noID, FieldTargetID), ErrInvalidTargetID)
}
