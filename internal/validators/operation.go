package validators

import (
	"context"

	"github.com/MKhiriev/neuroplan-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldIdempotencyKey targets the key the authority deduplicates on.
	FieldIdempotencyKey = "idempotency_key"

	// FieldEntityType targets the entity kind of a request or record.
	FieldEntityType = "entity_type"

	// FieldKind targets the create/update/delete discriminator.
	FieldKind = "kind"

	// FieldTargetID targets the server id: zero for create, positive
	// otherwise.
	FieldTargetID = "target_id"

	// FieldPayload targets the field set carried by create and update.
	FieldPayload = "payload"

	// FieldBaseVersion targets the version a mutation was computed
	// against: zero for create, positive otherwise.
	FieldBaseVersion = "base_version"

	// FieldOwnerID targets the owner of a remote entity.
	FieldOwnerID = "owner_id"
)

// maxIdempotencyKeyLength bounds the key column on the authority side.
const maxIdempotencyKeyLength = 128

// OperationValidator implements [Validator] for the apply surface of the
// remote authority: models.ApplyRequest and models.RemoteEntity.
type OperationValidator struct{}

// NewOperationValidator constructs a new OperationValidator and returns it
// as the Validator interface.
func NewOperationValidator() Validator {
	return &OperationValidator{}
}

// Validate dispatches on the dynamic type of obj. Value and pointer forms
// are accepted. Returns ErrUnsupportedType for any other type.
func (v *OperationValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.ApplyRequest:
		return v.validateApplyRequest(ctx, value, fields...)
	case *models.ApplyRequest:
		return v.validateApplyRequest(ctx, *value, fields...)

	case models.RemoteEntity:
		return v.validateRemoteEntity(ctx, value, fields...)
	case *models.RemoteEntity:
		return v.validateRemoteEntity(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateApplyRequest checks one client operation.
//
// Default validated fields (when none specified): IdempotencyKey,
// EntityType, Kind, TargetID, Payload, BaseVersion. The TargetID, Payload
// and BaseVersion rules depend on Kind, so Kind is assumed valid when it is
// not in the list.
func (v *OperationValidator) validateApplyRequest(_ context.Context, req models.ApplyRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldIdempotencyKey, FieldEntityType, FieldKind, FieldTargetID, FieldPayload, FieldBaseVersion}
	}

	isCreate := req.Kind == models.OperationCreate

	for _, f := range fields {
		switch f {
		case FieldIdempotencyKey:
			if req.IdempotencyKey == "" || len(req.IdempotencyKey) > maxIdempotencyKeyLength {
				return ErrInvalidIdempotencyKey
			}
		case FieldEntityType:
			if !req.EntityType.Valid() {
				return ErrInvalidEntityType
			}
		case FieldKind:
			if !req.Kind.Valid() {
				return ErrInvalidKind
			}
		case FieldTargetID:
			if isCreate && req.TargetID != 0 || !isCreate && req.TargetID <= 0 {
				return ErrInvalidTargetID
			}
		case FieldPayload:
			if req.Kind != models.OperationDelete && req.Payload == nil {
				return ErrEmptyPayload
			}
		case FieldBaseVersion:
			if isCreate && req.BaseVersion != 0 || !isCreate && req.BaseVersion <= 0 {
				return ErrInvalidBaseVersion
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateRemoteEntity checks a stored entity before it is served.
//
// Default validated fields: OwnerID, EntityType, BaseVersion (the entity's
// own version must be positive).
func (v *OperationValidator) validateRemoteEntity(_ context.Context, entity models.RemoteEntity, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldOwnerID, FieldEntityType, FieldBaseVersion}
	}

	for _, f := range fields {
		switch f {
		case FieldOwnerID:
			if entity.OwnerID <= 0 {
				return ErrInvalidOwnerID
			}
		case FieldEntityType:
			if !entity.EntityType.Valid() {
				return ErrInvalidEntityType
			}
		case FieldTargetID:
			if entity.ID <= 0 {
				return ErrInvalidTargetID
			}
		case FieldBaseVersion:
			if entity.Version <= 0 {
				return ErrInvalidBaseVersion
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
