package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidIdempotencyKey = errors.New("invalid idempotency key")
	ErrInvalidEntityType     = errors.New("invalid entity type")
	ErrInvalidKind           = errors.New("invalid operation kind")
	ErrInvalidTargetID       = errors.New("invalid target id")
	ErrEmptyPayload          = errors.New("payload is required")
	ErrInvalidBaseVersion    = errors.New("invalid base version")
	ErrInvalidOwnerID        = errors.New("invalid owner id")
)
