package models

import "time"

// OperationKind is the mutation a PendingOperation carries.
type OperationKind string

const (
	OperationCreate OperationKind = "create"
	OperationUpdate OperationKind = "update"
	OperationDelete OperationKind = "delete"
)

// Valid reports whether k is a known kind.
func (k OperationKind) Valid() bool {
	switch k {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// PendingOperation is a durable intent to mutate the remote authority.
// OpID is assigned by the store and grows monotonically with enqueue order.
type PendingOperation struct {
	OpID int64 `json:"op_id"`
	// IdempotencyKey lets the remote authority recognise a replay of an
	// operation whose acknowledgement was lost.
	IdempotencyKey string        `json:"idempotency_key"`
	EntityType     EntityType    `json:"entity_type"`
	TargetID       EntityID      `json:"target_id"`
	Kind           OperationKind `json:"kind"`
	Payload        Fields        `json:"payload,omitempty"`
	// BaseVersion is the remote version the mutation was computed against.
	BaseVersion int64     `json:"base_version"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
	RetryCount  int       `json:"retry_count"`
	LastError   string    `json:"last_error,omitempty"`
}

// Ref returns the address of the operation's target.
func (op PendingOperation) Ref() EntityRef {
	return EntityRef{EntityType: op.EntityType, ID: op.TargetID}
}

// Describe names the operation for people, e.g. "create task".
func (op PendingOperation) Describe() string {
	return string(op.Kind) + " " + op.EntityType.Label()
}
