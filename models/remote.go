package models

import "time"

// ApplyOutcome is the category of a remote apply result. Only the category
// drives orchestrator transitions.
type ApplyOutcome int

const (
	OutcomeOK ApplyOutcome = iota
	OutcomeRetryable
	OutcomeVersionConflict
	OutcomeFatal
)

func (o ApplyOutcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeVersionConflict:
		return "version_conflict"
	case OutcomeFatal:
		return "fatal"
	}
	return "unknown"
}

// ApplyResult is what the remote authority answered for one operation.
type ApplyResult struct {
	Outcome ApplyOutcome
	// ServerID is the id assigned or confirmed by the authority (OutcomeOK).
	ServerID int64
	// Version is the authority's version after the apply (OutcomeOK).
	Version   int64
	UpdatedAt time.Time
	// Reason is a display-only description (OutcomeRetryable, OutcomeFatal).
	Reason string
	// RetryAfter is the authority's requested delay, zero if none.
	RetryAfter time.Duration
	// Remote is the authority's current copy (OutcomeVersionConflict).
	Remote *Snapshot
}

func OkResult(serverID, version int64, updatedAt time.Time) ApplyResult {
	return ApplyResult{Outcome: OutcomeOK, ServerID: serverID, Version: version, UpdatedAt: updatedAt}
}

func RetryableResult(reason string, retryAfter time.Duration) ApplyResult {
	return ApplyResult{Outcome: OutcomeRetryable, Reason: reason, RetryAfter: retryAfter}
}

func ConflictResult(remote Snapshot) ApplyResult {
	return ApplyResult{Outcome: OutcomeVersionConflict, Remote: &remote}
}

func FatalResult(reason string) ApplyResult {
	return ApplyResult{Outcome: OutcomeFatal, Reason: reason}
}

// ApplyRequest is the wire form of a PendingOperation.
type ApplyRequest struct {
	IdempotencyKey string        `json:"idempotency_key"`
	EntityType     EntityType    `json:"entity_type"`
	// TargetID is the server id for update and delete, zero for create.
	TargetID    int64         `json:"target_id,omitempty"`
	Kind        OperationKind `json:"kind"`
	Payload     Fields        `json:"payload,omitempty"`
	BaseVersion int64         `json:"base_version"`
}

// ApplyResponse is returned with 200 OK.
type ApplyResponse struct {
	ServerID  int64     `json:"server_id"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConflictResponse is returned with 409 Conflict.
type ConflictResponse struct {
	Error  string       `json:"error"`
	Remote RemoteEntity `json:"remote"`
}

// ErrorResponse is the body of every other non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RemoteEntity is the authority's copy of a record.
type RemoteEntity struct {
	ID         int64      `json:"id"`
	OwnerID    int64      `json:"-"`
	EntityType EntityType `json:"entity_type"`
	Fields     Fields     `json:"fields"`
	Version    int64      `json:"version"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Deleted    bool       `json:"deleted"`
}

// Snapshot converts the entity to the conflict view.
func (e RemoteEntity) Snapshot() Snapshot {
	return Snapshot{Fields: e.Fields, Version: e.Version, UpdatedAt: e.UpdatedAt, Deleted: e.Deleted}
}

// Record converts the entity to a local mirror record.
func (e RemoteEntity) Record() EntityRecord {
	return EntityRecord{
		EntityType: e.EntityType,
		ID:         RemoteID(e.ID),
		Fields:     e.Fields,
		Version:    e.Version,
		UpdatedAt:  e.UpdatedAt,
	}
}

// EntityListResponse is returned by the entity listing endpoint.
type EntityListResponse struct {
	Entities []RemoteEntity `json:"entities"`
	Length   int            `json:"length"`
}

// AppliedOperation is the authority's memory of an applied idempotency key.
type AppliedOperation struct {
	OwnerID        int64
	IdempotencyKey string
	EntityID       int64
	Version        int64
	UpdatedAt      time.Time
}

// HealthResponse is the body of the authority's health probe.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
