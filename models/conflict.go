package models

import "time"

// ResolutionChoice is the human decision applied to a ConflictRecord.
type ResolutionChoice string

const (
	KeepLocal  ResolutionChoice = "keep_local"
	KeepRemote ResolutionChoice = "keep_remote"
)

// Valid reports whether c is KeepLocal or KeepRemote.
func (c ResolutionChoice) Valid() bool {
	return c == KeepLocal || c == KeepRemote
}

// ConflictRecord describes a stale write reported by the remote authority.
// It lives in memory only, until a resolution consumes it.
type ConflictRecord struct {
	EntityType      EntityType       `json:"entity_type"`
	TargetID        EntityID         `json:"target_id"`
	Local           Snapshot         `json:"local"`
	Remote          Snapshot         `json:"remote"`
	SourceOperation PendingOperation `json:"source_operation"`
	// DifferingFields lists the keys whose values differ between Local and
	// Remote.
	DifferingFields []string  `json:"differing_fields"`
	DetectedAt      time.Time `json:"detected_at"`
}

// Ref returns the address of the conflicted target.
func (c ConflictRecord) Ref() EntityRef {
	return EntityRef{EntityType: c.EntityType, ID: c.TargetID}
}

// NewConflictRecord builds a record from the held operation, the local
// snapshot and the remote authority's current version.
func NewConflictRecord(op PendingOperation, local, remote Snapshot, at time.Time) ConflictRecord {
	return ConflictRecord{
		EntityType:      op.EntityType,
		TargetID:        op.TargetID,
		Local:           local,
		Remote:          remote,
		SourceOperation: op,
		DifferingFields: DiffFields(local.Fields, remote.Fields),
		DetectedAt:      at,
	}
}
