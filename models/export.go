package models

import "time"

// LocalDump is a full copy of the local mirror and queue, used for export
// and diagnostics.
type LocalDump struct {
	ExportedAt time.Time          `json:"exported_at"`
	LastSyncAt *time.Time         `json:"last_sync_at,omitempty"`
	Records    []EntityRecord     `json:"records"`
	Pending    []PendingOperation `json:"pending"`
}
