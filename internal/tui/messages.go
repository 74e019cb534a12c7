package tui

import "github.com/MKhiriev/neuroplan-sync/models"

// stateMsg carries one published SyncState. closed is set once the
// subscription channel is closed.
type stateMsg struct {
	state  models.SyncState
	closed bool
}

type recordsLoadedMsg struct {
	entityType models.EntityType
	records    []models.EntityRecord
	err        error
}

type syncDoneMsg struct {
	report models.DrainReport
	err    error
}

type savedMsg struct {
	status string
	err    error
}

type resolvedMsg struct {
	count int
	err   error
}

type exportedMsg struct {
	records int
	pending int
	err     error
}

type clearStatusMsg struct{}
