// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"time"
)

// Connectivity is the last known reachability of the remote authority.
type Connectivity string

const (
	Online  Connectivity = "online"
	Offline Connectivity = "offline"
)

// SyncPhase is the orchestrator's current state.
type SyncPhase string

const (
	PhaseIdle           SyncPhase = "idle"
	PhaseDraining       SyncPhase = "draining"
	PhaseAwaitingRemote SyncPhase = "awaiting_remote"
	PhaseConflicted     SyncPhase = "conflicted"
)

// SyncTrigger records what started a drain.
type SyncTrigger string

const (
	TriggerStartup    SyncTrigger = "startup"
	TriggerOnline     SyncTrigger = "online"
	TriggerTimer      SyncTrigger = "timer"
	TriggerExplicit   SyncTrigger = "explicit"
	TriggerResolution SyncTrigger = "resolution"
	TriggerRetry      SyncTrigger = "retry"
)

// SyncState is an immutable snapshot of the sync session.
type SyncState struct {
	Connectivity  Connectivity `json:"connectivity"`
	Phase         SyncPhase    `json:"phase"`
	IsSyncing     bool         `json:"is_syncing"`
	LastSyncAt    *time.Time   `json:"last_sync_at,omitempty"`
	PendingCount  int          `json:"pending_count"`
	ConflictCount int          `json:"conflict_count"`
	// FailureCount is the number of undismissed terminal failures.
	FailureCount int `json:"failure_count"`
}

// IsOnline reports whether the remote authority is believed reachable.
func (s SyncState) IsOnline() bool {
	return s.Connectivity == Online
}

// FailureCategory distinguishes why an operation was given up on.
type FailureCategory string

const (
	FailureRetriesExhausted FailureCategory = "retries_exhausted"
	FailureRejected         FailureCategory = "rejected"
)

// SyncFailure is a terminal, per-operation notification for the user.
type SyncFailure struct {
	OpID       int64           `json:"op_id"`
	EntityType EntityType      `json:"entity_type"`
	TargetID   EntityID        `json:"target_id"`
	Kind       OperationKind   `json:"kind"`
	Category   FailureCategory `json:"category"`
	Reason     string          `json:"reason"`
	At         time.Time       `json:"at"`
}

// NewSyncFailure builds a notification for a dropped operation.
func NewSyncFailure(op PendingOperation, category FailureCategory, reason string, at time.Time) SyncFailure {
	return SyncFailure{
		OpID:       op.OpID,
		EntityType: op.EntityType,
		TargetID:   op.TargetID,
		Kind:       op.Kind,
		Category:   category,
		Reason:     reason,
		At:         at,
	}
}

// Message is the text shown to the user, naming the affected entity.
func (f SyncFailure) Message() string {
	what := string(f.Kind) + " " + f.EntityType.Label()
	if f.Category == FailureRetriesExhausted {
		return fmt.Sprintf("Could not %s after several attempts", what)
	}
	return fmt.Sprintf("The server rejected %s", what)
}

// DrainReport summarises one drain.
type DrainReport struct {
	Trigger    SyncTrigger `json:"trigger"`
	Applied    int         `json:"applied"`
	Collapsed  int         `json:"collapsed"`
	Conflicts  int         `json:"conflicts"`
	Failed     int         `json:"failed"`
	Retried    int         `json:"retried"`
	// Completed is true when the queue held nothing dispatchable at the end
	// of the drain and lastSyncAt was updated.
	Completed bool `json:"completed"`
	// Interrupted is true when cancellation or an offline edge stopped the
	// drain between operations.
	Interrupted bool `json:"interrupted"`
	// Coalesced is true when the trigger arrived during another drain and
	// was folded into a single follow-up run.
	Coalesced  bool      `json:"coalesced"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
