package service

import (
	"context"
	"time"

	"github.com/MKhiriev/neuroplan-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// QueueService turns local mutations into durable pending operations and
// collapses superseded operations before they reach the remote authority.
type QueueService interface {
	// NewOperation stamps an operation with a fresh idempotency key and the
	// current time. Nothing is stored.
	NewOperation(entityType models.EntityType, targetID models.EntityID, kind models.OperationKind, payload models.Fields, baseVersion int64) models.PendingOperation

	// Enqueue appends exactly one new operation, even when an equivalent one
	// is already queued.
	Enqueue(ctx context.Context, entityType models.EntityType, targetID models.EntityID, kind models.OperationKind, payload models.Fields, baseVersion int64) (models.PendingOperation, error)

	// Pending returns the queue in enqueue order.
	Pending(ctx context.Context) ([]models.PendingOperation, error)

	// PendingCount reads the queue length and publishes it to the session
	// state.
	PendingCount(ctx context.Context) (int, error)

	// Collapse removes operations on op's target that a later delete in
	// pending supersedes. When the target never reached the authority the
	// delete goes too. It returns how many operations were removed.
	Collapse(ctx context.Context, op models.PendingOperation, pending []models.PendingOperation) (int, error)
}

// SyncOrchestrator drains the queue against the remote authority.
type SyncOrchestrator interface {
	// Drain runs one drain now on the calling goroutine. A call that
	// arrives while another drain runs is coalesced: it returns
	// [ErrSyncInProgress] at once and a single follow-up drain runs when the
	// current one finishes.
	Drain(ctx context.Context, trigger models.SyncTrigger) (models.DrainReport, error)

	// Trigger starts a drain in the background.
	Trigger(trigger models.SyncTrigger)

	// ForceSyncNow drains the queue and then refreshes every entity type
	// from the authority. Returns [ErrOffline] when offline.
	ForceSyncNow(ctx context.Context) (models.DrainReport, error)

	// RefreshFromRemote pulls the authority's copy of entityType into the
	// mirror, leaving targets with pending operations untouched.
	RefreshFromRemote(ctx context.Context, entityType models.EntityType) error

	// SetOnline records a connectivity reading. An offline to online edge
	// starts a drain; going offline stops the running drain between
	// operations.
	SetOnline(online bool)

	// Cancel stops the running drain after its in-flight call and drops any
	// scheduled retry.
	Cancel()

	// Failures lists undismissed terminal failures, oldest first.
	Failures() []models.SyncFailure
	Dismiss(opID int64)

	// Close stops background drains and waits for them to exit.
	Close()
}

// ConflictService is the resolution workflow for stale writes.
type ConflictService interface {
	// ListConflicts returns held conflicts in detection order.
	ListConflicts() []models.ConflictRecord

	// Resolve applies choice to the conflict on ref. It returns once the
	// store and queue are durably updated and then starts a drain.
	Resolve(ctx context.Context, ref models.EntityRef, choice models.ResolutionChoice) error

	// ResolveAll applies choice to every held conflict in list order.
	ResolveAll(ctx context.Context, choice models.ResolutionChoice) error
}

// EntityService applies optimistic local writes and enqueues the matching
// operation in the same transaction.
type EntityService interface {
	Create(ctx context.Context, entityType models.EntityType, fields models.Fields) (models.EntityRecord, error)
	// Update replaces the record's fields with the given ones merged over
	// the current ones.
	Update(ctx context.Context, entityType models.EntityType, id models.EntityID, fields models.Fields) (models.EntityRecord, error)
	Delete(ctx context.Context, entityType models.EntityType, id models.EntityID) error

	// Get follows a local id to its server id once the create was
	// acknowledged.
	Get(ctx context.Context, entityType models.EntityType, id models.EntityID) (models.EntityRecord, error)
	List(ctx context.Context, entityType models.EntityType) ([]models.EntityRecord, error)

	// Export returns a full copy of the mirror and the queue.
	Export(ctx context.Context) (models.LocalDump, error)
	// ClearAll wipes the mirror, the queue, sync metadata and held
	// conflicts. Refused while a drain runs.
	ClearAll(ctx context.Context) error
}

// StatusService is the read side of the session used by the UI.
type StatusService interface {
	State() models.SyncState
	Subscribe() (<-chan models.SyncState, func())
	IsSyncing() bool
	IsOnline() bool
	PendingCount(ctx context.Context) (int, error)
	LastSyncAt(ctx context.Context) (*time.Time, error)
}
