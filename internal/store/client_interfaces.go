package store

import (
	"context"
	"time"

	"github.com/MKhiriev/neuroplan-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalStore is the client's durable mirror of remote entities plus the queue
// of operations the remote authority has not acknowledged yet. Every write is
// committed before the method returns. Any failure wraps [ErrStorageFailure].
type LocalStore interface {
	// Get returns [ErrNotFound] when no record exists for (entityType, id).
	Get(ctx context.Context, entityType models.EntityType, id models.EntityID) (models.EntityRecord, error)
	List(ctx context.Context, entityType models.EntityType) ([]models.EntityRecord, error)
	Put(ctx context.Context, record models.EntityRecord) error
	// PutMany commits every record or none of them.
	PutMany(ctx context.Context, entityType models.EntityType, records []models.EntityRecord) error
	Delete(ctx context.Context, entityType models.EntityType, id models.EntityID) error
	// NextLocalID hands out ids that can never equal a server-assigned id.
	NextLocalID(ctx context.Context) (models.EntityID, error)

	// ListPending returns the queue in enqueue order.
	ListPending(ctx context.Context) ([]models.PendingOperation, error)
	CountPending(ctx context.Context) (int, error)
	// AppendPending assigns OpID and stores op at the tail of the queue.
	AppendPending(ctx context.Context, op models.PendingOperation) (models.PendingOperation, error)
	RemovePending(ctx context.Context, opIDs ...int64) error
	// BumpRetry increments the retry counter and returns its new value.
	BumpRetry(ctx context.Context, opID int64, lastError string) (int, error)

	// PutAndAppend applies an optimistic local write and enqueues the
	// matching operation in one transaction.
	PutAndAppend(ctx context.Context, record models.EntityRecord, op models.PendingOperation) (models.PendingOperation, error)
	// UpdateAndAppend merges op.Payload into the current record and enqueues
	// op in one transaction. The stored op carries the merged fields and the
	// record's version as read inside that transaction. A local TargetID whose
	// create was acknowledged is followed to its server id.
	UpdateAndAppend(ctx context.Context, op models.PendingOperation, updatedAt time.Time) (models.EntityRecord, models.PendingOperation, error)
	// DeleteAndAppend removes the current record and enqueues op in one
	// transaction, stamping op with the version it deleted.
	DeleteAndAppend(ctx context.Context, op models.PendingOperation) (models.PendingOperation, error)

	// CompleteCreate acknowledges a create: the operation is removed, the
	// record is re-keyed from its local id to serverID, every remaining
	// operation on the target is retargeted and rebased onto version, and the
	// id mapping is recorded.
	CompleteCreate(ctx context.Context, op models.PendingOperation, serverID, version int64) error
	// CompleteWrite acknowledges an update or delete: the operation is
	// removed and the record and the remaining operations on the target are
	// rebased onto version.
	CompleteWrite(ctx context.Context, op models.PendingOperation, version int64) error
	// RestampPending rewrites a held operation to assume baseVersion and
	// resets its retry counter, keeping its queue position.
	RestampPending(ctx context.Context, op models.PendingOperation, baseVersion int64) error
	// ReplaceWithRemote drops every operation on ref and overwrites the local
	// record with the remote snapshot, or deletes it if the remote is gone.
	ReplaceWithRemote(ctx context.Context, ref models.EntityRef, remote models.Snapshot) error
	// MergeRemote refreshes the mirror of entityType from the authority's
	// list. Targets with pending operations keep their local copy.
	MergeRemote(ctx context.Context, entityType models.EntityType, entities []models.RemoteEntity) error
	// ResolveID maps a local id to its server id once known.
	ResolveID(ctx context.Context, entityType models.EntityType, id models.EntityID) (models.EntityID, error)

	LastSyncAt(ctx context.Context) (*time.Time, error)
	SetLastSyncAt(ctx context.Context, at time.Time) error

	Dump(ctx context.Context) (models.LocalDump, error)
	// Clear wipes the mirror, the queue and the sync metadata.
	Clear(ctx context.Context) error
	Close() error
}
