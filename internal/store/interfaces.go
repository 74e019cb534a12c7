package store

import (
	"context"

	"github.com/MKhiriev/neuroplan-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// EntityRepository is the remote authority's versioned entity store.
type EntityRepository interface {
	// Apply executes one client operation for ownerID under optimistic
	// locking. A repeated idempotency key returns the originally stored
	// result without applying anything. On a base version mismatch the
	// current entity is returned together with [ErrVersionConflict]; an
	// unknown target yields [ErrNotFound].
	Apply(ctx context.Context, ownerID int64, req models.ApplyRequest) (models.RemoteEntity, error)
	// List returns every entity of entityType owned by ownerID, including
	// soft-deleted ones so that clients can drop them.
	List(ctx context.Context, ownerID int64, entityType models.EntityType) ([]models.RemoteEntity, error)
}
