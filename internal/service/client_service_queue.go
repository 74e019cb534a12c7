package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/store"
	"github.com/MKhiriev/neuroplan-sync/internal/utils"
	"github.com/MKhiriev/neuroplan-sync/models"
)

type queueService struct {
	store  store.LocalStore
	status *SyncStatus
	keys   *utils.UUIDGenerator
	now    func() time.Time
}

// NewQueueService constructs a [QueueService] over localStore. Queue length
// changes are published to status.
func NewQueueService(localStore store.LocalStore, status *SyncStatus) QueueService {
	return &queueService{
		store:  localStore,
		status: status,
		keys:   utils.NewUUIDGenerator(),
		now:    time.Now,
	}
}

func (q *queueService) NewOperation(
	entityType models.EntityType,
	targetID models.EntityID,
	kind models.OperationKind,
	payload models.Fields,
	baseVersion int64,
) models.PendingOperation {
	return models.PendingOperation{
		IdempotencyKey: q.keys.Generate(),
		EntityType:     entityType,
		TargetID:       targetID,
		Kind:           kind,
		Payload:        payload.Clone(),
		BaseVersion:    baseVersion,
		EnqueuedAt:     q.now().UTC(),
	}
}

func (q *queueService) Enqueue(
	ctx context.Context,
	entityType models.EntityType,
	targetID models.EntityID,
	kind models.OperationKind,
	payload models.Fields,
	baseVersion int64,
) (models.PendingOperation, error) {
	if err := validateOperation(entityType, targetID, kind); err != nil {
		return models.PendingOperation{}, err
	}

	op, err := q.store.AppendPending(ctx, q.NewOperation(entityType, targetID, kind, payload, baseVersion))
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "queueService.Enqueue").
			Str("entity_type", string(entityType)).
			Stringer("target_id", targetID).
			Str("kind", string(kind)).
			Msg("failed to enqueue operation")
		return models.PendingOperation{}, err
	}

	refreshPendingCount(ctx, q, "queueService.Enqueue")
	return op, nil
}

func (q *queueService) Pending(ctx context.Context) ([]models.PendingOperation, error) {
	return q.store.ListPending(ctx)
}

func (q *queueService) PendingCount(ctx context.Context) (int, error) {
	n, err := q.store.CountPending(ctx)
	if err != nil {
		return 0, err
	}
	q.status.setPendingCount(n)
	return n, nil
}

func (q *queueService) Collapse(ctx context.Context, op models.PendingOperation, pending []models.PendingOperation) (int, error) {
	ref := op.Ref()

	var deleteOp *models.PendingOperation
	for i := range pending {
		p := pending[i]
		if p.Ref() == ref && p.Kind == models.OperationDelete && p.OpID >= op.OpID {
			deleteOp = &pending[i]
		}
	}
	if deleteOp == nil {
		return 0, nil
	}

	// a create that was already sent may exist on the authority, so it and
	// the delete still have to go out
	var (
		drop []int64
		sent bool
	)
	for _, p := range pending {
		if p.Ref() != ref || p.OpID > deleteOp.OpID {
			continue
		}
		if p.Kind == models.OperationCreate && p.RetryCount > 0 {
			sent = true
			continue
		}
		if p.OpID != deleteOp.OpID {
			drop = append(drop, p.OpID)
		}
	}
	if ref.ID.IsLocal() && !sent {
		drop = append(drop, deleteOp.OpID)
	}
	if len(drop) == 0 {
		return 0, nil
	}

	if err := q.store.RemovePending(ctx, drop...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "queueService.Collapse").
			Stringer("target", ref).
			Msg("failed to remove superseded operations")
		return 0, err
	}

	logger.FromContext(ctx).Debug().
		Str("func", "queueService.Collapse").
		Stringer("target", ref).
		Int("removed", len(drop)).
		Msg("superseded operations collapsed")

	refreshPendingCount(ctx, q, "queueService.Collapse")
	return len(drop), nil
}

// refreshPendingCount republishes the queue length after a committed queue
// change. A failed count leaves the published value stale until the next one.
func refreshPendingCount(ctx context.Context, queue QueueService, funcName string) {
	if _, err := queue.PendingCount(ctx); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", funcName).
			Msg("failed to refresh pending count")
	}
}

func validateOperation(entityType models.EntityType, targetID models.EntityID, kind models.OperationKind) error {
	if !entityType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownOperationKind, kind)
	}
	if targetID.IsZero() {
		return ErrMissingTarget
	}
	return nil
}
