package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/store"
	"github.com/MKhiriev/neuroplan-sync/models"
)

type entityService struct {
	store     store.LocalStore
	queue     QueueService
	status    *SyncStatus
	conflicts *conflictSet
	now       func() time.Time
}

func newEntityService(localStore store.LocalStore, queue QueueService, status *SyncStatus, conflicts *conflictSet) *entityService {
	return &entityService{
		store:     localStore,
		queue:     queue,
		status:    status,
		conflicts: conflicts,
		now:       time.Now,
	}
}

// Create writes a local-only record under a fresh local id and enqueues its
// create operation.
func (s *entityService) Create(ctx context.Context, entityType models.EntityType, fields models.Fields) (models.EntityRecord, error) {
	log := logger.FromContext(ctx)

	if !entityType.Valid() {
		return models.EntityRecord{}, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}
	if fields == nil {
		return models.EntityRecord{}, fmt.Errorf("%w: no fields", ErrInvalidDataProvided)
	}

	id, err := s.store.NextLocalID(ctx)
	if err != nil {
		return models.EntityRecord{}, err
	}

	record := models.EntityRecord{
		EntityType:  entityType,
		ID:          id,
		Fields:      fields.Clone(),
		UpdatedAt:   s.now().UTC(),
		IsLocalOnly: true,
	}
	op := s.queue.NewOperation(entityType, id, models.OperationCreate, record.Fields, 0)

	if _, err = s.store.PutAndAppend(ctx, record, op); err != nil {
		log.Err(err).
			Str("func", "entityService.Create").
			Str("entity_type", string(entityType)).
			Msg("failed to store new record")
		return models.EntityRecord{}, err
	}

	refreshPendingCount(ctx, s.queue, "entityService.Create")
	return record, nil
}

func (s *entityService) Update(ctx context.Context, entityType models.EntityType, id models.EntityID, fields models.Fields) (models.EntityRecord, error) {
	if !entityType.Valid() {
		return models.EntityRecord{}, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}

	// the base version is stamped by the store from the record it merges into
	op := s.queue.NewOperation(entityType, id, models.OperationUpdate, fields, 0)
	record, _, err := s.store.UpdateAndAppend(ctx, op, s.now().UTC())
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityService.Update").
			Str("entity_type", string(entityType)).
			Stringer("id", id).
			Msg("failed to store update")
		return models.EntityRecord{}, err
	}

	refreshPendingCount(ctx, s.queue, "entityService.Update")
	return record, nil
}

func (s *entityService) Delete(ctx context.Context, entityType models.EntityType, id models.EntityID) error {
	if !entityType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}

	op := s.queue.NewOperation(entityType, id, models.OperationDelete, nil, 0)
	if _, err := s.store.DeleteAndAppend(ctx, op); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityService.Delete").
			Str("entity_type", string(entityType)).
			Stringer("id", id).
			Msg("failed to store delete")
		return err
	}

	refreshPendingCount(ctx, s.queue, "entityService.Delete")
	return nil
}

func (s *entityService) Get(ctx context.Context, entityType models.EntityType, id models.EntityID) (models.EntityRecord, error) {
	if !entityType.Valid() {
		return models.EntityRecord{}, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}

	resolved, err := s.store.ResolveID(ctx, entityType, id)
	if err != nil {
		return models.EntityRecord{}, err
	}
	return s.store.Get(ctx, entityType, resolved)
}

func (s *entityService) List(ctx context.Context, entityType models.EntityType) ([]models.EntityRecord, error) {
	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}
	return s.store.List(ctx, entityType)
}

func (s *entityService) Export(ctx context.Context) (models.LocalDump, error) {
	return s.store.Dump(ctx)
}

func (s *entityService) ClearAll(ctx context.Context) error {
	if s.status.IsSyncing() {
		return ErrSyncInProgress
	}

	if err := s.store.Clear(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "entityService.ClearAll").Msg("failed to clear local data")
		return err
	}

	s.conflicts.reset()
	s.status.update(func(state *models.SyncState) {
		state.PendingCount = 0
		state.ConflictCount = 0
		state.LastSyncAt = nil
		if state.Phase == models.PhaseConflicted {
			state.Phase = models.PhaseIdle
		}
	})

	logger.FromContext(ctx).Info().Str("func", "entityService.ClearAll").Msg("local data cleared")
	return nil
}
