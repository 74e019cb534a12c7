package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/store"
	"github.com/MKhiriev/neuroplan-sync/models"
)

type conflictService struct {
	store     store.LocalStore
	queue     QueueService
	conflicts *conflictSet
	status    *SyncStatus
	trigger   func(models.SyncTrigger)
	exclusive func(func() error) error
}

func newConflictService(
	localStore store.LocalStore,
	queue QueueService,
	conflicts *conflictSet,
	status *SyncStatus,
	trigger func(models.SyncTrigger),
	exclusive func(func() error) error,
) *conflictService {
	return &conflictService{
		store:     localStore,
		queue:     queue,
		conflicts: conflicts,
		status:    status,
		trigger:   trigger,
		exclusive: exclusive,
	}
}

func (c *conflictService) ListConflicts() []models.ConflictRecord {
	return c.conflicts.list()
}

func (c *conflictService) Resolve(ctx context.Context, ref models.EntityRef, choice models.ResolutionChoice) error {
	if !choice.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}

	if err := c.resolve(ctx, ref, choice); err != nil {
		return err
	}

	c.trigger(models.TriggerResolution)
	return nil
}

func (c *conflictService) ResolveAll(ctx context.Context, choice models.ResolutionChoice) error {
	if !choice.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}

	records := c.conflicts.list()
	if len(records) == 0 {
		return nil
	}

	for _, record := range records {
		err := c.resolve(ctx, record.Ref(), choice)
		if err != nil && !errors.Is(err, ErrNoConflict) {
			return err
		}
	}

	c.trigger(models.TriggerResolution)
	return nil
}

// resolve makes the decision durable and then releases the hold, so the
// next drain sees the rewritten queue. It runs between drain steps.
func (c *conflictService) resolve(ctx context.Context, ref models.EntityRef, choice models.ResolutionChoice) error {
	return c.exclusive(func() error {
		record, ok := c.conflicts.get(ref)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNoConflict, ref)
		}
		return c.apply(ctx, record, choice)
	})
}

func (c *conflictService) apply(ctx context.Context, record models.ConflictRecord, choice models.ResolutionChoice) error {
	log := logger.FromContext(ctx)

	var err error
	switch choice {
	case models.KeepLocal:
		err = c.store.RestampPending(ctx, record.SourceOperation, record.Remote.Version)
	case models.KeepRemote:
		err = c.store.ReplaceWithRemote(ctx, record.Ref(), record.Remote)
	}
	if err != nil {
		log.Err(err).
			Str("func", "conflictService.apply").
			Stringer("target", record.Ref()).
			Str("choice", string(choice)).
			Msg("failed to apply resolution")
		return err
	}

	held := c.conflicts.release(record.Ref())
	c.status.setConflictCount(held)
	if held == 0 && !c.status.IsSyncing() {
		c.status.setPhase(models.PhaseIdle)
	}
	refreshPendingCount(ctx, c.queue, "conflictService.apply")

	log.Info().
		Str("func", "conflictService.apply").
		Stringer("target", record.Ref()).
		Str("choice", string(choice)).
		Int64("remote_version", record.Remote.Version).
		Msg("conflict resolved")
	return nil
}
