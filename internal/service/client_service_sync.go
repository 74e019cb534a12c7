// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/MKhiriev/neuroplan-sync/internal/adapter"
	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/store"
	"github.com/MKhiriev/neuroplan-sync/internal/tracing"
	"github.com/MKhiriev/neuroplan-sync/models"
)

// syncOrchestrator is the only writer of conflict holds and terminal
// failures. One drain runs at a time; each step re-reads the queue and
// dispatches the oldest operation whose target is not held by a conflict.
type syncOrchestrator struct {
	store     store.LocalStore
	remote    adapter.RemoteAuthority
	queue     QueueService
	status    *SyncStatus
	conflicts *conflictSet
	tracer    *tracing.Tracer
	policy    retryPolicy

	maxRetries     int
	requestTimeout time.Duration

	logger *logger.Logger
	now    func() time.Time

	baseCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup

	// step is held from reading the queue to recording the outcome of the
	// chosen operation. Resolution takes it through exclusive.
	step sync.Mutex

	mu           sync.Mutex
	running      bool
	rerun        bool
	rerunTrigger models.SyncTrigger
	closed       bool
	retryTimer   *time.Timer
	failures     []models.SyncFailure

	cancelled atomic.Bool
}

func newSyncOrchestrator(
	localStore store.LocalStore,
	remote adapter.RemoteAuthority,
	queue QueueService,
	status *SyncStatus,
	conflicts *conflictSet,
	cfg config.ClientConfig,
	tracer *tracing.Tracer,
	logger *logger.Logger,
) *syncOrchestrator {
	if tracer == nil {
		tracer = tracing.Noop()
	}

	baseCtx, stop := context.WithCancel(context.Background())

	return &syncOrchestrator{
		store:          localStore,
		remote:         remote,
		queue:          queue,
		status:         status,
		conflicts:      conflicts,
		tracer:         tracer,
		policy:         newRetryPolicy(cfg.Sync),
		maxRetries:     cfg.Sync.MaxRetries,
		requestTimeout: cfg.Adapter.RequestTimeout,
		logger:         logger,
		now:            time.Now,
		baseCtx:        baseCtx,
		stop:           stop,
	}
}

func (o *syncOrchestrator) Drain(ctx context.Context, trigger models.SyncTrigger) (models.DrainReport, error) {
	log := logger.FromContext(ctx)

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return models.DrainReport{Trigger: trigger}, ErrOrchestratorClosed
	}
	if o.running {
		o.rerun = true
		o.rerunTrigger = trigger
		o.mu.Unlock()

		log.Debug().
			Str("func", "syncOrchestrator.Drain").
			Str("trigger", string(trigger)).
			Msg("drain already running, trigger coalesced")
		return models.DrainReport{Trigger: trigger, Coalesced: true}, ErrSyncInProgress
	}
	if !o.status.IsOnline() {
		o.mu.Unlock()
		return models.DrainReport{Trigger: trigger, Interrupted: true}, ErrOffline
	}
	o.running = true
	o.cancelled.Store(false)
	o.mu.Unlock()

	o.status.setSyncing(true)

	total := models.DrainReport{Trigger: trigger}
	for {
		report, err := o.drainOnce(ctx, trigger)
		total = mergeReports(total, report)

		o.mu.Lock()
		again := err == nil && o.rerun && !o.closed && !report.Interrupted
		o.rerun = false
		if !again {
			o.status.setSyncing(false)
			o.running = false
			o.mu.Unlock()
			return total, err
		}
		trigger = o.rerunTrigger
		o.mu.Unlock()

		log.Debug().
			Str("func", "syncOrchestrator.Drain").
			Str("trigger", string(trigger)).
			Msg("running coalesced drain")
	}
}

func (o *syncOrchestrator) drainOnce(ctx context.Context, trigger models.SyncTrigger) (report models.DrainReport, err error) {
	report = models.DrainReport{Trigger: trigger, StartedAt: o.now().UTC()}

	ctx, span := o.tracer.StartDrainSpan(ctx, trigger)
	log := logger.FromContext(ctx)

	defer func() {
		report.FinishedAt = o.now().UTC()
		o.settle(ctx)
		if err != nil {
			span.EndWithError(err)
			return
		}
		span.End(report)
	}()

	o.status.setPhase(models.PhaseDraining)

	for {
		if reason, stop := o.shouldStop(ctx); stop {
			report.Interrupted = true
			log.Info().
				Str("func", "syncOrchestrator.drainOnce").
				Str("reason", reason).
				Msg("drain interrupted")
			return report, nil
		}

		outcome, err := o.runStep(ctx, &report)
		if err != nil {
			return report, err
		}

		switch outcome {
		case stepDrained:
			return report, o.complete(ctx, &report)
		case stepHalted:
			return report, nil
		}
	}
}

type stepOutcome int

const (
	stepContinue stepOutcome = iota
	stepDrained
	stepHalted
)

// runStep picks the oldest dispatchable operation and sends it. The queue
// and the conflict holds cannot change under it through resolution.
func (o *syncOrchestrator) runStep(ctx context.Context, report *models.DrainReport) (stepOutcome, error) {
	o.step.Lock()
	defer o.step.Unlock()

	pending, err := o.store.ListPending(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "syncOrchestrator.runStep").Msg("failed to read pending operations")
		return stepHalted, err
	}

	op, ok := o.nextDispatchable(pending)
	if !ok {
		return stepDrained, nil
	}

	removed, err := o.queue.Collapse(ctx, op, pending)
	if err != nil {
		return stepHalted, err
	}
	if removed > 0 {
		report.Collapsed += removed
		return stepContinue, nil
	}

	next, err := o.dispatch(ctx, op, report)
	if err != nil {
		return stepHalted, err
	}
	if !next {
		return stepHalted, nil
	}
	return stepContinue, nil
}

// exclusive runs fn between two drain steps.
func (o *syncOrchestrator) exclusive(fn func() error) error {
	o.step.Lock()
	defer o.step.Unlock()
	return fn()
}

func (o *syncOrchestrator) shouldStop(ctx context.Context) (string, bool) {
	switch {
	case ctx.Err() != nil:
		return ctx.Err().Error(), true
	case o.cancelled.Load():
		return "cancelled", true
	case !o.status.IsOnline():
		return "offline", true
	}
	return "", false
}

func (o *syncOrchestrator) nextDispatchable(pending []models.PendingOperation) (models.PendingOperation, bool) {
	for _, op := range pending {
		if !o.conflicts.isHeld(op.Ref()) {
			return op, true
		}
	}
	return models.PendingOperation{}, false
}

// complete runs when nothing dispatchable is left.
func (o *syncOrchestrator) complete(ctx context.Context, report *models.DrainReport) error {
	at := o.now().UTC()
	if err := o.store.SetLastSyncAt(ctx, at); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncOrchestrator.complete").
			Msg("failed to persist last sync time")
		return err
	}

	o.status.setLastSyncAt(at)
	report.Completed = true

	logger.FromContext(ctx).Info().
		Str("func", "syncOrchestrator.complete").
		Int("applied", report.Applied).
		Int("held", o.conflicts.len()).
		Msg("queue drained")
	return nil
}

// settle publishes the queue length and leaves the drain phase.
func (o *syncOrchestrator) settle(ctx context.Context) {
	refreshPendingCount(ctx, o.queue, "syncOrchestrator.settle")
	o.status.setConflictCount(o.conflicts.len())

	if o.conflicts.len() > 0 {
		o.status.setPhase(models.PhaseConflicted)
		return
	}
	o.status.setPhase(models.PhaseIdle)
}

// dispatch sends op and records the outcome. It reports whether the drain
// should go on with the next operation.
func (o *syncOrchestrator) dispatch(ctx context.Context, op models.PendingOperation, report *models.DrainReport) (bool, error) {
	log := logger.FromContext(ctx)

	result := o.apply(ctx, op)

	switch result.Outcome {
	case models.OutcomeOK:
		var err error
		if op.Kind == models.OperationCreate {
			err = o.store.CompleteCreate(ctx, op, result.ServerID, result.Version)
		} else {
			err = o.store.CompleteWrite(ctx, op, result.Version)
		}
		if err != nil {
			log.Err(err).
				Str("func", "syncOrchestrator.dispatch").
				Int64("op_id", op.OpID).
				Msg("failed to record acknowledged operation")
			return false, err
		}

		report.Applied++
		log.Debug().
			Str("func", "syncOrchestrator.dispatch").
			Int64("op_id", op.OpID).
			Str("op", op.Describe()).
			Int64("server_id", result.ServerID).
			Int64("version", result.Version).
			Msg("operation acknowledged")
		return true, nil

	case models.OutcomeRetryable:
		if ctx.Err() != nil {
			// the caller went away mid-call; the attempt is not charged
			report.Interrupted = true
			return false, nil
		}
		return o.retryLater(ctx, op, result, report)

	case models.OutcomeVersionConflict:
		return true, o.holdConflict(ctx, op, result, report)

	default:
		return true, o.giveUp(ctx, op, models.FailureRejected, fmt.Errorf("%w: %s", ErrFatalRemote, result.Reason), result.Reason, report)
	}
}

func (o *syncOrchestrator) apply(ctx context.Context, op models.PendingOperation) models.ApplyResult {
	ctx, span := o.tracer.StartApplySpan(ctx, op)
	o.status.setPhase(models.PhaseAwaitingRemote)

	callCtx, cancel := context.WithTimeout(ctx, o.requestTimeout)
	result := o.remote.Apply(callCtx, op)
	cancel()

	o.status.setPhase(models.PhaseDraining)
	span.End(result)
	return result
}

func (o *syncOrchestrator) retryLater(ctx context.Context, op models.PendingOperation, result models.ApplyResult, report *models.DrainReport) (bool, error) {
	log := logger.FromContext(ctx)

	count, err := o.store.BumpRetry(ctx, op.OpID, result.Reason)
	if err != nil {
		log.Err(err).
			Str("func", "syncOrchestrator.retryLater").
			Int64("op_id", op.OpID).
			Msg("failed to record retry")
		return false, err
	}

	if count >= o.maxRetries {
		return true, o.giveUp(ctx, op, models.FailureRetriesExhausted, fmt.Errorf("%w: %s", ErrRetryableRemote, result.Reason), result.Reason, report)
	}

	report.Retried++
	delay := o.policy.delay(count, result.RetryAfter)
	o.scheduleRetry(delay)

	log.Warn().
		Str("func", "syncOrchestrator.retryLater").
		Int64("op_id", op.OpID).
		Str("op", op.Describe()).
		Str("reason", result.Reason).
		Int("retry_count", count).
		Dur("retry_in", delay).
		Msg("operation failed, retry scheduled")
	return false, nil
}

func (o *syncOrchestrator) holdConflict(ctx context.Context, op models.PendingOperation, result models.ApplyResult, report *models.DrainReport) error {
	local, err := o.localSnapshot(ctx, op)
	if err != nil {
		return err
	}

	var remote models.Snapshot
	if result.Remote != nil {
		remote = *result.Remote
	}

	record := models.NewConflictRecord(op, local, remote, o.now().UTC())
	o.status.setConflictCount(o.conflicts.hold(record))
	report.Conflicts++

	tracing.AddEvent(ctx, "sync.conflict",
		attribute.String("entity.ref", op.Ref().String()),
		attribute.Int64("conflict.local_version", local.Version),
		attribute.Int64("conflict.remote_version", remote.Version),
	)
	logger.FromContext(ctx).Info().
		Err(ErrVersionConflict).
		Str("func", "syncOrchestrator.holdConflict").
		Int64("op_id", op.OpID).
		Stringer("target", op.Ref()).
		Int64("local_version", local.Version).
		Int64("remote_version", remote.Version).
		Strs("differing_fields", record.DifferingFields).
		Msg("target held for resolution")
	return nil
}

// localSnapshot reads the local side of a conflict. A record deleted
// locally is described by the held operation itself.
func (o *syncOrchestrator) localSnapshot(ctx context.Context, op models.PendingOperation) (models.Snapshot, error) {
	record, err := o.store.Get(ctx, op.EntityType, op.TargetID)
	switch {
	case err == nil:
		return models.Snapshot{Fields: record.Fields, Version: op.BaseVersion, UpdatedAt: record.UpdatedAt}, nil
	case errors.Is(err, store.ErrNotFound):
		return models.Snapshot{
			Fields:    op.Payload,
			Version:   op.BaseVersion,
			UpdatedAt: op.EnqueuedAt,
			Deleted:   op.Kind == models.OperationDelete,
		}, nil
	default:
		return models.Snapshot{}, err
	}
}

// giveUp drops op from the queue and surfaces it as a terminal failure.
func (o *syncOrchestrator) giveUp(ctx context.Context, op models.PendingOperation, category models.FailureCategory, cause error, reason string, report *models.DrainReport) error {
	if err := o.store.RemovePending(ctx, op.OpID); err != nil {
		return err
	}

	failure := models.NewSyncFailure(op, category, reason, o.now().UTC())

	o.mu.Lock()
	o.failures = append(o.failures, failure)
	n := len(o.failures)
	o.mu.Unlock()

	o.status.setFailureCount(n)
	report.Failed++

	tracing.AddEvent(ctx, "sync.failure",
		attribute.Int64("op.id", op.OpID),
		attribute.String("failure.category", string(category)),
	)
	logger.FromContext(ctx).Warn().
		Err(cause).
		Str("func", "syncOrchestrator.giveUp").
		Int64("op_id", op.OpID).
		Str("op", op.Describe()).
		Str("category", string(category)).
		Msg("operation dropped")
	return nil
}

func (o *syncOrchestrator) scheduleRetry(delay time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	if o.retryTimer != nil {
		o.retryTimer.Stop()
	}
	o.retryTimer = time.AfterFunc(delay, func() {
		o.Trigger(models.TriggerRetry)
	})
}

func (o *syncOrchestrator) Trigger(trigger models.SyncTrigger) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.wg.Add(1)
	o.mu.Unlock()

	go func() {
		defer o.wg.Done()

		ctx := o.logger.WithContext(o.baseCtx)
		_, err := o.Drain(ctx, trigger)
		switch {
		case err == nil, errors.Is(err, ErrSyncInProgress), errors.Is(err, ErrOrchestratorClosed):
		case errors.Is(err, ErrOffline):
			o.logger.Debug().
				Str("func", "syncOrchestrator.Trigger").
				Str("trigger", string(trigger)).
				Msg("skipping drain while offline")
		default:
			o.logger.Err(err).
				Str("func", "syncOrchestrator.Trigger").
				Str("trigger", string(trigger)).
				Msg("background drain failed")
		}
	}()
}

func (o *syncOrchestrator) ForceSyncNow(ctx context.Context) (models.DrainReport, error) {
	if !o.status.IsOnline() {
		return models.DrainReport{Trigger: models.TriggerExplicit}, ErrOffline
	}

	report, err := o.Drain(ctx, models.TriggerExplicit)
	if err != nil || report.Interrupted {
		return report, err
	}

	for _, entityType := range models.EntityTypes {
		if err = o.RefreshFromRemote(ctx, entityType); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (o *syncOrchestrator) RefreshFromRemote(ctx context.Context, entityType models.EntityType) error {
	log := logger.FromContext(ctx)

	if !entityType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.requestTimeout)
	entities, err := o.remote.List(callCtx, entityType)
	cancel()
	if err != nil {
		log.Err(err).
			Str("func", "syncOrchestrator.RefreshFromRemote").
			Str("entity_type", string(entityType)).
			Msg("failed to fetch remote entities")
		return fmt.Errorf("%w: %w", ErrRetryableRemote, err)
	}

	if err = o.store.MergeRemote(ctx, entityType, entities); err != nil {
		return err
	}

	log.Debug().
		Str("func", "syncOrchestrator.RefreshFromRemote").
		Str("entity_type", string(entityType)).
		Int("entities", len(entities)).
		Msg("mirror refreshed")
	return nil
}

func (o *syncOrchestrator) SetOnline(online bool) {
	if o.status.setConnectivity(online) {
		o.logger.Info().Str("func", "syncOrchestrator.SetOnline").Msg("remote authority reachable again")
		o.Trigger(models.TriggerOnline)
	}
}

func (o *syncOrchestrator) Cancel() {
	o.cancelled.Store(true)

	o.mu.Lock()
	o.rerun = false
	if o.retryTimer != nil {
		o.retryTimer.Stop()
		o.retryTimer = nil
	}
	o.mu.Unlock()
}

func (o *syncOrchestrator) Failures() []models.SyncFailure {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]models.SyncFailure, len(o.failures))
	copy(out, o.failures)
	return out
}

func (o *syncOrchestrator) Dismiss(opID int64) {
	o.mu.Lock()
	for i, f := range o.failures {
		if f.OpID == opID {
			o.failures = append(o.failures[:i], o.failures[i+1:]...)
			break
		}
	}
	n := len(o.failures)
	o.mu.Unlock()

	o.status.setFailureCount(n)
}

func (o *syncOrchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	if o.retryTimer != nil {
		o.retryTimer.Stop()
		o.retryTimer = nil
	}
	o.mu.Unlock()

	o.cancelled.Store(true)
	o.stop()
	o.wg.Wait()
}

func mergeReports(total, next models.DrainReport) models.DrainReport {
	if total.StartedAt.IsZero() {
		total.StartedAt = next.StartedAt
	}
	total.Applied += next.Applied
	total.Collapsed += next.Collapsed
	total.Conflicts += next.Conflicts
	total.Failed += next.Failed
	total.Retried += next.Retried
	total.Completed = next.Completed
	total.Interrupted = next.Interrupted
	total.FinishedAt = next.FinishedAt
	return total
}
