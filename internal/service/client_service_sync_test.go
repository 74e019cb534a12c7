// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/mock"
	"github.com/MKhiriev/neuroplan-sync/internal/store"
	"github.com/MKhiriev/neuroplan-sync/internal/tracing"
	"github.com/MKhiriev/neuroplan-sync/models"
)

// ── harness ──────────────────────────────────────────────────────────────────

type syncHarness struct {
	store     store.LocalStore
	remote    *mock.MockRemoteAuthority
	svc       *ClientServices
	orch      *syncOrchestrator
	status    *SyncStatus
	conflicts *conflictService

	mu       sync.Mutex
	triggers []models.SyncTrigger
}

var syncTestTime = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func testClientConfig(maxRetries int) config.ClientConfig {
	return config.ClientConfig{
		Adapter: config.ClientAdapter{RequestTimeout: time.Second},
		Sync: config.ClientSync{
			MaxRetries:  maxRetries,
			RetryDelay:  time.Hour,
			RetryPolicy: config.RetryPolicyFixed,
		},
	}
}

func newSyncHarness(t *testing.T) *syncHarness {
	t.Helper()
	return newSyncHarnessWithConfig(t, testClientConfig(3))
}

func newSyncHarnessWithConfig(t *testing.T, cfg config.ClientConfig) *syncHarness {
	t.Helper()

	ctrl := gomock.NewController(t)
	ctx := context.Background()

	db, err := store.NewConnectSQLite(ctx, config.ClientDB{Path: filepath.Join(t.TempDir(), "mirror.db")}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	localStore := store.NewLocalStore(db, logger.Nop())
	remote := mock.NewMockRemoteAuthority(ctrl)

	svc, err := NewClientServices(ctx, localStore, remote, cfg, tracing.Noop(), logger.Nop())
	require.NoError(t, err)

	h := &syncHarness{
		store:     localStore,
		remote:    remote,
		svc:       svc,
		orch:      svc.SyncOrchestrator.(*syncOrchestrator),
		status:    svc.Status.(*statusService).SyncStatus,
		conflicts: svc.ConflictService.(*conflictService),
	}
	h.orch.now = func() time.Time { return syncTestTime }

	t.Cleanup(func() {
		h.orch.Close()
		_ = localStore.Close()
	})
	return h
}

// captureTriggers replaces the resolution trigger so tests drain explicitly.
func (h *syncHarness) captureTriggers() {
	h.conflicts.trigger = func(trigger models.SyncTrigger) {
		h.mu.Lock()
		h.triggers = append(h.triggers, trigger)
		h.mu.Unlock()
	}
}

func (h *syncHarness) capturedTriggers() []models.SyncTrigger {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.SyncTrigger(nil), h.triggers...)
}

func (h *syncHarness) online() {
	h.status.setConnectivity(true)
}

func (h *syncHarness) createTask(t *testing.T, title string) models.EntityRecord {
	t.Helper()
	record, err := h.svc.EntityService.Create(context.Background(), models.EntityTask, models.Fields{"title": title})
	require.NoError(t, err)
	return record
}

func (h *syncHarness) seedRemote(t *testing.T, entityType models.EntityType, entities ...models.RemoteEntity) {
	t.Helper()
	for i := range entities {
		entities[i].EntityType = entityType
	}
	require.NoError(t, h.store.MergeRemote(context.Background(), entityType, entities))
}

func (h *syncHarness) pending(t *testing.T) []models.PendingOperation {
	t.Helper()
	ops, err := h.store.ListPending(context.Background())
	require.NoError(t, err)
	return ops
}

func (h *syncHarness) drain(t *testing.T) models.DrainReport {
	t.Helper()
	report, err := h.orch.Drain(context.Background(), models.TriggerExplicit)
	require.NoError(t, err)
	return report
}

// ── ordering and acknowledgement ─────────────────────────────────────────────

func TestDrain_AppliesInEnqueueOrderAndRenames(t *testing.T) {
	h := newSyncHarness(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		h.createTask(t, title)
	}
	h.online()

	var seen []string
	h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).Times(3).DoAndReturn(
		func(_ context.Context, op models.PendingOperation) models.ApplyResult {
			assert.Equal(t, models.OperationCreate, op.Kind)
			assert.True(t, op.TargetID.IsLocal())
			seen = append(seen, op.Payload["title"].(string))
			return models.OkResult(int64(100+len(seen)), 1, syncTestTime)
		})

	report := h.drain(t)

	assert.Equal(t, []string{"first", "second", "third"}, seen)
	assert.Equal(t, 3, report.Applied)
	assert.True(t, report.Completed)
	assert.Empty(t, h.pending(t))

	records, err := h.svc.EntityService.List(ctx, models.EntityTask)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, record := range records {
		assert.Equal(t, models.RemoteID(int64(101+i)), record.ID)
		assert.False(t, record.IsLocalOnly)
		assert.Equal(t, int64(1), record.Version)
	}

	state := h.status.State()
	assert.Equal(t, models.PhaseIdle, state.Phase)
	assert.False(t, state.IsSyncing)
	assert.Zero(t, state.PendingCount)
	require.NotNil(t, state.LastSyncAt)
	assert.True(t, syncTestTime.Equal(*state.LastSyncAt))
}

func TestDrain_EmptyQueueIsIdempotent(t *testing.T) {
	h := newSyncHarness(t)
	h.online()

	for range 2 {
		report := h.drain(t)
		assert.True(t, report.Completed)
		assert.Zero(t, report.Applied)
		assert.Equal(t, models.PhaseIdle, h.status.State().Phase)
	}
}

func TestDrain_UpdateFollowsRenamedCreate(t *testing.T) {
	h := newSyncHarness(t)
	ctx := context.Background()

	created := h.createTask(t, "draft")
	_, err := h.svc.EntityService.Update(ctx, models.EntityTask, created.ID, models.Fields{"title": "final"})
	require.NoError(t, err)
	h.online()

	gomock.InOrder(
		h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, op models.PendingOperation) models.ApplyResult {
				assert.Equal(t, models.OperationCreate, op.Kind)
				assert.Equal(t, created.ID, op.TargetID)
				return models.OkResult(917, 1, syncTestTime)
			}),
		h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, op models.PendingOperation) models.ApplyResult {
				assert.Equal(t, models.OperationUpdate, op.Kind)
				assert.Equal(t, models.RemoteID(917), op.TargetID)
				assert.Equal(t, int64(1), op.BaseVersion)
				return models.OkResult(917, 2, syncTestTime)
			}),
	)

	report := h.drain(t)
	assert.Equal(t, 2, report.Applied)

	// the old local id still finds the record
	record, err := h.svc.EntityService.Get(ctx, models.EntityTask, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RemoteID(917), record.ID)
	assert.Equal(t, int64(2), record.Version)
	assert.Equal(t, "final", record.Fields["title"])
}

func TestDrain_DeleteOfSyncedEntity(t *testing.T) {
	h := newSyncHarness(t)
	ctx := context.Background()

	h.seedRemote(t, models.EntityIdea, models.RemoteEntity{ID: 5, Fields: models.Fields{"text": "x"}, Version: 2})
	require.NoError(t, h.svc.EntityService.Delete(ctx, models.EntityIdea, models.RemoteID(5)))
	h.online()

	h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, op models.PendingOperation) models.ApplyResult {
			assert.Equal(t, models.OperationDelete, op.Kind)
			assert.Equal(t, int64(2), op.BaseVersion)
			return models.OkResult(5, 3, syncTestTime)
		})

	report := h.drain(t)
	assert.Equal(t, 1, report.Applied)
	assert.Empty(t, h.pending(t))

	_, err := h.svc.EntityService.Get(ctx, models.EntityIdea, models.RemoteID(5))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// ── collapse ─────────────────────────────────────────────────────────────────

func TestDrain_CreateThenDeleteNeverReachesRemote(t *testing.T) {
	h := newSyncHarness(t)
	ctx := context.Background()

	created := h.createTask(t, "throwaway")
	require.NoError(t, h.svc.EntityService.Delete(ctx, models.EntityTask, created.ID))
	h.online()

	// no Apply expectation: any remote call fails the test
	report := h.drain(t)

	assert.Equal(t, 2, report.Collapsed)
	assert.Zero(t, report.Applied)
	assert.True(t, report.Completed)
	assert.Empty(t, h.pending(t))
	assert.Zero(t, h.status.State().PendingCount)
}

func TestDrain_AttemptedCreateIsNotCollapsed(t *testing.T) {
	h := newSyncHarness(t)
	ctx := context.Background()

	created := h.createTask(t, "maybe sent")
	h.online()

	gomock.InOrder(
		h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).
			Return(models.RetryableResult("request timed out", 0)),
		h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, op models.PendingOperation) models.ApplyResult {
				assert.Equal(t, models.OperationCreate, op.Kind)
				return models.OkResult(55, 1, syncTestTime)
			}),
		h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, op models.PendingOperation) models.ApplyResult {
				assert.Equal(t, models.OperationDelete, op.Kind)
				assert.Equal(t, models.RemoteID(55), op.TargetID)
				return models.OkResult(55, 2, syncTestTime)
			}),
	)

	first := h.drain(t)
	assert.Equal(t, 1, first.Retried)

	require.NoError(t, h.svc.EntityService.Delete(ctx, models.EntityTask, created.ID))

	second := h.drain(t)
	assert.Zero(t, second.Collapsed)
	assert.Equal(t, 2, second.Applied)
	assert.Empty(t, h.pending(t))
}

// ── conflicts ────────────────────────────────────────────────────────────────

func TestDrain_ConflictHoldsTargetOnly(t *testing.T) {
	h := newSyncHarness(t)
	ctx := context.Background()

	h.seedRemote(t, models.EntityProject, models.RemoteEntity{ID: 7, Fields: models.Fields{"name": "Alpha"}, Version: 3})
	_, err := h.svc.EntityService.Update(ctx, models.EntityProject, models.RemoteID(7), models.Fields{"name": "Alpha local"})
	require.NoError(t, err)
	h.createTask(t, "independent")
	h.online()

	h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
		func(_ context.Context, op models.PendingOperation) models.ApplyResult {
			if op.EntityType == models.EntityProject {
				assert.Equal(t, int64(3), op.BaseVersion)
				return models.ConflictResult(models.Snapshot{
					Fields:  models.Fields{"name": "Alpha remote"},
					Version: 4,
				})
			}
			return models.OkResult(300, 1, syncTestTime)
		})

	report := h.drain(t)

	assert.Equal(t, 1, report.Conflicts)
	assert.Equal(t, 1, report.Applied)
	assert.True(t, report.Completed)

	pending := h.pending(t)
	require.Len(t, pending, 1)
	assert.Equal(t, models.EntityProject, pending[0].EntityType)

	conflicts := h.svc.ConflictService.ListConflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, []string{"name"}, conflicts[0].DifferingFields)
	assert.Equal(t, int64(3), conflicts[0].Local.Version)
	assert.Equal(t, int64(4), conflicts[0].Remote.Version)

	state := h.status.State()
	assert.Equal(t, models.PhaseConflicted, state.Phase)
	assert.Equal(t, 1, state.ConflictCount)
	assert.Equal(t, 1, state.PendingCount)

	// a held target is skipped by later drains
	again := h.drain(t)
	assert.Zero(t, again.Applied)
	assert.Len(t, h.pending(t), 1)
}

// ── retries and failures ─────────────────────────────────────────────────────

func TestDrain_RetriesStopAtCap(t *testing.T) {
	h := newSyncHarness(t)

	h.createTask(t, "flaky")
	h.online()

	h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).Times(3).
		Return(models.RetryableResult("service unavailable", 0))

	for attempt := 1; attempt < 3; attempt++ {
		report := h.drain(t)
		assert.Equal(t, 1, report.Retried, "attempt %d", attempt)
		assert.False(t, report.Completed)

		pending := h.pending(t)
		require.Len(t, pending, 1)
		assert.Equal(t, attempt, pending[0].RetryCount)
		assert.Equal(t, "service unavailable", pending[0].LastError)
	}

	last := h.drain(t)
	assert.Equal(t, 1, last.Failed)
	assert.True(t, last.Completed)
	assert.Empty(t, h.pending(t))

	failures := h.orch.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, models.FailureRetriesExhausted, failures[0].Category)
	assert.Equal(t, 1, h.status.State().FailureCount)
}

func TestDrain_FatalDropsOperationAndContinues(t *testing.T) {
	h := newSyncHarness(t)

	h.createTask(t, "rejected")
	h.createTask(t, "accepted")
	h.online()

	h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
		func(_ context.Context, op models.PendingOperation) models.ApplyResult {
			if op.Payload["title"] == "rejected" {
				return models.FatalResult("payload rejected")
			}
			return models.OkResult(12, 1, syncTestTime)
		})

	report := h.drain(t)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Applied)
	assert.Empty(t, h.pending(t))

	failures := h.orch.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, models.FailureRejected, failures[0].Category)
	assert.Equal(t, "payload rejected", failures[0].Reason)

	h.orch.Dismiss(failures[0].OpID)
	assert.Empty(t, h.orch.Failures())
	assert.Zero(t, h.status.State().FailureCount)
}

func TestDrain_CancelledCallIsNotCharged(t *testing.T) {
	h := newSyncHarness(t)

	h.createTask(t, "slow")
	h.online()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ models.PendingOperation) models.ApplyResult {
			cancel()
			return models.RetryableResult("context canceled", 0)
		})

	report, err := h.orch.Drain(ctx, models.TriggerExplicit)
	require.NoError(t, err)
	assert.True(t, report.Interrupted)

	pending := h.pending(t)
	require.Len(t, pending, 1)
	assert.Zero(t, pending[0].RetryCount)
}

// ── guard, cancellation, connectivity ────────────────────────────────────────

func TestDrain_ConcurrentTriggerIsCoalesced(t *testing.T) {
	h := newSyncHarness(t)

	h.createTask(t, "blocking")
	h.online()

	entered := make(chan struct{})
	release := make(chan struct{})
	h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ models.PendingOperation) models.ApplyResult {
			close(entered)
			<-release
			return models.OkResult(1, 1, syncTestTime)
		})

	type result struct {
		report models.DrainReport
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := h.orch.Drain(context.Background(), models.TriggerExplicit)
		done <- result{report, err}
	}()

	<-entered
	assert.True(t, h.svc.Status.IsSyncing())
	assert.Equal(t, models.PhaseAwaitingRemote, h.status.State().Phase)

	second, err := h.orch.Drain(context.Background(), models.TriggerTimer)
	assert.ErrorIs(t, err, ErrSyncInProgress)
	assert.True(t, second.Coalesced)

	close(release)

	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.Equal(t, 1, res.report.Applied)
		assert.True(t, res.report.Completed)
	case <-time.After(5 * time.Second):
		t.Fatal("drain did not finish")
	}
	assert.False(t, h.svc.Status.IsSyncing())
}

func TestDrain_CancelStopsBetweenOperations(t *testing.T) {
	h := newSyncHarness(t)

	h.createTask(t, "one")
	h.createTask(t, "two")
	h.online()

	calls := 0
	h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
		func(_ context.Context, _ models.PendingOperation) models.ApplyResult {
			calls++
			if calls == 1 {
				h.orch.Cancel()
			}
			return models.OkResult(int64(calls), 1, syncTestTime)
		})

	first := h.drain(t)
	assert.True(t, first.Interrupted)
	assert.Equal(t, 1, first.Applied)
	assert.Len(t, h.pending(t), 1)

	// a later drain picks up where the cancelled one stopped
	second := h.drain(t)
	assert.Equal(t, 1, second.Applied)
	assert.Empty(t, h.pending(t))
}

func TestDrain_Offline(t *testing.T) {
	h := newSyncHarness(t)
	h.createTask(t, "waiting")

	report, err := h.orch.Drain(context.Background(), models.TriggerTimer)
	assert.ErrorIs(t, err, ErrOffline)
	assert.True(t, report.Interrupted)
	assert.Len(t, h.pending(t), 1)

	_, err = h.orch.ForceSyncNow(context.Background())
	assert.ErrorIs(t, err, ErrOffline)
}

func TestDrain_GoingOfflineStopsDrain(t *testing.T) {
	h := newSyncHarness(t)

	h.createTask(t, "one")
	h.createTask(t, "two")
	h.online()

	h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ models.PendingOperation) models.ApplyResult {
			h.status.setConnectivity(false)
			return models.OkResult(1, 1, syncTestTime)
		})

	report := h.drain(t)
	assert.True(t, report.Interrupted)
	assert.Equal(t, 1, report.Applied)
	assert.Len(t, h.pending(t), 1)
}

func TestSetOnline_EdgeTriggersDrain(t *testing.T) {
	h := newSyncHarness(t)
	h.createTask(t, "queued offline")

	applied := make(chan struct{})
	h.remote.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ models.PendingOperation) models.ApplyResult {
			close(applied)
			return models.OkResult(8, 1, syncTestTime)
		})

	h.orch.SetOnline(true)

	select {
	case <-applied:
	case <-time.After(5 * time.Second):
		t.Fatal("coming online did not start a drain")
	}

	require.Eventually(t, func() bool {
		n, err := h.store.CountPending(context.Background())
		return err == nil && n == 0 && !h.status.IsSyncing()
	}, 5*time.Second, 10*time.Millisecond)

	// staying online is not an edge
	h.orch.SetOnline(true)
	assert.True(t, h.status.IsOnline())
}

func TestForceSyncNow_DrainsThenRefreshesMirror(t *testing.T) {
	h := newSyncHarness(t)
	ctx := context.Background()
	h.online()

	h.remote.EXPECT().List(gomock.Any(), gomock.Any()).Times(len(models.EntityTypes)).DoAndReturn(
		func(_ context.Context, entityType models.EntityType) ([]models.RemoteEntity, error) {
			if entityType != models.EntityTask {
				return nil, nil
			}
			return []models.RemoteEntity{
				{ID: 40, EntityType: models.EntityTask, Fields: models.Fields{"title": "from server"}, Version: 6},
			}, nil
		})

	report, err := h.orch.ForceSyncNow(ctx)
	require.NoError(t, err)
	assert.True(t, report.Completed)
	assert.Equal(t, models.TriggerExplicit, report.Trigger)

	record, err := h.svc.EntityService.Get(ctx, models.EntityTask, models.RemoteID(40))
	require.NoError(t, err)
	assert.Equal(t, "from server", record.Fields["title"])
	assert.Equal(t, int64(6), record.Version)
}

func TestRefreshFromRemote_ListErrorIsRetryable(t *testing.T) {
	h := newSyncHarness(t)

	h.remote.EXPECT().List(gomock.Any(), models.EntityIdea).Return(nil, assert.AnError)

	err := h.orch.RefreshFromRemote(context.Background(), models.EntityIdea)
	assert.ErrorIs(t, err, ErrRetryableRemote)
	assert.ErrorIs(t, err, assert.AnError)

	err = h.orch.RefreshFromRemote(context.Background(), "habit")
	assert.ErrorIs(t, err, ErrUnknownEntityType)
}

func TestOrchestrator_CloseIsIdempotent(t *testing.T) {
	h := newSyncHarness(t)
	h.online()

	h.orch.Close()
	h.orch.Close()

	_, err := h.orch.Drain(context.Background(), models.TriggerExplicit)
	assert.ErrorIs(t, err, ErrOrchestratorClosed)

	// triggers after close are dropped
	h.orch.Trigger(models.TriggerTimer)
}
