package service

import (
	"context"
	"path/filepath"
	"testing"

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

func openMirror(t *testing.T, path string) store.LocalStore {
	t.Helper()

	db, err := store.NewConnectSQLite(context.Background(), config.ClientDB{Path: path}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	return store.NewLocalStore(db, logger.Nop())
}

func TestNewClientServices_StateRestoredFromDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mirror.db")
	cfg := testClientConfig(3)

	// first session: queue work offline and remember a past sync
	first := openMirror(t, path)
	svc, err := NewClientServices(ctx, first, mock.NewMockRemoteAuthority(gomock.NewController(t)), cfg, tracing.Noop(), logger.Nop())
	require.NoError(t, err)

	created, err := svc.EntityService.Create(ctx, models.EntityTask, models.Fields{"title": "a"})
	require.NoError(t, err)
	_, err = svc.EntityService.Update(ctx, models.EntityTask, created.ID, models.Fields{"title": "b"})
	require.NoError(t, err)
	_, err = svc.EntityService.Create(ctx, models.EntityIdea, models.Fields{"text": "c"})
	require.NoError(t, err)
	require.NoError(t, first.SetLastSyncAt(ctx, syncTestTime))

	svc.SyncOrchestrator.Close()
	require.NoError(t, first.Close())

	// second session over the same file
	reopened := openMirror(t, path)
	t.Cleanup(func() { _ = reopened.Close() })

	svc, err = NewClientServices(ctx, reopened, mock.NewMockRemoteAuthority(gomock.NewController(t)), cfg, tracing.Noop(), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(svc.SyncOrchestrator.Close)

	state := svc.Status.State()
	assert.Equal(t, 3, state.PendingCount)
	require.NotNil(t, state.LastSyncAt)
	assert.True(t, syncTestTime.Equal(*state.LastSyncAt))
	assert.False(t, state.IsSyncing)
	assert.Equal(t, models.PhaseIdle, state.Phase)
	assert.Equal(t, models.Offline, state.Connectivity)

	count, err := svc.Status.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	at, err := svc.Status.LastSyncAt(ctx)
	require.NoError(t, err)
	require.NotNil(t, at)
	assert.True(t, syncTestTime.Equal(*at))
}

func TestNewClientServices_FreshMirror(t *testing.T) {
	ctx := context.Background()
	localStore := openMirror(t, filepath.Join(t.TempDir(), "mirror.db"))
	t.Cleanup(func() { _ = localStore.Close() })

	svc, err := NewClientServices(ctx, localStore, mock.NewMockRemoteAuthority(gomock.NewController(t)), testClientConfig(3), tracing.Noop(), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(svc.SyncOrchestrator.Close)

	state := svc.Status.State()
	assert.Zero(t, state.PendingCount)
	assert.Nil(t, state.LastSyncAt)
}

func TestNewClientServices_LoadFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	tests := []struct {
		name  string
		setup func(m *mock.MockLocalStore)
	}{
		{
			name: "queue unreadable",
			setup: func(m *mock.MockLocalStore) {
				m.EXPECT().CountPending(ctx).Return(0, store.ErrStorageFailure)
			},
		},
		{
			name: "sync metadata unreadable",
			setup: func(m *mock.MockLocalStore) {
				m.EXPECT().CountPending(ctx).Return(2, nil)
				m.EXPECT().LastSyncAt(ctx).Return(nil, store.ErrStorageFailure)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			localStore := mock.NewMockLocalStore(ctrl)
			tt.setup(localStore)

			svc, err := NewClientServices(ctx, localStore, mock.NewMockRemoteAuthority(ctrl), testClientConfig(3), tracing.Noop(), logger.Nop())
			assert.ErrorIs(t, err, store.ErrStorageFailure)
			assert.Nil(t, svc)
		})
	}
}
