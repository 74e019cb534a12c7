package service

import (
	"context"
	"time"

	"github.com/MKhiriev/neuroplan-sync/internal/store"
)

type statusService struct {
	*SyncStatus

	store store.LocalStore
	queue QueueService
}

func newStatusService(status *SyncStatus, localStore store.LocalStore, queue QueueService) *statusService {
	return &statusService{SyncStatus: status, store: localStore, queue: queue}
}

// load initialises the session from the durable queue and sync metadata.
func (s *statusService) load(ctx context.Context) error {
	if _, err := s.queue.PendingCount(ctx); err != nil {
		return err
	}

	at, err := s.store.LastSyncAt(ctx)
	if err != nil {
		return err
	}
	if at != nil {
		s.setLastSyncAt(*at)
	}
	return nil
}

func (s *statusService) PendingCount(ctx context.Context) (int, error) {
	return s.queue.PendingCount(ctx)
}

func (s *statusService) LastSyncAt(ctx context.Context) (*time.Time, error) {
	return s.store.LastSyncAt(ctx)
}

var _ StatusService = (*statusService)(nil)
