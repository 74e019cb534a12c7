package service

import (
	"context"

	"github.com/MKhiriev/neuroplan-sync/internal/adapter"
	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/store"
	"github.com/MKhiriev/neuroplan-sync/internal/tracing"
)

// ClientServices is one sync session: the queue, the orchestrator, the
// resolution workflow and the session state they share.
type ClientServices struct {
	Status           StatusService
	QueueService     QueueService
	EntityService    EntityService
	SyncOrchestrator SyncOrchestrator
	ConflictService  ConflictService
}

// NewClientServices wires a session over localStore and remote and loads the
// initial state from the durable queue.
func NewClientServices(
	ctx context.Context,
	localStore store.LocalStore,
	remote adapter.RemoteAuthority,
	cfg config.ClientConfig,
	tracer *tracing.Tracer,
	logger *logger.Logger,
) (*ClientServices, error) {
	status := NewSyncStatus()
	conflicts := newConflictSet()

	queue := NewQueueService(localStore, status)
	orchestrator := newSyncOrchestrator(localStore, remote, queue, status, conflicts, cfg, tracer, logger)
	statusSvc := newStatusService(status, localStore, queue)

	if err := statusSvc.load(ctx); err != nil {
		orchestrator.Close()
		return nil, err
	}

	return &ClientServices{
		Status:           statusSvc,
		QueueService:     queue,
		EntityService:    newEntityService(localStore, queue, status, conflicts),
		SyncOrchestrator: orchestrator,
		ConflictService:  newConflictService(localStore, queue, conflicts, status, orchestrator.Trigger, orchestrator.exclusive),
	}, nil
}
