// Package workers provides the background loops of the sync client.
// It defines the Worker interface and a Workers aggregate that starts and
// stops several workers as one.
package workers

import (
	"context"

	"github.com/MKhiriev/neuroplan-sync/models"
)

// Worker is a background loop with an explicit lifecycle.
//
// Start must not block: implementations spawn their own goroutine and keep
// running until ctx is cancelled or Stop is called. Stop blocks until the
// goroutine has exited and is safe to call on a worker that never started.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// Prober reports whether the remote authority answers.
type Prober interface {
	Ping(ctx context.Context) error
}

// Syncer is the part of the orchestrator the workers drive.
type Syncer interface {
	Trigger(trigger models.SyncTrigger)
	SetOnline(online bool)
}
