package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/models"
)

const defaultSyncInterval = 30 * time.Second

// SyncTimer asks the orchestrator for a drain on a fixed interval. Drains
// requested while one is running are coalesced by the orchestrator.
type SyncTimer struct {
	syncer Syncer
	logger *logger.Logger
	loop   loop
}

// NewSyncTimer creates an idle timer. A zero or negative interval falls
// back to 30 seconds.
func NewSyncTimer(syncer Syncer, interval time.Duration, logger *logger.Logger) *SyncTimer {
	if interval <= 0 {
		interval = defaultSyncInterval
	}

	t := &SyncTimer{syncer: syncer, logger: logger}
	t.loop = loop{interval: interval, tick: t.tick}
	return t
}

func (t *SyncTimer) Start(ctx context.Context) {
	t.logger.Info().
		Str("func", "SyncTimer.Start").
		Dur("interval", t.loop.interval).
		Msg("periodic sync started")
	t.loop.start(ctx)
}

func (t *SyncTimer) Stop() {
	t.loop.stop()
}

func (t *SyncTimer) tick(context.Context) {
	t.syncer.Trigger(models.TriggerTimer)
}
