package workers

import (
	"context"
	"sync"
	"time"
)

// loop runs tick every interval on its own goroutine. It is the shared
// Start/Stop machinery of the ticker-driven workers.
type loop struct {
	interval  time.Duration
	immediate bool
	tick      func(ctx context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// start stops any previous run and launches a new one. With immediate set
// the first tick runs right away instead of after one interval.
func (l *loop) start(ctx context.Context) {
	l.stop()

	l.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()

		if l.immediate {
			l.tick(loopCtx)
		}

		t := time.NewTicker(l.interval)
		defer t.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-t.C:
				l.tick(loopCtx)
			}
		}
	}()
}

func (l *loop) stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
}
