// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/neuroplan-sync/internal/logger"
)

const (
	defaultProbeInterval = 10 * time.Second
	defaultProbeTimeout  = 5 * time.Second
)

// ConnectivityMonitor probes the remote authority and reports reachability
// to the orchestrator. The orchestrator starts a drain on the offline to
// online edge, so the monitor reports every probe and leaves edge detection
// to it.
type ConnectivityMonitor struct {
	prober  Prober
	syncer  Syncer
	timeout time.Duration
	logger  *logger.Logger
	loop    loop

	lastOnline *bool
}

// NewConnectivityMonitor creates an idle monitor. The first probe runs as
// soon as it starts.
func NewConnectivityMonitor(prober Prober, syncer Syncer, interval, timeout time.Duration, logger *logger.Logger) *ConnectivityMonitor {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	if timeout <= 0 || timeout > interval {
		timeout = min(defaultProbeTimeout, interval)
	}

	m := &ConnectivityMonitor{prober: prober, syncer: syncer, timeout: timeout, logger: logger}
	m.loop = loop{interval: interval, immediate: true, tick: m.probe}
	return m
}

func (m *ConnectivityMonitor) Start(ctx context.Context) {
	m.loop.start(ctx)
}

func (m *ConnectivityMonitor) Stop() {
	m.loop.stop()
}

func (m *ConnectivityMonitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.prober.Ping(probeCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}

	online := err == nil
	if m.lastOnline == nil || *m.lastOnline != online {
		event := m.logger.Info()
		if !online {
			event = m.logger.Warn().Err(err)
		}
		event.Str("func", "ConnectivityMonitor.probe").Bool("online", online).Msg("connectivity changed")
	}
	m.lastOnline = &online

	m.syncer.SetOnline(online)
}
