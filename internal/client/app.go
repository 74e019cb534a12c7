// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/neuroplan-sync/internal/adapter"
	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/service"
	"github.com/MKhiriev/neuroplan-sync/internal/store"
	"github.com/MKhiriev/neuroplan-sync/internal/tracing"
	"github.com/MKhiriev/neuroplan-sync/internal/workers"
	"github.com/MKhiriev/neuroplan-sync/models"
)

type App struct {
	services *service.ClientServices
	remote   adapter.RemoteAuthority
	workers  *workers.Workers
	frontend Frontend

	closers []func()
	logger  *logger.Logger
}

// NewApp wires one sync session from cfg. The returned App owns the store
// and the tracer; call Close when done.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	app := &App{logger: logger}

	tracer, err := tracing.New(ctx, cfg.Tracing, "neuroplan-client", tracing.WithVersion(buildInfo.BuildVersion()))
	if err != nil {
		return nil, fmt.Errorf("error creating tracer: %w", err)
	}
	app.closers = append(app.closers, func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			logger.Err(err).Str("func", "App.Close").Msg("error shutting down tracer")
		}
	})

	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error creating local storage: %w", err)
	}
	app.closers = append(app.closers, func() {
		if err := storages.Close(); err != nil {
			logger.Err(err).Str("func", "App.Close").Msg("error closing local storage")
		}
	})

	remote, err := adapter.NewHTTPRemoteAuthority(cfg.Adapter, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error creating remote adapter: %w", err)
	}

	services, err := service.NewClientServices(ctx, storages.LocalStore, remote, *cfg, tracer, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error creating client services: %w", err)
	}
	app.services = services
	app.remote = remote
	app.closers = append(app.closers, services.SyncOrchestrator.Close)

	app.workers = workers.NewWorkers(
		workers.NewConnectivityMonitor(remote, services.SyncOrchestrator, cfg.Connectivity.ProbeInterval, cfg.Adapter.RequestTimeout, logger),
		workers.NewSyncTimer(services.SyncOrchestrator, cfg.Sync.Interval, logger),
	)

	return app, nil
}

// Services exposes the session, e.g. to build a frontend over it.
func (a *App) Services() *service.ClientServices {
	return a.services
}

// SetFrontend chooses what Run shows. Without one Run is headless and
// returns when ctx is done.
func (a *App) SetFrontend(frontend Frontend) {
	a.frontend = frontend
}

func (a *App) Run(ctx context.Context) error {
	ctx = a.logger.WithContext(ctx)

	a.workers.Start(ctx)
	defer a.workers.Stop()

	a.services.SyncOrchestrator.Trigger(models.TriggerStartup)

	if a.frontend == nil {
		a.logger.Info().Msg("running headless")
		<-ctx.Done()
		return nil
	}

	return a.frontend.Run(ctx)
}

// SyncOnce probes the authority, drains the queue and refreshes the mirror
// without starting the background workers.
func (a *App) SyncOnce(ctx context.Context) (models.DrainReport, error) {
	ctx = a.logger.WithContext(ctx)

	// coming online starts a background drain; wait it out and go again
	a.services.SyncOrchestrator.SetOnline(a.remote.Ping(ctx) == nil)

	report, err := a.services.SyncOrchestrator.ForceSyncNow(ctx)
	for errors.Is(err, service.ErrSyncInProgress) {
		if err = a.waitIdle(ctx); err != nil {
			return report, err
		}
		report, err = a.services.SyncOrchestrator.ForceSyncNow(ctx)
	}
	return report, err
}

func (a *App) waitIdle(ctx context.Context) error {
	ch, unsubscribe := a.services.Status.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case state := <-ch:
			if !state.IsSyncing {
				return nil
			}
		}
	}
}

// Close releases resources in reverse order of acquisition. It is safe to
// call more than once.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
