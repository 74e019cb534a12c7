// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client's transport to the remote authority.
//
// The primary abstraction is [RemoteAuthority], which decouples the sync
// orchestrator from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPRemoteAuthority]).
//
// Apply never returns a Go error: every transport or protocol failure is
// folded into one of the four [models.ApplyOutcome] categories, which is all
// the orchestrator acts on. List and Ping return the sentinel errors of
// errors.go so callers can use [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/neuroplan-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_authority_mock.go -package=mock

// RemoteAuthority is the server that owns canonical entity state.
type RemoteAuthority interface {
	// Apply sends one pending operation. The result category is:
	//   - OK: accepted, with the server id and new version
	//   - Retryable: transient failure (network, timeout, 5xx, 429)
	//   - VersionConflict: base version is stale, with the remote copy
	//   - Fatal: the authority rejected the operation permanently
	Apply(ctx context.Context, op models.PendingOperation) models.ApplyResult

	// List returns every entity of entityType owned by the bearer, including
	// deleted tombstones.
	List(ctx context.Context, entityType models.EntityType) ([]models.RemoteEntity, error)

	// Ping reports whether the authority is reachable.
	Ping(ctx context.Context) error
}
