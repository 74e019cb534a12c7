package service

import (
	"context"

	"github.com/MKhiriev/neuroplan-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthorityService is the remote authority's apply surface.
type AuthorityService interface {
	// Apply executes one client operation for ownerID. A replayed
	// idempotency key returns the stored result. A stale base version
	// returns the current entity together with [ErrVersionConflict].
	Apply(ctx context.Context, ownerID int64, req models.ApplyRequest) (models.RemoteEntity, error)
	List(ctx context.Context, ownerID int64, entityType models.EntityType) ([]models.RemoteEntity, error)
}

// AuthService issues and checks device tokens.
type AuthService interface {
	CreateToken(ctx context.Context, ownerID int64) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AppInfoService exposes build metadata.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
