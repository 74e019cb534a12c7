package service

import (
	"fmt"

	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/store"
)

// Services groups the remote authority's services.
type Services struct {
	AuthService      AuthService
	AuthorityService AuthorityService
	AppInfoService   AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.ServerConfig, version string, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(version, logger)
	if err != nil {
		return nil, fmt.Errorf("app info service: %w", err)
	}

	return &Services{
		AuthService:      NewAuthService(cfg.Auth, logger),
		AuthorityService: NewAuthorityValidationService().Wrap(NewAuthorityService(storages.EntityRepository, logger)),
		AppInfoService:   appInfo,
	}, nil
}
