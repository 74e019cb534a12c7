// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/store"
	"github.com/MKhiriev/neuroplan-sync/models"
)

type authorityService struct {
	entityRepository store.EntityRepository

	logger *logger.Logger
}

// NewAuthorityService constructs the [AuthorityService] over the versioned
// entity repository.
func NewAuthorityService(entityRepository store.EntityRepository, logger *logger.Logger) AuthorityService {
	return &authorityService{
		entityRepository: entityRepository,
		logger:           logger,
	}
}

func (a *authorityService) Apply(ctx context.Context, ownerID int64, req models.ApplyRequest) (models.RemoteEntity, error) {
	if ownerID <= 0 {
		return models.RemoteEntity{}, ErrNoOwnerID
	}

	entity, err := a.entityRepository.Apply(ctx, ownerID, req)
	if errors.Is(err, store.ErrVersionConflict) {
		return entity, fmt.Errorf("%w: %w", ErrVersionConflict, err)
	}
	if err != nil {
		return models.RemoteEntity{}, err
	}

	if entity.EntityType == "" {
		entity.EntityType = req.EntityType
	}
	return entity, nil
}

func (a *authorityService) List(ctx context.Context, ownerID int64, entityType models.EntityType) ([]models.RemoteEntity, error) {
	if ownerID <= 0 {
		return nil, ErrNoOwnerID
	}
	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}

	return a.entityRepository.List(ctx, ownerID, entityType)
}
