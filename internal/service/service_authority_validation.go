package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/neuroplan-sync/internal/validators"
	"github.com/MKhiriev/neuroplan-sync/models"
)

// AuthorityValidationService rejects malformed operations before they reach
// the repository.
type AuthorityValidationService struct {
	inner     AuthorityService
	validator validators.Validator
}

func NewAuthorityValidationService() AuthorityServiceWrapper {
	return &AuthorityValidationService{
		validator: validators.NewOperationValidator(),
	}
}

func (v *AuthorityValidationService) Wrap(inner AuthorityService) AuthorityService {
	v.inner = inner
	return v
}

func (v *AuthorityValidationService) Apply(ctx context.Context, ownerID int64, req models.ApplyRequest) (models.RemoteEntity, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.RemoteEntity{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.Apply(ctx, ownerID, req)
}

func (v *AuthorityValidationService) List(ctx context.Context, ownerID int64, entityType models.EntityType) ([]models.RemoteEntity, error) {
	return v.inner.List(ctx, ownerID, entityType)
}
