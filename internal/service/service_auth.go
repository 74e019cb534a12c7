package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/utils"
	"github.com/MKhiriev/neuroplan-sync/models"
)

// authService is the concrete implementation of AuthService. Owners are
// provisioned out of band: the operator issues a token per device with
// `server token -owner N`, and every request carries it as a bearer token.
type authService struct {
	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService populated with security
// parameters from cfg.
func NewAuthService(cfg config.ServerAuth, logger *logger.Logger) AuthService {
	return &authService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// CreateToken issues a signed JWT whose subject is ownerID.
func (a *authService) CreateToken(ctx context.Context, ownerID int64) (models.Token, error) {
	if ownerID <= 0 {
		return models.Token{}, ErrNoOwnerID
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, ownerID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	logger.FromContext(ctx).Info().
		Str("func", "authService.CreateToken").
		Int64("owner_id", ownerID).
		Msg("token issued")
	return token, nil
}

// ParseToken validates a raw JWT. Any failure (expired, wrong issuer,
// malformed) is normalised to ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "authService.ParseToken").Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
