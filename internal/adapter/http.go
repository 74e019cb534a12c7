// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/utils"
	"github.com/MKhiriev/neuroplan-sync/models"
)

const (
	applyPath    = "/api/v1/operations"
	entitiesPath = "/api/v1/entities/{entityType}"
	healthPath   = "/api/v1/health"
)

type httpRemoteAuthority struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPRemoteAuthority constructs an HTTP/REST implementation of
// [RemoteAuthority]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL, the request timeout and the bearer token.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPRemoteAuthority(adapterCfg config.ClientAdapter, logger *logger.Logger) (RemoteAuthority, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout, strings.TrimSpace(adapterCfg.Token))

	return &httpRemoteAuthority{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Apply implements [RemoteAuthority]. It POSTs the operation to
// POST /api/v1/operations with its idempotency key both in the body and in
// the Idempotency-Key header, so a retried request is recognised by the
// authority and answered with the stored result.
func (h *httpRemoteAuthority) Apply(ctx context.Context, op models.PendingOperation) models.ApplyResult {
	log := logger.FromContext(ctx)

	if op.Kind != models.OperationCreate && op.TargetID.IsLocal() {
		return models.FatalResult(fmt.Sprintf("%s has no server id yet", op.TargetID))
	}

	req := models.ApplyRequest{
		IdempotencyKey: op.IdempotencyKey,
		EntityType:     op.EntityType,
		Kind:           op.Kind,
		Payload:        op.Payload,
		BaseVersion:    op.BaseVersion,
	}
	if op.Kind != models.OperationCreate {
		req.TargetID = op.TargetID.Value
	}

	var (
		ok      models.ApplyResponse
		failure models.ConflictResponse
	)
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Idempotency-Key", op.IdempotencyKey).
		SetBody(req).
		SetResult(&ok).
		SetError(&failure).
		Post(applyPath)
	if err != nil {
		result := classifyTransportError(err)
		log.Warn().Err(err).
			Str("func", "httpRemoteAuthority.Apply").
			Int64("op_id", op.OpID).
			Str("reason", result.Reason).
			Msg("apply request failed")
		return result
	}

	result := classifyResponse(resp, &ok, &failure)
	log.Debug().
		Str("func", "httpRemoteAuthority.Apply").
		Int64("op_id", op.OpID).
		Int("status", resp.StatusCode()).
		Stringer("outcome", result.Outcome).
		Msg("apply request answered")

	return result
}

// List implements [RemoteAuthority]. It GETs
// GET /api/v1/entities/{entityType} and returns the decoded entities.
func (h *httpRemoteAuthority) List(ctx context.Context, entityType models.EntityType) ([]models.RemoteEntity, error) {
	var list models.EntityListResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("entityType", string(entityType)).
		SetResult(&list).
		Get(entitiesPath)
	if err != nil {
		return nil, mapTransportError(err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	for i := range list.Entities {
		if list.Entities[i].EntityType == "" {
			list.Entities[i].EntityType = entityType
		}
	}

	return list.Entities, nil
}

// Ping implements [RemoteAuthority]. It GETs GET /api/v1/health.
func (h *httpRemoteAuthority) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get(healthPath)
	if err != nil {
		return mapTransportError(err)
	}
	return mapHTTPError(resp)
}
