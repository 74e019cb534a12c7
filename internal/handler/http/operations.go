// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/service"
	"github.com/MKhiriev/neuroplan-sync/internal/utils"
	"github.com/MKhiriev/neuroplan-sync/models"
)

const idempotencyKeyHeader = "Idempotency-Key"

// applyOperation applies one client operation. A stale base version answers
// 409 with the entity's current state so the client can hold the target for
// resolution.
func (h *Handler) applyOperation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	ownerID, found := utils.GetOwnerIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.applyOperation").Msg("no owner ID was given")
		utils.WriteError(w, service.ErrNoOwnerID.Error(), http.StatusUnauthorized)
		return
	}

	var req models.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.applyOperation").Msg("Invalid JSON was passed")
		utils.WriteError(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get(idempotencyKeyHeader)
	}

	entity, err := h.services.AuthorityService.Apply(ctx, ownerID, req)
	if errors.Is(err, service.ErrVersionConflict) {
		log.Info().
			Str("func", "*Handler.applyOperation").
			Int64("target_id", req.TargetID).
			Int64("base_version", req.BaseVersion).
			Int64("current_version", entity.Version).
			Msg("stale operation rejected")
		_, _ = utils.WriteJSON(w, models.ConflictResponse{Error: err.Error(), Remote: entity}, http.StatusConflict)
		return
	}
	if err != nil {
		status := statusFromError(err)
		log.Err(err).Str("func", "*Handler.applyOperation").Int("status", status).Msg("error applying operation")
		utils.WriteError(w, publicMessage(err, status), status)
		return
	}

	status := http.StatusOK
	if req.Kind == models.OperationCreate {
		status = http.StatusCreated
	}

	_, _ = utils.WriteJSON(w, models.ApplyResponse{
		ServerID:  entity.ID,
		Version:   entity.Version,
		UpdatedAt: entity.UpdatedAt,
	}, status)
}

// listEntities returns every entity of one type the owner has, tombstones
// included.
func (h *Handler) listEntities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	ownerID, found := utils.GetOwnerIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.listEntities").Msg("no owner ID was given")
		utils.WriteError(w, service.ErrNoOwnerID.Error(), http.StatusUnauthorized)
		return
	}

	entityType := models.EntityType(chi.URLParam(r, "entityType"))
	entities, err := h.services.AuthorityService.List(ctx, ownerID, entityType)
	if err != nil {
		status := statusFromError(err)
		log.Err(err).Str("func", "*Handler.listEntities").Str("entity_type", string(entityType)).Msg("error listing entities")
		utils.WriteError(w, publicMessage(err, status), status)
		return
	}
	if entities == nil {
		entities = []models.RemoteEntity{}
	}

	_, _ = utils.WriteJSON(w, models.EntityListResponse{Entities: entities, Length: len(entities)}, http.StatusOK)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, models.HealthResponse{
		Status:  "ok",
		Version: h.services.AppInfoService.GetAppVersion(r.Context()),
	}, http.StatusOK)
}
