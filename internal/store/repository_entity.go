// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/models"
)

// entityRepository is the PostgreSQL-backed [EntityRepository].
//
// Every Apply runs in one transaction: the idempotency table is consulted
// first, the target row is locked with SELECT ... FOR UPDATE, the version is
// compared, the mutation is applied and its result recorded under the
// operation's idempotency key.
type entityRepository struct {
	*DB
	logger *logger.Logger
}

// NewEntityRepository constructs an [EntityRepository] over db.
func NewEntityRepository(db *DB, logger *logger.Logger) EntityRepository {
	return &entityRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *entityRepository) Apply(ctx context.Context, ownerID int64, req models.ApplyRequest) (models.RemoteEntity, error) {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.Apply").
			Int64("owner_id", ownerID).
			Msg("failed to begin transaction")
		return models.RemoteEntity{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	replayed, found, err := r.findApplied(ctx, tx, ownerID, req)
	if err != nil {
		return models.RemoteEntity{}, err
	}
	if found {
		log.Info().
			Str("func", "entityRepository.Apply").
			Str("idempotency_key", req.IdempotencyKey).
			Int64("entity_id", replayed.ID).
			Msg("operation already applied, replaying stored result")
		return replayed, nil
	}

	var applied models.RemoteEntity
	switch req.Kind {
	case models.OperationCreate:
		applied, err = r.create(ctx, tx, ownerID, req)
	case models.OperationUpdate, models.OperationDelete:
		applied, err = r.mutate(ctx, tx, ownerID, req)
	default:
		err = fmt.Errorf("%w: unknown operation kind %q", ErrInvalidRecord, req.Kind)
	}
	if err != nil {
		// the conflicting row is returned as-is for the client to compare
		if errors.Is(err, ErrVersionConflict) {
			return applied, err
		}
		log.Err(err).
			Str("func", "entityRepository.Apply").
			Int64("owner_id", ownerID).
			Str("kind", string(req.Kind)).
			Int64("target_id", req.TargetID).
			Msg("failed to apply operation")
		return models.RemoteEntity{}, err
	}

	query, args, err := buildRecordAppliedQuery(ownerID, req.IdempotencyKey, applied)
	if err != nil {
		return models.RemoteEntity{}, err
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "entityRepository.Apply").
			Str("idempotency_key", req.IdempotencyKey).
			Msg("failed to record applied operation")
		return models.RemoteEntity{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "entityRepository.Apply").Msg("failed to commit transaction")
		return models.RemoteEntity{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	log.Info().
		Str("func", "entityRepository.Apply").
		Int64("owner_id", ownerID).
		Str("kind", string(req.Kind)).
		Int64("entity_id", applied.ID).
		Int64("version", applied.Version).
		Msg("operation applied")

	return applied, nil
}

func (r *entityRepository) List(ctx context.Context, ownerID int64, entityType models.EntityType) ([]models.RemoteEntity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListRemoteEntitiesQuery(ownerID, entityType)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.List").
			Int64("owner_id", ownerID).
			Str("entity_type", string(entityType)).
			Msg("failed to execute query for listing entities")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entities := make([]models.RemoteEntity, 0, 50)
	for rows.Next() {
		entity, scanErr := scanRemoteEntity(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "entityRepository.List").Msg("failed to scan entity row")
			return nil, scanErr
		}
		entity.OwnerID = ownerID
		entities = append(entities, entity)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "entityRepository.List").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entities, nil
}

func (r *entityRepository) findApplied(ctx context.Context, tx *sql.Tx, ownerID int64, req models.ApplyRequest) (models.RemoteEntity, bool, error) {
	query, args, err := buildFindAppliedQuery(ownerID, req.IdempotencyKey)
	if err != nil {
		return models.RemoteEntity{}, false, err
	}

	entity := models.RemoteEntity{OwnerID: ownerID, EntityType: req.EntityType}
	err = tx.QueryRowContext(ctx, query, args...).Scan(&entity.ID, &entity.Version, &entity.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RemoteEntity{}, false, nil
	}
	if err != nil {
		return models.RemoteEntity{}, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return entity, true, nil
}

func (r *entityRepository) create(ctx context.Context, tx *sql.Tx, ownerID int64, req models.ApplyRequest) (models.RemoteEntity, error) {
	fields, err := encodeFields(req.Payload)
	if err != nil {
		return models.RemoteEntity{}, err
	}

	query, args, err := buildInsertEntityQuery(ownerID, req.EntityType, fields)
	if err != nil {
		return models.RemoteEntity{}, err
	}

	entity, err := scanRemoteEntity(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.RemoteEntity{}, err
	}
	entity.OwnerID = ownerID

	return entity, nil
}

// mutate updates or soft-deletes an existing row. It distinguishes "not
// found" from "version mismatch" the way the client needs: a mismatch returns
// the current row so it can be shown next to the local copy.
func (r *entityRepository) mutate(ctx context.Context, tx *sql.Tx, ownerID int64, req models.ApplyRequest) (models.RemoteEntity, error) {
	query, args, err := buildLockEntityQuery(ownerID, req.TargetID, req.EntityType)
	if err != nil {
		return models.RemoteEntity{}, err
	}

	current, err := scanRemoteEntity(tx.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.RemoteEntity{}, ErrNotFound
	}
	if err != nil {
		return models.RemoteEntity{}, err
	}
	current.OwnerID = ownerID

	if current.Version != req.BaseVersion {
		logger.FromContext(ctx).Warn().
			Str("func", "entityRepository.mutate").
			Int64("entity_id", current.ID).
			Int64("db_version", current.Version).
			Int64("provided_version", req.BaseVersion).
			Msg("optimistic lock failed: version mismatch")
		return current, ErrVersionConflict
	}

	if req.Kind == models.OperationDelete {
		query, args, err = buildSoftDeleteEntityQuery(current.ID)
	} else {
		var fields string
		if fields, err = encodeFields(req.Payload); err != nil {
			return models.RemoteEntity{}, err
		}
		query, args, err = buildUpdateEntityQuery(current.ID, fields)
	}
	if err != nil {
		return models.RemoteEntity{}, err
	}

	updated, err := scanRemoteEntity(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.RemoteEntity{}, err
	}
	updated.OwnerID = ownerID

	return updated, nil
}

func scanRemoteEntity(row rowScanner) (models.RemoteEntity, error) {
	var (
		entity     models.RemoteEntity
		entityType string
		fields     []byte
	)

	err := row.Scan(&entity.ID, &entityType, &fields, &entity.Version, &entity.Deleted, &entity.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RemoteEntity{}, err
	}
	if err != nil {
		return models.RemoteEntity{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	entity.EntityType = models.EntityType(entityType)
	if len(fields) > 0 {
		if err = json.Unmarshal(fields, &entity.Fields); err != nil {
			return models.RemoteEntity{}, fmt.Errorf("%w: %w", ErrEncodingPayload, err)
		}
	}

	return entity, nil
}
