// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/models"
)

// localStore is the SQLite implementation of [LocalStore].
//
// Records live in "entities" keyed by (entity_type, id_kind, id_value); the
// queue lives in "pending_operations" whose AUTOINCREMENT op_id gives the
// global enqueue order. The handle allows a single open connection, so every
// transaction below is serialized with the direct writes of user actions.
type localStore struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewLocalStore wraps an open SQLite handle.
func NewLocalStore(db *DB, logger *logger.Logger) LocalStore {
	return &localStore{
		DB:     db,
		logger: logger,
		now:    time.Now,
	}
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *localStore) Get(ctx context.Context, entityType models.EntityType, id models.EntityID) (models.EntityRecord, error) {
	log := logger.FromContext(ctx)

	record, err := s.getEntity(ctx, s.DB, entityType, id)
	if errors.Is(err, ErrNotFound) {
		return models.EntityRecord{}, err
	}
	if err != nil {
		log.Err(err).
			Str("func", "localStore.Get").
			Str("entity_type", string(entityType)).
			Stringer("id", id).
			Msg("failed to read entity")
		return models.EntityRecord{}, err
	}

	return record, nil
}

func (s *localStore) List(ctx context.Context, entityType models.EntityType) ([]models.EntityRecord, error) {
	return s.listEntities(ctx, s.DB, entityType)
}

func (s *localStore) Put(ctx context.Context, record models.EntityRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}

	if err := s.upsertEntity(ctx, s.DB, record); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localStore.Put").
			Str("entity_type", string(record.EntityType)).
			Stringer("id", record.ID).
			Msg("failed to store entity")
		return err
	}

	return nil
}

func (s *localStore) PutMany(ctx context.Context, entityType models.EntityType, records []models.EntityRecord) error {
	if len(records) == 0 {
		return nil
	}

	for _, record := range records {
		if err := validateRecord(record); err != nil {
			return err
		}
		if record.EntityType != entityType {
			return fmt.Errorf("%w: %s record in %s batch", ErrInvalidRecord, record.EntityType, entityType)
		}
	}

	return s.withTx(ctx, "localStore.PutMany", func(tx *sql.Tx) error {
		for idx, record := range records {
			if err := s.upsertEntity(ctx, tx, record); err != nil {
				logger.FromContext(ctx).Err(err).
					Str("func", "localStore.PutMany").
					Int("iteration", idx).
					Stringer("id", record.ID).
					Msg("failed to store entity, rolling back batch")
				return err
			}
		}
		return nil
	})
}

func (s *localStore) Delete(ctx context.Context, entityType models.EntityType, id models.EntityID) error {
	return s.exec(ctx, s.DB, "localStore.Delete", buildDeleteEntityQuery, entityType, id)
}

func (s *localStore) NextLocalID(ctx context.Context) (models.EntityID, error) {
	var n int64
	if err := s.DB.QueryRowContext(ctx, nextLocalIDQuery).Scan(&n); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "localStore.NextLocalID").Msg("failed to advance local id sequence")
		return models.EntityID{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return models.LocalID(n), nil
}

func (s *localStore) ListPending(ctx context.Context) ([]models.PendingOperation, error) {
	return s.listPending(ctx, s.DB)
}

func (s *localStore) CountPending(ctx context.Context) (int, error) {
	query, args, err := buildCountPendingQuery()
	if err != nil {
		return 0, err
	}

	var count int
	if err = s.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "localStore.CountPending").Msg("failed to count pending operations")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return count, nil
}

func (s *localStore) AppendPending(ctx context.Context, op models.PendingOperation) (models.PendingOperation, error) {
	return s.appendPending(ctx, s.DB, op)
}

func (s *localStore) RemovePending(ctx context.Context, opIDs ...int64) error {
	if len(opIDs) == 0 {
		return nil
	}

	query, args, err := buildRemovePendingQuery(opIDs)
	if err != nil {
		return err
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localStore.RemovePending").
			Ints64("op_ids", opIDs).
			Msg("failed to remove pending operations")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *localStore) BumpRetry(ctx context.Context, opID int64, lastError string) (int, error) {
	query, args, err := buildBumpRetryQuery(opID, lastError)
	if err != nil {
		return 0, err
	}

	var retryCount int
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&retryCount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localStore.BumpRetry").
			Int64("op_id", opID).
			Msg("failed to bump retry counter")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return retryCount, nil
}

func (s *localStore) PutAndAppend(ctx context.Context, record models.EntityRecord, op models.PendingOperation) (models.PendingOperation, error) {
	if err := validateRecord(record); err != nil {
		return models.PendingOperation{}, err
	}

	var stored models.PendingOperation
	err := s.withTx(ctx, "localStore.PutAndAppend", func(tx *sql.Tx) error {
		if err := s.upsertEntity(ctx, tx, record); err != nil {
			return err
		}

		var err error
		stored, err = s.appendPending(ctx, tx, op)
		return err
	})

	return stored, err
}

func (s *localStore) UpdateAndAppend(ctx context.Context, op models.PendingOperation, updatedAt time.Time) (models.EntityRecord, models.PendingOperation, error) {
	var (
		record models.EntityRecord
		stored models.PendingOperation
	)
	err := s.withTx(ctx, "localStore.UpdateAndAppend", func(tx *sql.Tx) error {
		var err error
		record, err = s.currentRecord(ctx, tx, op.EntityType, op.TargetID)
		if err != nil {
			return err
		}

		merged := record.Fields.Clone()
		if merged == nil {
			merged = models.Fields{}
		}
		for k, v := range op.Payload {
			merged[k] = v
		}
		record.Fields = merged
		record.UpdatedAt = updatedAt

		if err = s.upsertEntity(ctx, tx, record); err != nil {
			return err
		}

		op.TargetID = record.ID
		op.Payload = merged.Clone()
		op.BaseVersion = record.Version
		stored, err = s.appendPending(ctx, tx, op)
		return err
	})
	if err != nil {
		return models.EntityRecord{}, models.PendingOperation{}, err
	}

	return record, stored, nil
}

func (s *localStore) DeleteAndAppend(ctx context.Context, op models.PendingOperation) (models.PendingOperation, error) {
	var stored models.PendingOperation
	err := s.withTx(ctx, "localStore.DeleteAndAppend", func(tx *sql.Tx) error {
		record, err := s.currentRecord(ctx, tx, op.EntityType, op.TargetID)
		if err != nil {
			return err
		}

		if err = s.exec(ctx, tx, "localStore.DeleteAndAppend", buildDeleteEntityQuery, record.EntityType, record.ID); err != nil {
			return err
		}

		op.TargetID = record.ID
		op.BaseVersion = record.Version
		stored, err = s.appendPending(ctx, tx, op)
		return err
	})

	return stored, err
}

func (s *localStore) CompleteCreate(ctx context.Context, op models.PendingOperation, serverID, version int64) error {
	if !op.TargetID.IsLocal() {
		return s.CompleteWrite(ctx, op, version)
	}

	return s.withTx(ctx, "localStore.CompleteCreate", func(tx *sql.Tx) error {
		if err := s.removePending(ctx, tx, op.OpID); err != nil {
			return err
		}

		// a refresh may have pulled the new entity already; the renamed local copy wins
		remoteID := models.RemoteID(serverID)
		if err := s.exec(ctx, tx, "localStore.CompleteCreate", buildDeleteEntityQuery, op.EntityType, remoteID); err != nil {
			return err
		}

		steps := []func() (string, []any, error){
			func() (string, []any, error) {
				return buildRenameEntityQuery(op.EntityType, op.TargetID, serverID, version)
			},
			func() (string, []any, error) {
				return buildRetargetPendingQuery(op.EntityType, op.TargetID, serverID, version)
			},
			func() (string, []any, error) {
				return buildMapIDQuery(op.EntityType, op.TargetID.Value, serverID, toUnix(s.now()))
			},
		}
		for _, step := range steps {
			query, args, err := step()
			if err != nil {
				return err
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		logger.FromContext(ctx).Debug().
			Str("func", "localStore.CompleteCreate").
			Str("entity_type", string(op.EntityType)).
			Stringer("local_id", op.TargetID).
			Int64("server_id", serverID).
			Msg("local record renamed to server id")
		return nil
	})
}

func (s *localStore) CompleteWrite(ctx context.Context, op models.PendingOperation, version int64) error {
	return s.withTx(ctx, "localStore.CompleteWrite", func(tx *sql.Tx) error {
		if err := s.removePending(ctx, tx, op.OpID); err != nil {
			return err
		}
		if op.Kind == models.OperationDelete {
			return nil
		}
		return s.rebase(ctx, tx, op, version)
	})
}

func (s *localStore) RestampPending(ctx context.Context, op models.PendingOperation, baseVersion int64) error {
	return s.withTx(ctx, "localStore.RestampPending", func(tx *sql.Tx) error {
		query, args, err := buildRestampPendingQuery(op.OpID, baseVersion)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}

		return s.rebase(ctx, tx, op, baseVersion)
	})
}

func (s *localStore) ReplaceWithRemote(ctx context.Context, ref models.EntityRef, remote models.Snapshot) error {
	return s.withTx(ctx, "localStore.ReplaceWithRemote", func(tx *sql.Tx) error {
		if err := s.exec(ctx, tx, "localStore.ReplaceWithRemote", buildRemovePendingForTargetQuery, ref.EntityType, ref.ID); err != nil {
			return err
		}

		if remote.Deleted {
			return s.exec(ctx, tx, "localStore.ReplaceWithRemote", buildDeleteEntityQuery, ref.EntityType, ref.ID)
		}

		return s.upsertEntity(ctx, tx, models.EntityRecord{
			EntityType: ref.EntityType,
			ID:         ref.ID,
			Fields:     remote.Fields,
			Version:    remote.Version,
			UpdatedAt:  remote.UpdatedAt,
		})
	})
}

func (s *localStore) MergeRemote(ctx context.Context, entityType models.EntityType, entities []models.RemoteEntity) error {
	return s.withTx(ctx, "localStore.MergeRemote", func(tx *sql.Tx) error {
		busy, err := s.pendingTargets(ctx, tx, entityType)
		if err != nil {
			return err
		}

		var kept, removed int
		for _, entity := range entities {
			record := entity.Record()
			record.EntityType = entityType
			if _, ok := busy[record.ID]; ok {
				continue
			}

			if entity.Deleted {
				query, args, err := buildDeleteStaleEntityQuery(entityType, record.ID, record.Version)
				if err != nil {
					return err
				}
				if _, err = tx.ExecContext(ctx, query, args...); err != nil {
					return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
				}
				removed++
				continue
			}

			if err = s.mergeEntity(ctx, tx, record); err != nil {
				return err
			}
			kept++
		}

		logger.FromContext(ctx).Debug().
			Str("func", "localStore.MergeRemote").
			Str("entity_type", string(entityType)).
			Int("stored", kept).
			Int("removed", removed).
			Int("skipped_pending", len(busy)).
			Msg("mirror refreshed from remote")
		return nil
	})
}

func (s *localStore) ResolveID(ctx context.Context, entityType models.EntityType, id models.EntityID) (models.EntityID, error) {
	return s.resolveID(ctx, s.DB, entityType, id)
}

func (s *localStore) resolveID(ctx context.Context, q queryer, entityType models.EntityType, id models.EntityID) (models.EntityID, error) {
	if !id.IsLocal() {
		return id, nil
	}

	query, args, err := buildResolveIDQuery(entityType, id.Value)
	if err != nil {
		return models.EntityID{}, err
	}

	var remoteID int64
	err = q.QueryRowContext(ctx, query, args...).Scan(&remoteID)
	if errors.Is(err, sql.ErrNoRows) {
		return id, nil
	}
	if err != nil {
		return models.EntityID{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return models.RemoteID(remoteID), nil
}

func (s *localStore) LastSyncAt(ctx context.Context) (*time.Time, error) {
	query, args, err := buildGetMetaQuery(metaLastSyncAt)
	if err != nil {
		return nil, err
	}

	var raw string
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: last sync timestamp %q: %w", ErrScanningRow, raw, err)
	}

	at := fromUnix(n)
	return &at, nil
}

func (s *localStore) SetLastSyncAt(ctx context.Context, at time.Time) error {
	query, args, err := buildSetMetaQuery(metaLastSyncAt, strconv.FormatInt(toUnix(at), 10))
	if err != nil {
		return err
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "localStore.SetLastSyncAt").Msg("failed to persist last sync time")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *localStore) Dump(ctx context.Context) (models.LocalDump, error) {
	records, err := s.listEntities(ctx, s.DB, "")
	if err != nil {
		return models.LocalDump{}, err
	}

	pending, err := s.listPending(ctx, s.DB)
	if err != nil {
		return models.LocalDump{}, err
	}

	lastSyncAt, err := s.LastSyncAt(ctx)
	if err != nil {
		return models.LocalDump{}, err
	}

	return models.LocalDump{
		ExportedAt: s.now().UTC(),
		LastSyncAt: lastSyncAt,
		Records:    records,
		Pending:    pending,
	}, nil
}

func (s *localStore) Clear(ctx context.Context) error {
	return s.withTx(ctx, "localStore.Clear", func(tx *sql.Tx) error {
		for _, query := range buildClearQueries() {
			if _, err := tx.ExecContext(ctx, query); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}
		return nil
	})
}

func (s *localStore) Close() error {
	return s.DB.Close()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *localStore) withTx(ctx context.Context, funcName string, fn func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = fn(tx); err != nil {
		log.Err(err).Str("func", funcName).Msg("transaction rolled back")
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (s *localStore) exec(
	ctx context.Context,
	q queryer,
	funcName string,
	build func(models.EntityType, models.EntityID) (string, []any, error),
	entityType models.EntityType,
	id models.EntityID,
) error {
	query, args, err := build(entityType, id)
	if err != nil {
		return err
	}

	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", funcName).
			Str("entity_type", string(entityType)).
			Stringer("id", id).
			Msg("failed to execute statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *localStore) getEntity(ctx context.Context, q queryer, entityType models.EntityType, id models.EntityID) (models.EntityRecord, error) {
	query, args, err := buildGetEntityQuery(entityType, id)
	if err != nil {
		return models.EntityRecord{}, err
	}

	record, err := scanEntity(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.EntityRecord{}, ErrNotFound
	}
	return record, err
}

// currentRecord follows a local id to its server id, if the create was
// acknowledged, and reads the record within q.
func (s *localStore) currentRecord(ctx context.Context, q queryer, entityType models.EntityType, id models.EntityID) (models.EntityRecord, error) {
	resolved, err := s.resolveID(ctx, q, entityType, id)
	if err != nil {
		return models.EntityRecord{}, err
	}
	return s.getEntity(ctx, q, entityType, resolved)
}

func (s *localStore) mergeEntity(ctx context.Context, q queryer, record models.EntityRecord) error {
	fields, err := encodeFields(record.Fields)
	if err != nil {
		return err
	}

	query, args, err := buildMergeRemoteEntityQuery(record, fields)
	if err != nil {
		return err
	}

	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *localStore) upsertEntity(ctx context.Context, q queryer, record models.EntityRecord) error {
	fields, err := encodeFields(record.Fields)
	if err != nil {
		return err
	}

	query, args, err := buildUpsertEntityQuery(record, fields)
	if err != nil {
		return err
	}

	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *localStore) appendPending(ctx context.Context, q queryer, op models.PendingOperation) (models.PendingOperation, error) {
	if op.IdempotencyKey == "" || !op.Kind.Valid() || !op.EntityType.Valid() {
		return models.PendingOperation{}, fmt.Errorf("%w: incomplete pending operation", ErrInvalidRecord)
	}
	if op.EnqueuedAt.IsZero() {
		op.EnqueuedAt = s.now()
	}
	op.EnqueuedAt = op.EnqueuedAt.UTC()

	payload, err := encodeOptionalFields(op.Payload)
	if err != nil {
		return models.PendingOperation{}, err
	}

	query, args, err := buildAppendPendingQuery(op, payload)
	if err != nil {
		return models.PendingOperation{}, err
	}

	if err = q.QueryRowContext(ctx, query, args...).Scan(&op.OpID); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localStore.appendPending").
			Str("entity_type", string(op.EntityType)).
			Stringer("target_id", op.TargetID).
			Str("kind", string(op.Kind)).
			Msg("failed to append pending operation")
		return models.PendingOperation{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return op, nil
}

func (s *localStore) removePending(ctx context.Context, q queryer, opID int64) error {
	query, args, err := buildRemovePendingQuery([]int64{opID})
	if err != nil {
		return err
	}
	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *localStore) rebase(ctx context.Context, q queryer, op models.PendingOperation, version int64) error {
	query, args, err := buildSetEntityVersionQuery(op.EntityType, op.TargetID, version)
	if err != nil {
		return err
	}
	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	query, args, err = buildRebasePendingQuery(op.EntityType, op.TargetID, op.OpID, version)
	if err != nil {
		return err
	}
	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *localStore) pendingTargets(ctx context.Context, q queryer, entityType models.EntityType) (map[models.EntityID]struct{}, error) {
	query, args, err := buildPendingTargetsQuery(entityType)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	targets := make(map[models.EntityID]struct{})
	for rows.Next() {
		var id models.EntityID
		if err = rows.Scan(&id.Kind, &id.Value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		targets[id] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return targets, nil
}

func (s *localStore) listEntities(ctx context.Context, q queryer, entityType models.EntityType) ([]models.EntityRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListEntitiesQuery(entityType)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "localStore.listEntities").Str("entity_type", string(entityType)).Msg("failed to list entities")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.EntityRecord, 0, 32)
	for rows.Next() {
		record, err := scanEntity(rows)
		if err != nil {
			log.Err(err).Str("func", "localStore.listEntities").Msg("failed to scan entity row")
			return nil, err
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

func (s *localStore) listPending(ctx context.Context, q queryer) ([]models.PendingOperation, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListPendingQuery()
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "localStore.listPending").Msg("failed to list pending operations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	ops := make([]models.PendingOperation, 0, 16)
	for rows.Next() {
		op, err := scanPending(rows)
		if err != nil {
			log.Err(err).Str("func", "localStore.listPending").Msg("failed to scan pending operation row")
			return nil, err
		}
		ops = append(ops, op)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return ops, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (models.EntityRecord, error) {
	var (
		record     models.EntityRecord
		entityType string
		fields     string
		updatedAt  int64
	)

	err := row.Scan(
		&entityType,
		&record.ID.Kind,
		&record.ID.Value,
		&fields,
		&record.Version,
		&updatedAt,
		&record.IsLocalOnly,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.EntityRecord{}, err
	}
	if err != nil {
		return models.EntityRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	record.EntityType = models.EntityType(entityType)
	record.UpdatedAt = fromUnix(updatedAt)
	if record.Fields, err = decodeFields(fields); err != nil {
		return models.EntityRecord{}, err
	}

	return record, nil
}

func scanPending(row rowScanner) (models.PendingOperation, error) {
	var (
		op         models.PendingOperation
		entityType string
		kind       string
		payload    sql.NullString
		enqueuedAt int64
		lastError  sql.NullString
	)

	err := row.Scan(
		&op.OpID,
		&op.IdempotencyKey,
		&entityType,
		&op.TargetID.Kind,
		&op.TargetID.Value,
		&kind,
		&payload,
		&op.BaseVersion,
		&enqueuedAt,
		&op.RetryCount,
		&lastError,
	)
	if err != nil {
		return models.PendingOperation{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	op.EntityType = models.EntityType(entityType)
	op.Kind = models.OperationKind(kind)
	op.EnqueuedAt = fromUnix(enqueuedAt)
	op.LastError = lastError.String
	if payload.Valid {
		if op.Payload, err = decodeFields(payload.String); err != nil {
			return models.PendingOperation{}, err
		}
	}

	return op, nil
}

func validateRecord(record models.EntityRecord) error {
	if !record.EntityType.Valid() {
		return fmt.Errorf("%w: unknown entity type %q", ErrInvalidRecord, record.EntityType)
	}
	if record.ID.Value <= 0 {
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	return nil
}

func encodeFields(fields models.Fields) (string, error) {
	if fields == nil {
		return "{}", nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingPayload, err)
	}
	return string(b), nil
}

func encodeOptionalFields(fields models.Fields) (*string, error) {
	if fields == nil {
		return nil, nil
	}
	encoded, err := encodeFields(fields)
	if err != nil {
		return nil, err
	}
	return &encoded, nil
}

func decodeFields(raw string) (models.Fields, error) {
	fields := models.Fields{}
	if raw == "" {
		return fields, nil
	}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingPayload, err)
	}
	return fields, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
