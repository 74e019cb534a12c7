package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/neuroplan-sync/models"
)

const (
	tableEntities = "entities"
	tablePending  = "pending_operations"
	tableMeta     = "sync_meta"
	tableIDMap    = "id_map"

	metaLastSyncAt = "last_sync_at"
	metaLocalIDSeq = "local_id_seq"
)

var (
	entityColumns = []string{
		"entity_type", "id_kind", "id_value", "fields", "version", "updated_at", "is_local_only",
	}
	pendingColumns = []string{
		"op_id", "idempotency_key", "entity_type", "target_kind", "target_value", "kind",
		"payload", "base_version", "enqueued_at", "retry_count", "last_error",
	}
)

// sqlite understands "?" placeholders, which is squirrel's default
var sqlite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// nextLocalIDQuery bumps the local id sequence and returns the new value.
const nextLocalIDQuery = `INSERT INTO sync_meta (key, value) VALUES ('` + metaLocalIDSeq + `', '1')
	ON CONFLICT (key) DO UPDATE SET value = CAST(CAST(value AS INTEGER) + 1 AS TEXT)
	RETURNING CAST(value AS INTEGER);`

func entityKey(entityType models.EntityType, id models.EntityID) sq.Eq {
	return sq.Eq{"entity_type": string(entityType), "id_kind": id.Kind, "id_value": id.Value}
}

func targetKey(entityType models.EntityType, id models.EntityID) sq.Eq {
	return sq.Eq{"entity_type": string(entityType), "target_kind": id.Kind, "target_value": id.Value}
}

func buildGetEntityQuery(entityType models.EntityType, id models.EntityID) (string, []any, error) {
	return wrapBuild(sqlite.Select(entityColumns...).
		From(tableEntities).
		Where(entityKey(entityType, id)).
		ToSql())
}

func buildListEntitiesQuery(entityType models.EntityType) (string, []any, error) {
	b := sqlite.Select(entityColumns...).From(tableEntities)
	if entityType != "" {
		b = b.Where(sq.Eq{"entity_type": string(entityType)})
	}
	return wrapBuild(b.OrderBy("entity_type", "id_kind", "id_value").ToSql())
}

func buildUpsertEntityQuery(record models.EntityRecord, fields string) (string, []any, error) {
	return wrapBuild(sqlite.Insert(tableEntities).
		Columns(entityColumns...).
		Values(
			string(record.EntityType),
			record.ID.Kind,
			record.ID.Value,
			fields,
			record.Version,
			toUnix(record.UpdatedAt),
			record.IsLocalOnly,
		).
		Suffix(`ON CONFLICT (entity_type, id_kind, id_value) DO UPDATE SET
			fields = excluded.fields,
			version = excluded.version,
			updated_at = excluded.updated_at,
			is_local_only = excluded.is_local_only`).
		ToSql())
}

// buildMergeRemoteEntityQuery upserts a refreshed record unless the mirror
// already holds a newer version of it.
func buildMergeRemoteEntityQuery(record models.EntityRecord, fields string) (string, []any, error) {
	return wrapBuild(sqlite.Insert(tableEntities).
		Columns(entityColumns...).
		Values(
			string(record.EntityType),
			record.ID.Kind,
			record.ID.Value,
			fields,
			record.Version,
			toUnix(record.UpdatedAt),
			false,
		).
		Suffix(`ON CONFLICT (entity_type, id_kind, id_value) DO UPDATE SET
			fields = excluded.fields,
			version = excluded.version,
			updated_at = excluded.updated_at,
			is_local_only = excluded.is_local_only
			WHERE excluded.version >= entities.version`).
		ToSql())
}

func buildDeleteStaleEntityQuery(entityType models.EntityType, id models.EntityID, version int64) (string, []any, error) {
	return wrapBuild(sqlite.Delete(tableEntities).
		Where(entityKey(entityType, id)).
		Where(sq.LtOrEq{"version": version}).
		ToSql())
}

func buildDeleteEntityQuery(entityType models.EntityType, id models.EntityID) (string, []any, error) {
	return wrapBuild(sqlite.Delete(tableEntities).Where(entityKey(entityType, id)).ToSql())
}

func buildSetEntityVersionQuery(entityType models.EntityType, id models.EntityID, version int64) (string, []any, error) {
	return wrapBuild(sqlite.Update(tableEntities).
		Set("version", version).
		Where(entityKey(entityType, id)).
		ToSql())
}

func buildRenameEntityQuery(entityType models.EntityType, localID models.EntityID, serverID, version int64) (string, []any, error) {
	return wrapBuild(sqlite.Update(tableEntities).
		SetMap(map[string]any{
			"id_kind":       models.RemoteIDKind,
			"id_value":      serverID,
			"version":       version,
			"is_local_only": false,
		}).
		Where(entityKey(entityType, localID)).
		ToSql())
}

func buildListPendingQuery() (string, []any, error) {
	return wrapBuild(sqlite.Select(pendingColumns...).From(tablePending).OrderBy("op_id").ToSql())
}

func buildCountPendingQuery() (string, []any, error) {
	return wrapBuild(sqlite.Select("COUNT(*)").From(tablePending).ToSql())
}

func buildPendingTargetsQuery(entityType models.EntityType) (string, []any, error) {
	return wrapBuild(sqlite.Select("DISTINCT target_kind", "target_value").
		From(tablePending).
		Where(sq.Eq{"entity_type": string(entityType)}).
		ToSql())
}

func buildAppendPendingQuery(op models.PendingOperation, payload *string) (string, []any, error) {
	return wrapBuild(sqlite.Insert(tablePending).
		Columns(pendingColumns[1:]...).
		Values(
			op.IdempotencyKey,
			string(op.EntityType),
			op.TargetID.Kind,
			op.TargetID.Value,
			string(op.Kind),
			payload,
			op.BaseVersion,
			toUnix(op.EnqueuedAt),
			op.RetryCount,
			nullString(op.LastError),
		).
		Suffix("RETURNING op_id").
		ToSql())
}

func buildRemovePendingQuery(opIDs []int64) (string, []any, error) {
	return wrapBuild(sqlite.Delete(tablePending).Where(sq.Eq{"op_id": opIDs}).ToSql())
}

func buildRemovePendingForTargetQuery(entityType models.EntityType, id models.EntityID) (string, []any, error) {
	return wrapBuild(sqlite.Delete(tablePending).Where(targetKey(entityType, id)).ToSql())
}

func buildBumpRetryQuery(opID int64, lastError string) (string, []any, error) {
	return wrapBuild(sqlite.Update(tablePending).
		Set("retry_count", sq.Expr("retry_count + 1")).
		Set("last_error", nullString(lastError)).
		Where(sq.Eq{"op_id": opID}).
		Suffix("RETURNING retry_count").
		ToSql())
}

func buildRestampPendingQuery(opID, baseVersion int64) (string, []any, error) {
	return wrapBuild(sqlite.Update(tablePending).
		SetMap(map[string]any{
			"base_version": baseVersion,
			"retry_count":  0,
			"last_error":   nil,
		}).
		Where(sq.Eq{"op_id": opID}).
		ToSql())
}

// buildRebasePendingQuery moves every queued operation on the target that was
// enqueued after afterOpID onto baseVersion.
func buildRebasePendingQuery(entityType models.EntityType, id models.EntityID, afterOpID, baseVersion int64) (string, []any, error) {
	return wrapBuild(sqlite.Update(tablePending).
		Set("base_version", baseVersion).
		Where(targetKey(entityType, id)).
		Where(sq.Gt{"op_id": afterOpID}).
		ToSql())
}

func buildRetargetPendingQuery(entityType models.EntityType, localID models.EntityID, serverID, baseVersion int64) (string, []any, error) {
	return wrapBuild(sqlite.Update(tablePending).
		SetMap(map[string]any{
			"target_kind":  models.RemoteIDKind,
			"target_value": serverID,
			"base_version": baseVersion,
		}).
		Where(targetKey(entityType, localID)).
		ToSql())
}

func buildMapIDQuery(entityType models.EntityType, localID, remoteID, mappedAt int64) (string, []any, error) {
	return wrapBuild(sqlite.Insert(tableIDMap).
		Columns("entity_type", "local_id", "remote_id", "mapped_at").
		Values(string(entityType), localID, remoteID, mappedAt).
		Suffix("ON CONFLICT (entity_type, local_id) DO UPDATE SET remote_id = excluded.remote_id, mapped_at = excluded.mapped_at").
		ToSql())
}

func buildResolveIDQuery(entityType models.EntityType, localID int64) (string, []any, error) {
	return wrapBuild(sqlite.Select("remote_id").
		From(tableIDMap).
		Where(sq.Eq{"entity_type": string(entityType), "local_id": localID}).
		ToSql())
}

func buildGetMetaQuery(key string) (string, []any, error) {
	return wrapBuild(sqlite.Select("value").From(tableMeta).Where(sq.Eq{"key": key}).ToSql())
}

func buildSetMetaQuery(key, value string) (string, []any, error) {
	return wrapBuild(sqlite.Insert(tableMeta).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value").
		ToSql())
}

func buildClearQueries() []string {
	return []string{
		"DELETE FROM " + tablePending + ";",
		"DELETE FROM " + tableEntities + ";",
		"DELETE FROM " + tableIDMap + ";",
		"DELETE FROM " + tableMeta + ";",
	}
}

func wrapBuild(query string, args []any, err error) (string, []any, error) {
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
