package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/neuroplan-sync/models"
)

var postgres = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const remoteEntityColumns = "id, entity_type, fields, version, deleted, updated_at"

func buildFindAppliedQuery(ownerID int64, key string) (string, []any, error) {
	return wrapBuild(postgres.Select("entity_id", "version", "updated_at").
		From("applied_operations").
		Where(sq.Eq{"owner_id": ownerID, "idempotency_key": key}).
		ToSql())
}

func buildRecordAppliedQuery(ownerID int64, key string, entity models.RemoteEntity) (string, []any, error) {
	return wrapBuild(postgres.Insert("applied_operations").
		Columns("owner_id", "idempotency_key", "entity_id", "version", "updated_at").
		Values(ownerID, key, entity.ID, entity.Version, entity.UpdatedAt).
		ToSql())
}

func buildInsertEntityQuery(ownerID int64, entityType models.EntityType, fields string) (string, []any, error) {
	return wrapBuild(postgres.Insert("entities").
		Columns("owner_id", "entity_type", "fields").
		Values(ownerID, string(entityType), fields).
		Suffix("RETURNING " + remoteEntityColumns).
		ToSql())
}

func buildLockEntityQuery(ownerID, id int64, entityType models.EntityType) (string, []any, error) {
	return wrapBuild(postgres.Select(remoteEntityColumns).
		From("entities").
		Where(sq.Eq{"id": id, "owner_id": ownerID, "entity_type": string(entityType)}).
		Suffix("FOR UPDATE").
		ToSql())
}

func buildUpdateEntityQuery(id int64, fields string) (string, []any, error) {
	return wrapBuild(postgres.Update("entities").
		Set("fields", fields).
		Set("version", sq.Expr("version + 1")).
		Set("deleted", false).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + remoteEntityColumns).
		ToSql())
}

func buildSoftDeleteEntityQuery(id int64) (string, []any, error) {
	return wrapBuild(postgres.Update("entities").
		Set("version", sq.Expr("version + 1")).
		Set("deleted", true).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + remoteEntityColumns).
		ToSql())
}

func buildListRemoteEntitiesQuery(ownerID int64, entityType models.EntityType) (string, []any, error) {
	return wrapBuild(postgres.Select(remoteEntityColumns).
		From("entities").
		Where(sq.Eq{"owner_id": ownerID, "entity_type": string(entityType)}).
		OrderBy("id").
		ToSql())
}
