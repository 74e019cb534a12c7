package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/models"
)

func newTestEntityRepo(t *testing.T) (*entityRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &entityRepository{
		DB:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

var serverEntityColumns = []string{"id", "entity_type", "fields", "version", "deleted", "updated_at"}

func TestApply_CreateInsertsAndRecords(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	now := time.Now()
	req := models.ApplyRequest{
		IdempotencyKey: "key-1",
		EntityType:     models.EntityTask,
		Kind:           models.OperationCreate,
		Payload:        models.Fields{"title": "Write report"},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT entity_id, version, updated_at FROM applied_operations").
		WithArgs("key-1", int64(7)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO entities").
		WithArgs(int64(7), "task", `{"title":"Write report"}`).
		WillReturnRows(sqlmock.NewRows(serverEntityColumns).AddRow(917, "task", []byte(`{"title":"Write report"}`), 1, false, now))
	mock.ExpectExec("INSERT INTO applied_operations").
		WithArgs(int64(7), "key-1", int64(917), int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repo.Apply(context.Background(), 7, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 917 || got.Version != 1 {
		t.Errorf("expected id=917 version=1, got id=%d version=%d", got.ID, got.Version)
	}
	if got.Fields["title"] != "Write report" {
		t.Errorf("unexpected fields: %v", got.Fields)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApply_ReplaysKnownIdempotencyKey(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT entity_id, version, updated_at FROM applied_operations").
		WithArgs("key-1", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"entity_id", "version", "updated_at"}).AddRow(917, 1, now))
	mock.ExpectRollback()

	got, err := repo.Apply(context.Background(), 7, models.ApplyRequest{
		IdempotencyKey: "key-1",
		EntityType:     models.EntityTask,
		Kind:           models.OperationCreate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 917 {
		t.Errorf("expected replayed id 917, got %d", got.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApply_UpdateVersionMismatchReturnsCurrentRow(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT entity_id, version, updated_at FROM applied_operations").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT id, entity_type, fields, version, deleted, updated_at FROM entities .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(serverEntityColumns).AddRow(3, "project", []byte(`{"title":"B"}`), 4, false, now))
	mock.ExpectRollback()

	got, err := repo.Apply(context.Background(), 7, models.ApplyRequest{
		IdempotencyKey: "key-2",
		EntityType:     models.EntityProject,
		TargetID:       3,
		Kind:           models.OperationUpdate,
		Payload:        models.Fields{"title": "A"},
		BaseVersion:    3,
	})
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	if got.Version != 4 || got.Fields["title"] != "B" {
		t.Errorf("expected current row at version 4, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApply_UpdateMissingRow(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT entity_id, version, updated_at FROM applied_operations").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("FOR UPDATE").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Apply(context.Background(), 7, models.ApplyRequest{
		IdempotencyKey: "key-3",
		EntityType:     models.EntityTask,
		TargetID:       99,
		Kind:           models.OperationDelete,
		BaseVersion:    1,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApply_DeleteBumpsVersion(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT entity_id, version, updated_at FROM applied_operations").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(serverEntityColumns).AddRow(5, "idea", []byte(`{}`), 2, false, now))
	mock.ExpectQuery("UPDATE entities SET version = version \\+ 1, deleted = \\$1").
		WillReturnRows(sqlmock.NewRows(serverEntityColumns).AddRow(5, "idea", []byte(`{}`), 3, true, now))
	mock.ExpectExec("INSERT INTO applied_operations").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repo.Apply(context.Background(), 7, models.ApplyRequest{
		IdempotencyKey: "key-4",
		EntityType:     models.EntityIdea,
		TargetID:       5,
		Kind:           models.OperationDelete,
		BaseVersion:    2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Deleted || got.Version != 3 {
		t.Errorf("expected deleted row at version 3, got %+v", got)
	}
}

func TestApply_BeginFails(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	_, err := repo.Apply(context.Background(), 7, models.ApplyRequest{IdempotencyKey: "k", Kind: models.OperationCreate})
	if !errors.Is(err, ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure, got %v", err)
	}
}

func TestList_ScansRows(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT id, entity_type, fields, version, deleted, updated_at FROM entities").
		WithArgs("task", int64(7)).
		WillReturnRows(sqlmock.NewRows(serverEntityColumns).
			AddRow(1, "task", []byte(`{"title":"a"}`), 1, false, now).
			AddRow(2, "task", []byte(`{"title":"b"}`), 2, true, now))

	got, err := repo.List(context.Background(), 7, models.EntityTask)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(got))
	}
	if got[1].OwnerID != 7 || !got[1].Deleted {
		t.Errorf("unexpected second entity: %+v", got[1])
	}
}
