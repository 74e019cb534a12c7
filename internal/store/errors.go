package store

import (
	"errors"
	"fmt"
)

// ErrStorageFailure is the root of every durable read/write failure. Callers
// match it with [errors.Is] regardless of which low-level step failed.
var ErrStorageFailure = errors.New("storage failure")

// Sentinel errors returned by repository methods to signal well-known
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNotFound is returned when the requested record or pending
	// operation does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict is returned by the authority repository when the
	// base version of a mutation does not match the stored version.
	ErrVersionConflict = errors.New("version conflict occurred")

	// ErrInvalidRecord is returned when a record cannot be stored as given
	// (unknown entity type, zero id, unencodable fields).
	ErrInvalidRecord = errors.New("invalid record")
)

// Low-level database operation errors. All of them wrap [ErrStorageFailure].
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = fmt.Errorf("%w: error building sql query", ErrStorageFailure)

	// ErrExecutingQuery is returned when a SELECT or similar query fails.
	ErrExecutingQuery = fmt.Errorf("%w: error executing sql query", ErrStorageFailure)

	// ErrBeginningTransaction is returned when the driver cannot start a
	// transaction.
	ErrBeginningTransaction = fmt.Errorf("%w: failed to begin transaction", ErrStorageFailure)

	// ErrCommitingTransaction is returned when committing fails. The
	// transaction is considered rolled back at this point.
	ErrCommitingTransaction = fmt.Errorf("%w: failed to commit transaction", ErrStorageFailure)

	// ErrExecutingStatement is returned when an INSERT, UPDATE or DELETE
	// fails.
	ErrExecutingStatement = fmt.Errorf("%w: failed to execute statement", ErrStorageFailure)

	// ErrScanningRow is returned when scanning a single row fails.
	ErrScanningRow = fmt.Errorf("%w: failed to scan row", ErrStorageFailure)

	// ErrScanningRows is returned when multi-row iteration fails.
	ErrScanningRows = fmt.Errorf("%w: failed to scan rows", ErrStorageFailure)

	// ErrEncodingPayload is returned when fields cannot be encoded to or
	// decoded from their stored JSON form.
	ErrEncodingPayload = fmt.Errorf("%w: failed to encode payload", ErrStorageFailure)
)
