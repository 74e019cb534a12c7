package service

import "errors"

// Outcome categories of a remote apply. Only the category drives the sync
// state machine; reason strings travel alongside for display.
var (
	// ErrRetryableRemote marks a transient remote failure: a timeout, an
	// unreachable authority or a 5xx/429 answer.
	ErrRetryableRemote = errors.New("retryable remote failure")

	// ErrVersionConflict marks a stale write: the mutation was computed
	// against a version the authority has since replaced.
	ErrVersionConflict = errors.New("version conflict")

	// ErrFatalRemote marks a permanent rejection of the operation.
	ErrFatalRemote = errors.New("fatal remote failure")
)

// Sync surface errors.
var (
	// ErrOffline is returned by ForceSyncNow when the remote authority is
	// believed unreachable.
	ErrOffline = errors.New("remote authority is offline")

	// ErrSyncInProgress is returned with a coalesced drain report: the
	// trigger was folded into the drain already running.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrNoConflict is returned when resolving a target that holds no
	// conflict.
	ErrNoConflict = errors.New("no conflict for target")

	// ErrInvalidChoice is returned for a resolution choice other than
	// keep_local or keep_remote.
	ErrInvalidChoice = errors.New("invalid resolution choice")

	// ErrOrchestratorClosed is returned by Drain after Close.
	ErrOrchestratorClosed = errors.New("sync orchestrator closed")
)

// Validation errors.
var (
	ErrInvalidDataProvided  = errors.New("invalid data provided")
	ErrUnknownEntityType    = errors.New("unknown entity type")
	ErrUnknownOperationKind = errors.New("unknown operation kind")
	ErrMissingTarget        = errors.New("operation has no target")
	ErrNoOwnerID            = errors.New("no owner id was given")
)

// Server errors.
var (
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrVersionIsNotSpecified   = errors.New("app version is not specified")
)
