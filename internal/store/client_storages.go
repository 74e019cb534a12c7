package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/internal/logger"
)

// ClientStorages groups the client-side storage layer.
type ClientStorages struct {
	// LocalStore is the SQLite mirror and pending-operation queue.
	LocalStore LocalStore
	db         *DB
}

// NewClientStorages opens the SQLite file named in cfg.DB.Path (creating it if
// needed), applies the embedded migrations and wires the [LocalStore].
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migration failed: %w", ErrStorageFailure, err)
	}

	return &ClientStorages{
		LocalStore: NewLocalStore(db, logger),
		db:         db,
	}, nil
}

// Close releases the SQLite handle.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}
