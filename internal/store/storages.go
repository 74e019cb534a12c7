package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/internal/logger"
)

// Storages groups the remote authority's repositories.
type Storages struct {
	EntityRepository EntityRepository
	db               *DB
}

// NewStorages connects to PostgreSQL, migrates it and wires the repositories.
func NewStorages(ctx context.Context, cfg config.ServerStorage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migration failed: %w", ErrStorageFailure, err)
	}

	return &Storages{
		EntityRepository: NewEntityRepository(db, logger),
		db:               db,
	}, nil
}

// Close releases the database handle.
func (s *Storages) Close() error {
	return s.db.Close()
}
