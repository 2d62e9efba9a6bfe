package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/Rahul-1991/portfolio-app/internal/common"
	"github.com/Rahul-1991/portfolio-app/internal/models"
)

// snapshotKey is the single cache slot for the consolidated dashboard view.
// Kept for compatibility with data written by earlier releases.
const snapshotKey = "portfolioData"

// SnapshotEntry wraps the cached snapshot for storage.
type SnapshotEntry struct {
	Key      string `badgerhold:"key"`
	Snapshot *models.PortfolioSnapshot
}

type snapshotStorage struct {
	store  *Store
	logger *common.Logger
}

// NewSnapshotStorage creates a SnapshotStore backed by BadgerHold.
func NewSnapshotStorage(store *Store, logger *common.Logger) *snapshotStorage {
	return &snapshotStorage{store: store, logger: logger}
}

// Get returns the cached snapshot, or nil when none has been built yet.
func (s *snapshotStorage) Get(_ context.Context) (*models.PortfolioSnapshot, error) {
	var entry SnapshotEntry
	err := s.store.db.Get(snapshotKey, &entry)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot cache: %w", err)
	}
	return entry.Snapshot, nil
}

// Put overwrites the cached snapshot wholesale.
func (s *snapshotStorage) Put(_ context.Context, snapshot *models.PortfolioSnapshot) error {
	entry := SnapshotEntry{Key: snapshotKey, Snapshot: snapshot}
	if err := s.store.db.Upsert(snapshotKey, &entry); err != nil {
		return fmt.Errorf("failed to save snapshot cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot. Called after any transaction write;
// the next dashboard read rebuilds from the transaction lists.
func (s *snapshotStorage) Invalidate(_ context.Context) error {
	err := s.store.db.Delete(snapshotKey, SnapshotEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to invalidate snapshot cache: %w", err)
	}
	return nil
}
