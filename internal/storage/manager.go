// Package storage wires the concrete storage backends behind the
// StorageManager interface.
package storage

import (
	"fmt"

	"github.com/Rahul-1991/portfolio-app/internal/common"
	"github.com/Rahul-1991/portfolio-app/internal/interfaces"
	"github.com/Rahul-1991/portfolio-app/internal/storage/badger"
)

type manager struct {
	store        *badger.Store
	transactions interfaces.TransactionStore
	snapshots    interfaces.SnapshotStore
	kv           interfaces.KVStore
	logger       *common.Logger
}

// NewManager opens the local database and builds the per-concern stores.
func NewManager(logger *common.Logger, cfg *common.Config) (interfaces.StorageManager, error) {
	store, err := badger.NewStore(logger, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage at %s: %w", cfg.Storage.Path, err)
	}

	return &manager{
		store:        store,
		transactions: badger.NewTransactionStorage(store, logger),
		snapshots:    badger.NewSnapshotStorage(store, logger),
		kv:           badger.NewKVStorage(store, logger),
		logger:       logger,
	}, nil
}

func (m *manager) Transactions() interfaces.TransactionStore { return m.transactions }
func (m *manager) Snapshots() interfaces.SnapshotStore       { return m.snapshots }
func (m *manager) KV() interfaces.KVStore                    { return m.kv }

func (m *manager) Close() error {
	return m.store.Close()
}
