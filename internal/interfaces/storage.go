// Package interfaces defines service contracts for the portfolio tracker
package interfaces

import (
	"context"
	"errors"

	"github.com/Rahul-1991/portfolio-app/internal/models"
)

// ErrKeyNotFound is returned by KVStore.Get when nothing has been stored
// under the key yet.
var ErrKeyNotFound = errors.New("key not found")

// StorageManager coordinates the storage backends
type StorageManager interface {
	Transactions() TransactionStore
	Snapshots() SnapshotStore
	KV() KVStore

	// Lifecycle
	Close() error
}

// TransactionStore persists the six per-asset-class transaction lists.
// A class with nothing persisted reads back as an empty list, never an error.
type TransactionStore interface {
	List(ctx context.Context, class models.AssetClass) ([]*models.Transaction, error)
	Append(ctx context.Context, txn *models.Transaction) error
	Delete(ctx context.Context, class models.AssetClass, id string) error

	// ReplaceAll swaps a class's full list in one write. Bulk imports use it
	// so a failed batch never leaves a half-written list.
	ReplaceAll(ctx context.Context, class models.AssetClass, txns []*models.Transaction) error
}

// SnapshotStore caches the consolidated dashboard snapshot. The snapshot is
// a read-through cache: always overwritten wholesale, never patched.
type SnapshotStore interface {
	Get(ctx context.Context) (*models.PortfolioSnapshot, error)
	Put(ctx context.Context, snapshot *models.PortfolioSnapshot) error
	Invalidate(ctx context.Context) error
}

// KVStore holds small keyed state that should survive restarts, such as the
// last fetched gold rate. Get wraps ErrKeyNotFound when the key is absent.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
