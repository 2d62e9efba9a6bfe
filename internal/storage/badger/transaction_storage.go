package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/Rahul-1991/portfolio-app/internal/common"
	"github.com/Rahul-1991/portfolio-app/internal/models"
)

// TransactionList is one asset class's stored transaction list. Each class
// lives under a single key so insertion order survives round-trips, matching
// the aggregation engine's "first transaction wins metadata" rule.
type TransactionList struct {
	Key   string `badgerhold:"key"` // e.g. "transactions_fd"
	Items []*models.Transaction
}

type transactionStorage struct {
	store  *Store
	logger *common.Logger
}

// NewTransactionStorage creates a TransactionStore backed by BadgerHold.
func NewTransactionStorage(store *Store, logger *common.Logger) *transactionStorage {
	return &transactionStorage{store: store, logger: logger}
}

func (s *transactionStorage) load(class models.AssetClass) (*TransactionList, error) {
	key := class.StorageKey()
	var list TransactionList
	err := s.store.db.Get(key, &list)
	if err == badgerhold.ErrNotFound {
		return &TransactionList{Key: key}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return &list, nil
}

// List returns the stored transactions for a class in insertion order.
// A class that has never been written reads back as an empty list.
func (s *transactionStorage) List(_ context.Context, class models.AssetClass) ([]*models.Transaction, error) {
	list, err := s.load(class)
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// Append adds a transaction to the end of its class list.
func (s *transactionStorage) Append(_ context.Context, txn *models.Transaction) error {
	list, err := s.load(txn.Class)
	if err != nil {
		return err
	}

	list.Items = append(list.Items, txn)
	if err := s.store.db.Upsert(list.Key, list); err != nil {
		return fmt.Errorf("failed to save %s: %w", list.Key, err)
	}

	s.logger.Debug().
		Str("class", string(txn.Class)).
		Str("id", txn.ID).
		Int("count", len(list.Items)).
		Msg("Transaction appended")
	return nil
}

// Delete removes the transaction with the given id from its class list.
// Returns an error if the id is not present.
func (s *transactionStorage) Delete(_ context.Context, class models.AssetClass, id string) error {
	list, err := s.load(class)
	if err != nil {
		return err
	}

	kept := list.Items[:0]
	found := false
	for _, t := range list.Items {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return fmt.Errorf("transaction '%s' not found in %s", id, class.StorageKey())
	}

	list.Items = kept
	if err := s.store.db.Upsert(list.Key, list); err != nil {
		return fmt.Errorf("failed to save %s: %w", list.Key, err)
	}
	return nil
}

// ReplaceAll overwrites a class list wholesale (used by imports).
func (s *transactionStorage) ReplaceAll(_ context.Context, class models.AssetClass, txns []*models.Transaction) error {
	list := &TransactionList{Key: class.StorageKey(), Items: txns}
	if err := s.store.db.Upsert(list.Key, list); err != nil {
		return fmt.Errorf("failed to save %s: %w", list.Key, err)
	}
	return nil
}
