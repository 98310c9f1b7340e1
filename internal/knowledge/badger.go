// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package knowledge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/gabinete/internal/models"
)

const itemKeyPrefix = "kb:"

// BadgerStore persists items in BadgerDB as JSON values.
type BadgerStore struct {
	db  *badger.DB
	now func() time.Time
}

// OpenBadgerStore opens (or creates) a BadgerDB at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for knowledge store: %w", err)
	}
	return NewBadgerStore(db), nil
}

// OpenInMemoryBadgerStore opens a BadgerDB that never touches disk.
func OpenInMemoryBadgerStore() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger db: %w", err)
	}
	return NewBadgerStore(db), nil
}

// NewBadgerStore wraps an already opened database. Close closes db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, now: time.Now}
}

func itemKey(kbID string) []byte {
	return []byte(itemKeyPrefix + kbID)
}

// GetByID implements Store.
func (s *BadgerStore) GetByID(_ context.Context, kbID string) (*models.KnowledgeItem, error) {
	var item models.KnowledgeItem
	err := s.db.View(func(txn *badger.Txn) error {
		return readItem(txn, kbID, &item)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Add implements Store.
func (s *BadgerStore) Add(_ context.Context, item *models.KnowledgeItem) (*models.KnowledgeItem, error) {
	stored, err := prepareNew(item, s.now())
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("marshal knowledge item: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(itemKey(stored.KBID))
		switch {
		case err == nil:
			return ErrAlreadyExists
		case !errors.Is(err, badger.ErrKeyNotFound):
			return fmt.Errorf("get knowledge item: %w", err)
		}
		return txn.Set(itemKey(stored.KBID), data)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// Update implements Store.
func (s *BadgerStore) Update(_ context.Context, kbID string, item *models.KnowledgeItem) (*models.KnowledgeItem, error) {
	var stored models.KnowledgeItem
	err := s.db.Update(func(txn *badger.Txn) error {
		var existing models.KnowledgeItem
		if err := readItem(txn, kbID, &existing); err != nil {
			return err
		}
		stored = prepareReplacement(&existing, item, kbID, s.now())
		data, err := json.Marshal(&stored)
		if err != nil {
			return fmt.Errorf("marshal knowledge item: %w", err)
		}
		return txn.Set(itemKey(kbID), data)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// List implements Store.
func (s *BadgerStore) List(_ context.Context, opts ListOptions) ([]models.KnowledgeItem, error) {
	var items []models.KnowledgeItem
	prefix := []byte(itemKeyPrefix + opts.Prefix)

	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = prefix
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var item models.KnowledgeItem
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			}); err != nil {
				return fmt.Errorf("decode knowledge item %s: %w", it.Item().Key(), err)
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list knowledge items: %w", err)
	}
	return applyListOptions(items, opts), nil
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func readItem(txn *badger.Txn, kbID string, out *models.KnowledgeItem) error {
	entry, err := txn.Get(itemKey(kbID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get knowledge item: %w", err)
	}
	return entry.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}
