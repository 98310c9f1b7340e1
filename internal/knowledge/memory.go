// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package knowledge

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/gabinete/internal/models"
)

// MemoryStore keeps items in a map. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]models.KnowledgeItem
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]models.KnowledgeItem), now: time.Now}
}

// GetByID implements Store.
func (s *MemoryStore) GetByID(_ context.Context, kbID string) (*models.KnowledgeItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[kbID]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneItem(&item)
	return &out, nil
}

// Add implements Store.
func (s *MemoryStore) Add(_ context.Context, item *models.KnowledgeItem) (*models.KnowledgeItem, error) {
	stored, err := prepareNew(item, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[stored.KBID]; exists {
		return nil, ErrAlreadyExists
	}
	s.items[stored.KBID] = stored
	out := cloneItem(&stored)
	return &out, nil
}

// Update implements Store.
func (s *MemoryStore) Update(_ context.Context, kbID string, item *models.KnowledgeItem) (*models.KnowledgeItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[kbID]
	if !ok {
		return nil, ErrNotFound
	}
	stored := prepareReplacement(&existing, item, kbID, s.now())
	s.items[kbID] = stored
	out := cloneItem(&stored)
	return &out, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, opts ListOptions) ([]models.KnowledgeItem, error) {
	s.mu.RLock()
	items := make([]models.KnowledgeItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, cloneItem(&item))
	}
	s.mu.RUnlock()

	return applyListOptions(items, opts), nil
}

// Len returns the number of stored items.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
