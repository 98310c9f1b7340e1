// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package knowledge

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/gabinete/internal/config"
	"github.com/tomtom215/gabinete/internal/models"
)

var (
	// ErrNotFound is returned when no item has the requested kb_id.
	ErrNotFound = errors.New("knowledge item not found")

	// ErrAlreadyExists is returned by Add when the kb_id is taken.
	ErrAlreadyExists = errors.New("knowledge item already exists")
)

// Store is the knowledge base contract.
type Store interface {
	// GetByID returns the item with the given kb_id or ErrNotFound.
	GetByID(ctx context.Context, kbID string) (*models.KnowledgeItem, error)

	// Add inserts a new item and returns the stored copy.
	Add(ctx context.Context, item *models.KnowledgeItem) (*models.KnowledgeItem, error)

	// Update replaces the item stored under kbID and returns the stored copy.
	// CreatedAt of the existing item is preserved.
	Update(ctx context.Context, kbID string, item *models.KnowledgeItem) (*models.KnowledgeItem, error)

	// List returns items ordered by kb_id.
	List(ctx context.Context, opts ListOptions) ([]models.KnowledgeItem, error)

	Close() error
}

// ListOptions filters List.
type ListOptions struct {
	// Prefix restricts results to kb_ids starting with it, e.g. "PROJ-PEC-".
	Prefix string
	Source string
	Limit  int
	Offset int
}

// DefaultListLimit applies when ListOptions.Limit is zero.
const DefaultListLimit = 100

// Open creates the store selected by cfg.Driver.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.StoreDriverMemory, "":
		return NewMemoryStore(), nil
	case config.StoreDriverBadger:
		return OpenBadgerStore(cfg.Path)
	case config.StoreDriverDuckDB:
		return OpenDuckDBStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown knowledge store driver %q", cfg.Driver)
	}
}

// prepareNew validates an item for insertion and fills its timestamps.
func prepareNew(item *models.KnowledgeItem, now time.Time) (models.KnowledgeItem, error) {
	if item == nil || strings.TrimSpace(item.KBID) == "" {
		return models.KnowledgeItem{}, fmt.Errorf("knowledge item requires a kb_id")
	}
	out := cloneItem(item)
	if out.CreatedAt.IsZero() {
		out.CreatedAt = now
	}
	if out.UpdatedAt.IsZero() {
		out.UpdatedAt = out.CreatedAt
	}
	out.CreatedAt = out.CreatedAt.UTC().Truncate(time.Microsecond)
	out.UpdatedAt = out.UpdatedAt.UTC().Truncate(time.Microsecond)
	return out, nil
}

// prepareReplacement merges an update onto the existing item.
func prepareReplacement(existing, item *models.KnowledgeItem, kbID string, now time.Time) models.KnowledgeItem {
	out := cloneItem(item)
	out.KBID = kbID
	out.CreatedAt = existing.CreatedAt
	if out.UpdatedAt.IsZero() {
		out.UpdatedAt = now
	}
	out.UpdatedAt = out.UpdatedAt.UTC().Truncate(time.Microsecond)
	return out
}

func cloneItem(item *models.KnowledgeItem) models.KnowledgeItem {
	out := *item
	if item.Tags != nil {
		out.Tags = append([]string(nil), item.Tags...)
	}
	return out
}

// applyListOptions filters, orders and pages items in memory.
func applyListOptions(items []models.KnowledgeItem, opts ListOptions) []models.KnowledgeItem {
	filtered := items[:0]
	for i := range items {
		if opts.Prefix != "" && !strings.HasPrefix(items[i].KBID, opts.Prefix) {
			continue
		}
		if opts.Source != "" && items[i].Source != opts.Source {
			continue
		}
		filtered = append(filtered, items[i])
	}
	sort.Slice(filtered, func(a, b int) bool { return filtered[a].KBID < filtered[b].KBID })

	if opts.Offset >= len(filtered) {
		return []models.KnowledgeItem{}
	}
	filtered = filtered[max(opts.Offset, 0):]
	if limit := listLimit(opts); len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

func listLimit(opts ListOptions) int {
	if opts.Limit <= 0 {
		return DefaultListLimit
	}
	return opts.Limit
}
