// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package knowledge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver
	"github.com/goccy/go-json"

	"github.com/tomtom215/gabinete/internal/models"
)

const createItemsTable = `
CREATE TABLE IF NOT EXISTS knowledge_items (
	kb_id      VARCHAR PRIMARY KEY,
	title      VARCHAR NOT NULL,
	content    VARCHAR NOT NULL,
	response   VARCHAR NOT NULL,
	source     VARCHAR NOT NULL,
	tags       VARCHAR NOT NULL DEFAULT '[]',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

const selectItemColumns = `SELECT kb_id, title, content, response, source, tags, created_at, updated_at FROM knowledge_items`

// DuckDBStore persists items in a DuckDB table.
type DuckDBStore struct {
	conn *sql.DB
	now  func() time.Time
}

// OpenDuckDBStore opens the DuckDB database at path and ensures the schema.
// An empty path or ":memory:" opens an in-memory database.
func OpenDuckDBStore(path string) (*DuckDBStore, error) {
	connStr := path
	if path == ":memory:" {
		connStr = ""
	}
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	if _, err := conn.Exec(createItemsTable); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create knowledge_items table: %w", err)
	}
	return &DuckDBStore{conn: conn, now: time.Now}, nil
}

// GetByID implements Store.
func (s *DuckDBStore) GetByID(ctx context.Context, kbID string) (*models.KnowledgeItem, error) {
	row := s.conn.QueryRowContext(ctx, selectItemColumns+` WHERE kb_id = ?`, kbID)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get knowledge item: %w", err)
	}
	return item, nil
}

// Add implements Store.
func (s *DuckDBStore) Add(ctx context.Context, item *models.KnowledgeItem) (*models.KnowledgeItem, error) {
	stored, err := prepareNew(item, s.now())
	if err != nil {
		return nil, err
	}
	tags, err := encodeTags(stored.Tags)
	if err != nil {
		return nil, err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM knowledge_items WHERE kb_id = ?`, stored.KBID).Scan(&count); err != nil {
		return nil, fmt.Errorf("check knowledge item: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO knowledge_items
		(kb_id, title, content, response, source, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.KBID, stored.Title, stored.Content, stored.Response, stored.Source, tags,
		stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert knowledge item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit knowledge item: %w", err)
	}
	return &stored, nil
}

// Update implements Store.
func (s *DuckDBStore) Update(ctx context.Context, kbID string, item *models.KnowledgeItem) (*models.KnowledgeItem, error) {
	existing, err := s.GetByID(ctx, kbID)
	if err != nil {
		return nil, err
	}
	stored := prepareReplacement(existing, item, kbID, s.now())
	tags, err := encodeTags(stored.Tags)
	if err != nil {
		return nil, err
	}

	res, err := s.conn.ExecContext(ctx, `UPDATE knowledge_items
		SET title = ?, content = ?, response = ?, source = ?, tags = ?, updated_at = ?
		WHERE kb_id = ?`,
		stored.Title, stored.Content, stored.Response, stored.Source, tags, stored.UpdatedAt, kbID)
	if err != nil {
		return nil, fmt.Errorf("update knowledge item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return &stored, nil
}

// List implements Store.
func (s *DuckDBStore) List(ctx context.Context, opts ListOptions) ([]models.KnowledgeItem, error) {
	var (
		where []string
		args  []any
	)
	if opts.Prefix != "" {
		where = append(where, "starts_with(kb_id, ?)")
		args = append(args, opts.Prefix)
	}
	if opts.Source != "" {
		where = append(where, "source = ?")
		args = append(args, opts.Source)
	}

	query := selectItemColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY kb_id LIMIT ? OFFSET ?"
	args = append(args, listLimit(opts), max(opts.Offset, 0))

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list knowledge items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []models.KnowledgeItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan knowledge item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Close implements Store.
func (s *DuckDBStore) Close() error {
	return s.conn.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.KnowledgeItem, error) {
	var (
		item models.KnowledgeItem
		tags string
	)
	if err := row.Scan(&item.KBID, &item.Title, &item.Content, &item.Response, &item.Source,
		&tags, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &item.Tags); err != nil {
		return nil, fmt.Errorf("decode tags of %s: %w", item.KBID, err)
	}
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	return &item, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(data), nil
}
