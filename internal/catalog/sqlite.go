package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ajitpratap0/openclaw-concierge/internal/models"
)

// SQLiteSource stores catalog items in a single SQLite table. Scalar columns
// are kept for inspection; the full record lives in the JSON data column.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite catalog: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configuring sqlite catalog: %w", err)
	}
	s := &SQLiteSource{db: db}
	if err := s.EnsureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *SQLiteSource) Close() error { return s.db.Close() }

// EnsureSchema creates the catalog table if missing.
func (s *SQLiteSource) EnsureSchema(ctx context.Context) error {
	const createTable = `
CREATE TABLE IF NOT EXISTS catalog_items (
  id TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  name TEXT NOT NULL,
  kind TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  sponsored INTEGER NOT NULL DEFAULT 0,
  data TEXT NOT NULL
);`
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("creating catalog table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_catalog_position ON catalog_items(position);`); err != nil {
		return fmt.Errorf("creating catalog index: %w", err)
	}
	return nil
}

// ReplaceAll validates items and swaps the table content in one transaction.
// Item order becomes the stored position.
func (s *SQLiteSource) ReplaceAll(ctx context.Context, items []models.CatalogItem) error {
	if _, err := NewSnapshot(items); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_items`); err != nil {
		return fmt.Errorf("clearing catalog: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO catalog_items (id, position, name, kind, category, sponsored, data) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing catalog insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encoding item %s: %w", item.ID, err)
		}
		sponsored := 0
		if item.Sponsored {
			sponsored = 1
		}
		if _, err := stmt.ExecContext(ctx, item.ID, i, item.Name, string(item.Kind), item.Category, sponsored, string(data)); err != nil {
			return fmt.Errorf("inserting item %s: %w", item.ID, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of stored items.
func (s *SQLiteSource) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_items`).Scan(&n)
	return n, err
}

// Snapshot loads every item in stored position order.
func (s *SQLiteSource) Snapshot(ctx context.Context) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM catalog_items ORDER BY position, id`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []models.CatalogItem
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return Snapshot{}, fmt.Errorf("scanning catalog row: %w", err)
		}
		var item models.CatalogItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return Snapshot{}, fmt.Errorf("decoding item %s: %w", id, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterating catalog: %w", err)
	}
	return NewSnapshot(items)
}
