package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

// Compile-time interface guard.
var _ catalog.Source = (*CatalogRepository)(nil)

// CatalogRepository stores catalog entries in the catalog_entries table.
type CatalogRepository struct {
	store *SQLiteStore
	db    *sql.DB
}

// NewCatalogRepository runs the catalog migrations and returns a repository.
func NewCatalogRepository(ctx context.Context, s *SQLiteStore) (*CatalogRepository, error) {
	if err := s.Migrate(ctx, "catalog", catalogMigrations); err != nil {
		return nil, fmt.Errorf("catalog migrations: %w", err)
	}
	return &CatalogRepository{store: s, db: s.DB()}, nil
}

// Entries returns all stored entries ordered by name.
func (r *CatalogRepository) Entries(ctx context.Context) ([]catalog.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, category, docs_url, pricing_url, overview, pros, cons
		FROM catalog_entries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list catalog entries: %w", err)
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var (
			e          catalog.Entry
			pros, cons string
		)
		if err := rows.Scan(&e.Name, &e.Category, &e.DocsURL, &e.PricingURL, &e.Overview, &pros, &cons); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		if e.Pros, err = decodeList(pros); err != nil {
			return nil, fmt.Errorf("decode pros for %q: %w", e.Name, err)
		}
		if e.Cons, err = decodeList(cons); err != nil {
			return nil, fmt.Errorf("decode cons for %q: %w", e.Name, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, catalog.ErrNoEntries
	}
	return entries, nil
}

// Import upserts entries by name. Malformed entries are skipped and a
// repeated name overwrites the earlier one. It returns the number of
// distinct names written.
func (r *CatalogRepository) Import(ctx context.Context, entries []catalog.Entry) (int, error) {
	valid, _ := catalog.Sanitize(entries)
	names := make(map[string]struct{}, len(valid))

	err := r.store.Tx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertEntrySQL)
		if err != nil {
			return fmt.Errorf("prepare import: %w", err)
		}
		defer stmt.Close()

		for i := range valid {
			e := valid[i]
			pros, err := encodeList(e.Pros)
			if err != nil {
				return err
			}
			cons, err := encodeList(e.Cons)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, e.Name, e.Category, e.DocsURL, e.PricingURL, e.Overview, pros, cons); err != nil {
				return fmt.Errorf("import %q: %w", e.Name, err)
			}
			names[e.Name] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

const upsertEntrySQL = `
	INSERT INTO catalog_entries (name, category, docs_url, pricing_url, overview, pros, cons)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (name) DO UPDATE SET
		category    = excluded.category,
		docs_url    = excluded.docs_url,
		pricing_url = excluded.pricing_url,
		overview    = excluded.overview,
		pros        = excluded.pros,
		cons        = excluded.cons`

// Count returns the number of stored entries.
func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count catalog entries: %w", err)
	}
	return n, nil
}

func encodeList(items []string) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// catalogMigrations defines the database schema for catalog_entries.
var catalogMigrations = []Migration{
	{
		Version:     1,
		Description: "create catalog_entries table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE catalog_entries (
					name        TEXT PRIMARY KEY,
					category    TEXT NOT NULL,
					docs_url    TEXT NOT NULL DEFAULT '',
					pricing_url TEXT NOT NULL DEFAULT '',
					overview    TEXT NOT NULL DEFAULT '',
					pros        TEXT NOT NULL DEFAULT '',
					cons        TEXT NOT NULL DEFAULT ''
				)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "index catalog_entries by category",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX idx_catalog_entries_category ON catalog_entries (category)`)
			return err
		},
	},
}
