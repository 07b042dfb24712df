package faqrepo

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

// SQLiteSource loads the catalog from a local SQLite database.
type SQLiteSource struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens the database at path with the pure Go driver.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

// NewSQLiteSource constructs the source. table must already be validated.
func NewSQLiteSource(db *sql.DB, table string) *SQLiteSource {
	return &SQLiteSource{db: db, table: table}
}

// Name implements faq.Source.
func (s *SQLiteSource) Name() string {
	return "sqlite:" + s.table
}

// Load implements faq.Source.
func (s *SQLiteSource) Load(ctx context.Context) ([]faq.Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntriesQuery(s.table))
	if err != nil {
		return nil, fmt.Errorf("query faq entries: %w", err)
	}
	defer rows.Close()
	var out []faq.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

var _ faq.Source = (*SQLiteSource)(nil)
