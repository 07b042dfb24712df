package faqrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

// PostgresSource loads the catalog from a table with question, answer and
// position columns.
type PostgresSource struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresSource constructs the source. table must already be validated.
func NewPostgresSource(pool *pgxpool.Pool, table string) *PostgresSource {
	return &PostgresSource{pool: pool, table: table}
}

// Name implements faq.Source.
func (s *PostgresSource) Name() string {
	return "postgres:" + s.table
}

// Load implements faq.Source.
func (s *PostgresSource) Load(ctx context.Context) ([]faq.Entry, error) {
	rows, err := s.pool.Query(ctx, selectEntriesQuery(s.table))
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (faq.Entry, error) {
	var entry faq.Entry
	if err := row.Scan(&entry.Question, &entry.Answer); err != nil {
		return faq.Entry{}, fmt.Errorf("scan faq entry: %w", err)
	}
	return entry, nil
}

func selectEntriesQuery(table string) string {
	return fmt.Sprintf(`SELECT question, answer FROM %s ORDER BY position`, table)
}

var _ faq.Source = (*PostgresSource)(nil)
