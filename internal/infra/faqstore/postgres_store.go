package faqstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

// PostgresStore caches query embeddings in a pgvector column.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the cache.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the cache table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS query_embeddings (
			cache_key  TEXT PRIMARY KEY,
			embedding  vector NOT NULL,
			expires_at TIMESTAMPTZ
		)
	`)
	if err != nil {
		return fmt.Errorf("create query_embeddings: %w", err)
	}
	return nil
}

// GetVector implements faq.VectorCache.
func (s *PostgresStore) GetVector(ctx context.Context, key string) ([]float32, bool, error) {
	var raw string
	err := s.pool.QueryRow(ctx, `
		SELECT embedding::text
		FROM query_embeddings
		WHERE cache_key = $1 AND (expires_at IS NULL OR expires_at > now())
	`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	vec, err := parseVector(raw)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

// SaveVector implements faq.VectorCache.
func (s *PostgresStore) SaveVector(ctx context.Context, key string, vector []float32, ttl time.Duration) error {
	var expiresAt any
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO query_embeddings (cache_key, embedding, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (cache_key) DO UPDATE
		SET embedding = EXCLUDED.embedding, expires_at = EXCLUDED.expires_at
	`, key, pgvector.NewVector(vector), expiresAt)
	return err
}

// parseVector decodes the pgvector text form "[1,2,3]".
func parseVector(raw string) ([]float32, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")
	if trimmed == "" {
		return nil, nil
	}
	parts := strings.Split(trimmed, ",")
	out := make([]float32, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("parse vector component %q: %w", p, err)
		}
		out = append(out, float32(f))
	}
	return out, nil
}

var _ faq.VectorCache = (*PostgresStore)(nil)
