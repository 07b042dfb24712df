package faq

import (
	"context"
	"time"
)

// Embedder produces sentence embeddings for free form text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorCache persists query embeddings between requests.
type VectorCache interface {
	GetVector(ctx context.Context, key string) ([]float32, bool, error)
	SaveVector(ctx context.Context, key string, vector []float32, ttl time.Duration) error
}
