package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

// CachedEmbedder consults a vector cache before calling the wrapped embedder.
// Cache failures are logged and otherwise ignored.
type CachedEmbedder struct {
	next      faq.Embedder
	cache     faq.VectorCache
	namespace string
	ttl       time.Duration
	logger    *slog.Logger
}

// NewCachedEmbedder wraps next. namespace should identify provider and model
// so vectors from different models never mix.
func NewCachedEmbedder(next faq.Embedder, cache faq.VectorCache, namespace string, ttl time.Duration, logger *slog.Logger) *CachedEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedEmbedder{
		next:      next,
		cache:     cache,
		namespace: namespace,
		ttl:       ttl,
		logger:    logger.With("component", "embedder.cache"),
	}
}

// Embed implements faq.Embedder.
func (e *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	var (
		missing      []int
		missingTexts []string
	)
	for i, text := range texts {
		keys[i] = CacheKey(e.namespace, text)
		vec, ok, err := e.cache.GetVector(ctx, keys[i])
		if err != nil {
			e.logger.Warn("vector cache read failed", "error", err)
		}
		if ok && len(vec) > 0 {
			out[i] = vec
			continue
		}
		missing = append(missing, i)
		missingTexts = append(missingTexts, text)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vectors, err := e.next.Embed(ctx, missingTexts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missing) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d inputs", len(vectors), len(missing))
	}
	for j, idx := range missing {
		out[idx] = vectors[j]
		if err := e.cache.SaveVector(ctx, keys[idx], vectors[j], e.ttl); err != nil {
			e.logger.Warn("vector cache write failed", "error", err)
		}
	}
	return out, nil
}

// CacheKey derives the cache key for text under namespace.
func CacheKey(namespace, text string) string {
	sum := sha256.Sum256([]byte(namespace + "|" + text))
	return hex.EncodeToString(sum[:])
}
