package faq

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/yanqian/faq-matcher/pkg/errors"
)

// SemanticMatcher scores queries by cosine similarity between sentence
// embeddings. Catalog embeddings are computed once at construction.
type SemanticMatcher struct {
	embedder Embedder
	vectors  [][]float32
}

// NewSemanticMatcher embeds every catalog question. Any failure here is a
// startup failure.
func NewSemanticMatcher(ctx context.Context, catalog *Catalog, embedder Embedder) (*SemanticMatcher, error) {
	if embedder == nil {
		return nil, errors.New("semantic matcher requires an embedder")
	}
	questions := catalog.Questions()
	vectors, err := embedder.Embed(ctx, questions)
	if err != nil {
		return nil, fmt.Errorf("embed faq questions: %w", err)
	}
	if len(vectors) != len(questions) {
		return nil, fmt.Errorf("embed faq questions: expected %d vectors got %d", len(questions), len(vectors))
	}
	dims := len(vectors[0])
	for i, v := range vectors {
		if len(v) == 0 || len(v) != dims {
			return nil, fmt.Errorf("embed faq questions: vector %d has %d dimensions, expected %d", i, len(v), dims)
		}
	}
	return &SemanticMatcher{embedder: embedder, vectors: vectors}, nil
}

// Method implements Matcher.
func (m *SemanticMatcher) Method() Method {
	return MethodSemantic
}

// Dimensions reports the embedding width.
func (m *SemanticMatcher) Dimensions() int {
	return len(m.vectors[0])
}

// Match embeds query and returns the closest catalog question. Negative
// cosines are reported as 0.
func (m *SemanticMatcher) Match(ctx context.Context, query string) (Match, error) {
	if strings.TrimSpace(query) == "" {
		return Match{}, apperrors.Wrap(apperrors.CodeInvalidInput, "query cannot be empty", nil)
	}
	out, err := m.embedder.Embed(ctx, []string{query})
	if err != nil {
		return Match{}, apperrors.Wrap(apperrors.CodeEmbeddingError, "embed query", err)
	}
	if len(out) != 1 || len(out[0]) != m.Dimensions() {
		return Match{}, apperrors.Wrap(apperrors.CodeEmbeddingError, "embed query", fmt.Errorf("unexpected embedding shape"))
	}
	scores := make([]float64, len(m.vectors))
	for i, v := range m.vectors {
		scores[i] = clamp01(cosine(out[0], v))
	}
	return argmax(scores), nil
}
