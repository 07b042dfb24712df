package embedder

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const defaultHashDimensions = 384

// HashEmbedder avoids network calls by feature hashing word unigrams and
// character trigrams into a fixed-width, L2 normalised vector. Texts sharing
// words or spelling land close together, which is enough for offline demos.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder constructs the embedder.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = defaultHashDimensions
	}
	return &HashEmbedder{dim: dim}
}

// Embed converts each text into a hashed feature vector.
func (e *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.vector(text)
	}
	return vectors, nil
}

func (e *HashEmbedder) vector(text string) []float32 {
	acc := make([]float64, e.dim)
	lowered := strings.ToLower(strings.TrimSpace(text))
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		e.add(acc, "w:"+w, 1)
	}
	runes := []rune(" " + strings.Join(words, " ") + " ")
	for i := 0; i+3 <= len(runes); i++ {
		e.add(acc, "c:"+string(runes[i:i+3]), 0.5)
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	out := make([]float32, e.dim)
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, v := range acc {
		out[i] = float32(v / norm)
	}
	return out
}

func (e *HashEmbedder) add(acc []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	acc[idx] += weight
}
