package embedder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-matcher/internal/infra/faqstore"
	"github.com/yanqian/faq-matcher/internal/infra/llm/chatgpt"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestHashEmbedder(t *testing.T) {
	e := NewHashEmbedder(0)
	vecs, err := e.Embed(context.Background(), []string{
		"What is Medicare?",
		"what is medicare",
		"How do I report a change of address?",
		"",
	})
	require.NoError(t, err)
	require.Len(t, vecs, 4)
	require.Len(t, vecs[0], defaultHashDimensions)

	require.InDelta(t, 1.0, cosine(vecs[0], vecs[1]), 1e-6)
	require.Less(t, cosine(vecs[0], vecs[2]), 0.5)

	var norm float64
	for _, v := range vecs[2] {
		norm += float64(v) * float64(v)
	}
	require.InDelta(t, 1.0, norm, 1e-5)
	for _, v := range vecs[3] {
		require.Zero(t, v)
	}

	again, err := e.Embed(context.Background(), []string{"What is Medicare?"})
	require.NoError(t, err)
	require.Equal(t, vecs[0], again[0])
}

func TestOllamaEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embed", r.URL.Path)
		var req ollamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "all-minilm", req.Model)
		resp := ollamaEmbedResponse{}
		for i := range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{float32(i), 1})
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL+"/", "", time.Second, newTestLogger())
	vecs, err := e.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, [][]float32{{0, 1}, {1, 1}}, vecs)

	vecs, err = e.Embed(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, vecs)
}

func TestOllamaEmbedderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/short/api/embed" {
			_, _ = w.Write([]byte(`{"embeddings":[]}`))
			return
		}
		http.Error(w, `model "all-minilm" not found`, http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "all-minilm", time.Second, newTestLogger())
	_, err := e.Embed(context.Background(), []string{"a"})
	require.ErrorContains(t, err, "status=404")

	e = NewOllamaEmbedder(srv.URL+"/short", "all-minilm", time.Second, newTestLogger())
	_, err = e.Embed(context.Background(), []string{"a"})
	require.ErrorContains(t, err, "returned 0 embeddings for 1 inputs")
}

func TestOpenAIEmbedderBatches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req chatgpt.EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, 8, req.Dimensions)
		type item struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}
		var data []item
		for i, text := range req.Input {
			data = append(data, item{Index: i, Embedding: []float32{float32(len(text))}})
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": data}))
	}))
	defer srv.Close()

	client, err := chatgpt.NewClient("sk-test", srv.URL, time.Second)
	require.NoError(t, err)
	e := NewOpenAIEmbedder(client, "text-embedding-3-small", 8, newTestLogger())
	e.count = func(string) int { return maxBatchTokens / 2 }

	vecs, err := e.Embed(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Equal(t, [][]float32{{1}, {2}, {3}}, vecs)
	require.Equal(t, int32(2), calls.Load())
}

func TestOpenAIEmbedderRejectsHugeText(t *testing.T) {
	client, err := chatgpt.NewClient("sk-test", "http://127.0.0.1:0", time.Second)
	require.NoError(t, err)
	e := NewOpenAIEmbedder(client, "m", 0, newTestLogger())
	e.count = func(string) int { return maxBatchTokens + 1 }
	_, err = e.Embed(context.Background(), []string{"x"})
	require.ErrorContains(t, err, "text too large")
}

func TestEstimateTokens(t *testing.T) {
	require.Equal(t, 0, estimateTokens(""))
	require.Equal(t, 3, estimateTokens("hello"))
	require.Equal(t, 4, estimateTokens("a b c d"))
}

type countingEmbedder struct {
	calls  int
	inputs []string
	err    error
}

func (e *countingEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	e.inputs = append(e.inputs, texts...)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text)), 1}
	}
	return out, nil
}

type failingCache struct{}

func (failingCache) GetVector(context.Context, string) ([]float32, bool, error) {
	return nil, false, errors.New("cache down")
}

func (failingCache) SaveVector(context.Context, string, []float32, time.Duration) error {
	return errors.New("cache down")
}

func TestCachedEmbedder(t *testing.T) {
	next := &countingEmbedder{}
	store := faqstore.NewMemoryStore()
	e := NewCachedEmbedder(next, store, "hash|test", time.Hour, newTestLogger())

	vecs, err := e.Embed(context.Background(), []string{"a", "bb"})
	require.NoError(t, err)
	require.Equal(t, [][]float32{{1, 1}, {2, 1}}, vecs)
	require.Equal(t, 2, store.Len())

	vecs, err = e.Embed(context.Background(), []string{"bb", "ccc"})
	require.NoError(t, err)
	require.Equal(t, [][]float32{{2, 1}, {3, 1}}, vecs)
	require.Equal(t, 2, next.calls)
	require.Equal(t, []string{"a", "bb", "ccc"}, next.inputs)

	_, err = e.Embed(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Equal(t, 2, next.calls)
}

func TestCachedEmbedderIgnoresCacheFailures(t *testing.T) {
	next := &countingEmbedder{}
	e := NewCachedEmbedder(next, failingCache{}, "ns", time.Hour, newTestLogger())
	vecs, err := e.Embed(context.Background(), []string{"abc"})
	require.NoError(t, err)
	require.Equal(t, [][]float32{{3, 1}}, vecs)

	next.err = errors.New("provider down")
	_, err = e.Embed(context.Background(), []string{"abc"})
	require.EqualError(t, err, "provider down")
}

func TestCacheKeyNamespaces(t *testing.T) {
	require.Equal(t, CacheKey("ollama|all-minilm", "hi"), CacheKey("ollama|all-minilm", "hi"))
	require.NotEqual(t, CacheKey("ollama|all-minilm", "hi"), CacheKey("openai|text-embedding-3-small", "hi"))
	require.Len(t, CacheKey("a", "b"), 64)
}

func TestBreakerEmbedderOpensAfterFailures(t *testing.T) {
	next := &countingEmbedder{err: errors.New("connection refused")}
	e := NewBreakerEmbedder(next, BreakerSettings{
		Name:         "test",
		MaxRequests:  1,
		Interval:     time.Minute,
		OpenTimeout:  time.Minute,
		FailureRatio: 0.5,
		MinRequests:  2,
	}, newTestLogger())

	for i := 0; i < 2; i++ {
		_, err := e.Embed(context.Background(), []string{"a"})
		require.EqualError(t, err, "connection refused")
	}
	require.Equal(t, "open", e.State())

	_, err := e.Embed(context.Background(), []string{"a"})
	require.ErrorIs(t, err, ErrProviderUnavailable)
	require.Equal(t, 2, next.calls)
}

func TestBreakerEmbedderPassesThrough(t *testing.T) {
	next := &countingEmbedder{}
	e := NewBreakerEmbedder(next, BreakerSettings{Name: "ok", MinRequests: 1, FailureRatio: 0.5}, newTestLogger())
	vecs, err := e.Embed(context.Background(), []string{"ab"})
	require.NoError(t, err)
	require.Equal(t, [][]float32{{2, 1}}, vecs)
	require.Equal(t, "closed", e.State())
}

func TestEmbedInBatchesRespectsGeminiLimit(t *testing.T) {
	texts := make([]string, 250)
	for i := range texts {
		texts[i] = fmt.Sprintf("question %d", i)
	}
	var sizes []int
	embed := func(_ context.Context, batch []string) ([][]float32, error) {
		sizes = append(sizes, len(batch))
		out := make([][]float32, len(batch))
		for i, text := range batch {
			var n int
			_, err := fmt.Sscanf(text, "question %d", &n)
			require.NoError(t, err)
			out[i] = []float32{float32(n)}
		}
		return out, nil
	}

	got, err := embedInBatches(context.Background(), texts, geminiMaxBatch, embed)
	require.NoError(t, err)
	require.Equal(t, []int{100, 100, 50}, sizes)
	require.Len(t, got, 250)
	for i, vec := range got {
		require.Equal(t, float32(i), vec[0])
	}

	_, err = embedInBatches(context.Background(), texts, geminiMaxBatch, func(context.Context, []string) ([][]float32, error) {
		return [][]float32{{1}}, nil
	})
	require.EqualError(t, err, "embedder returned 1 vectors for 100 inputs")

	got, err = embedInBatches(context.Background(), nil, geminiMaxBatch, embed)
	require.NoError(t, err)
	require.Nil(t, got)
}
