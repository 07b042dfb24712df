package embedder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/yanqian/faq-matcher/internal/infra/llm/chatgpt"
)

const (
	maxBatchTokens = 200_000 // stay well below the provider's 300k cap
	maxBatchInputs = 2048
)

// OpenAIEmbedder calls an OpenAI-compatible embeddings API in token-bounded batches.
type OpenAIEmbedder struct {
	client     *chatgpt.Client
	model      string
	dimensions int
	logger     *slog.Logger

	once  sync.Once
	count tokenCounter
}

// NewOpenAIEmbedder constructs an embedder backed by the ChatGPT client.
func NewOpenAIEmbedder(client *chatgpt.Client, model string, dimensions int, logger *slog.Logger) *OpenAIEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIEmbedder{
		client:     client,
		model:      strings.TrimSpace(model),
		dimensions: dimensions,
		logger:     logger.With("component", "embedder.openai"),
	}
}

// Embed requests embeddings for the given texts.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var (
		out         = make([][]float32, 0, len(texts))
		batch       []string
		batchTokens int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		resp, err := e.client.CreateEmbedding(ctx, chatgpt.EmbeddingRequest{
			Model:      e.model,
			Input:      batch,
			Dimensions: e.dimensions,
		})
		if err != nil {
			return fmt.Errorf("create embedding: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return fmt.Errorf("create embedding: expected %d vectors got %d", len(batch), len(resp.Data))
		}
		for _, item := range resp.Data {
			vec := make([]float32, len(item.Embedding))
			copy(vec, item.Embedding)
			out = append(out, vec)
		}
		e.logger.Debug("embedding batch done", "inputs", len(batch), "tokens", batchTokens, "usage", resp.Usage.TotalTokens)
		batch = batch[:0]
		batchTokens = 0
		return nil
	}

	for _, text := range texts {
		tokens := e.tokens(text)
		if tokens > maxBatchTokens {
			return nil, fmt.Errorf("text too large for embedding request: tokens=%d", tokens)
		}
		if len(batch) > 0 && (batchTokens+tokens > maxBatchTokens || len(batch) == maxBatchInputs) {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		batch = append(batch, text)
		batchTokens += tokens
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *OpenAIEmbedder) tokens(text string) int {
	e.once.Do(func() {
		if e.count == nil {
			e.count = loadTokenCounter(e.model, e.logger)
		}
	})
	return e.count(text)
}
