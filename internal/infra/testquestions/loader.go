package testquestions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
	"github.com/yanqian/faq-matcher/internal/infra/blob"
)

type document struct {
	TestQuestions []faq.TestQuestion `json:"test_questions"`
}

// Load reads the test question document at key. A missing document yields an
// empty list; a malformed one is an error.
func Load(ctx context.Context, reader blob.Reader, key string, logger *slog.Logger) ([]faq.TestQuestion, error) {
	data, err := reader.Read(ctx, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			logger.Info("test questions file not found", "location", reader.Location(key))
			return nil, nil
		}
		return nil, fmt.Errorf("read test questions: %w", err)
	}
	items, err := decode(data)
	if err != nil {
		return nil, err
	}
	logger.Info("test questions loaded", "count", len(items), "location", reader.Location(key))
	return items, nil
}

func decode(data []byte) ([]faq.TestQuestion, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode test questions: %w", err)
	}
	return doc.TestQuestions, nil
}
