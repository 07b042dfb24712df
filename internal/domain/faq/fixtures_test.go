package faq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

var sampleEntries = []Entry{
	{Question: "What is Social Security?", Answer: "A federal program providing retirement, disability and survivor benefits."},
	{Question: "How do I apply for Social Security benefits?", Answer: "Apply online, by phone or at a local office."},
	{Question: "When can I start receiving retirement benefits?", Answer: "As early as age 62."},
	{Question: "Can I work while receiving Social Security benefits?", Answer: "Yes, though earnings above a limit may reduce benefits."},
}

func newSampleCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(sampleEntries)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return catalog
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// letterEmbedder maps text to lowercase letter counts.
type letterEmbedder struct {
	calls int
	err   error
}

func (e *letterEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 26)
		for _, r := range strings.ToLower(text) {
			if r >= 'a' && r <= 'z' {
				vec[r-'a']++
			}
		}
		out[i] = vec
	}
	return out, nil
}

// mapEmbedder returns fixed vectors per text.
type mapEmbedder map[string][]float32

func (e mapEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := e[text]
		if !ok {
			return nil, errors.New("unknown text " + text)
		}
		out[i] = vec
	}
	return out, nil
}
