package embedder

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

type tokenCounter func(string) int

// loadTokenCounter resolves the BPE encoding for model. The encoding tables
// are fetched on first use, so offline hosts fall back to estimateTokens.
func loadTokenCounter(model string, logger *slog.Logger) tokenCounter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, estimating tokens", "model", model, "error", err)
		return estimateTokens
	}
	return func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}
}

// estimateTokens provides a rough, upper-biased token count.
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	runes := utf8.RuneCountInString(text)
	words := len(strings.Fields(text))
	// assume ~1 token per 2 runes and never below word count
	byRunes := (runes + 1) / 2
	if byRunes < words {
		return words
	}
	return byRunes
}
