package faq

import (
	"context"
	"math"
)

// Matcher finds the FAQ question closest to a query under one technique.
type Matcher interface {
	Method() Method
	Match(ctx context.Context, query string) (Match, error)
}

// Matchers groups the three techniques served side by side.
type Matchers struct {
	Lexical  Matcher
	Semantic Matcher
	Surface  Matcher
}

func (m Matchers) all() []Matcher {
	return []Matcher{m.Lexical, m.Semantic, m.Surface}
}

// argmax returns the first index holding the highest score.
func argmax(scores []float64) Match {
	best := Match{Index: 0, Score: math.Inf(-1)}
	for i, s := range scores {
		if s > best.Score {
			best = Match{Index: i, Score: s}
		}
	}
	if len(scores) == 0 {
		best.Score = 0
	}
	return best
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
