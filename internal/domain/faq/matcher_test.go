package faq

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/faq-matcher/pkg/errors"
)

func TestArgmaxPrefersFirstIndexOnTies(t *testing.T) {
	require.Equal(t, Match{Index: 1, Score: 0.8}, argmax([]float64{0.2, 0.8, 0.8}))
	require.Equal(t, Match{Index: 0, Score: 0}, argmax([]float64{0, 0, 0}))
	require.Equal(t, Match{Index: 0, Score: 0}, argmax(nil))
}

func TestClamp01(t *testing.T) {
	require.Equal(t, 0.0, clamp01(-0.3))
	require.Equal(t, 1.0, clamp01(1.0000001))
	require.Equal(t, 0.0, clamp01(math.NaN()))
	require.Equal(t, 0.5, clamp01(0.5))
}

func TestLexicalMatcherExactQuestion(t *testing.T) {
	catalog := newSampleCatalog(t)
	m := NewLexicalMatcher(catalog)
	for i, q := range catalog.Questions() {
		got, err := m.Match(context.Background(), q)
		require.NoError(t, err)
		require.Equal(t, i, got.Index, q)
		require.InDelta(t, 1.0, got.Score, 1e-9)
	}
}

func TestLexicalMatcherUnknownTerms(t *testing.T) {
	m := NewLexicalMatcher(newSampleCatalog(t))
	got, err := m.Match(context.Background(), "xylophone zebra")
	require.NoError(t, err)
	require.Equal(t, Match{Index: 0, Score: 0}, got)
}

func TestLexicalMatcherVocabulary(t *testing.T) {
	catalog, err := NewCatalog([]Entry{
		{Question: "Is a B here?", Answer: "x"},
		{Question: "apply here now", Answer: "y"},
	})
	require.NoError(t, err)
	m := NewLexicalMatcher(catalog)
	require.Equal(t, []string{"apply", "here", "is", "now"}, m.Vocabulary())

	// "here" appears in both documents and carries the lowest weight
	got, err := m.Match(context.Background(), "apply")
	require.NoError(t, err)
	require.Equal(t, 1, got.Index)
	require.Greater(t, got.Score, 0.5)
	require.LessOrEqual(t, got.Score, 1.0)
}

func TestLexicalMatcherPartialQuery(t *testing.T) {
	m := NewLexicalMatcher(newSampleCatalog(t))
	got, err := m.Match(context.Background(), "retirement age")
	require.NoError(t, err)
	require.Equal(t, 2, got.Index)
	require.Greater(t, got.Score, 0.1)
	require.Less(t, got.Score, 1.0)
}

func TestSequenceRatio(t *testing.T) {
	require.InDelta(t, 0.75, sequenceRatio(splitRunes("abcd"), splitRunes("bcde")), 1e-9)
	require.Equal(t, 1.0, sequenceRatio(nil, nil))
	require.Equal(t, 0.0, sequenceRatio(nil, splitRunes("abc")))
	require.Equal(t, []string{"é", "t", "é"}, splitRunes("été"))
}

func TestSurfaceMatcher(t *testing.T) {
	catalog := newSampleCatalog(t)
	m := NewSurfaceMatcher(catalog)
	for i, q := range catalog.Questions() {
		got, err := m.Match(context.Background(), q)
		require.NoError(t, err)
		require.Equal(t, Match{Index: i, Score: 1}, got)
	}

	got, err := m.Match(context.Background(), "WHAT IS SOCIAL SECURITY?")
	require.NoError(t, err)
	require.Equal(t, Match{Index: 0, Score: 1}, got)

	got, err = m.Match(context.Background(), "qqq")
	require.NoError(t, err)
	require.GreaterOrEqual(t, got.Score, 0.0)
	require.Less(t, got.Score, 0.2)
}

func TestSemanticMatcherExactQuestion(t *testing.T) {
	catalog := newSampleCatalog(t)
	embedder := &letterEmbedder{}
	m, err := NewSemanticMatcher(context.Background(), catalog, embedder)
	require.NoError(t, err)
	require.Equal(t, 26, m.Dimensions())
	require.Equal(t, 1, embedder.calls)

	for i, q := range catalog.Questions() {
		got, err := m.Match(context.Background(), q)
		require.NoError(t, err)
		require.Equal(t, i, got.Index)
		require.InDelta(t, 1.0, got.Score, 1e-6)
	}
}

func TestSemanticMatcherClampsNegativeCosine(t *testing.T) {
	catalog, err := NewCatalog([]Entry{
		{Question: "first", Answer: "a"},
		{Question: "second", Answer: "b"},
	})
	require.NoError(t, err)
	m, err := NewSemanticMatcher(context.Background(), catalog, mapEmbedder{
		"first":    {1, 0},
		"second":   {0, 1},
		"opposite": {-1, -1},
		"near":     {0.1, 1},
	})
	require.NoError(t, err)

	got, err := m.Match(context.Background(), "opposite")
	require.NoError(t, err)
	require.Equal(t, Match{Index: 0, Score: 0}, got)

	got, err = m.Match(context.Background(), "near")
	require.NoError(t, err)
	require.Equal(t, 1, got.Index)
	require.Greater(t, got.Score, 0.9)
}

func TestSemanticMatcherErrors(t *testing.T) {
	catalog := newSampleCatalog(t)

	_, err := NewSemanticMatcher(context.Background(), catalog, nil)
	require.Error(t, err)

	boom := errors.New("model unavailable")
	_, err = NewSemanticMatcher(context.Background(), catalog, &letterEmbedder{err: boom})
	require.ErrorIs(t, err, boom)

	_, err = NewSemanticMatcher(context.Background(), catalog, mapEmbedder{})
	require.Error(t, err)

	embedder := &letterEmbedder{}
	m, err := NewSemanticMatcher(context.Background(), catalog, embedder)
	require.NoError(t, err)

	_, err = m.Match(context.Background(), "   ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	embedder.err = boom
	_, err = m.Match(context.Background(), "pension")
	require.True(t, apperrors.IsCode(err, apperrors.CodeEmbeddingError))
	require.ErrorIs(t, err, boom)
}
