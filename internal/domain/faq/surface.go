package faq

import (
	"context"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// SurfaceMatcher scores queries with the sequence matcher ratio
// (2*matches/total length) over lowercased characters. Scores are pairwise, so
// nothing beyond the lowercased questions is prepared up front.
type SurfaceMatcher struct {
	questions [][]string
}

// NewSurfaceMatcher prepares the lowercased catalog questions.
func NewSurfaceMatcher(catalog *Catalog) *SurfaceMatcher {
	questions := catalog.Questions()
	m := &SurfaceMatcher{questions: make([][]string, len(questions))}
	for i, q := range questions {
		m.questions[i] = splitRunes(strings.ToLower(q))
	}
	return m
}

// Method implements Matcher.
func (m *SurfaceMatcher) Method() Method {
	return MethodSurface
}

// Match returns the question with the highest ratio.
func (m *SurfaceMatcher) Match(_ context.Context, query string) (Match, error) {
	a := splitRunes(strings.ToLower(query))
	scores := make([]float64, len(m.questions))
	for i, b := range m.questions {
		scores[i] = sequenceRatio(a, b)
	}
	return argmax(scores), nil
}

func sequenceRatio(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	return clamp01(difflib.NewMatcher(a, b).Ratio())
}

// splitRunes turns s into one element per code point.
func splitRunes(s string) []string {
	return strings.Split(s, "")
}
