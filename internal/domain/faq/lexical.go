package faq

import (
	"context"
	"math"
	"sort"
)

// LexicalMatcher scores queries by TF-IDF cosine similarity against the
// catalog questions. The vocabulary and document vectors are fixed at
// construction.
type LexicalMatcher struct {
	vocab map[string]int
	terms []string
	idf   []float64
	docs  [][]float64
}

// NewLexicalMatcher fits the TF-IDF model over the catalog questions.
// IDF is smoothed as ln((1+n)/(1+df)) + 1 and every vector is L2 normalised.
func NewLexicalMatcher(catalog *Catalog) *LexicalMatcher {
	questions := catalog.Questions()
	tokenized := make([][]string, len(questions))
	df := make(map[string]int)
	for i, q := range questions {
		tokens := tokenize(q)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	m := &LexicalMatcher{
		vocab: make(map[string]int, len(terms)),
		terms: terms,
		idf:   make([]float64, len(terms)),
		docs:  make([][]float64, len(questions)),
	}
	n := float64(len(questions))
	for i, term := range terms {
		m.vocab[term] = i
		m.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	for i, tokens := range tokenized {
		m.docs[i] = m.weigh(tokens)
	}
	return m
}

// Method implements Matcher.
func (m *LexicalMatcher) Method() Method {
	return MethodLexical
}

// Match projects query into the fitted space. Unknown terms are ignored, so a
// query sharing no vocabulary scores 0 everywhere and resolves to index 0.
func (m *LexicalMatcher) Match(_ context.Context, query string) (Match, error) {
	q := m.weigh(tokenize(query))
	scores := make([]float64, len(m.docs))
	for i, doc := range m.docs {
		scores[i] = clamp01(dot64(q, doc))
	}
	return argmax(scores), nil
}

// Vocabulary returns the fitted terms in index order.
func (m *LexicalMatcher) Vocabulary() []string {
	out := make([]string, len(m.terms))
	copy(out, m.terms)
	return out
}

func (m *LexicalMatcher) weigh(tokens []string) []float64 {
	vec := make([]float64, len(m.terms))
	for _, tok := range tokens {
		if idx, ok := m.vocab[tok]; ok {
			vec[idx]++
		}
	}
	var norm float64
	for i, tf := range vec {
		if tf == 0 {
			continue
		}
		vec[i] = tf * m.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

func dot64(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
