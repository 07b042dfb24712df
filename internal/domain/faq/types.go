package faq

// Method identifies a similarity technique. Values double as JSON keys.
type Method string

const (
	// MethodLexical compares TF-IDF vectors.
	MethodLexical Method = "string_cosine"
	// MethodSemantic compares sentence embeddings.
	MethodSemantic Method = "embedding_cosine"
	// MethodSurface compares character sequences.
	MethodSurface Method = "simple_string"
)

// Methods lists every technique in display order.
var Methods = []Method{MethodLexical, MethodSemantic, MethodSurface}

// Label is the human readable name used by the UI.
func (m Method) Label() string {
	switch m {
	case MethodLexical:
		return "String Cosine Similarity (TF-IDF)"
	case MethodSemantic:
		return "Embedding Cosine Similarity"
	case MethodSurface:
		return "Simple String Similarity"
	default:
		return string(m)
	}
}

// Entry is one FAQ question/answer pair, identified by its catalog position.
type Entry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Match is the raw output of a matcher: the best FAQ index and its score.
type Match struct {
	Index int
	Score float64
}

// Result is what a single method reports for a query.
type Result struct {
	Method   Method  `json:"method"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
	Matched  bool    `json:"matched"`
	// Index is the matched catalog position, -1 when nothing is surfaced.
	Index int `json:"index"`
}

// Comparison bundles the results of all methods for one query.
type Comparison struct {
	Question        string `json:"question"`
	StringCosine    Result `json:"string_cosine"`
	EmbeddingCosine Result `json:"embedding_cosine"`
	SimpleString    Result `json:"simple_string"`
	DurationMs      int64  `json:"durationMs,omitempty"`
}

// Results returns the per-method results in display order.
func (c Comparison) Results() []Result {
	return []Result{c.StringCosine, c.EmbeddingCosine, c.SimpleString}
}

// Set stores r under its method.
func (c *Comparison) Set(r Result) {
	switch r.Method {
	case MethodLexical:
		c.StringCosine = r
	case MethodSemantic:
		c.EmbeddingCosine = r
	case MethodSurface:
		c.SimpleString = r
	}
}

// Request encapsulates a comparison query from the JSON API.
type Request struct {
	Question string `json:"question"`
}

// TestQuestion is a sample query offered by the UI.
type TestQuestion struct {
	Question    string `json:"question"`
	Description string `json:"description"`
}

// TestQuestionPage is the payload served for a test question index.
type TestQuestionPage struct {
	Question    string `json:"question"`
	Description string `json:"description"`
	Index       int    `json:"index"`
	Total       int    `json:"total"`
}
