package faq

import "time"

// Config holds runtime knobs for the comparison service.
type Config struct {
	LexicalThreshold  float64
	SemanticThreshold float64
	SurfaceThreshold  float64
	// Timeout bounds a single comparison, zero disables it.
	Timeout time.Duration
}

// DefaultConfig returns the thresholds the demo ships with.
func DefaultConfig() Config {
	return Config{
		LexicalThreshold:  0.1,
		SemanticThreshold: 0.3,
		SurfaceThreshold:  0.2,
	}
}

func (c Config) threshold(m Method) float64 {
	switch m {
	case MethodLexical:
		return c.LexicalThreshold
	case MethodSemantic:
		return c.SemanticThreshold
	default:
		return c.SurfaceThreshold
	}
}
