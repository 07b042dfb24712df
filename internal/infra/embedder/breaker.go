package embedder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

// BreakerSettings tunes the circuit breaker.
type BreakerSettings struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	OpenTimeout  time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// ErrProviderUnavailable is returned while the breaker is open.
var ErrProviderUnavailable = errors.New("embedding provider unavailable")

// BreakerEmbedder stops calling a failing remote embedder for a cool-down period.
type BreakerEmbedder struct {
	next faq.Embedder
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerEmbedder wraps next with a circuit breaker.
func NewBreakerEmbedder(next faq.Embedder, settings BreakerSettings, logger *slog.Logger) *BreakerEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "embedder.breaker")
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests || counts.Requests == 0 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("embedding circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// a caller giving up says nothing about the provider
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &BreakerEmbedder{next: next, cb: cb}
}

// Embed implements faq.Embedder.
func (e *BreakerEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out, err := e.cb.Execute(func() (interface{}, error) {
		return e.next.Embed(ctx, texts)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		return nil, err
	}
	vectors, _ := out.([][]float32)
	return vectors, nil
}

// State reports the breaker state for health checks.
func (e *BreakerEmbedder) State() string {
	return e.cb.State().String()
}
