package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/yanqian/faq-matcher"

// Recorder captures per-method match statistics. A nil Recorder is a no-op.
type Recorder struct {
	comparisons metric.Int64Counter
	accepted    metric.Int64Counter
	scores      metric.Float64Histogram
	latency     metric.Float64Histogram
}

// NewRecorder builds instruments on provider.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(meterName)

	comparisons, err := meter.Int64Counter("faq.comparisons",
		metric.WithDescription("Comparisons served, including empty queries"))
	if err != nil {
		return nil, err
	}
	accepted, err := meter.Int64Counter("faq.match.accepted",
		metric.WithDescription("Matches scoring above the method threshold"))
	if err != nil {
		return nil, err
	}
	scores, err := meter.Float64Histogram("faq.match.score",
		metric.WithDescription("Best match score per method"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("faq.match.duration",
		metric.WithDescription("Matcher latency"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	return &Recorder{
		comparisons: comparisons,
		accepted:    accepted,
		scores:      scores,
		latency:     latency,
	}, nil
}

// RecordComparison counts a served comparison.
func (r *Recorder) RecordComparison(ctx context.Context, empty bool) {
	if r == nil {
		return
	}
	r.comparisons.Add(ctx, 1, metric.WithAttributes(attribute.Bool("empty", empty)))
}

// RecordMatch records the outcome of one matcher run.
func (r *Recorder) RecordMatch(ctx context.Context, method string, score float64, accepted bool, took time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("method", method))
	r.scores.Record(ctx, score, attrs)
	r.latency.Record(ctx, float64(took.Microseconds())/1000, attrs)
	if accepted {
		r.accepted.Add(ctx, 1, attrs)
	}
}
