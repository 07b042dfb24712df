package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/yanqian/faq-matcher/internal/infra/config"
)

// Shutdown flushes and stops the installed providers.
type Shutdown func(context.Context) error

// Providers exposes what the rest of the app records telemetry through.
type Providers struct {
	Meter    metric.MeterProvider
	Shutdown Shutdown
}

// Init installs OTLP/gRPC tracer and meter providers when telemetry is
// enabled. When disabled the global no-op providers stay in place.
func Init(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Providers, error) {
	disabled := &Providers{
		Meter:    otel.GetMeterProvider(),
		Shutdown: func(context.Context) error { return nil },
	}
	if !cfg.Telemetry.Enabled {
		return disabled, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("deployment.environment", environment(cfg)),
		),
	)
	if err != nil {
		return disabled, fmt.Errorf("create resource: %w", err)
	}

	tp, err := newTracerProvider(ctx, cfg, res)
	if err != nil {
		return disabled, err
	}
	mp, err := newMeterProvider(ctx, cfg, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return disabled, err
	}
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	installPropagator()
	logger.Info("opentelemetry initialized", "endpoint", cfg.Telemetry.Endpoint, "sample_ratio", cfg.Telemetry.SampleRatio)

	return &Providers{
		Meter: mp,
		Shutdown: func(ctx context.Context) error {
			return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
		},
	}, nil
}

func environment(cfg *config.Config) string {
	if cfg.HTTP.Production {
		return "production"
	}
	return "development"
}
