package nodebuilder

import (
	"context"
	"time"

	"github.com/libp2p/go-libp2p/core/host"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.uber.org/fx"

	"github.com/celestiaorg/head-relay/libs/utils"
	modrelay "github.com/celestiaorg/head-relay/nodebuilder/relay"
	"github.com/celestiaorg/head-relay/relay"
)

type metricsParams struct {
	interval time.Duration
	opts     []otlpmetrichttp.Option
}

// WithMetrics enables relay metrics and exports them every interval.
func WithMetrics(interval time.Duration, opts ...otlpmetrichttp.Option) fx.Option {
	return fx.Options(
		fx.Supply(metricsParams{interval: interval, opts: opts}),
		fx.Invoke(initializeMetrics),
		fx.Provide(fx.Annotate(
			relay.WithMetrics,
			fx.ResultTags(modrelay.OptionsGroup),
		)),
	)
}

// WithTracing enables exporting traces of the relay and the chain service.
func WithTracing(opts ...otlptracehttp.Option) fx.Option {
	return fx.Options(
		fx.Supply(opts),
		fx.Invoke(initializeTracing),
	)
}

// WithRelayOptions passes the given options to the node's Relay.
func WithRelayOptions(opts ...relay.Option) fx.Option {
	provides := make([]fx.Option, len(opts))
	for i, opt := range opts {
		provides[i] = fx.Provide(fx.Annotate(
			func() relay.Option { return opt },
			fx.ResultTags(modrelay.OptionsGroup),
		))
	}
	return fx.Options(provides...)
}

func telemetry(h host.Host, cfg *Config) utils.Telemetry {
	return utils.Telemetry{
		ChainID:    cfg.Relay.ChainID,
		InstanceID: h.ID().String(),
	}
}

// initializeMetrics sets the global meter provider the relay records to.
func initializeMetrics(
	ctx context.Context,
	lc fx.Lifecycle,
	h host.Host,
	cfg *Config,
	params metricsParams,
) error {
	provider, err := telemetry(h, cfg).NewMeterProvider(ctx, params.interval, params.opts...)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})
	otel.SetMeterProvider(provider)
	return nil
}

// initializeTracing sets the global tracer provider.
func initializeTracing(
	ctx context.Context,
	lc fx.Lifecycle,
	h host.Host,
	cfg *Config,
	opts []otlptracehttp.Option,
) error {
	provider, err := telemetry(h, cfg).NewTracerProvider(ctx, opts...)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})
	otel.SetTracerProvider(provider)
	return nil
}
