package relay

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type metrics struct {
	bestHeadsInst      metric.Int64Counter
	finalizedHeadsInst metric.Int64Counter
	haltsInst          metric.Int64Counter

	bestHeight          atomic.Uint64
	finalizedHeight     atomic.Uint64
	bestHeightInst      metric.Int64ObservableGauge
	finalizedHeightInst metric.Int64ObservableGauge
	heightsReg          metric.Registration
}

func newMetrics(mp metric.MeterProvider) (*metrics, error) {
	meter := mp.Meter("relay")
	m := new(metrics)

	var err error
	m.bestHeadsInst, err = meter.Int64Counter(
		"relay_best_heads_total",
		metric.WithDescription("number of best heads relayed to the local chain"),
	)
	if err != nil {
		return nil, err
	}

	m.finalizedHeadsInst, err = meter.Int64Counter(
		"relay_finalized_heads_total",
		metric.WithDescription("number of finalized heads relayed to the local chain"),
	)
	if err != nil {
		return nil, err
	}

	m.haltsInst, err = meter.Int64Counter(
		"relay_halts_total",
		metric.WithDescription("number of times following the authority chain halted on a fault"),
	)
	if err != nil {
		return nil, err
	}

	m.bestHeightInst, err = meter.Int64ObservableGauge(
		"relay_best_height",
		metric.WithDescription("height of the last best head relayed"),
	)
	if err != nil {
		return nil, err
	}

	m.finalizedHeightInst, err = meter.Int64ObservableGauge(
		"relay_finalized_height",
		metric.WithDescription("height of the last finalized head relayed"),
	)
	if err != nil {
		return nil, err
	}

	m.heightsReg, err = meter.RegisterCallback(
		m.observeHeightsCallback,
		m.bestHeightInst,
		m.finalizedHeightInst,
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *metrics) observe(ctx context.Context, observeFn func(context.Context)) {
	if m == nil {
		return
	}

	// a halt is still recorded after the followers were canceled
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	observeFn(ctx)
}

func (m *metrics) observeBest(ctx context.Context, h Header, known bool) {
	m.observe(ctx, func(ctx context.Context) {
		m.bestHeadsInst.Add(ctx, 1, metric.WithAttributes(attribute.Bool("known", known)))
		if known {
			m.bestHeight.Store(h.Height())
		}
	})
}

func (m *metrics) observeFinalized(ctx context.Context, h Header, known bool) {
	m.observe(ctx, func(ctx context.Context) {
		m.finalizedHeadsInst.Add(ctx, 1, metric.WithAttributes(attribute.Bool("known", known)))
		if known {
			m.finalizedHeight.Store(h.Height())
		}
	})
}

func (m *metrics) observeHalt(ctx context.Context, err error) {
	m.observe(ctx, func(ctx context.Context) {
		m.haltsInst.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", errorReason(err))))
	})
}

func (m *metrics) observeHeightsCallback(_ context.Context, obs metric.Observer) error {
	obs.ObserveInt64(m.bestHeightInst, int64(m.bestHeight.Load()))            //nolint:gosec
	obs.ObserveInt64(m.finalizedHeightInst, int64(m.finalizedHeight.Load())) //nolint:gosec
	return nil
}

func (m *metrics) Close() error {
	if m == nil {
		return nil
	}

	return m.heightsReg.Unregister()
}
