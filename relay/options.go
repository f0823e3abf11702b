package relay

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/celestiaorg/head-relay/header"
)

type Option func(*params)

type params struct {
	metrics       bool
	meterProvider metric.MeterProvider

	decode DecodeFn
}

func defaultParams() params {
	return params{
		decode:        decodeHeader,
		meterProvider: otel.GetMeterProvider(),
	}
}

// WithMetrics is a functional option that enables metrics
// inside the relay package.
func WithMetrics() Option {
	return func(p *params) {
		p.metrics = true
	}
}

// WithMeterProvider sets the provider relay metrics are recorded with,
// the global one otherwise. It implies WithMetrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(p *params) {
		p.metrics = true
		p.meterProvider = mp
	}
}

// WithDecoder sets the decoder for head data.
// By default, head data is decoded as a protobuf encoded cometbft header.
func WithDecoder(decode DecodeFn) Option {
	return func(p *params) {
		p.decode = decode
	}
}

func decodeHeader(data []byte) (Header, error) {
	h, err := header.Decode(data)
	if err != nil {
		return nil, err
	}
	return h, nil
}
