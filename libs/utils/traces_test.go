package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestEndSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	_, span := tracer.Start(context.Background(), "mark-best")
	EndSpan(span, nil, attribute.Bool("known", true))

	_, span = tracer.Start(context.Background(), "finalize")
	EndSpan(span, errors.New("disk on fire"), attribute.Bool("known", false))

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.Bool("known", true))
	assert.Empty(t, ended[0].Events())

	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, "disk on fire", ended[1].Status().Description)
	assert.Contains(t, ended[1].Attributes(), attribute.Bool("known", false))
	require.Len(t, ended[1].Events(), 1)
	assert.Equal(t, "exception", ended[1].Events()[0].Name)
}
