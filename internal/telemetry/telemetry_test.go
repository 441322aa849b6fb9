package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupTracingExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err := Setup(context.Background(), Config{ServiceName: "factor", Tracing: true, Writer: &buf})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "invoke trial")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "invoke trial")
	assert.Contains(t, buf.String(), "factor")
}

func TestSetupWithoutTracing(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{ServiceName: "factor"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
