package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldsurvey/collect/internal/config"
)

func TestSetup_None(t *testing.T) {
	p, err := Setup(context.Background(), config.TracingConfig{Exporter: config.ExporterNone})
	require.NoError(t, err)

	_, span := p.Tracer("test").Start(context.Background(), "noop")
	require.False(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestSetup_StdoutFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "traces", "spans.json")
	p, err := Setup(context.Background(), config.TracingConfig{Exporter: config.ExporterStdout, File: file})
	require.NoError(t, err)

	_, span := p.Tracer("test").Start(context.Background(), "lookup.FormPath")
	require.True(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), "lookup.FormPath")
	require.Contains(t, string(data), `"service.name"`)
	require.Contains(t, string(data), `"Value":"collect"`)
}

func TestSetup_UnknownExporter(t *testing.T) {
	_, err := Setup(context.Background(), config.TracingConfig{Exporter: "zipkin"})
	require.Error(t, err)
}
