package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/models"
)

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestNew_DisabledIsNoop(t *testing.T) {
	tr, err := New(context.Background(), config.Tracing{Enabled: false, Exporter: config.ExporterStdout}, "client")
	require.NoError(t, err)
	assert.Nil(t, tr.provider)
	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestNew_StdoutExporterWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	tr, err := New(ctx, config.Tracing{Enabled: true, Exporter: config.ExporterStdout, SampleRate: 1}, "client", WithOutput(&buf))
	require.NoError(t, err)

	_, span := tr.StartDrainSpan(ctx, models.TriggerExplicit)
	span.End(models.DrainReport{Applied: 2})
	require.NoError(t, tr.Shutdown(ctx))

	assert.Contains(t, buf.String(), "sync.drain")
}

func TestNew_UnsupportedExporter(t *testing.T) {
	_, err := New(context.Background(), config.Tracing{Enabled: true, Exporter: "zipkin"}, "client")
	assert.Error(t, err)
}

func TestDrainSpan_RecordsReport(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tr := NewWithExporter(exporter)

	_, span := tr.StartDrainSpan(context.Background(), models.TriggerTimer)
	span.End(models.DrainReport{Applied: 3, Conflicts: 1, Completed: true})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "sync.drain", spans[0].Name)

	v, ok := attrValue(spans[0].Attributes, "sync.trigger")
	require.True(t, ok)
	assert.Equal(t, string(models.TriggerTimer), v.AsString())

	v, ok = attrValue(spans[0].Attributes, "sync.applied")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.AsInt64())
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func TestApplySpan_FatalMarksError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tr := NewWithExporter(exporter)

	op := models.PendingOperation{
		OpID:       4,
		EntityType: models.EntityTask,
		TargetID:   models.LocalID(7),
		Kind:       models.OperationCreate,
	}

	_, ok := tr.StartApplySpan(context.Background(), op)
	ok.End(models.OkResult(917, 1, op.EnqueuedAt))
	_, rejected := tr.StartApplySpan(context.Background(), op)
	rejected.End(models.FatalResult("title is required"))
	_, broken := tr.StartApplySpan(context.Background(), op)
	broken.EndWithError(errors.New("disk full"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Equal(t, "title is required", spans[1].Status.Description)
	assert.Equal(t, codes.Error, spans[2].Status.Code)

	v, found := attrValue(spans[0].Attributes, "entity.id")
	require.True(t, found)
	assert.Equal(t, "local:7", v.AsString())
}
