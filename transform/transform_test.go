package transform

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracev1 "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/zerok-ai/zk-otlp-verifier/fixture"
	"github.com/zerok-ai/zk-otlp-verifier/model"
	"github.com/zerok-ai/zk-otlp-verifier/verify"
)

func TestHrTimeToNanosRounding(t *testing.T) {
	// The float64 combination loses the trailing nanoseconds, 429803070
	// lands on ...008. The pinned values must come out exactly.
	got := HrTimeToNanos(model.HrTime{Seconds: 1574120165, Nanos: 429803070})
	assert.Equal(t, uint64(1574120165429803008), got)
	assert.Equal(t, "1574120165429803008", strconv.FormatUint(got, 10))

	got = HrTimeToNanos(model.HrTime{Seconds: 1574120165, Nanos: 438688070})
	assert.Equal(t, uint64(1574120165438688000), got)
	assert.Equal(t, "1574120165438688000", strconv.FormatUint(got, 10))
}

func TestSpanToOtlpPassesVerification(t *testing.T) {
	otlpSpan := SpanToOtlp(fixture.MockSpan())

	require.NoError(t, verify.CheckExportedSpan(otlpSpan))
	// The check itself is idempotent.
	require.NoError(t, verify.CheckExportedSpan(otlpSpan))

	assert.Equal(t, tracev1.Span_SPAN_KIND_INTERNAL, otlpSpan.Kind)
	assert.Equal(t, uint64(1574120165429803008), otlpSpan.StartTimeUnixNano)
	assert.Equal(t, uint64(1574120165438688000), otlpSpan.EndTimeUnixNano)
	assert.Len(t, otlpSpan.TraceId, 16)
	assert.Len(t, otlpSpan.SpanId, 8)
	assert.Len(t, otlpSpan.ParentSpanId, 8)
}

func TestSpanToOtlpMutatedNameFails(t *testing.T) {
	span := fixture.MockSpan()
	span.Name = "documentLoad"

	err := verify.CheckExportedSpan(SpanToOtlp(span))
	require.EqualError(t, err, "name is wrong")
}

func TestResourceToOtlpPassesVerification(t *testing.T) {
	otlpResource := ResourceToOtlp(fixture.MockResource())
	require.NoError(t, verify.CheckExportedResource(otlpResource))
}

func TestNewTracesDataShape(t *testing.T) {
	traceData := NewTracesData(fixture.MockResource(), fixture.MockSpan())

	require.Len(t, traceData.ResourceSpans, 1)
	require.NotNil(t, traceData.ResourceSpans[0].Resource)
	require.Len(t, traceData.ResourceSpans[0].ScopeSpans, 1)
	require.Len(t, traceData.ResourceSpans[0].ScopeSpans[0].Spans, 1)
}

func TestConvertKVListRoundTrip(t *testing.T) {
	attrMap := map[string]interface{}{
		"str":    "value",
		"int":    int64(7),
		"double": 1.5,
		"bool":   true,
	}

	kvList := ConvertMapToKVList(attrMap)
	require.Len(t, kvList, 4)
	// Lexical key order.
	assert.Equal(t, "bool", kvList[0].Key)
	assert.Equal(t, "double", kvList[1].Key)
	assert.Equal(t, "int", kvList[2].Key)
	assert.Equal(t, "str", kvList[3].Key)

	assert.Equal(t, attrMap, ConvertKVListToMap(kvList))
}

func TestSpanToOtlpEventOrder(t *testing.T) {
	otlpSpan := SpanToOtlp(fixture.MockSpan())

	require.Len(t, otlpSpan.Events, len(fixture.MockEventNames))
	for i, event := range otlpSpan.Events {
		assert.Equal(t, fixture.MockEventNames[i], event.Name)
		assert.Equal(t, uint64(1574120165429803008), event.TimeUnixNano)
		assert.Empty(t, event.Attributes)
	}
}
