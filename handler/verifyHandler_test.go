package handler

import (
	"errors"
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracev1 "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/zerok-ai/zk-otlp-verifier/config"
	"github.com/zerok-ai/zk-otlp-verifier/fixture"
	promMetrics "github.com/zerok-ai/zk-otlp-verifier/metrics"
	"github.com/zerok-ai/zk-otlp-verifier/model"
	"github.com/zerok-ai/zk-otlp-verifier/transform"
)

type fakeVerdictStore struct {
	putCount int
	putErr   error
	verdicts map[string]map[string]model.SpanVerdict
}

func newFakeVerdictStore() *fakeVerdictStore {
	return &fakeVerdictStore{verdicts: map[string]map[string]model.SpanVerdict{}}
}

func (f *fakeVerdictStore) CheckRedisConnection() error { return nil }

func (f *fakeVerdictStore) PutVerdict(verdict model.SpanVerdict) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.putCount++
	if f.verdicts[verdict.TraceId] == nil {
		f.verdicts[verdict.TraceId] = map[string]model.SpanVerdict{}
	}
	f.verdicts[verdict.TraceId][verdict.SpanId] = verdict
	return nil
}

func (f *fakeVerdictStore) GetVerdicts(traceId string) (map[string]model.SpanVerdict, error) {
	return f.verdicts[traceId], nil
}

func (f *fakeVerdictStore) SyncPipeline() {}

func newTestHandler() *VerifyHandler {
	return NewVerifyHandler(config.DefaultConfig(), nil, nil)
}

func TestProcessTraceDataConformantSpanPasses(t *testing.T) {
	vh := newTestHandler()
	traceData := transform.NewTracesData(fixture.MockResource(), fixture.MockSpan())

	vh.ProcessTraceData(traceData.ResourceSpans)

	verdicts := vh.GetVerdicts([]string{fixture.MockTraceId})
	require.Len(t, verdicts[fixture.MockTraceId], 1)
	verdict := verdicts[fixture.MockTraceId][0]
	assert.True(t, verdict.Pass)
	assert.Empty(t, verdict.Failures)
	assert.Equal(t, fixture.MockSpanId, verdict.SpanId)
	assert.Equal(t, fixture.MockSpanName, verdict.SpanName)
	assert.NotZero(t, verdict.CheckedNs)
}

func TestProcessTraceDataWrongTimestampFails(t *testing.T) {
	vh := newTestHandler()
	span := fixture.MockSpan()
	span.StartTime.Seconds = 1574120166
	traceData := transform.NewTracesData(fixture.MockResource(), span)

	vh.ProcessTraceData(traceData.ResourceSpans)

	verdicts := vh.GetVerdicts([]string{fixture.MockTraceId})
	require.Len(t, verdicts[fixture.MockTraceId], 1)
	verdict := verdicts[fixture.MockTraceId][0]
	assert.False(t, verdict.Pass)
	require.NotEmpty(t, verdict.Failures)
	assert.Contains(t, verdict.Failures[0], "startTimeUnixNano is wrong")
}

func TestProcessTraceDataBadResourceFailsVerdict(t *testing.T) {
	vh := newTestHandler()
	resource := fixture.MockResource()
	resource.Attributes[0], resource.Attributes[1] = resource.Attributes[1], resource.Attributes[0]
	traceData := transform.NewTracesData(resource, fixture.MockSpan())

	vh.ProcessTraceData(traceData.ResourceSpans)

	verdicts := vh.GetVerdicts([]string{fixture.MockTraceId})
	require.Len(t, verdicts[fixture.MockTraceId], 1)
	verdict := verdicts[fixture.MockTraceId][0]
	assert.False(t, verdict.Pass)
	require.NotEmpty(t, verdict.Failures)
	assert.Contains(t, verdict.Failures[0], "resource: ")
}

func TestProcessTraceDataSkipsUnlistedNames(t *testing.T) {
	vh := newTestHandler()
	span := fixture.MockSpan()
	span.Name = "documentLoad"
	traceData := transform.NewTracesData(fixture.MockResource(), span)

	vh.ProcessTraceData(traceData.ResourceSpans)

	verdicts := vh.GetVerdicts([]string{fixture.MockTraceId})
	assert.Empty(t, verdicts)
}

func TestProcessTraceDataSkipsEmptyIds(t *testing.T) {
	vh := newTestHandler()
	traceData := transform.NewTracesData(fixture.MockResource(), fixture.MockSpan())
	traceData.ResourceSpans[0].ScopeSpans[0].Spans[0].SpanId = nil

	vh.ProcessTraceData(traceData.ResourceSpans)

	verdicts := vh.GetVerdicts([]string{fixture.MockTraceId})
	assert.Empty(t, verdicts)
}

func TestProcessTraceDataEmptyBatch(t *testing.T) {
	vh := newTestHandler()
	vh.ProcessTraceData(nil)
	vh.ProcessTraceData([]*tracev1.ResourceSpans{})

	assert.Empty(t, vh.GetVerdicts([]string{fixture.MockTraceId}))
}

func TestPushVerdictsWithoutStore(t *testing.T) {
	vh := newTestHandler()
	traceData := transform.NewTracesData(fixture.MockResource(), fixture.MockSpan())
	vh.ProcessTraceData(traceData.ResourceSpans)

	// No redis configured, verdicts stay staged and the push is a no-op.
	require.NoError(t, vh.PushVerdicts())
	assert.Len(t, vh.GetVerdicts([]string{fixture.MockTraceId})[fixture.MockTraceId], 1)
}

func TestGetBulkPayloadsWithoutStore(t *testing.T) {
	vh := newTestHandler()
	payloads, err := vh.GetBulkPayloadsForPrefix([]string{fixture.MockTraceId})
	require.NoError(t, err)
	assert.Empty(t, payloads)
}

func TestPushVerdictsFlushesAndPrunes(t *testing.T) {
	store := newFakeVerdictStore()
	vh := NewVerifyHandler(config.DefaultConfig(), store, nil)
	traceData := transform.NewTracesData(fixture.MockResource(), fixture.MockSpan())
	vh.ProcessTraceData(traceData.ResourceSpans)

	require.NoError(t, vh.PushVerdicts())
	assert.Equal(t, 1, store.putCount)

	// Flushed keys are pruned, another flush must not re-put them.
	require.NoError(t, vh.PushVerdicts())
	assert.Equal(t, 1, store.putCount)

	// The flushed verdict is still served, now through the store.
	verdicts := vh.GetVerdicts([]string{fixture.MockTraceId})
	require.Len(t, verdicts[fixture.MockTraceId], 1)
	assert.True(t, verdicts[fixture.MockTraceId][0].Pass)
	assert.Equal(t, fixture.MockSpanId, verdicts[fixture.MockTraceId][0].SpanId)
}

func TestGetVerdictsReadsConfiguredStore(t *testing.T) {
	store := newFakeVerdictStore()
	require.NoError(t, store.PutVerdict(model.SpanVerdict{
		TraceId:  fixture.MockTraceId,
		SpanId:   fixture.MockSpanId,
		SpanName: fixture.MockSpanName,
		Pass:     true,
	}))
	vh := NewVerifyHandler(config.DefaultConfig(), store, nil)

	// Nothing staged, the verdict comes from the store alone.
	verdicts := vh.GetVerdicts([]string{fixture.MockTraceId})
	require.Len(t, verdicts[fixture.MockTraceId], 1)
	assert.Equal(t, fixture.MockSpanName, verdicts[fixture.MockTraceId][0].SpanName)
}

func TestPushVerdictsFailedPutKeepsStaged(t *testing.T) {
	store := newFakeVerdictStore()
	store.putErr = errors.New("connection reset")
	vh := NewVerifyHandler(config.DefaultConfig(), store, nil)
	traceData := transform.NewTracesData(fixture.MockResource(), fixture.MockSpan())
	vh.ProcessTraceData(traceData.ResourceSpans)

	require.Error(t, vh.PushVerdicts())
	assert.Equal(t, 0, store.putCount)

	// The unflushed verdict stays staged and fetchable.
	verdicts := vh.GetVerdicts([]string{fixture.MockTraceId})
	require.Len(t, verdicts[fixture.MockTraceId], 1)

	// A later successful flush prunes it without double counting.
	store.putErr = nil
	require.NoError(t, vh.PushVerdicts())
	assert.Equal(t, 1, store.putCount)
	verdicts = vh.GetVerdicts([]string{fixture.MockTraceId})
	require.Len(t, verdicts[fixture.MockTraceId], 1)
}

func TestHandleExportPayloadConformant(t *testing.T) {
	vh := newTestHandler()
	body, err := proto.Marshal(transform.NewTracesData(fixture.MockResource(), fixture.MockSpan()))
	require.NoError(t, err)

	require.NoError(t, vh.HandleExportPayload(body))

	verdicts := vh.GetVerdicts([]string{fixture.MockTraceId})
	require.Len(t, verdicts[fixture.MockTraceId], 1)
	assert.True(t, verdicts[fixture.MockTraceId][0].Pass)
}

func TestHandleExportPayloadCountsDecodeErrors(t *testing.T) {
	vh := newTestHandler()
	before := testutil.ToFloat64(promMetrics.TotalExportRequestsError.WithLabelValues(podIp))

	require.Error(t, vh.HandleExportPayload([]byte("not a traces payload")))

	after := testutil.ToFloat64(promMetrics.TotalExportRequestsError.WithLabelValues(podIp))
	assert.Equal(t, before+1, after)
}

func TestResourceServiceName(t *testing.T) {
	traceData := transform.NewTracesData(fixture.MockResource(), fixture.MockSpan())
	assert.Equal(t, fixture.DefaultServiceName(), ResourceServiceName(traceData.ResourceSpans[0]))
	assert.Empty(t, ResourceServiceName(nil))
}
