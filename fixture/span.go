package fixture

import (
	"os"
	"path/filepath"

	"github.com/zerok-ai/zk-otlp-verifier/common"
	"github.com/zerok-ai/zk-otlp-verifier/model"
)

// Canonical identifiers of the mock span. Exported so verifiers and tests can
// reference the same values the fixture carries.
const (
	MockTraceId      = "1f1008dc8e4e6e53e47323c101e827bc"
	MockSpanId       = "5e107261f64fa53e"
	MockParentSpanId = "78a8915098864388"

	MockSpanName = "documentFetch"
)

// MockEventNames is the event sequence of the mock span, in emission order.
var MockEventNames = []string{
	"fetchStart",
	"domainLookupStart",
	"domainLookupEnd",
	"connectStart",
	"connectEnd",
	"requestStart",
	"responseStart",
	"responseEnd",
}

var (
	mockStartTime = model.HrTime{Seconds: 1574120165, Nanos: 429803070}
	mockEndTime   = model.HrTime{Seconds: 1574120165, Nanos: 438688070}
	mockEventTime = model.HrTime{Seconds: 1574120165, Nanos: 429803070}
)

// MockSpan returns the canonical fully populated span record fed to exporters
// under test. Every call returns a fresh, value-identical record.
func MockSpan() model.SpanRecord {
	events := make([]model.SpanEvent, 0, len(MockEventNames))
	for _, name := range MockEventNames {
		events = append(events, model.SpanEvent{
			Name:       name,
			Time:       mockEventTime,
			Attributes: map[string]interface{}{},
		})
	}

	return model.SpanRecord{
		TraceId:      MockTraceId,
		SpanId:       MockSpanId,
		ParentSpanId: MockParentSpanId,
		TraceState:   "",
		Name:         MockSpanName,
		SpanKind:     model.SpanKindInternal,
		StartTime:    mockStartTime,
		EndTime:      mockEndTime,
		Attributes: map[string]interface{}{
			"component": "document-load",
		},
		Events: events,
		Links: []model.SpanLink{
			{
				TraceId:    MockTraceId,
				SpanId:     MockParentSpanId,
				TraceState: "",
				Attributes: map[string]interface{}{
					"component": "document-load",
				},
			},
		},
		Status: model.SpanStatus{Code: model.StatusCodeOk, Message: ""},
	}
}

// MockResource returns the merged resource of the reporting entity: SDK
// identity attributes followed by the user-supplied service attributes.
func MockResource() model.ResourceRecord {
	return model.ResourceRecord{
		Attributes: []model.ResourceAttribute{
			{Key: common.OTelResourceServiceName, Value: DefaultServiceName()},
			{Key: common.ResourceLanguageKey, Value: common.TelemetrySdkLanguage},
			{Key: common.ResourceSdkNameKey, Value: common.TelemetrySdkName},
			{Key: common.ResourceSdkVersionKey, Value: common.TelemetrySdkVersion},
			{Key: "service", Value: "ui"},
			{Key: "version", Value: int64(1)},
			{Key: "cost", Value: 112.12},
		},
	}
}

// DefaultServiceName derives the fallback service.name from the running
// process, the same way an SDK does when no name was configured.
func DefaultServiceName() string {
	return common.UnknownServicePrefix + filepath.Base(os.Args[0])
}
