package verify

import (
	"bytes"
	"fmt"

	commonv1 "go.opentelemetry.io/proto/otlp/common/v1"
	resourcev1 "go.opentelemetry.io/proto/otlp/resource/v1"
	tracev1 "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/zerok-ai/zk-otlp-verifier/common"
	"github.com/zerok-ai/zk-otlp-verifier/fixture"
)

// CheckExportedEvents checks the exported event list of the mock span: exact
// count, order, names, pinned per-event timestamps, no attributes and a zero
// dropped count on every entry.
func CheckExportedEvents(events []*tracev1.Span_Event) error {
	if len(events) != len(expectedEventNames) {
		return fmt.Errorf("events count is wrong, got %d want %d", len(events), len(expectedEventNames))
	}
	for i, event := range events {
		if event.Name != expectedEventNames[i] {
			return fmt.Errorf("event %d name is wrong, got %q want %q", i, event.Name, expectedEventNames[i])
		}
		if event.TimeUnixNano != ExpectedEventTimeUnixNano {
			return fmt.Errorf("event %d timeUnixNano is wrong, got %d want %d", i, event.TimeUnixNano, ExpectedEventTimeUnixNano)
		}
		if len(event.Attributes) != 0 {
			return fmt.Errorf("event %d attributes are wrong, expected none", i)
		}
		if event.DroppedAttributesCount != 0 {
			return fmt.Errorf("event %d droppedAttributesCount is wrong", i)
		}
	}
	return nil
}

// CheckExportedAttributes checks the exported attribute list of the mock
// span: a single string-tagged component entry.
func CheckExportedAttributes(attributes []*commonv1.KeyValue) error {
	if len(attributes) != 1 {
		return fmt.Errorf("attributes count is wrong, got %d want 1", len(attributes))
	}
	return checkComponentAttribute(attributes[0])
}

// CheckExportedLinks checks the exported link list of the mock span: a single
// link back to the parent with the component attribute, empty trace state and
// a zero dropped count.
func CheckExportedLinks(links []*tracev1.Span_Link) error {
	if len(links) != 1 {
		return fmt.Errorf("links count is wrong, got %d want 1", len(links))
	}
	link := links[0]
	if err := CheckExportedAttributes(link.Attributes); err != nil {
		return fmt.Errorf("link attributes are wrong: %w", err)
	}
	if !bytes.Equal(link.TraceId, expectedTraceId) {
		return fmt.Errorf("link traceId is wrong")
	}
	if !bytes.Equal(link.SpanId, expectedLinkSpanId) {
		return fmt.Errorf("link spanId is wrong")
	}
	if link.TraceState != "" {
		return fmt.Errorf("link traceState is wrong")
	}
	if link.DroppedAttributesCount != 0 {
		return fmt.Errorf("link droppedAttributesCount is wrong")
	}
	return nil
}

// CheckExportedSpan checks one exported span against the canonical mock span.
// Sub-lists are checked when present, then the span fields themselves.
func CheckExportedSpan(span *tracev1.Span) error {
	if span == nil {
		return fmt.Errorf("span is missing")
	}
	if span.Attributes != nil {
		if err := CheckExportedAttributes(span.Attributes); err != nil {
			return err
		}
	}
	if span.Events != nil {
		if err := CheckExportedEvents(span.Events); err != nil {
			return err
		}
	}
	if span.Links != nil {
		if err := CheckExportedLinks(span.Links); err != nil {
			return err
		}
	}
	if !bytes.Equal(span.TraceId, expectedTraceId) {
		return fmt.Errorf("traceId is wrong")
	}
	if !bytes.Equal(span.SpanId, expectedSpanId) {
		return fmt.Errorf("spanId is wrong")
	}
	if span.TraceState != "" {
		return fmt.Errorf("traceState is wrong")
	}
	if !bytes.Equal(span.ParentSpanId, expectedParentSpanId) {
		return fmt.Errorf("parentSpanId is wrong")
	}
	if span.Name != expectedSpanName {
		return fmt.Errorf("name is wrong")
	}
	if span.Kind != tracev1.Span_SPAN_KIND_INTERNAL {
		return fmt.Errorf("kind is wrong")
	}
	if span.StartTimeUnixNano != ExpectedStartTimeUnixNano {
		return fmt.Errorf("startTimeUnixNano is wrong, got %d want %d", span.StartTimeUnixNano, ExpectedStartTimeUnixNano)
	}
	if span.EndTimeUnixNano != ExpectedEndTimeUnixNano {
		return fmt.Errorf("endTimeUnixNano is wrong, got %d want %d", span.EndTimeUnixNano, ExpectedEndTimeUnixNano)
	}
	if span.DroppedAttributesCount != 0 {
		return fmt.Errorf("droppedAttributesCount is wrong")
	}
	if span.DroppedEventsCount != 0 {
		return fmt.Errorf("droppedEventsCount is wrong")
	}
	if span.DroppedLinksCount != 0 {
		return fmt.Errorf("droppedLinksCount is wrong")
	}
	if span.Status == nil || span.Status.Code != tracev1.Status_STATUS_CODE_OK || span.Status.Message != "" {
		return fmt.Errorf("status is wrong")
	}
	return nil
}

// CheckExportedResource checks the exported resource: an exact, order
// sensitive attribute list of the four SDK identity entries followed by the
// three user entries, and a zero dropped count.
func CheckExportedResource(resource *resourcev1.Resource) error {
	if resource == nil {
		return fmt.Errorf("resource is missing")
	}
	expected := []struct {
		key   string
		value *commonv1.AnyValue
	}{
		{common.OTelResourceServiceName, stringValue(fixture.DefaultServiceName())},
		{common.ResourceLanguageKey, stringValue(common.TelemetrySdkLanguage)},
		{common.ResourceSdkNameKey, stringValue(common.TelemetrySdkName)},
		{common.ResourceSdkVersionKey, stringValue(common.TelemetrySdkVersion)},
		{"service", stringValue("ui")},
		{"version", intValue(1)},
		{"cost", doubleValue(112.12)},
	}
	if len(resource.Attributes) != len(expected) {
		return fmt.Errorf("resource attributes count is wrong, got %d want %d", len(resource.Attributes), len(expected))
	}
	for i, want := range expected {
		got := resource.Attributes[i]
		if got.Key != want.key {
			return fmt.Errorf("resource attribute %d key is wrong, got %q want %q", i, got.Key, want.key)
		}
		if err := checkAnyValue(got.Value, want.value); err != nil {
			return fmt.Errorf("resource attribute %q is wrong: %w", want.key, err)
		}
	}
	if resource.DroppedAttributesCount != 0 {
		return fmt.Errorf("resource droppedAttributesCount is wrong")
	}
	return nil
}

func checkComponentAttribute(attribute *commonv1.KeyValue) error {
	if attribute.Key != expectedComponentKey {
		return fmt.Errorf("attribute key is wrong, got %q want %q", attribute.Key, expectedComponentKey)
	}
	return checkAnyValue(attribute.Value, stringValue(expectedComponentValue))
}

func checkAnyValue(got, want *commonv1.AnyValue) error {
	if got == nil {
		return fmt.Errorf("value is missing")
	}
	switch wantValue := want.Value.(type) {
	case *commonv1.AnyValue_StringValue:
		gotValue, ok := got.Value.(*commonv1.AnyValue_StringValue)
		if !ok {
			return fmt.Errorf("value is not string tagged")
		}
		if gotValue.StringValue != wantValue.StringValue {
			return fmt.Errorf("value is wrong, got %q want %q", gotValue.StringValue, wantValue.StringValue)
		}
	case *commonv1.AnyValue_IntValue:
		gotValue, ok := got.Value.(*commonv1.AnyValue_IntValue)
		if !ok {
			return fmt.Errorf("value is not int tagged")
		}
		if gotValue.IntValue != wantValue.IntValue {
			return fmt.Errorf("value is wrong, got %d want %d", gotValue.IntValue, wantValue.IntValue)
		}
	case *commonv1.AnyValue_DoubleValue:
		gotValue, ok := got.Value.(*commonv1.AnyValue_DoubleValue)
		if !ok {
			return fmt.Errorf("value is not double tagged")
		}
		if gotValue.DoubleValue != wantValue.DoubleValue {
			return fmt.Errorf("value is wrong, got %v want %v", gotValue.DoubleValue, wantValue.DoubleValue)
		}
	default:
		return fmt.Errorf("unsupported expected value kind")
	}
	return nil
}

func stringValue(v string) *commonv1.AnyValue {
	return &commonv1.AnyValue{Value: &commonv1.AnyValue_StringValue{StringValue: v}}
}

func intValue(v int64) *commonv1.AnyValue {
	return &commonv1.AnyValue{Value: &commonv1.AnyValue_IntValue{IntValue: v}}
}

func doubleValue(v float64) *commonv1.AnyValue {
	return &commonv1.AnyValue{Value: &commonv1.AnyValue_DoubleValue{DoubleValue: v}}
}
