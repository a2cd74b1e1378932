package transform

import (
	"encoding/hex"
	"sort"

	logger "github.com/zerok-ai/zk-utils-go/logs"
	commonv1 "go.opentelemetry.io/proto/otlp/common/v1"
	resourcev1 "go.opentelemetry.io/proto/otlp/resource/v1"
	tracev1 "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/zerok-ai/zk-otlp-verifier/model"
)

var transformLogTag = "transform"

// SpanToOtlp encodes a span record into its OTLP wire form.
func SpanToOtlp(span model.SpanRecord) *tracev1.Span {
	otlpSpan := &tracev1.Span{
		TraceId:           decodeId(span.TraceId),
		SpanId:            decodeId(span.SpanId),
		ParentSpanId:      decodeId(span.ParentSpanId),
		TraceState:        span.TraceState,
		Name:              span.Name,
		Kind:              span.SpanKind.OtlpKind(),
		StartTimeUnixNano: HrTimeToNanos(span.StartTime),
		EndTimeUnixNano:   HrTimeToNanos(span.EndTime),
		Attributes:        ConvertMapToKVList(span.Attributes),
		Status:            statusToOtlp(span.Status),
	}

	for _, event := range span.Events {
		otlpSpan.Events = append(otlpSpan.Events, &tracev1.Span_Event{
			TimeUnixNano: HrTimeToNanos(event.Time),
			Name:         event.Name,
			Attributes:   ConvertMapToKVList(event.Attributes),
		})
	}

	for _, link := range span.Links {
		otlpSpan.Links = append(otlpSpan.Links, &tracev1.Span_Link{
			TraceId:    decodeId(link.TraceId),
			SpanId:     decodeId(link.SpanId),
			TraceState: link.TraceState,
			Attributes: ConvertMapToKVList(link.Attributes),
		})
	}

	return otlpSpan
}

// ResourceToOtlp encodes a resource record, preserving attribute order.
func ResourceToOtlp(resource model.ResourceRecord) *resourcev1.Resource {
	otlpResource := &resourcev1.Resource{}
	for _, attr := range resource.Attributes {
		otlpResource.Attributes = append(otlpResource.Attributes, &commonv1.KeyValue{
			Key:   attr.Key,
			Value: ConvertToAnyValue(attr.Value),
		})
	}
	return otlpResource
}

// NewTracesData wraps spans and their resource into an export payload.
func NewTracesData(resource model.ResourceRecord, spans ...model.SpanRecord) *tracev1.TracesData {
	scopeSpans := &tracev1.ScopeSpans{}
	for _, span := range spans {
		scopeSpans.Spans = append(scopeSpans.Spans, SpanToOtlp(span))
	}
	return &tracev1.TracesData{
		ResourceSpans: []*tracev1.ResourceSpans{
			{
				Resource:   ResourceToOtlp(resource),
				ScopeSpans: []*tracev1.ScopeSpans{scopeSpans},
			},
		},
	}
}

// ConvertMapToKVList converts an attribute map into a typed KeyValue list,
// keys in lexical order.
func ConvertMapToKVList(attrMap map[string]interface{}) []*commonv1.KeyValue {
	kvList := make([]*commonv1.KeyValue, 0, len(attrMap))
	keys := make([]string, 0, len(attrMap))
	for key := range attrMap {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		kvList = append(kvList, &commonv1.KeyValue{
			Key:   key,
			Value: ConvertToAnyValue(attrMap[key]),
		})
	}
	return kvList
}

// ConvertKVListToMap is the inverse of ConvertMapToKVList for the scalar
// value kinds the harness deals in.
func ConvertKVListToMap(kvList []*commonv1.KeyValue) map[string]interface{} {
	attrMap := map[string]interface{}{}
	for _, kv := range kvList {
		if kv == nil {
			continue
		}
		switch value := kv.Value.GetValue().(type) {
		case *commonv1.AnyValue_StringValue:
			attrMap[kv.Key] = value.StringValue
		case *commonv1.AnyValue_IntValue:
			attrMap[kv.Key] = value.IntValue
		case *commonv1.AnyValue_DoubleValue:
			attrMap[kv.Key] = value.DoubleValue
		case *commonv1.AnyValue_BoolValue:
			attrMap[kv.Key] = value.BoolValue
		default:
			logger.Debug(transformLogTag, "Skipping attribute with unsupported value kind ", kv.Key)
		}
	}
	return attrMap
}

// ConvertToAnyValue tags a scalar with its OTLP value kind.
func ConvertToAnyValue(value interface{}) *commonv1.AnyValue {
	switch v := value.(type) {
	case string:
		return &commonv1.AnyValue{Value: &commonv1.AnyValue_StringValue{StringValue: v}}
	case int:
		return &commonv1.AnyValue{Value: &commonv1.AnyValue_IntValue{IntValue: int64(v)}}
	case int64:
		return &commonv1.AnyValue{Value: &commonv1.AnyValue_IntValue{IntValue: v}}
	case float64:
		return &commonv1.AnyValue{Value: &commonv1.AnyValue_DoubleValue{DoubleValue: v}}
	case bool:
		return &commonv1.AnyValue{Value: &commonv1.AnyValue_BoolValue{BoolValue: v}}
	default:
		logger.Warn(transformLogTag, "Unsupported attribute value kind, emitting empty value")
		return &commonv1.AnyValue{}
	}
}

func statusToOtlp(status model.SpanStatus) *tracev1.Status {
	otlpStatus := &tracev1.Status{Message: status.Message}
	switch status.Code {
	case model.StatusCodeOk:
		otlpStatus.Code = tracev1.Status_STATUS_CODE_OK
	case model.StatusCodeError:
		otlpStatus.Code = tracev1.Status_STATUS_CODE_ERROR
	default:
		otlpStatus.Code = tracev1.Status_STATUS_CODE_UNSET
	}
	return otlpStatus
}

func decodeId(id string) []byte {
	decoded, err := hex.DecodeString(id)
	if err != nil {
		logger.Error(transformLogTag, "Invalid hex identifier ", id, " error ", err)
		return nil
	}
	return decoded
}
