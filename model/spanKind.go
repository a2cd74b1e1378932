package model

import (
	tracev1 "go.opentelemetry.io/proto/otlp/trace/v1"
)

// SpanKind represents the type of span.
type SpanKind string

const (
	// SpanKindInternal Default value. Indicates that the span is used internally.
	SpanKindInternal SpanKind = "INTERNAL"

	// SpanKindServer Indicates that the span covers server-side handling of an RPC or other remote request.
	SpanKindServer SpanKind = "SERVER"

	// SpanKindClient Indicates that the span covers the client-side wrapper around an RPC or other remote request.
	SpanKindClient SpanKind = "CLIENT"

	// SpanKindProducer Indicates that the span describes a producer sending a message to a broker.
	SpanKindProducer SpanKind = "PRODUCER"

	// SpanKindConsumer Indicates that the span describes a consumer receiving a message from a broker.
	SpanKindConsumer SpanKind = "CONSUMER"
)

var kindToOtlp = map[SpanKind]tracev1.Span_SpanKind{
	SpanKindInternal: tracev1.Span_SPAN_KIND_INTERNAL,
	SpanKindServer:   tracev1.Span_SPAN_KIND_SERVER,
	SpanKindClient:   tracev1.Span_SPAN_KIND_CLIENT,
	SpanKindProducer: tracev1.Span_SPAN_KIND_PRODUCER,
	SpanKindConsumer: tracev1.Span_SPAN_KIND_CONSUMER,
}

// OtlpKind returns the wire enum for the kind, SPAN_KIND_UNSPECIFIED when unknown.
func (k SpanKind) OtlpKind() tracev1.Span_SpanKind {
	if wireKind, ok := kindToOtlp[k]; ok {
		return wireKind
	}
	return tracev1.Span_SPAN_KIND_UNSPECIFIED
}
