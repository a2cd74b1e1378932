package model

// HrTime is the high-resolution clock representation an exporter consumes:
// a unix-epoch seconds value plus a nanoseconds remainder.
type HrTime struct {
	Seconds uint64 `json:"seconds"`
	Nanos   uint64 `json:"nanos"`
}

// SpanRecord is the in-memory form of a finished span, before any wire
// encoding. Identifiers are lowercase hex strings (32 chars for trace ids,
// 16 for span ids).
type SpanRecord struct {
	TraceId      string                 `json:"trace_id"`
	SpanId       string                 `json:"span_id"`
	ParentSpanId string                 `json:"parent_span_id"`
	TraceState   string                 `json:"trace_state"`
	Name         string                 `json:"name"`
	SpanKind     SpanKind               `json:"span_kind"`
	StartTime    HrTime                 `json:"start_time"`
	EndTime      HrTime                 `json:"end_time"`
	Attributes   map[string]interface{} `json:"attributes"`
	Events       []SpanEvent            `json:"events"`
	Links        []SpanLink             `json:"links"`
	Status       SpanStatus             `json:"status"`
}

type SpanEvent struct {
	Name       string                 `json:"name"`
	Time       HrTime                 `json:"time"`
	Attributes map[string]interface{} `json:"attributes"`
}

type SpanLink struct {
	TraceId    string                 `json:"trace_id"`
	SpanId     string                 `json:"span_id"`
	TraceState string                 `json:"trace_state"`
	Attributes map[string]interface{} `json:"attributes"`
}

type StatusCode string

const (
	StatusCodeUnset StatusCode = "UNSET"
	StatusCodeOk    StatusCode = "OK"
	StatusCodeError StatusCode = "ERROR"
)

type SpanStatus struct {
	Code    StatusCode `json:"code"`
	Message string     `json:"message"`
}
