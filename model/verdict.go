package model

// SpanVerdict is the stored outcome of checking one exported span against the
// canonical expectations.
type SpanVerdict struct {
	TraceId   string   `json:"trace_id"`
	SpanId    string   `json:"span_id"`
	SpanName  string   `json:"span_name"`
	Pass      bool     `json:"pass"`
	Failures  []string `json:"failures,omitempty"`
	CheckedNs uint64   `json:"checked_ns"`
}
