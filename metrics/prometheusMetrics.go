package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalExportRequests is the total number of export calls received from exporters under test.
	TotalExportRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zerok_otlp_verifier_export_requests_total",
		Help: "Total export calls received from exporters under test.",
	},
		[]string{"podIp"})

	// TotalExportRequestsError is the total number of export calls that could not be decoded.
	TotalExportRequestsError = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zerok_otlp_verifier_export_requests_error",
		Help: "Total export calls that could not be decoded.",
	},
		[]string{"podIp"})

	// TotalSpansReceived is the total number of spans seen across export calls.
	TotalSpansReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zerok_otlp_verifier_spans_received_total",
		Help: "Total spans seen across export calls.",
	},
		[]string{"podIp"})

	// TotalSpansVerified is the total number of spans checked against the canonical expectations.
	TotalSpansVerified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zerok_otlp_verifier_spans_verified_total",
		Help: "Total spans checked against the canonical expectations.",
	},
		[]string{"podIp"})

	// TotalSpansFailed is the total number of spans that diverged from the expectations.
	TotalSpansFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zerok_otlp_verifier_spans_failed_total",
		Help: "Total spans that diverged from the expectations.",
	},
		[]string{"podIp"})

	// TotalSpansSkipped is the total number of spans outside the verifiable name list.
	TotalSpansSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zerok_otlp_verifier_spans_skipped_total",
		Help: "Total spans outside the verifiable name list.",
	},
		[]string{"podIp"})

	// TotalMetadataMismatches is the total number of grpc export calls with unexpected metadata.
	TotalMetadataMismatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zerok_otlp_verifier_metadata_mismatch_total",
		Help: "Total grpc export calls with unexpected metadata.",
	},
		[]string{"podIp"})

	// TotalVerdictFetchRequests is the total number of verdict fetch calls.
	TotalVerdictFetchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zerok_otlp_verifier_verdict_fetch_requests_total",
		Help: "Total verdict fetch calls.",
	},
		[]string{"podIp"})
)
