package common

const (
	//Resource attribute keys, in the order a conformant exporter emits them.
	OTelResourceServiceName = "service.name"
	ResourceLanguageKey     = "telemetry.sdk.language"
	ResourceSdkNameKey      = "telemetry.sdk.name"
	ResourceSdkVersionKey   = "telemetry.sdk.version"

	//SDK identity values reported by the harness fixture.
	TelemetrySdkLanguage = "go"
	TelemetrySdkName     = "opentelemetry"
	TelemetrySdkVersion  = "1.0.1"

	//Default service.name prefix when the exporting process never set one.
	UnknownServicePrefix = "unknown_service:"

	//Metadata header excluded from comparison. Its value depends on the
	//transport build, not on the exporter under test.
	UserAgentHeaderKey = "user-agent"
)
