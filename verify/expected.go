package verify

// Expected wire identifiers of the mock span, as raw byte sequences.
var (
	expectedTraceId      = []byte{0x1f, 0x10, 0x08, 0xdc, 0x8e, 0x4e, 0x6e, 0x53, 0xe4, 0x73, 0x23, 0xc1, 0x01, 0xe8, 0x27, 0xbc}
	expectedSpanId       = []byte{0x5e, 0x10, 0x72, 0x61, 0xf6, 0x4f, 0xa5, 0x3e}
	expectedParentSpanId = []byte{0x78, 0xa8, 0x91, 0x50, 0x98, 0x86, 0x43, 0x88}
	expectedLinkSpanId   = []byte{0x78, 0xa8, 0x91, 0x50, 0x98, 0x86, 0x43, 0x88}
)

// Pinned nanosecond oracles. These carry the float64 rounding of the fixture
// clock values (429803070 ns lands on ...008); never recompute them with
// integer arithmetic.
const (
	ExpectedStartTimeUnixNano uint64 = 1574120165429803008
	ExpectedEndTimeUnixNano   uint64 = 1574120165438688000
	ExpectedEventTimeUnixNano uint64 = 1574120165429803008
)

const (
	expectedSpanName       = "documentFetch"
	expectedComponentKey   = "component"
	expectedComponentValue = "document-load"
)

var expectedEventNames = []string{
	"fetchStart",
	"domainLookupStart",
	"domainLookupEnd",
	"connectStart",
	"connectEnd",
	"requestStart",
	"responseStart",
	"responseEnd",
}
