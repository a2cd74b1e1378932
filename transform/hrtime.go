package transform

import (
	"github.com/zerok-ai/zk-otlp-verifier/model"
)

// HrTimeToNanos combines a seconds+nanos pair into a single unix nanosecond
// value. The combination runs through float64: exported timestamps are pinned
// to the rounded values SDK clocks produce, so integer math would shift them.
func HrTimeToNanos(t model.HrTime) uint64 {
	return uint64(float64(t.Seconds)*1e9 + float64(t.Nanos))
}
