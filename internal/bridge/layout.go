// Package bridge implements the binary boundary with the trading host: the
// fixed-layout candle record, the host's day-count date encoding, and bounded
// copies into host-owned memory.
package bridge

import "unsafe"

// Candle is one history bar in the host's wire layout. Field order and widths
// are a binary contract with the host; do not reorder or resize fields.
type Candle struct {
	Time  float64 // day-count date of the bar
	High  float32
	Low   float32
	Open  float32
	Close float32
	Val   float32 // reserved by the host protocol, always zero
	Vol   float32
}

// CandleSize is the wire size of one Candle record: a float64 followed by six
// float32 fields. The float64 leads the struct, so Go inserts no padding and
// the in-memory layout matches the wire layout byte for byte.
const CandleSize = 32

var _ [CandleSize]byte = [unsafe.Sizeof(Candle{})]byte{}
