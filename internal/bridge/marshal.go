package bridge

import "unsafe"

// NameMax is the conventional size of the host's plugin-name buffer, excluding
// the terminating zero byte. The host allocates this much; WriteCString has no
// way to verify it.
const NameMax = 31

// RecordBuffer wraps a host-owned destination for candle records. The host
// hands the plugin a raw pointer and a capacity; every write through the
// buffer is bounded by that capacity.
type RecordBuffer struct {
	ptr      unsafe.Pointer
	capacity int
}

// NewRecordBuffer builds a RecordBuffer over host memory with room for
// capacity Candle records.
func NewRecordBuffer(ptr unsafe.Pointer, capacity int) RecordBuffer {
	if capacity < 0 {
		capacity = 0
	}
	return RecordBuffer{ptr: ptr, capacity: capacity}
}

// Cap returns the record capacity of the buffer.
func (b RecordBuffer) Cap() int {
	return b.capacity
}

// Write copies at most the buffer's capacity of records into host memory in a
// single block copy and returns the count actually written. A nil destination
// or zero capacity writes nothing.
func (b RecordBuffer) Write(records []Candle) int {
	n := len(records)
	if n > b.capacity {
		n = b.capacity
	}
	if n == 0 || b.ptr == nil {
		return 0
	}
	dst := unsafe.Slice((*Candle)(b.ptr), n)
	copy(dst, records[:n])
	return n
}

// WriteCString copies s into dst followed by a terminating zero byte. Unlike
// RecordBuffer.Write there is no capacity check: the host guarantees room for
// NameMax bytes plus the terminator, and this call never learns the real
// capacity. Callers must not pass strings longer than NameMax. This asymmetry
// is a known boundary risk inherited from the host contract.
func WriteCString(dst unsafe.Pointer, s string) {
	if dst == nil {
		return
	}
	buf := unsafe.Slice((*byte)(dst), len(s)+1)
	copy(buf, s)
	buf[len(s)] = 0
}
