package bridge

import (
	"testing"
	"unsafe"
)

func TestCandleLayout(t *testing.T) {
	if size := unsafe.Sizeof(Candle{}); size != CandleSize {
		t.Fatalf("Candle size = %d, want %d", size, CandleSize)
	}

	// Field offsets are part of the wire contract.
	var c Candle
	offsets := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"Time", unsafe.Offsetof(c.Time), 0},
		{"High", unsafe.Offsetof(c.High), 8},
		{"Low", unsafe.Offsetof(c.Low), 12},
		{"Open", unsafe.Offsetof(c.Open), 16},
		{"Close", unsafe.Offsetof(c.Close), 20},
		{"Val", unsafe.Offsetof(c.Val), 24},
		{"Vol", unsafe.Offsetof(c.Vol), 28},
	}
	for _, f := range offsets {
		if f.got != f.want {
			t.Errorf("offset of %s = %d, want %d", f.name, f.got, f.want)
		}
	}
}

func makeCandles(n int) []Candle {
	out := make([]Candle, n)
	for i := range out {
		out[i] = Candle{Time: float64(i), Open: float32(i), Close: float32(i) + 0.5}
	}
	return out
}

func TestRecordBufferTruncates(t *testing.T) {
	dst := make([]Candle, 8)
	buf := NewRecordBuffer(unsafe.Pointer(&dst[0]), 3)

	n := buf.Write(makeCandles(5))
	if n != 3 {
		t.Fatalf("Write returned %d, want 3", n)
	}
	for i := 0; i < 3; i++ {
		if dst[i].Time != float64(i) {
			t.Errorf("record %d: Time = %v, want %v", i, dst[i].Time, float64(i))
		}
	}
	// Nothing beyond the capacity may be touched.
	for i := 3; i < len(dst); i++ {
		if dst[i] != (Candle{}) {
			t.Errorf("record %d written past capacity: %+v", i, dst[i])
		}
	}
}

func TestRecordBufferShortSource(t *testing.T) {
	dst := make([]Candle, 8)
	buf := NewRecordBuffer(unsafe.Pointer(&dst[0]), 8)

	if n := buf.Write(makeCandles(2)); n != 2 {
		t.Fatalf("Write returned %d, want 2", n)
	}
	if dst[2] != (Candle{}) {
		t.Errorf("record 2 written past source length: %+v", dst[2])
	}
}

func TestRecordBufferZeroCapacity(t *testing.T) {
	dst := make([]Candle, 1)
	buf := NewRecordBuffer(unsafe.Pointer(&dst[0]), 0)
	if n := buf.Write(makeCandles(4)); n != 0 {
		t.Fatalf("Write with zero capacity returned %d, want 0", n)
	}
	if dst[0] != (Candle{}) {
		t.Errorf("zero-capacity buffer was written: %+v", dst[0])
	}
}

func TestRecordBufferNilDestination(t *testing.T) {
	buf := NewRecordBuffer(nil, 4)
	if n := buf.Write(makeCandles(4)); n != 0 {
		t.Fatalf("Write to nil destination returned %d, want 0", n)
	}
}

func TestWriteCString(t *testing.T) {
	dst := make([]byte, NameMax+1)
	for i := range dst {
		dst[i] = 0xFF
	}

	WriteCString(unsafe.Pointer(&dst[0]), "TR")

	if got := string(dst[:2]); got != "TR" {
		t.Errorf("copied bytes = %q, want %q", got, "TR")
	}
	if dst[2] != 0 {
		t.Errorf("missing zero terminator, got %#x", dst[2])
	}
	if dst[3] != 0xFF {
		t.Errorf("byte past terminator was touched: %#x", dst[3])
	}
}
