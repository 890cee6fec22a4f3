package bridge

import (
	"math"
	"time"
)

// referenceEpoch is the host's date origin, 1899-12-30T00:00:00Z. Dates cross
// the boundary as a float64: whole part days since this instant, fractional
// part time of day.
var referenceEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const secondsPerDay = 24 * 60 * 60

// ToDayCount converts an absolute time to the host's day-count encoding.
// Sub-second precision is discarded; the host protocol is second-granular.
func ToDayCount(t time.Time) float64 {
	return float64(t.Unix()-referenceEpoch.Unix()) / secondsPerDay
}

// FromDayCount converts a host day-count date back to an absolute UTC time,
// rounded to the nearest whole second. For any whole-second time t,
// FromDayCount(ToDayCount(t)) reproduces t exactly.
func FromDayCount(days float64) time.Time {
	secs := int64(math.Round(days * secondsPerDay))
	return referenceEpoch.Add(time.Duration(secs) * time.Second)
}
