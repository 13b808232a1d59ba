// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

// Tick is one count of the monotonic clock. Width is 32 bits, matching an
// RTC-derived tick source (typically a 32768 Hz crystal).
type Tick uint32

// Duration is the signed difference of two Ticks.
type Duration int32

// ClockFunc returns the current tick count. It must be monotonically
// non-decreasing (modulo wraparound) and must never be invoked from an ISR.
//
// ClockFunc is pluggable: production code binds it to the platform RTC,
// tests bind it to a value that advances deterministically under the
// caller's control (see [Scheduler.SetClockSource]).
type ClockFunc func() Tick

// Offset returns t advanced by d, wrapping per the width of Tick.
func Offset(t Tick, d Duration) Tick {
	return Tick(int32(t) + int32(d))
}

// Difference returns the signed duration from t2 to t1, i.e. t1 - t2
// interpreted as a wrap-safe signed difference.
func Difference(t1, t2 Tick) Duration {
	return Duration(int32(t1) - int32(t2))
}

// Precedes reports whether t1 is strictly before t2, using the sign of the
// wrap-safe difference rather than raw unsigned comparison — so ordering
// stays correct for tasks whose due times straddle a tick-width rollover.
func Precedes(t1, t2 Tick) bool {
	return Difference(t1, t2) < 0
}

// Follows reports whether t1 is strictly after t2.
func Follows(t1, t2 Tick) bool {
	return Difference(t1, t2) > 0
}

// Equals reports whether t1 and t2 denote the same tick.
func Equals(t1, t2 Tick) bool {
	return t1 == t2
}

// MsToTicks converts a millisecond duration to ticks at the given RTC rate
// (in Hz). Truncates toward zero.
func MsToTicks(rateHz uint32, ms int64) Duration {
	return Duration((ms * int64(rateHz)) / 1000)
}

// TicksToMs converts a tick-width duration to milliseconds at the given RTC
// rate (in Hz). Truncates toward zero.
func TicksToMs(rateHz uint32, d Duration) int64 {
	return (int64(d) * 1000) / int64(rateHz)
}

// SecondsToTicks converts a floating-point seconds duration to ticks at the
// given RTC rate. It is the "Float support" config option of the embedding
// application's build — present here unconditionally, but only called where
// the application has floating-point conversions enabled.
func SecondsToTicks(rateHz uint32, s float64) Duration {
	return Duration(s * float64(rateHz))
}

// TicksToSeconds converts a tick-width duration to floating-point seconds at
// the given RTC rate.
func TicksToSeconds(rateHz uint32, d Duration) float64 {
	return float64(d) / float64(rateHz)
}
