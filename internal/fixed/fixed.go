// Package fixed collects the integer arithmetic shared by the decoding
// pipeline: saturating multiplies, shifts and clips, guard-bit accounting,
// and a few iterative approximations.
//
// Values are plain int32 with an implied binary point chosen by the caller.
// Q31 means 31 fractional bits (range [-1, 1)), Q30 range [-2, 2), and so on.
package fixed

import (
	"math"
	"math/bits"
)

// One is 1.0 in Q31 rounded down to the largest representable value.
const One = 0x7fffffff

// MulShift32 returns the high 32 bits of the 64-bit product a*b.
// With b in Q31 this computes a*b/2.
func MulShift32(a, b int32) int32 {
	return int32((int64(a) * int64(b)) >> 32)
}

// MulQ31 multiplies a by a Q31 value without losing the extra bit.
func MulQ31(a, b int32) int32 {
	return int32((int64(a) * int64(b)) >> 31)
}

// MulShift returns (a*b) >> shift computed in 64 bits, saturated to int32.
func MulShift(a, b int32, shift uint) int32 {
	return Sat64((int64(a) * int64(b)) >> shift)
}

// Sat64 saturates a 64-bit value to the int32 range.
func Sat64(v int64) int32 {
	if v > 0x7fffffff {
		return 0x7fffffff
	}
	if v < -0x80000000 {
		return -0x80000000
	}
	return int32(v)
}

// Clip2N saturates v to [-2^n, 2^n - 1].
func Clip2N(v int32, n uint) int32 {
	hi := int32(1)<<n - 1
	lo := -(int32(1) << n)
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}

// ClipToInt16 saturates v to the 16-bit PCM range.
func ClipToInt16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// Abs returns |v|, mapping math.MinInt32 to math.MaxInt32.
func Abs(v int32) int32 {
	if v < 0 {
		if v == -0x80000000 {
			return 0x7fffffff
		}
		return -v
	}
	return v
}

// CLZ counts leading zero bits of v treated as unsigned.
func CLZ(v uint32) int {
	return bits.LeadingZeros32(v)
}

// GuardBits returns the headroom implied by an OR-mask of magnitudes:
// the number of redundant sign bits every contributing value has.
// A zero mask yields 31.
func GuardBits(mask uint32) int {
	if mask == 0 {
		return 31
	}
	return CLZ(mask) - 1
}

// CountGuardBits returns the guard bits of the data in buf.
func CountGuardBits(buf []int32) int {
	var mask uint32
	for _, v := range buf {
		mask |= uint32(Abs(v))
	}
	return GuardBits(mask)
}

// ShiftLeftSat shifts v left by n with saturation.
func ShiftLeftSat(v int32, n uint) int32 {
	if n == 0 {
		return v
	}
	if n >= 31 {
		if v > 0 {
			return 0x7fffffff
		}
		if v < 0 {
			return -0x80000000
		}
		return 0
	}
	switch {
	case v > math.MaxInt32>>n:
		return math.MaxInt32
	case v < math.MinInt32>>n:
		return math.MinInt32
	}
	return v << n
}

// RoundShift returns v >> n rounded to nearest. n may be zero.
func RoundShift(v int32, n uint) int32 {
	if n == 0 {
		return v
	}
	return int32((int64(v) + int64(1)<<(n-1)) >> n)
}

// Shift scales v by 2^s: left with saturation for s > 0, right with
// rounding for s < 0.
func Shift(v int32, s int) int32 {
	switch {
	case s > 0:
		return ShiftLeftSat(v, uint(s))
	case s < 0:
		if s <= -32 {
			return 0
		}
		return RoundShift(v, uint(-s))
	}
	return v
}
