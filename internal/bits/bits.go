/*
 * rv32sim - Fixed-width bit-vector primitive
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package bits implements a fixed-width bit-vector used throughout the
// datapath to carry signal values between components. Widths up to 64 are
// supported; the ALU and wire bus never need more than 33.
package bits

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// ErrBitWidth is returned when a value does not fit in the requested width.
var ErrBitWidth = errors.New("bits: value does not fit in requested width")

// Bits is an ordered sequence of binary digits, bit 0 least significant,
// stored as a plain uint64 with an explicit width.
type Bits struct {
	val   uint64
	width int
}

// mask returns a mask with the low n bits set.
func mask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

// New constructs a Bits of the given width from an integer, checking that
// the value fits. Negative values are accepted only when signed is true.
func New(v int64, width int, signed bool) (Bits, error) {
	if width <= 0 || width > 64 {
		return Bits{}, fmt.Errorf("%w: width %d out of range", ErrBitWidth, width)
	}
	if signed {
		lo := -(int64(1) << (width - 1))
		hi := (int64(1) << (width - 1)) - 1
		if width == 64 {
			lo = math.MinInt64
			hi = math.MaxInt64
		}
		if v < lo || v > hi {
			return Bits{}, fmt.Errorf("%w: %d does not fit in signed %d bits", ErrBitWidth, v, width)
		}
	} else {
		if v < 0 {
			return Bits{}, fmt.Errorf("%w: %d is negative for unsigned width", ErrBitWidth, v)
		}
		if width < 64 && uint64(v) > mask(width) {
			return Bits{}, fmt.Errorf("%w: %d does not fit in unsigned %d bits", ErrBitWidth, v, width)
		}
	}
	return Bits{val: uint64(v) & mask(width), width: width}, nil
}

// FromUint builds a Bits directly from an already-masked unsigned value,
// truncating silently. Used internally where the width is load-bearing by
// construction (e.g. slicing results) rather than by caller intent.
func FromUint(v uint64, width int) Bits {
	return Bits{val: v & mask(width), width: width}
}

// Width returns the number of bits.
func (b Bits) Width() int { return b.width }

// Raw returns the underlying unsigned value, masked to width.
func (b Bits) Raw() uint64 { return b.val }

// Bit returns the value (0 or 1) of bit i, 0 being least significant.
func (b Bits) Bit(i int) uint8 {
	if i < 0 || i >= b.width {
		panic(fmt.Sprintf("bits: bit index %d out of range for width %d", i, b.width))
	}
	return uint8((b.val >> i) & 1)
}

// Slice returns the contiguous subrange [lo, hi) (half-open, LSB-first,
// lo inclusive, hi exclusive), preserving LSB-first order in the result.
func (b Bits) Slice(lo, hi int) Bits {
	if lo < 0 || hi > b.width || lo >= hi {
		panic(fmt.Sprintf("bits: invalid slice [%d:%d) of width %d", lo, hi, b.width))
	}
	w := hi - lo
	return Bits{val: (b.val >> lo) & mask(w), width: w}
}

// Concat joins bit-vectors from most-significant to least-significant,
// i.e. Concat(a, b) places a in the high bits and b in the low bits.
func Concat(parts ...Bits) Bits {
	total := 0
	for _, p := range parts {
		total += p.width
	}
	if total > 64 {
		panic(fmt.Sprintf("bits: concatenation width %d exceeds 64", total))
	}
	var v uint64
	shift := total
	for _, p := range parts {
		shift -= p.width
		v |= (p.val & mask(p.width)) << shift
	}
	return Bits{val: v, width: total}
}

// SignExtend extends b to width bits, replicating its current top bit.
func (b Bits) SignExtend(width int) Bits {
	if width < b.width {
		panic("bits: SignExtend to narrower width")
	}
	if b.Bit(b.width-1) == 1 {
		ext := mask(width) ^ mask(b.width)
		return Bits{val: (b.val | ext) & mask(width), width: width}
	}
	return Bits{val: b.val & mask(width), width: width}
}

// ZeroExtend extends b to width bits with zeros in the new high bits.
func (b Bits) ZeroExtend(width int) Bits {
	if width < b.width {
		panic("bits: ZeroExtend to narrower width")
	}
	return Bits{val: b.val & mask(width), width: width}
}

// ToInt interprets the vector as signed or unsigned and returns an
// arbitrary-precision integer (a plain int64 suffices for widths <= 64,
// but we return *big.Int to keep faith with the spec's "arbitrary
// precision" wording at the conversion boundary).
func (b Bits) ToInt(signed bool) *big.Int {
	if !signed || b.Bit(b.width-1) == 0 {
		return new(big.Int).SetUint64(b.val)
	}
	// Negative: val - 2^width.
	full := new(big.Int).SetUint64(b.val)
	span := new(big.Int).Lsh(big.NewInt(1), uint(b.width))
	return full.Sub(full, span)
}

// ToInt64 is the common-case, non-allocating form of ToInt for widths <= 64.
func (b Bits) ToInt64(signed bool) int64 {
	if !signed || b.Bit(b.width-1) == 0 {
		return int64(b.val)
	}
	return int64(b.val) - (int64(1) << b.width)
}

// String renders the vector MSB-first as a string of '0'/'1' characters.
func (b Bits) String() string {
	out := make([]byte, b.width)
	for i := 0; i < b.width; i++ {
		if b.Bit(b.width-1-i) == 1 {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}
