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

package bits

import (
	"errors"
	"testing"
)

func TestNewRange(t *testing.T) {
	tests := []struct {
		name    string
		v       int64
		width   int
		signed  bool
		wantErr bool
	}{
		{"unsigned fits", 15, 4, false, false},
		{"unsigned overflow", 16, 4, false, true},
		{"unsigned negative rejected", -1, 4, false, true},
		{"signed min", -8, 4, true, false},
		{"signed max", 7, 4, true, false},
		{"signed overflow low", -9, 4, true, true},
		{"signed overflow high", 8, 4, true, true},
		{"bad width zero", 0, 0, false, true},
		{"bad width too large", 0, 65, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.v, tt.width, tt.signed)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%d, %d, %v) error = %v, wantErr %v", tt.v, tt.width, tt.signed, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrBitWidth) {
				t.Errorf("expected ErrBitWidth, got %v", err)
			}
		})
	}
}

func TestBitAndSlice(t *testing.T) {
	b := FromUint(0b1011_0010, 8)
	if b.Bit(0) != 0 || b.Bit(1) != 1 || b.Bit(4) != 1 || b.Bit(7) != 1 {
		t.Fatalf("unexpected bit values in %s", b)
	}
	s := b.Slice(4, 8)
	if s.Width() != 4 || s.Raw() != 0b1011 {
		t.Errorf("Slice(4,8) = %v raw %#x, want width 4 raw 0xb", s.Width(), s.Raw())
	}
}

func TestConcat(t *testing.T) {
	hi := FromUint(0b101, 3)
	lo := FromUint(0b0011, 4)
	c := Concat(hi, lo)
	if c.Width() != 7 || c.Raw() != 0b101_0011 {
		t.Errorf("Concat = width %d raw %#x, want width 7 raw 0x53", c.Width(), c.Raw())
	}
}

func TestSignExtendZeroExtend(t *testing.T) {
	neg := FromUint(0xFFF, 12) // -1 in 12 bits
	se := neg.SignExtend(32)
	if se.Raw() != 0xFFFFFFFF {
		t.Errorf("SignExtend(-1, 12->32) = %#x, want 0xffffffff", se.Raw())
	}

	pos := FromUint(0x7FF, 12) // 2047
	se2 := pos.SignExtend(32)
	if se2.Raw() != 0x7FF {
		t.Errorf("SignExtend(2047, 12->32) = %#x, want 0x7ff", se2.Raw())
	}

	ze := neg.ZeroExtend(32)
	if ze.Raw() != 0xFFF {
		t.Errorf("ZeroExtend(0xfff, 12->32) = %#x, want 0xfff", ze.Raw())
	}
}

func TestToInt(t *testing.T) {
	b := FromUint(0xFFFFFFFF, 32)
	if got := b.ToInt64(true); got != -1 {
		t.Errorf("ToInt64(signed) = %d, want -1", got)
	}
	if got := b.ToInt64(false); got != 0xFFFFFFFF {
		t.Errorf("ToInt64(unsigned) = %d, want %d", got, int64(0xFFFFFFFF))
	}
	big := b.ToInt(true)
	if big.Int64() != -1 {
		t.Errorf("ToInt(signed) = %d, want -1", big.Int64())
	}
}

func TestString(t *testing.T) {
	b := FromUint(0b0110, 4)
	if b.String() != "0110" {
		t.Errorf("String() = %q, want %q", b.String(), "0110")
	}
}

func TestBitPanicsOutOfRange(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for out-of-range bit index")
		}
	}()
	b := FromUint(0, 4)
	b.Bit(4)
}
