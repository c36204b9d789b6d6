/*
 * rv32sim - Sparse byte-addressable RAM
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

package memory

import (
	"testing"

	"github.com/rcornwell/rv32sim/internal/wires"
)

func TestUnwrittenByteReadsZero(t *testing.T) {
	m := New()
	if got := m.LoadByte(0x1234); got != 0 {
		t.Errorf("LoadByte(unwritten) = %#x, want 0", got)
	}
}

func TestLittleEndianRoundTrip(t *testing.T) {
	m := New()
	m.StoreWord(0x100, 0x12345678)
	if got := m.LoadByte(0x100); got != 0x78 {
		t.Errorf("byte 0 = %#x, want 0x78", got)
	}
	if got := m.LoadByte(0x103); got != 0x12 {
		t.Errorf("byte 3 = %#x, want 0x12", got)
	}
	if got := m.Load(0x100, 2); got != 0x5678 {
		t.Errorf("half 0 = %#x, want 0x5678", got)
	}
	if got := m.Load(0x102, 2); got != 0x1234 {
		t.Errorf("half 2 = %#x, want 0x1234", got)
	}
}

func TestMisalignedHalfWordLoadNoTrap(t *testing.T) {
	m := New()
	m.StoreWord(0x200, 0xAABBCCDD)
	// A half-word load at an odd address just reads the two bytes there,
	// per spec.md §8: "no trap".
	got := m.Load(0x201, 2)
	want := uint32(0xBBCC) // bytes at 0x201, 0x202 little-endian
	if got != want {
		t.Errorf("misaligned half load = %#x, want %#x", got, want)
	}
}

func TestStoreThenLoadDifferentSizes(t *testing.T) {
	m := New()
	m.Store(0x300, 4, 0xDEADBEEF)
	if got := m.Load(0x300, 1); got != 0xEF {
		t.Errorf("byte reload = %#x, want 0xEF", got)
	}
	if got := m.Load(0x300, 2); got != 0xBEEF {
		t.Errorf("half reload = %#x, want 0xBEEF", got)
	}
}

// Component-level: LBU of 0xFF zero-extends, LB sign-extends (spec.md §8).
func TestComponentLoadSignExtension(t *testing.T) {
	ram := New()
	ram.StoreByte(0x10, 0xFF)
	c := NewComponent(ram)

	// LBU
	w := wires.Wires{MemAddress: 0x10, MemSize: wires.SizeByte, MemUnsigned: true}
	if err := c.RisingEdge(&w); err != nil {
		t.Fatal(err)
	}
	c.FallingEdge(&w)
	if w.MemReadData != 0x000000FF {
		t.Errorf("LBU 0xFF = %#x, want 0x000000FF", w.MemReadData)
	}

	// LB
	w2 := wires.Wires{MemAddress: 0x10, MemSize: wires.SizeByte, MemUnsigned: false}
	if err := c.RisingEdge(&w2); err != nil {
		t.Fatal(err)
	}
	c.FallingEdge(&w2)
	if w2.MemReadData != 0xFFFFFFFF {
		t.Errorf("LB 0xFF = %#x, want 0xFFFFFFFF", w2.MemReadData)
	}
}

func TestComponentStoreGatedOnMemWrite(t *testing.T) {
	ram := New()
	c := NewComponent(ram)
	w := wires.Wires{MemAddress: 0x20, MemSize: wires.SizeWord, MemWrite: false, ReadData2: 0x11223344}
	if err := c.RisingEdge(&w); err != nil {
		t.Fatal(err)
	}
	if ram.LoadWord(0x20) != 0 {
		t.Error("store happened despite MemWrite=false")
	}

	w.MemWrite = true
	if err := c.RisingEdge(&w); err != nil {
		t.Fatal(err)
	}
	if ram.LoadWord(0x20) != 0x11223344 {
		t.Errorf("LoadWord after store = %#x, want 0x11223344", ram.LoadWord(0x20))
	}
}

func TestWordLoadIgnoresMemUnsigned(t *testing.T) {
	ram := New()
	ram.StoreWord(0x30, 0x80000000)
	c := NewComponent(ram)
	w := wires.Wires{MemAddress: 0x30, MemSize: wires.SizeWord, MemUnsigned: false}
	if err := c.RisingEdge(&w); err != nil {
		t.Fatal(err)
	}
	c.FallingEdge(&w)
	if w.MemReadData != 0x80000000 {
		t.Errorf("word load = %#x, want 0x80000000 unaffected by memUnsigned", w.MemReadData)
	}
}
