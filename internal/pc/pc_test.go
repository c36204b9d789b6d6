/*
 * rv32sim - Program counter and jump control
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

package pc

import (
	"testing"

	"github.com/rcornwell/rv32sim/internal/wires"
)

func TestPCHoldsWhenNotLoaded(t *testing.T) {
	p := New(0x1000)
	w := wires.Wires{LoadPC: false, PCIn: 0xDEAD}
	if err := p.RisingEdge(&w); err != nil {
		t.Fatal(err)
	}
	p.FallingEdge(&w)
	if p.Value() != 0x1000 {
		t.Errorf("PC = %#x, want unchanged 0x1000", p.Value())
	}
}

func TestPCLoadsAndPublishesPC4(t *testing.T) {
	p := New(0x1000)
	w := wires.Wires{LoadPC: true, PCIn: 0x2000}
	if err := p.RisingEdge(&w); err != nil {
		t.Fatal(err)
	}
	p.FallingEdge(&w)
	if p.Value() != 0x2000 {
		t.Errorf("PC = %#x, want 0x2000", p.Value())
	}
	if w.PCVal != 0x2000 || w.PCVal4 != 0x2004 {
		t.Errorf("PCVal/PCVal4 = %#x/%#x, want 0x2000/0x2004", w.PCVal, w.PCVal4)
	}
}

func TestPCVal4WrapsModulo2to32(t *testing.T) {
	p := New(0xFFFFFFFE)
	w := wires.Wires{LoadPC: false}
	if err := p.RisingEdge(&w); err != nil {
		t.Fatal(err)
	}
	p.FallingEdge(&w)
	if w.PCVal4 != 2 { // 0xFFFFFFFE + 4 wraps to 2
		t.Errorf("PCVal4 = %#x, want 2 (wrapped)", w.PCVal4)
	}
}

func TestJumpControlBranchZeroTaken(t *testing.T) {
	j := NewJumpControl()
	w := wires.Wires{
		BranchZero: true, BranchNotZero: false, ALUZero: true,
		JumpControlSrc: wires.JumpSrcPCImm, PCVal: 0x1000, Imm: 0x10,
	}
	if err := j.RisingEdge(&w); err != nil {
		t.Fatal(err)
	}
	if !w.ShouldBranch {
		t.Error("expected ShouldBranch true for BEQ-style zero match")
	}
	if w.JumpAddr != 0x1010 {
		t.Errorf("JumpAddr = %#x, want 0x1010", w.JumpAddr)
	}
}

func TestJumpControlBranchNotZeroNotTaken(t *testing.T) {
	j := NewJumpControl()
	w := wires.Wires{
		BranchZero: false, BranchNotZero: true, ALUZero: true, // equal, so BNE doesn't take
		JumpControlSrc: wires.JumpSrcPCImm, PCVal: 0x1000, Imm: 0x10,
	}
	if err := j.RisingEdge(&w); err != nil {
		t.Fatal(err)
	}
	if w.ShouldBranch {
		t.Error("expected ShouldBranch false when ALUZero true and only BranchNotZero asserted")
	}
}

func TestJumpControlJALRUsesReadData1(t *testing.T) {
	j := NewJumpControl()
	w := wires.Wires{
		BranchZero: true, BranchNotZero: true, // JALR: unconditional
		JumpControlSrc: wires.JumpSrcRS1Imm, ReadData1: 0x4000, Imm: 0x8,
	}
	if err := j.RisingEdge(&w); err != nil {
		t.Fatal(err)
	}
	if !w.ShouldBranch {
		t.Error("expected unconditional jump for JALR")
	}
	if w.JumpAddr != 0x4008 {
		t.Errorf("JumpAddr = %#x, want 0x4008", w.JumpAddr)
	}
}
