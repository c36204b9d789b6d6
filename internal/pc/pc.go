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

// Package pc implements the PC register and JumpControl combinational unit
// of spec.md §4.4. PC overflow wraps modulo 2^32 (the normative choice
// recorded in spec.md §9's open question), never traps.
package pc

import "github.com/rcornwell/rv32sim/internal/wires"

// PC is the 32-bit program counter register.
type PC struct {
	val     uint32
	pending uint32
}

// New constructs a PC initialized to textStart, per spec.md §3.
func New(textStart uint32) *PC {
	return &PC{val: textStart}
}

// Value returns the current PC value without waiting for a tick.
func (p *PC) Value() uint32 { return p.val }

// RisingEdge latches pcIn into the register when loadPC is asserted.
func (p *PC) RisingEdge(w *wires.Wires) error {
	if w.LoadPC {
		p.pending = w.PCIn
	} else {
		p.pending = p.val
	}
	return nil
}

// FallingEdge commits the latch and publishes pcVal and pcVal4 = pcVal+4
// (mod 2^32, per spec.md §3).
func (p *PC) FallingEdge(w *wires.Wires) {
	p.val = p.pending
	w.PCVal = p.val
	w.PCVal4 = p.val + 4
}

// JumpControl is purely combinational: spec.md §4.4 states it "acts on
// rising edge, no latched state".
type JumpControl struct{}

// NewJumpControl constructs a JumpControl.
func NewJumpControl() *JumpControl { return &JumpControl{} }

func (j *JumpControl) RisingEdge(w *wires.Wires) error {
	shouldBranch := (w.BranchZero && w.ALUZero) || (w.BranchNotZero && !w.ALUZero)
	w.ShouldBranch = shouldBranch

	var base uint32
	if w.JumpControlSrc == wires.JumpSrcPCImm {
		base = w.PCVal
	} else {
		base = w.ReadData1
	}
	w.JumpAddr = base + w.Imm
	return nil
}

// FallingEdge is a no-op: JumpControl has no registered state to commit.
func (j *JumpControl) FallingEdge(w *wires.Wires) {}
