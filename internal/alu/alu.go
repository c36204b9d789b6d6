/*
 * rv32sim - ALU
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

// Package alu implements the 32-bit ALU of spec.md §4.5. Operand sign
// interpretation and the operation performed are both selected by
// (aluOp, aluAlt); the 33rd bit of any extended add/sub is discarded so
// the result always truncates to 32 bits, modulo 2^32.
package alu

import "github.com/rcornwell/rv32sim/internal/wires"

// ALU is stateless between cycles: it only ever reacts to this cycle's
// operands and control signals, matching spec.md's "only if aluCalc is
// asserted" rule. It still satisfies the Component shape so the engine
// can run it uniformly with the registered components.
type ALU struct{}

// New constructs an ALU.
func New() *ALU { return &ALU{} }

// RisingEdge computes aluOut (published on the falling edge) when aluCalc
// is asserted. The operands come from ALUOperand1/ALUOperand2, already
// selected by ALUSrcMux1/ALUSrcMux2 earlier in the same phase.
func (a *ALU) RisingEdge(w *wires.Wires) error {
	if !w.ALUCalc {
		return nil
	}
	a1, a2 := w.ALUOperand1, w.ALUOperand2
	var out uint32
	switch w.ALUOp {
	case 0b000:
		if w.ALUAlt {
			out = a1 - a2
		} else {
			out = a1 + a2
		}
	case 0b001:
		out = a1 << (a2 % 32)
	case 0b010:
		if int32(a1) < int32(a2) {
			out = 1
		}
	case 0b011:
		if a1 < a2 {
			out = 1
		}
	case 0b100:
		out = a1 ^ a2
	case 0b101:
		if w.ALUAlt {
			out = uint32(int32(a1) >> (a2 % 32))
		} else {
			out = a1 >> (a2 % 32)
		}
	case 0b110:
		out = a1 | a2
	case 0b111:
		out = a1 & a2
	}
	w.ALUOut = out
	return nil
}

// FallingEdge publishes aluZero alongside the already-computed aluOut.
func (a *ALU) FallingEdge(w *wires.Wires) {
	w.ALUZero = w.ALUOut == 0
}

// Eval is the pure combinational form used directly by tests (spec.md §8,
// "for all (a, b, op)"), without needing a Wires instance.
func Eval(aluOp uint8, aluAlt bool, a, b uint32) uint32 {
	w := wires.Wires{ALUOp: aluOp, ALUAlt: aluAlt, ALUOperand1: a, ALUOperand2: b, ALUCalc: true}
	alu := ALU{}
	_ = alu.RisingEdge(&w)
	return w.ALUOut
}
