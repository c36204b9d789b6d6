/*
 * rv32sim - Instruction decoder
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

// Package decoder implements InstructionMemory, spec.md §4.2: the
// instruction latch, field extraction, and immediate generator. The
// latch is a plain 32-bit register initialized to the encoding of
// "addi x0, x0, 0" so decoding is well defined before the first fetch.
package decoder

import "github.com/rcornwell/rv32sim/internal/wires"

// nopEncoding is addi x0, x0, 0.
const nopEncoding uint32 = 0x00000013

// InstructionMemory holds the latched instruction word and extracts
// opcode/register/immediate fields from it.
type InstructionMemory struct {
	instr uint32
}

// New constructs an InstructionMemory latched to a nop.
func New() *InstructionMemory {
	return &InstructionMemory{instr: nopEncoding}
}

// Instr returns the currently latched word.
func (d *InstructionMemory) Instr() uint32 { return d.instr }

// RisingEdge latches memReadData when loadInstr is asserted, then always
// re-extracts fields from whatever is currently latched (spec.md §4.2
// steps 1–4 run every cycle; only the latch itself is conditional).
func (d *InstructionMemory) RisingEdge(w *wires.Wires) error {
	if w.LoadInstr {
		d.instr = w.MemReadData
	}

	instr := d.instr
	w.Instr = instr
	w.EndOfProgram = instr == 0

	w.Opcode = uint8(instr & 0x7F)
	w.Rd = uint8((instr >> 7) & 0x1F)
	w.Funct3 = uint8((instr >> 12) & 0x7)
	w.Rs1 = uint8((instr >> 15) & 0x1F)
	w.Rs2 = uint8((instr >> 20) & 0x1F)
	w.Funct7 = uint8((instr >> 25) & 0x7F)

	w.Imm = Immediate(instr)
	return nil
}

// FallingEdge has nothing further to publish: every decoded field was
// already written to the bus in RisingEdge for the muxes that run before
// this component in the fixed order to consume on the next cycle.
func (d *InstructionMemory) FallingEdge(w *wires.Wires) {}

// format identifies which immediate-encoding table row an opcode matches.
type format int

const (
	fmtR format = iota
	fmtI
	fmtS
	fmtSB
	fmtU
	fmtUJ
)

// formatOf classifies opcode per the immediate table of spec.md §4.2.
func formatOf(opcode uint8) format {
	switch {
	case opcode == 0b1100111: // JALR
		return fmtI
	case opcode&0b1101111 == 0b0000011: // 00X0011 : LOAD, OP-IMM
		return fmtI
	case opcode == 0b0100011: // STORE
		return fmtS
	case opcode == 0b1100011: // BRANCH
		return fmtSB
	case opcode&0b1011111 == 0b0010111: // 0X10111 : AUIPC, LUI
		return fmtU
	case opcode == 0b1101111: // JAL
		return fmtUJ
	default: // R-type and anything else: zero immediate
		return fmtR
	}
}

// Immediate computes and sign-extends the immediate for instr, per the
// table in spec.md §4.2. Re-decoding the same word always yields the same
// result (spec.md §8, "Immediate generator idempotence").
func Immediate(instr uint32) uint32 {
	opcode := uint8(instr & 0x7F)
	switch formatOf(opcode) {
	case fmtI:
		raw := instr >> 20 & 0xFFF
		return signExtend(raw, 12)
	case fmtS:
		raw := (instr>>25&0x7F)<<5 | (instr >> 7 & 0x1F)
		return signExtend(raw, 12)
	case fmtSB:
		raw := (instr>>31&1)<<12 | (instr>>7&1)<<11 | (instr>>25&0x3F)<<5 | (instr>>8&0xF)<<1
		return signExtend(raw, 13)
	case fmtU:
		return instr & 0xFFFFF000
	case fmtUJ:
		raw := (instr>>31&1)<<20 | (instr>>12&0xFF)<<12 | (instr>>20&1)<<11 | (instr>>21&0x3FF)<<1
		return signExtend(raw, 21)
	default: // fmtR
		return 0
	}
}

// signExtend sign-extends the low width bits of raw to 32 bits.
func signExtend(raw uint32, width int) uint32 {
	shift := 32 - width
	return uint32(int32(raw<<shift) >> shift)
}
