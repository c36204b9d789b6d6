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

package decoder

import (
	"testing"

	"github.com/rcornwell/rv32sim/internal/wires"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint8
		want   format
	}{
		{"jalr", 0b1100111, fmtI},
		{"load", 0b0000011, fmtI},
		{"op-imm", 0b0010011, fmtI},
		{"store", 0b0100011, fmtS},
		{"branch", 0b1100011, fmtSB},
		{"auipc", 0b0010111, fmtU},
		{"lui", 0b0110111, fmtU},
		{"jal", 0b1101111, fmtUJ},
		{"op (R-type)", 0b0110011, fmtR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatOf(tt.opcode); got != tt.want {
				t.Errorf("formatOf(%07b) = %v, want %v", tt.opcode, got, tt.want)
			}
		})
	}
}

func TestImmediateIType(t *testing.T) {
	// JALR, imm = -1 (all ones).
	instr := uint32(0xFFF00067)
	if got := Immediate(instr); got != 0xFFFFFFFF {
		t.Errorf("Immediate(jalr imm=-1) = %#x, want 0xffffffff", got)
	}
	// OP-IMM (ADDI), imm = 2047.
	instr = 0x7FF00013
	if got := Immediate(instr); got != 0x7FF {
		t.Errorf("Immediate(addi imm=2047) = %#x, want 0x7ff", got)
	}
}

func TestImmediateSType(t *testing.T) {
	// SW with imm = -1: imm[11:5]=0x7F at bits31-25, imm[4:0]=0x1F at bits11-7.
	instr := uint32(0x7F<<25 | 0x1F<<7 | 0b0100011)
	if got := Immediate(instr); got != 0xFFFFFFFF {
		t.Errorf("Immediate(sw imm=-1) = %#x, want 0xffffffff", got)
	}
}

func TestImmediateSBType(t *testing.T) {
	// BEQ, imm = 4: imm[4:1]=0b0010 at bits11-8, everything else 0.
	instr := uint32(0b0010<<8 | 0b1100011)
	if got := Immediate(instr); got != 4 {
		t.Errorf("Immediate(beq imm=4) = %#x, want 4", got)
	}

	// BEQ, imm = -2: all of imm[12],imm[10:5],imm[4:1],imm[11] set.
	// imm[12]=1 (bit31), imm[11]=1 (bit7), imm[10:5]=0x3F (bits30-25), imm[4:1]=0xF (bits11-8).
	instr = uint32(1<<31 | 0x3F<<25 | 0xF<<8 | 1<<7 | 0b1100011)
	if got := int32(Immediate(instr)); got != -2 {
		t.Errorf("Immediate(beq imm=-2) = %d, want -2", got)
	}
}

func TestImmediateUType(t *testing.T) {
	// LUI: immediate is the raw upper 20 bits, untouched and unextended.
	instr := uint32(0xABCDE000 | 0b0110111)
	if got := Immediate(instr); got != 0xABCDE000 {
		t.Errorf("Immediate(lui) = %#x, want 0xabcde000", got)
	}
}

func TestImmediateUJType(t *testing.T) {
	// JAL, imm = 2: imm[10:1]=1 at bits30-21.
	instr := uint32(1<<21 | 0b1101111)
	if got := Immediate(instr); got != 2 {
		t.Errorf("Immediate(jal imm=2) = %#x, want 2", got)
	}

	// JAL, imm = -2: imm[20]=1 (bit31), rest of the sign-extended field set too,
	// per a full all-ones encoding.
	instr = uint32(1<<31 | 0xFF<<12 | 1<<20 | 0x3FF<<21 | 0b1101111)
	if got := int32(Immediate(instr)); got != -2 {
		t.Errorf("Immediate(jal imm=-2) = %d, want -2", got)
	}
}

func TestImmediateRTypeIsZero(t *testing.T) {
	instr := uint32(0b0110011) // ADD, all other fields zero
	if got := Immediate(instr); got != 0 {
		t.Errorf("Immediate(r-type) = %#x, want 0", got)
	}
}

func TestImmediateIdempotent(t *testing.T) {
	instr := uint32(0xFFF00067)
	first := Immediate(instr)
	second := Immediate(instr)
	if first != second {
		t.Errorf("Immediate is not idempotent: %#x != %#x", first, second)
	}
}

func TestRisingEdgeLatchesOnLoadInstr(t *testing.T) {
	d := New()
	w := wires.Wires{}

	// Without LoadInstr, the latch keeps the nop and republishes its fields.
	if err := d.RisingEdge(&w); err != nil {
		t.Fatalf("RisingEdge returned error: %v", err)
	}
	if w.Instr != nopEncoding {
		t.Errorf("Instr = %#x, want nop %#x", w.Instr, nopEncoding)
	}
	if w.EndOfProgram {
		t.Error("EndOfProgram set for a nop")
	}

	// With LoadInstr, the latch takes MemReadData.
	w.LoadInstr = true
	w.MemReadData = 0x00500093 // addi x1, x0, 5
	if err := d.RisingEdge(&w); err != nil {
		t.Fatalf("RisingEdge returned error: %v", err)
	}
	if w.Instr != 0x00500093 {
		t.Errorf("Instr = %#x, want %#x", w.Instr, 0x00500093)
	}
	if w.Rd != 1 || w.Rs1 != 0 || w.Funct3 != 0 || w.Imm != 5 {
		t.Errorf("decoded fields wrong: rd=%d rs1=%d funct3=%d imm=%d", w.Rd, w.Rs1, w.Funct3, w.Imm)
	}
	if d.Instr() != 0x00500093 {
		t.Errorf("Instr() = %#x, want %#x", d.Instr(), 0x00500093)
	}
}

func TestRisingEdgeEndOfProgram(t *testing.T) {
	d := New()
	w := wires.Wires{LoadInstr: true, MemReadData: 0}
	if err := d.RisingEdge(&w); err != nil {
		t.Fatalf("RisingEdge returned error: %v", err)
	}
	if !w.EndOfProgram {
		t.Error("expected EndOfProgram for an all-zero instruction word")
	}
}
