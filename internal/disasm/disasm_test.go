/*
 * rv32sim - RV32I disassembler
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

package disasm

import "testing"

func TestDisassemble(t *testing.T) {
	tests := []struct {
		name  string
		instr uint32
		want  string
	}{
		{"halt sentinel", 0x00000000, "halt"},
		{"addi negative", 0xFFF00293, "addi t0, zero, -1"},
		{"lui", 0x186A0E37, "lui t3, 100000"},
		{"auipc", 0x00000297, "auipc t0, 0"},
		{"add", 0x003100B3, "add ra, sp, gp"},
		{"sub", 0x403100B3, "sub ra, sp, gp"},
		{"srai", 0x4010D093, "srai ra, ra, 1"},
		{"lw", 0x00002383, "lw t2, 0(zero)"},
		{"sw", 0x00602023, "sw t1, 0(zero)"},
		{"bne backwards", 0xFE029EE3, "bne t0, zero, -4"},
		{"jal", 0x008000EF, "jal ra, 8"},
		{"jalr", 0x00008067, "jalr zero, 0(ra)"},
		{"unknown opcode", 0x0000007F, ".word 0x0000007f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := Disassemble(tt.instr)
			if ins.Text != tt.want {
				t.Errorf("Disassemble(%#08x) = %q, want %q", tt.instr, ins.Text, tt.want)
			}
		})
	}
}

func TestDisassembleFields(t *testing.T) {
	ins := Disassemble(0xFFF00293) // addi t0, zero, -1
	if ins.Opcode != 0b0010011 || ins.Rd != 5 || ins.Rs1 != 0 || ins.Imm != -1 {
		t.Errorf("fields = opcode %07b rd %d rs1 %d imm %d, want 0010011/5/0/-1",
			ins.Opcode, ins.Rd, ins.Rs1, ins.Imm)
	}
}
