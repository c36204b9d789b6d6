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

// Package disasm renders an RV32I instruction word as assembly text, for
// the monitor's "disasm" command and for cycle tracing. It is a pure,
// stateless mapping from opcode/funct3/funct7 to mnemonic; unlike
// controlfsm's decode tables it is a display concern, not a control-signal
// source, so it is a simple opcode-keyed switch rather than a
// truthtable.Table.
package disasm

import (
	"fmt"

	"github.com/rcornwell/rv32sim/internal/decoder"
)

// regNames gives the ABI register names, used so disassembly reads the way
// hand-written RV32I assembly does (x2 as "sp", not "x2").
var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

func reg(r uint8) string { return regNames[r&0x1F] }

// Instruction is one disassembled instruction: its mnemonic plus the raw
// word and fields it was built from, for tracing tools that want the
// fields without re-parsing the text.
type Instruction struct {
	Text   string
	Opcode uint8
	Funct3 uint8
	Funct7 uint8
	Rd     uint8
	Rs1    uint8
	Rs2    uint8
	Imm    int32
}

// Disassemble decodes instr into assembly text. Unrecognized
// opcode/funct3/funct7 combinations render as a ".word" directive rather
// than erroring: disassembly is a display aid, not part of the engine's
// control path, so it tolerates what the engine would reject.
func Disassemble(instr uint32) Instruction {
	opcode := uint8(instr & 0x7F)
	rd := uint8((instr >> 7) & 0x1F)
	funct3 := uint8((instr >> 12) & 0x7)
	rs1 := uint8((instr >> 15) & 0x1F)
	rs2 := uint8((instr >> 20) & 0x1F)
	funct7 := uint8((instr >> 25) & 0x7F)
	imm := int32(decoder.Immediate(instr))

	ins := Instruction{Opcode: opcode, Funct3: funct3, Funct7: funct7, Rd: rd, Rs1: rs1, Rs2: rs2, Imm: imm}
	ins.Text = mnemonic(instr, opcode, funct3, funct7, rd, rs1, rs2, imm)
	return ins
}

func mnemonic(instr uint32, opcode, funct3, funct7, rd, rs1, rs2 uint8, imm int32) string {
	if instr == 0 {
		return "halt"
	}

	switch opcode {
	case 0b0110011:
		return rTypeName(funct3, funct7) + fmt.Sprintf(" %s, %s, %s", reg(rd), reg(rs1), reg(rs2))
	case 0b0010011:
		return iArithName(funct3, funct7) + fmt.Sprintf(" %s, %s, %d", reg(rd), reg(rs1), immForIArith(funct3, imm, funct7))
	case 0b0110111:
		return fmt.Sprintf("lui %s, %d", reg(rd), uint32(imm)>>12)
	case 0b0010111:
		return fmt.Sprintf("auipc %s, %d", reg(rd), uint32(imm)>>12)
	case 0b0000011:
		return loadName(funct3) + fmt.Sprintf(" %s, %d(%s)", reg(rd), imm, reg(rs1))
	case 0b0100011:
		return storeName(funct3) + fmt.Sprintf(" %s, %d(%s)", reg(rs2), imm, reg(rs1))
	case 0b1100011:
		return branchName(funct3) + fmt.Sprintf(" %s, %s, %d", reg(rs1), reg(rs2), imm)
	case 0b1101111:
		return fmt.Sprintf("jal %s, %d", reg(rd), imm)
	case 0b1100111:
		return fmt.Sprintf("jalr %s, %d(%s)", reg(rd), imm, reg(rs1))
	default:
		return fmt.Sprintf(".word 0x%08x", instr)
	}
}

func rTypeName(funct3, funct7 uint8) string {
	alt := funct7&0x20 != 0
	switch funct3 {
	case 0b000:
		if alt {
			return "sub"
		}
		return "add"
	case 0b001:
		return "sll"
	case 0b010:
		return "slt"
	case 0b011:
		return "sltu"
	case 0b100:
		return "xor"
	case 0b101:
		if alt {
			return "sra"
		}
		return "srl"
	case 0b110:
		return "or"
	case 0b111:
		return "and"
	default:
		return "?"
	}
}

func iArithName(funct3, funct7 uint8) string {
	switch funct3 {
	case 0b000:
		return "addi"
	case 0b001:
		return "slli"
	case 0b010:
		return "slti"
	case 0b011:
		return "sltiu"
	case 0b100:
		return "xori"
	case 0b101:
		if funct7&0x20 != 0 {
			return "srai"
		}
		return "srli"
	case 0b110:
		return "ori"
	case 0b111:
		return "andi"
	default:
		return "?"
	}
}

// immForIArith renders the shift amount (low 5 bits) rather than the
// sign-extended 12-bit immediate for SLLI/SRLI/SRAI, matching assembler
// syntax ("slli a0, a0, 3", not a negative shift count).
func immForIArith(funct3 uint8, imm int32, _ uint8) int32 {
	if funct3 == 0b001 || funct3 == 0b101 {
		return int32(uint32(imm) & 0x1F)
	}
	return imm
}

func loadName(funct3 uint8) string {
	switch funct3 {
	case 0b000:
		return "lb"
	case 0b001:
		return "lh"
	case 0b010:
		return "lw"
	case 0b100:
		return "lbu"
	case 0b101:
		return "lhu"
	default:
		return "?"
	}
}

func storeName(funct3 uint8) string {
	switch funct3 {
	case 0b000:
		return "sb"
	case 0b001:
		return "sh"
	case 0b010:
		return "sw"
	default:
		return "?"
	}
}

func branchName(funct3 uint8) string {
	switch funct3 {
	case 0b000:
		return "beq"
	case 0b001:
		return "bne"
	case 0b100:
		return "blt"
	case 0b101:
		return "bge"
	case 0b110:
		return "bltu"
	case 0b111:
		return "bgeu"
	default:
		return "?"
	}
}
