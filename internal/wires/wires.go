/*
 * rv32sim - Shared signal bus
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

// Package wires holds the Wires record: the process-local set of current-cycle
// signal values shared between every datapath component, per spec.md §3
// ("Signal bus (Wires)"). Every component reads inputs from and publishes
// outputs to one shared *Wires, passed by pointer through the fixed
// rising-edge/falling-edge component order; no component retains a
// reference across phases.
package wires

// MemSize is the width of a memory access, matching RAM's size parameter.
type MemSize int

const (
	SizeByte MemSize = 1
	SizeHalf MemSize = 2
	SizeWord MemSize = 4
)

// MemAddrSrc selects the MemAddrMux source.
type MemAddrSrc int

const (
	MemAddrPC MemAddrSrc = iota
	MemAddrALUOut
)

// ALUSrc1 selects the ALUSrcMux1 source.
type ALUSrc1 int

const (
	ALUSrc1Reg ALUSrc1 = iota
	ALUSrc1PC
)

// ALUSrc2 selects the ALUSrcMux2 source.
type ALUSrc2 int

const (
	ALUSrc2Reg ALUSrc2 = iota
	ALUSrc2Imm
)

// WriteDataSrc selects the WriteDataMux source feeding RegisterFile.writeData.
type WriteDataSrc int

const (
	WriteDataALUOut WriteDataSrc = iota
	WriteDataMemRead
	WriteDataPC4
	WriteDataImm
)

// JumpControlSrc selects the base address JumpControl adds the immediate to.
type JumpControlSrc int

const (
	JumpSrcPCImm JumpControlSrc = iota
	JumpSrcRS1Imm
)

// PCSrc selects the PCSrcMux source feeding PC.pcIn.
type PCSrc int

const (
	PCSrcPC4 PCSrc = iota
	PCSrcJump
)

// Wires is the shared signal bus. Every control signal has an explicit
// default that ResetOutputs, called by ControlFSM at the start of every
// rising edge it runs, restores, so no control signal is ever implicitly
// undefined for the rest of the cycle.
type Wires struct {
	// Control signals, owned by ControlFSM.
	MemAddrMuxSrc   MemAddrSrc
	MemSize         MemSize
	LoadInstr       bool
	ALUCalc         bool
	ALUOp           uint8 // 3 bits
	ALUAlt          bool
	ALUSrc1         ALUSrc1
	ALUSrc2         ALUSrc2
	MemWrite        bool
	MemUnsigned     bool
	RegWrite        bool
	WriteDataMuxSrc WriteDataSrc
	BranchZero      bool
	BranchNotZero   bool
	JumpControlSrc  JumpControlSrc
	LoadPC          bool

	// Decoded instruction fields, owned by InstructionMemory.
	Instr        uint32
	Opcode       uint8
	Rd           uint8
	Funct3       uint8
	Rs1          uint8
	Rs2          uint8
	Funct7       uint8
	Imm          uint32 // sign-extended 32-bit immediate
	EndOfProgram bool

	// Mux outputs.
	MemAddress  uint32 // MemAddrMux output, feeds RAM and the fetch path
	ALUOperand1 uint32 // ALUSrcMux1 output
	ALUOperand2 uint32 // ALUSrcMux2 output
	WriteData   uint32 // WriteDataMux output, feeds RegisterFile.writeData
	PCIn        uint32 // PCSrcMux output, feeds PC.pcIn

	// Datapath outputs, owned by the named component.
	PCVal        uint32 // PC
	PCVal4       uint32 // PC
	ReadData1    uint32 // RegisterFile
	ReadData2    uint32 // RegisterFile
	ALUOut       uint32 // ALU
	ALUZero      bool   // ALU
	MemReadData  uint32 // RAM
	ShouldBranch bool   // JumpControl
	JumpAddr     uint32 // JumpControl
}

// ResetOutputs restores the default values of every signal ControlFSM is
// responsible for at the start of a rising edge, per spec.md §3. Mux
// outputs and datapath outputs are left untouched here: they are
// recomputed later in the same phase by the components that own them.
func (w *Wires) ResetOutputs() {
	w.MemAddrMuxSrc = MemAddrPC
	w.MemSize = SizeWord
	w.LoadInstr = false
	w.ALUCalc = false
	w.ALUOp = 0
	w.ALUAlt = false
	w.ALUSrc1 = ALUSrc1Reg
	w.ALUSrc2 = ALUSrc2Reg
	w.MemWrite = false
	w.MemUnsigned = false
	w.RegWrite = false
	w.WriteDataMuxSrc = WriteDataALUOut
	w.BranchZero = false
	w.BranchNotZero = false
	w.JumpControlSrc = JumpSrcPCImm
	w.LoadPC = false
}
