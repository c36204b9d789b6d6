/*
 * rv32sim - Datapath multiplexers
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

// Package mux implements the five single-cycle selectors of spec.md §4.7:
// WriteDataMux, ALUSrcMux1, ALUSrcMux2, PCSrcMux, and MemAddrMux. Each is
// stateless combinational logic: RisingEdge reads the current bus and
// writes its selected output back to the bus; FallingEdge is a no-op.
package mux

import "github.com/rcornwell/rv32sim/internal/wires"

// WriteDataMux selects among {ALUOut, MemRead, PC4, Imm} for RegisterFile's
// write-data input.
type WriteDataMux struct{}

func NewWriteDataMux() *WriteDataMux { return &WriteDataMux{} }

func (m *WriteDataMux) RisingEdge(w *wires.Wires) error {
	switch w.WriteDataMuxSrc {
	case wires.WriteDataALUOut:
		w.WriteData = w.ALUOut
	case wires.WriteDataMemRead:
		w.WriteData = w.MemReadData
	case wires.WriteDataPC4:
		w.WriteData = w.PCVal4
	case wires.WriteDataImm:
		w.WriteData = w.Imm
	}
	return nil
}

func (m *WriteDataMux) FallingEdge(w *wires.Wires) {}

// ALUSrcMux1 selects among {Reg1, PC} for the ALU's first operand.
type ALUSrcMux1 struct{}

func NewALUSrcMux1() *ALUSrcMux1 { return &ALUSrcMux1{} }

func (m *ALUSrcMux1) RisingEdge(w *wires.Wires) error {
	if w.ALUSrc1 == wires.ALUSrc1PC {
		w.ALUOperand1 = w.PCVal
	} else {
		w.ALUOperand1 = w.ReadData1
	}
	return nil
}

func (m *ALUSrcMux1) FallingEdge(w *wires.Wires) {}

// ALUSrcMux2 selects among {Reg2, Imm} for the ALU's second operand.
type ALUSrcMux2 struct{}

func NewALUSrcMux2() *ALUSrcMux2 { return &ALUSrcMux2{} }

func (m *ALUSrcMux2) RisingEdge(w *wires.Wires) error {
	if w.ALUSrc2 == wires.ALUSrc2Imm {
		w.ALUOperand2 = w.Imm
	} else {
		w.ALUOperand2 = w.ReadData2
	}
	return nil
}

func (m *ALUSrcMux2) FallingEdge(w *wires.Wires) {}

// PCSrcMux selects among {PC4, JumpControl} for PC's next-value input.
// JumpControl (combinational, no latched state of its own) is evaluated
// right after ControlFSM, before all five muxes, rather than in the later
// datapath group
// spec.md §2 lists it in textually — see DESIGN.md for why that
// reordering changes no observable signal: every input JumpControl needs
// (branchZero/branchNotZero/jumpControlSrc from ControlFSM, aluZero held
// over from the EXECUTE-stage subtract, readData1/pcVal/imm stable since
// the instruction latched) is already on the bus before the mux phase.
type PCSrcMux struct{}

func NewPCSrcMux() *PCSrcMux { return &PCSrcMux{} }

func (m *PCSrcMux) RisingEdge(w *wires.Wires) error {
	if w.ShouldBranch {
		w.PCIn = w.JumpAddr
	} else {
		w.PCIn = w.PCVal4
	}
	return nil
}

func (m *PCSrcMux) FallingEdge(w *wires.Wires) {}

// MemAddrMux selects among {ALUOut, PC} for RAM's address input.
type MemAddrMux struct{}

func NewMemAddrMux() *MemAddrMux { return &MemAddrMux{} }

func (m *MemAddrMux) RisingEdge(w *wires.Wires) error {
	if w.MemAddrMuxSrc == wires.MemAddrALUOut {
		w.MemAddress = w.ALUOut
	} else {
		w.MemAddress = w.PCVal
	}
	return nil
}

func (m *MemAddrMux) FallingEdge(w *wires.Wires) {}
