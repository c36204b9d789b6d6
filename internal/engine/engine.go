/*
 * rv32sim - Datapath engine
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

// Package engine wires the datapath components into the fixed rising-edge
// order spec.md §2 and §5 mandate, and exposes the public simulator API of
// spec.md §6: construction from an optional program and register map,
// setCode/setRegisters, tick/run, and read-only accessors.
package engine

import (
	"github.com/rcornwell/rv32sim/internal/alu"
	"github.com/rcornwell/rv32sim/internal/controlfsm"
	"github.com/rcornwell/rv32sim/internal/decoder"
	"github.com/rcornwell/rv32sim/internal/memory"
	"github.com/rcornwell/rv32sim/internal/mux"
	"github.com/rcornwell/rv32sim/internal/pc"
	"github.com/rcornwell/rv32sim/internal/regfile"
	"github.com/rcornwell/rv32sim/internal/wires"
)

// DefaultTextStart is the recommended program origin of spec.md §6.
const DefaultTextStart uint32 = 0x0001_0000

// Default stack/global pointers spec.md §6 specifies for initial machine
// state: x2 (sp) and x3 (gp).
const (
	defaultSP uint32 = 0xBFFF_FFF0
	defaultGP uint32 = 0x1000_8000
)

// Tracer observes every completed cycle, for a host that wants to render
// or log intermediate signal values (spec.md §1: "exposing intermediate
// signal values suitable for visualization" — the UI itself is out of
// scope, but the hook it would consume is not).
type Tracer interface {
	Trace(cycle uint64, state controlfsm.State, w wires.Wires)
}

// Engine is the single-hart datapath: twelve components run in the fixed
// order of spec.md §2 against one shared Wires value.
type Engine struct {
	w wires.Wires

	fsm         *controlfsm.ControlFSM
	jump        *pc.JumpControl
	writeData   *mux.WriteDataMux
	aluSrc1     *mux.ALUSrcMux1
	aluSrc2     *mux.ALUSrcMux2
	pcSrc       *mux.PCSrcMux
	memAddr     *mux.MemAddrMux
	decoder     *decoder.InstructionMemory
	memComp     *memory.Component
	ram         *memory.RAM
	pcReg       *pc.PC
	aluUnit     *alu.ALU
	regs        *regfile.RegisterFile

	components []Component

	textStart uint32
	cycle     uint64
	done      bool
	tracer    Tracer
}

// New constructs an Engine with PC initialized to textStart, the default
// stack/global pointers, program words (if any) loaded starting at
// textStart, and any caller-supplied register overrides applied last.
func New(textStart uint32, code []uint32, registers map[uint8]uint32) (*Engine, error) {
	ram := memory.New()
	regs := regfile.New()
	if err := regs.Set(2, defaultSP); err != nil {
		return nil, err
	}
	if err := regs.Set(3, defaultGP); err != nil {
		return nil, err
	}

	e := &Engine{
		fsm:       controlfsm.New(),
		jump:      pc.NewJumpControl(),
		writeData: mux.NewWriteDataMux(),
		aluSrc1:   mux.NewALUSrcMux1(),
		aluSrc2:   mux.NewALUSrcMux2(),
		pcSrc:     mux.NewPCSrcMux(),
		memAddr:   mux.NewMemAddrMux(),
		decoder:   decoder.New(),
		memComp:   memory.NewComponent(ram),
		ram:       ram,
		pcReg:     pc.New(textStart),
		aluUnit:   alu.New(),
		regs:      regs,
		textStart: textStart,
	}
	e.components = []Component{
		e.fsm,
		e.jump,
		e.writeData, e.aluSrc1, e.aluSrc2, e.pcSrc, e.memAddr,
		e.decoder,
		e.memComp, e.pcReg, e.aluUnit, e.regs,
	}

	// PC publishes its value on falling edges only, so the bus must start
	// with pcVal/pcVal4 already present for the first FETCH to read the
	// word at textStart rather than at a zeroed address.
	e.w.PCVal = textStart
	e.w.PCVal4 = textStart + 4

	if err := e.SetCode(code); err != nil {
		return nil, err
	}
	if err := e.SetRegisters(registers); err != nil {
		return nil, err
	}
	return e, nil
}

// SetTracer installs t to observe every subsequent completed cycle.
func (e *Engine) SetTracer(t Tracer) { e.tracer = t }

// SetCode loads words into RAM starting at textStart, little-endian,
// per spec.md §6 setCode.
func (e *Engine) SetCode(words []uint32) error {
	addr := e.textStart
	for _, word := range words {
		e.ram.StoreWord(addr, word)
		addr += 4
	}
	return nil
}

// SetRegisters applies an unsigned register overlay, per spec.md §6
// setRegisters. Writing a non-zero value to x0 is a programmer-misuse
// error (spec.md §7 kind 1).
func (e *Engine) SetRegisters(registers map[uint8]uint32) error {
	for reg, val := range registers {
		if err := e.regs.Set(reg, val); err != nil {
			return err
		}
	}
	return nil
}

// SetByte writes a single byte into RAM, for the assembler's data segment
// (spec.md §6 mentions only word-oriented setCode; a byte/string data
// segment needs finer granularity than SetCode's word stride).
func (e *Engine) SetByte(addr uint32, v byte) {
	e.ram.StoreByte(addr, v)
}

// SetMemWord writes a single word into RAM directly, for an initial-state
// file's "mem <addr> = <word>" overlay applied before the first tick.
func (e *Engine) SetMemWord(addr, word uint32) {
	e.ram.StoreWord(addr, word)
}

// Tick runs one clock cycle: a rising-edge phase across every component in
// the fixed order, then a falling-edge phase across the same order. It
// returns false once EndOfProgram is observed (the all-zero terminator
// word is the currently latched instruction) or on any prior cycle's
// termination; the engine does nothing further once done. A non-nil error
// means an undefined opcode/funct combination was decoded (spec.md §7
// kind 2); the FSM does not advance in that case because FallingEdge is
// never reached for it.
func (e *Engine) Tick() (bool, error) {
	if e.done {
		return false, nil
	}

	for _, c := range e.components {
		if err := c.RisingEdge(&e.w); err != nil {
			return false, err
		}
	}
	for _, c := range e.components {
		c.FallingEdge(&e.w)
	}

	e.cycle++
	if e.tracer != nil {
		e.tracer.Trace(e.cycle, e.fsm.State(), e.w)
	}

	if e.w.EndOfProgram {
		e.done = true
		return false, nil
	}
	return true, nil
}

// Run ticks until termination or error, per spec.md §6 run().
func (e *Engine) Run() error {
	for {
		more, err := e.Tick()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// PC returns the current program counter.
func (e *Engine) PC() uint32 { return e.pcReg.Value() }

// Register returns the unsigned value of register r.
func (e *Engine) Register(r uint8) (uint32, error) { return e.regs.Get(r) }

// State returns the current FSM state.
func (e *Engine) State() controlfsm.State { return e.fsm.State() }

// Instr returns the currently latched instruction word.
func (e *Engine) Instr() uint32 { return e.decoder.Instr() }

// Done reports whether the engine has observed EndOfProgram.
func (e *Engine) Done() bool { return e.done }

// Cycle returns the number of cycles completed so far.
func (e *Engine) Cycle() uint64 { return e.cycle }

// RAMWord reads a word directly from RAM without ticking, for monitor
// inspection commands.
func (e *Engine) RAMWord(addr uint32) uint32 { return e.ram.LoadWord(addr) }

// RangeRAM iterates every non-zero word in RAM in ascending address order.
func (e *Engine) RangeRAM(fn func(addr, word uint32)) { e.ram.Range(fn) }

// Wires returns a snapshot of the current signal bus, for monitor commands
// that want to inspect intermediate signal values between ticks.
func (e *Engine) Wires() wires.Wires { return e.w }
