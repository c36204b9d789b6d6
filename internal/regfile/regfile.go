/*
 * rv32sim - Register file
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

// Package regfile implements the 32-entry, 32-bit RegisterFile of
// spec.md §4.6 and §3 ("Register file"). Register 0 is hardwired to zero:
// reads always return zero and writes are silently discarded.
package regfile

import (
	"errors"
	"fmt"

	"github.com/rcornwell/rv32sim/internal/wires"
)

// ErrInvalidRegister is returned for register numbers outside [0, 31].
var ErrInvalidRegister = errors.New("regfile: invalid register number")

// ErrRegisterZeroWrite is returned when Set is asked to set x0 to a
// non-zero value, a programmer-misuse error per spec.md §7 kind 1.
var ErrRegisterZeroWrite = errors.New("regfile: cannot set x0 to a non-zero value")

// RegisterFile holds the 32 general-purpose registers.
type RegisterFile struct {
	regs [32]uint32

	readData1, readData2 uint32 // sampled on rising edge, published on falling edge
}

// New constructs a RegisterFile with all registers zero.
func New() *RegisterFile {
	return &RegisterFile{}
}

// Get returns the unsigned value of register r (0 always reads as zero).
func (r *RegisterFile) Get(reg uint8) (uint32, error) {
	if reg > 31 {
		return 0, fmt.Errorf("%w: x%d", ErrInvalidRegister, reg)
	}
	if reg == 0 {
		return 0, nil
	}
	return r.regs[reg], nil
}

// Set writes an unsigned value directly into a register, bypassing
// regWrite — used to establish the initial machine state (spec.md §6
// setRegisters). Writing a non-zero value to x0 is a programmer-misuse
// error; writing zero to x0 is accepted as a no-op.
func (r *RegisterFile) Set(reg uint8, value uint32) error {
	if reg > 31 {
		return fmt.Errorf("%w: x%d", ErrInvalidRegister, reg)
	}
	if reg == 0 {
		if value != 0 {
			return ErrRegisterZeroWrite
		}
		return nil
	}
	r.regs[reg] = value
	return nil
}

// RisingEdge performs this cycle's write and samples readReg1/readReg2,
// per spec.md §4.6: reads and the write happen in the same rising edge,
// the write first, gated on regWrite and a non-zero destination.
func (r *RegisterFile) RisingEdge(w *wires.Wires) error {
	if w.RegWrite && w.Rd != 0 {
		if w.Rd > 31 {
			return fmt.Errorf("%w: x%d", ErrInvalidRegister, w.Rd)
		}
		r.regs[w.Rd] = w.WriteData
	}

	d1, err := r.Get(w.Rs1)
	if err != nil {
		return err
	}
	d2, err := r.Get(w.Rs2)
	if err != nil {
		return err
	}
	r.readData1, r.readData2 = d1, d2
	return nil
}

// FallingEdge publishes readData1/readData2.
func (r *RegisterFile) FallingEdge(w *wires.Wires) {
	w.ReadData1 = r.readData1
	w.ReadData2 = r.readData2
}
