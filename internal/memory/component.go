/*
 * rv32sim - RAM datapath component
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

package memory

import "github.com/rcornwell/rv32sim/internal/wires"

// Component wraps a RAM in the rising/falling-edge shape the engine drives.
// Per spec.md §4.3: each rising edge, RAM computes the address and size
// from the bus, performs the store if memWrite is asserted, and always
// reads size bytes at addr, sign- or zero-extending per memUnsigned (word
// reads are unaffected by memUnsigned since they already fill the width).
// The result is published on the falling edge as memReadData.
type Component struct {
	RAM         *RAM
	pendingRead uint32
}

// NewComponent wraps ram for use in the fixed datapath order.
func NewComponent(ram *RAM) *Component {
	return &Component{RAM: ram}
}

func (c *Component) RisingEdge(w *wires.Wires) error {
	addr := w.MemAddress
	size := int(w.MemSize)

	if w.MemWrite {
		// Store data comes from the register file's rs2 read path, not the
		// write-back mux: spec.md §4.3 ties the store value to readData2.
		c.RAM.Store(addr, size, w.ReadData2)
	}

	raw := c.RAM.Load(addr, size)
	var result uint32
	switch size {
	case 4:
		result = raw
	case 2:
		if w.MemUnsigned {
			result = raw & 0xFFFF
		} else {
			result = uint32(int32(int16(uint16(raw))))
		}
	case 1:
		if w.MemUnsigned {
			result = raw & 0xFF
		} else {
			result = uint32(int32(int8(uint8(raw))))
		}
	}
	c.pendingRead = result
	return nil
}

func (c *Component) FallingEdge(w *wires.Wires) {
	w.MemReadData = c.pendingRead
}
