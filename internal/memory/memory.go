/*
 * rv32sim - Sparse byte-addressable RAM
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

// Package memory implements the RAM component of spec.md §4.3: a sparse
// byte-addressable store across the full 32-bit address space, little
// endian, returning zero for any byte never written. Unlike the teacher's
// fixed [4*1024*1024]uint32 array (emu/memory), the address space here is
// covered by a map so a program linked at textStart = 0x00010000 doesn't
// force a multi-megabyte allocation.
package memory

import "sort"

// RAM is the sparse byte store; the registered memReadData output lives in
// Component.
type RAM struct {
	bytes map[uint32]byte
}

// New constructs an empty RAM, all bytes reading as zero.
func New() *RAM {
	return &RAM{bytes: make(map[uint32]byte)}
}

// LoadByte reads a single byte, unwritten addresses reading as zero.
func (m *RAM) LoadByte(addr uint32) byte {
	return m.bytes[addr]
}

// StoreByte writes a single byte.
func (m *RAM) StoreByte(addr uint32, v byte) {
	if v == 0 {
		delete(m.bytes, addr) // keep the sparse map from growing on zero-fill
		return
	}
	m.bytes[addr] = v
}

// Load reads size (1, 2, or 4) bytes starting at addr in little-endian
// order and returns them as an unsigned integer in [0, 2^(8*size)).
func (m *RAM) Load(addr uint32, size int) uint32 {
	var v uint32
	for i := 0; i < size; i++ {
		v |= uint32(m.LoadByte(addr+uint32(i))) << (8 * i)
	}
	return v
}

// Store writes the low size bytes of value at addr in little-endian order.
func (m *RAM) Store(addr uint32, size int, value uint32) {
	for i := 0; i < size; i++ {
		m.StoreByte(addr+uint32(i), byte(value>>(8*i)))
	}
}

// LoadWord is a convenience used for direct inspection (Engine.RAMWord)
// and by Range.
func (m *RAM) LoadWord(addr uint32) uint32 {
	return m.Load(addr, 4)
}

// StoreWord is a convenience used when loading an assembled program.
func (m *RAM) StoreWord(addr uint32, value uint32) {
	m.Store(addr, 4, value)
}

// Range calls fn once per distinct word-aligned address with a non-zero
// byte present, in ascending address order, for sparse iteration (spec.md
// §6 "Read-only accessors for ... RAM (sparse iteration)"). Bytes are
// grouped to the word containing them; a word with any non-zero byte is
// visited exactly once.
func (m *RAM) Range(fn func(addr uint32, word uint32)) {
	seen := make(map[uint32]bool)
	words := make([]uint32, 0, len(m.bytes))
	for addr := range m.bytes {
		wordAddr := addr &^ 3
		if !seen[wordAddr] {
			seen[wordAddr] = true
			words = append(words, wordAddr)
		}
	}
	sort.Slice(words, func(i, j int) bool { return words[i] < words[j] })
	for _, wordAddr := range words {
		fn(wordAddr, m.LoadWord(wordAddr))
	}
}
