/*
 * rv32sim - Truth table decoder
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

// Package truthtable implements the ordered, don't-care pattern matcher
// that backs every control-signal decode table in ControlFSM. Tables are
// data, parsed once from MSB-first "0"/"1"/"X" strings and matched many
// times; this keeps the decode tables of spec.md §4.1 as the literal
// source of truth rather than scattering them across switch statements.
package truthtable

import "fmt"

// pattern is one parsed row key: for every input column, the required bit
// value (0/1) or -1 for don't-care, MSB-first.
type pattern []int8

func parsePattern(s string) pattern {
	p := make(pattern, len(s))
	for i, c := range s {
		switch c {
		case '0':
			p[i] = 0
		case '1':
			p[i] = 1
		case 'X', 'x':
			p[i] = -1
		default:
			panic(fmt.Sprintf("truthtable: invalid pattern character %q in %q", c, s))
		}
	}
	return p
}

func (p pattern) matches(bitsMSBFirst []uint8) bool {
	if len(p) != len(bitsMSBFirst) {
		return false
	}
	for i, want := range p {
		if want == -1 {
			continue
		}
		if uint8(want) != bitsMSBFirst[i] {
			return false
		}
	}
	return true
}

// row is one table entry: one pattern per input column, plus the value to
// return on a match.
type row struct {
	cols  []pattern
	value any
}

// Table is an ordered, don't-care pattern matcher. Rows are matched in
// insertion order; the first full match wins.
type Table struct {
	rows []row
}

// New builds an empty Table.
func New() *Table {
	return &Table{}
}

// Add appends a row. patterns gives one MSB-first "0"/"1"/"X" string per
// input column, in the same order Lookup's columns will be given.
func (t *Table) Add(value any, patterns ...string) *Table {
	r := row{value: value}
	for _, p := range patterns {
		r.cols = append(r.cols, parsePattern(p))
	}
	t.rows = append(t.rows, r)
	return t
}

// toMSBBits turns a column's string ("0"/"1" only) into a []uint8 MSB-first.
func toMSBBits(s string) []uint8 {
	out := make([]uint8, len(s))
	for i, c := range s {
		if c == '1' {
			out[i] = 1
		} else if c != '0' {
			panic(fmt.Sprintf("truthtable: lookup column %q has non-binary character", s))
		}
	}
	return out
}

// Lookup scans rows in insertion order and returns the value of the first
// row whose every column pattern matches the corresponding input column
// (columns given as MSB-first "0"/"1" strings, equal widths required with
// the row's pattern for that column). Lookup panics if no row matches —
// per spec.md §7, an unmatched lookup on a table without a catch-all row
// is a programmer error, not a runtime condition to recover from.
func (t *Table) Lookup(cols ...string) any {
	inputs := make([][]uint8, len(cols))
	for i, c := range cols {
		inputs[i] = toMSBBits(c)
	}
	for _, r := range t.rows {
		if len(r.cols) != len(inputs) {
			continue
		}
		ok := true
		for i, p := range r.cols {
			if !p.matches(inputs[i]) {
				ok = false
				break
			}
		}
		if ok {
			return r.value
		}
	}
	panic(fmt.Sprintf("truthtable: no row matched columns %v", cols))
}

// TryLookup is Lookup without the panic, for callers (ControlFSM) that need
// to turn "no match" into a simulation error per spec.md §7 kind 2 instead
// of a programmer-error panic. ok is false when no row matched.
func (t *Table) TryLookup(cols ...string) (value any, ok bool) {
	inputs := make([][]uint8, len(cols))
	for i, c := range cols {
		inputs[i] = toMSBBits(c)
	}
	for _, r := range t.rows {
		if len(r.cols) != len(inputs) {
			continue
		}
		matched := true
		for i, p := range r.cols {
			if !p.matches(inputs[i]) {
				matched = false
				break
			}
		}
		if matched {
			return r.value, true
		}
	}
	return nil, false
}
