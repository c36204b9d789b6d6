/*
 * rv32sim - Initial machine state parser
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

// Package initstate parses the initial-machine-state file described by
// SPEC_FULL.md §9.3: a small line-oriented DSL for describing register and
// memory contents that exist before the first tick, outside of whatever an
// assembled program establishes. Adapted from the teacher's
// config/configparser line scanner (bufio reading, unicode classification,
// a position-tracked line struct) and repurposed from device configuration
// to machine state.
//
// File format:
//
//	'#' indicates comment, rest of line is ignored.
//	<line> := 'textStart' '=' <hexnumber> |
//	          'reg' <regname> '=' <hexnumber> |
//	          'mem' <hexnumber> '=' <hexnumber>
//	<regname> ::= 'x' <number> | <abi-name>
//	<hexnumber> ::= '0x' <hexdigit>+ | <number>
package initstate

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// ErrSyntax covers malformed lines: unknown keyword, missing '=', bad
// register name, or an unparsable number.
var ErrSyntax = errors.New("initstate: syntax error")

// State is the parsed result: an optional program counter origin, a sparse
// register overlay, and a sparse word-addressed memory overlay. A nil
// TextStart means the file never set one; the caller's own default applies.
type State struct {
	TextStart *uint32
	Registers map[uint8]uint32
	Memory    map[uint32]uint32
}

// regNames maps ABI register names to their x-register number, mirroring
// the assembler's table so the same names work in both places.
var regNames = map[string]uint8{
	"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
	"t0": 5, "t1": 6, "t2": 7, "s0": 8, "fp": 8, "s1": 9,
	"a0": 10, "a1": 11, "a2": 12, "a3": 13, "a4": 14, "a5": 15, "a6": 16, "a7": 17,
	"s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23,
	"s8": 24, "s9": 25, "s10": 26, "s11": 27,
	"t3": 28, "t4": 29, "t5": 30, "t6": 31,
}

// stateLine is the current line being parsed, position tracked for error
// columns, following the teacher's optionLine idiom.
type stateLine struct {
	text string
	pos  int
	num  int
}

// Load reads an initial-state file from disk, per spec.md §6's optional
// "-init" driver flag.
func Load(name string) (*State, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads an initial-state description from r.
func Parse(r io.Reader) (*State, error) {
	st := &State{Registers: map[uint8]uint32{}, Memory: map[uint32]uint32{}}

	scanner := bufio.NewScanner(r)
	num := 0
	for scanner.Scan() {
		num++
		l := &stateLine{text: scanner.Text(), num: num}
		if err := l.parse(st); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return st, nil
}

func (l *stateLine) parse(st *State) error {
	l.skipSpace()
	if l.isEOL() {
		return nil
	}

	keyword := strings.ToLower(l.word())
	switch keyword {
	case "":
		return &lineError{l.num, l.col(), fmt.Errorf("%w: expected keyword", ErrSyntax)}
	case "textstart":
		v, err := l.parseAssignedNumber()
		if err != nil {
			return &lineError{l.num, l.col(), err}
		}
		val := uint32(v)
		st.TextStart = &val
		return nil
	case "reg":
		return l.parseReg(st)
	case "mem":
		return l.parseMem(st)
	default:
		return &lineError{l.num, l.col(), fmt.Errorf("%w: unknown keyword %q", ErrSyntax, keyword)}
	}
}

func (l *stateLine) parseReg(st *State) error {
	l.skipSpace()
	name := strings.ToLower(l.word())
	if name == "" {
		return &lineError{l.num, l.col(), fmt.Errorf("%w: expected register name", ErrSyntax)}
	}
	reg, ok := l.resolveReg(name)
	if !ok {
		return &lineError{l.num, l.col(), fmt.Errorf("%w: invalid register %q", ErrSyntax, name)}
	}
	v, err := l.parseAssignedNumber()
	if err != nil {
		return &lineError{l.num, l.col(), err}
	}
	st.Registers[reg] = uint32(v)
	return nil
}

func (l *stateLine) resolveReg(name string) (uint8, bool) {
	if len(name) > 1 && (name[0] == 'x') {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 0 && n <= 31 {
			return uint8(n), true
		}
	}
	if n, ok := regNames[name]; ok {
		return n, true
	}
	return 0, false
}

func (l *stateLine) parseMem(st *State) error {
	l.skipSpace()
	addrTok := l.word()
	if addrTok == "" {
		return &lineError{l.num, l.col(), fmt.Errorf("%w: expected memory address", ErrSyntax)}
	}
	addr, err := strconv.ParseUint(addrTok, 0, 32)
	if err != nil {
		return &lineError{l.num, l.col(), fmt.Errorf("%w: bad address %q", ErrSyntax, addrTok)}
	}
	v, err := l.parseAssignedNumber()
	if err != nil {
		return &lineError{l.num, l.col(), err}
	}
	st.Memory[uint32(addr)] = uint32(v)
	return nil
}

// parseAssignedNumber consumes "= <number>" and returns the number.
func (l *stateLine) parseAssignedNumber() (uint64, error) {
	l.skipSpace()
	if l.pos >= len(l.text) || l.text[l.pos] != '=' {
		return 0, fmt.Errorf("%w: expected '='", ErrSyntax)
	}
	l.pos++
	l.skipSpace()
	tok := l.word()
	if tok == "" {
		return 0, fmt.Errorf("%w: expected number", ErrSyntax)
	}
	v, err := strconv.ParseUint(tok, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, tok)
	}
	return v, nil
}

func (l *stateLine) skipSpace() {
	for l.pos < len(l.text) && unicode.IsSpace(rune(l.text[l.pos])) {
		l.pos++
	}
}

func (l *stateLine) isEOL() bool {
	return l.pos >= len(l.text) || l.text[l.pos] == '#'
}

func (l *stateLine) col() int { return l.pos + 1 }

// word reads an identifier or number token: letters, digits, 'x', '_'.
func (l *stateLine) word() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.text) {
		c := rune(l.text[l.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		l.pos++
	}
	return l.text[start:l.pos]
}

// lineError reports a source position alongside the underlying problem,
// following internal/assemble.Error's shape.
type lineError struct {
	Line, Col int
	Err       error
}

func (e *lineError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Col, e.Err)
}

func (e *lineError) Unwrap() error { return e.Err }
