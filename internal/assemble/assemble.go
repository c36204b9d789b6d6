/*
 * rv32sim - RV32I assembler front-end
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

// Package assemble implements the RV32I assembler front-end of spec.md §6:
// a textual dialect with labels, a small set of pseudo-ops, the lw-style
// displacement form, and data directives. Grounded on the teacher's
// emu/assemble.Assemble: a hand-rolled line tokenizer (skipSpace/getName/
// getNumber) feeding an opcode table, rather than a generated parser, kept
// here for RV32I's simpler, fixed-width instruction set. Label resolution
// is two-pass, as spec.md §6 requires.
package assemble

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrUndefinedMnemonic is returned for an opcode/pseudo-op not in the table.
var ErrUndefinedMnemonic = errors.New("assemble: undefined mnemonic")

// ErrUndefinedLabel is returned when a branch/jump/data reference names a
// label that pass 1 never recorded.
var ErrUndefinedLabel = errors.New("assemble: undefined label")

// ErrSyntax covers malformed operand lists: wrong arity, bad register name,
// out-of-range immediate, unterminated string, and similar.
var ErrSyntax = errors.New("assemble: syntax error")

// DefaultDataStart is the conventional origin of the data segment when a
// source file never names one explicitly, analogous to MARS/Venus's
// 0x10010000 static-data origin.
const DefaultDataStart uint32 = 0x1001_0000

// Word is one assembled text-segment instruction, paired with the source
// line it came from (spec.md §6: "a list of (sourceLine, machineWord)
// pairs").
type Word struct {
	Line  int
	Addr  uint32
	Value uint32
}

// DataByte is one assembled data-segment byte.
type DataByte struct {
	Line  int
	Addr  uint32
	Value byte
}

// Program is the assembler's output: the text segment as (line, word)
// pairs ready for Engine.SetCode, plus the data segment as individual
// bytes (callers needing words can re-pack via the address).
type Program struct {
	TextStart uint32
	DataStart uint32
	Words     []Word
	Data      []DataByte
	Labels    map[string]uint32
}

// Error reports a source position alongside the underlying problem,
// per spec.md §7 kind 5: "Assembler errors are surfaced with line/column
// context by the front-end, never by the engine."
type Error struct {
	Line, Col int
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Col, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// segment identifies which counter a line's bytes/words are placed under.
type segment int

const (
	segText segment = iota
	segData
)

// regNames maps ABI register names to their x-register number, in addition
// to the plain x0..x31 spelling every line accepts.
var regNames = map[string]uint8{
	"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
	"t0": 5, "t1": 6, "t2": 7, "s0": 8, "fp": 8, "s1": 9,
	"a0": 10, "a1": 11, "a2": 12, "a3": 13, "a4": 14, "a5": 15, "a6": 16, "a7": 17,
	"s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23,
	"s8": 24, "s9": 25, "s10": 26, "s11": 27,
	"t3": 28, "t4": 29, "t5": 30, "t6": 31,
}

// instType identifies the operand shape an opcode's row parses.
type instType int

const (
	tyR      instType = iota // add rd, rs1, rs2
	tyIArith                 // addi rd, rs1, imm
	tyIShift                 // slli rd, rs1, shamt (funct7 selects variant)
	tyILoad                  // lb rd, imm(rs1)
	tyS                      // sb rs2, imm(rs1)
	tyB                      // beq rs1, rs2, label
	tyU                      // lui rd, imm
	tyJ                      // jal rd, label
	tyJALR                   // jalr rd, imm(rs1)
)

type opDef struct {
	ty             instType
	opcode         uint32
	funct3         uint32
	funct7         uint32 // alt-form bit for R/shift types
}

var opTable = map[string]opDef{
	"add": {tyR, 0b0110011, 0b000, 0}, "sub": {tyR, 0b0110011, 0b000, 0b0100000},
	"sll": {tyR, 0b0110011, 0b001, 0}, "slt": {tyR, 0b0110011, 0b010, 0},
	"sltu": {tyR, 0b0110011, 0b011, 0}, "xor": {tyR, 0b0110011, 0b100, 0},
	"srl": {tyR, 0b0110011, 0b101, 0}, "sra": {tyR, 0b0110011, 0b101, 0b0100000},
	"or": {tyR, 0b0110011, 0b110, 0}, "and": {tyR, 0b0110011, 0b111, 0},

	"addi": {tyIArith, 0b0010011, 0b000, 0}, "slti": {tyIArith, 0b0010011, 0b010, 0},
	"sltiu": {tyIArith, 0b0010011, 0b011, 0}, "xori": {tyIArith, 0b0010011, 0b100, 0},
	"ori": {tyIArith, 0b0010011, 0b110, 0}, "andi": {tyIArith, 0b0010011, 0b111, 0},
	"slli": {tyIShift, 0b0010011, 0b001, 0}, "srli": {tyIShift, 0b0010011, 0b101, 0},
	"srai": {tyIShift, 0b0010011, 0b101, 0b0100000},

	"lb": {tyILoad, 0b0000011, 0b000, 0}, "lh": {tyILoad, 0b0000011, 0b001, 0},
	"lw": {tyILoad, 0b0000011, 0b010, 0}, "lbu": {tyILoad, 0b0000011, 0b100, 0},
	"lhu": {tyILoad, 0b0000011, 0b101, 0},

	"sb": {tyS, 0b0100011, 0b000, 0}, "sh": {tyS, 0b0100011, 0b001, 0}, "sw": {tyS, 0b0100011, 0b010, 0},

	"beq": {tyB, 0b1100011, 0b000, 0}, "bne": {tyB, 0b1100011, 0b001, 0},
	"blt": {tyB, 0b1100011, 0b100, 0}, "bge": {tyB, 0b1100011, 0b101, 0},
	"bltu": {tyB, 0b1100011, 0b110, 0}, "bgeu": {tyB, 0b1100011, 0b111, 0},

	"lui": {tyU, 0b0110111, 0, 0}, "auipc": {tyU, 0b0010111, 0, 0},
	"jal": {tyJ, 0b1101111, 0, 0},
	"jalr": {tyJALR, 0b1100111, 0b000, 0},
}

// pseudoOps names the supported pseudo-instructions of spec.md §6; they
// are expanded during pass 2 once labels are known.
var pseudoOps = map[string]bool{"mv": true, "li": true, "j": true, "nop": true, "ret": true, "halt": true}

// line is one tokenized source line, position tracked for error columns.
type line struct {
	text string
	pos  int
	num  int
}

func (l *line) col() int { return l.pos + 1 }

func (l *line) skipSpace() {
	for l.pos < len(l.text) && unicode.IsSpace(rune(l.text[l.pos])) {
		l.pos++
	}
}

func (l *line) eol() bool {
	l.skipSpace()
	return l.pos >= len(l.text) || l.text[l.pos] == '#'
}

// word reads an identifier or number token: letters, digits, '_', '.', '-'.
func (l *line) word() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.text) {
		c := rune(l.text[l.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' && c != '.' && c != '-' {
			break
		}
		l.pos++
	}
	return l.text[start:l.pos]
}

func (l *line) expect(c byte) error {
	l.skipSpace()
	if l.pos >= len(l.text) || l.text[l.pos] != c {
		return fmt.Errorf("%w: expected %q", ErrSyntax, c)
	}
	l.pos++
	return nil
}

// parsedLine is one assembler statement after label stripping.
type parsedLine struct {
	num   int
	label string // label defined on this line, "" if none
	mnem  string // mnemonic/directive, "" if label-only line
	rest  *line  // remaining tokens after the mnemonic
}

// Assemble runs the two-pass assembler over src, placing the text segment
// starting at textStart and the data segment starting at DefaultDataStart.
func Assemble(src string, textStart uint32) (*Program, error) {
	return AssembleAt(src, textStart, DefaultDataStart)
}

// AssembleAt is Assemble with an explicit data-segment origin.
func AssembleAt(src string, textStart, dataStart uint32) (*Program, error) {
	lines, err := splitStatements(src)
	if err != nil {
		return nil, err
	}

	labels := map[string]uint32{}
	seg := segText
	textPC, dataPC := textStart, dataStart

	// Pass 1: record every label's address; advance the per-segment
	// program counter by each instruction's or directive's fixed size.
	for _, pl := range lines {
		if pl.label != "" {
			if seg == segText {
				labels[pl.label] = textPC
			} else {
				labels[pl.label] = dataPC
			}
		}
		if pl.mnem == "" {
			continue
		}
		switch strings.ToLower(pl.mnem) {
		case ".text":
			seg = segText
			continue
		case ".data":
			seg = segData
			continue
		}
		curPC := textPC
		if seg == segData {
			curPC = dataPC
		}
		size, err := statementSize(pl, seg, curPC)
		if err != nil {
			return nil, err
		}
		if seg == segText {
			textPC += size
		} else {
			dataPC += size
		}
	}

	// Pass 2: emit, now that every label resolves.
	prog := &Program{TextStart: textStart, DataStart: dataStart, Labels: labels}
	seg = segText
	textPC, dataPC = textStart, dataStart
	for _, pl := range lines {
		if pl.mnem == "" {
			continue
		}
		low := strings.ToLower(pl.mnem)
		if low == ".text" {
			seg = segText
			continue
		}
		if low == ".data" {
			seg = segData
			continue
		}
		if seg == segData || strings.HasPrefix(low, ".") {
			curPC := &dataPC
			if seg == segText {
				curPC = &textPC
			}
			nb, err := emitDirective(pl, *curPC, labels)
			if err != nil {
				return nil, err
			}
			for _, b := range nb {
				prog.Data = append(prog.Data, DataByte{Line: pl.num, Addr: *curPC, Value: b})
				*curPC++
			}
			continue
		}
		words, err := emitInstruction(pl, textPC, labels)
		if err != nil {
			return nil, err
		}
		for _, w := range words {
			prog.Words = append(prog.Words, Word{Line: pl.num, Addr: textPC, Value: w})
			textPC += 4
		}
	}
	return prog, nil
}

// splitStatements tokenizes src into one parsedLine per source line,
// stripping comments and an optional leading "label:".
func splitStatements(src string) ([]parsedLine, error) {
	var out []parsedLine
	for i, raw := range strings.Split(src, "\n") {
		num := i + 1
		l := &line{text: raw, num: num}
		if l.eol() {
			continue
		}

		pl := parsedLine{num: num}
		// A label is "<name>:" at the start of the statement.
		savedPos := l.pos
		name := l.word()
		l.skipSpace()
		if name != "" && l.pos < len(l.text) && l.text[l.pos] == ':' {
			l.pos++
			pl.label = name
			if l.eol() {
				out = append(out, pl)
				continue
			}
		} else {
			l.pos = savedPos
		}

		mnem := l.word()
		if mnem == "" {
			return nil, &Error{Line: num, Col: l.col(), Err: fmt.Errorf("%w: expected instruction or directive", ErrSyntax)}
		}
		pl.mnem = mnem
		pl.rest = l
		out = append(out, pl)
	}
	return out, nil
}

func statementSize(pl parsedLine, seg segment, addr uint32) (uint32, error) {
	low := strings.ToLower(pl.mnem)
	if seg == segText && !strings.HasPrefix(low, ".") {
		if low == "halt" {
			return 4, nil
		}
		return 4, nil // every RV32I instruction and every supported pseudo-op is one word
	}
	switch low {
	case ".byte":
		return uint32(countList(pl.rest)), nil
	case ".half":
		return uint32(countList(pl.rest)) * 2, nil
	case ".word", ".dword":
		mul := uint32(4)
		if low == ".dword" {
			mul = 8
		}
		return uint32(countList(pl.rest)) * mul, nil
	case ".string":
		save := pl.rest.pos
		s, err := readStringLiteral(pl.rest)
		pl.rest.pos = save
		if err != nil {
			return 0, &Error{Line: pl.num, Col: pl.rest.col(), Err: err}
		}
		return uint32(len(s)) + 1, nil
	case ".align":
		save := pl.rest.pos
		n, err := parseIntList(pl)
		pl.rest.pos = save
		if err != nil || len(n) != 1 {
			return 0, &Error{Line: pl.num, Col: 1, Err: fmt.Errorf("%w: .align takes one operand", ErrSyntax)}
		}
		boundary := uint32(1) << uint(n[0])
		return (boundary - (addr % boundary)) % boundary, nil
	default:
		return 0, &Error{Line: pl.num, Col: 1, Err: fmt.Errorf("%w: %s", ErrUndefinedMnemonic, pl.mnem)}
	}
}

func countList(l *line) int {
	if l == nil || l.eol() {
		return 0
	}
	n := 0
	save := l.pos
	for {
		l.word()
		n++
		l.skipSpace()
		if l.pos >= len(l.text) || l.text[l.pos] != ',' {
			break
		}
		l.pos++
	}
	l.pos = save
	return n
}

func readStringLiteral(l *line) (string, error) {
	l.skipSpace()
	if l.pos >= len(l.text) || l.text[l.pos] != '"' {
		return "", fmt.Errorf("%w: expected quoted string", ErrSyntax)
	}
	l.pos++
	var sb strings.Builder
	for {
		if l.pos >= len(l.text) {
			return "", fmt.Errorf("%w: unterminated string", ErrSyntax)
		}
		c := l.text[l.pos]
		if c == '"' {
			l.pos++
			return sb.String(), nil
		}
		if c == '\\' && l.pos+1 < len(l.text) {
			l.pos++
			switch l.text[l.pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '0':
				sb.WriteByte(0)
			default:
				sb.WriteByte(l.text[l.pos])
			}
			l.pos++
			continue
		}
		sb.WriteByte(c)
		l.pos++
	}
}

func emitDirective(pl parsedLine, addr uint32, labels map[string]uint32) ([]byte, error) {
	low := strings.ToLower(pl.mnem)
	switch low {
	case ".byte":
		vals, err := parseIntList(pl)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(vals))
		for i, v := range vals {
			out[i] = byte(v)
		}
		return out, nil
	case ".half":
		vals, err := parseIntList(pl)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(vals)*2)
		for _, v := range vals {
			out = append(out, byte(v), byte(v>>8))
		}
		return out, nil
	case ".word":
		vals, err := parseIntListWithLabels(pl, labels)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(vals)*4)
		for _, v := range vals {
			out = append(out, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
		}
		return out, nil
	case ".dword":
		vals, err := parseIntList(pl)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(vals)*8)
		for _, v := range vals {
			for i := 0; i < 8; i++ {
				out = append(out, byte(v>>(8*i)))
			}
		}
		return out, nil
	case ".string":
		s, err := readStringLiteral(pl.rest)
		if err != nil {
			return nil, &Error{Line: pl.num, Col: pl.rest.col(), Err: err}
		}
		return append([]byte(s), 0), nil
	case ".align":
		n, err := parseIntList(pl)
		if err != nil || len(n) != 1 {
			return nil, &Error{Line: pl.num, Col: 1, Err: fmt.Errorf("%w: .align takes one operand", ErrSyntax)}
		}
		boundary := uint32(1) << uint(n[0])
		pad := (boundary - (addr % boundary)) % boundary
		return make([]byte, pad), nil
	default:
		return nil, &Error{Line: pl.num, Col: 1, Err: fmt.Errorf("%w: %s", ErrUndefinedMnemonic, pl.mnem)}
	}
}

func parseIntList(pl parsedLine) ([]int64, error) {
	return parseIntListWithLabels(pl, nil)
}

func parseIntListWithLabels(pl parsedLine, labels map[string]uint32) ([]int64, error) {
	l := pl.rest
	var out []int64
	for {
		l.skipSpace()
		if l.eol() {
			break
		}
		tok := l.word()
		if tok == "" {
			return nil, &Error{Line: pl.num, Col: l.col(), Err: fmt.Errorf("%w: expected value", ErrSyntax)}
		}
		if v, ok := labels[tok]; ok {
			out = append(out, int64(v))
		} else {
			n, err := strconv.ParseInt(tok, 0, 64)
			if err != nil {
				return nil, &Error{Line: pl.num, Col: l.col(), Err: fmt.Errorf("%w: %s", ErrSyntax, tok)}
			}
			out = append(out, n)
		}
		l.skipSpace()
		if l.pos < len(l.text) && l.text[l.pos] == ',' {
			l.pos++
			continue
		}
		break
	}
	return out, nil
}

// parseReg reads a register operand: "x<n>" or an ABI name.
func parseReg(l *line) (uint8, error) {
	tok := l.word()
	if tok == "" {
		return 0, fmt.Errorf("%w: expected register", ErrSyntax)
	}
	if len(tok) > 1 && (tok[0] == 'x' || tok[0] == 'X') {
		if n, err := strconv.Atoi(tok[1:]); err == nil && n >= 0 && n <= 31 {
			return uint8(n), nil
		}
	}
	if n, ok := regNames[strings.ToLower(tok)]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("%w: invalid register %q", ErrSyntax, tok)
}

func parseImm(l *line, labels map[string]uint32, pcRelTo uint32) (int64, error) {
	l.skipSpace()
	start := l.pos
	neg := false
	if l.pos < len(l.text) && l.text[l.pos] == '-' {
		neg = true
		l.pos++
	}
	tok := l.word()
	if tok == "" {
		l.pos = start
		return 0, fmt.Errorf("%w: expected immediate or label", ErrSyntax)
	}
	if v, ok := labels[tok]; ok {
		rel := int64(v) - int64(pcRelTo)
		if neg {
			rel = -rel
		}
		return rel, nil
	}
	n, err := strconv.ParseInt(tok, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: undefined label or bad number %q", ErrUndefinedLabel, tok)
	}
	if neg {
		n = -n
	}
	return n, nil
}

// comma consumes a required ',' separator between operands.
func comma(l *line) error {
	l.skipSpace()
	if l.pos >= len(l.text) || l.text[l.pos] != ',' {
		return fmt.Errorf("%w: expected ','", ErrSyntax)
	}
	l.pos++
	return nil
}

// emitInstruction encodes one real or pseudo RV32I instruction at addr.
func emitInstruction(pl parsedLine, addr uint32, labels map[string]uint32) ([]uint32, error) {
	low := strings.ToLower(pl.mnem)
	l := pl.rest

	wrap := func(err error) ([]uint32, error) {
		if err == nil {
			return nil, nil
		}
		col := 1
		if l != nil {
			col = l.col()
		}
		return nil, &Error{Line: pl.num, Col: col, Err: err}
	}

	if pseudoOps[low] {
		return emitPseudo(low, l, addr, labels, pl, wrap)
	}

	op, ok := opTable[low]
	if !ok {
		return wrap(fmt.Errorf("%w: %s", ErrUndefinedMnemonic, pl.mnem))
	}

	switch op.ty {
	case tyR:
		rd, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		rs1, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		rs2, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		return []uint32{encodeR(op.opcode, op.funct3, op.funct7, rd, rs1, rs2)}, nil

	case tyIArith:
		rd, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		rs1, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		imm, err := parseImm(l, labels, 0)
		if err != nil {
			return wrap(err)
		}
		if imm < -2048 || imm > 2047 {
			return wrap(fmt.Errorf("%w: immediate %d out of 12-bit range", ErrSyntax, imm))
		}
		return []uint32{encodeI(op.opcode, op.funct3, rd, rs1, uint32(imm)&0xFFF)}, nil

	case tyIShift:
		rd, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		rs1, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		imm, err := parseImm(l, labels, 0)
		if err != nil {
			return wrap(err)
		}
		if imm < 0 || imm > 31 {
			return wrap(fmt.Errorf("%w: shift amount %d out of range", ErrSyntax, imm))
		}
		funct12 := (op.funct7 << 5) | uint32(imm)
		return []uint32{encodeI(op.opcode, op.funct3, rd, rs1, funct12)}, nil

	case tyILoad:
		rd, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		imm, rs1, err := parseDisplacement(l, labels)
		if err != nil {
			return wrap(err)
		}
		return []uint32{encodeI(op.opcode, op.funct3, rd, rs1, uint32(imm)&0xFFF)}, nil

	case tyS:
		rs2, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		imm, rs1, err := parseDisplacement(l, labels)
		if err != nil {
			return wrap(err)
		}
		return []uint32{encodeS(op.opcode, op.funct3, rs1, rs2, uint32(imm)&0xFFF)}, nil

	case tyB:
		rs1, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		rs2, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		imm, err := parseImm(l, labels, addr)
		if err != nil {
			return wrap(err)
		}
		return []uint32{encodeB(op.opcode, op.funct3, rs1, rs2, uint32(imm))}, nil

	case tyU:
		rd, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		imm, err := parseImm(l, labels, 0)
		if err != nil {
			return wrap(err)
		}
		return []uint32{encodeU(op.opcode, rd, uint32(imm))}, nil

	case tyJ:
		rd, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		imm, err := parseImm(l, labels, addr)
		if err != nil {
			return wrap(err)
		}
		return []uint32{encodeJ(op.opcode, rd, uint32(imm))}, nil

	case tyJALR:
		rd, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		imm, rs1, err := parseDisplacement(l, labels)
		if err != nil {
			return wrap(err)
		}
		return []uint32{encodeI(op.opcode, op.funct3, rd, rs1, uint32(imm)&0xFFF)}, nil
	}
	return wrap(fmt.Errorf("%w: %s", ErrUndefinedMnemonic, pl.mnem))
}

func emitPseudo(low string, l *line, addr uint32, labels map[string]uint32, pl parsedLine, wrap func(error) ([]uint32, error)) ([]uint32, error) {
	switch low {
	case "nop":
		return []uint32{encodeI(0b0010011, 0, 0, 0, 0)}, nil
	case "halt":
		return []uint32{0}, nil
	case "ret":
		return []uint32{encodeI(0b1100111, 0, 0, 1, 0)}, nil
	case "mv":
		rd, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		rs, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		return []uint32{encodeI(0b0010011, 0, rd, rs, 0)}, nil
	case "li":
		rd, err := parseReg(l)
		if err != nil {
			return wrap(err)
		}
		if err := comma(l); err != nil {
			return wrap(err)
		}
		imm, err := parseImm(l, labels, 0)
		if err != nil {
			return wrap(err)
		}
		if imm < -2048 || imm > 2047 {
			return wrap(fmt.Errorf("%w: li supports a 12-bit immediate, got %d", ErrSyntax, imm))
		}
		return []uint32{encodeI(0b0010011, 0, rd, 0, uint32(imm)&0xFFF)}, nil
	case "j":
		imm, err := parseImm(l, labels, addr)
		if err != nil {
			return wrap(err)
		}
		return []uint32{encodeJ(0b1101111, 0, uint32(imm))}, nil
	}
	return wrap(fmt.Errorf("%w: %s", ErrUndefinedMnemonic, low))
}

// parseDisplacement reads the "imm(rs1)" form shared by loads, stores, and jalr.
func parseDisplacement(l *line, labels map[string]uint32) (int64, uint8, error) {
	imm, err := parseImm(l, labels, 0)
	if err != nil {
		return 0, 0, err
	}
	l.skipSpace()
	if l.pos >= len(l.text) || l.text[l.pos] != '(' {
		return 0, 0, fmt.Errorf("%w: expected '(' in displacement form", ErrSyntax)
	}
	l.pos++
	rs1, err := parseReg(l)
	if err != nil {
		return 0, 0, err
	}
	l.skipSpace()
	if l.pos >= len(l.text) || l.text[l.pos] != ')' {
		return 0, 0, fmt.Errorf("%w: expected ')' in displacement form", ErrSyntax)
	}
	l.pos++
	return imm, rs1, nil
}

func encodeR(opcode, funct3, funct7 uint32, rd, rs1, rs2 uint8) uint32 {
	return opcode | uint32(rd)<<7 | funct3<<12 | uint32(rs1)<<15 | uint32(rs2)<<20 | funct7<<25
}

func encodeI(opcode, funct3 uint32, rd, rs1 uint8, imm12 uint32) uint32 {
	return opcode | uint32(rd)<<7 | funct3<<12 | uint32(rs1)<<15 | (imm12&0xFFF)<<20
}

func encodeS(opcode, funct3 uint32, rs1, rs2 uint8, imm12 uint32) uint32 {
	lo := imm12 & 0x1F
	hi := (imm12 >> 5) & 0x7F
	return opcode | lo<<7 | funct3<<12 | uint32(rs1)<<15 | uint32(rs2)<<20 | hi<<25
}

func encodeB(opcode, funct3 uint32, rs1, rs2 uint8, imm13 uint32) uint32 {
	b11 := (imm13 >> 11) & 1
	b4_1 := (imm13 >> 1) & 0xF
	b10_5 := (imm13 >> 5) & 0x3F
	b12 := (imm13 >> 12) & 1
	return opcode | b11<<7 | b4_1<<8 | funct3<<12 | uint32(rs1)<<15 | uint32(rs2)<<20 | b10_5<<25 | b12<<31
}

// encodeU takes imm20 as the raw 20-bit upper immediate (e.g. 100000 for
// "lui x28, 100000"), shifting it into bits[31:12] of the encoded word.
func encodeU(opcode uint32, rd uint8, imm20 uint32) uint32 {
	return opcode | uint32(rd)<<7 | ((imm20 << 12) & 0xFFFFF000)
}

func encodeJ(opcode uint32, rd uint8, imm21 uint32) uint32 {
	b19_12 := (imm21 >> 12) & 0xFF
	b11 := (imm21 >> 11) & 1
	b10_1 := (imm21 >> 1) & 0x3FF
	b20 := (imm21 >> 20) & 1
	return opcode | uint32(rd)<<7 | b19_12<<12 | b11<<20 | b10_1<<21 | b20<<31
}
