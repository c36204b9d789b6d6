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

package assemble

import (
	"errors"
	"testing"
)

func words(t *testing.T, prog *Program) []uint32 {
	t.Helper()
	out := make([]uint32, len(prog.Words))
	for i, w := range prog.Words {
		out[i] = w.Value
	}
	return out
}

func TestAssembleBasicInstruction(t *testing.T) {
	prog, err := Assemble("addi x5, x0, -1\nhalt\n", 0x10000)
	if err != nil {
		t.Fatal(err)
	}
	ws := words(t, prog)
	if len(ws) != 2 {
		t.Fatalf("got %d words, want 2", len(ws))
	}
	if ws[0] != 0xFFF00293 {
		t.Errorf("addi encoding = %#x, want 0xFFF00293", ws[0])
	}
	if ws[1] != 0 {
		t.Errorf("halt encoding = %#x, want 0", ws[1])
	}
}

func TestAssembleLabelsAndBranch(t *testing.T) {
	src := `
loop:
	addi x5, x5, -1
	bne x5, x0, loop
	halt
`
	prog, err := Assemble(src, 0x10000)
	if err != nil {
		t.Fatal(err)
	}
	ws := words(t, prog)
	if len(ws) != 3 {
		t.Fatalf("got %d words, want 3", len(ws))
	}
	// bne loop is at 0x10004, loop: is at 0x10000, so the branch displacement is -4.
	wantBNE := uint32(0xFE029EE3)
	if ws[1] != wantBNE {
		t.Errorf("bne encoding = %#x, want %#x", ws[1], wantBNE)
	}
	if prog.Labels["loop"] != 0x10000 {
		t.Errorf("loop label = %#x, want 0x10000", prog.Labels["loop"])
	}
}

func TestAssemblePseudoOps(t *testing.T) {
	src := "nop\nhalt\nret\nmv x5, x6\nli x7, -5\nj foo\nfoo:\nhalt\n"
	prog, err := Assemble(src, 0x10000)
	if err != nil {
		t.Fatal(err)
	}
	ws := words(t, prog)
	if ws[0] != 0x00000013 { // addi x0,x0,0
		t.Errorf("nop = %#x, want 0x00000013", ws[0])
	}
	if ws[1] != 0 {
		t.Errorf("halt = %#x, want 0", ws[1])
	}
	if ws[2] != 0x00008067 { // jalr x0, 0(x1)
		t.Errorf("ret = %#x, want 0x00008067", ws[2])
	}
}

func TestAssembleDisplacementLoadStore(t *testing.T) {
	src := "sw x6, 0(x0)\nlw x7, 0(x0)\n"
	prog, err := Assemble(src, 0x10000)
	if err != nil {
		t.Fatal(err)
	}
	ws := words(t, prog)
	if ws[0] != 0x00602023 {
		t.Errorf("sw = %#x, want 0x00602023", ws[0])
	}
	if ws[1] != 0x00002383 {
		t.Errorf("lw = %#x, want 0x00002383", ws[1])
	}
}

func TestAssembleDataDirectives(t *testing.T) {
	src := ".data\nbuf:\n.byte 0x11, 0x22\n.word 0xDEADBEEF\n.text\nnop\n"
	prog, err := AssembleAt(src, 0x10000, 0x20000)
	if err != nil {
		t.Fatal(err)
	}
	if prog.Labels["buf"] != 0x20000 {
		t.Errorf("buf label = %#x, want 0x20000", prog.Labels["buf"])
	}
	if len(prog.Data) != 6 {
		t.Fatalf("got %d data bytes, want 6", len(prog.Data))
	}
	if prog.Data[0].Value != 0x11 || prog.Data[1].Value != 0x22 {
		t.Errorf("byte directive values = %#x, %#x, want 0x11, 0x22", prog.Data[0].Value, prog.Data[1].Value)
	}
	// .word 0xDEADBEEF little-endian: EF BE AD DE
	wantWord := []byte{0xEF, 0xBE, 0xAD, 0xDE}
	for i, b := range wantWord {
		if prog.Data[2+i].Value != b {
			t.Errorf("word byte %d = %#x, want %#x", i, prog.Data[2+i].Value, b)
		}
	}
}

func TestAssembleUndefinedMnemonic(t *testing.T) {
	_, err := Assemble("frobnicate x1, x2, x3\n", 0x10000)
	if !errors.Is(err, ErrUndefinedMnemonic) {
		t.Errorf("err = %v, want ErrUndefinedMnemonic", err)
	}
	var asmErr *Error
	if !errors.As(err, &asmErr) {
		t.Fatalf("err is not *Error: %v", err)
	}
	if asmErr.Line != 1 {
		t.Errorf("error line = %d, want 1", asmErr.Line)
	}
}

func TestAssembleUndefinedLabel(t *testing.T) {
	_, err := Assemble("j nowhere\n", 0x10000)
	if !errors.Is(err, ErrUndefinedLabel) {
		t.Errorf("err = %v, want ErrUndefinedLabel", err)
	}
}

func TestAssembleImmediateOutOfRange(t *testing.T) {
	_, err := Assemble("addi x5, x0, 5000\n", 0x10000)
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("err = %v, want ErrSyntax", err)
	}
}

func TestAssembleRType(t *testing.T) {
	prog, err := Assemble("add x1, x2, x3\nsub x1, x2, x3\nand x1, x2, x3\n", 0x10000)
	if err != nil {
		t.Fatal(err)
	}
	ws := words(t, prog)
	if ws[0] != encodeR(0b0110011, 0, 0, 1, 2, 3) {
		t.Errorf("add encoding mismatch: %#x", ws[0])
	}
	if ws[1] != encodeR(0b0110011, 0, 0b0100000, 1, 2, 3) {
		t.Errorf("sub encoding mismatch: %#x", ws[1])
	}
	if ws[2] != encodeR(0b0110011, 0b111, 0, 1, 2, 3) {
		t.Errorf("and encoding mismatch: %#x", ws[2])
	}
}

func TestAssembleUType(t *testing.T) {
	// spec.md §8 scenario 2: lui x28, 100000 -> 0x186A0E37.
	prog, err := Assemble("lui x28, 100000\n", 0x10000)
	if err != nil {
		t.Fatal(err)
	}
	ws := words(t, prog)
	if ws[0] != 0x186A0E37 {
		t.Errorf("lui encoding = %#x, want 0x186A0E37", ws[0])
	}
}

func TestAssembleABIRegisterNames(t *testing.T) {
	prog, err := Assemble("add sp, zero, ra\n", 0x10000)
	if err != nil {
		t.Fatal(err)
	}
	ws := words(t, prog)
	if ws[0] != encodeR(0b0110011, 0, 0, 2, 0, 1) {
		t.Errorf("ABI-name add encoding mismatch: %#x", ws[0])
	}
}
