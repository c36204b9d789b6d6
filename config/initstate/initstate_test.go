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

package initstate

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFullFile(t *testing.T) {
	src := `
# initial machine state
textStart = 0x00010000
reg x2    = 0xBFFFFFF0
reg gp    = 0x10008000
mem 0x00010040 = 0xDEADBEEF
`
	st, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if st.TextStart == nil || *st.TextStart != 0x00010000 {
		t.Errorf("TextStart = %v, want 0x00010000", st.TextStart)
	}
	if st.Registers[2] != 0xBFFFFFF0 {
		t.Errorf("x2 = %#x, want 0xBFFFFFF0", st.Registers[2])
	}
	if st.Registers[3] != 0x10008000 {
		t.Errorf("gp = %#x, want 0x10008000 (ABI name resolves to x3)", st.Registers[3])
	}
	if st.Memory[0x00010040] != 0xDEADBEEF {
		t.Errorf("mem[0x10040] = %#x, want 0xDEADBEEF", st.Memory[0x00010040])
	}
}

func TestParseEmptyAndComments(t *testing.T) {
	st, err := Parse(strings.NewReader("# nothing here\n\n   # indented comment\n"))
	if err != nil {
		t.Fatal(err)
	}
	if st.TextStart != nil || len(st.Registers) != 0 || len(st.Memory) != 0 {
		t.Error("expected an empty State from a comment-only file")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown keyword", "frob x1 = 5\n"},
		{"bad register", "reg x99 = 1\n"},
		{"missing equals", "reg x5 0x10\n"},
		{"bad number", "mem 0x10 = zzz\n"},
		{"bad address", "mem nope = 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("err = %v, want ErrSyntax", err)
			}
			var le *lineError
			if !errors.As(err, &le) {
				t.Fatalf("err is not *lineError: %v", err)
			}
			if le.Line != 1 {
				t.Errorf("error line = %d, want 1", le.Line)
			}
		})
	}
}
