/*
 * rv32sim - Monitor command parser
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

// Package parser implements the interactive monitor commands of
// SPEC_FULL.md §10.1: break/delete/continue/run/step/reg/mem/disasm/show/
// quit, driving an internal/engine.Engine. Grounded on the teacher's
// command/parser.go: a minimum-match command table (matchCommand allows
// "br" for "break" once it is unambiguous), a position-tracked cmdLine
// tokenizer, and a ProcessCommand/CompleteCmd pair the REPL drives.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/olekukonko/tablewriter"

	"github.com/rcornwell/rv32sim/internal/controlfsm"
	"github.com/rcornwell/rv32sim/internal/disasm"
	"github.com/rcornwell/rv32sim/internal/engine"
	"github.com/rcornwell/rv32sim/util/hex"
)

// formatAddr32 and formatWord32 render the monitor's address/word columns
// through util/hex, the teacher's own hex-formatting package, instead of
// fmt.Sprintf's "%08x".
func formatAddr32(addr uint32) string {
	var sb strings.Builder
	hex.FormatAddr32(&sb, addr)
	return "0x" + sb.String()
}

func formatWord32(word uint32) string {
	var sb strings.Builder
	hex.FormatWord(&sb, []uint32{word})
	return "0x" + strings.TrimSpace(sb.String())
}

// ErrUnknownCommand is returned when no command name matches.
var ErrUnknownCommand = errors.New("parser: unknown command")

// ErrAmbiguousCommand is returned when more than one command name matches
// the given prefix.
var ErrAmbiguousCommand = errors.New("parser: ambiguous command")

// regNames mirrors the assembler's ABI register names, so "reg a0" and
// "reg x10" both work at the monitor prompt.
var regNames = map[string]uint8{
	"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
	"t0": 5, "t1": 6, "t2": 7, "s0": 8, "fp": 8, "s1": 9,
	"a0": 10, "a1": 11, "a2": 12, "a3": 13, "a4": 14, "a5": 15, "a6": 16, "a7": 17,
	"s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23,
	"s8": 24, "s9": 25, "s10": 26, "s11": 27,
	"t3": 28, "t4": 29, "t5": 30, "t6": 31,
}

// Monitor holds the engine being inspected plus the monitor's own state —
// breakpoints and an optional cycle tracer — which are debugger concerns,
// not engine semantics, and so live here rather than in internal/engine.
type Monitor struct {
	Engine  *engine.Engine
	Breaks  map[uint32]bool
	Tracer  interface {
		Flush()
	}
}

// NewMonitor constructs a Monitor around e with no breakpoints set.
func NewMonitor(e *engine.Engine) *Monitor {
	return &Monitor{Engine: e, Breaks: map[uint32]bool{}}
}

type cmd struct {
	name     string
	min      int
	process  func(*cmdLine, *Monitor) (bool, error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "break", min: 2, process: breakCmd},
	{name: "delete", min: 3, process: deleteCmd},
	{name: "continue", min: 1, process: cont},
	{name: "run", min: 1, process: run},
	{name: "step", min: 2, process: step},
	{name: "reg", min: 3, process: reg},
	{name: "mem", min: 3, process: mem},
	{name: "disasm", min: 3, process: disasmCmd},
	{name: "show", min: 2, process: show},
	{name: "quit", min: 1, process: quit},
}

// ProcessCommand executes one line of monitor input.
func ProcessCommand(commandLine string, mon *Monitor) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	if len(match) == 0 {
		return false, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if len(match) > 1 {
		return false, fmt.Errorf("%w: %s", ErrAmbiguousCommand, name)
	}
	return match[0].process(&line, mon)
}

// CompleteCmd completes a partial command name for line editing.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() && line.pos > 0 && line.line[line.pos-1] == ' ' {
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(&line)
	}

	match := matchList(name)
	out := make([]string, len(match))
	for i, m := range match {
		out[i] = m.name
	}
	return out
}

func matchCommand(c cmd, name string) bool {
	if len(name) > len(c.name) {
		return false
	}
	for i := 0; i < len(name); i++ {
		if c.name[i] != name[i] {
			return false
		}
	}
	return len(name) >= c.min
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var out []cmd
	for _, c := range cmdList {
		if matchCommand(c, name) {
			out = append(out, c)
		}
	}
	return out
}

func (l *cmdLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line) || l.line[l.pos] == '#'
}

func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) {
		c := rune(l.line[l.pos])
		if unicode.IsSpace(c) || c == '#' {
			break
		}
		l.pos++
	}
	return strings.ToLower(l.line[start:l.pos])
}

// getAddr reads a hex/decimal address token, "0x..." or plain decimal.
func (l *cmdLine) getAddr() (uint32, error) {
	tok := l.getWord()
	if tok == "" {
		return 0, fmt.Errorf("expected address")
	}
	v, err := strconv.ParseUint(tok, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", tok)
	}
	return uint32(v), nil
}

// getCount reads an optional decimal count, defaulting to def if absent.
func (l *cmdLine) getCount(def int) (int, error) {
	l.skipSpace()
	if l.isEOL() {
		return def, nil
	}
	tok := l.getWord()
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", tok)
	}
	return n, nil
}

func resolveReg(name string) (uint8, bool) {
	if len(name) > 1 && name[0] == 'x' {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 0 && n <= 31 {
			return uint8(n), true
		}
	}
	if n, ok := regNames[name]; ok {
		return n, true
	}
	return 0, false
}

func breakCmd(l *cmdLine, mon *Monitor) (bool, error) {
	addr, err := l.getAddr()
	if err != nil {
		return false, err
	}
	mon.Breaks[addr] = true
	slog.Info("breakpoint set", "addr", uint64(addr))
	return false, nil
}

func deleteCmd(l *cmdLine, mon *Monitor) (bool, error) {
	addr, err := l.getAddr()
	if err != nil {
		return false, err
	}
	delete(mon.Breaks, addr)
	slog.Info("breakpoint cleared", "addr", uint64(addr))
	return false, nil
}

// cont runs the engine until EndOfProgram, a decode error, or a breakpoint
// address is about to be fetched — the monitor's own layer over tick(),
// since breakpoints are not part of engine semantics.
func cont(_ *cmdLine, mon *Monitor) (bool, error) {
	for {
		if len(mon.Breaks) > 0 && mon.Engine.State() == controlfsm.Fetch && mon.Breaks[mon.Engine.PC()] {
			fmt.Printf("breakpoint at 0x%08x\n", mon.Engine.PC())
			return false, nil
		}
		more, err := mon.Engine.Tick()
		if err != nil {
			return false, err
		}
		if !more {
			fmt.Println("program terminated")
			return false, nil
		}
	}
}

// run ignores breakpoints: spec.md's run() is continue with none set.
func run(_ *cmdLine, mon *Monitor) (bool, error) {
	if err := mon.Engine.Run(); err != nil {
		return false, err
	}
	fmt.Println("program terminated")
	return false, nil
}

func step(l *cmdLine, mon *Monitor) (bool, error) {
	n, err := l.getCount(1)
	if err != nil {
		return false, err
	}
	for i := 0; i < n; i++ {
		more, err := mon.Engine.Tick()
		if err != nil {
			return false, err
		}
		if !more {
			fmt.Println("program terminated")
			break
		}
	}
	return false, nil
}

func reg(l *cmdLine, mon *Monitor) (bool, error) {
	l.skipSpace()
	if l.isEOL() {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Reg", "Value"})
		for r := uint8(0); r < 32; r++ {
			v, err := mon.Engine.Register(r)
			if err != nil {
				return false, err
			}
			table.Append([]string{fmt.Sprintf("x%d", r), formatWord32(v)})
		}
		table.Render()
		return false, nil
	}

	name := l.getWord()
	r, ok := resolveReg(name)
	if !ok {
		return false, fmt.Errorf("invalid register %q", name)
	}
	v, err := mon.Engine.Register(r)
	if err != nil {
		return false, err
	}
	fmt.Printf("x%d = 0x%08x\n", r, v)
	return false, nil
}

func mem(l *cmdLine, mon *Monitor) (bool, error) {
	addr, err := l.getAddr()
	if err != nil {
		return false, err
	}
	count, err := l.getCount(1)
	if err != nil {
		return false, err
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Address", "Word"})
	for i := 0; i < count; i++ {
		a := addr + uint32(i)*4
		table.Append([]string{formatAddr32(a), formatWord32(mon.Engine.RAMWord(a))})
	}
	table.Render()
	return false, nil
}

func disasmCmd(l *cmdLine, mon *Monitor) (bool, error) {
	addr, err := l.getAddr()
	if err != nil {
		return false, err
	}
	count, err := l.getCount(1)
	if err != nil {
		return false, err
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Address", "Word", "Instruction"})
	for i := 0; i < count; i++ {
		a := addr + uint32(i)*4
		word := mon.Engine.RAMWord(a)
		ins := disasm.Disassemble(word)
		table.Append([]string{formatAddr32(a), formatWord32(word), ins.Text})
	}
	table.Render()
	return false, nil
}

func show(l *cmdLine, mon *Monitor) (bool, error) {
	what := l.getWord()
	switch what {
	case "", "regs", "registers":
		return reg(&cmdLine{}, mon)
	case "wires":
		w := mon.Engine.Wires()
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Signal", "Value"})
		table.Append([]string{"State", mon.Engine.State().String()})
		table.Append([]string{"PC", fmt.Sprintf("0x%08x", mon.Engine.PC())})
		table.Append([]string{"Instr", fmt.Sprintf("0x%08x", w.Instr)})
		table.Append([]string{"ALUOut", fmt.Sprintf("0x%08x", w.ALUOut)})
		table.Append([]string{"ALUZero", fmt.Sprintf("%v", w.ALUZero)})
		table.Append([]string{"MemAddress", fmt.Sprintf("0x%08x", w.MemAddress)})
		table.Append([]string{"MemReadData", fmt.Sprintf("0x%08x", w.MemReadData)})
		table.Append([]string{"WriteData", fmt.Sprintf("0x%08x", w.WriteData)})
		table.Append([]string{"ShouldBranch", fmt.Sprintf("%v", w.ShouldBranch)})
		table.Append([]string{"JumpAddr", fmt.Sprintf("0x%08x", w.JumpAddr)})
		table.Render()
		return false, nil
	case "breaks", "break":
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Address"})
		for addr := range mon.Breaks {
			table.Append([]string{fmt.Sprintf("0x%08x", addr)})
		}
		table.Render()
		return false, nil
	default:
		return false, fmt.Errorf("unknown show target %q", what)
	}
}

func quit(_ *cmdLine, mon *Monitor) (bool, error) {
	if mon.Tracer != nil {
		mon.Tracer.Flush()
	}
	slog.Info("monitor quit")
	return true, nil
}
