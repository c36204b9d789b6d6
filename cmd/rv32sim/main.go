/*
 * rv32sim - Driver
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

// Command rv32sim assembles and runs an RV32I program against the datapath
// engine, either to completion (-run) or under the interactive monitor.
// Grounded on the teacher's main.go: getopt flag parsing, a slog logger
// installed as the process default before anything else runs, and a
// console-reader goroutine-free main loop (here, the monitor blocks main
// directly, since rv32sim has no background device I/O to select over).
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/rv32sim/command/parser"
	"github.com/rcornwell/rv32sim/command/reader"
	"github.com/rcornwell/rv32sim/config/initstate"
	"github.com/rcornwell/rv32sim/internal/assemble"
	"github.com/rcornwell/rv32sim/internal/engine"
	"github.com/rcornwell/rv32sim/internal/trace"
	"github.com/rcornwell/rv32sim/util/logger"
)

var Logger *slog.Logger

func main() {
	optAsm := getopt.StringLong("asm", 'a', "", "Assembly source file")
	optInit := getopt.StringLong("init", 'i', "", "Initial machine state file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optTrace := getopt.StringLong("trace", 't', "", "Cycle trace output file")
	optRun := getopt.BoolLong("run", 'r', "Run to completion instead of entering the monitor")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logOut io.Writer = os.Stderr
	if *optLogFile != "" {
		logFile, err := os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer logFile.Close()
		logOut = logFile
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	Logger = slog.New(logger.NewHandler(logOut, &slog.HandlerOptions{Level: programLevel}))
	slog.SetDefault(Logger)

	if *optAsm == "" {
		Logger.Error("please specify an assembly source file with -asm")
		os.Exit(1)
	}

	src, err := os.ReadFile(*optAsm)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	var state *initstate.State
	if *optInit != "" {
		state, err = initstate.Load(*optInit)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}

	textStart := engine.DefaultTextStart
	if state != nil && state.TextStart != nil {
		textStart = *state.TextStart
	}

	prog, err := assemble.Assemble(string(src), textStart)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	Logger.Info("assembled program", "words", len(prog.Words), "dataBytes", len(prog.Data))

	code := make([]uint32, len(prog.Words))
	for i, w := range prog.Words {
		code[i] = w.Value
	}

	var registers map[uint8]uint32
	if state != nil {
		registers = state.Registers
	}

	eng, err := engine.New(textStart, code, registers)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	for _, db := range prog.Data {
		eng.SetByte(db.Addr, db.Value)
	}
	if state != nil {
		for addr, word := range state.Memory {
			eng.SetMemWord(addr, word)
		}
	}

	var tracer *trace.TableTracer
	if *optTrace != "" {
		traceFile, err := os.Create(*optTrace)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		defer traceFile.Close()
		tracer = trace.NewTableTracer(traceFile)
		eng.SetTracer(tracer)
	}

	if *optRun {
		if err := eng.Run(); err != nil {
			Logger.Error(err.Error())
			if tracer != nil {
				tracer.Flush()
			}
			os.Exit(1)
		}
		Logger.Info("program terminated", "pc", uint64(eng.PC()), "cycle", eng.Cycle())
		if tracer != nil {
			tracer.Flush()
		}
		return
	}

	mon := parser.NewMonitor(eng)
	if tracer != nil {
		mon.Tracer = tracer
	}
	reader.ConsoleReader(mon)
}
