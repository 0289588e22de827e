package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"tx/debug"
	"tx/vm"
)

// sysexits-style exit codes, used directly rather than through the
// bare subcommands.ExitSuccess/ExitFailure pair so a calling shell can
// tell a bad source file (exDataErr) apart from a missing one
// (exNoInput).
const (
	exOK       = 0
	exUsage    = 64
	exDataErr  = 65
	exNoInput  = 66
	exSoftware = 70
)

type runCmd struct {
	printTokens    bool
	printBytecode  bool
	traceExecution bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "execute a tx source file" }
func (*runCmd) Usage() string {
	return "run <file>: compile and execute a tx source file.\n"
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.printTokens, "print-tokens", false, "dump the token stream before running")
	f.BoolVar(&r.printBytecode, "print-bytecode", false, "disassemble the compiled chunk before running")
	f.BoolVar(&r.traceExecution, "trace-execution", false, "log the VM's stack before every instruction")
}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		log.Error("💥 no source file given")
		return exUsage
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Errorf("💥 failed to read file: %v", err)
		return exNoInput
	}
	source := string(data)

	if r.printTokens {
		debug.DumpTokens(os.Stderr, source)
	}

	machine := vm.New(vm.Options{
		PrintBytecode:  r.printBytecode,
		TraceExecution: r.traceExecution,
	})

	switch machine.Interpret(source) {
	case vm.InterpretCompileError:
		log.Error(machine.LastError())
		return exDataErr
	case vm.InterpretRuntimeError:
		log.Error(machine.LastError())
		return exSoftware
	default:
		if v, ok := machine.StackTop(); ok {
			fmt.Println(v)
		}
		return exOK
	}
}
