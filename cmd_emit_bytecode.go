package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"tx/compiler"
	"tx/debug"
)

type emitCmd struct {
	tokensOnly bool
}

func (*emitCmd) Name() string     { return "emit" }
func (*emitCmd) Synopsis() string { return "compile a source file and print its disassembly" }
func (*emitCmd) Usage() string {
	return "emit <file>: compile a tx source file and print its disassembled bytecode, without running it.\n"
}

func (cmd *emitCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.tokensOnly, "tokens", false, "print the token stream instead of bytecode")
}

func (cmd *emitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if cmd.tokensOnly {
		debug.DumpTokens(os.Stdout, source)
		return exOK
	}

	c, errs := compiler.Compile(source)
	if len(errs) > 0 {
		for _, e := range errs {
			log.Error(e)
		}
		return exDataErr
	}

	debug.DisassembleChunk(os.Stdout, c, args[0])
	return exOK
}
