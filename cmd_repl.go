package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"tx/debug"
	"tx/vm"
)

type replCmd struct {
	printTokens    bool
	printBytecode  bool
	traceExecution bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "start an interactive tx session" }
func (*replCmd) Usage() string {
	return "repl: start an interactive tx session.\n"
}

func (r *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.printTokens, "print-tokens", false, "dump the token stream for each line")
	f.BoolVar(&r.printBytecode, "print-bytecode", false, "disassemble each compiled chunk")
	f.BoolVar(&r.traceExecution, "trace-execution", false, "log the VM's stack before every instruction")
}

func (r *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tx> ",
		HistoryFile:     historyFilePath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Errorf("💥 failed to start line editor: %v", err)
		return exSoftware
	}
	defer rl.Close()

	fmt.Println("tx REPL — Ctrl-D or 'exit' to quit")

	machine := vm.New(vm.Options{
		PrintBytecode:           r.printBytecode,
		TraceExecution:          r.traceExecution,
		AllowGlobalRedefinition: true,
	})

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return exOK
		}
		if err != nil {
			log.Errorf("💥 %v", err)
			return exSoftware
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			return exOK
		}

		if r.printTokens {
			debug.DumpTokens(os.Stderr, line)
		}

		switch machine.Interpret(line) {
		case vm.InterpretCompileError, vm.InterpretRuntimeError:
			log.Error(machine.LastError())
		default:
			if v, ok := machine.StackTop(); ok {
				fmt.Println(v)
			}
		}
	}
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tx_history"
	}
	return home + "/.tx_history"
}
