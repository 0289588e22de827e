package vm

import (
	"fmt"
	"os"

	"tx/debug"
)

// traceStep prints the current stack contents followed by the next
// instruction to be executed, the way a clox-style VM's DEBUG_TRACE_EXECUTION
// build does. Wired in behind Options.TraceExecution.
func (vm *VM) traceStep() {
	fmt.Fprint(os.Stderr, "          ")
	for i := 0; i < vm.stackTop; i++ {
		fmt.Fprintf(os.Stderr, "[ %s ]", vm.stack[i])
	}
	fmt.Fprintln(os.Stderr)
	debug.DisassembleInstruction(os.Stderr, vm.chunk, vm.ip)
}
