package vm

// Options configures diagnostic and compatibility behavior, set from
// the CLI's flags (see cmd_run.go, cmd_repl.go).
type Options struct {
	// PrintTokens dumps the token stream for each compiled source before
	// running it.
	PrintTokens bool
	// PrintBytecode disassembles each chunk before running it.
	PrintBytecode bool
	// TraceExecution logs the stack and the current instruction before
	// every dispatch-loop step.
	TraceExecution bool
	// AllowGlobalRedefinition lets a `let`/`var` at global scope rebind
	// an already-defined name instead of raising a RuntimeError. The
	// REPL turns this on, since re-entering `let x = 1;` at the prompt
	// to fix a typo is normal there but would be a bug in a script file.
	AllowGlobalRedefinition bool
}
