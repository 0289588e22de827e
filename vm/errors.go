package vm

import "fmt"

// RuntimeError is a failure raised while executing already-compiled
// bytecode: a type mismatch, division by zero, an undefined global.
// Grounded on nilan's vm.RuntimeError, including its emoji-tagged
// Error() text.
type RuntimeError struct {
	Line    int
	Message string
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("💥 RuntimeError (line %d): %s", e.Line, e.Message)
}
