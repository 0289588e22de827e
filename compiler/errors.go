package compiler

import "fmt"

// CompileError is a user-facing error in the source being compiled: an
// undefined name, a redeclaration, malformed syntax. Grounded on
// nilan's SemanticError, including its emoji-tagged Error() text.
type CompileError struct {
	Line    int32
	Message string
}

func (e CompileError) Error() string {
	return fmt.Sprintf("💥 CompileError (line %d): %s", e.Line, e.Message)
}

// InternalError marks a bug in the compiler itself (an opcode emitted
// with an operand too large for its encoding, an invariant a caller
// violated). Grounded on nilan's DeveloperError.
type InternalError struct {
	Message string
}

func (e InternalError) Error() string {
	return fmt.Sprintf("🤖 InternalError: %s", e.Message)
}
