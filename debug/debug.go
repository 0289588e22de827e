// Package debug implements human-readable dumps of compiled chunks and
// tokens, driven by the chunk package's opcode table rather than a
// hand-written case per opcode, the way tx-runtime's disassembler.cxx
// walks its own opcode table. Wired in behind the VM's print_bytecode /
// print_tokens / trace_execution options (SPEC_FULL.md "Ambient stack").
package debug

import (
	"fmt"
	"io"

	"tx/chunk"
	"tx/lexer"
)

// DisassembleChunk writes a full listing of c to w, one instruction per
// line, labeled with name (typically the source file or "<script>").
func DisassembleChunk(w io.Writer, c *chunk.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = DisassembleInstruction(w, c, offset)
	}
}

// DisassembleInstruction writes one instruction starting at offset and
// returns the offset of the next instruction.
func DisassembleInstruction(w io.Writer, c *chunk.Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)

	line := c.GetLine(offset)
	if offset > 0 && line == c.GetLine(offset-1) {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", line)
	}

	op := chunk.OpCode(c.Code[offset])
	width := chunk.OperandWidth(op)

	switch width {
	case 0:
		fmt.Fprintf(w, "%s\n", op)
		return offset + 1
	case 1:
		slot := c.Code[offset+1]
		if isConstantOp(op) {
			v := c.Constants[slot]
			fmt.Fprintf(w, "%-18s %4d '%v'\n", op, slot, v)
		} else {
			fmt.Fprintf(w, "%-18s %4d\n", op, slot)
		}
		return offset + 2
	case 2:
		jump := c.Read16(offset + 1)
		sign := 1
		if op == chunk.OpLoop {
			sign = -1
		}
		target := offset + 3 + sign*int(jump)
		fmt.Fprintf(w, "%-18s %4d -> %d\n", op, offset, target)
		return offset + 3
	case 3:
		idx := c.Read24(offset + 1)
		if isConstantOp(op) {
			v := c.Constants[idx]
			fmt.Fprintf(w, "%-18s %4d '%v'\n", op, idx, v)
		} else {
			fmt.Fprintf(w, "%-18s %4d\n", op, idx)
		}
		return offset + 4
	default:
		fmt.Fprintf(w, "unknown opcode width %d for %s\n", width, op)
		return offset + 1
	}
}

func isConstantOp(op chunk.OpCode) bool {
	switch op {
	case chunk.OpConstant, chunk.OpConstantLong,
		chunk.OpGetGlobal, chunk.OpGetGlobalLong,
		chunk.OpSetGlobal, chunk.OpSetGlobalLong,
		chunk.OpDefineGlobal, chunk.OpDefineGlobalLong,
		chunk.OpClosure, chunk.OpClosureLong:
		return true
	default:
		return false
	}
}

// DumpTokens writes one line per token lexed from source, used by the
// print_tokens diagnostic option.
func DumpTokens(w io.Writer, source string) {
	toks, errs := lexer.New(source).Scan()
	for _, tok := range toks {
		fmt.Fprintf(w, "%4d %-16s '%s'\n", tok.Line, tok.Type, tok.Lexeme)
	}
	for _, err := range errs {
		fmt.Fprintf(w, "lex error: %v\n", err)
	}
}
