package chunk

import (
	"testing"

	"tx/value"
)

func TestWriteByteBuildsLineRuns(t *testing.T) {
	c := New()
	c.WriteByte(1, 10)
	c.WriteByte(2, 10)
	c.WriteByte(3, 11)

	if got := c.GetLine(0); got != 10 {
		t.Errorf("GetLine(0) = %d, want 10", got)
	}
	if got := c.GetLine(1); got != 10 {
		t.Errorf("GetLine(1) = %d, want 10", got)
	}
	if got := c.GetLine(2); got != 11 {
		t.Errorf("GetLine(2) = %d, want 11", got)
	}
}

func TestWrite24RoundTripsLittleEndian(t *testing.T) {
	c := New()
	c.Write24(0x010203, 1)
	if c.Code[0] != 0x03 || c.Code[1] != 0x02 || c.Code[2] != 0x01 {
		t.Fatalf("Write24 bytes = % x, want little-endian 03 02 01", c.Code)
	}
	if got := c.Read24(0); got != 0x010203 {
		t.Errorf("Read24() = %#x, want %#x", got, 0x010203)
	}
}

func TestWrite16RoundTrips(t *testing.T) {
	c := New()
	c.Write16(0xBEEF, 1)
	if got := c.Read16(0); got != 0xBEEF {
		t.Errorf("Read16() = %#x, want %#x", got, 0xBEEF)
	}
}

func TestAddConstantAppendsWithoutDedup(t *testing.T) {
	c := New()
	i1 := c.AddConstant(value.Int(1))
	i2 := c.AddConstant(value.Int(1))
	if i1 == i2 {
		t.Error("AddConstant should not dedup; that's the compiler's job")
	}
	if len(c.Constants) != 2 {
		t.Errorf("len(Constants) = %d, want 2", len(c.Constants))
	}
}

func TestPatchJump(t *testing.T) {
	c := New()
	c.WriteOpcode(OpJumpIfFalse, 1)
	jumpOffset := len(c.Code)
	c.Write16(0xFFFF, 1) // placeholder
	c.WriteOpcode(OpPop, 1)
	c.WriteOpcode(OpPop, 1)

	c.PatchJump(jumpOffset)

	want := uint16(len(c.Code) - (jumpOffset + 2))
	if got := c.Read16(jumpOffset); got != want {
		t.Errorf("patched jump distance = %d, want %d", got, want)
	}
}

func TestGetLineOnEmptyChunk(t *testing.T) {
	c := New()
	if got := c.GetLine(0); got != 0 {
		t.Errorf("GetLine(0) on empty chunk = %d, want 0", got)
	}
}

func TestOperandWidthAndString(t *testing.T) {
	if OperandWidth(OpConstant) != 1 {
		t.Errorf("OperandWidth(OpConstant) = %d, want 1", OperandWidth(OpConstant))
	}
	if OperandWidth(OpConstantLong) != 3 {
		t.Errorf("OperandWidth(OpConstantLong) = %d, want 3", OperandWidth(OpConstantLong))
	}
	if OperandWidth(OpJump) != 2 {
		t.Errorf("OperandWidth(OpJump) = %d, want 2", OperandWidth(OpJump))
	}
	if OpAdd.String() != "ADD" {
		t.Errorf("OpAdd.String() = %q, want %q", OpAdd.String(), "ADD")
	}
}
