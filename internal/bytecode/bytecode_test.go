package bytecode

import (
	"testing"

	"github.com/forge-lang/forge/internal/value"
)

func TestResolveLabelsProducesInBoundsDeltas(t *testing.T) {
	// : abs dup 0 < if -1 * then ;
	code := []Instruction{
		{Op: OpExecute, Operand: value.Str("dup")},
		{Op: OpPushConstant, Operand: value.Int(0)},
		{Op: OpExecute, Operand: value.Str("<")},
		{Op: OpJumpIfZero, Operand: value.Str("endif")},
		{Op: OpPushConstant, Operand: value.Int(-1)},
		{Op: OpExecute, Operand: value.Str("*")},
		{Op: OpJumpTarget, Operand: value.Str("endif")},
	}

	ResolveLabels(code)

	for i, instr := range code {
		switch instr.Op {
		case OpJumpIfZero, OpJump, OpJumpIfNotZero, OpMarkLoopExit, OpMarkCatch:
			delta, ok := instr.Operand.(value.Int)
			if !ok {
				t.Fatalf("instruction %d: operand not resolved to an int delta: %#v", i, instr.Operand)
			}
			target := i + int(delta)
			if target < 0 || target >= len(code) {
				t.Fatalf("instruction %d: delta %d addresses out-of-range index %d", i, delta, target)
			}
			if code[target].Op != OpJumpTarget {
				t.Fatalf("instruction %d: delta %d does not address a jump_target (got %s)", i, delta, code[target].Op)
			}
		case OpJumpTarget:
			if _, ok := instr.Operand.(value.Str); ok {
				t.Fatalf("instruction %d: jump_target operand was not cleared", i)
			}
		}
	}
}

func TestResolveLabelsLeavesUnresolvedLabelsAlone(t *testing.T) {
	code := []Instruction{
		{Op: OpJump, Operand: value.Str("nowhere")},
	}
	ResolveLabels(code)

	if s, ok := code[0].Operand.(value.Str); !ok || s != "nowhere" {
		t.Fatalf("unresolved label should be left as a string, got %#v", code[0].Operand)
	}
}

func TestProgramRoundTripsResolvedBlock(t *testing.T) {
	code := []Instruction{
		{Op: OpPushConstant, Operand: value.Int(42)},
		{Op: OpPushConstant, Operand: value.Str("hi")},
		{Op: OpExecute, Operand: value.Str("puts")},
	}

	data, err := Marshal(code)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(decoded) != len(code) {
		t.Fatalf("got %d instructions, want %d", len(decoded), len(code))
	}
	for i := range code {
		if decoded[i].Op != code[i].Op {
			t.Errorf("instruction %d: op = %s, want %s", i, decoded[i].Op, code[i].Op)
		}
		if !value.Equal(decoded[i].Operand, code[i].Operand) {
			t.Errorf("instruction %d: operand = %v, want %v", i, decoded[i].Operand, code[i].Operand)
		}
	}
}

func TestProgramRejectsSharedVariants(t *testing.T) {
	code := []Instruction{
		{Op: OpPushConstant, Operand: value.NewArray()},
	}
	if _, err := Marshal(code); err == nil {
		t.Fatal("expected an error persisting a shared-variant (array) operand")
	}
}

func TestDisassembleFormatsOneLinePerInstruction(t *testing.T) {
	code := []Instruction{
		{Op: OpPushConstant, Operand: value.Int(7)},
		{Op: OpExecute, Operand: value.Str("dup")},
	}
	out := Disassemble(code)
	if out == "" {
		t.Fatal("Disassemble produced no output")
	}
	lines := 0
	for _, c := range out {
		if c == '\n' {
			lines++
		}
	}
	if lines != len(code) {
		t.Fatalf("got %d lines, want %d", lines, len(code))
	}
}
