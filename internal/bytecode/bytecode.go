// Package bytecode provides the operations built atop the low-level
// Instruction/Opcode types defined in internal/value: symbolic-label
// resolution, disassembly, and a persistable on-disk envelope.
//
// Instruction and Opcode themselves live in internal/value (not here)
// because an Instruction's operand is itself a Value, and Value's
// "bytecode block" variant is a sequence of Instruction — the two types
// are mutually recursive and so must share a package. This package is
// simply the set of things you *do* with a []value.Instruction, mirroring
// how the teacher's code.go layers instruction-sequence operations
// (Make, Lookup, ReadOperands, String/fmtInstruction) over a flat opcode
// table.
package bytecode

import (
	"fmt"
	"strings"

	"github.com/forge-lang/forge/internal/value"
)

// Re-exported for callers that only need the bytecode vocabulary and
// shouldn't otherwise need to import internal/value directly.
type (
	Instruction = value.Instruction
	Opcode      = value.Opcode
)

const (
	OpDefVariable    = value.OpDefVariable
	OpDefConstant    = value.OpDefConstant
	OpReadVariable   = value.OpReadVariable
	OpWriteVariable  = value.OpWriteVariable
	OpExecute        = value.OpExecute
	OpWordIndex      = value.OpWordIndex
	OpWordExists     = value.OpWordExists
	OpPushConstant   = value.OpPushConstant
	OpMarkLoopExit   = value.OpMarkLoopExit
	OpUnmarkLoopExit = value.OpUnmarkLoopExit
	OpMarkCatch      = value.OpMarkCatch
	OpUnmarkCatch    = value.OpUnmarkCatch
	OpMarkContext    = value.OpMarkContext
	OpReleaseContext = value.OpReleaseContext
	OpJump           = value.OpJump
	OpJumpIfZero     = value.OpJumpIfZero
	OpJumpIfNotZero  = value.OpJumpIfNotZero
	OpJumpLoopStart  = value.OpJumpLoopStart
	OpJumpLoopExit   = value.OpJumpLoopExit
	OpJumpTarget     = value.OpJumpTarget
)

// isJumpOrMark reports whether op carries a resolvable relative-delta
// operand (the jump family and the mark_loop_exit/mark_catch family).
func isJumpOrMark(op Opcode) bool {
	switch op {
	case OpJump, OpJumpIfZero, OpJumpIfNotZero, OpMarkLoopExit, OpMarkCatch:
		return true
	default:
		return false
	}
}

// ResolveLabels performs the compile-time label-resolution pass described
// in spec.md §4.2: it scans code once, building a label -> index map from
// every jump_target instruction whose operand is a string label (clearing
// that operand to zero), then rewrites every jump/mark instruction whose
// operand is a string to the signed delta target_index - source_index.
// An instruction whose operand is not a string is left untouched — it is
// either already resolved, or carries no resolvable operand at all.
// Unresolved labels (no matching jump_target) are left as-is; resolving
// them fully is the caller's responsibility, per spec.md.
func ResolveLabels(code []Instruction) {
	labels := make(map[string]int)

	for i, instr := range code {
		if instr.Op != OpJumpTarget {
			continue
		}
		if s, ok := instr.Operand.(value.Str); ok {
			labels[string(s)] = i
			code[i].Operand = value.Int(0)
		}
	}

	for i, instr := range code {
		if !isJumpOrMark(instr.Op) {
			continue
		}
		s, ok := instr.Operand.(value.Str)
		if !ok {
			continue
		}
		target, found := labels[string(s)]
		if !found {
			continue
		}
		code[i].Operand = value.Int(int64(target - i))
	}
}

// Disassemble renders code as one "%04d OPCODE operand" line per
// instruction, in the spirit of the teacher's Instructions.String() /
// fmtInstruction.
func Disassemble(code []Instruction) string {
	var out strings.Builder
	for i, instr := range code {
		fmt.Fprintf(&out, "%04d %-20s %s\n", i, instr.Op, operandString(instr.Operand))
	}
	return out.String()
}

func operandString(v value.Value) string {
	if v == nil {
		return ""
	}
	if _, ok := v.(value.None); ok {
		return ""
	}
	return v.Inspect()
}
