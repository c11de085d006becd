package value

import (
	"fmt"

	"github.com/forge-lang/forge/internal/srcloc"
)

// Opcode identifies a bytecode instruction's operation.
//
// Instruction and Opcode live in this package, rather than in a separate
// "bytecode" package one level up, because spec.md's own Value variant set
// includes a bytecode block (a sequence of Instruction) while an
// Instruction's operand is itself a Value — the two types are mutually
// recursive, so they share a package. internal/bytecode builds the
// higher-level operations (the opcode table, encode/decode, label
// resolution, disassembly, persistence) on top of the types defined here.
type Opcode int

const (
	OpDefVariable Opcode = iota
	OpDefConstant
	OpReadVariable
	OpWriteVariable
	OpExecute
	OpWordIndex
	OpWordExists
	OpPushConstant
	OpMarkLoopExit
	OpUnmarkLoopExit
	OpMarkCatch
	OpUnmarkCatch
	OpMarkContext
	OpReleaseContext
	OpJump
	OpJumpIfZero
	OpJumpIfNotZero
	OpJumpLoopStart
	OpJumpLoopExit
	OpJumpTarget
)

// opcodeNames mirrors the Definition.Name lookup table pattern from the
// teacher's code.Lookup, but indexed directly by Opcode since we have no
// variable-width wire encoding to drive from it.
var opcodeNames = [...]string{
	OpDefVariable:    "def_variable",
	OpDefConstant:    "def_constant",
	OpReadVariable:   "read_variable",
	OpWriteVariable:  "write_variable",
	OpExecute:        "execute",
	OpWordIndex:      "word_index",
	OpWordExists:     "word_exists",
	OpPushConstant:   "push_constant_value",
	OpMarkLoopExit:   "mark_loop_exit",
	OpUnmarkLoopExit: "unmark_loop_exit",
	OpMarkCatch:      "mark_catch",
	OpUnmarkCatch:    "unmark_catch",
	OpMarkContext:    "mark_context",
	OpReleaseContext: "release_context",
	OpJump:           "jump",
	OpJumpIfZero:     "jump_if_zero",
	OpJumpIfNotZero:  "jump_if_not_zero",
	OpJumpLoopStart:  "jump_loop_start",
	OpJumpLoopExit:   "jump_loop_exit",
	OpJumpTarget:     "jump_target",
}

// String renders the opcode's canonical Forth-visible name.
func (op Opcode) String() string {
	if int(op) < 0 || int(op) >= len(opcodeNames) || opcodeNames[op] == "" {
		return fmt.Sprintf("OP(%d)", int(op))
	}
	return opcodeNames[op]
}

// Instruction is one bytecode instruction: an opcode, an operand Value
// (which may be None when the opcode takes none), and an optional source
// location used for diagnostics and call-stack frames.
//
// Before label resolution (internal/bytecode.ResolveLabels), a jump/mark
// instruction's Operand may be a Str holding a symbolic label; after
// resolution it is an Int holding a signed relative delta. A given
// Instructions slice is either fully resolved or not yet executable —
// never a mix, per spec.md's §9 design note.
type Instruction struct {
	Op       Opcode
	Operand  Value
	Location *srcloc.Location
}

// Block is a sequence of Instruction, usable as a first-class Value — the
// "bytecode block" variant. It backs both compiled word bodies and values
// produced by code.pop-stack-block / consumed by code.push-stack-block.
type Block struct {
	Code []Instruction
}

func (*Block) Kind() Kind { return KindBlock }

func (b *Block) Inspect() string {
	return fmt.Sprintf("bytecode-block[%d]", len(b.Code))
}
