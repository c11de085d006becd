package builtin

import (
	"fmt"

	"github.com/forge-lang/forge/internal/bytecode"
	"github.com/forge-lang/forge/internal/dict"
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/value"
)

// installCompiler exposes the compile context itself as a small Forth
// library, per spec.md §4.5: "direct opcode-emission primitives ...
// and code-block manipulators ... make the compiler itself a Forth
// library." Every word here except code.execute-block is immediate,
// since they act on the compile context; code.execute-block runs a
// block popped from the data stack at run time.
// This is a representative slice, not the full opcode surface — per
// SPEC_FULL.md's scoping of internal/builtin to what's needed to run
// the bootstrap vocabulary and the documented scenarios; the in-language
// primitive-word surface at large is explicitly a collaborator
// responsibility (spec.md §6).
func installCompiler(scopes *dict.Scopes) {
	define(scopes, "op.push-constant-value", true, func(i rt.Interp) error {
		v, err := i.Pop()
		if err != nil {
			return err
		}
		i.Emit(value.Instruction{Op: value.OpPushConstant, Operand: v})
		return nil
	})
	define(scopes, "op.execute", true, func(i rt.Interp) error {
		v, err := i.Pop()
		if err != nil {
			return err
		}
		i.Emit(value.Instruction{Op: value.OpExecute, Operand: v})
		return nil
	})
	define(scopes, "op.jump", true, func(i rt.Interp) error {
		v, err := i.Pop()
		if err != nil {
			return err
		}
		i.Emit(value.Instruction{Op: value.OpJump, Operand: v})
		return nil
	})

	define(scopes, "code.new-block", true, func(i rt.Interp) error {
		i.PushConstruction("", i.CurrentLocation())
		return nil
	})
	define(scopes, "code.pop-stack-block", true, func(i rt.Interp) error {
		word, err := i.PopConstruction()
		if err != nil {
			return err
		}
		// Emit a literal push rather than calling i.Push directly: the
		// block must land on the data stack in its proper place in
		// run-time execution order relative to whatever else the
		// enclosing construction pushes, not at compile time.
		i.Emit(value.Instruction{Op: value.OpPushConstant, Operand: &value.Block{Code: word.Code}})
		return nil
	})
	define(scopes, "code.push-stack-block", true, func(i rt.Interp) error {
		v, err := i.Pop()
		if err != nil {
			return err
		}
		block, ok := v.(*value.Block)
		if !ok {
			return fmt.Errorf("code.push-stack-block: expected a block value, got %s", v.Kind())
		}
		i.PushConstructionWithCode("", i.CurrentLocation(), block.Code)
		return nil
	})
	define(scopes, "code.merge-stack-block", true, func(i rt.Interp) error {
		v, err := i.Pop()
		if err != nil {
			return err
		}
		block, ok := v.(*value.Block)
		if !ok {
			return fmt.Errorf("code.merge-stack-block: expected a block value, got %s", v.Kind())
		}
		for _, instr := range block.Code {
			i.Emit(instr)
		}
		return nil
	})
	define(scopes, "code.resolve-jumps", true, func(i rt.Interp) error {
		v, err := i.Pop()
		if err != nil {
			return err
		}
		block, ok := v.(*value.Block)
		if !ok {
			return fmt.Errorf("code.resolve-jumps: expected a block value, got %s", v.Kind())
		}
		bytecode.ResolveLabels(block.Code)
		i.Push(block)
		return nil
	})
	define(scopes, "code.execute-block", false, func(i rt.Interp) error {
		v, err := i.Pop()
		if err != nil {
			return err
		}
		block, ok := v.(*value.Block)
		if !ok {
			return fmt.Errorf("code.execute-block: expected a block value, got %s", v.Kind())
		}
		return i.ExecuteCode("", block.Code, false)
	})
}
