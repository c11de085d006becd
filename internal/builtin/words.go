package builtin

import (
	"fmt"

	"github.com/forge-lang/forge/internal/dict"
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/value"
)

// installWords defines the core immediate words that make compilation
// itself programmable, per spec.md §4.5: ":"/";" begin/end a new word;
// immediate/hidden/contextless/description:/signature: mutate the flags
// of the construction currently being built; backtick defers a token
// instead of compiling it; variable/constant/variable! emit the
// def_variable/def_constant opcodes that define scoped bindings.
func installWords(scopes *dict.Scopes) {
	define(scopes, ":", true, func(i rt.Interp) error {
		tok, ok := i.NextToken()
		if !ok {
			return fmt.Errorf(": expected a word name")
		}
		i.PushConstruction(tok.Text, tok.Location)
		return nil
	})

	define(scopes, ";", true, func(i rt.Interp) error {
		word, err := i.PopConstruction()
		if err != nil {
			return err
		}
		// AddWord's wrapper is the sole owner of context-managed scoping
		// for a scripted word (it wraps this fn in MarkContext/
		// ReleaseContext when word.ContextManaged); pass false here so
		// ExecuteCode itself doesn't open a second, redundant scope.
		return i.AddWord(word, func(callee rt.Interp) error {
			return callee.ExecuteCode(word.Name, word.Code, false)
		})
	})

	define(scopes, "immediate", true, func(i rt.Interp) error { i.SetImmediate(); return nil })
	define(scopes, "hidden", true, func(i rt.Interp) error { i.SetHidden(); return nil })
	define(scopes, "contextless", true, func(i rt.Interp) error { i.SetContextless(); return nil })

	define(scopes, "description:", true, func(i rt.Interp) error {
		tok, ok := i.NextToken()
		if !ok {
			return fmt.Errorf("description: expected text")
		}
		i.SetDescription(tok.Text)
		return nil
	})
	define(scopes, "signature:", true, func(i rt.Interp) error {
		tok, ok := i.NextToken()
		if !ok {
			return fmt.Errorf("signature: expected text")
		}
		i.SetSignature(tok.Text)
		return nil
	})

	define(scopes, "`", true, func(i rt.Interp) error {
		tok, ok := i.NextToken()
		if !ok {
			return fmt.Errorf("`: expected a token to defer")
		}
		loc := tok.Location
		if idx, _, found := i.FindWord(tok.Text); found {
			i.Emit(value.Instruction{Op: value.OpPushConstant, Operand: value.Int(int64(idx)), Location: &loc})
			return nil
		}
		i.Emit(value.Instruction{Op: value.OpWordIndex, Operand: value.Str(tok.Text), Location: &loc})
		return nil
	})

	define(scopes, "variable", true, func(i rt.Interp) error {
		tok, ok := i.NextToken()
		if !ok {
			return fmt.Errorf("variable: expected a name")
		}
		loc := tok.Location
		i.Emit(value.Instruction{Op: value.OpDefVariable, Operand: value.Str(tok.Text), Location: &loc})
		return nil
	})

	define(scopes, "constant", true, func(i rt.Interp) error {
		tok, ok := i.NextToken()
		if !ok {
			return fmt.Errorf("constant: expected a name")
		}
		loc := tok.Location
		i.Emit(value.Instruction{Op: value.OpDefConstant, Operand: value.Str(tok.Text), Location: &loc})
		return nil
	})

	// "N variable! name" defines name as a variable seeded with N,
	// by pushing N (already compiled before this word runs), defining
	// the variable, then pushing its slot index and writing N into it.
	define(scopes, "variable!", true, func(i rt.Interp) error {
		tok, ok := i.NextToken()
		if !ok {
			return fmt.Errorf("variable!: expected a name")
		}
		loc := tok.Location
		i.Emit(value.Instruction{Op: value.OpDefVariable, Operand: value.Str(tok.Text), Location: &loc})
		i.Emit(value.Instruction{Op: value.OpExecute, Operand: value.Str(tok.Text), Location: &loc})
		i.Emit(value.Instruction{Op: value.OpWriteVariable, Location: &loc})
		return nil
	})

	define(scopes, "@", true, func(i rt.Interp) error {
		i.Emit(value.Instruction{Op: value.OpReadVariable})
		return nil
	})
	define(scopes, "!", true, func(i rt.Interp) error {
		i.Emit(value.Instruction{Op: value.OpWriteVariable})
		return nil
	})
}
