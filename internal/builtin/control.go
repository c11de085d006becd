package builtin

import (
	"sync/atomic"

	"github.com/forge-lang/forge/internal/dict"
	"github.com/forge-lang/forge/internal/engine"
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/value"
)

// labelCounter generates unique jump-target labels across every
// if/begin/try compiled anywhere in the process, so label text never
// collides across separate control-flow constructs sharing a
// construction's label namespace.
var labelCounter uint64

func nextLabel(prefix string) value.Str {
	n := atomic.AddUint64(&labelCounter, 1)
	return value.Str(prefix + "#" + itoa(n))
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// installControl defines if/else/then, begin/until, try/catch/endtry,
// and throw — spec.md §4.5's example of the control-flow immediate
// words that compile-until-words is meant to support.
func installControl(scopes *dict.Scopes) {
	define(scopes, "if", true, func(i rt.Interp) error {
		elseOrEnd := nextLabel("if")
		i.Emit(value.Instruction{Op: value.OpJumpIfZero, Operand: elseOrEnd})

		stop, err := i.CompileUntil([]string{"else", "then"})
		if err != nil {
			return err
		}

		if stop == "else" {
			end := nextLabel("endif")
			i.Emit(value.Instruction{Op: value.OpJump, Operand: end})
			i.Emit(value.Instruction{Op: value.OpJumpTarget, Operand: elseOrEnd})
			if _, err := i.CompileUntil([]string{"then"}); err != nil {
				return err
			}
			i.Emit(value.Instruction{Op: value.OpJumpTarget, Operand: end})
			return nil
		}

		i.Emit(value.Instruction{Op: value.OpJumpTarget, Operand: elseOrEnd})
		return nil
	})

	define(scopes, "begin", true, func(i rt.Interp) error {
		start := nextLabel("begin")
		i.Emit(value.Instruction{Op: value.OpJumpTarget, Operand: start})

		if _, err := i.CompileUntil([]string{"until"}); err != nil {
			return err
		}

		i.Emit(value.Instruction{Op: value.OpJumpIfZero, Operand: start})
		return nil
	})

	define(scopes, "try", true, func(i rt.Interp) error {
		catchLabel := nextLabel("catch")
		i.Emit(value.Instruction{Op: value.OpMarkCatch, Operand: catchLabel})

		if _, err := i.CompileUntil([]string{"catch"}); err != nil {
			return err
		}

		end := nextLabel("endtry")
		i.Emit(value.Instruction{Op: value.OpUnmarkCatch})
		i.Emit(value.Instruction{Op: value.OpJump, Operand: end})
		i.Emit(value.Instruction{Op: value.OpJumpTarget, Operand: catchLabel})

		if _, err := i.CompileUntil([]string{"endtry"}); err != nil {
			return err
		}

		i.Emit(value.Instruction{Op: value.OpJumpTarget, Operand: end})
		return nil
	})

	define(scopes, "throw", false, func(i rt.Interp) error {
		v, err := i.Pop()
		if err != nil {
			return err
		}
		return engine.NewThrown(v)
	})
}
