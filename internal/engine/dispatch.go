package engine

import (
	"errors"
	"fmt"

	"github.com/forge-lang/forge/internal/dict"
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/srcloc"
	"github.com/forge-lang/forge/internal/value"
)

// Run dispatches code to completion (or until a cooperative halt, an
// unrecovered error, or a thrown value with no open catch). scopes
// supplies the dictionary/handler-table pair words are resolved and
// invoked against; interp is threaded through to every invoked handler
// so scripted/primitive word bodies see the full rt.Interp surface.
func (e *Engine) Run(interp rt.Interp, scopes *dict.Scopes, code []value.Instruction) error {
	catchBase := len(e.catchFrames)
	pc := 0
	for pc < len(code) {
		if e.halted {
			return nil
		}
		next, err := e.step(interp, scopes, code, pc, code[pc])
		if err != nil {
			thrown, target, ok := e.recover(scopes, err, catchBase)
			if !ok {
				return err
			}
			if thrown != nil {
				e.Push(thrown)
			}
			pc = target
			continue
		}
		pc = next
	}
	return nil
}

func (e *Engine) step(interp rt.Interp, scopes *dict.Scopes, code []value.Instruction, pc int, instr value.Instruction) (int, error) {
	switch instr.Op {
	case value.OpPushConstant:
		e.Push(value.DeepCopy(instr.Operand))
		return pc + 1, nil

	case value.OpDefVariable:
		name, ok := instr.Operand.(value.Str)
		if !ok {
			return 0, fmt.Errorf("def_variable: operand is not a name")
		}
		slot := e.Variables.Allocate(value.None{})
		loc := instrLocation(instr)
		scopes.DefineWord(
			dict.WordDescriptor{Name: string(name), Location: loc},
			dict.HandlerEntry{Name: string(name), Location: loc, Fn: func(i rt.Interp) error {
				i.Push(value.Int(int64(slot)))
				return nil
			}},
		)
		return pc + 1, nil

	case value.OpDefConstant:
		name, ok := instr.Operand.(value.Str)
		if !ok {
			return 0, fmt.Errorf("def_constant: operand is not a name")
		}
		v, err := e.Pop()
		if err != nil {
			return 0, fmt.Errorf("def_constant %s: %w", name, err)
		}
		loc := instrLocation(instr)
		scopes.DefineWord(
			dict.WordDescriptor{Name: string(name), Location: loc},
			dict.HandlerEntry{Name: string(name), Location: loc, Fn: func(i rt.Interp) error {
				i.Push(value.DeepCopy(v))
				return nil
			}},
		)
		return pc + 1, nil

	case value.OpReadVariable:
		idx, err := e.PopAsInt()
		if err != nil {
			return 0, fmt.Errorf("read_variable: %w", err)
		}
		v, err := e.Variables.Get(int(idx))
		if err != nil {
			return 0, err
		}
		e.Push(v)
		return pc + 1, nil

	case value.OpWriteVariable:
		idx, err := e.PopAsInt()
		if err != nil {
			return 0, fmt.Errorf("write_variable: %w", err)
		}
		v, err := e.Pop()
		if err != nil {
			return 0, fmt.Errorf("write_variable: %w", err)
		}
		if err := e.Variables.Set(int(idx), v); err != nil {
			return 0, err
		}
		return pc + 1, nil

	case value.OpExecute:
		if err := e.execute(interp, scopes, instr); err != nil {
			return 0, err
		}
		return pc + 1, nil

	case value.OpWordIndex:
		name, ok := instr.Operand.(value.Str)
		if !ok {
			return 0, fmt.Errorf("word_index: operand is not a name")
		}
		wd, found := scopes.Dictionary.Find(string(name))
		if !found {
			return 0, fmt.Errorf("word_index: %q is not defined", name)
		}
		e.Push(value.Int(int64(wd.HandlerIndex)))
		return pc + 1, nil

	case value.OpWordExists:
		name, ok := instr.Operand.(value.Str)
		if !ok {
			return 0, fmt.Errorf("word_exists: operand is not a name")
		}
		_, found := scopes.Dictionary.Find(string(name))
		e.Push(value.Bool(found))
		return pc + 1, nil

	case value.OpMarkLoopExit:
		delta, err := operandDelta(instr)
		if err != nil {
			return 0, err
		}
		e.loopFrames = append(e.loopFrames, loopFrame{exitTarget: pc + delta})
		return pc + 1, nil

	case value.OpUnmarkLoopExit:
		if len(e.loopFrames) == 0 {
			return 0, fmt.Errorf("unmark_loop_exit: no open loop frame")
		}
		e.loopFrames = e.loopFrames[:len(e.loopFrames)-1]
		return pc + 1, nil

	case value.OpMarkCatch:
		delta, err := operandDelta(instr)
		if err != nil {
			return 0, err
		}
		e.catchFrames = append(e.catchFrames, catchFrame{
			target:      pc + delta,
			stackDepth:  len(e.Stack),
			scopesDepth: scopes.Depth(),
		})
		return pc + 1, nil

	case value.OpUnmarkCatch:
		if len(e.catchFrames) == 0 {
			return 0, fmt.Errorf("unmark_catch: no open catch frame")
		}
		e.catchFrames = e.catchFrames[:len(e.catchFrames)-1]
		return pc + 1, nil

	case value.OpMarkContext:
		scopes.MarkContext()
		e.Variables.Mark()
		return pc + 1, nil

	case value.OpReleaseContext:
		if err := scopes.ReleaseContext(); err != nil {
			return 0, err
		}
		if err := e.Variables.Release(); err != nil {
			return 0, err
		}
		return pc + 1, nil

	case value.OpJump, value.OpJumpLoopStart:
		delta, err := operandDelta(instr)
		if err != nil {
			return 0, err
		}
		return pc + delta, nil

	case value.OpJumpIfZero:
		v, err := e.Pop()
		if err != nil {
			return 0, err
		}
		delta, err := operandDelta(instr)
		if err != nil {
			return 0, err
		}
		if !value.Truthy(v) {
			return pc + delta, nil
		}
		return pc + 1, nil

	case value.OpJumpIfNotZero:
		v, err := e.Pop()
		if err != nil {
			return 0, err
		}
		delta, err := operandDelta(instr)
		if err != nil {
			return 0, err
		}
		if value.Truthy(v) {
			return pc + delta, nil
		}
		return pc + 1, nil

	case value.OpJumpLoopExit:
		if len(e.loopFrames) == 0 {
			return 0, fmt.Errorf("jump_loop_exit: no open loop frame")
		}
		return e.loopFrames[len(e.loopFrames)-1].exitTarget, nil

	case value.OpJumpTarget:
		return pc + 1, nil

	default:
		return 0, fmt.Errorf("unknown opcode %s", instr.Op)
	}
}

func (e *Engine) execute(interp rt.Interp, scopes *dict.Scopes, instr value.Instruction) error {
	var entry dict.HandlerEntry
	var name string

	switch op := instr.Operand.(type) {
	case value.Str:
		name = string(op)
		wd, found := scopes.Dictionary.Find(name)
		if !found {
			return fmt.Errorf("%s: word %q is not defined", instrLocation(instr), name)
		}
		got, ok := scopes.Handlers.Get(wd.HandlerIndex)
		if !ok {
			return fmt.Errorf("%s: %q resolved to a dangling handler index %d", instrLocation(instr), name, wd.HandlerIndex)
		}
		entry = got
	case value.Int:
		got, ok := scopes.Handlers.Get(int(op))
		if !ok {
			return fmt.Errorf("%s: handler index %d is not defined", instrLocation(instr), int(op))
		}
		entry = got
		name = entry.Name
	default:
		return fmt.Errorf("%s: execute operand is neither a name nor a handler index", instrLocation(instr))
	}

	e.calls = append(e.calls, rt.CallFrame{Name: name, Location: instrLocation(instr)})
	err := entry.Fn(interp)
	e.calls = e.calls[:len(e.calls)-1]
	return err
}

// recover unwinds to the nearest open catch frame, if any, pushing the
// error as a value and releasing any scopes/variables opened directly
// within the try body (not via a nested word call — those release
// themselves on their own error return path, per ExecuteCode) back to
// the depth they were at when that frame was marked. It does not touch
// the data stack itself: a value the try body pushed before throwing
// survives past the catch, matching spec.md §4.4's catch semantics and
// the ground-truth interpreter's caught-exception path, neither of
// which truncate the stack. Only frames above base (the catch-frame
// depth when the current Run began) belong to the running code; it
// reports ok=false if none of those is open, meaning err should
// propagate out of Run to the caller's own catch frames.
func (e *Engine) recover(scopes *dict.Scopes, err error, base int) (value.Value, int, bool) {
	if len(e.catchFrames) <= base {
		return nil, 0, false
	}
	frame := e.catchFrames[len(e.catchFrames)-1]
	e.catchFrames = e.catchFrames[:len(e.catchFrames)-1]

	for scopes.Depth() > frame.scopesDepth {
		if rerr := scopes.ReleaseContext(); rerr != nil {
			break
		}
		_ = e.Variables.Release()
	}

	var thrown *Thrown
	var v value.Value = value.Str(err.Error())
	if errors.As(err, &thrown) {
		v = thrown.V
	}
	return v, frame.target, true
}

func operandDelta(instr value.Instruction) (int, error) {
	i, ok := instr.Operand.(value.Int)
	if !ok {
		return 0, fmt.Errorf("%s: expected a resolved integer delta operand, got %T", instr.Op, instr.Operand)
	}
	return int(i), nil
}

func instrLocation(instr value.Instruction) srcloc.Location {
	if instr.Location != nil {
		return *instr.Location
	}
	return srcloc.Location{}
}
