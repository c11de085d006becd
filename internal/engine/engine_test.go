package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forge-lang/forge/internal/dict"
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/srcloc"
	"github.com/forge-lang/forge/internal/token"
	"github.com/forge-lang/forge/internal/value"
)

// stubInterp is a no-op rt.Interp: every test here drives the engine
// directly and only needs *something* to pass through to handler
// functions. The handlers the tests define close over the engine and
// never call back into it; the words def_variable/def_constant define
// push through the interp instead, so their tests use pushInterp.
type stubInterp struct{}

// pushInterp is stubInterp with Push forwarded to an engine.
type pushInterp struct {
	stubInterp
	e *Engine
}

func (p pushInterp) Push(v value.Value) { p.e.Push(v) }

func (stubInterp) Push(value.Value)                                   {}
func (stubInterp) Pop() (value.Value, error)                          { return nil, nil }
func (stubInterp) PopAsInt() (int64, error)                            { return 0, nil }
func (stubInterp) PopAsFloat() (float64, error)                        { return 0, nil }
func (stubInterp) PopAsString() (string, error)                       { return "", nil }
func (stubInterp) PopAsBool() (bool, error)                           { return false, nil }
func (stubInterp) Pick(int) (value.Value, error)                      { return nil, nil }
func (stubInterp) Depth() int                                          { return 0 }
func (stubInterp) ClearStack()                                         {}
func (stubInterp) AddWord(rt.CompiledWord, rt.HandlerFunc) error       { return nil }
func (stubInterp) FindWord(string) (int, bool, bool)                   { return 0, false, false }
func (stubInterp) WordExists(string) bool                              { return false }
func (stubInterp) ExecuteWord(string) error                            { return nil }
func (stubInterp) ExecuteIndex(int) error                              { return nil }
func (stubInterp) ExecuteCode(string, []value.Instruction, bool) error { return nil }
func (stubInterp) MarkContext()                                        {}
func (stubInterp) ReleaseContext() error                               { return nil }
func (stubInterp) InCompile() bool                                     { return false }
func (stubInterp) NextToken() (token.Token, bool)                      { return token.Token{}, false }
func (stubInterp) PeekToken() (token.Token, bool)                      { return token.Token{}, false }
func (stubInterp) PushConstruction(string, srcloc.Location)                       {}
func (stubInterp) PushConstructionWithCode(string, srcloc.Location, []value.Instruction) {}
func (stubInterp) PopConstruction() (rt.CompiledWord, error)           { return rt.CompiledWord{}, nil }
func (stubInterp) Emit(value.Instruction)                              {}
func (stubInterp) SetInsertAtBeginning(bool)                           {}
func (stubInterp) SetImmediate()                                       {}
func (stubInterp) SetHidden()                                          {}
func (stubInterp) SetContextless()                                     {}
func (stubInterp) SetDescription(string)                               {}
func (stubInterp) SetSignature(string)                                 {}
func (stubInterp) ConstructionDepth() int                              { return 0 }
func (stubInterp) CompileUntil([]string) (string, error)               { return "", nil }
func (stubInterp) ThreadNew(string, []value.Instruction) (value.ThreadID, error) {
	return "", nil
}
func (stubInterp) ThreadPushTo(value.ThreadID, value.Value) error     { return nil }
func (stubInterp) ThreadPopFrom(value.ThreadID) (value.Value, error)  { return nil, nil }
func (stubInterp) ThreadPush(value.Value) error                      { return nil }
func (stubInterp) ThreadPop() (value.Value, error)                   { return nil, nil }
func (stubInterp) CallStack() []rt.CallFrame                         { return nil }
func (stubInterp) CurrentLocation() srcloc.Location                  { return srcloc.Location{} }
func (stubInterp) AddSearchPath(string)                              {}
func (stubInterp) FindFile(string) (string, bool)                    { return "", false }
func (stubInterp) RequestHalt(int)                                   {}
func (stubInterp) HaltRequested() bool                                { return false }
func (stubInterp) ExitCode() int                                      { return 0 }

func instr(op value.Opcode, operand value.Value) value.Instruction {
	return value.Instruction{Op: op, Operand: operand}
}

func TestPushConstantDeepCopies(t *testing.T) {
	e := New()
	scopes := dict.NewScopes()
	arr := value.NewArray()
	arr.Elements = append(arr.Elements, value.Int(1))

	code := []value.Instruction{
		instr(value.OpPushConstant, arr),
		instr(value.OpPushConstant, arr),
	}
	if err := e.Run(stubInterp{}, scopes, code); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", e.Depth())
	}
	a, _ := e.Pick(0)
	b, _ := e.Pick(1)
	if a.(*value.Array) == b.(*value.Array) {
		t.Fatal("two push_constant of the same literal must not alias the same array")
	}
}

func TestDefVariableReadWriteRoundTrip(t *testing.T) {
	e := New()
	scopes := dict.NewScopes()

	code := []value.Instruction{
		instr(value.OpDefVariable, value.Str("x")), // defines word "x" pushing its slot index
		instr(value.OpPushConstant, value.Int(42)),
		instr(value.OpExecute, value.Str("x")),
		instr(value.OpWriteVariable, nil),
		instr(value.OpExecute, value.Str("x")),
		instr(value.OpReadVariable, nil),
	}
	require.NoError(t, e.Run(pushInterp{e: e}, scopes, code))
	top, err := e.Pop()
	require.NoError(t, err)
	require.Equal(t, value.Int(42), top)
}

func TestDefConstantPushesStoredValue(t *testing.T) {
	e := New()
	scopes := dict.NewScopes()

	code := []value.Instruction{
		instr(value.OpPushConstant, value.Int(7)),
		instr(value.OpDefConstant, value.Str("seven")),
		instr(value.OpExecute, value.Str("seven")),
		instr(value.OpExecute, value.Str("seven")),
	}
	if err := e.Run(pushInterp{e: e}, scopes, code); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", e.Depth())
	}
	a, _ := e.Pop()
	b, _ := e.Pop()
	if a.(value.Int) != 7 || b.(value.Int) != 7 {
		t.Fatalf("expected both reads to be 7, got %v, %v", a, b)
	}
}

// TestAbsoluteValueBranching exercises: dup 0 < if -1 * then, via an
// explicit resolved jump_if_zero, the shape spec.md §8's "abs" scenario
// names.
func TestAbsoluteValueBranching(t *testing.T) {
	e := New()
	scopes := dict.NewScopes()
	scopes.DefineWord(dict.WordDescriptor{Name: "dup"}, dict.HandlerEntry{Name: "dup", Fn: func(i rt.Interp) error {
		v, err := e.Pick(0)
		if err != nil {
			return err
		}
		e.Push(value.DeepCopy(v))
		return nil
	}})
	scopes.DefineWord(dict.WordDescriptor{Name: "<"}, dict.HandlerEntry{Name: "<", Fn: func(i rt.Interp) error {
		b, err := e.PopAsInt()
		if err != nil {
			return err
		}
		a, err := e.PopAsInt()
		if err != nil {
			return err
		}
		e.Push(value.Bool(a < b))
		return nil
	}})
	scopes.DefineWord(dict.WordDescriptor{Name: "negate"}, dict.HandlerEntry{Name: "negate", Fn: func(i rt.Interp) error {
		v, err := e.PopAsInt()
		if err != nil {
			return err
		}
		e.Push(value.Int(-v))
		return nil
	}})

	// dup 0 < jump_if_zero(+2) negate jump_target
	code := []value.Instruction{
		instr(value.OpExecute, value.Str("dup")),
		instr(value.OpPushConstant, value.Int(0)),
		instr(value.OpExecute, value.Str("<")),
		instr(value.OpJumpIfZero, value.Int(2)),
		instr(value.OpExecute, value.Str("negate")),
		instr(value.OpJumpTarget, value.Int(0)),
	}

	for _, in := range []int64{-5, 5} {
		e.ClearStack()
		e.Push(value.Int(in))
		if err := e.Run(stubInterp{}, scopes, code); err != nil {
			t.Fatalf("Run(%d): %v", in, err)
		}
		got, _ := e.Pop()
		if got.(value.Int) != 5 {
			t.Fatalf("abs(%d) = %v, want 5", in, got)
		}
	}
}

func TestMarkContextReleaseContextScopesVariables(t *testing.T) {
	e := New()
	scopes := dict.NewScopes()

	code := []value.Instruction{
		instr(value.OpMarkContext, nil),
		instr(value.OpDefVariable, value.Str("x")),
		instr(value.OpReleaseContext, nil),
		instr(value.OpWordExists, value.Str("x")),
	}
	if err := e.Run(stubInterp{}, scopes, code); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got, _ := e.Pop()
	if value.Truthy(got) {
		t.Fatal("x should not exist after its defining context was released")
	}
}

func TestThrowCatchPushesThrownValueAndKeepsStack(t *testing.T) {
	e := New()
	scopes := dict.NewScopes()
	scopes.DefineWord(dict.WordDescriptor{Name: "boom"}, dict.HandlerEntry{Name: "boom", Fn: func(i rt.Interp) error {
		return NewThrown(value.Str("bad-news"))
	}})

	code := []value.Instruction{
		instr(value.OpPushConstant, value.Int(1)), // pre-catch stack noise
		instr(value.OpMarkCatch, value.Int(3)),     // on error, jump to jump_target below
		instr(value.OpExecute, value.Str("boom")),
		instr(value.OpUnmarkCatch, nil),
		instr(value.OpJumpTarget, value.Int(0)),
	}

	if err := e.Run(stubInterp{}, scopes, code); err != nil {
		t.Fatalf("Run: %v", err)
	}
	caught, err := e.Pop()
	if err != nil {
		t.Fatalf("expected the thrown value pushed after recovery: %v", err)
	}
	if s, ok := caught.(value.Str); !ok || s != "bad-news" {
		t.Fatalf("caught = %#v, want Str(bad-news)", caught)
	}
	remaining, _ := e.Pop()
	if remaining.(value.Int) != 1 {
		t.Fatalf("stack below the catch frame's mark depth should be untouched, got %v", remaining)
	}
}

// TestCatchPreservesValuesPushedBeforeThrow guards against truncating the
// data stack back to the mark_catch depth on a caught exception: a value
// the try body pushed before throwing must survive past the catch, same
// as the thrown value itself.
func TestCatchPreservesValuesPushedBeforeThrow(t *testing.T) {
	e := New()
	scopes := dict.NewScopes()
	scopes.DefineWord(dict.WordDescriptor{Name: "boom"}, dict.HandlerEntry{Name: "boom", Fn: func(i rt.Interp) error {
		return NewThrown(value.Str("bad-news"))
	}})

	code := []value.Instruction{
		instr(value.OpPushConstant, value.Int(1)), // pre-catch stack noise
		instr(value.OpMarkCatch, value.Int(4)),     // on error, jump to jump_target below
		instr(value.OpPushConstant, value.Int(2)),  // pushed inside the try body before the throw
		instr(value.OpExecute, value.Str("boom")),
		instr(value.OpUnmarkCatch, nil),
		instr(value.OpJumpTarget, value.Int(0)),
	}

	require.NoError(t, e.Run(stubInterp{}, scopes, code))
	caught, err := e.Pop()
	require.NoError(t, err)
	s, ok := caught.(value.Str)
	require.True(t, ok)
	require.Equal(t, value.Str("bad-news"), s)

	pushedBeforeThrow, err := e.Pop()
	require.NoError(t, err)
	require.Equal(t, value.Int(2), pushedBeforeThrow)

	preCatchNoise, err := e.Pop()
	require.NoError(t, err)
	require.Equal(t, value.Int(1), preCatchNoise)
}

func TestUncaughtThrowPropagates(t *testing.T) {
	e := New()
	scopes := dict.NewScopes()
	scopes.DefineWord(dict.WordDescriptor{Name: "boom"}, dict.HandlerEntry{Name: "boom", Fn: func(i rt.Interp) error {
		return NewThrown(value.Str("bad-news"))
	}})

	code := []value.Instruction{instr(value.OpExecute, value.Str("boom"))}
	err := e.Run(stubInterp{}, scopes, code)
	require.Error(t, err, "expected an uncaught throw to propagate out of Run")
}
