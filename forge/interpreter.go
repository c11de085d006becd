// Package forge implements the Interpreter facade described in spec.md
// §6: the one type that embeds a dictionary, an execution engine, a
// compile context, and a worker registry into something an embedder can
// construct, feed source to, and query — the same role the teacher's
// main.go fills ad hoc with package-level lexer/compiler/vm calls, here
// pulled into a reusable, composable type.
package forge

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/forge-lang/forge/internal/bytecode"
	"github.com/forge-lang/forge/internal/builtin"
	"github.com/forge-lang/forge/internal/compile"
	"github.com/forge-lang/forge/internal/dict"
	"github.com/forge-lang/forge/internal/engine"
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/srcloc"
	"github.com/forge-lang/forge/internal/token"
	"github.com/forge-lang/forge/internal/value"
	"github.com/forge-lang/forge/internal/worker"
)

// Interpreter is the concrete rt.Interp every word handler — builtin,
// scripted, or immediate — runs against. A fresh root Interpreter owns
// its own worker registry; a threaded sub-interpreter (spawned by
// ThreadNew) shares that same registry by reference but may not itself
// spawn further threads, per spec.md §4.6's "only the root interpreter
// may create worker threads."
type Interpreter struct {
	Scopes *dict.Scopes
	Engine *engine.Engine
	Driver *compile.Driver

	workers *worker.Registry
	isRoot  bool
	self    *worker.Worker

	searchPaths []string
}

// New returns a root interpreter with the builtin vocabulary installed.
func New() *Interpreter {
	scopes := dict.NewScopes()
	builtin.Install(scopes)
	return &Interpreter{
		Scopes:  scopes,
		Engine:  engine.New(),
		workers: worker.NewRegistry(),
		isRoot:  true,
	}
}

var _ rt.Interp = (*Interpreter)(nil)

// ProcessSource tokenizes, compiles, and runs src in one pass, named by
// name for diagnostics. It is the building block behind both script
// execution (the whole file, one call) and REPL evaluation (one call
// per line).
func (i *Interpreter) ProcessSource(name, src string) error {
	tokens, err := token.Tokenize(name, src)
	if err != nil {
		return newError(KindTokenize, srcloc.New(name), err)
	}

	i.Driver = compile.NewDriver(tokens, i.Scopes)
	defer func() { i.Driver = nil }()

	for {
		tok, ok := i.Driver.Context.NextToken()
		if !ok {
			break
		}
		if err := i.Driver.CompileToken(i, tok); err != nil {
			return newError(KindCompile, tok.Location, err)
		}
	}

	if i.Driver.Context.Depth() != 1 {
		return newError(KindCompile, srcloc.New(name), errors.New("unbalanced construction: a \":\" or code.new-block was never closed"))
	}

	top, _ := i.Driver.Context.Top()
	bytecode.ResolveLabels(top.Code)

	if err := i.Engine.Run(i, i.Scopes, top.Code); err != nil {
		var thrown *engine.Thrown
		if errors.As(err, &thrown) {
			return newError(KindThrown, srcloc.New(name), err)
		}
		return newError(KindRuntime, srcloc.New(name), err)
	}
	return nil
}

// Probe reports whether src would leave an unclosed ":" or
// code.new-block open if compiled right now — the signal an embedder's front end
// (e.g. cmd/forge's shell) needs to decide whether to keep buffering more
// input rather than treat src as a failed line. An unclosed if, begin or
// try is not reported as open: its compile fails at the end of input,
// and Probe returns false for it as for any other compile error. It
// compiles against a
// throwaway clone of i's current dictionary (so a user-defined immediate
// word from an earlier line is honored exactly as it would be by the
// real call) but deliberately stops short of label resolution/Engine.Run,
// unlike ProcessSource: src may be well-formed and side-effecting (a
// "." or "thread.new"), and Probe must never execute it. A custom
// immediate word still runs its own body during this compile pass (that
// is what "immediate" means), so a user-defined immediate word with its
// own side effects runs twice if src turns out to be well-formed — an
// inherent cost of probing ahead in a language where compiling an
// immediate word already is executing it, not specific to this method.
func (i *Interpreter) Probe(name, src string) bool {
	tokens, err := token.Tokenize(name, src)
	if err != nil {
		return false
	}
	clone := i.Scopes.Clone()
	driver := compile.NewDriver(tokens, clone)
	tmp := &Interpreter{Scopes: clone, Engine: engine.New(), Driver: driver}

	for {
		tok, ok := driver.Context.NextToken()
		if !ok {
			break
		}
		if err := driver.CompileToken(tmp, tok); err != nil {
			return false
		}
	}
	return driver.Context.Depth() != 1
}

// --- Data stack -----------------------------------------------------

func (i *Interpreter) Push(v value.Value)              { i.Engine.Push(v) }
func (i *Interpreter) Pop() (value.Value, error)        { return i.Engine.Pop() }
func (i *Interpreter) PopAsInt() (int64, error)         { return i.Engine.PopAsInt() }
func (i *Interpreter) PopAsFloat() (float64, error)     { return i.Engine.PopAsFloat() }
func (i *Interpreter) PopAsString() (string, error)     { return i.Engine.PopAsString() }
func (i *Interpreter) PopAsBool() (bool, error)         { return i.Engine.PopAsBool() }
func (i *Interpreter) Pick(n int) (value.Value, error)  { return i.Engine.Pick(n) }
func (i *Interpreter) Depth() int                       { return i.Engine.Depth() }
func (i *Interpreter) ClearStack()                      { i.Engine.ClearStack() }

// --- Dictionary / word execution ------------------------------------

// AddWord installs word into the dictionary and handler table, wrapping
// fn so that a scripted word's ContextManaged flag opens and releases
// its own scope around every call — the behavior ":"/";" rely on.
func (i *Interpreter) AddWord(word rt.CompiledWord, fn rt.HandlerFunc) error {
	wrapped := fn
	if word.ContextManaged {
		wrapped = func(callee rt.Interp) error {
			callee.MarkContext()
			err := fn(callee)
			if rerr := callee.ReleaseContext(); rerr != nil && err == nil {
				err = rerr
			}
			return err
		}
	}
	i.Scopes.DefineWord(
		dict.WordDescriptor{
			Name:           word.Name,
			IsImmediate:    word.Immediate,
			IsScripted:     true,
			IsHidden:       word.Hidden,
			ContextManaged: word.ContextManaged,
			Description:    word.Description,
			Signature:      word.Signature,
			Location:       word.Location,
		},
		dict.HandlerEntry{Name: word.Name, Fn: wrapped, Location: word.Location},
	)
	return nil
}

func (i *Interpreter) FindWord(name string) (int, bool, bool) {
	wd, found := i.Scopes.Dictionary.Find(name)
	if !found {
		return 0, false, false
	}
	return wd.HandlerIndex, wd.IsImmediate, true
}

func (i *Interpreter) WordExists(name string) bool {
	_, found := i.Scopes.Dictionary.Find(name)
	return found
}

func (i *Interpreter) ExecuteWord(name string) error {
	return i.Engine.Run(i, i.Scopes, []value.Instruction{{Op: value.OpExecute, Operand: value.Str(name)}})
}

func (i *Interpreter) ExecuteIndex(index int) error {
	return i.Engine.Run(i, i.Scopes, []value.Instruction{{Op: value.OpExecute, Operand: value.Int(int64(index))}})
}

func (i *Interpreter) ExecuteCode(name string, code []value.Instruction, contextManaged bool) error {
	if !contextManaged {
		return i.Engine.Run(i, i.Scopes, code)
	}
	i.MarkContext()
	err := i.Engine.Run(i, i.Scopes, code)
	if rerr := i.ReleaseContext(); rerr != nil && err == nil {
		err = rerr
	}
	return err
}

// --- Scoping ----------------------------------------------------------

func (i *Interpreter) MarkContext() {
	i.Scopes.MarkContext()
	i.Engine.Variables.Mark()
}

func (i *Interpreter) ReleaseContext() error {
	if err := i.Scopes.ReleaseContext(); err != nil {
		return err
	}
	return i.Engine.Variables.Release()
}

// --- Compile context ---------------------------------------------------

func (i *Interpreter) InCompile() bool { return i.Driver != nil }

func (i *Interpreter) NextToken() (token.Token, bool) {
	if i.Driver == nil {
		return token.Token{}, false
	}
	return i.Driver.Context.NextToken()
}

func (i *Interpreter) PeekToken() (token.Token, bool) {
	if i.Driver == nil {
		return token.Token{}, false
	}
	return i.Driver.Context.PeekToken()
}

func (i *Interpreter) PushConstruction(name string, loc srcloc.Location) {
	if i.Driver == nil {
		return
	}
	i.Driver.Context.PushConstruction(name, loc)
}

func (i *Interpreter) PushConstructionWithCode(name string, loc srcloc.Location, code []value.Instruction) {
	if i.Driver == nil {
		return
	}
	i.Driver.Context.PushConstructionWithCode(name, loc, code)
}

func (i *Interpreter) PopConstruction() (rt.CompiledWord, error) {
	if i.Driver == nil {
		return rt.CompiledWord{}, errors.New("pop_construction: not compiling")
	}
	return i.Driver.Context.PopConstruction()
}

func (i *Interpreter) Emit(instr value.Instruction) {
	if i.Driver == nil {
		return
	}
	_ = i.Driver.Context.Emit(instr)
}

func (i *Interpreter) SetInsertAtBeginning(atBeginning bool) {
	if i.Driver == nil {
		return
	}
	_ = i.Driver.Context.SetInsertAtBeginning(atBeginning)
}

func (i *Interpreter) SetImmediate() {
	if i.Driver != nil {
		_ = i.Driver.Context.SetImmediate()
	}
}

func (i *Interpreter) SetHidden() {
	if i.Driver != nil {
		_ = i.Driver.Context.SetHidden()
	}
}

func (i *Interpreter) SetContextless() {
	if i.Driver != nil {
		_ = i.Driver.Context.SetContextless()
	}
}

func (i *Interpreter) SetDescription(text string) {
	if i.Driver != nil {
		_ = i.Driver.Context.SetDescription(text)
	}
}

func (i *Interpreter) SetSignature(text string) {
	if i.Driver != nil {
		_ = i.Driver.Context.SetSignature(text)
	}
}

func (i *Interpreter) ConstructionDepth() int {
	if i.Driver == nil {
		return 0
	}
	return i.Driver.Context.Depth()
}

func (i *Interpreter) CompileUntil(stop []string) (string, error) {
	if i.Driver == nil {
		return "", errors.New("compile_until: not compiling")
	}
	set := make(map[string]bool, len(stop))
	for _, s := range stop {
		set[s] = true
	}
	return i.Driver.CompileUntil(i, set)
}

// --- Diagnostics ------------------------------------------------------

func (i *Interpreter) CallStack() []rt.CallFrame { return i.Engine.CallStack() }

func (i *Interpreter) CurrentLocation() srcloc.Location {
	calls := i.Engine.CallStack()
	if len(calls) == 0 {
		return srcloc.Location{}
	}
	return calls[len(calls)-1].Location
}

// --- Search path / file resolution -------------------------------------

func (i *Interpreter) AddSearchPath(path string) {
	i.searchPaths = append(i.searchPaths, path)
}

func (i *Interpreter) FindFile(name string) (string, bool) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return name, true
		}
		return "", false
	}
	for _, dir := range i.searchPaths {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	if _, err := os.Stat(name); err == nil {
		return name, true
	}
	return "", false
}

// --- Halt / exit code ---------------------------------------------------

func (i *Interpreter) RequestHalt(exitCode int) { i.Engine.RequestHalt(exitCode) }
func (i *Interpreter) HaltRequested() bool      { return i.Engine.HaltRequested() }
func (i *Interpreter) ExitCode() int            { return i.Engine.ExitCode() }

// GetCallStack is the public diagnostic accessor named in spec.md §6
// (get_call_stack); CallStack satisfies rt.Interp directly, so this is a
// thin alias for callers that don't want to depend on internal/rt.
func (i *Interpreter) GetCallStack() []rt.CallFrame { return i.CallStack() }

// PrintDictionary lists every visible (non-hidden) word, innermost scope
// shadowing outer, via fn — the dictionary listing diagnostic of spec.md
// §6 (print_dictionary); InverseLookup below is the inverse lookup.
func (i *Interpreter) PrintDictionary(fn func(name string, immediate bool)) {
	i.Scopes.Dictionary.Each(func(wd dict.WordDescriptor) {
		fn(wd.Name, wd.IsImmediate)
	})
}

// InverseLookup returns the name a handler index was defined under, for
// disassembly/diagnostics (get_inverse_lookup_list in spec.md §6).
func (i *Interpreter) InverseLookup(handlerIndex int) (string, bool) {
	entry, ok := i.Scopes.Handlers.Get(handlerIndex)
	if !ok {
		return "", false
	}
	return entry.Name, true
}

// CompileBytes persists code as a gob-encoded program (§6's "compile
// once, persist, reload" split).
func CompileBytes(code []value.Instruction) ([]byte, error) {
	return bytecode.Marshal(code)
}

// LoadBytes decodes a program previously written by CompileBytes.
func LoadBytes(data []byte) ([]value.Instruction, error) {
	return bytecode.Unmarshal(data)
}
