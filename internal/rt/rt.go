// Package rt defines the capability surface that a word handler — whether
// a primitive, a compiled/scripted word, or an immediate compile-time word
// — runs against. It exists purely to break what would otherwise be an
// import cycle: internal/dict stores handlers, internal/compile invokes
// immediate handlers while building a block, and internal/engine invokes
// every other handler while executing one, and none of the three may
// import the concrete interpreter, which imports all of them. The
// concrete type satisfying Interp lives in package forge.
//
// This mirrors the teacher's evaluator/builtins.go, where every built-in
// is a plain function closing over the *object.Environment it needs
// rather than the evaluator reaching back into concrete evaluator state;
// here the indirection is an interface instead of a closure because a
// handler must be storable in the dictionary and shared across clones.
package rt

import (
	"github.com/forge-lang/forge/internal/srcloc"
	"github.com/forge-lang/forge/internal/token"
	"github.com/forge-lang/forge/internal/value"
)

// HandlerFunc is the uniform shape of every word body: primitives,
// compiled words, and immediate (compile-time) words alike. Compiled
// words are handlers that close over their own compiled code and invoke
// Interp.ExecuteCode; immediate words instead call back into the
// compile-context methods of Interp to shape the construction currently
// being built.
type HandlerFunc func(Interp) error

// CallFrame is one entry of the diagnostic call stack described in
// spec.md §6: it never drives control flow, it only supports
// get_call_stack for error reporting.
type CallFrame struct {
	Name     string
	Location srcloc.Location
}

// CompiledWord is what popping a finished construction off the compile
// context yields: a name, its resolved code, and the flags the word was
// built up with via immediate/hidden/contextless/description:/signature:.
type CompiledWord struct {
	Name           string
	Code           []value.Instruction
	Location       srcloc.Location
	Immediate      bool
	Hidden         bool
	ContextManaged bool
	Description    string
	Signature      string
}

// Interp is the full capability surface SPEC_FULL.md's interpreter
// facade exposes to word handlers. A concrete implementation composes a
// dictionary, an execution engine, a compile context, and a worker
// registry; see the root forge package.
type Interp interface {
	// Data stack.
	Push(v value.Value)
	Pop() (value.Value, error)
	PopAsInt() (int64, error)
	PopAsFloat() (float64, error)
	PopAsString() (string, error)
	PopAsBool() (bool, error)
	Pick(n int) (value.Value, error)
	Depth() int
	ClearStack()

	// Dictionary / word execution.
	AddWord(word CompiledWord, fn HandlerFunc) error
	FindWord(name string) (handlerIndex int, immediate bool, found bool)
	WordExists(name string) bool
	ExecuteWord(name string) error
	ExecuteIndex(index int) error
	ExecuteCode(name string, code []value.Instruction, contextManaged bool) error

	// Scoping.
	MarkContext()
	ReleaseContext() error

	// Compile context — valid only while InCompile() is true; every
	// method here is a no-op / returns an error otherwise.
	InCompile() bool
	NextToken() (token.Token, bool)
	PeekToken() (token.Token, bool)
	PushConstruction(name string, loc srcloc.Location)
	PushConstructionWithCode(name string, loc srcloc.Location, code []value.Instruction)
	PopConstruction() (CompiledWord, error)
	Emit(instr value.Instruction)
	SetInsertAtBeginning(atBeginning bool)
	SetImmediate()
	SetHidden()
	SetContextless()
	SetDescription(text string)
	SetSignature(text string)
	ConstructionDepth() int
	// CompileUntil recursively compiles tokens (running immediate
	// handlers as they're encountered, just like top-level compilation)
	// until it reads a word-hinted token whose text is in stop, which it
	// consumes and returns without compiling. It is how a control-flow
	// immediate word (if/else/then, begin/until) compiles its own body.
	CompileUntil(stop []string) (string, error)

	// Threads.
	ThreadNew(name string, body []value.Instruction) (value.ThreadID, error)
	ThreadPushTo(id value.ThreadID, v value.Value) error
	ThreadPopFrom(id value.ThreadID) (value.Value, error)
	ThreadPush(v value.Value) error
	ThreadPop() (value.Value, error)

	// Diagnostics.
	CallStack() []CallFrame
	CurrentLocation() srcloc.Location

	// Search path / file resolution.
	AddSearchPath(path string)
	FindFile(name string) (string, bool)

	// Cooperative halt and process exit code.
	RequestHalt(exitCode int)
	HaltRequested() bool
	ExitCode() int
}
