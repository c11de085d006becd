// Package compile implements the token-stream bytecode compiler
// described in spec.md §4.2: there is no AST. Each token is handled as
// it is read, either emitting an instruction into the construction
// currently being built or, for an immediate word, running that word's
// handler right now with full access to the compiler itself — which is
// what lets user code extend the compiler from inside the language.
//
// Grounded on compiler/compiler.go's scope-stack bookkeeping
// (CompilationScope/scopes/scopeIndex, enterScope/leaveScope, emit/
// addInstruction/currentInstructions): that shape — a stack of
// in-progress instruction buffers with a "current" pointer — is exactly
// spec.md's Construction stack. The teacher's tree-walking Compile(node)
// method itself has no analogue here, since there is no tree to walk.
package compile

import (
	"fmt"

	"github.com/forge-lang/forge/internal/bytecode"
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/srcloc"
	"github.com/forge-lang/forge/internal/token"
	"github.com/forge-lang/forge/internal/value"
)

// Construction is one in-progress word definition on the construction
// stack: an instruction buffer plus the flags immediate/hidden/
// contextless/description:/signature: accumulate onto it before it is
// popped into a finished rt.CompiledWord.
type Construction struct {
	Name              string
	Location          srcloc.Location
	Code              []value.Instruction
	Immediate         bool
	Hidden            bool
	ContextManaged    bool
	Description       string
	Signature         string
	insertAtBeginning bool
}

// Emit appends instr to the construction, honoring the current
// insertion policy (append, the default, or prepend — set by
// SetInsertAtBeginning, used by words that splice a prologue onto
// already-emitted code).
func (c *Construction) Emit(instr value.Instruction) {
	if c.insertAtBeginning {
		c.Code = append([]value.Instruction{instr}, c.Code...)
		return
	}
	c.Code = append(c.Code, instr)
}

// Context holds the token stream being compiled and the stack of
// in-progress constructions. A fresh Context starts with one
// construction already open — the implicit top-level script body — so
// that top-level code (outside any ":"..";") has somewhere to compile
// into.
type Context struct {
	Tokens []token.Token
	pos    int
	Stack  []*Construction
}

// New returns a Context over tokens with one open top-level
// construction.
func New(tokens []token.Token) *Context {
	loc := srcloc.Location{}
	if len(tokens) > 0 {
		loc = tokens[0].Location
	}
	return &Context{
		Tokens: tokens,
		Stack:  []*Construction{{Name: "", Location: loc, ContextManaged: true}},
	}
}

// NextToken consumes and returns the next token, or false at end of
// input.
func (c *Context) NextToken() (token.Token, bool) {
	if c.pos >= len(c.Tokens) {
		return token.Token{}, false
	}
	t := c.Tokens[c.pos]
	c.pos++
	return t, true
}

// PeekToken returns the next token without consuming it.
func (c *Context) PeekToken() (token.Token, bool) {
	if c.pos >= len(c.Tokens) {
		return token.Token{}, false
	}
	return c.Tokens[c.pos], true
}

// Top returns the innermost open construction.
func (c *Context) Top() (*Construction, bool) {
	if len(c.Stack) == 0 {
		return nil, false
	}
	return c.Stack[len(c.Stack)-1], true
}

// PushConstruction opens a new, nested construction — used entering a
// ":"..";" definition or a code.new-block. if/then, begin/until and
// try/catch bodies do not open one; they compile into the enclosing
// construction through CompileUntil. It defaults to
// context-managed, matching the original word_start_word: a word's own
// execution opens and releases its own dictionary/variable scope unless
// "contextless" later opts it out.
func (c *Context) PushConstruction(name string, loc srcloc.Location) {
	c.Stack = append(c.Stack, &Construction{Name: name, Location: loc, ContextManaged: true})
}

// PushConstructionWithCode opens a new construction already seeded with
// code — used when an immediate word wants to keep editing a block it
// built some other way (popped back off the data stack by
// code.push-stack-block).
func (c *Context) PushConstructionWithCode(name string, loc srcloc.Location, code []value.Instruction) {
	c.Stack = append(c.Stack, &Construction{Name: name, Location: loc, Code: code})
}

// PopConstruction closes the innermost construction, resolves its
// symbolic jump labels, and returns it as a finished rt.CompiledWord. It
// is an error to pop the implicit top-level construction.
func (c *Context) PopConstruction() (rt.CompiledWord, error) {
	if len(c.Stack) <= 1 {
		return rt.CompiledWord{}, fmt.Errorf("pop_construction: no open construction")
	}
	top := c.Stack[len(c.Stack)-1]
	c.Stack = c.Stack[:len(c.Stack)-1]

	bytecode.ResolveLabels(top.Code)

	return rt.CompiledWord{
		Name:           top.Name,
		Code:           top.Code,
		Location:       top.Location,
		Immediate:      top.Immediate,
		Hidden:         top.Hidden,
		ContextManaged: top.ContextManaged,
		Description:    top.Description,
		Signature:      top.Signature,
	}, nil
}

// Emit appends instr to the innermost open construction.
func (c *Context) Emit(instr value.Instruction) error {
	top, ok := c.Top()
	if !ok {
		return fmt.Errorf("emit: no open construction")
	}
	top.Emit(instr)
	return nil
}

// SetInsertAtBeginning toggles the insertion policy of the innermost
// construction between append (false, the default) and prepend (true).
func (c *Context) SetInsertAtBeginning(atBeginning bool) error {
	top, ok := c.Top()
	if !ok {
		return fmt.Errorf("set_insert_at_beginning: no open construction")
	}
	top.insertAtBeginning = atBeginning
	return nil
}

// SetImmediate, SetHidden, SetContextless, SetDescription, and
// SetSignature mutate the flags of the innermost open construction; they
// back the immediate/hidden/contextless/description:/signature: words.
func (c *Context) SetImmediate() error   { return c.withTop(func(top *Construction) { top.Immediate = true }) }
func (c *Context) SetHidden() error      { return c.withTop(func(top *Construction) { top.Hidden = true }) }
func (c *Context) SetContextless() error {
	return c.withTop(func(top *Construction) { top.ContextManaged = false })
}
func (c *Context) SetDescription(text string) error {
	return c.withTop(func(top *Construction) { top.Description = text })
}
func (c *Context) SetSignature(text string) error {
	return c.withTop(func(top *Construction) { top.Signature = text })
}

func (c *Context) withTop(fn func(*Construction)) error {
	top, ok := c.Top()
	if !ok {
		return fmt.Errorf("no open construction")
	}
	fn(top)
	return nil
}

// Depth reports how many constructions are currently open, including
// the implicit top-level one.
func (c *Context) Depth() int {
	return len(c.Stack)
}
