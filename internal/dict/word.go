// Package dict implements the scoped dictionary and its parallel handler
// table, per spec.md §3/§4: word lookup resolves innermost-scope-first,
// mark_context/release_context push and pop a scope on both stacks in
// lock-step, and a word definition is a name bound to an index into the
// handler table rather than to the handler itself.
//
// Grounded on compiler/symbol_table.go's SymbolTable/Outer chain
// (innermost-to-outermost Define/Resolve), generalized from a single
// symbol table into the spec's paired dictionary + handler-table scope
// stacks.
package dict

import (
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/srcloc"
)

// WordDescriptor is a dictionary entry: everything about a word except
// its handler body, which lives in the parallel HandlerTable at
// HandlerIndex.
type WordDescriptor struct {
	Name           string
	HandlerIndex   int
	IsImmediate    bool
	IsScripted     bool
	IsHidden       bool
	ContextManaged bool
	Description    string
	Signature      string
	Location       srcloc.Location
}

// HandlerEntry is one slot of the handler table: the callable body, plus
// enough metadata for disassembly and inverse-lookup diagnostics.
type HandlerEntry struct {
	Name     string
	Fn       rt.HandlerFunc
	Location srcloc.Location
}
