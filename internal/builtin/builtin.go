// Package builtin installs the minimal primitive word surface needed to
// bootstrap and exercise the language: arithmetic and comparison,
// stack shuffling, the core immediate words that make compilation
// itself programmable (":"/";", immediate/hidden/contextless/
// description:/signature:, backtick), if/else/then and begin/until,
// try/catch/endtry, variable definition, a representative slice of the
// compile-context-as-library primitives, and thread.*.
//
// Grounded on object/builtins.go's Builtins table shape ({Name, Builtin}
// entries registered in bulk) generalized into registration calls
// against internal/dict, and evaluator/builtins.go's thin name -> function
// lookup map pattern.
package builtin

import (
	"github.com/forge-lang/forge/internal/dict"
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/srcloc"
)

var builtinLocation = srcloc.Location{Path: "<builtin>"}

// Install defines every primitive word this package provides directly
// into scopes's root scope.
func Install(scopes *dict.Scopes) {
	installArithmetic(scopes)
	installStack(scopes)
	installWords(scopes)
	installControl(scopes)
	installCompiler(scopes)
	installThreads(scopes)
}

func define(scopes *dict.Scopes, name string, immediate bool, fn rt.HandlerFunc) {
	scopes.DefineWord(
		dict.WordDescriptor{Name: name, IsImmediate: immediate, Location: builtinLocation},
		dict.HandlerEntry{Name: name, Fn: fn, Location: builtinLocation},
	)
}
