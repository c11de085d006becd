package forge

import (
	"fmt"

	"github.com/forge-lang/forge/internal/srcloc"
)

// ErrorKind classifies an Error the way spec.md §7 enumerates them:
// tokenization, compilation, and execution are distinct phases that fail
// in distinct ways, and a caller embedding forge wants to tell them apart
// without string-matching an error message.
type ErrorKind int

const (
	// KindTokenize is an unterminated string literal or a malformed
	// numeric character escape.
	KindTokenize ErrorKind = iota
	// KindCompile is a malformed numeric literal, an unbalanced
	// construction (";" with no matching ":"), or any other error raised
	// while building bytecode.
	KindCompile
	// KindRuntime is a stack underflow, an undefined word, a type
	// mismatch, or any other error raised while running bytecode.
	KindRuntime
	// KindThrown is a value thrown by the in-language throw primitive
	// that propagated past every open catch frame.
	KindThrown
)

func (k ErrorKind) String() string {
	switch k {
	case KindTokenize:
		return "tokenize"
	case KindCompile:
		return "compile"
	case KindRuntime:
		return "runtime"
	case KindThrown:
		return "thrown"
	default:
		return "error"
	}
}

// Error is the one error type forge returns across its whole external
// surface, grounded on the teacher's own `fmt.Errorf("...: %w", err)`
// wrapping idiom (compiler.Compile, vm.Run) rather than a bespoke errors
// package: it wraps a cause and supports errors.Is/errors.As through
// Unwrap, but also carries the structured Kind/Location spec.md §7 asks
// for, which a plain wrapped string cannot.
type Error struct {
	Kind     ErrorKind
	Location srcloc.Location
	Cause    error
}

func (e *Error) Error() string {
	if e.Location.Path == "" && e.Location.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Location, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind ErrorKind, loc srcloc.Location, cause error) *Error {
	return &Error{Kind: kind, Location: loc, Cause: cause}
}
