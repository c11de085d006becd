// Package value implements the runtime value system shared by the compiler
// and the execution engine.
//
// A [Value] is a tagged union: none, boolean, integer, float, string, token,
// array, hash table, byte buffer, data-object, bytecode block, or thread
// identifier. The first six variants are owned — copying a Go value of
// these kinds copies the content. The remaining variants (array, hash
// table, byte buffer, data-object) have reference semantics: copying a
// Value copies the handle, and mutation through one handle is visible
// through every other handle to the same underlying storage. [DeepCopy]
// is the explicit operation that duplicates the referenced graph instead
// of the handle.
//
// Unlike the C++ lineage this package is ported from, Go's tracing
// collector reclaims cyclic value graphs for us, so [Value] carries no
// manual reference count.
package value

import (
	"fmt"
	"strconv"

	"github.com/forge-lang/forge/internal/token"
)

// Kind identifies a Value's variant.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindToken
	KindArray
	KindTable
	KindBuffer
	KindStruct
	KindBlock
	KindThreadID
)

// String renders the kind's name, used in type-mismatch diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindToken:
		return "token"
	case KindArray:
		return "array"
	case KindTable:
		return "hash-table"
	case KindBuffer:
		return "byte-buffer"
	case KindStruct:
		return "data-object"
	case KindBlock:
		return "bytecode-block"
	case KindThreadID:
		return "thread-id"
	default:
		return "unknown"
	}
}

// Value is the common interface implemented by every runtime value variant.
type Value interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Inspect renders a human-readable representation, used for . and .s.
	Inspect() string
}

// None is the singleton absence-of-value.
type None struct{}

func (None) Kind() Kind      { return KindNone }
func (None) Inspect() string { return "none" }

// Bool wraps a boolean value.
type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (b Bool) Inspect() string {
	if b {
		return "true"
	}
	return "false"
}

// Int wraps a signed 64-bit integer value.
type Int int64

func (Int) Kind() Kind           { return KindInt }
func (i Int) Inspect() string    { return strconv.FormatInt(int64(i), 10) }

// Float wraps a 64-bit floating point value.
type Float float64

func (Float) Kind() Kind        { return KindFloat }
func (f Float) Inspect() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

// Str wraps an owned string, which may contain arbitrary bytes.
type Str string

func (Str) Kind() Kind        { return KindString }
func (s Str) Inspect() string { return string(s) }

// TokenValue captures a Token as a first-class value, so that the
// metacompilation machinery (backtick, compile-until-words) can push and
// pass around tokens it has consumed from the input stream.
type TokenValue struct {
	Token token.Token
}

func (TokenValue) Kind() Kind           { return KindToken }
func (t TokenValue) Inspect() string    { return t.Token.Text }

// Truthy reports whether v is the conventional "true" value for
// jump_if_zero/jump_if_not_zero and other boolean consumers: booleans use
// their own value, integers are truthy when nonzero, and everything else
// (including none) is falsy except for an explicit Bool(true).
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Int:
		return x != 0
	default:
		return false
	}
}

// TypeError reports that a value of kind got was used where kind want was
// required.
func TypeError(want, got Kind) error {
	return fmt.Errorf("type mismatch: expected %s, got %s", want, got)
}
