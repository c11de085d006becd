// Package token defines the lexical tokens produced by the tokenizer and
// consumed by the compiler.
//
// A token's [Hint] is only a guess made by the tokenizer about how its text
// should be interpreted; the compiler is free to reinterpret it (for
// example, a word found in the dictionary is compiled as a call regardless
// of whatever hint the tokenizer attached to it).
package token

import "github.com/forge-lang/forge/internal/srcloc"

// Hint is the tokenizer's guess at the token's kind.
type Hint int

const (
	// Word is the default hint: a run of non-whitespace text.
	Word Hint = iota
	// Number hints that the token's text looks like a numeric literal.
	Number
	// String hints that the token was read from a quoted string literal.
	String
)

// String renders the hint's name, for diagnostics.
func (h Hint) String() string {
	switch h {
	case Number:
		return "number"
	case String:
		return "string"
	default:
		return "word"
	}
}

// Token is a single lexical unit: a type hint, its source location, and its
// literal text (already unescaped, for strings).
type Token struct {
	Hint     Hint
	Location srcloc.Location
	Text     string
}

// String renders the token for diagnostics, as "location: text".
func (t Token) String() string {
	return t.Location.String() + ": " + t.Text
}
