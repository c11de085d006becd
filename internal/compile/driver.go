package compile

import (
	"fmt"
	"strconv"

	"github.com/forge-lang/forge/internal/dict"
	"github.com/forge-lang/forge/internal/rt"
	"github.com/forge-lang/forge/internal/srcloc"
	"github.com/forge-lang/forge/internal/token"
	"github.com/forge-lang/forge/internal/value"
)

// Driver is the compiler proper: a Context to build into and the
// dictionary/handler-table scopes to resolve words against. It has no
// state of its own beyond those two, so it can be embedded directly in
// the concrete interpreter type without extra indirection.
type Driver struct {
	Context *Context
	Scopes  *dict.Scopes
}

// NewDriver returns a Driver over a freshly tokenized source compiling
// against scopes.
func NewDriver(tokens []token.Token, scopes *dict.Scopes) *Driver {
	return &Driver{Context: New(tokens), Scopes: scopes}
}

// CompileToken is spec.md §4.2's per-token dispatch:
//
//   - a string-hinted token always compiles to a push_constant_value of
//     that string;
//   - any other token that resolves in the dictionary and is
//     immediate runs its handler right now, with interp passed through
//     so the handler can mutate this very compile context;
//   - a token that resolves and is not immediate compiles to
//     execute(handler_index);
//   - a number-hinted token that does not resolve parses to an int or
//     float and compiles to push_constant_value;
//   - a word-hinted token that does not resolve compiles to a
//     late-bound execute(name), resolved at run time — this is what
//     lets a word definition forward-reference a word not yet defined.
func (d *Driver) CompileToken(interp rt.Interp, tok token.Token) error {
	if tok.Hint == token.String {
		return d.emit(value.OpPushConstant, value.Str(tok.Text), tok.Location)
	}

	wd, found := d.Scopes.Dictionary.Find(tok.Text)
	if !found {
		if tok.Hint == token.Number {
			v, err := parseNumber(tok.Text)
			if err != nil {
				return fmt.Errorf("%s: %w", tok.Location, err)
			}
			return d.emit(value.OpPushConstant, v, tok.Location)
		}
		return d.emit(value.OpExecute, value.Str(tok.Text), tok.Location)
	}

	if wd.IsImmediate {
		entry, ok := d.Scopes.Handlers.Get(wd.HandlerIndex)
		if !ok {
			return fmt.Errorf("%s: %q resolved to a dangling handler index %d", tok.Location, tok.Text, wd.HandlerIndex)
		}
		return entry.Fn(interp)
	}

	return d.emit(value.OpExecute, value.Int(int64(wd.HandlerIndex)), tok.Location)
}

func (d *Driver) emit(op value.Opcode, operand value.Value, loc srcloc.Location) error {
	l := loc
	return d.Context.Emit(value.Instruction{Op: op, Operand: operand, Location: &l})
}

// CompileUntil repeatedly compiles tokens until one is a word whose text
// is a member of stop (and is not itself resolved as a push-constant
// token), returning that stop word's text. It is the building block
// behind if/else/then, begin/until, and every other control-flow word
// that needs to consume and compile a sub-block bounded by one of a
// fixed set of terminators.
func (d *Driver) CompileUntil(interp rt.Interp, stop map[string]bool) (string, error) {
	for {
		tok, ok := d.Context.NextToken()
		if !ok {
			return "", fmt.Errorf("unexpected end of input while compiling, expected one of %s", stopWordsList(stop))
		}
		if tok.Hint == token.Word && stop[tok.Text] {
			return tok.Text, nil
		}
		if err := d.CompileToken(interp, tok); err != nil {
			return "", err
		}
	}
}

func stopWordsList(stop map[string]bool) []string {
	out := make([]string, 0, len(stop))
	for w := range stop {
		out = append(out, w)
	}
	return out
}

// parseNumber parses a number-hinted token's text into an Int or, if it
// contains a decimal point or exponent, a Float. A "0x" or "0b" prefix
// (either case) parses as hex/binary; anything else falls back to plain
// decimal integer, then decimal float.
func parseNumber(text string) (value.Value, error) {
	if hasRadixPrefix(text) {
		i, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed numeric literal %q", text)
		}
		return value.Int(i), nil
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return value.Int(i), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed numeric literal %q", text)
	}
	return value.Float(f), nil
}

func hasRadixPrefix(text string) bool {
	s := text
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'x', 'X', 'b', 'B':
		return true
	default:
		return false
	}
}
