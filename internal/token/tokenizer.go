package token

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/forge-lang/forge/internal/srcloc"
)

// tokenizer streams a source buffer byte by byte, tracking location, and
// yields tokens. It never interprets numbers — that's the compiler's job —
// and never reinterprets a string literal's contents.
type tokenizer struct {
	path   string
	src    string
	pos    int
	loc    srcloc.Location
	tokens []Token
}

// Tokenize scans the given source text, named by path for diagnostics, into
// a flat sequence of tokens. An unterminated string literal or an
// out-of-range `\0` numeric escape is a fatal tokenization error.
func Tokenize(path, src string) ([]Token, error) {
	t := &tokenizer{path: path, src: src, loc: srcloc.New(path)}

	for {
		t.skipWhitespace()
		if t.atEnd() {
			break
		}

		start := t.loc
		if t.peek() == '"' {
			text, err := t.readString(start)
			if err != nil {
				return nil, err
			}
			t.tokens = append(t.tokens, Token{Hint: String, Location: start, Text: text})
			continue
		}

		text := t.readWord()
		hint := Word
		if isNumeric(text) {
			hint = Number
		}
		t.tokens = append(t.tokens, Token{Hint: hint, Location: start, Text: text})
	}

	return t.tokens, nil
}

func (t *tokenizer) atEnd() bool { return t.pos >= len(t.src) }

func (t *tokenizer) peek() byte {
	if t.atEnd() {
		return 0
	}
	return t.src[t.pos]
}

func (t *tokenizer) peekAt(offset int) byte {
	if t.pos+offset >= len(t.src) {
		return 0
	}
	return t.src[t.pos+offset]
}

// advance consumes and returns the current byte, updating location.
func (t *tokenizer) advance() byte {
	ch := t.src[t.pos]
	t.pos++
	if ch == '\n' {
		t.loc = t.loc.NextLine()
	} else {
		t.loc = t.loc.NextColumn()
	}
	return ch
}

func (t *tokenizer) skipWhitespace() {
	for !t.atEnd() {
		switch t.peek() {
		case ' ', '\t', '\n':
			t.advance()
		default:
			return
		}
	}
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n'
}

// readWord accumulates non-whitespace bytes into a word's text.
func (t *tokenizer) readWord() string {
	var b strings.Builder
	for !t.atEnd() && !isWhitespace(t.peek()) {
		b.WriteByte(t.advance())
	}
	return b.String()
}

// readString consumes the opening quote, the body (honoring escapes), and
// the closing quote, returning the unescaped text.
func (t *tokenizer) readString(start srcloc.Location) (string, error) {
	t.advance() // opening quote

	var b strings.Builder
	for {
		if t.atEnd() {
			return "", fmt.Errorf("tokenize %s: unterminated string literal", start)
		}

		ch := t.advance()
		if ch == '"' {
			return b.String(), nil
		}

		if ch == '\\' {
			if t.atEnd() {
				return "", fmt.Errorf("tokenize %s: unterminated string literal", start)
			}
			escaped, err := t.readEscape(start)
			if err != nil {
				return "", err
			}
			b.WriteByte(escaped)
			continue
		}

		b.WriteByte(ch)
	}
}

// readEscape consumes one escape sequence following a backslash already
// consumed by the caller. `\0` is followed by a run of decimal digits
// giving the byte's numeric code, which must be < 256.
func (t *tokenizer) readEscape(start srcloc.Location) (byte, error) {
	next := t.advance()

	switch next {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case '0':
		var digits strings.Builder
		for !t.atEnd() && isDecimalDigit(t.peek()) {
			digits.WriteByte(t.advance())
		}
		if digits.Len() == 0 {
			return 0, nil
		}
		n, err := strconv.Atoi(digits.String())
		if err != nil {
			return 0, fmt.Errorf("tokenize %s: bad numeric character escape: %w", start, err)
		}
		if n >= 256 {
			return 0, fmt.Errorf("tokenize %s: numeric character literal out of range: %d", start, n)
		}
		return byte(n), nil
	default:
		return next, nil
	}
}

func isDecimalDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// isNumeric reports whether text looks like the start of a number: a
// leading decimal digit, or a leading +/- followed by a decimal digit.
// This is only a hint — the compiler does the actual parsing.
func isNumeric(text string) bool {
	if text == "" {
		return false
	}
	if isDecimalDigit(text[0]) {
		return true
	}
	if (text[0] == '+' || text[0] == '-') && len(text) > 1 {
		return isDecimalDigit(text[1])
	}
	return false
}
