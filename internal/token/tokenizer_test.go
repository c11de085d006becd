package token

import "testing"

func TestTokenizeWordsAndLocations(t *testing.T) {
	input := "3 4 + .s\n: sq dup * ;"

	tokens, err := Tokenize("test", input)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}

	tests := []struct {
		hint Hint
		text string
		line int
		col  int
	}{
		{Number, "3", 1, 1},
		{Number, "4", 1, 3},
		{Word, "+", 1, 5},
		{Word, ".s", 1, 7},
		{Word, ":", 2, 1},
		{Word, "sq", 2, 3},
		{Word, "dup", 2, 6},
		{Word, "*", 2, 10},
		{Word, ";", 2, 12},
	}

	if len(tokens) != len(tests) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(tests), tokens)
	}

	for i, tt := range tests {
		tok := tokens[i]
		if tok.Hint != tt.hint {
			t.Errorf("token %d: hint=%v, want %v", i, tok.Hint, tt.hint)
		}
		if tok.Text != tt.text {
			t.Errorf("token %d: text=%q, want %q", i, tok.Text, tt.text)
		}
		if tok.Location.Line != tt.line || tok.Location.Column != tt.col {
			t.Errorf("token %d: location=%d:%d, want %d:%d",
				i, tok.Location.Line, tok.Location.Column, tt.line, tt.col)
		}
	}
}

func TestTokenizeNumberHints(t *testing.T) {
	tests := []struct {
		text string
		hint Hint
	}{
		{"5", Number},
		{"-5", Number},
		{"+5", Number},
		{"-", Word},
		{"+", Word},
		{"-abc", Word},
		{"0x1F", Number},
		{"0b101", Number},
		{"3.14", Number},
		{"dup", Word},
	}

	for _, tt := range tests {
		tokens, err := Tokenize("test", tt.text)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", tt.text, err)
		}
		if len(tokens) != 1 {
			t.Fatalf("Tokenize(%q) produced %d tokens", tt.text, len(tokens))
		}
		if tokens[0].Hint != tt.hint {
			t.Errorf("Tokenize(%q) hint=%v, want %v", tt.text, tokens[0].Hint, tt.hint)
		}
	}
}

func TestTokenizeString(t *testing.T) {
	tokens, err := Tokenize("test", `"hello\nworld" rest`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if tokens[0].Hint != String {
		t.Errorf("first token hint = %v, want String", tokens[0].Hint)
	}
	if tokens[0].Text != "hello\nworld" {
		t.Errorf("first token text = %q, want %q", tokens[0].Text, "hello\nworld")
	}
	if tokens[1].Text != "rest" {
		t.Errorf("second token text = %q, want %q", tokens[1].Text, "rest")
	}
}

func TestTokenizeStringEmbeddedWhitespacePreserved(t *testing.T) {
	tokens, err := Tokenize("test", `"a b  c"`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[0].Text != "a b  c" {
		t.Errorf("text = %q, want %q", tokens[0].Text, "a b  c")
	}
}

func TestTokenizeNumericEscape(t *testing.T) {
	tokens, err := Tokenize("test", `"\065"`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[0].Text != "A" {
		t.Errorf("text = %q, want %q", tokens[0].Text, "A")
	}
}

func TestTokenizeNumericEscapeOutOfRange(t *testing.T) {
	_, err := Tokenize("test", `"\0999"`)
	if err == nil {
		t.Fatal("expected an error for an out-of-range numeric escape")
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize("test", `"no closing quote`)
	if err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
}

func TestTokenizeRetokenizeEquivalence(t *testing.T) {
	// Universal property: re-tokenizing the concatenation of the `text`
	// fields (separated by whitespace) of a tokenized source yields a
	// token sequence equivalent up to location on all non-string tokens.
	input := "3 4 + dup swap 0x10 -7 +8"

	first, err := Tokenize("a", input)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}

	var rebuilt string
	for i, tok := range first {
		if i > 0 {
			rebuilt += " "
		}
		rebuilt += tok.Text
	}

	second, err := Tokenize("b", rebuilt)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("got %d tokens after retokenizing, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i].Hint != second[i].Hint || first[i].Text != second[i].Text {
			t.Errorf("token %d mismatch: %+v vs %+v", i, first[i], second[i])
		}
	}
}
