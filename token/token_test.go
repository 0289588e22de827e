package token

import "testing"

func TestKeyWordsLookup(t *testing.T) {
	cases := map[string]TokenType{
		"let":   LET,
		"var":   VAR,
		"loop":  LOOP,
		"break": BREAK,
		"and":   AND,
		"or":    OR,
		"Int":   TYPE_INT,
		"Str":   TYPE_STR,
	}
	for lexeme, want := range cases {
		got, ok := KeyWords[lexeme]
		if !ok {
			t.Errorf("KeyWords[%q] missing", lexeme)
			continue
		}
		if got != want {
			t.Errorf("KeyWords[%q] = %v, want %v", lexeme, got, want)
		}
	}
}

func TestKeyWordsExcludesIdentifiers(t *testing.T) {
	if _, ok := KeyWords["myVar"]; ok {
		t.Error("an ordinary identifier must not appear in KeyWords")
	}
}

func TestNewLiteral(t *testing.T) {
	tok := NewLiteral(INT, int64(42), "42", 3, 1)
	if tok.Type != INT || tok.Literal != int64(42) || tok.Lexeme != "42" {
		t.Errorf("NewLiteral produced unexpected token: %+v", tok)
	}
}

func TestString(t *testing.T) {
	tok := New(PLUS, "+", 1, 0)
	if got := tok.String(); got == "" {
		t.Error("String() should not be empty")
	}
}
