package lexer

import "testing"

func TestNextTokenOperators(t *testing.T) {
	input := `x = 1 + 2 * 3 ^ 4; y != z && a || !b; p <= q >= r;`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{IDENT, "x"},
		{ASSIGN, "="},
		{INT, "1"},
		{PLUS, "+"},
		{INT, "2"},
		{ASTERISK, "*"},
		{INT, "3"},
		{CARET, "^"},
		{INT, "4"},
		{SEMICOLON, ";"},
		{IDENT, "y"},
		{NOT_EQ, "!="},
		{IDENT, "z"},
		{AND, "&&"},
		{IDENT, "a"},
		{OR, "||"},
		{BANG, "!"},
		{IDENT, "b"},
		{SEMICOLON, ";"},
		{IDENT, "p"},
		{LE, "<="},
		{IDENT, "q"},
		{GE, ">="},
		{IDENT, "r"},
		{SEMICOLON, ";"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] wrong type. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] wrong literal. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextTokenKeywordsAndRefs(t *testing.T) {
	input := `if (valid(#0)) $root.name = "home"; endif
let f = fn (x, ?y = 1, @rest) { return x; };
["k" -> v]`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{IF, "if"},
		{LPAREN, "("},
		{IDENT, "valid"},
		{LPAREN, "("},
		{OBJREF, "0"},
		{RPAREN, ")"},
		{RPAREN, ")"},
		{SYSREF, "root"},
		{DOT, "."},
		{IDENT, "name"},
		{ASSIGN, "="},
		{STRING, "home"},
		{SEMICOLON, ";"},
		{ENDIF, "endif"},
		{LET, "let"},
		{IDENT, "f"},
		{ASSIGN, "="},
		{FN, "fn"},
		{LPAREN, "("},
		{IDENT, "x"},
		{COMMA, ","},
		{QUESTION, "?"},
		{IDENT, "y"},
		{ASSIGN, "="},
		{INT, "1"},
		{COMMA, ","},
		{AT, "@"},
		{IDENT, "rest"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{RETURN, "return"},
		{IDENT, "x"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{SEMICOLON, ";"},
		{LBRACKET, "["},
		{STRING, "k"},
		{MAPSTO, "->"},
		{IDENT, "v"},
		{RBRACKET, "]"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] wrong type. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] wrong literal. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNumbersAndComments(t *testing.T) {
	input := "// line comment\n1 2.5 3e2 /* block\ncomment */ 4.0e-1 x.y"

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{INT, "1"},
		{FLOAT, "2.5"},
		{FLOAT, "3e2"},
		{FLOAT, "4.0e-1"},
		{IDENT, "x"},
		{DOT, "."},
		{IDENT, "y"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType || tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d]: expected (%q,%q), got (%q,%q)", i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}
	}
}

func TestStringEscapesAndUnterminated(t *testing.T) {
	l := New(`"a\nb\"c"`)
	tok := l.NextToken()
	if tok.Type != STRING || tok.Literal != "a\nb\"c" {
		t.Fatalf("escape decoding failed: (%q,%q)", tok.Type, tok.Literal)
	}

	l = New(`"open`)
	tok = l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("unterminated string should be ILLEGAL, got %q", tok.Type)
	}
	if tok.Literal != `"open` {
		t.Fatalf("unterminated string should keep its opening quote, got %q", tok.Literal)
	}

	l = New("~")
	tok = l.NextToken()
	if tok.Type != ILLEGAL || tok.Literal == `"` {
		t.Fatalf("stray character token = (%q,%q)", tok.Type, tok.Literal)
	}
}

func TestPositions(t *testing.T) {
	l := New("ab\n  cd")
	first := l.NextToken()
	second := l.NextToken()
	if first.Line != 1 || first.Column != 1 {
		t.Errorf("first token at %d:%d, want 1:1", first.Line, first.Column)
	}
	if second.Line != 2 || second.Column != 3 {
		t.Errorf("second token at %d:%d, want 2:3", second.Line, second.Column)
	}
	if second.StartPos != 5 || second.EndPos != 7 {
		t.Errorf("second token span %d..%d, want 5..7", second.StartPos, second.EndPos)
	}
}
