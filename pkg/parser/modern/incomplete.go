package modern

import "coral/pkg/lexer"

// Incomplete reports whether input looks like an unfinished prefix of
// a modern program: unbalanced delimiters, an unterminated string, or
// a trailing token that cannot end a statement. Used by multi-line
// readers to keep collecting input.
func Incomplete(input string) bool {
	l := lexer.New(input)
	depth := 0
	last := lexer.Token{Type: lexer.EOF}

	for {
		tok := l.NextToken()
		if tok.Type == lexer.EOF {
			break
		}
		if tok.Type == lexer.ILLEGAL && len(tok.Literal) > 0 && tok.Literal[0] == '"' {
			return true
		}
		switch tok.Type {
		case lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
			depth++
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			if depth > 0 {
				depth--
			}
		}
		last = tok
	}
	if depth > 0 {
		return true
	}
	switch last.Type {
	case lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH, lexer.PERCENT,
		lexer.CARET, lexer.EQ, lexer.NOT_EQ, lexer.LT, lexer.GT, lexer.LE,
		lexer.GE, lexer.AND, lexer.OR, lexer.ASSIGN, lexer.QUESTION,
		lexer.PIPE, lexer.ARROW, lexer.MAPSTO, lexer.COMMA, lexer.DOT,
		lexer.COLON, lexer.ELSE, lexer.CATCH, lexer.FINALLY, lexer.EXTENDS,
		lexer.IN, lexer.LET, lexer.CONST, lexer.FN, lexer.RETURN:
		return true
	}
	return false
}
