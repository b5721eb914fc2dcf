package legacy

import "coral/pkg/lexer"

// Incomplete reports whether input is a syntactically incomplete
// prefix of a legacy program: an unterminated string, unbalanced
// brackets, or a block keyword still waiting for its end keyword. A
// multi-line reader uses this to keep collecting lines instead of
// reporting an error.
func Incomplete(input string) bool {
	l := lexer.New(input)
	depth := 0
	blocks := 0

	for {
		tok := l.NextToken()
		switch tok.Type {
		case lexer.EOF:
			return depth > 0 || blocks > 0
		case lexer.ILLEGAL:
			// An unterminated string reaches EOF inside the literal.
			if len(tok.Literal) > 0 && tok.Literal[0] == '"' {
				return true
			}
		case lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
			depth++
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			if depth > 0 {
				depth--
			}
		case lexer.IF, lexer.WHILE, lexer.FOR, lexer.TRY, lexer.OBJECT,
			lexer.VERB, lexer.EVENT:
			blocks++
		case lexer.ENDIF, lexer.ENDWHILE, lexer.ENDFOR, lexer.ENDTRY,
			lexer.ENDOBJECT, lexer.ENDVERB, lexer.ENDEVENT:
			if blocks > 0 {
				blocks--
			}
		}
	}
}
