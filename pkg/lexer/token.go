package lexer

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type     TokenType
	Literal  string // The actual text of the token (lexeme)
	Line     int    // 1-based line number where the token starts
	Column   int    // 1-based column number where the token starts
	StartPos int    // 0-based byte offset where the token starts
	EndPos   int    // 0-based byte offset after the token ends
}

const (
	// Special
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers + literals
	IDENT  TokenType = "IDENT"  // foo, wizard_bit
	INT    TokenType = "INT"    // 123
	FLOAT  TokenType = "FLOAT"  // 45.67
	STRING TokenType = "STRING" // "hello world"
	OBJREF TokenType = "OBJREF" // #0, #123, #-1
	SYSREF TokenType = "SYSREF" // $system_prop

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	CARET    TokenType = "^" // power, right-associative
	BANG     TokenType = "!"
	EQ       TokenType = "=="
	NOT_EQ   TokenType = "!="
	LT       TokenType = "<"
	GT       TokenType = ">"
	LE       TokenType = "<="
	GE       TokenType = ">="
	AND      TokenType = "&&"
	OR       TokenType = "||"
	QUESTION TokenType = "?"
	PIPE     TokenType = "|"  // conditional else branch: cond ? a | b
	ARROW    TokenType = "=>" // modern arrow lambda
	MAPSTO   TokenType = "->" // modern map literal: ["k" -> v]
	AT       TokenType = "@"  // rest element in scatter patterns
	DOT      TokenType = "."
	COLON    TokenType = ":"

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"

	// Keywords shared by both syntaxes
	IF       TokenType = "IF"
	ELSE     TokenType = "ELSE"
	WHILE    TokenType = "WHILE"
	FOR      TokenType = "FOR"
	IN       TokenType = "IN"
	TRY      TokenType = "TRY"
	FINALLY  TokenType = "FINALLY"
	RETURN   TokenType = "RETURN"
	BREAK    TokenType = "BREAK"
	CONTINUE TokenType = "CONTINUE"
	OBJECT   TokenType = "OBJECT"
	EXTENDS  TokenType = "EXTENDS"
	PROPERTY TokenType = "PROPERTY"
	VERB     TokenType = "VERB"
	EVENT    TokenType = "EVENT"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	NULL     TokenType = "NULL"
	THIS     TokenType = "THIS"

	// Legacy-only keywords (block terminators and except clauses)
	ELSEIF    TokenType = "ELSEIF"
	ENDIF     TokenType = "ENDIF"
	ENDWHILE  TokenType = "ENDWHILE"
	ENDFOR    TokenType = "ENDFOR"
	ENDTRY    TokenType = "ENDTRY"
	ENDVERB   TokenType = "ENDVERB"
	ENDEVENT  TokenType = "ENDEVENT"
	ENDOBJECT TokenType = "ENDOBJECT"
	EXCEPT    TokenType = "EXCEPT"

	// Modern-only keywords
	LET   TokenType = "LET"
	CONST TokenType = "CONST"
	FN    TokenType = "FN"
	CATCH TokenType = "CATCH"
)

// keywords maps identifier spellings to keyword token types. Both syntaxes
// share one table; each parser rejects the keywords it has no rule for.
var keywords = map[string]TokenType{
	"if":        IF,
	"elseif":    ELSEIF,
	"else":      ELSE,
	"endif":     ENDIF,
	"while":     WHILE,
	"endwhile":  ENDWHILE,
	"for":       FOR,
	"endfor":    ENDFOR,
	"in":        IN,
	"try":       TRY,
	"except":    EXCEPT,
	"finally":   FINALLY,
	"endtry":    ENDTRY,
	"return":    RETURN,
	"break":     BREAK,
	"continue":  CONTINUE,
	"object":    OBJECT,
	"extends":   EXTENDS,
	"endobject": ENDOBJECT,
	"property":  PROPERTY,
	"verb":      VERB,
	"endverb":   ENDVERB,
	"event":     EVENT,
	"endevent":  ENDEVENT,
	"let":       LET,
	"const":     CONST,
	"fn":        FN,
	"catch":     CATCH,
	"true":      TRUE,
	"false":     FALSE,
	"null":      NULL,
	"this":      THIS,
}

// LookupIdent checks the keywords table for an identifier spelling.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
