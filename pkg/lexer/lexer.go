package lexer

import (
	"strings"

	"coral/pkg/source"
)

// Lexer turns Coral source text into a stream of tokens. One lexer serves
// both concrete syntaxes; keyword interpretation is left to the parsers.
type Lexer struct {
	src          *source.File
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position (after current char)
	ch           byte // current char under examination
	line         int  // current 1-based line
	column       int  // current 1-based column of ch
}

// New creates a lexer over raw source text.
func New(input string) *Lexer {
	return NewWithSource(source.NewEval(input))
}

// NewWithSource creates a lexer over a source file.
func NewWithSource(src *source.File) *Lexer {
	l := &Lexer{src: src, input: src.Content, line: 1, column: 0}
	l.readChar()
	return l
}

// Source returns the source file this lexer reads from.
func (l *Lexer) Source() *source.File {
	return l.src
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Line: l.line, Column: l.column, StartPos: l.position}

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(tok, EQ)
		} else if l.peekChar() == '>' {
			tok = l.twoCharToken(tok, ARROW)
		} else {
			tok = l.oneCharToken(tok, ASSIGN)
		}
	case '+':
		tok = l.oneCharToken(tok, PLUS)
	case '-':
		if l.peekChar() == '>' {
			tok = l.twoCharToken(tok, MAPSTO)
		} else {
			tok = l.oneCharToken(tok, MINUS)
		}
	case '*':
		tok = l.oneCharToken(tok, ASTERISK)
	case '/':
		tok = l.oneCharToken(tok, SLASH)
	case '%':
		tok = l.oneCharToken(tok, PERCENT)
	case '^':
		tok = l.oneCharToken(tok, CARET)
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(tok, NOT_EQ)
		} else {
			tok = l.oneCharToken(tok, BANG)
		}
	case '<':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(tok, LE)
		} else {
			tok = l.oneCharToken(tok, LT)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(tok, GE)
		} else {
			tok = l.oneCharToken(tok, GT)
		}
	case '&':
		if l.peekChar() == '&' {
			tok = l.twoCharToken(tok, AND)
		} else {
			tok = l.oneCharToken(tok, ILLEGAL)
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.twoCharToken(tok, OR)
		} else {
			tok = l.oneCharToken(tok, PIPE)
		}
	case '?':
		tok = l.oneCharToken(tok, QUESTION)
	case '@':
		tok = l.oneCharToken(tok, AT)
	case '.':
		tok = l.oneCharToken(tok, DOT)
	case ':':
		tok = l.oneCharToken(tok, COLON)
	case ',':
		tok = l.oneCharToken(tok, COMMA)
	case ';':
		tok = l.oneCharToken(tok, SEMICOLON)
	case '(':
		tok = l.oneCharToken(tok, LPAREN)
	case ')':
		tok = l.oneCharToken(tok, RPAREN)
	case '{':
		tok = l.oneCharToken(tok, LBRACE)
	case '}':
		tok = l.oneCharToken(tok, RBRACE)
	case '[':
		tok = l.oneCharToken(tok, LBRACKET)
	case ']':
		tok = l.oneCharToken(tok, RBRACKET)
	case '"':
		tok.Type = STRING
		literal, terminated := l.readString()
		tok.Literal = literal
		if !terminated {
			// Keep the opening quote so the token is recognizable as
			// an unterminated string, not a stray character.
			tok.Type = ILLEGAL
			tok.Literal = `"` + literal
		}
		tok.EndPos = l.position
		return tok
	case '#':
		return l.readObjRef(tok)
	case '$':
		return l.readSysRef(tok)
	case 0:
		tok.Type = EOF
		tok.Literal = ""
		tok.EndPos = l.position
		return tok
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			tok.EndPos = l.position
			return tok
		}
		if isDigit(l.ch) {
			return l.readNumber(tok)
		}
		tok = l.oneCharToken(tok, ILLEGAL)
	}
	return tok
}

func (l *Lexer) oneCharToken(tok Token, t TokenType) Token {
	tok.Type = t
	tok.Literal = string(l.ch)
	l.readChar()
	tok.EndPos = l.position
	return tok
}

func (l *Lexer) twoCharToken(tok Token, t TokenType) Token {
	first := l.ch
	l.readChar()
	tok.Type = t
	tok.Literal = string(first) + string(l.ch)
	l.readChar()
	tok.EndPos = l.position
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar() // consume '/'
			l.readChar() // consume '*'
			for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar() // consume '*'
				l.readChar() // consume '/'
			}
			continue
		}
		return
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber(tok Token) Token {
	start := l.position
	tok.Type = INT
	for isDigit(l.ch) {
		l.readChar()
	}
	// A '.' starts a float only when followed by a digit, so member access on
	// an integer-valued expression still lexes cleanly.
	if l.ch == '.' && isDigit(l.peekChar()) {
		tok.Type = FLOAT
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			tok.Type = FLOAT
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	tok.Literal = l.input[start:l.position]
	tok.EndPos = l.position
	return tok
}

// readString consumes a double-quoted string literal, processing escapes.
// Returns the decoded value and whether a closing quote was found.
func (l *Lexer) readString() (string, bool) {
	var sb strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case '"':
			l.readChar() // consume closing quote
			return sb.String(), true
		case 0, '\n':
			// Unterminated; the REPL completeness predicate relies on this
			// being reported rather than silently repaired.
			return sb.String(), false
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 0:
				return sb.String(), false
			default:
				sb.WriteByte(l.ch)
			}
		default:
			sb.WriteByte(l.ch)
		}
	}
}

// readObjRef scans a '#'-prefixed object reference like #0 or #-1.
func (l *Lexer) readObjRef(tok Token) Token {
	l.readChar() // consume '#'
	start := l.position
	if l.ch == '-' {
		l.readChar()
	}
	if !isDigit(l.ch) {
		tok.Type = ILLEGAL
		tok.Literal = "#"
		tok.EndPos = l.position
		return tok
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	tok.Type = OBJREF
	tok.Literal = l.input[start:l.position]
	tok.EndPos = l.position
	return tok
}

// readSysRef scans a '$'-prefixed system reference like $room.
func (l *Lexer) readSysRef(tok Token) Token {
	l.readChar() // consume '$'
	if !isLetter(l.ch) {
		tok.Type = ILLEGAL
		tok.Literal = "$"
		tok.EndPos = l.position
		return tok
	}
	tok.Type = SYSREF
	tok.Literal = l.readIdentifier()
	tok.EndPos = l.position
	return tok
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
