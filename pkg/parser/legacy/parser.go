package legacy

import (
	"strconv"
	"strings"

	"coral/pkg/errors"
	"coral/pkg/lexer"
	"coral/pkg/source"
)

// Operator precedence levels, lowest binds loosest.
const (
	_ int = iota
	LOWEST
	CONDITIONAL // ? |
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	COMPARISON  // == != < > <= >= in
	ADDITIVE    // + -
	MULTIPLICATIVE
	POWER // ^ right-associative
	UNARY // ! -x
	CALL  // . : [ (
)

var precedences = map[lexer.TokenType]int{
	lexer.QUESTION: CONDITIONAL,
	lexer.OR:       LOGICAL_OR,
	lexer.AND:      LOGICAL_AND,
	lexer.EQ:       COMPARISON,
	lexer.NOT_EQ:   COMPARISON,
	lexer.LT:       COMPARISON,
	lexer.GT:       COMPARISON,
	lexer.LE:       COMPARISON,
	lexer.GE:       COMPARISON,
	lexer.IN:       COMPARISON,
	lexer.PLUS:     ADDITIVE,
	lexer.MINUS:    ADDITIVE,
	lexer.ASTERISK: MULTIPLICATIVE,
	lexer.SLASH:    MULTIPLICATIVE,
	lexer.PERCENT:  MULTIPLICATIVE,
	lexer.CARET:    POWER,
	lexer.DOT:      CALL,
	lexer.COLON:    CALL,
	lexer.LBRACKET: CALL,
	lexer.LPAREN:   CALL,
}

type (
	prefixParseFn func() Expr
	infixParseFn  func(Expr) Expr
)

// Parser consumes tokens from the lexer and produces a legacy parse
// tree. It keeps going after errors: a failed statement becomes an
// Unparsed node and parsing resumes at the next statement boundary.
type Parser struct {
	l     *lexer.Lexer
	src   *source.File
	input string

	curToken  lexer.Token
	peekToken lexer.Token

	errors []errors.CoralError

	// handled counts errors already absorbed by a nested recovery, so
	// an enclosing construct is only discarded for errors of its own.
	handled int

	// termSync is set when error recovery stopped just before a block
	// keyword that belongs to an enclosing construct.
	termSync bool

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// Parse parses a source file and returns the tree alongside any
// syntax errors. The tree is always non-nil; erroneous regions appear
// as Unparsed nodes.
func Parse(src *source.File) (*Program, []errors.CoralError) {
	p := newParser(src)
	prog := p.parseProgram()
	return prog, p.errors
}

// ParseString parses input that has no backing file.
func ParseString(input string) (*Program, []errors.CoralError) {
	return Parse(source.NewEval(input))
}

func newParser(src *source.File) *Parser {
	p := &Parser{
		l:     lexer.NewWithSource(src),
		src:   src,
		input: src.Content,
	}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:  p.parseIdentifier,
		lexer.INT:    p.parseInt,
		lexer.FLOAT:  p.parseFloat,
		lexer.STRING: p.parseString,
		lexer.TRUE:   p.parseBool,
		lexer.FALSE:  p.parseBool,
		lexer.NULL:   p.parseNull,
		lexer.THIS:   p.parseThis,
		lexer.SYSREF: p.parseSysRef,
		lexer.OBJREF: p.parseObjRef,
		lexer.MINUS:  p.parseUnary,
		lexer.BANG:   p.parseUnary,
		lexer.LPAREN: p.parseGrouped,
		lexer.LBRACE: p.parseList,
	}
	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:     p.parseBinary,
		lexer.MINUS:    p.parseBinary,
		lexer.ASTERISK: p.parseBinary,
		lexer.SLASH:    p.parseBinary,
		lexer.PERCENT:  p.parseBinary,
		lexer.CARET:    p.parseBinary,
		lexer.EQ:       p.parseBinary,
		lexer.NOT_EQ:   p.parseBinary,
		lexer.LT:       p.parseBinary,
		lexer.GT:       p.parseBinary,
		lexer.LE:       p.parseBinary,
		lexer.GE:       p.parseBinary,
		lexer.AND:      p.parseBinary,
		lexer.OR:       p.parseBinary,
		lexer.IN:       p.parseBinary,
		lexer.QUESTION: p.parseConditional,
		lexer.DOT:      p.parseProp,
		lexer.COLON:    p.parseVerbCall,
		lexer.LBRACKET: p.parseIndex,
		lexer.LPAREN:   p.parseCall,
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) tokenPos(tok lexer.Token) errors.Position {
	return errors.Position{
		Line:     tok.Line,
		Column:   tok.Column,
		StartPos: tok.StartPos,
		EndPos:   tok.EndPos,
		Source:   p.src,
	}
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.IDENT, lexer.INT, lexer.FLOAT:
		return "'" + tok.Literal + "'"
	case lexer.STRING:
		return "string"
	case lexer.ILLEGAL:
		return "'" + tok.Literal + "'"
	default:
		return "'" + string(tok.Type) + "'"
	}
}

func (p *Parser) addError(tok lexer.Token, expected ...string) {
	p.errors = append(p.errors, &errors.SyntaxError{
		Position: p.tokenPos(tok),
		Expected: expected,
		Found:    describe(tok),
	})
}

func (p *Parser) addErrorMsg(tok lexer.Token, msg string) {
	p.errors = append(p.errors, &errors.SyntaxError{
		Position: p.tokenPos(tok),
		Msg:      msg,
	})
}

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekToken.Type == t {
		p.nextToken()
		return true
	}
	p.addError(p.peekToken, "'"+string(t)+"'")
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// --- Program and statements ---

func (p *Parser) parseProgram() *Program {
	prog := &Program{node: node{p.curToken}}
	for p.curToken.Type != lexer.EOF {
		prog.Stmts = append(prog.Stmts, p.parseStatementSafe())
		p.termSync = false
		p.nextToken()
	}
	return prog
}

// parseStatementSafe turns a failed statement into an Unparsed node so
// later statements still parse. It resumes at the next `;` or
// end-keyword.
func (p *Parser) parseStatementSafe() Stmt {
	start := p.curToken
	nerr := len(p.errors)
	s := p.parseStatement()
	if s != nil && (len(p.errors) == nerr || p.handled == len(p.errors)) {
		return s
	}
	end := p.sync()
	p.handled = len(p.errors)
	return &Unparsed{node: node{start}, Text: p.slice(start.StartPos, end)}
}

func (p *Parser) slice(start, end int) string {
	if start < 0 || end > len(p.input) || start > end {
		return ""
	}
	return strings.TrimSpace(p.input[start:end])
}

// sync advances to the next statement boundary. A block keyword that
// the failed statement did not open belongs to the enclosing
// construct, so it is left unconsumed and flagged via termSync.
func (p *Parser) sync() int {
	first := true
	for {
		switch p.curToken.Type {
		case lexer.EOF:
			return p.curToken.StartPos
		case lexer.SEMICOLON:
			return p.curToken.EndPos
		case lexer.ELSEIF, lexer.ELSE, lexer.EXCEPT, lexer.FINALLY,
			lexer.ENDIF, lexer.ENDWHILE, lexer.ENDFOR, lexer.ENDTRY,
			lexer.ENDVERB, lexer.ENDEVENT, lexer.ENDOBJECT:
			if !first {
				p.termSync = true
				return p.curToken.StartPos
			}
		}
		first = false
		p.nextToken()
	}
}

func (p *Parser) parseStatement() Stmt {
	switch p.curToken.Type {
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.TRY:
		return p.parseTry()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.BREAK, lexer.CONTINUE:
		return p.parseBreakContinue()
	case lexer.OBJECT:
		return p.parseObject()
	case lexer.SEMICOLON:
		p.addErrorMsg(p.curToken, "empty statement")
		return nil
	default:
		return p.parseSimpleStatement()
	}
}

// parseSimpleStatement handles expression statements and assignments.
// Assignment is recognized after the fact: parse an expression, and if
// `=` follows, the expression must be a valid target.
func (p *Parser) parseSimpleStatement() Stmt {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if p.peekToken.Type == lexer.ASSIGN {
		if !validTarget(expr) {
			p.addErrorMsg(p.peekToken, "invalid assignment target")
			return nil
		}
		p.nextToken()
		p.nextToken()
		value := p.parseAssignValue()
		if value == nil {
			return nil
		}
		if !p.expectPeek(lexer.SEMICOLON) {
			return nil
		}
		return &Assign{node: node{tok}, Target: expr, Value: value}
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return &ExprStmt{node: node{tok}, Expr: expr}
}

// parseAssignValue parses the right side of an assignment. A further
// `target = value` nests as an AssignExpr, so chains like `x = y = 5`
// associate to the right.
func (p *Parser) parseAssignValue() Expr {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if p.peekToken.Type != lexer.ASSIGN {
		return expr
	}
	if !validTarget(expr) {
		p.addErrorMsg(p.peekToken, "invalid assignment target")
		return nil
	}
	p.nextToken()
	p.nextToken()
	value := p.parseAssignValue()
	if value == nil {
		return nil
	}
	return &AssignExpr{node: node{tok}, Target: expr, Value: value}
}

func validTarget(e Expr) bool {
	switch t := e.(type) {
	case *Ident, *Prop, *Index, *SysRef:
		return true
	case *List:
		for _, el := range t.Elems {
			if el.Name != "" {
				continue
			}
			if _, ok := el.Expr.(*Ident); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// parseBlock parses statements until one of the terminator tokens,
// leaving curToken on the terminator.
func (p *Parser) parseBlock(terms ...lexer.TokenType) []Stmt {
	var stmts []Stmt
	for {
		if p.curToken.Type == lexer.EOF {
			p.addError(p.curToken, terminatorNames(terms)...)
			return stmts
		}
		for _, t := range terms {
			if p.curToken.Type == t {
				return stmts
			}
		}
		stmts = append(stmts, p.parseStatementSafe())
		if p.termSync {
			p.termSync = false
			continue
		}
		p.nextToken()
	}
}

func terminatorNames(terms []lexer.TokenType) []string {
	names := make([]string, len(terms))
	for i, t := range terms {
		names[i] = "'" + strings.ToLower(string(t)) + "'"
	}
	return names
}

func (p *Parser) parseIf() Stmt {
	stmt := &If{node: node{p.curToken}}
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if stmt.Cond == nil || !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Then = p.parseBlock(lexer.ELSEIF, lexer.ELSE, lexer.ENDIF)

	for p.curToken.Type == lexer.ELSEIF {
		ei := Elseif{Token: p.curToken}
		if !p.expectPeek(lexer.LPAREN) {
			return nil
		}
		p.nextToken()
		ei.Cond = p.parseExpression(LOWEST)
		if ei.Cond == nil || !p.expectPeek(lexer.RPAREN) {
			return nil
		}
		p.nextToken()
		ei.Then = p.parseBlock(lexer.ELSEIF, lexer.ELSE, lexer.ENDIF)
		stmt.Elseifs = append(stmt.Elseifs, ei)
	}
	if p.curToken.Type == lexer.ELSE {
		stmt.HasElse = true
		p.nextToken()
		stmt.Else = p.parseBlock(lexer.ENDIF)
	}
	if p.curToken.Type != lexer.ENDIF {
		p.addError(p.curToken, "'endif'")
		return nil
	}
	return stmt
}

func (p *Parser) parseWhile() Stmt {
	stmt := &While{node: node{p.curToken}}
	if p.peekToken.Type == lexer.IDENT {
		p.nextToken()
		stmt.Label = p.curToken.Literal
	}
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if stmt.Cond == nil || !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Body = p.parseBlock(lexer.ENDWHILE)
	if p.curToken.Type != lexer.ENDWHILE {
		return nil
	}
	return stmt
}

func (p *Parser) parseFor() Stmt {
	stmt := &ForIn{node: node{p.curToken}}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Var = p.curToken.Literal
	if !p.expectPeek(lexer.IN) || !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Expr = p.parseExpression(LOWEST)
	if stmt.Expr == nil || !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Body = p.parseBlock(lexer.ENDFOR)
	if p.curToken.Type != lexer.ENDFOR {
		return nil
	}
	return stmt
}

func (p *Parser) parseTry() Stmt {
	stmt := &Try{node: node{p.curToken}}
	p.nextToken()
	stmt.Body = p.parseBlock(lexer.EXCEPT, lexer.FINALLY, lexer.ENDTRY)

	if p.curToken.Type == lexer.EXCEPT {
		stmt.HasExcept = true
		if p.peekToken.Type == lexer.IDENT {
			p.nextToken()
			stmt.ExceptVar = p.curToken.Literal
		}
		p.nextToken()
		stmt.Except = p.parseBlock(lexer.FINALLY, lexer.ENDTRY)
	}
	if p.curToken.Type == lexer.FINALLY {
		stmt.HasFinally = true
		p.nextToken()
		stmt.Finally = p.parseBlock(lexer.ENDTRY)
	}
	if p.curToken.Type != lexer.ENDTRY {
		p.addError(p.curToken, "'endtry'")
		return nil
	}
	if !stmt.HasExcept && !stmt.HasFinally {
		p.addErrorMsg(stmt.Token, "try must have an except or finally clause")
		return nil
	}
	return stmt
}

func (p *Parser) parseReturn() Stmt {
	stmt := &Return{node: node{p.curToken}}
	if p.peekToken.Type == lexer.SEMICOLON {
		p.nextToken()
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil || !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseBreakContinue() Stmt {
	tok := p.curToken
	label := ""
	if p.peekToken.Type == lexer.IDENT {
		p.nextToken()
		label = p.curToken.Literal
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	if tok.Type == lexer.BREAK {
		return &Break{node: node{tok}, Label: label}
	}
	return &Continue{node: node{tok}, Label: label}
}

func (p *Parser) parseObject() Stmt {
	stmt := &Object{node: node{p.curToken}}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal
	if p.peekToken.Type == lexer.EXTENDS {
		p.nextToken()
		p.nextToken()
		stmt.Parent = p.parseExpression(LOWEST)
		if stmt.Parent == nil {
			return nil
		}
	}
	p.nextToken()
	for p.curToken.Type != lexer.ENDOBJECT {
		if p.curToken.Type == lexer.EOF {
			p.addError(p.curToken, "'endobject'")
			return nil
		}
		m := p.parseMember()
		if m == nil {
			p.syncMember()
			p.nextToken()
			continue
		}
		stmt.Members = append(stmt.Members, m)
		p.nextToken()
	}
	return stmt
}

// syncMember advances to the next member keyword or endobject after a
// malformed member.
func (p *Parser) syncMember() {
	for {
		switch p.curToken.Type {
		case lexer.EOF, lexer.ENDOBJECT:
			return
		case lexer.ENDVERB, lexer.ENDEVENT, lexer.SEMICOLON:
			return
		}
		p.nextToken()
	}
}

func (p *Parser) parseMember() Member {
	switch p.curToken.Type {
	case lexer.PROPERTY:
		return p.parsePropertyDef()
	case lexer.VERB:
		return p.parseVerbDef()
	case lexer.EVENT:
		return p.parseEventDef()
	default:
		p.addError(p.curToken, "'property'", "'verb'", "'event'", "'endobject'")
		return nil
	}
}

func (p *Parser) parsePropertyDef() Member {
	def := &PropertyDef{node: node{p.curToken}}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	def.Name = p.curToken.Literal
	if p.peekToken.Type == lexer.STRING {
		p.nextToken()
		def.Perms = p.curToken.Literal
	}
	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	def.Value = p.parseExpression(LOWEST)
	if def.Value == nil || !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return def
}

func (p *Parser) parseVerbDef() Member {
	def := &VerbDef{node: node{p.curToken}}
	switch p.peekToken.Type {
	case lexer.IDENT, lexer.STRING:
		p.nextToken()
		def.Names = p.curToken.Literal
	default:
		p.addError(p.peekToken, "verb name")
		return nil
	}
	if p.peekToken.Type == lexer.STRING {
		p.nextToken()
		def.Perms = p.curToken.Literal
	}
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	def.Params = params
	p.nextToken()
	def.Body = p.parseBlock(lexer.ENDVERB)
	if p.curToken.Type != lexer.ENDVERB {
		return nil
	}
	return def
}

func (p *Parser) parseEventDef() Member {
	def := &EventDef{node: node{p.curToken}}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	def.Name = p.curToken.Literal
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	def.Params = params
	p.nextToken()
	def.Body = p.parseBlock(lexer.ENDEVENT)
	if p.curToken.Type != lexer.ENDEVENT {
		return nil
	}
	return def
}

// parseParams parses a parameter list. curToken is on '(' at entry and
// on ')' at exit. Order is validated during conversion: required, then
// optional, then at most one rest.
func (p *Parser) parseParams() ([]Param, bool) {
	var params []Param
	if p.peekToken.Type == lexer.RPAREN {
		p.nextToken()
		return params, true
	}
	for {
		p.nextToken()
		var param Param
		switch p.curToken.Type {
		case lexer.QUESTION:
			param.Optional = true
			if !p.expectPeek(lexer.IDENT) {
				return nil, false
			}
			param.Name = p.curToken.Literal
			if p.peekToken.Type == lexer.ASSIGN {
				p.nextToken()
				p.nextToken()
				param.Default = p.parseExpression(LOWEST)
				if param.Default == nil {
					return nil, false
				}
			}
		case lexer.AT:
			param.Rest = true
			if !p.expectPeek(lexer.IDENT) {
				return nil, false
			}
			param.Name = p.curToken.Literal
		case lexer.IDENT:
			param.Name = p.curToken.Literal
		default:
			p.addError(p.curToken, "parameter")
			return nil, false
		}
		params = append(params, param)
		if p.peekToken.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil, false
	}
	return params, true
}

// --- Expressions ---

func (p *Parser) parseExpression(prec int) Expr {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.addErrorMsg(p.curToken, "unexpected "+describe(p.curToken)+" in expression")
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}
	for p.peekToken.Type != lexer.SEMICOLON && prec < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseIdentifier() Expr {
	return &Ident{node: node{p.curToken}, Name: p.curToken.Literal}
}

func (p *Parser) parseInt() Expr {
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addErrorMsg(p.curToken, "integer literal out of range")
		return nil
	}
	return &Int{node: node{p.curToken}, Value: v}
}

func (p *Parser) parseFloat() Expr {
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addErrorMsg(p.curToken, "malformed float literal")
		return nil
	}
	return &Float{node: node{p.curToken}, Value: v}
}

func (p *Parser) parseString() Expr {
	return &Str{node: node{p.curToken}, Value: p.curToken.Literal}
}

func (p *Parser) parseBool() Expr {
	return &Bool{node: node{p.curToken}, Value: p.curToken.Type == lexer.TRUE}
}

func (p *Parser) parseNull() Expr { return &Null{node: node{p.curToken}} }
func (p *Parser) parseThis() Expr { return &This{node: node{p.curToken}} }

func (p *Parser) parseSysRef() Expr {
	return &SysRef{node: node{p.curToken}, Name: p.curToken.Literal}
}

func (p *Parser) parseObjRef() Expr {
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addErrorMsg(p.curToken, "object id out of range")
		return nil
	}
	return &ObjRef{node: node{p.curToken}, ID: v}
}

func (p *Parser) parseUnary() Expr {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(UNARY)
	if operand == nil {
		return nil
	}
	return &Unary{node: node{tok}, Op: string(tok.Type), Operand: operand}
}

func (p *Parser) parseGrouped() Expr {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil || !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseBinary(left Expr) Expr {
	tok := p.curToken
	prec := precedences[tok.Type]
	if tok.Type == lexer.CARET {
		prec-- // right-associative
	}
	p.nextToken()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	op := string(tok.Type)
	if tok.Type == lexer.IN {
		op = "in"
	}
	return &Binary{node: node{tok}, Op: op, Left: left, Right: right}
}

// parseConditional parses `cond ? then | else`, right-associative.
func (p *Parser) parseConditional(cond Expr) Expr {
	tok := p.curToken
	p.nextToken()
	then := p.parseExpression(LOWEST)
	if then == nil {
		return nil
	}
	if !p.expectPeek(lexer.PIPE) {
		return nil
	}
	p.nextToken()
	alt := p.parseExpression(CONDITIONAL - 1)
	if alt == nil {
		return nil
	}
	return &Cond{node: node{tok}, Cond: cond, Then: then, Else: alt}
}

func (p *Parser) parseProp(obj Expr) Expr {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	return &Prop{node: node{tok}, Object: obj, Name: p.curToken.Literal}
}

func (p *Parser) parseVerbCall(obj Expr) Expr {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	verb := p.curToken.Literal
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	args, ok := p.parseArgs()
	if !ok {
		return nil
	}
	return &VerbCall{node: node{tok}, Object: obj, Verb: verb, Args: args}
}

func (p *Parser) parseIndex(obj Expr) Expr {
	tok := p.curToken
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	if idx == nil || !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return &Index{node: node{tok}, Object: obj, Index: idx}
}

// parseCall handles `name(args)`. Only builtin functions are callable
// in the legacy grammar, so the callee must be a bare identifier.
func (p *Parser) parseCall(callee Expr) Expr {
	tok := p.curToken
	ident, ok := callee.(*Ident)
	if !ok {
		p.addErrorMsg(tok, "only builtin functions can be called directly")
		return nil
	}
	args, ok := p.parseArgs()
	if !ok {
		return nil
	}
	return &Call{node: node{tok}, Name: ident.Name, Args: args}
}

// parseArgs parses a comma-separated argument list. curToken is on '('
// at entry and on ')' at exit.
func (p *Parser) parseArgs() ([]Expr, bool) {
	var args []Expr
	if p.peekToken.Type == lexer.RPAREN {
		p.nextToken()
		return args, true
	}
	for {
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
		if p.peekToken.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil, false
	}
	return args, true
}

// parseList parses `{...}`, which is either a list literal or a
// scatter target. Pattern-only elements are recorded by name and
// rejected during conversion when the list is used as a value.
func (p *Parser) parseList() Expr {
	list := &List{node: node{p.curToken}}
	if p.peekToken.Type == lexer.RBRACE {
		p.nextToken()
		return list
	}
	for {
		p.nextToken()
		var el ListElem
		switch p.curToken.Type {
		case lexer.QUESTION:
			el.Optional = true
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			el.Name = p.curToken.Literal
			if p.peekToken.Type == lexer.ASSIGN {
				p.nextToken()
				p.nextToken()
				el.Default = p.parseExpression(LOWEST)
				if el.Default == nil {
					return nil
				}
			}
		case lexer.AT:
			el.Rest = true
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			el.Name = p.curToken.Literal
		default:
			el.Expr = p.parseExpression(LOWEST)
			if el.Expr == nil {
				return nil
			}
		}
		list.Elems = append(list.Elems, el)
		if p.peekToken.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return list
}
