package modern

import (
	"strconv"
	"strings"

	"coral/pkg/errors"
	"coral/pkg/lexer"
	"coral/pkg/source"
)

// Operator precedence levels, lowest binds loosest. Both surface
// syntaxes share the same table so expressions mean the same thing
// regardless of which parser read them.
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

// Parser consumes tokens and produces a modern parse tree, recovering
// from errors statement by statement.
type Parser struct {
	l     *lexer.Lexer
	src   *source.File
	input string

	curToken  lexer.Token
	peekToken lexer.Token

	errors []errors.CoralError

	// braceSync is set when error recovery stopped just before a
	// closing brace that belongs to an enclosing block.
	braceSync bool

	// handled counts errors already absorbed by a nested recovery, so
	// an enclosing construct is only discarded for errors of its own.
	handled int

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// Parse parses a source file. The tree is always non-nil; erroneous
// regions appear as Unparsed nodes.
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
		lexer.IDENT:    p.parseIdentifier,
		lexer.INT:      p.parseInt,
		lexer.FLOAT:    p.parseFloat,
		lexer.STRING:   p.parseString,
		lexer.TRUE:     p.parseBool,
		lexer.FALSE:    p.parseBool,
		lexer.NULL:     p.parseNull,
		lexer.THIS:     p.parseThis,
		lexer.SYSREF:   p.parseSysRef,
		lexer.OBJREF:   p.parseObjRef,
		lexer.MINUS:    p.parseUnary,
		lexer.BANG:     p.parseUnary,
		lexer.LPAREN:   p.parseGrouped,
		lexer.LBRACE:   p.parseList,
		lexer.LBRACKET: p.parseMapLit,
		lexer.FN:       p.parseLambda,
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
	case lexer.IDENT, lexer.INT, lexer.FLOAT, lexer.ILLEGAL:
		return "'" + tok.Literal + "'"
	case lexer.STRING:
		return "string"
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
		p.braceSync = false
		p.nextToken()
	}
	return prog
}

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

// sync advances to the next statement boundary. A closing brace that
// the failed statement did not open belongs to the enclosing block, so
// it is left unconsumed and flagged via braceSync.
func (p *Parser) sync() int {
	first := true
	for {
		switch p.curToken.Type {
		case lexer.EOF:
			return p.curToken.StartPos
		case lexer.SEMICOLON:
			return p.curToken.EndPos
		case lexer.RBRACE:
			if !first {
				p.braceSync = true
				return p.curToken.StartPos
			}
		}
		first = false
		p.nextToken()
	}
}

func (p *Parser) parseStatement() Stmt {
	switch p.curToken.Type {
	case lexer.LET, lexer.CONST:
		return p.parseLet()
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

func (p *Parser) parseLet() Stmt {
	stmt := &Let{node: node{p.curToken}, Const: p.curToken.Type == lexer.CONST}
	switch p.peekToken.Type {
	case lexer.IDENT:
		p.nextToken()
		stmt.Target = &Ident{node: node{p.curToken}, Name: p.curToken.Literal}
	case lexer.LBRACE:
		p.nextToken()
		target := p.parseList()
		if target == nil {
			return nil
		}
		stmt.Target = target
	default:
		p.addError(p.peekToken, "identifier", "'{'")
		return nil
	}
	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseAssignValue()
	if stmt.Value == nil || !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	return stmt
}

// parseBlockStmts parses `{ ... }` with curToken on the opening brace
// at entry and on the closing brace at exit.
func (p *Parser) parseBlockStmts() *Block {
	block := &Block{node: node{p.curToken}}
	p.nextToken()
	for {
		switch p.curToken.Type {
		case lexer.RBRACE:
			return block
		case lexer.EOF:
			p.addError(p.curToken, "'}'")
			return block
		}
		block.Stmts = append(block.Stmts, p.parseStatementSafe())
		if p.braceSync {
			p.braceSync = false
			continue
		}
		p.nextToken()
	}
}

func (p *Parser) parseIf() Stmt {
	stmt := &If{node: node{p.curToken}}
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if stmt.Cond == nil || !p.expectPeek(lexer.RPAREN) || !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Then = p.parseBlockStmts()
	if p.peekToken.Type != lexer.ELSE {
		return stmt
	}
	p.nextToken()
	if p.peekToken.Type == lexer.IF {
		p.nextToken()
		chained := p.parseIf()
		if chained == nil {
			return nil
		}
		stmt.Else = chained
		return stmt
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Else = p.parseBlockStmts()
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
	if stmt.Cond == nil || !p.expectPeek(lexer.RPAREN) || !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStmts()
	return stmt
}

func (p *Parser) parseFor() Stmt {
	stmt := &ForIn{node: node{p.curToken}}
	if p.peekToken.Type == lexer.IDENT {
		p.nextToken()
		stmt.Label = p.curToken.Literal
	}
	if !p.expectPeek(lexer.LPAREN) || !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Var = p.curToken.Literal
	if !p.expectPeek(lexer.IN) {
		return nil
	}
	p.nextToken()
	stmt.Expr = p.parseExpression(LOWEST)
	if stmt.Expr == nil || !p.expectPeek(lexer.RPAREN) || !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStmts()
	return stmt
}

func (p *Parser) parseTry() Stmt {
	stmt := &Try{node: node{p.curToken}}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStmts()

	if p.peekToken.Type == lexer.CATCH {
		p.nextToken()
		if p.peekToken.Type == lexer.LPAREN {
			p.nextToken()
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			stmt.CatchVar = p.curToken.Literal
			if !p.expectPeek(lexer.RPAREN) {
				return nil
			}
		}
		if !p.expectPeek(lexer.LBRACE) {
			return nil
		}
		stmt.Catch = p.parseBlockStmts()
	}
	if p.peekToken.Type == lexer.FINALLY {
		p.nextToken()
		if !p.expectPeek(lexer.LBRACE) {
			return nil
		}
		stmt.Finally = p.parseBlockStmts()
	}
	if stmt.Catch == nil && stmt.Finally == nil {
		p.addErrorMsg(stmt.Token, "try must have a catch or finally clause")
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
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	p.nextToken()
	for p.curToken.Type != lexer.RBRACE {
		if p.curToken.Type == lexer.EOF {
			p.addError(p.curToken, "'}'")
			return nil
		}
		m := p.parseMember()
		if m == nil {
			p.syncMember()
			if p.curToken.Type == lexer.RBRACE {
				break
			}
			p.nextToken()
			continue
		}
		stmt.Members = append(stmt.Members, m)
		p.nextToken()
	}
	return stmt
}

func (p *Parser) syncMember() {
	for {
		switch p.curToken.Type {
		case lexer.EOF, lexer.RBRACE, lexer.SEMICOLON:
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
		p.addError(p.curToken, "'property'", "'verb'", "'event'", "'}'")
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
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	def.Body = p.parseBlockStmts()
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
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	def.Body = p.parseBlockStmts()
	return def
}

// parseParams parses a parameter list with curToken on '(' at entry
// and ')' at exit.
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

func (p *Parser) parseCall(callee Expr) Expr {
	tok := p.curToken
	args, ok := p.parseArgs()
	if !ok {
		return nil
	}
	return &Call{node: node{tok}, Callee: callee, Args: args}
}

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

// parseLambda parses `fn (params) { body }` and the expression-bodied
// form `fn (params) => expr`, which desugars to a single return.
func (p *Parser) parseLambda() Expr {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	if p.peekToken.Type == lexer.ARROW {
		p.nextToken()
		arrowTok := p.curToken
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		body := &Block{node: node{arrowTok}, Stmts: []Stmt{
			&Return{node: node{arrowTok}, Value: expr},
		}}
		return &Lambda{node: node{tok}, Params: params, Body: body}
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlockStmts()
	return &Lambda{node: node{tok}, Params: params, Body: body}
}

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

// parseMapLit parses `[k -> v, ...]`; `[]` is the empty map.
func (p *Parser) parseMapLit() Expr {
	m := &MapLit{node: node{p.curToken}}
	if p.peekToken.Type == lexer.RBRACKET {
		p.nextToken()
		return m
	}
	for {
		p.nextToken()
		key := p.parseExpression(LOWEST)
		if key == nil {
			return nil
		}
		if !p.expectPeek(lexer.MAPSTO) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		m.Entries = append(m.Entries, MapEntry{Key: key, Value: value})
		if p.peekToken.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return m
}
