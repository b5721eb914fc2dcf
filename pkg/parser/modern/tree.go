// Package modern parses the block-delimited surface syntax (braces,
// let/const, fn lambdas, map literals) into its own parse tree, which
// the convert package lowers to the canonical form.
package modern

import "coral/pkg/lexer"

// Node is implemented by every modern parse-tree node.
type Node interface {
	Tok() lexer.Token
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

type node struct {
	Token lexer.Token
}

func (n node) Tok() lexer.Token { return n.Token }

type Program struct {
	node
	Stmts []Stmt
}

func (*Program) stmtNode() {}

// --- Statements ---

type ExprStmt struct {
	node
	Expr Expr
}

// Let is `let pattern = e;` or `const pattern = e;`.
type Let struct {
	node
	Const  bool
	Target Expr // Ident or List pattern
	Value  Expr
}

// Assign is a plain assignment to an existing binding, property,
// index, or scatter target.
type Assign struct {
	node
	Target Expr
	Value  Expr
}

// AssignExpr is an assignment nested in the value of another
// assignment, as in `x = y = 5`. Chains associate to the right.
type AssignExpr struct {
	node
	Target Expr
	Value  Expr
}

// Block is a brace-delimited statement list. It appears only as the
// body of control-flow constructs and definitions.
type Block struct {
	node
	Stmts []Stmt
}

// If is `if (c) { } else if (c) { } else { }`. Else is nil, *If, or
// *Block.
type If struct {
	node
	Cond Expr
	Then *Block
	Else Stmt
}

type While struct {
	node
	Label string
	Cond  Expr
	Body  *Block
}

// ForIn is `for (x in e) { }` or `for label (x in e) { }`.
type ForIn struct {
	node
	Label string
	Var   string
	Expr  Expr
	Body  *Block
}

// Try is `try { } catch (e) { } finally { }`. At least one of Catch
// and Finally is present.
type Try struct {
	node
	Body     *Block
	CatchVar string
	Catch    *Block
	Finally  *Block
}

type Return struct {
	node
	Value Expr
}

type Break struct {
	node
	Label string
}

type Continue struct {
	node
	Label string
}

type Object struct {
	node
	Name    string
	Parent  Expr
	Members []Member
}

type Member interface {
	Node
	memberNode()
}

type PropertyDef struct {
	node
	Name  string
	Perms string
	Value Expr
}

func (*PropertyDef) memberNode() {}

type VerbDef struct {
	node
	Names  string
	Perms  string
	Params []Param
	Body   *Block
}

func (*VerbDef) memberNode() {}

type EventDef struct {
	node
	Name   string
	Params []Param
	Body   *Block
}

func (*EventDef) memberNode() {}

type Param struct {
	Name     string
	Optional bool
	Default  Expr
	Rest     bool
}

// Unparsed holds raw text the parser could not make sense of.
type Unparsed struct {
	node
	Text string
}

func (*ExprStmt) stmtNode() {}
func (*Let) stmtNode()      {}
func (*Assign) stmtNode()   {}
func (*Block) stmtNode()    {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*ForIn) stmtNode()    {}
func (*Try) stmtNode()      {}
func (*Return) stmtNode()   {}
func (*Break) stmtNode()    {}
func (*Continue) stmtNode() {}
func (*Object) stmtNode()   {}
func (*Unparsed) stmtNode() {}

// --- Expressions ---

type Int struct {
	node
	Value int64
}

type Float struct {
	node
	Value float64
}

type Str struct {
	node
	Value string
}

type Bool struct {
	node
	Value bool
}

type Null struct{ node }

type Ident struct {
	node
	Name string
}

type SysRef struct {
	node
	Name string
}

type ObjRef struct {
	node
	ID int64
}

type This struct{ node }

type Binary struct {
	node
	Op    string
	Left  Expr
	Right Expr
}

type Unary struct {
	node
	Op      string
	Operand Expr
}

// Cond is `cond ? then | else`.
type Cond struct {
	node
	Cond Expr
	Then Expr
	Else Expr
}

type Prop struct {
	node
	Object Expr
	Name   string
}

type Index struct {
	node
	Object Expr
	Index  Expr
}

type VerbCall struct {
	node
	Object Expr
	Verb   string
	Args   []Expr
}

// Call is `callee(args)`. The callee is any expression; an identifier
// callee may resolve to a builtin or a bound lambda.
type Call struct {
	node
	Callee Expr
	Args   []Expr
}

// Lambda is `fn (params) { body }` or `fn (params) => expr`.
type Lambda struct {
	node
	Params []Param
	Body   *Block
}

// List is `{e, ...}`, with pattern elements permitted so the node can
// serve as a scatter target.
type List struct {
	node
	Elems []ListElem
}

type ListElem struct {
	Expr     Expr
	Name     string
	Optional bool
	Default  Expr
	Rest     bool
}

// MapLit is `[k -> v, ...]`; `[]` is the empty map.
type MapLit struct {
	node
	Entries []MapEntry
}

type MapEntry struct {
	Key   Expr
	Value Expr
}

func (*Int) exprNode()        {}
func (*Float) exprNode()      {}
func (*Str) exprNode()        {}
func (*Bool) exprNode()       {}
func (*Null) exprNode()       {}
func (*Ident) exprNode()      {}
func (*SysRef) exprNode()     {}
func (*ObjRef) exprNode()     {}
func (*This) exprNode()       {}
func (*Binary) exprNode()     {}
func (*Unary) exprNode()      {}
func (*Cond) exprNode()       {}
func (*Prop) exprNode()       {}
func (*Index) exprNode()      {}
func (*VerbCall) exprNode()   {}
func (*Call) exprNode()       {}
func (*Lambda) exprNode()     {}
func (*List) exprNode()       {}
func (*MapLit) exprNode()     {}
func (*Unparsed) exprNode()   {}
func (*AssignExpr) exprNode() {}
