// Package legacy parses the keyword-terminated surface syntax
// (if/endif, while/endwhile, verb/endverb) into its own parse tree.
// The tree mirrors the surface grammar and is converted to the
// canonical form by the convert package.
package legacy

import "coral/pkg/lexer"

// Node is implemented by every legacy parse-tree node.
type Node interface {
	Tok() lexer.Token
}

// Stmt is a statement in the legacy grammar.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression in the legacy grammar.
type Expr interface {
	Node
	exprNode()
}

type node struct {
	Token lexer.Token
}

func (n node) Tok() lexer.Token { return n.Token }

// Program is a sequence of top-level statements.
type Program struct {
	node
	Stmts []Stmt
}

func (*Program) stmtNode() {}

// --- Statements ---

// ExprStmt is an expression evaluated for effect: `player:tell("hi");`
type ExprStmt struct {
	node
	Expr Expr
}

// Assign covers `x = e;`, `obj.prop = e;`, `x[i] = e;` and scatter
// targets `{a, ?b = 1, @rest} = e;`. Target is validated during
// conversion, not here.
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

// If is the if/elseif/else/endif chain.
type If struct {
	node
	Cond    Expr
	Then    []Stmt
	Elseifs []Elseif
	Else    []Stmt // nil when absent
	HasElse bool
}

type Elseif struct {
	Token lexer.Token
	Cond  Expr
	Then  []Stmt
}

// While is `while (cond)` or `while label (cond)` ... endwhile.
type While struct {
	node
	Label string
	Cond  Expr
	Body  []Stmt
}

// ForIn is `for x in (expr) ... endfor`. The loop variable doubles as
// the loop's label for break/continue.
type ForIn struct {
	node
	Var  string
	Expr Expr
	Body []Stmt
}

// Try is try/except/finally/endtry. Except and Finally may each be
// absent but not both.
type Try struct {
	node
	Body       []Stmt
	ExceptVar  string
	Except     []Stmt
	HasExcept  bool
	Finally    []Stmt
	HasFinally bool
}

type Return struct {
	node
	Value Expr // nil for bare `return;`
}

type Break struct {
	node
	Label string
}

type Continue struct {
	node
	Label string
}

// Object is `object name extends expr ... endobject`.
type Object struct {
	node
	Name    string
	Parent  Expr // nil when no extends clause
	Members []Member
}

// Member is a property, verb, or event definition inside an object.
type Member interface {
	Node
	memberNode()
}

// PropertyDef is `property name ["perms"] = expr;`
type PropertyDef struct {
	node
	Name  string
	Perms string
	Value Expr
}

func (*PropertyDef) memberNode() {}

// VerbDef is `verb names ["perms"] (params) ... endverb`. Names is
// either a bare identifier or a quoted alias list such as "l look".
type VerbDef struct {
	node
	Names  string
	Perms  string
	Params []Param
	Body   []Stmt
}

func (*VerbDef) memberNode() {}

// EventDef is `event name (params) ... endevent`.
type EventDef struct {
	node
	Name   string
	Params []Param
	Body   []Stmt
}

func (*EventDef) memberNode() {}

// Param is one element of a parameter list: `x`, `?x = d`, or `@x`.
type Param struct {
	Name     string
	Optional bool
	Default  Expr // set only when Optional
	Rest     bool
}

// Unparsed holds the raw text of a region the parser gave up on. The
// surrounding statements still parse; evaluation of this node raises.
type Unparsed struct {
	node
	Text string
}

func (*ExprStmt) stmtNode() {}
func (*Assign) stmtNode()   {}
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

// SysRef is `$name`, sugar for a property on the system object.
type SysRef struct {
	node
	Name string
}

// ObjRef is a literal object id: `#0`, `#-1`.
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

// Cond is the legacy conditional `cond ? then | else`.
type Cond struct {
	node
	Cond Expr
	Then Expr
	Else Expr
}

// Prop is `expr.name`.
type Prop struct {
	node
	Object Expr
	Name   string
}

// Index is `expr[expr]`.
type Index struct {
	node
	Object Expr
	Index  Expr
}

// VerbCall is `expr:name(args)`.
type VerbCall struct {
	node
	Object Expr
	Verb   string
	Args   []Expr
}

// Call is a builtin invocation `name(args)`.
type Call struct {
	node
	Name string
	Args []Expr
}

// List is `{e, e, ...}`. Scatter-only elements (?x = d, @x) are
// recorded so the tree can serve as an assignment target; conversion
// rejects them in value position.
type List struct {
	node
	Elems []ListElem
}

type ListElem struct {
	Expr     Expr
	Name     string // set for ?name and @name elements
	Optional bool
	Default  Expr
	Rest     bool
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
func (*List) exprNode()       {}
func (*Unparsed) exprNode()   {}
func (*AssignExpr) exprNode() {}
