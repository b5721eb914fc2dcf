// Package ast defines the canonical syntax tree shared by both concrete
// Coral syntaxes. The legacy and modern parsers each produce their own parse
// tree; pkg/convert maps both onto these nodes, so nothing downstream of the
// converter knows which spelling the source used. Nodes are immutable once
// built.
package ast

// Span records where a node came from. Line and Col are 1-based; a zero Span
// means "no position" (synthesized nodes).
type Span struct {
	Line int
	Col  int
}

// Node is the base interface for all canonical AST nodes.
type Node interface {
	Span() Span
}

// Statement is a node that appears in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Base carries the span for every node type. Embedding it gives each node
// its Span method; converters set Pos when building nodes.
type Base struct {
	Pos Span
}

func (b Base) Span() Span { return b.Pos }

// At is a convenience constructor for spans.
func At(line, col int) Span { return Span{Line: line, Col: col} }

// --- Binding patterns ---

// ElemKind classifies one element of a list binding pattern.
type ElemKind int

const (
	ElemRequired ElemKind = iota
	ElemOptional          // has a default, may be omitted by the caller
	ElemRest              // captures remaining values as a list
)

// PatternElem is one element of a list pattern: a plain name, an optional
// name with a default expression, or a rest capture.
type PatternElem struct {
	Kind    ElemKind
	Name    string
	Default Expression // non-nil only for ElemOptional
}

// Pattern is the single binding representation used for function parameters,
// let/const targets and scatter assignment. Either Simple is set (bare name)
// or List is true and Elems holds the ordered elements.
type Pattern struct {
	Simple string
	List   bool
	Elems  []PatternElem
}

// SimplePattern builds a bare-name pattern.
func SimplePattern(name string) Pattern {
	return Pattern{Simple: name}
}

// ListPattern builds an ordered list pattern.
func ListPattern(elems []PatternElem) Pattern {
	return Pattern{List: true, Elems: elems}
}

// --- Operators ---

// BinaryOp names a binary operator in the canonical tree.
type BinaryOp string

const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpMod BinaryOp = "%"
	OpPow BinaryOp = "^"
	OpEq  BinaryOp = "=="
	OpNe  BinaryOp = "!="
	OpLt  BinaryOp = "<"
	OpLe  BinaryOp = "<="
	OpGt  BinaryOp = ">"
	OpGe  BinaryOp = ">="
	OpIn  BinaryOp = "in"
	OpAnd BinaryOp = "&&"
	OpOr  BinaryOp = "||"
)

// UnaryOp names a unary operator.
type UnaryOp string

const (
	OpNeg UnaryOp = "-"
	OpNot UnaryOp = "!"
)

// --- Expressions ---

type IntLiteral struct {
	Base
	Value int64
}

type FloatLiteral struct {
	Base
	Value float64
}

type StringLiteral struct {
	Base
	Value string
}

type BoolLiteral struct {
	Base
	Value bool
}

type NullLiteral struct {
	Base
}

// Identifier is a variable reference.
type Identifier struct {
	Base
	Name string
}

// SysRef is a $name reference: sugar for a property lookup on the system
// object, resolved by the evaluator through the ordinary object model.
type SysRef struct {
	Base
	Name string
}

// ObjRef is a #n object literal.
type ObjRef struct {
	Base
	ID int64
}

// ThisExpr refers to the object a verb is executing on.
type ThisExpr struct {
	Base
}

type BinaryExpr struct {
	Base
	Op    BinaryOp
	Left  Expression
	Right Expression
}

type UnaryExpr struct {
	Base
	Op      UnaryOp
	Operand Expression
}

// ConditionalExpr is `cond ? then | else`; both syntaxes share the
// spelling.
type ConditionalExpr struct {
	Base
	Cond Expression
	Then Expression
	Else Expression
}

// PropertyAccess is obj.name.
type PropertyAccess struct {
	Base
	Object Expression
	Name   string
}

// IndexAccess is obj[index].
type IndexAccess struct {
	Base
	Object Expression
	Index  Expression
}

// VerbCall is obj:verb(args).
type VerbCall struct {
	Base
	Object Expression
	Verb   string
	Args   []Expression
}

// FunctionCall is a call to a named global/built-in function: name(args).
type FunctionCall struct {
	Base
	Name string
	Args []Expression
}

// CallExpr invokes the result of an arbitrary expression (lambda values).
type CallExpr struct {
	Base
	Callee Expression
	Args   []Expression
}

// Lambda is an anonymous function value. The captured environment is
// attached at evaluation time, not here.
type Lambda struct {
	Base
	Params Pattern
	Body   *BlockStmt
}

type ListLiteral struct {
	Base
	Elems []Expression
}

// MapEntry is one "key -> value" pair of a map literal.
type MapEntry struct {
	Key   Expression
	Value Expression
}

type MapLiteral struct {
	Base
	Entries []MapEntry
}

// Unparsed is an error-recovery placeholder: raw text the parser could not
// shape, preserved so one pass can report several diagnostics. Evaluating it
// is an error.
type Unparsed struct {
	Base
	Text string
}

func (*IntLiteral) expressionNode()      {}
func (*FloatLiteral) expressionNode()    {}
func (*StringLiteral) expressionNode()   {}
func (*BoolLiteral) expressionNode()     {}
func (*NullLiteral) expressionNode()     {}
func (*Identifier) expressionNode()      {}
func (*SysRef) expressionNode()          {}
func (*ObjRef) expressionNode()          {}
func (*ThisExpr) expressionNode()        {}
func (*BinaryExpr) expressionNode()      {}
func (*UnaryExpr) expressionNode()       {}
func (*ConditionalExpr) expressionNode() {}
func (*PropertyAccess) expressionNode()  {}
func (*IndexAccess) expressionNode()     {}
func (*VerbCall) expressionNode()        {}
func (*FunctionCall) expressionNode()    {}
func (*CallExpr) expressionNode()        {}
func (*Lambda) expressionNode()          {}
func (*ListLiteral) expressionNode()     {}
func (*MapLiteral) expressionNode()      {}
func (*Unparsed) expressionNode()        {}
func (*AssignExpr) expressionNode()      {}

// --- LValues ---

// LValue is an assignment target.
type LValue interface {
	Node
	lvalueNode()
}

// BindKind distinguishes the three assignment forms that introduce or reuse
// a variable binding.
type BindKind int

const (
	BindNone  BindKind = iota // plain reassignment: x = v
	BindLet                   // let x = v
	BindConst                 // const x = v
)

// BindTarget binds (or rebinds) variables through a pattern.
type BindTarget struct {
	Base
	Kind    BindKind
	Pattern Pattern
}

// PropertyTarget assigns to obj.name (copy-down semantics at runtime).
type PropertyTarget struct {
	Base
	Object Expression
	Name   string
}

// IndexTarget assigns to obj[index].
type IndexTarget struct {
	Base
	Object Expression
	Index  Expression
}

func (*BindTarget) lvalueNode()     {}
func (*PropertyTarget) lvalueNode() {}
func (*IndexTarget) lvalueNode()    {}

// --- Statements ---

// AssignStmt covers every assignment form: let/const bindings, plain
// rebinding, scatter patterns, property paths and index paths.
type AssignStmt struct {
	Base
	Target LValue
	Value  Expression
}

// AssignExpr is an assignment in value position, produced by chains
// like `x = y = 5`. It assigns and yields the assigned value; chains
// associate to the right.
type AssignExpr struct {
	Base
	Target LValue
	Value  Expression
}

type ExpressionStmt struct {
	Base
	Expr Expression
}

type BlockStmt struct {
	Base
	Statements []Statement
}

type IfStmt struct {
	Base
	Cond Expression
	Then *BlockStmt
	// Else is nil, another *IfStmt (elseif chain) or a *BlockStmt.
	Else Statement
}

type WhileStmt struct {
	Base
	Label string // optional
	Cond  Expression
	Body  *BlockStmt
}

type ForInStmt struct {
	Base
	Label    string // optional
	Var      string
	Iterable Expression
	Body     *BlockStmt
}

// TryStmt is try/except/finally (legacy) or try/catch/finally (modern).
type TryStmt struct {
	Base
	Body    *BlockStmt
	Catch   *CatchClause // nil when absent
	Finally *BlockStmt   // nil when absent
}

// CatchClause binds the raised value to Var in a fresh child scope.
type CatchClause struct {
	Var  string // may be empty: catch-all without binding
	Body *BlockStmt
}

type ReturnStmt struct {
	Base
	Value Expression // nil for bare return
}

type BreakStmt struct {
	Base
	Label string // optional
}

type ContinueStmt struct {
	Base
	Label string // optional
}

// ObjectDef defines or redefines an object with its members.
type ObjectDef struct {
	Base
	Name    string
	Parent  Expression // nil, Identifier, SysRef or ObjRef
	Members []Member
}

// Member is a property, verb or event definition inside an object body.
type Member interface {
	memberNode()
}

// PropertyMember declares a property with an initial value. Perms is the raw
// permission spelling ("rw", "rc", ...) decoded by the object model.
type PropertyMember struct {
	Name  string
	Value Expression
	Perms string
}

// VerbMember declares a verb. Names may hold space-separated aliases and *
// wildcards, MUD-style ("l look", "pronoun_*").
type VerbMember struct {
	Names  string
	Params Pattern
	Body   *BlockStmt
	Perms  string
}

// EventMember declares an event handler; dispatch is a host concern, the
// core only parses and stores it.
type EventMember struct {
	Name   string
	Params Pattern
	Body   *BlockStmt
}

func (PropertyMember) memberNode() {}
func (VerbMember) memberNode()     {}
func (EventMember) memberNode()    {}

func (*AssignStmt) statementNode()     {}
func (*ExpressionStmt) statementNode() {}
func (*BlockStmt) statementNode()      {}
func (*IfStmt) statementNode()         {}
func (*WhileStmt) statementNode()      {}
func (*ForInStmt) statementNode()      {}
func (*TryStmt) statementNode()        {}
func (*ReturnStmt) statementNode()     {}
func (*BreakStmt) statementNode()      {}
func (*ContinueStmt) statementNode()   {}
func (*ObjectDef) statementNode()      {}
func (*Unparsed) statementNode()       {}

// Program is the root node.
type Program struct {
	Base
	Statements []Statement
}

func (*Program) statementNode() {}

// Equal reports whether two nodes are structurally identical, ignoring
// source positions. It compares canonical renderings, which are total and
// deterministic over the node set.
func Equal(a, b Node) bool {
	return Render(a) == Render(b)
}
