package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Render emits canonical (modern-syntax) source for a node. The output is
// deterministic and re-parseable: parsing it with the modern parser and
// converting again yields a structurally identical tree. Expressions are
// fully parenthesized so no precedence knowledge is needed to read or
// re-parse the result.
func Render(node Node) string {
	var r renderer
	r.node(node)
	return r.b.String()
}

type renderer struct {
	b     strings.Builder
	depth int
}

func (r *renderer) write(s string) { r.b.WriteString(s) }

func (r *renderer) pad() {
	for i := 0; i < r.depth; i++ {
		r.b.WriteString("  ")
	}
}

func (r *renderer) line(s string) {
	r.pad()
	r.b.WriteString(s)
	r.b.WriteByte('\n')
}

func (r *renderer) node(node Node) {
	switch n := node.(type) {
	case *Program:
		for _, s := range n.Statements {
			r.stmt(s)
		}
	case Statement:
		r.stmt(n)
	case Expression:
		r.write(r.expr(n))
	}
}

// --- Statements ---

func (r *renderer) stmt(s Statement) {
	switch n := s.(type) {
	case *Program:
		for _, inner := range n.Statements {
			r.stmt(inner)
		}
	case *AssignStmt:
		r.line(r.assign(n) + ";")
	case *ExpressionStmt:
		r.line(r.expr(n.Expr) + ";")
	case *BlockStmt:
		r.line("{")
		r.depth++
		for _, inner := range n.Statements {
			r.stmt(inner)
		}
		r.depth--
		r.line("}")
	case *IfStmt:
		r.ifChain(n, "if")
	case *WhileStmt:
		head := "while "
		if n.Label != "" {
			head += n.Label + " "
		}
		head += "(" + r.expr(n.Cond) + ") {"
		r.line(head)
		r.body(n.Body)
		r.line("}")
	case *ForInStmt:
		head := "for "
		if n.Label != "" && n.Label != n.Var {
			head += n.Label + " "
		}
		head += "(" + n.Var + " in " + r.expr(n.Iterable) + ") {"
		r.line(head)
		r.body(n.Body)
		r.line("}")
	case *TryStmt:
		r.line("try {")
		r.body(n.Body)
		if n.Catch != nil {
			if n.Catch.Var != "" {
				r.line("} catch (" + n.Catch.Var + ") {")
			} else {
				r.line("} catch {")
			}
			r.body(n.Catch.Body)
		}
		if n.Finally != nil {
			r.line("} finally {")
			r.body(n.Finally)
		}
		r.line("}")
	case *ReturnStmt:
		if n.Value != nil {
			r.line("return " + r.expr(n.Value) + ";")
		} else {
			r.line("return;")
		}
	case *BreakStmt:
		if n.Label != "" {
			r.line("break " + n.Label + ";")
		} else {
			r.line("break;")
		}
	case *ContinueStmt:
		if n.Label != "" {
			r.line("continue " + n.Label + ";")
		} else {
			r.line("continue;")
		}
	case *ObjectDef:
		head := "object " + n.Name
		if n.Parent != nil {
			head += " extends " + r.expr(n.Parent)
		}
		r.line(head + " {")
		r.depth++
		for _, m := range n.Members {
			r.member(m)
		}
		r.depth--
		r.line("}")
	case *Unparsed:
		// Recovery placeholder; emitted verbatim so nothing is lost.
		r.line(n.Text)
	}
}

func (r *renderer) body(b *BlockStmt) {
	if b == nil {
		return
	}
	r.depth++
	for _, s := range b.Statements {
		r.stmt(s)
	}
	r.depth--
}

// ifChain flattens elseif chains into the canonical spelling.
func (r *renderer) ifChain(n *IfStmt, kw string) {
	r.line(kw + " (" + r.expr(n.Cond) + ") {")
	r.body(n.Then)
	switch e := n.Else.(type) {
	case nil:
		r.line("}")
	case *IfStmt:
		r.pad()
		r.write("} else ")
		// Re-open on the same line: "} else if (...) {"
		trimmed := &renderer{depth: r.depth}
		trimmed.ifChain(e, "if")
		chained := strings.TrimPrefix(trimmed.b.String(), strings.Repeat("  ", r.depth))
		r.write(chained)
	case *BlockStmt:
		r.line("} else {")
		r.body(e)
		r.line("}")
	}
}

func (r *renderer) member(m Member) {
	switch n := m.(type) {
	case PropertyMember:
		head := "property " + n.Name
		if n.Perms != "" {
			head += " " + strconv.Quote(n.Perms)
		}
		r.line(head + " = " + r.expr(n.Value) + ";")
	case VerbMember:
		head := "verb " + verbNames(n.Names)
		if n.Perms != "" {
			head += " " + strconv.Quote(n.Perms)
		}
		head += " (" + renderParams(n.Params, r) + ") {"
		r.line(head)
		r.body(n.Body)
		r.line("}")
	case EventMember:
		r.line("event " + n.Name + " (" + renderParams(n.Params, r) + ") {")
		r.body(n.Body)
		r.line("}")
	}
}

// verbNames quotes a verb name list when it is not a single identifier.
func verbNames(names string) string {
	if !strings.ContainsAny(names, " *\"") {
		return names
	}
	return strconv.Quote(names)
}

func (r *renderer) assign(n *AssignStmt) string {
	return r.lvalue(n.Target) + " = " + r.expr(n.Value)
}

func (r *renderer) lvalue(t LValue) string {
	switch t := t.(type) {
	case *BindTarget:
		switch t.Kind {
		case BindLet:
			return "let " + renderPattern(t.Pattern, r)
		case BindConst:
			return "const " + renderPattern(t.Pattern, r)
		default:
			return renderPattern(t.Pattern, r)
		}
	case *PropertyTarget:
		return r.primary(t.Object) + "." + t.Name
	case *IndexTarget:
		return r.primary(t.Object) + "[" + r.expr(t.Index) + "]"
	}
	return ""
}

func renderPattern(p Pattern, r *renderer) string {
	if !p.List {
		return p.Simple
	}
	return "{" + renderParams(p, r) + "}"
}

// renderParams renders pattern elements without the surrounding braces,
// as they appear in verb and lambda parameter lists.
func renderParams(p Pattern, r *renderer) string {
	if !p.List {
		return p.Simple
	}
	parts := make([]string, 0, len(p.Elems))
	for _, e := range p.Elems {
		switch e.Kind {
		case ElemOptional:
			parts = append(parts, "?"+e.Name+" = "+r.expr(e.Default))
		case ElemRest:
			parts = append(parts, "@"+e.Name)
		default:
			parts = append(parts, e.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// --- Expressions ---

func (r *renderer) expr(e Expression) string {
	switch n := e.(type) {
	case *IntLiteral:
		return strconv.FormatInt(n.Value, 10)
	case *FloatLiteral:
		return formatFloat(n.Value)
	case *StringLiteral:
		return strconv.Quote(n.Value)
	case *BoolLiteral:
		if n.Value {
			return "true"
		}
		return "false"
	case *NullLiteral:
		return "null"
	case *Identifier:
		return n.Name
	case *SysRef:
		return "$" + n.Name
	case *ObjRef:
		return "#" + strconv.FormatInt(n.ID, 10)
	case *ThisExpr:
		return "this"
	case *BinaryExpr:
		return "(" + r.expr(n.Left) + " " + string(n.Op) + " " + r.expr(n.Right) + ")"
	case *UnaryExpr:
		return "(" + string(n.Op) + r.expr(n.Operand) + ")"
	case *ConditionalExpr:
		return "(" + r.expr(n.Cond) + " ? " + r.expr(n.Then) + " | " + r.expr(n.Else) + ")"
	case *PropertyAccess:
		return r.primary(n.Object) + "." + n.Name
	case *IndexAccess:
		return r.primary(n.Object) + "[" + r.expr(n.Index) + "]"
	case *VerbCall:
		return r.primary(n.Object) + ":" + n.Verb + "(" + r.args(n.Args) + ")"
	case *FunctionCall:
		return n.Name + "(" + r.args(n.Args) + ")"
	case *CallExpr:
		return r.primary(n.Callee) + "(" + r.args(n.Args) + ")"
	case *Lambda:
		sub := &renderer{depth: r.depth}
		sub.write("fn (" + renderParams(n.Params, sub) + ") {\n")
		sub.body(n.Body)
		sub.pad()
		sub.write("}")
		return sub.b.String()
	case *ListLiteral:
		return "{" + r.args(n.Elems) + "}"
	case *MapLiteral:
		parts := make([]string, 0, len(n.Entries))
		for _, entry := range n.Entries {
			parts = append(parts, r.expr(entry.Key)+" -> "+r.expr(entry.Value))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Unparsed:
		return n.Text
	case *AssignExpr:
		return r.lvalue(n.Target) + " = " + r.expr(n.Value)
	}
	return fmt.Sprintf("<unknown %T>", e)
}

func (r *renderer) args(exprs []Expression) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, r.expr(e))
	}
	return strings.Join(parts, ", ")
}

// primary wraps non-atomic expressions in parens so access/call chains
// re-parse with the same shape.
func (r *renderer) primary(e Expression) string {
	switch e.(type) {
	case *IntLiteral, *FloatLiteral, *StringLiteral, *BoolLiteral, *NullLiteral,
		*Identifier, *SysRef, *ObjRef, *ThisExpr,
		*PropertyAccess, *IndexAccess, *VerbCall, *FunctionCall, *CallExpr:
		return r.expr(e)
	default:
		return "(" + r.expr(e) + ")"
	}
}

// formatFloat keeps floats lexically distinct from integers so a rendered
// tree re-parses with the same literal node types.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
