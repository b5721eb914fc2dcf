package convert

import (
	"coral/pkg/ast"
	"coral/pkg/errors"
	"coral/pkg/lexer"
	"coral/pkg/parser/legacy"
)

// Legacy lowers a legacy parse tree onto the canonical AST.
func Legacy(prog *legacy.Program) (*ast.Program, []errors.CoralError) {
	c := &converter{}
	out := &ast.Program{Base: ast.Base{Pos: spanOf(prog.Tok())}}
	for _, s := range prog.Stmts {
		if stmt := c.legacyStmt(s); stmt != nil {
			out.Statements = append(out.Statements, stmt)
		}
	}
	return out, c.errs
}

func (c *converter) legacyStmt(s legacy.Stmt) ast.Statement {
	switch n := s.(type) {
	case *legacy.ExprStmt:
		return &ast.ExpressionStmt{
			Base: ast.Base{Pos: spanOf(n.Tok())},
			Expr: c.legacyExpr(n.Expr),
		}
	case *legacy.Assign:
		return &ast.AssignStmt{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Target: c.legacyTarget(n.Target),
			Value:  c.legacyExpr(n.Value),
		}
	case *legacy.If:
		return c.legacyIf(n)
	case *legacy.While:
		return &ast.WhileStmt{
			Base:  ast.Base{Pos: spanOf(n.Tok())},
			Label: n.Label,
			Cond:  c.legacyExpr(n.Cond),
			Body:  c.legacyBlock(n.Body, n),
		}
	case *legacy.ForIn:
		// The loop variable doubles as the label: `break x` exits the
		// loop iterating x.
		return &ast.ForInStmt{
			Base:     ast.Base{Pos: spanOf(n.Tok())},
			Label:    n.Var,
			Var:      n.Var,
			Iterable: c.legacyExpr(n.Expr),
			Body:     c.legacyBlock(n.Body, n),
		}
	case *legacy.Try:
		out := &ast.TryStmt{
			Base: ast.Base{Pos: spanOf(n.Tok())},
			Body: c.legacyBlock(n.Body, n),
		}
		if n.HasExcept {
			out.Catch = &ast.CatchClause{
				Var:  n.ExceptVar,
				Body: c.legacyBlock(n.Except, n),
			}
		}
		if n.HasFinally {
			out.Finally = c.legacyBlock(n.Finally, n)
		}
		return out
	case *legacy.Return:
		out := &ast.ReturnStmt{Base: ast.Base{Pos: spanOf(n.Tok())}}
		if n.Value != nil {
			out.Value = c.legacyExpr(n.Value)
		}
		return out
	case *legacy.Break:
		return &ast.BreakStmt{Base: ast.Base{Pos: spanOf(n.Tok())}, Label: n.Label}
	case *legacy.Continue:
		return &ast.ContinueStmt{Base: ast.Base{Pos: spanOf(n.Tok())}, Label: n.Label}
	case *legacy.Object:
		return c.legacyObject(n)
	case *legacy.Unparsed:
		return &ast.Unparsed{Base: ast.Base{Pos: spanOf(n.Tok())}, Text: n.Text}
	default:
		c.internal(s.Tok(), "", "unknown legacy statement")
		return nil
	}
}

func (c *converter) legacyBlock(stmts []legacy.Stmt, parent legacy.Node) *ast.BlockStmt {
	out := &ast.BlockStmt{Base: ast.Base{Pos: spanOf(parent.Tok())}}
	for _, s := range stmts {
		if stmt := c.legacyStmt(s); stmt != nil {
			out.Statements = append(out.Statements, stmt)
		}
	}
	return out
}

// legacyIf lowers the flat elseif list into a nested chain.
func (c *converter) legacyIf(n *legacy.If) ast.Statement {
	out := &ast.IfStmt{
		Base: ast.Base{Pos: spanOf(n.Tok())},
		Cond: c.legacyExpr(n.Cond),
		Then: c.legacyBlock(n.Then, n),
	}
	cur := out
	for _, ei := range n.Elseifs {
		next := &ast.IfStmt{
			Base: ast.Base{Pos: spanOf(ei.Token)},
			Cond: c.legacyExpr(ei.Cond),
			Then: c.legacyBlock(ei.Then, n),
		}
		cur.Else = next
		cur = next
	}
	if n.HasElse {
		cur.Else = c.legacyBlock(n.Else, n)
	}
	return out
}

func (c *converter) legacyObject(n *legacy.Object) ast.Statement {
	out := &ast.ObjectDef{
		Base: ast.Base{Pos: spanOf(n.Tok())},
		Name: n.Name,
	}
	if n.Parent != nil {
		out.Parent = c.legacyExpr(n.Parent)
	}
	for _, m := range n.Members {
		switch d := m.(type) {
		case *legacy.PropertyDef:
			out.Members = append(out.Members, ast.PropertyMember{
				Name:  d.Name,
				Value: c.legacyExpr(d.Value),
				Perms: d.Perms,
			})
		case *legacy.VerbDef:
			out.Members = append(out.Members, ast.VerbMember{
				Names:  d.Names,
				Params: c.legacyParams(d.Tok(), d.Params),
				Body:   c.legacyBlock(d.Body, d),
				Perms:  d.Perms,
			})
		case *legacy.EventDef:
			out.Members = append(out.Members, ast.EventMember{
				Name:   d.Name,
				Params: c.legacyParams(d.Tok(), d.Params),
				Body:   c.legacyBlock(d.Body, d),
			})
		}
	}
	return out
}

func (c *converter) legacyParams(tok lexer.Token, params []legacy.Param) ast.Pattern {
	elems := make([]ast.PatternElem, 0, len(params))
	for _, p := range params {
		elems = append(elems, c.legacyParamElem(p))
	}
	c.checkPatternOrder(tok, elems)
	return ast.ListPattern(elems)
}

func (c *converter) legacyParamElem(p legacy.Param) ast.PatternElem {
	switch {
	case p.Rest:
		return ast.PatternElem{Kind: ast.ElemRest, Name: p.Name}
	case p.Optional:
		el := ast.PatternElem{Kind: ast.ElemOptional, Name: p.Name}
		if p.Default != nil {
			el.Default = c.legacyExpr(p.Default)
		} else {
			el.Default = &ast.NullLiteral{}
		}
		return el
	default:
		return ast.PatternElem{Kind: ast.ElemRequired, Name: p.Name}
	}
}

// legacyTarget lowers an assignment target. The parser has already
// vetted the shape.
func (c *converter) legacyTarget(e legacy.Expr) ast.LValue {
	switch n := e.(type) {
	case *legacy.Ident:
		return &ast.BindTarget{
			Base:    ast.Base{Pos: spanOf(n.Tok())},
			Kind:    ast.BindNone,
			Pattern: ast.SimplePattern(n.Name),
		}
	case *legacy.SysRef:
		// $name = v writes the property on the system object.
		return &ast.PropertyTarget{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Object: &ast.ObjRef{Base: ast.Base{Pos: spanOf(n.Tok())}, ID: 0},
			Name:   n.Name,
		}
	case *legacy.Prop:
		return &ast.PropertyTarget{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Object: c.legacyExpr(n.Object),
			Name:   n.Name,
		}
	case *legacy.Index:
		return &ast.IndexTarget{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Object: c.legacyExpr(n.Object),
			Index:  c.legacyExpr(n.Index),
		}
	case *legacy.List:
		elems := make([]ast.PatternElem, 0, len(n.Elems))
		for _, el := range n.Elems {
			elems = append(elems, c.legacyListElemPattern(el))
		}
		c.checkPatternOrder(n.Tok(), elems)
		return &ast.BindTarget{
			Base:    ast.Base{Pos: spanOf(n.Tok())},
			Kind:    ast.BindNone,
			Pattern: ast.ListPattern(elems),
		}
	default:
		c.internal(e.Tok(), "", "invalid assignment target survived parsing")
		return &ast.BindTarget{Pattern: ast.SimplePattern("_")}
	}
}

func (c *converter) legacyListElemPattern(el legacy.ListElem) ast.PatternElem {
	switch {
	case el.Rest:
		return ast.PatternElem{Kind: ast.ElemRest, Name: el.Name}
	case el.Optional:
		out := ast.PatternElem{Kind: ast.ElemOptional, Name: el.Name}
		if el.Default != nil {
			out.Default = c.legacyExpr(el.Default)
		} else {
			out.Default = &ast.NullLiteral{}
		}
		return out
	default:
		if ident, ok := el.Expr.(*legacy.Ident); ok {
			return ast.PatternElem{Kind: ast.ElemRequired, Name: ident.Name}
		}
		c.internal(el.Expr.Tok(), "", "non-identifier in scatter target survived parsing")
		return ast.PatternElem{Kind: ast.ElemRequired, Name: "_"}
	}
}

func (c *converter) legacyExpr(e legacy.Expr) ast.Expression {
	switch n := e.(type) {
	case *legacy.Int:
		return &ast.IntLiteral{Base: ast.Base{Pos: spanOf(n.Tok())}, Value: n.Value}
	case *legacy.Float:
		return &ast.FloatLiteral{Base: ast.Base{Pos: spanOf(n.Tok())}, Value: n.Value}
	case *legacy.Str:
		return &ast.StringLiteral{Base: ast.Base{Pos: spanOf(n.Tok())}, Value: n.Value}
	case *legacy.Bool:
		return &ast.BoolLiteral{Base: ast.Base{Pos: spanOf(n.Tok())}, Value: n.Value}
	case *legacy.Null:
		return &ast.NullLiteral{Base: ast.Base{Pos: spanOf(n.Tok())}}
	case *legacy.Ident:
		return &ast.Identifier{Base: ast.Base{Pos: spanOf(n.Tok())}, Name: n.Name}
	case *legacy.SysRef:
		return &ast.SysRef{Base: ast.Base{Pos: spanOf(n.Tok())}, Name: n.Name}
	case *legacy.ObjRef:
		return &ast.ObjRef{Base: ast.Base{Pos: spanOf(n.Tok())}, ID: n.ID}
	case *legacy.This:
		return &ast.ThisExpr{Base: ast.Base{Pos: spanOf(n.Tok())}}
	case *legacy.Binary:
		return &ast.BinaryExpr{
			Base:  ast.Base{Pos: spanOf(n.Tok())},
			Op:    ast.BinaryOp(n.Op),
			Left:  c.legacyExpr(n.Left),
			Right: c.legacyExpr(n.Right),
		}
	case *legacy.Unary:
		return c.unary(spanOf(n.Tok()), n.Op, c.legacyExpr(n.Operand))
	case *legacy.Cond:
		return &ast.ConditionalExpr{
			Base: ast.Base{Pos: spanOf(n.Tok())},
			Cond: c.legacyExpr(n.Cond),
			Then: c.legacyExpr(n.Then),
			Else: c.legacyExpr(n.Else),
		}
	case *legacy.Prop:
		return &ast.PropertyAccess{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Object: c.legacyExpr(n.Object),
			Name:   n.Name,
		}
	case *legacy.Index:
		return &ast.IndexAccess{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Object: c.legacyExpr(n.Object),
			Index:  c.legacyExpr(n.Index),
		}
	case *legacy.VerbCall:
		return &ast.VerbCall{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Object: c.legacyExpr(n.Object),
			Verb:   n.Verb,
			Args:   c.legacyExprs(n.Args),
		}
	case *legacy.Call:
		return &ast.FunctionCall{
			Base: ast.Base{Pos: spanOf(n.Tok())},
			Name: n.Name,
			Args: c.legacyExprs(n.Args),
		}
	case *legacy.List:
		out := &ast.ListLiteral{Base: ast.Base{Pos: spanOf(n.Tok())}}
		for _, el := range n.Elems {
			if el.Name != "" {
				c.errorf(n.Tok(), "scatter element '"+el.Name+"' outside an assignment target")
				continue
			}
			out.Elems = append(out.Elems, c.legacyExpr(el.Expr))
		}
		return out
	case *legacy.Unparsed:
		return &ast.Unparsed{Base: ast.Base{Pos: spanOf(n.Tok())}, Text: n.Text}
	case *legacy.AssignExpr:
		return &ast.AssignExpr{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Target: c.legacyTarget(n.Target),
			Value:  c.legacyExpr(n.Value),
		}
	default:
		c.internal(e.Tok(), "", "unknown legacy expression")
		return &ast.NullLiteral{}
	}
}

func (c *converter) legacyExprs(in []legacy.Expr) []ast.Expression {
	out := make([]ast.Expression, 0, len(in))
	for _, e := range in {
		out = append(out, c.legacyExpr(e))
	}
	return out
}

// unary folds negated numeric literals so `-3` and a literal -3 are the
// same node.
func (c *converter) unary(pos ast.Span, op string, operand ast.Expression) ast.Expression {
	if op == "-" {
		switch lit := operand.(type) {
		case *ast.IntLiteral:
			return &ast.IntLiteral{Base: ast.Base{Pos: pos}, Value: -lit.Value}
		case *ast.FloatLiteral:
			return &ast.FloatLiteral{Base: ast.Base{Pos: pos}, Value: -lit.Value}
		}
	}
	uop := ast.OpNeg
	if op == "!" {
		uop = ast.OpNot
	}
	return &ast.UnaryExpr{Base: ast.Base{Pos: pos}, Op: uop, Operand: operand}
}
