package convert

import (
	"coral/pkg/ast"
	"coral/pkg/errors"
	"coral/pkg/lexer"
	"coral/pkg/parser/modern"
)

// Modern lowers a modern parse tree onto the canonical AST.
func Modern(prog *modern.Program) (*ast.Program, []errors.CoralError) {
	c := &converter{}
	out := &ast.Program{Base: ast.Base{Pos: spanOf(prog.Tok())}}
	for _, s := range prog.Stmts {
		if stmt := c.modernStmt(s); stmt != nil {
			out.Statements = append(out.Statements, stmt)
		}
	}
	return out, c.errs
}

func (c *converter) modernStmt(s modern.Stmt) ast.Statement {
	switch n := s.(type) {
	case *modern.ExprStmt:
		return &ast.ExpressionStmt{
			Base: ast.Base{Pos: spanOf(n.Tok())},
			Expr: c.modernExpr(n.Expr),
		}
	case *modern.Let:
		kind := ast.BindLet
		if n.Const {
			kind = ast.BindConst
		}
		return &ast.AssignStmt{
			Base: ast.Base{Pos: spanOf(n.Tok())},
			Target: &ast.BindTarget{
				Base:    ast.Base{Pos: spanOf(n.Tok())},
				Kind:    kind,
				Pattern: c.modernPattern(n.Target),
			},
			Value: c.modernExpr(n.Value),
		}
	case *modern.Assign:
		return &ast.AssignStmt{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Target: c.modernTarget(n.Target),
			Value:  c.modernExpr(n.Value),
		}
	case *modern.If:
		return c.modernIf(n)
	case *modern.While:
		return &ast.WhileStmt{
			Base:  ast.Base{Pos: spanOf(n.Tok())},
			Label: n.Label,
			Cond:  c.modernExpr(n.Cond),
			Body:  c.modernBlock(n.Body),
		}
	case *modern.ForIn:
		label := n.Label
		if label == "" {
			// Match the legacy convention: the loop variable names the
			// loop when no explicit label is given.
			label = n.Var
		}
		return &ast.ForInStmt{
			Base:     ast.Base{Pos: spanOf(n.Tok())},
			Label:    label,
			Var:      n.Var,
			Iterable: c.modernExpr(n.Expr),
			Body:     c.modernBlock(n.Body),
		}
	case *modern.Try:
		out := &ast.TryStmt{
			Base: ast.Base{Pos: spanOf(n.Tok())},
			Body: c.modernBlock(n.Body),
		}
		if n.Catch != nil {
			out.Catch = &ast.CatchClause{
				Var:  n.CatchVar,
				Body: c.modernBlock(n.Catch),
			}
		}
		if n.Finally != nil {
			out.Finally = c.modernBlock(n.Finally)
		}
		return out
	case *modern.Return:
		out := &ast.ReturnStmt{Base: ast.Base{Pos: spanOf(n.Tok())}}
		if n.Value != nil {
			out.Value = c.modernExpr(n.Value)
		}
		return out
	case *modern.Break:
		return &ast.BreakStmt{Base: ast.Base{Pos: spanOf(n.Tok())}, Label: n.Label}
	case *modern.Continue:
		return &ast.ContinueStmt{Base: ast.Base{Pos: spanOf(n.Tok())}, Label: n.Label}
	case *modern.Object:
		return c.modernObject(n)
	case *modern.Unparsed:
		return &ast.Unparsed{Base: ast.Base{Pos: spanOf(n.Tok())}, Text: n.Text}
	case *modern.Block:
		return c.modernBlock(n)
	default:
		c.internal(s.Tok(), "", "unknown modern statement")
		return nil
	}
}

func (c *converter) modernBlock(b *modern.Block) *ast.BlockStmt {
	if b == nil {
		return nil
	}
	out := &ast.BlockStmt{Base: ast.Base{Pos: spanOf(b.Tok())}}
	for _, s := range b.Stmts {
		if stmt := c.modernStmt(s); stmt != nil {
			out.Statements = append(out.Statements, stmt)
		}
	}
	return out
}

func (c *converter) modernIf(n *modern.If) ast.Statement {
	out := &ast.IfStmt{
		Base: ast.Base{Pos: spanOf(n.Tok())},
		Cond: c.modernExpr(n.Cond),
		Then: c.modernBlock(n.Then),
	}
	switch e := n.Else.(type) {
	case nil:
	case *modern.If:
		out.Else = c.modernIf(e)
	case *modern.Block:
		out.Else = c.modernBlock(e)
	default:
		c.internal(n.Tok(), "", "unexpected else branch shape")
	}
	return out
}

func (c *converter) modernObject(n *modern.Object) ast.Statement {
	out := &ast.ObjectDef{
		Base: ast.Base{Pos: spanOf(n.Tok())},
		Name: n.Name,
	}
	if n.Parent != nil {
		out.Parent = c.modernExpr(n.Parent)
	}
	for _, m := range n.Members {
		switch d := m.(type) {
		case *modern.PropertyDef:
			out.Members = append(out.Members, ast.PropertyMember{
				Name:  d.Name,
				Value: c.modernExpr(d.Value),
				Perms: d.Perms,
			})
		case *modern.VerbDef:
			out.Members = append(out.Members, ast.VerbMember{
				Names:  d.Names,
				Params: c.modernParams(d.Tok(), d.Params),
				Body:   c.modernBlock(d.Body),
				Perms:  d.Perms,
			})
		case *modern.EventDef:
			out.Members = append(out.Members, ast.EventMember{
				Name:   d.Name,
				Params: c.modernParams(d.Tok(), d.Params),
				Body:   c.modernBlock(d.Body),
			})
		}
	}
	return out
}

func (c *converter) modernParams(tok lexer.Token, params []modern.Param) ast.Pattern {
	elems := make([]ast.PatternElem, 0, len(params))
	for _, p := range params {
		switch {
		case p.Rest:
			elems = append(elems, ast.PatternElem{Kind: ast.ElemRest, Name: p.Name})
		case p.Optional:
			el := ast.PatternElem{Kind: ast.ElemOptional, Name: p.Name}
			if p.Default != nil {
				el.Default = c.modernExpr(p.Default)
			} else {
				el.Default = &ast.NullLiteral{}
			}
			elems = append(elems, el)
		default:
			elems = append(elems, ast.PatternElem{Kind: ast.ElemRequired, Name: p.Name})
		}
	}
	c.checkPatternOrder(tok, elems)
	return ast.ListPattern(elems)
}

// modernPattern lowers a let/const target, which is either a bare
// identifier or a list pattern.
func (c *converter) modernPattern(e modern.Expr) ast.Pattern {
	switch n := e.(type) {
	case *modern.Ident:
		return ast.SimplePattern(n.Name)
	case *modern.List:
		elems := make([]ast.PatternElem, 0, len(n.Elems))
		for _, el := range n.Elems {
			elems = append(elems, c.modernListElemPattern(el))
		}
		c.checkPatternOrder(n.Tok(), elems)
		return ast.ListPattern(elems)
	default:
		c.internal(e.Tok(), "", "invalid binding pattern survived parsing")
		return ast.SimplePattern("_")
	}
}

func (c *converter) modernListElemPattern(el modern.ListElem) ast.PatternElem {
	switch {
	case el.Rest:
		return ast.PatternElem{Kind: ast.ElemRest, Name: el.Name}
	case el.Optional:
		out := ast.PatternElem{Kind: ast.ElemOptional, Name: el.Name}
		if el.Default != nil {
			out.Default = c.modernExpr(el.Default)
		} else {
			out.Default = &ast.NullLiteral{}
		}
		return out
	default:
		if ident, ok := el.Expr.(*modern.Ident); ok {
			return ast.PatternElem{Kind: ast.ElemRequired, Name: ident.Name}
		}
		c.internal(el.Expr.Tok(), "", "non-identifier in scatter target survived parsing")
		return ast.PatternElem{Kind: ast.ElemRequired, Name: "_"}
	}
}

func (c *converter) modernTarget(e modern.Expr) ast.LValue {
	switch n := e.(type) {
	case *modern.Ident:
		return &ast.BindTarget{
			Base:    ast.Base{Pos: spanOf(n.Tok())},
			Kind:    ast.BindNone,
			Pattern: ast.SimplePattern(n.Name),
		}
	case *modern.SysRef:
		return &ast.PropertyTarget{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Object: &ast.ObjRef{Base: ast.Base{Pos: spanOf(n.Tok())}, ID: 0},
			Name:   n.Name,
		}
	case *modern.Prop:
		return &ast.PropertyTarget{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Object: c.modernExpr(n.Object),
			Name:   n.Name,
		}
	case *modern.Index:
		return &ast.IndexTarget{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Object: c.modernExpr(n.Object),
			Index:  c.modernExpr(n.Index),
		}
	case *modern.List:
		return &ast.BindTarget{
			Base:    ast.Base{Pos: spanOf(n.Tok())},
			Kind:    ast.BindNone,
			Pattern: c.modernPattern(n),
		}
	default:
		c.internal(e.Tok(), "", "invalid assignment target survived parsing")
		return &ast.BindTarget{Pattern: ast.SimplePattern("_")}
	}
}

func (c *converter) modernExpr(e modern.Expr) ast.Expression {
	switch n := e.(type) {
	case *modern.Int:
		return &ast.IntLiteral{Base: ast.Base{Pos: spanOf(n.Tok())}, Value: n.Value}
	case *modern.Float:
		return &ast.FloatLiteral{Base: ast.Base{Pos: spanOf(n.Tok())}, Value: n.Value}
	case *modern.Str:
		return &ast.StringLiteral{Base: ast.Base{Pos: spanOf(n.Tok())}, Value: n.Value}
	case *modern.Bool:
		return &ast.BoolLiteral{Base: ast.Base{Pos: spanOf(n.Tok())}, Value: n.Value}
	case *modern.Null:
		return &ast.NullLiteral{Base: ast.Base{Pos: spanOf(n.Tok())}}
	case *modern.Ident:
		return &ast.Identifier{Base: ast.Base{Pos: spanOf(n.Tok())}, Name: n.Name}
	case *modern.SysRef:
		return &ast.SysRef{Base: ast.Base{Pos: spanOf(n.Tok())}, Name: n.Name}
	case *modern.ObjRef:
		return &ast.ObjRef{Base: ast.Base{Pos: spanOf(n.Tok())}, ID: n.ID}
	case *modern.This:
		return &ast.ThisExpr{Base: ast.Base{Pos: spanOf(n.Tok())}}
	case *modern.Binary:
		return &ast.BinaryExpr{
			Base:  ast.Base{Pos: spanOf(n.Tok())},
			Op:    ast.BinaryOp(n.Op),
			Left:  c.modernExpr(n.Left),
			Right: c.modernExpr(n.Right),
		}
	case *modern.Unary:
		return c.unary(spanOf(n.Tok()), n.Op, c.modernExpr(n.Operand))
	case *modern.Cond:
		return &ast.ConditionalExpr{
			Base: ast.Base{Pos: spanOf(n.Tok())},
			Cond: c.modernExpr(n.Cond),
			Then: c.modernExpr(n.Then),
			Else: c.modernExpr(n.Else),
		}
	case *modern.Prop:
		return &ast.PropertyAccess{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Object: c.modernExpr(n.Object),
			Name:   n.Name,
		}
	case *modern.Index:
		return &ast.IndexAccess{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Object: c.modernExpr(n.Object),
			Index:  c.modernExpr(n.Index),
		}
	case *modern.VerbCall:
		return &ast.VerbCall{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Object: c.modernExpr(n.Object),
			Verb:   n.Verb,
			Args:   c.modernExprs(n.Args),
		}
	case *modern.Call:
		// A bare-identifier callee is a named call, resolved against
		// builtins first and then the environment; anything else is a
		// computed callee.
		if ident, ok := n.Callee.(*modern.Ident); ok {
			return &ast.FunctionCall{
				Base: ast.Base{Pos: spanOf(n.Tok())},
				Name: ident.Name,
				Args: c.modernExprs(n.Args),
			}
		}
		return &ast.CallExpr{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Callee: c.modernExpr(n.Callee),
			Args:   c.modernExprs(n.Args),
		}
	case *modern.Lambda:
		return &ast.Lambda{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Params: c.modernParams(n.Tok(), n.Params),
			Body:   c.modernBlock(n.Body),
		}
	case *modern.List:
		out := &ast.ListLiteral{Base: ast.Base{Pos: spanOf(n.Tok())}}
		for _, el := range n.Elems {
			if el.Name != "" {
				c.errorf(n.Tok(), "scatter element '"+el.Name+"' outside an assignment target")
				continue
			}
			out.Elems = append(out.Elems, c.modernExpr(el.Expr))
		}
		return out
	case *modern.MapLit:
		out := &ast.MapLiteral{Base: ast.Base{Pos: spanOf(n.Tok())}}
		for _, entry := range n.Entries {
			out.Entries = append(out.Entries, ast.MapEntry{
				Key:   c.modernExpr(entry.Key),
				Value: c.modernExpr(entry.Value),
			})
		}
		return out
	case *modern.Unparsed:
		return &ast.Unparsed{Base: ast.Base{Pos: spanOf(n.Tok())}, Text: n.Text}
	case *modern.AssignExpr:
		return &ast.AssignExpr{
			Base:   ast.Base{Pos: spanOf(n.Tok())},
			Target: c.modernTarget(n.Target),
			Value:  c.modernExpr(n.Value),
		}
	default:
		c.internal(e.Tok(), "", "unknown modern expression")
		return &ast.NullLiteral{}
	}
}

func (c *converter) modernExprs(in []modern.Expr) []ast.Expression {
	out := make([]ast.Expression, 0, len(in))
	for _, e := range in {
		out = append(out, c.modernExpr(e))
	}
	return out
}
