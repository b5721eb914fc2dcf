// Package convert lowers both surface parse trees onto the canonical AST.
// Conversion is pure and total over parser-accepted trees: it allocates new
// nodes, never mutates its input, and the only diagnostics it produces are
// misuses a one-token-lookahead parser cannot see (a scatter pattern in
// value position, a malformed pattern order). Anything else that goes wrong
// here is a front-end bug and surfaces as a ConversionError.
package convert

import (
	"coral/pkg/ast"
	"coral/pkg/errors"
	"coral/pkg/lexer"
)

type converter struct {
	errs []errors.CoralError
}

func spanOf(tok lexer.Token) ast.Span {
	return ast.Span{Line: tok.Line, Col: tok.Column}
}

func posOf(tok lexer.Token) errors.Position {
	return errors.Position{
		Line:     tok.Line,
		Column:   tok.Column,
		StartPos: tok.StartPos,
		EndPos:   tok.EndPos,
	}
}

func (c *converter) errorf(tok lexer.Token, msg string) {
	c.errs = append(c.errs, &errors.SyntaxError{
		Position: posOf(tok),
		Msg:      msg,
	})
}

func (c *converter) internal(tok lexer.Token, node, msg string) {
	c.errs = append(c.errs, &errors.ConversionError{
		Position: posOf(tok),
		Node:     node,
		Msg:      msg,
	})
}

// checkPatternOrder enforces required, then optional, then at most one rest.
func (c *converter) checkPatternOrder(tok lexer.Token, elems []ast.PatternElem) {
	stage := ast.ElemRequired
	for _, e := range elems {
		switch e.Kind {
		case ast.ElemRequired:
			if stage != ast.ElemRequired {
				c.errorf(tok, "required pattern element after optional or rest")
			}
		case ast.ElemOptional:
			if stage == ast.ElemRest {
				c.errorf(tok, "optional pattern element after rest")
				continue
			}
			stage = ast.ElemOptional
		case ast.ElemRest:
			if stage == ast.ElemRest {
				c.errorf(tok, "a pattern may have at most one rest element")
				continue
			}
			stage = ast.ElemRest
		}
	}
}
