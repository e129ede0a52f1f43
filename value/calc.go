package value

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/token"
)

// parseCalc parses "calc(expr)" or "min/max/clamp(expr, expr, …)". The
// function token has been consumed. Operator precedence: '*' and '/'
// bind tighter than '+' and '-'; unary minus is only valid where the
// number grammar produced a signed numeric token, per CSS.
func (p *parser) parseCalc(name string) (ast.Value, error) {
	if name == "calc" {
		expr, err := p.parseCalcSum()
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if p.next().Type != token.RParen {
			return nil, ErrInvalidValue
		}
		return &ast.Calc{Name: name, Root: expr}, nil
	}
	// min/max/clamp: comma-separated calc sums
	var list ast.CommaList
	for {
		expr, err := p.parseCalcSum()
		if err != nil {
			return nil, err
		}
		list = append(list, expr)
		p.skipWS()
		switch p.next().Type {
		case token.RParen:
			return &ast.Calc{Name: name, Root: list}, nil
		case token.Comma:
			continue
		default:
			return nil, ErrInvalidValue
		}
	}
}

func (p *parser) parseCalcSum() (ast.Value, error) {
	left, err := p.parseCalcProduct()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWS()
		t := p.peek()
		if !t.IsDelim('+') && !t.IsDelim('-') {
			return left, nil
		}
		p.next()
		right, err := p.parseCalcProduct()
		if err != nil {
			return nil, err
		}
		left = &ast.CalcExpr{Op: t.Lexeme[0], Left: left, Right: right}
	}
}

func (p *parser) parseCalcProduct() (ast.Value, error) {
	left, err := p.parseCalcOperand()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWS()
		t := p.peek()
		if !t.IsDelim('*') && !t.IsDelim('/') {
			return left, nil
		}
		p.next()
		right, err := p.parseCalcOperand()
		if err != nil {
			return nil, err
		}
		left = &ast.CalcExpr{Op: t.Lexeme[0], Left: left, Right: right}
	}
}

// parseCalcOperand parses a calc leaf: a numeric token, a parenthesized
// sub-expression, a nested calc-like function, or an opaque var()
// reference. Parenthesized groups and nested functions count against the
// depth limit.
func (p *parser) parseCalcOperand() (ast.Value, error) {
	p.skipWS()
	t := p.next()
	switch t.Type {
	case token.Number:
		return ast.Number{Value: t.Num, Int: t.Int}, nil
	case token.Percentage:
		return ast.Percentage{Value: t.Num}, nil
	case token.Dimension:
		return ast.Dimension{Value: t.Num, Unit: t.Unit, Int: t.Int}, nil
	case token.Ident:
		// e, pi, infinity, custom idents stay opaque leaves
		return ast.Ident{Name: t.Value}, nil
	case token.LParen:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		expr, err := p.parseCalcSum()
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if p.next().Type != token.RParen {
			return nil, ErrInvalidValue
		}
		return expr, nil
	case token.Function:
		name := token.ASCIILower(t.Value)
		switch name {
		case "calc", "min", "max", "clamp":
			if err := p.enter(); err != nil {
				return nil, err
			}
			defer p.leave()
			c, err := p.parseCalc(name)
			if err != nil {
				return nil, err
			}
			// nested calc() is equivalent to a parenthesized group
			if cc, ok := c.(*ast.Calc); ok && name == "calc" {
				return cc.Root, nil
			}
			return c, nil
		case "var":
			if err := p.enter(); err != nil {
				return nil, err
			}
			defer p.leave()
			return p.parseVar()
		}
		return nil, ErrInvalidValue
	}
	return nil, ErrInvalidValue
}

// --- Constant folding ---------------------------------------------------

// FoldCalc reduces constant subtrees of a calc expression: operands with
// identical units (or pure numbers) are combined exactly; everything else
// is left untouched. Folding is a minification behavior, not part of
// parsing. The result of folding a whole calc() down to one numeric term
// is that term itself, without the calc() wrapper.
func FoldCalc(c *ast.Calc) ast.Value {
	root := foldExpr(c.Root)
	if c.Name == "calc" {
		switch root.(type) {
		case ast.Number, ast.Dimension, ast.Percentage:
			return root
		}
	}
	return &ast.Calc{Name: c.Name, Root: root}
}

func foldExpr(v ast.Value) ast.Value {
	switch e := v.(type) {
	case *ast.CalcExpr:
		left := foldExpr(e.Left)
		right := foldExpr(e.Right)
		if folded, ok := foldBinary(e.Op, left, right); ok {
			return folded
		}
		return &ast.CalcExpr{Op: e.Op, Left: left, Right: right}
	case ast.CommaList:
		out := make(ast.CommaList, len(e))
		for i, m := range e {
			out[i] = foldExpr(m)
		}
		return out
	}
	return v
}

func foldBinary(op byte, left, right ast.Value) (ast.Value, bool) {
	ln, lu, lok := numeric(left)
	rn, ru, rok := numeric(right)
	if !lok || !rok {
		return nil, false
	}
	switch op {
	case '+', '-':
		if lu != ru {
			return nil, false
		}
		n := ln + rn
		if op == '-' {
			n = ln - rn
		}
		return makeNumeric(n, lu), true
	case '*':
		// one side must be a pure number
		if lu == "" {
			return makeNumeric(ln*rn, ru), true
		}
		if ru == "" {
			return makeNumeric(ln*rn, lu), true
		}
		return nil, false
	case '/':
		if ru != "" || rn == 0 {
			return nil, false
		}
		return makeNumeric(ln/rn, lu), true
	}
	return nil, false
}

// numeric extracts (value, unit) from a leaf; percentages use the
// pseudo-unit "%" so they only fold with other percentages.
func numeric(v ast.Value) (float64, string, bool) {
	switch n := v.(type) {
	case ast.Number:
		return n.Value, "", true
	case ast.Dimension:
		return n.Value, n.Unit, true
	case ast.Percentage:
		return n.Value, "%", true
	}
	return 0, "", false
}

func makeNumeric(n float64, unit string) ast.Value {
	isInt := n == float64(int64(n))
	switch unit {
	case "":
		return ast.Number{Value: n, Int: isInt}
	case "%":
		return ast.Percentage{Value: n}
	default:
		return ast.Dimension{Value: n, Unit: unit, Int: isInt}
	}
}
