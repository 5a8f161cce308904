package parser

import (
	"github.com/tane-lang/tanec/lang/ast"
	"github.com/tane-lang/tanec/lang/token"
)

// parseExpr parses the full expression precedence chain, lowest precedence
// first, per spec.md §4.2's table (LogicalOr through Mul), left-associative
// throughout.
func (p *parser) parseExpr() ast.Handle {
	return p.parseLogicalOr()
}

type binLevel struct {
	kind token.Kind
	op   ast.Op
}

// binary parses a single left-associative precedence level: next { ops }.
func (p *parser) binary(next func() ast.Handle, levels ...binLevel) ast.Handle {
	left := next()
	for {
		matched := false
		for _, lv := range levels {
			if p.cur().Kind == lv.kind {
				pos := p.pos()
				p.stream.Consume(lv.kind)
				right := next()
				h := p.arena.New(ast.BinOp, pos)
				n := p.arena.Get(h)
				n.Op, n.LHS, n.RHS = lv.op, left, right
				left = h
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
	}
}

func (p *parser) parseLogicalOr() ast.Handle {
	return p.binary(p.parseLogicalAnd, binLevel{token.OROR, ast.OpOr})
}

func (p *parser) parseLogicalAnd() ast.Handle {
	return p.binary(p.parseBitOr, binLevel{token.ANDAND, ast.OpAnd})
}

func (p *parser) parseBitOr() ast.Handle {
	return p.binary(p.parseBitXor, binLevel{token.PIPE, ast.OpBitOr})
}

func (p *parser) parseBitXor() ast.Handle {
	return p.binary(p.parseBitAnd, binLevel{token.CARET, ast.OpBitXor})
}

func (p *parser) parseBitAnd() ast.Handle {
	return p.binary(p.parseEquality, binLevel{token.AMP, ast.OpBitAnd})
}

func (p *parser) parseEquality() ast.Handle {
	return p.binary(p.parseRelational, binLevel{token.EQ, ast.OpEq}, binLevel{token.NEQ, ast.OpNeq})
}

func (p *parser) parseRelational() ast.Handle {
	return p.binary(p.parseShift, binLevel{token.LT, ast.OpLt}, binLevel{token.LE, ast.OpLe})
}

func (p *parser) parseShift() ast.Handle {
	return p.binary(p.parseAdd, binLevel{token.SHL, ast.OpShl}, binLevel{token.SHR, ast.OpShr})
}

func (p *parser) parseAdd() ast.Handle {
	return p.binary(p.parseMul, binLevel{token.PLUS, ast.OpAdd}, binLevel{token.MINUS, ast.OpSub})
}

func (p *parser) parseMul() ast.Handle {
	return p.binary(p.parseUnary, binLevel{token.STAR, ast.OpMul}, binLevel{token.SLASH, ast.OpDiv}, binLevel{token.PERCENT, ast.OpMod})
}

// parseUnary parses: [ "+" | "-" ] Primary. Unary '-' lowers to "0 - Primary"
// right here in the parser, per spec.md §4.2, so later phases never see a
// UnaryOp node for minus.
func (p *parser) parseUnary() ast.Handle {
	if p.cur().Kind == token.PLUS {
		p.stream.Consume(token.PLUS)
		return p.parsePrimary()
	}
	if p.cur().Kind == token.MINUS {
		pos := p.pos()
		p.stream.Consume(token.MINUS)
		operand := p.parsePrimary()

		zero := p.arena.New(ast.Number, pos)
		p.arena.Get(zero).Val = 0

		h := p.arena.New(ast.BinOp, pos)
		n := p.arena.Get(h)
		n.Op, n.LHS, n.RHS = ast.OpSub, zero, operand
		return h
	}
	return p.parsePrimary()
}

// parsePrimary parses:
//
//	Primary := "(" Expr ")"
//	         | IDENT [ "(" [ Expr { "," Expr } ] ")" ]
//	         | "switch" Expr "{" SwitchArm { "," SwitchArm } [","] "}"
//	         | NUMBER
//	         | STRING
func (p *parser) parsePrimary() ast.Handle {
	pos := p.pos()
	switch p.cur().Kind {
	case token.LPAREN:
		p.stream.Consume(token.LPAREN)
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e

	case token.NUMBER:
		tok := p.cur()
		p.stream.Consume(token.NUMBER)
		h := p.arena.New(ast.Number, pos)
		p.arena.Get(h).Val = tok.IntVal
		return h

	case token.STRING:
		tok := p.cur()
		p.stream.Consume(token.STRING)
		h := p.arena.New(ast.String, pos)
		p.arena.Get(h).Str = tok.StrVal
		return h

	case token.KW_SWITCH:
		return p.parseSwitch()

	case token.IDENT:
		name := p.expectIdent()
		if p.cur().Kind == token.LPAREN {
			return p.parseCall(pos, name)
		}
		h := p.arena.New(ast.Ident, pos)
		p.arena.Get(h).Name = name
		return h
	}

	p.fail("expected expression, found %s", p.cur().Kind.GoString())
	panic("unreachable")
}

func (p *parser) parseCall(pos int32, name string) ast.Handle {
	p.expect(token.LPAREN)
	var args []ast.Handle
	if p.cur().Kind != token.RPAREN {
		args = append(args, p.parseExpr())
		for p.stream.Consume(token.COMMA) {
			args = append(args, p.parseExpr())
		}
	}
	p.expect(token.RPAREN)

	h := p.arena.New(ast.Call, pos)
	n := p.arena.Get(h)
	n.Name = name
	n.Args = args
	return h
}

// parseSwitch parses: "switch" Expr "{" SwitchArm { "," SwitchArm } [","] "}"
// where SwitchArm := Expr "=>" Expr. Each arm becomes a Case node whose LHS
// is the match value and RHS the result expression; Case nodes are
// collected into the Switch node's Body in source order, evaluated
// first-match-wins (spec.md §4.2).
func (p *parser) parseSwitch() ast.Handle {
	pos := p.pos()
	p.expect(token.KW_SWITCH)
	cond := p.parseExpr()
	p.expect(token.LBRACE)

	var cases []ast.Handle
	for p.cur().Kind != token.RBRACE {
		cases = append(cases, p.parseSwitchArm())
		if !p.stream.Consume(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)

	h := p.arena.New(ast.Switch, pos)
	n := p.arena.Get(h)
	n.Cond = cond
	n.Body = cases
	return h
}

func (p *parser) parseSwitchArm() ast.Handle {
	pos := p.pos()
	matchVal := p.parseExpr()
	p.expect(token.FATARROW)
	result := p.parseExpr()

	h := p.arena.New(ast.Case, pos)
	n := p.arena.Get(h)
	n.LHS, n.RHS = matchVal, result
	return h
}
