package parser

import (
	"github.com/nib-lang/nib/ident"
	"github.com/nib-lang/nib/lexer"
	"github.com/nib-lang/nib/nibErr"
	"github.com/nib-lang/nib/value"
)

// Precedence levels, low to high, exactly spec section 4.2's 11-row table
// (the unary row is handled directly in parseUnary rather than as a level
// here, since prefix operators are parsed on the way down, not climbed).
const (
	precOr = 1 + iota
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEq
	precRel
	precShift
	precAdd
	precMul
)

type binOpInfo struct {
	prec int
	op   value.BinOp
}

var binOpTable = map[lexer.TokenType]binOpInfo{
	lexer.OR:      {precOr, value.Or},
	lexer.AND:     {precAnd, value.And},
	lexer.PIPE:    {precBitOr, value.BitOr},
	lexer.CARET:   {precBitXor, value.BitXor},
	lexer.AMP:     {precBitAnd, value.BitAnd},
	lexer.EQ:      {precEq, value.Eq},
	lexer.NE:      {precEq, value.Ne},
	lexer.LT:      {precRel, value.Lt},
	lexer.LE:      {precRel, value.Le},
	lexer.GT:      {precRel, value.Gt},
	lexer.GE:      {precRel, value.Ge},
	lexer.SHL:     {precShift, value.Shl},
	lexer.SHR:     {precShift, value.Shr},
	lexer.PLUS:    {precAdd, value.Add},
	lexer.MINUS:   {precAdd, value.Sub},
	lexer.STAR:    {precMul, value.Mul},
	lexer.SLASH:   {precMul, value.Div},
	lexer.PERCENT: {precMul, value.Mod},
}

// parseExpr is precedence-climbing: it accepts any binary operator whose
// precedence is >= minPrec, recursing with prec+1 on the right-hand side
// so that same-precedence operators stay left-associative, per spec
// section 4.2.
func (p *Parser) parseExpr(minPrec int) ExprIdx {
	left := p.parseUnary()
	for {
		info, ok := binOpTable[p.cur.Type]
		if !ok || info.prec < minPrec {
			return left
		}
		pos := p.pos()
		p.advance()
		right := p.parseExpr(info.prec + 1)
		left = p.pool.Append(Expression{Kind: ExprBinary, Pos: pos, LHS: left, RHS: right, BinOp: info.op})
	}
}

var unaryOpTable = map[lexer.TokenType]value.UnaryOp{
	lexer.BANG:  value.Not,
	lexer.TILDE: value.BitNot,
	lexer.PLUS:  value.Pos,
	lexer.MINUS: value.Neg,
}

func (p *Parser) parseUnary() ExprIdx {
	if op, ok := unaryOpTable[p.cur.Type]; ok {
		pos := p.pos()
		p.advance()
		operand := p.parseUnary()
		return p.pool.Append(Expression{Kind: ExprUnary, Pos: pos, Operand: operand, UnaryOp: op})
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ExprIdx {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.INT_LIT:
		n, err := parseIntLiteral(p.cur.Literal)
		if err != nil {
			p.addErrorf("malformed integer literal %q", p.cur.Literal)
		}
		p.advance()
		return p.pool.Append(Expression{Kind: ExprLiteral, Pos: pos, Atom: Atom{Kind: AtomPrimitive, Prim: value.Int64(n)}})
	case lexer.TRUE:
		p.advance()
		return p.pool.Append(Expression{Kind: ExprLiteral, Pos: pos, Atom: Atom{Kind: AtomPrimitive, Prim: value.Bool(true)}})
	case lexer.FALSE:
		p.advance()
		return p.pool.Append(Expression{Kind: ExprLiteral, Pos: pos, Atom: Atom{Kind: AtomPrimitive, Prim: value.Bool(false)}})
	case lexer.LPAREN:
		p.advance()
		inner := p.parseExpr(0)
		p.expect(lexer.RPAREN)
		return inner
	case lexer.IDENT:
		name := p.cur.Literal
		h := p.interner.Intern(name)
		p.advance()
		if p.cur.Type == lexer.LPAREN {
			return p.parseCall(pos, h)
		}
		return p.pool.Append(Expression{Kind: ExprLiteral, Pos: pos, Atom: Atom{Kind: AtomVar, Var: h}})
	default:
		p.addErrorf("unexpected token %s %q in expression", p.cur.Type, p.cur.Literal)
		p.advance()
		return p.pool.Append(Expression{Kind: ExprLiteral, Pos: pos, Atom: Atom{Kind: AtomPrimitive, Prim: value.Int64(0)}})
	}
}

// parseCall parses the "(ARG, ...)" portion of a call expression; cur is
// LPAREN on entry.
func (p *Parser) parseCall(pos nibErr.Position, callee ident.Handle) ExprIdx {
	p.advance() // '('
	var args []ArgumentSpec
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		args = append(args, p.parseArgument())
		if p.cur.Type == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)
	return p.pool.Append(Expression{Kind: ExprLiteral, Pos: pos, Atom: Atom{Kind: AtomCall, Call: &CallExpr{Callee: callee, Args: args}}})
}

// parseArgument parses one call argument: a plain expression, a reference
// "&IDENT", or a lambda "(PARAMS) => { BODY }".
func (p *Parser) parseArgument() ArgumentSpec {
	if p.cur.Type == lexer.AMP {
		p.advance()
		if p.cur.Type != lexer.IDENT {
			p.addErrorf("'&' must be followed by a plain variable name, found %s", p.cur.Type)
			return ArgumentSpec{Kind: ArgByValue, Expr: p.pool.Append(Expression{Kind: ExprLiteral, Pos: p.pos(), Atom: Atom{Kind: AtomPrimitive, Prim: value.Int64(0)}})}
		}
		h := p.interner.Intern(p.cur.Literal)
		p.advance()
		return ArgumentSpec{Kind: ArgByRef, Ref: h}
	}
	if params, ok := p.tryParseLambdaHeader(); ok {
		body := p.parseBlock(true)
		return ArgumentSpec{Kind: ArgLambda, Params: params, Body: body}
	}
	e := p.parseExpr(0)
	return ArgumentSpec{Kind: ArgByValue, Expr: e}
}
