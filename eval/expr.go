package eval

import (
	"github.com/nib-lang/nib/nibErr"
	"github.com/nib-lang/nib/parser"
	"github.com/nib-lang/nib/value"
)

func (e *Evaluator) evalExpr(idx parser.ExprIdx) (value.Primitive, error) {
	expr := e.Pool.Get(idx)
	switch expr.Kind {
	case parser.ExprLiteral:
		return e.evalAtom(expr.Atom, expr.Pos)

	case parser.ExprUnary:
		v, err := e.evalExpr(expr.Operand)
		if err != nil {
			return value.Primitive{}, err
		}
		return value.ApplyUnary(expr.UnaryOp, v), nil

	case parser.ExprBinary:
		l, err := e.evalExpr(expr.LHS)
		if err != nil {
			return value.Primitive{}, err
		}
		if expr.BinOp.IsLogical() {
			if expr.BinOp == value.And && !l.Truthy() {
				return l, nil
			}
			if expr.BinOp == value.Or && l.Truthy() {
				return l, nil
			}
		}
		r, err := e.evalExpr(expr.RHS)
		if err != nil {
			return value.Primitive{}, err
		}
		return value.ApplyBinary(expr.BinOp, l, r, expr.Pos)

	default:
		panic("eval: unhandled expression kind")
	}
}

func (e *Evaluator) evalAtom(a parser.Atom, pos nibErr.Position) (value.Primitive, error) {
	switch a.Kind {
	case parser.AtomPrimitive:
		return a.Prim, nil
	case parser.AtomVar:
		return e.Env.GetVar(a.Var, e.name(a.Var), pos)
	case parser.AtomCall:
		return e.evalCall(a.Call, pos)
	default:
		panic("eval: unhandled atom kind")
	}
}
