package eval

import (
	"fmt"
	"io"

	"github.com/nib-lang/nib/env"
	"github.com/nib-lang/nib/ident"
	"github.com/nib-lang/nib/nibErr"
	"github.com/nib-lang/nib/parser"
	"github.com/nib-lang/nib/value"
)

// Evaluator walks a parser.Program against one Environment, writing
// Output statements to Out.
type Evaluator struct {
	Env      *env.Environment
	Out      io.Writer
	Pool     *parser.Pool
	Interner *ident.Interner
}

// New returns an Evaluator for a freshly finalized environment.
func New(env *env.Environment, pool *parser.Pool, interner *ident.Interner, out io.Writer) *Evaluator {
	return &Evaluator{Env: env, Out: out, Pool: pool, Interner: interner}
}

func (e *Evaluator) name(h ident.Handle) string { return e.Interner.Name(h) }

// Run executes prog's top-level statements in order. A flow token
// (break/continue/return) escaping the outermost scope is an error, per
// original_source's run_code.
func (e *Evaluator) Run(stmts []parser.Stmt) error {
	for _, s := range stmts {
		flow, err := e.evalStmt(s)
		if err != nil {
			return err
		}
		if flow != nil {
			switch flow.Kind {
			case FlowBreak:
				return nibErr.New(nibErr.BreakOutsideLoop, s.Position(), "break outside a loop")
			case FlowContinue:
				return nibErr.New(nibErr.ContinueOutsideLoop, s.Position(), "continue outside a loop")
			case FlowReturn:
				return nibErr.New(nibErr.ReturnOutsideFunction, s.Position(), "return outside a function")
			}
		}
	}
	return nil
}

func (e *Evaluator) evalStmt(s parser.Stmt) (*Flow, error) {
	switch n := s.(type) {
	case *parser.ExprStmt:
		_, err := e.evalExpr(n.Expr)
		return nil, err

	case *parser.DeclVarStmt:
		v, err := e.evalExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return nil, e.Env.DeclareVar(n.Handle, e.name(n.Handle), v, n.Pos)

	case *parser.DeclFuncStmt:
		fn := newFunction(n.Params, n.Body)
		return nil, e.Env.DeclareFunc(n.Handle, e.name(n.Handle), fn, n.Pos)

	case *parser.AssignStmt:
		return nil, e.evalAssign(n)

	case *parser.Scope:
		return e.evalScope(n)

	case *parser.IfElseStmt:
		return e.evalIfElse(n)

	case *parser.WhileStmt:
		return e.evalWhile(n)

	case *parser.OutputStmt:
		v, err := e.evalExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		trailer := ""
		if n.Newline {
			trailer = "\n"
		}
		fmt.Fprintf(e.Out, "%s%s", v.String(), trailer)
		return nil, nil

	case *parser.BreakStmt:
		return &Flow{Kind: FlowBreak}, nil

	case *parser.ContinueStmt:
		return &Flow{Kind: FlowContinue}, nil

	case *parser.ReturnStmt:
		v, err := e.evalExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return &Flow{Kind: FlowReturn, Value: v}, nil

	default:
		panic(fmt.Sprintf("eval: unhandled statement type %T", s))
	}
}

// evalScope executes code in order, opening a new lexical scope first
// unless this is a function's own top-level body (which already runs
// inside the scope its call opened). The scope is always closed if it was
// opened, on every exit path including an error or a propagating flow
// token.
func (e *Evaluator) evalScope(s *parser.Scope) (flow *Flow, err error) {
	opened := !s.IsFunctionScope
	if opened {
		e.Env.OpenScope()
		defer e.Env.CloseScope()
	}
	for _, stmt := range s.Stmts {
		flow, err = e.evalStmt(stmt)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
	}
	return nil, nil
}

func (e *Evaluator) evalIfElse(n *parser.IfElseStmt) (*Flow, error) {
	for _, br := range n.Branches {
		cond, err := e.evalExpr(br.Cond)
		if err != nil {
			return nil, err
		}
		if cond.Truthy() {
			return e.evalScope(br.Body)
		}
	}
	if n.Else != nil {
		return e.evalScope(n.Else)
	}
	return nil, nil
}

func (e *Evaluator) evalWhile(n *parser.WhileStmt) (*Flow, error) {
	cond, err := e.evalExpr(n.Cond)
	if err != nil {
		return nil, err
	}
	for cond.Truthy() {
		flow, err := e.evalScope(n.Body)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			switch flow.Kind {
			case FlowBreak:
				return nil, nil
			case FlowReturn:
				return flow, nil
			case FlowContinue:
				// fall through to re-evaluating cond below
			}
		}
		cond, err = e.evalExpr(n.Cond)
		if err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (e *Evaluator) evalAssign(n *parser.AssignStmt) error {
	rhs, err := e.evalExpr(n.Expr)
	if err != nil {
		return err
	}
	newVal := rhs
	if n.Op != parser.AssignPlain {
		cur, err := e.Env.GetVar(n.Handle, e.name(n.Handle), n.Pos)
		if err != nil {
			return err
		}
		var op value.BinOp
		switch n.Op {
		case parser.AssignAdd:
			op = value.Add
		case parser.AssignSub:
			op = value.Sub
		case parser.AssignMul:
			op = value.Mul
		case parser.AssignDiv:
			op = value.Div
		}
		newVal, err = value.ApplyBinary(op, cur, rhs, n.Pos)
		if err != nil {
			return err
		}
	}
	return e.Env.AssignVar(n.Handle, e.name(n.Handle), newVal, n.Pos)
}
