package parser

import (
	"fmt"
	"strings"
)

// DumpProgram renders prog as an indented tree, the pool-walking
// replacement for the teacher's old PrintingVisitor (which walked a
// heap-linked, pre-pool AST that no longer exists in this design). Used by
// the root command's "--dump-ast" debug flag.
func DumpProgram(prog *Program) string {
	var b strings.Builder
	for _, s := range prog.Stmts {
		dumpStmt(&b, prog.Pool, s, 0)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func dumpStmt(b *strings.Builder, pool *Pool, s Stmt, depth int) {
	indent(b, depth)
	switch n := s.(type) {
	case *ExprStmt:
		fmt.Fprintf(b, "ExprStmt\n")
		dumpExpr(b, pool, n.Expr, depth+1)
	case *DeclVarStmt:
		fmt.Fprintf(b, "DeclVar(handle=%d)\n", n.Handle)
		dumpExpr(b, pool, n.Expr, depth+1)
	case *DeclFuncStmt:
		fmt.Fprintf(b, "DeclFunc(handle=%d, params=%v)\n", n.Handle, n.Params)
		dumpScope(b, pool, n.Body, depth+1)
	case *AssignStmt:
		fmt.Fprintf(b, "Assign(handle=%d, op=%d)\n", n.Handle, n.Op)
		dumpExpr(b, pool, n.Expr, depth+1)
	case *Scope:
		dumpScope(b, pool, n, depth)
	case *IfElseStmt:
		fmt.Fprintf(b, "IfElse\n")
		for _, br := range n.Branches {
			indent(b, depth+1)
			b.WriteString("Branch\n")
			dumpExpr(b, pool, br.Cond, depth+2)
			dumpScope(b, pool, br.Body, depth+2)
		}
		if n.Else != nil {
			indent(b, depth+1)
			b.WriteString("Else\n")
			dumpScope(b, pool, n.Else, depth+2)
		}
	case *WhileStmt:
		fmt.Fprintf(b, "While\n")
		dumpExpr(b, pool, n.Cond, depth+1)
		dumpScope(b, pool, n.Body, depth+1)
	case *OutputStmt:
		fmt.Fprintf(b, "Output(newline=%t)\n", n.Newline)
		dumpExpr(b, pool, n.Expr, depth+1)
	case *BreakStmt:
		b.WriteString("Break\n")
	case *ContinueStmt:
		b.WriteString("Continue\n")
	case *ReturnStmt:
		b.WriteString("Return\n")
		dumpExpr(b, pool, n.Expr, depth+1)
	default:
		fmt.Fprintf(b, "?%T\n", n)
	}
}

func dumpScope(b *strings.Builder, pool *Pool, s *Scope, depth int) {
	indent(b, depth)
	fmt.Fprintf(b, "Scope(fn=%t)\n", s.IsFunctionScope)
	for _, st := range s.Stmts {
		dumpStmt(b, pool, st, depth+1)
	}
}

func dumpExpr(b *strings.Builder, pool *Pool, idx ExprIdx, depth int) {
	e := pool.Get(idx)
	indent(b, depth)
	switch e.Kind {
	case ExprLiteral:
		switch e.Atom.Kind {
		case AtomPrimitive:
			fmt.Fprintf(b, "Literal(%s)\n", e.Atom.Prim.String())
		case AtomVar:
			fmt.Fprintf(b, "Var(handle=%d)\n", e.Atom.Var)
		case AtomCall:
			fmt.Fprintf(b, "Call(handle=%d, argc=%d)\n", e.Atom.Call.Callee, len(e.Atom.Call.Args))
			for _, a := range e.Atom.Call.Args {
				indent(b, depth+1)
				switch a.Kind {
				case ArgByValue:
					b.WriteString("ByValue\n")
					dumpExpr(b, pool, a.Expr, depth+2)
				case ArgByRef:
					fmt.Fprintf(b, "ByRef(handle=%d)\n", a.Ref)
				case ArgLambda:
					fmt.Fprintf(b, "Lambda(params=%v)\n", a.Params)
					dumpScope(b, pool, a.Body, depth+2)
				}
			}
		}
	case ExprUnary:
		fmt.Fprintf(b, "Unary(op=%d)\n", e.UnaryOp)
		dumpExpr(b, pool, e.Operand, depth+1)
	case ExprBinary:
		fmt.Fprintf(b, "Binary(op=%d)\n", e.BinOp)
		dumpExpr(b, pool, e.LHS, depth+1)
		dumpExpr(b, pool, e.RHS, depth+1)
	}
}
