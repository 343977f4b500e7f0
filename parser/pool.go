// Package parser turns token streams into statement trees backed by a
// flat, index-addressed expression pool, and interns every identifier it
// sees into a dense ident.Handle. AST, pool, and lowering are kept in one
// package (no separate "ast" package) to avoid an import cycle: function
// values hold a *Scope produced here, and the environment package needs
// function values, so this package must not import env (or function) —
// it is therefore self-contained.
package parser

import (
	"github.com/nib-lang/nib/ident"
	"github.com/nib-lang/nib/nibErr"
	"github.com/nib-lang/nib/value"
)

// ExprIdx is a position in a Pool. The zero value is a valid index (the
// first node ever appended); callers distinguish "no expression" with a
// separate bool/pointer rather than a sentinel index.
type ExprIdx int

// ExprKind tags which shape an Expression record has.
type ExprKind int

const (
	ExprLiteral ExprKind = iota
	ExprUnary
	ExprBinary
)

// AtomKind tags which shape a literal Atom has.
type AtomKind int

const (
	AtomPrimitive AtomKind = iota
	AtomVar
	AtomCall
)

// Atom is the payload of an ExprLiteral node.
type Atom struct {
	Kind AtomKind
	Prim value.Primitive
	Var  ident.Handle
	Call *CallExpr
}

// ArgKind tags which shape an ArgumentSpec has.
type ArgKind int

const (
	ArgByValue ArgKind = iota
	ArgByRef
	ArgLambda
)

// ArgumentSpec is one argument in a call's argument list.
type ArgumentSpec struct {
	Kind   ArgKind
	Expr   ExprIdx       // ArgByValue
	Ref    ident.Handle  // ArgByRef
	Params []ident.Handle // ArgLambda
	Body   *Scope        // ArgLambda
}

// CallExpr is a function-call literal: callee plus source-ordered args.
type CallExpr struct {
	Callee ident.Handle
	Args   []ArgumentSpec
}

// Expression is one node of the flat expression pool. Only the fields
// relevant to Kind are meaningful.
type Expression struct {
	Kind ExprKind
	Pos  nibErr.Position

	// ExprLiteral
	Atom Atom

	// ExprUnary
	Operand ExprIdx
	UnaryOp value.UnaryOp

	// ExprBinary
	LHS, RHS ExprIdx
	BinOp    value.BinOp
}

// Pool owns every expression node for one program in a single flat slice,
// per spec section 4.1: O(1) append-and-return-index, O(1) index lookup.
type Pool struct {
	nodes []Expression
}

// NewPool returns an empty pool.
func NewPool() *Pool { return &Pool{} }

// Append adds e to the pool and returns its index.
func (p *Pool) Append(e Expression) ExprIdx {
	p.nodes = append(p.nodes, e)
	return ExprIdx(len(p.nodes) - 1)
}

// Get returns the node at idx. Indexing out of range is a programmer
// error, not a runtime user error, and panics like any out-of-range slice
// access.
func (p *Pool) Get(idx ExprIdx) *Expression {
	return &p.nodes[idx]
}

// Len reports how many nodes the pool holds.
func (p *Pool) Len() int { return len(p.nodes) }

// ShrinkToFit drops any excess append capacity, performed once after
// lowering completes.
func (p *Pool) ShrinkToFit() {
	trimmed := make([]Expression, len(p.nodes))
	copy(trimmed, p.nodes)
	p.nodes = trimmed
}
