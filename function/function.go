// Package function holds the first-class function value. Grounded on the
// teacher's function.Function, with the closure-capture field (Scp
// *scope.Scope) dropped: this language's functions see only their own
// frame and the global scope, never an outer lexical scope (spec section
// 9), so there is nothing for a function value to capture at declaration
// time.
package function

import (
	"github.com/nib-lang/nib/ident"
	"github.com/nib-lang/nib/parser"
)

// Function is a structural-identity value: never mutated after
// construction, shareable by reference.
type Function struct {
	Params []ident.Handle
	Body   *parser.Scope
}

// New builds a Function value from a declaration's raw params and body.
func New(params []ident.Handle, body *parser.Scope) *Function {
	return &Function{Params: params, Body: body}
}
