package eval

import (
	"github.com/nib-lang/nib/function"
	"github.com/nib-lang/nib/ident"
	"github.com/nib-lang/nib/nibErr"
	"github.com/nib-lang/nib/parser"
	"github.com/nib-lang/nib/value"
)

// newFunction builds a runtime function.Function from the raw params/body
// a DeclFuncStmt or lambda ArgumentSpec carries. Construction is deferred
// to evaluation time (rather than happening in the parser) because
// function.Function's Body references parser.Scope, and env.Environment
// (which the parser must not import, to avoid a cycle through
// function->parser) stores *function.Function — only eval legitimately
// imports both packages.
func newFunction(params []ident.Handle, body *parser.Scope) *function.Function {
	return function.New(params, body)
}

type refBinding struct {
	paramHandle  ident.Handle
	callerHandle ident.Handle
}

// evalCall implements the ten-step function invocation protocol of spec
// section 4.6. One resolved ambiguity: step 5's "by-reference arguments
// are declared under the caller's handle name" is implemented as binding
// under the *parameter's own* handle (so the body refers to it by the
// parameter's name, like any other parameter) while remembering the
// caller's original handle for the write-back in steps 7-9 — the reading
// that makes the ByRef/write-back machinery actually usable from inside
// the callee body.
func (e *Evaluator) evalCall(call *parser.CallExpr, pos nibErr.Position) (value.Primitive, error) {
	calleeName := e.name(call.Callee)
	fn, err := e.Env.GetFunc(call.Callee, calleeName, pos)
	if err != nil {
		if e.Env.HasVar(call.Callee) {
			return value.Primitive{}, nibErr.New(nibErr.NotAFunction, pos, "%q is a variable, not a function", calleeName)
		}
		return value.Primitive{}, err
	}

	if len(call.Args) < len(fn.Params) {
		return value.Primitive{}, nibErr.New(nibErr.ArityMismatch, pos, "too few arguments to %q: expected %d, got %d", calleeName, len(fn.Params), len(call.Args))
	}
	if len(call.Args) > len(fn.Params) {
		return value.Primitive{}, nibErr.New(nibErr.ArityMismatch, pos, "too many arguments to %q: expected %d, got %d", calleeName, len(fn.Params), len(call.Args))
	}

	type pending struct {
		isLambda bool
		lambda   *function.Function
		isRef    bool
		refFrom  ident.Handle
		val      value.Primitive
	}

	precomputed := make([]pending, len(call.Args))
	for i, arg := range call.Args {
		switch arg.Kind {
		case parser.ArgByValue:
			v, err := e.evalExpr(arg.Expr)
			if err != nil {
				return value.Primitive{}, err
			}
			precomputed[i] = pending{val: v}
		case parser.ArgByRef:
			v, err := e.Env.GetRef(arg.Ref, e.name(arg.Ref), pos)
			if err != nil {
				return value.Primitive{}, err
			}
			precomputed[i] = pending{isRef: true, refFrom: arg.Ref, val: v}
		case parser.ArgLambda:
			precomputed[i] = pending{isLambda: true, lambda: newFunction(arg.Params, arg.Body)}
		}
	}

	e.Env.OpenFunctionFrame()

	var refs []refBinding
	for i, param := range fn.Params {
		p := precomputed[i]
		var declErr error
		switch {
		case p.isLambda:
			declErr = e.Env.DeclareFunc(param, e.name(param), p.lambda, pos)
		default:
			declErr = e.Env.DeclareVar(param, e.name(param), p.val, pos)
			if p.isRef {
				refs = append(refs, refBinding{paramHandle: param, callerHandle: p.refFrom})
			}
		}
		if declErr != nil {
			e.Env.CloseFunctionFrame()
			return value.Primitive{}, declErr
		}
	}

	flow, err := e.evalScope(fn.Body)
	if err != nil {
		e.Env.CloseFunctionFrame()
		return value.Primitive{}, err
	}
	if flow != nil {
		switch flow.Kind {
		case FlowBreak:
			e.Env.CloseFunctionFrame()
			return value.Primitive{}, nibErr.New(nibErr.BreakOutsideLoop, pos, "break outside a loop")
		case FlowContinue:
			e.Env.CloseFunctionFrame()
			return value.Primitive{}, nibErr.New(nibErr.ContinueOutsideLoop, pos, "continue outside a loop")
		}
	}

	readbacks := make([]value.Primitive, len(refs))
	for i, r := range refs {
		v, err := e.Env.GetRef(r.paramHandle, e.name(r.paramHandle), pos)
		if err != nil {
			e.Env.CloseFunctionFrame()
			return value.Primitive{}, err
		}
		readbacks[i] = v
	}

	e.Env.CloseFunctionFrame()

	for i, r := range refs {
		if err := e.Env.AssignVar(r.callerHandle, e.name(r.callerHandle), readbacks[i], pos); err != nil {
			return value.Primitive{}, err
		}
	}

	if flow != nil && flow.Kind == FlowReturn {
		return flow.Value, nil
	}
	return value.Void(), nil
}
