// Package env implements the handle-indexed, depth-stamped scoping engine
// of spec section 4.3. It is grounded almost line-for-line on
// original_source/src/environment/environment.rs (scope_depth,
// variable_stacks, function_stacks, scope_stack, function_frame_depths),
// translated from Rust Vec/FxHashMap into Go slices and maps, with one
// deliberate fix: the original's close_scope only ever pops
// variable_mp, even when the popped binding was a function; this
// implementation pops whichever stack the popped scope_stack entry
// actually tags, per the invariant spec section 3 states explicitly.
//
// The teacher's own scope.Scope (a parent-chained map, supporting full
// lexical closures via Copy()) is not reused here: this language forbids
// closures over non-global frames, which a parent-chain cannot express
// without extra bookkeeping to suppress.
package env

import (
	"github.com/nib-lang/nib/function"
	"github.com/nib-lang/nib/ident"
	"github.com/nib-lang/nib/nibErr"
	"github.com/nib-lang/nib/value"
)

type binding[T any] struct {
	val   T
	depth int
}

type stackEntryKind int

const (
	entryVar stackEntryKind = iota
	entryFunc
)

type scopeEntry struct {
	handle ident.Handle
	kind   stackEntryKind
	depth  int
}

// Environment is the single scoping/binding store the evaluator mutates
// through its stack of activation frames.
type Environment struct {
	scopeDepth int

	variableStacks [][]binding[value.Primitive]
	functionStacks [][]binding[*function.Function]

	scopeStack []scopeEntry

	functionFrameDepths []int
}

// New returns an empty Environment. Finalize must be called once the
// number of interned handles is known, before any scope/frame operations.
func New() *Environment {
	return &Environment{}
}

// Finalize resizes the variable/function stacks to hold numHandles
// entries and, the first time it is called, seeds the function-frame
// floor with 0 so globals are visible everywhere. It is safe to call
// again after interning additional handles (growing the backing slices
// without disturbing existing bindings) — the REPL relies on this to
// extend the environment one line at a time.
func (e *Environment) Finalize(numHandles int) {
	for len(e.variableStacks) < numHandles {
		e.variableStacks = append(e.variableStacks, nil)
	}
	for len(e.functionStacks) < numHandles {
		e.functionStacks = append(e.functionStacks, nil)
	}
	if len(e.functionFrameDepths) == 0 {
		e.functionFrameDepths = append(e.functionFrameDepths, 0)
	}
}

// OpenScope increments the scope depth.
func (e *Environment) OpenScope() {
	e.scopeDepth++
}

// CloseScope pops every scope_stack entry recorded at the current depth,
// removing the matching binding from whichever stack (variable or
// function) it belongs to, then decrements the scope depth.
func (e *Environment) CloseScope() {
	for len(e.scopeStack) > 0 && e.scopeStack[len(e.scopeStack)-1].depth == e.scopeDepth {
		top := e.scopeStack[len(e.scopeStack)-1]
		e.scopeStack = e.scopeStack[:len(e.scopeStack)-1]
		switch top.kind {
		case entryVar:
			stack := e.variableStacks[top.handle]
			e.variableStacks[top.handle] = stack[:len(stack)-1]
		case entryFunc:
			stack := e.functionStacks[top.handle]
			e.functionStacks[top.handle] = stack[:len(stack)-1]
		}
	}
	e.scopeDepth--
}

// OpenFunctionFrame opens a new scope and marks its depth as the current
// function-visibility floor.
func (e *Environment) OpenFunctionFrame() {
	e.OpenScope()
	e.functionFrameDepths = append(e.functionFrameDepths, e.scopeDepth)
}

// CloseFunctionFrame closes the scope opened by the matching
// OpenFunctionFrame and pops the visibility floor.
func (e *Environment) CloseFunctionFrame() {
	e.CloseScope()
	e.functionFrameDepths = e.functionFrameDepths[:len(e.functionFrameDepths)-1]
}

func (e *Environment) floor() int {
	return e.functionFrameDepths[len(e.functionFrameDepths)-1]
}

// CanDeclare reports whether h has no binding, variable or function, at
// the current scope depth — variables and functions share one
// declaration namespace.
func (e *Environment) CanDeclare(h ident.Handle) bool {
	if vs := e.variableStacks[h]; len(vs) > 0 && vs[len(vs)-1].depth == e.scopeDepth {
		return false
	}
	if fs := e.functionStacks[h]; len(fs) > 0 && fs[len(fs)-1].depth == e.scopeDepth {
		return false
	}
	return true
}

// DeclareVar binds v to h at the current depth.
func (e *Environment) DeclareVar(h ident.Handle, name string, v value.Primitive, pos nibErr.Position) error {
	if !e.CanDeclare(h) {
		return nibErr.New(nibErr.ReDeclaration, pos, "%q is already declared in this scope", name)
	}
	e.variableStacks[h] = append(e.variableStacks[h], binding[value.Primitive]{val: v, depth: e.scopeDepth})
	e.scopeStack = append(e.scopeStack, scopeEntry{handle: h, kind: entryVar, depth: e.scopeDepth})
	return nil
}

// DeclareFunc binds f to h at the current depth.
func (e *Environment) DeclareFunc(h ident.Handle, name string, f *function.Function, pos nibErr.Position) error {
	if !e.CanDeclare(h) {
		return nibErr.New(nibErr.ReDeclaration, pos, "%q is already declared in this scope", name)
	}
	e.functionStacks[h] = append(e.functionStacks[h], binding[*function.Function]{val: f, depth: e.scopeDepth})
	e.scopeStack = append(e.scopeStack, scopeEntry{handle: h, kind: entryFunc, depth: e.scopeDepth})
	return nil
}

// GetVar returns the current binding for h, provided its depth is at or
// above the active function-frame floor. Depth-0 (global) bindings are
// always visible regardless of floor — the floor only ever hides a
// caller's intermediate, non-global locals from a callee.
func (e *Environment) GetVar(h ident.Handle, name string, pos nibErr.Position) (value.Primitive, error) {
	vs := e.variableStacks[h]
	if len(vs) == 0 {
		return value.Primitive{}, nibErr.New(nibErr.NotDeclared, pos, "%q is not declared", name)
	}
	top := vs[len(vs)-1]
	if top.depth != 0 && top.depth < e.floor() {
		return value.Primitive{}, nibErr.New(nibErr.NotDeclared, pos, "%q is not declared", name)
	}
	return top.val, nil
}

// GetRef is like GetVar but ignores the function-frame floor. It exists
// solely to let a caller's by-reference argument be snapshotted before a
// callee's frame hides it.
func (e *Environment) GetRef(h ident.Handle, name string, pos nibErr.Position) (value.Primitive, error) {
	vs := e.variableStacks[h]
	if len(vs) == 0 {
		return value.Primitive{}, nibErr.New(nibErr.NotDeclared, pos, "%q is not declared", name)
	}
	return vs[len(vs)-1].val, nil
}

// HasVar reports whether h currently resolves to a variable binding,
// subject to the same function-frame floor as GetVar. Used to tell a
// plain "not declared" call target apart from one that names a variable
// instead of a function.
func (e *Environment) HasVar(h ident.Handle) bool {
	vs := e.variableStacks[h]
	if len(vs) == 0 {
		return false
	}
	top := vs[len(vs)-1].depth
	return top == 0 || top >= e.floor()
}

// GetFunc is symmetric to GetVar for the function namespace.
func (e *Environment) GetFunc(h ident.Handle, name string, pos nibErr.Position) (*function.Function, error) {
	fs := e.functionStacks[h]
	if len(fs) == 0 {
		return nil, nibErr.New(nibErr.NotDeclared, pos, "%q is not declared", name)
	}
	top := fs[len(fs)-1]
	if top.depth != 0 && top.depth < e.floor() {
		return nil, nibErr.New(nibErr.NotDeclared, pos, "%q is not declared", name)
	}
	return top.val, nil
}

// AssignVar mutates the top variable binding for h. It ignores the
// function-frame floor so that by-reference parameter write-back (spec
// section 4.6) can reach a binding below the caller's own floor.
func (e *Environment) AssignVar(h ident.Handle, name string, v value.Primitive, pos nibErr.Position) error {
	vs := e.variableStacks[h]
	if len(vs) == 0 {
		return nibErr.New(nibErr.NotDeclared, pos, "%q is not declared", name)
	}
	vs[len(vs)-1].val = v
	return nil
}
