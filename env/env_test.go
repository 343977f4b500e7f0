package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nib-lang/nib/env"
	"github.com/nib-lang/nib/function"
	"github.com/nib-lang/nib/ident"
	"github.com/nib-lang/nib/nibErr"
	"github.com/nib-lang/nib/value"
)

var pos = nibErr.Position{Line: 1, Column: 1}

func newEnv(numHandles int) *env.Environment {
	e := env.New()
	e.Finalize(numHandles)
	return e
}

func TestDeclareThenGetVar(t *testing.T) {
	e := newEnv(1)
	require.NoError(t, e.DeclareVar(0, "a", value.Int64(1), pos))
	v, err := e.GetVar(0, "a", pos)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int)
}

func TestAssignInNestedScopeMutatesOuterBinding(t *testing.T) {
	e := newEnv(1)
	require.NoError(t, e.DeclareVar(0, "a", value.Int64(1), pos))
	e.OpenScope()
	require.NoError(t, e.AssignVar(0, "a", value.Int64(2), pos))
	e.CloseScope()
	v, err := e.GetVar(0, "a", pos)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Int, "assignment mutates in place even though declared in an outer scope")
}

func TestShadowingInNestedScope(t *testing.T) {
	e := newEnv(1)
	require.NoError(t, e.DeclareVar(0, "a", value.Int64(1), pos))
	e.OpenScope()
	require.NoError(t, e.DeclareVar(0, "a", value.Int64(99), pos))
	v, err := e.GetVar(0, "a", pos)
	require.NoError(t, err)
	assert.Equal(t, int64(99), v.Int)
	e.CloseScope()
	v, err = e.GetVar(0, "a", pos)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int, "closing the inner scope pops the shadow and exposes the outer binding again")
}

func TestRedeclarationInSameScopeIsAnError(t *testing.T) {
	e := newEnv(1)
	require.NoError(t, e.DeclareVar(0, "a", value.Int64(1), pos))
	err := e.DeclareVar(0, "a", value.Int64(2), pos)
	require.Error(t, err)
	nerr := err.(*nibErr.Error)
	assert.Equal(t, nibErr.ReDeclaration, nerr.Kind)
}

func TestVariableAndFunctionShareDeclarationNamespace(t *testing.T) {
	e := newEnv(1)
	require.NoError(t, e.DeclareVar(0, "a", value.Int64(1), pos))
	err := e.DeclareFunc(0, "a", function.New(nil, nil), pos)
	require.Error(t, err)
}

func TestCloseScopePopsCorrectStackForFunctionBinding(t *testing.T) {
	// Regression test for the close_scope stack-disambiguation fix: a
	// function binding closed at the same depth as a variable binding
	// must not be popped off the variable stack.
	e := newEnv(2)
	e.OpenScope()
	require.NoError(t, e.DeclareFunc(0, "f", function.New(nil, nil), pos))
	require.NoError(t, e.DeclareVar(1, "a", value.Int64(7), pos))
	e.CloseScope()
	_, err := e.GetFunc(0, "f", pos)
	require.Error(t, err)
	_, err = e.GetVar(1, "a", pos)
	require.Error(t, err)
}

func TestFunctionFrameHidesCallerLocalsButNotGlobals(t *testing.T) {
	e := newEnv(2)
	require.NoError(t, e.DeclareVar(0, "g", value.Int64(10), pos)) // global, depth 0
	e.OpenScope()
	require.NoError(t, e.DeclareVar(1, "local", value.Int64(20), pos)) // caller local, depth 1

	e.OpenFunctionFrame()
	_, err := e.GetVar(1, "local", pos)
	require.Error(t, err, "a callee frame must not see the caller's non-global locals")
	g, err := e.GetVar(0, "g", pos)
	require.NoError(t, err, "globals stay visible inside any function frame")
	assert.Equal(t, int64(10), g.Int)
	e.CloseFunctionFrame()

	v, err := e.GetVar(1, "local", pos)
	require.NoError(t, err)
	assert.Equal(t, int64(20), v.Int)
}

func TestGetRefIgnoresFloorForSnapshotting(t *testing.T) {
	e := newEnv(1)
	e.OpenScope()
	require.NoError(t, e.DeclareVar(0, "i", value.Int64(5), pos))
	e.OpenFunctionFrame()
	v, err := e.GetRef(0, "i", pos)
	require.NoError(t, err, "GetRef must see the caller's binding even though GetVar would refuse")
	assert.Equal(t, int64(5), v.Int)
	e.CloseFunctionFrame()
}

func TestNotDeclaredLookup(t *testing.T) {
	e := newEnv(1)
	_, err := e.GetVar(0, "missing", pos)
	require.Error(t, err)
	nerr := err.(*nibErr.Error)
	assert.Equal(t, nibErr.NotDeclared, nerr.Kind)
}

func TestFinalizeIsIdempotentAndGrowable(t *testing.T) {
	e := env.New()
	e.Finalize(1)
	require.NoError(t, e.DeclareVar(0, "a", value.Int64(1), pos))
	e.Finalize(3)
	require.NoError(t, e.DeclareVar(ident.Handle(2), "c", value.Int64(3), pos))
	v, err := e.GetVar(0, "a", pos)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int, "growing the environment must not disturb existing bindings")
}
