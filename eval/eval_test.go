package eval_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nib-lang/nib/env"
	"github.com/nib-lang/nib/eval"
	"github.com/nib-lang/nib/nibErr"
	"github.com/nib-lang/nib/parser"
)

// run parses and evaluates src, returning everything written via print
// statements and any error Run produced.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	p := parser.New(src)
	prog, err := p.Parse()
	require.NoError(t, err)

	e := env.New()
	e.Finalize(prog.Interner.Len())

	var out strings.Builder
	ev := eval.New(e, prog.Pool, prog.Interner, &out)
	runErr := ev.Run(prog.Stmts)
	return out.String(), runErr
}

func TestScenarioA_ArithmeticPrecedence(t *testing.T) {
	out, err := run(t, "gimme a = 2 + 2 * 3; println a;")
	require.NoError(t, err)
	assert.Equal(t, "8\n", out)
}

func TestScenarioB_WhileLoopCompoundAssign(t *testing.T) {
	out, err := run(t, "gimme i = 0; while i < 10 { i += 1; } println i;")
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
}

func TestScenarioC_NestedIfElifElse(t *testing.T) {
	out, err := run(t, `if 2 != 2 { println 1; } elif 3 == 3 { if 4 != 4 { println 2; } else { println 3; } } else { println 4; }`)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestScenarioD_LambdaCall(t *testing.T) {
	out, err := run(t, "gimme f = (x, y) => { return x + y; }; println f(2, 3);")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestScenarioE_RedeclarationFails(t *testing.T) {
	_, err := run(t, "gimme a = 1; gimme a = 2;")
	require.Error(t, err)
	nerr := err.(*nibErr.Error)
	assert.Equal(t, nibErr.ReDeclaration, nerr.Kind)
}

func TestScenarioF_AssignToUndeclaredFails(t *testing.T) {
	_, err := run(t, "a = 3;")
	require.Error(t, err)
	nerr := err.(*nibErr.Error)
	assert.Equal(t, nibErr.NotDeclared, nerr.Kind)
}

func TestScenarioG_ByReferenceWriteBack(t *testing.T) {
	out, err := run(t, "gimme i = 0; gimme inc = (i) => { i = i + 1; }; inc(&i); println i;")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestScenarioH_TooManyArgumentsIsArityMismatch(t *testing.T) {
	_, err := run(t, "gimme f = (a) => { return a; }; println f(1, 2);")
	require.Error(t, err)
	nerr := err.(*nibErr.Error)
	assert.Equal(t, nibErr.ArityMismatch, nerr.Kind)
}

func TestCallingAVariableIsNotAFunction(t *testing.T) {
	_, err := run(t, "gimme a = 1; a();")
	require.Error(t, err)
	assert.Equal(t, nibErr.NotAFunction, err.(*nibErr.Error).Kind)
}

func TestTooFewArgumentsIsArityMismatch(t *testing.T) {
	_, err := run(t, "gimme f = (a, b) => { return a; }; println f(1);")
	require.Error(t, err)
	nerr := err.(*nibErr.Error)
	assert.Equal(t, nibErr.ArityMismatch, nerr.Kind)
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	_, err := run(t, "break;")
	require.Error(t, err)
	assert.Equal(t, nibErr.BreakOutsideLoop, err.(*nibErr.Error).Kind)
}

func TestContinueOutsideLoopIsError(t *testing.T) {
	_, err := run(t, "continue;")
	require.Error(t, err)
	assert.Equal(t, nibErr.ContinueOutsideLoop, err.(*nibErr.Error).Kind)
}

func TestReturnOutsideFunctionIsError(t *testing.T) {
	_, err := run(t, "return 1;")
	require.Error(t, err)
	assert.Equal(t, nibErr.ReturnOutsideFunction, err.(*nibErr.Error).Kind)
}

func TestShadowingInBlockRestoresOuterOnExit(t *testing.T) {
	out, err := run(t, "gimme a = 1; { gimme a = 2; println a; } println a;")
	require.NoError(t, err)
	assert.Equal(t, "2\n1\n", out)
}

func TestShortCircuitAndSkipsRightOperand(t *testing.T) {
	// 0 and (1 / 0) must not evaluate the division, since the left side
	// already determines falsiness.
	out, err := run(t, "gimme a = 0 and (1 / 0); println a;")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestShortCircuitOrSkipsRightOperand(t *testing.T) {
	out, err := run(t, "gimme a = 1 or (1 / 0); println a;")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestFrameIsolationHidesCallerLocals(t *testing.T) {
	_, err := run(t, `
		gimme f = () => {
			gimme local = 5;
			gimme g = () => { return local; };
			return g();
		};
		println f();
	`)
	require.Error(t, err, "g's frame must not see f's local, even though f calls g")
	assert.Equal(t, nibErr.NotDeclared, err.(*nibErr.Error).Kind)
}

func TestGlobalReachableInsideFunction(t *testing.T) {
	out, err := run(t, "gimme g = 42; gimme f = () => { return g; }; println f();")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestFunctionFrameFloorRestoredAfterCall(t *testing.T) {
	// After a call returns, the caller's own locals must still be visible.
	out, err := run(t, `
		{
			gimme outer = 9;
			gimme f = () => { return 1; };
			f();
			println outer;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "9\n", out)
}
