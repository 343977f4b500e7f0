// Package eval implements the recursive evaluator: statement execution
// (spec section 4.4), expression evaluation (section 4.5), and function
// invocation (section 4.6). Grounded on the teacher's eval.Evaluator
// (Writer io.Writer field, panic-free error propagation via return
// values) and, for the top-level driver, original_source/src/lib.rs's
// run_code (flow tokens escaping the program's outermost scope become
// errors).
package eval

import "github.com/nib-lang/nib/value"

// FlowKind tags what an Evaluator's flow-token result means.
type FlowKind int

const (
	FlowNone FlowKind = iota
	FlowBreak
	FlowContinue
	FlowReturn
)

// Flow is the Option<FlowToken> of spec section 4.4; a nil *Flow means
// normal completion.
type Flow struct {
	Kind  FlowKind
	Value value.Primitive
}
