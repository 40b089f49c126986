package statement

import (
	"github.com/aardwolf-fl/llvm-frontend/internal/access"
	"github.com/aardwolf-fl/llvm-frontend/internal/ir"
)

// findInputs implements §4.4's "Use-set traversal (find_inputs)": a
// breadth-first backward traversal over SSA operands starting at instr.
// At each dequeued user, if it yields an Access (and is not the
// starting instruction), the Access is recorded and its operands are
// not descended into — the Access "absorbs" the subtree. A store node
// only enqueues its stored-value operand, excluding the destination
// from the use set by design. Every other user enqueues each operand
// that is itself an instruction, global variable, or constant
// expression.
func findInputs(instr ir.Value) *access.Set {
	result := access.NewSet(16)
	queue := []ir.Value{instr}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		if a, ok := valueAccess(u); u != instr && ok {
			result.Add(a)
			continue
		}

		if u.IsStore() {
			if in := u.Operand(0); isEnqueueable(in) {
				queue = append(queue, in)
			}
			continue
		}

		for i := 0; i < u.NumOperands(); i++ {
			op := u.Operand(i)
			if isEnqueueable(op) {
				queue = append(queue, op)
			}
		}
	}

	return result
}

// isEnqueueable mirrors the original's operand filter: only
// instructions, global variables, and constant expressions are worth
// continuing the backward traversal through.
func isEnqueueable(v ir.Value) bool {
	if v.IsNil() {
		return false
	}
	return v.IsInstruction() || v.IsGlobalVariable() || v.IsConstantExpr()
}
