package statement

import (
	"github.com/aardwolf-fl/llvm-frontend/internal/access"
	"github.com/aardwolf-fl/llvm-frontend/internal/ir"
	"github.com/aardwolf-fl/llvm-frontend/internal/location"
	"github.com/aardwolf-fl/llvm-frontend/internal/repository"
)

// detected is the result of classifying and resolving a single
// instruction; ok is false when instr is not one of §4.4's recognized
// statement kinds.
type detected struct {
	ok     bool
	instr  ir.Value
	inputs *access.Set
	output *access.Access
	isArg  bool
	isRet  bool
	isCall bool
}

// runOnInstr implements §4.4's per-instruction classification
// (runOnInstr in the original): return, conditional branch, switch,
// invoke, store, and any call other than an llvm.dbg.* debug intrinsic
// become Statements with their kind-specific output; everything else
// is not a statement.
func runOnInstr(instr ir.Value) detected {
	switch ir.Classify(instr) {
	case ir.KindReturn:
		return detected{ok: true, instr: instr, inputs: findInputs(instr), isRet: true}

	case ir.KindCondBranch:
		return detected{ok: true, instr: instr, inputs: findInputs(instr)}

	case ir.KindSwitch:
		return detected{ok: true, instr: instr, inputs: findInputs(instr)}

	case ir.KindInvoke:
		return detected{ok: true, instr: instr, inputs: findInputs(instr), isCall: true}

	case ir.KindStore:
		d := detected{ok: true, instr: instr, inputs: findInputs(instr)}
		d.isArg = instr.Operand(0).IsArgument()
		if out, ok := valueAccess(instr.Operand(1)); ok {
			d.output = &out
		}
		return d

	case ir.KindCall:
		d := detected{ok: true, instr: instr, inputs: findInputs(instr), isCall: true}
		if !instr.IsVoidReturn() {
			out := access.NewScalar(instr)
			d.output = &out
		}
		return d

	default:
		return detected{ok: false}
	}
}

// buildStatement resolves a detected instruction's source location and
// assembles the final repository.Statement, or reports that the
// instruction should be silently skipped (spec.md §4.4's recoverable
// UnknownLocation failure).
func buildStatement(m *ir.Module, d detected) (repository.Statement, bool) {
	loc, err := location.Resolve(m, d.instr)
	if err != nil {
		return repository.Statement{}, false
	}

	return repository.Statement{
		Instr:    d.instr,
		Inputs:   d.inputs,
		Output:   d.output,
		Location: loc,
		IsArg:    d.isArg,
		IsRet:    d.isRet,
		IsCall:   d.isCall,
	}, true
}
